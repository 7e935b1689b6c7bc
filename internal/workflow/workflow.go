// Package workflow holds the lifecycle rules for needs and commitments.
// Every operation takes the acting user's id explicitly; nothing in here
// reads identity from ambient state. All status changes go through
// compare-and-set store updates, so two racing actors resolve to exactly
// one changed=true and one changed=false, never a lost update.
package workflow

import (
	"context"

	"neighborly/pkg/types"
)

// NeedStore is the slice of the need repository the workflows use.
type NeedStore interface {
	Need(ctx context.Context, needID string) (*types.Need, error)
	CreateNeed(ctx context.Context, need *types.Need) error
	TransitionStatus(ctx context.Context, needID string, from, to types.NeedStatus, actorID string) (bool, error)
}

type CommitmentStore interface {
	Commitment(ctx context.Context, commitmentID string) (*types.Commitment, error)
	ActiveCommitment(ctx context.Context, needID, volunteerID string) (*types.Commitment, error)
	CreateCommitment(ctx context.Context, commitment *types.Commitment) error
	TransitionStatus(ctx context.Context, commitmentID string, from []types.CommitmentStatus, to types.CommitmentStatus, actorID string) (bool, error)
	CountByStatus(ctx context.Context, needID string, statuses []types.CommitmentStatus) (int, error)
}

type ProfileStore interface {
	Profile(ctx context.Context, profileID string) (*types.Profile, error)
	LeadersByOrganization(ctx context.Context, organizationID string) ([]*types.Profile, error)
	ProfilesByOrganization(ctx context.Context, organizationID string) ([]*types.Profile, error)
}

// Notifier is the dispatch side of the notification fan-out. Implementations
// must swallow their own failures: a missed notification never fails the
// transition that produced it.
type Notifier interface {
	Dispatch(ctx context.Context, eventType types.EventType, payload types.NotificationPayload, recipientIDs []string)
}

func recipientIDs(profiles []*types.Profile) []string {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
