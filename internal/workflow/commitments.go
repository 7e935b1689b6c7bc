package workflow

import (
	"context"
	"errors"

	"neighborly/pkg/types"
)

// CommitmentService runs the commitment lifecycle. A volunteer's "I can
// help" creates a PENDING commitment (or ACCEPTED directly on auto-accept
// needs); the need's leaders accept or decline; the volunteer may cancel
// while the commitment is still pending or accepted.
type CommitmentService struct {
	needs       NeedStore
	commitments CommitmentStore
	profiles    ProfileStore
	notifier    Notifier
}

func NewCommitmentService(needs NeedStore, commitments CommitmentStore, profiles ProfileStore, notifier Notifier) *CommitmentService {
	return &CommitmentService{
		needs:       needs,
		commitments: commitments,
		profiles:    profiles,
		notifier:    notifier,
	}
}

// RequestHelp creates a commitment for (need, volunteer). The existing-row
// check only exists for the friendlier error; the partial unique index in
// the store is what actually prevents a duplicate under a race.
func (s *CommitmentService) RequestHelp(ctx context.Context, needID, volunteerID string) (*types.Commitment, error) {

	volunteer, err := s.profiles.Profile(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	need, err := s.needs.Need(ctx, needID)
	if err != nil {
		return nil, err
	}

	if need.Status != types.NeedStatusActive {
		return nil, types.ErrNeedNotActive
	}

	if _, err := s.commitments.ActiveCommitment(ctx, needID, volunteerID); err == nil {
		return nil, types.ErrAlreadyCommitted
	} else if !errors.Is(err, types.ErrCommitmentNotFound) {
		return nil, err
	}

	status := types.CommitmentStatusPending
	if need.AutoAccept {
		status = types.CommitmentStatusAccepted
	}

	commitment := &types.Commitment{
		NeedID:      needID,
		VolunteerID: volunteerID,
		Status:      status,
	}

	if err := s.commitments.CreateCommitment(ctx, commitment); err != nil {
		return nil, err
	}

	s.notifyLeaders(ctx, need, types.EventVolunteerSignedUp, types.NotificationPayload{
		NeedID:       need.ID,
		NeedTitle:    need.Title,
		CommitmentID: commitment.ID,
		ActorID:      volunteer.ID,
		ActorName:    volunteer.DisplayName,
	})

	return commitment, nil
}

// Accept confirms a pending commitment. Leader-gated. changed=false means
// the commitment already left PENDING.
func (s *CommitmentService) Accept(ctx context.Context, commitmentID, actorID string) (bool, error) {
	return s.decide(ctx, commitmentID, actorID, types.CommitmentStatusAccepted, types.EventCommitmentAccepted)
}

// Decline turns a pending commitment down. Leader-gated.
func (s *CommitmentService) Decline(ctx context.Context, commitmentID, actorID string) (bool, error) {
	return s.decide(ctx, commitmentID, actorID, types.CommitmentStatusDeclined, types.EventCommitmentDeclined)
}

func (s *CommitmentService) decide(ctx context.Context, commitmentID, actorID string, to types.CommitmentStatus, event types.EventType) (bool, error) {

	// Leader check first: a non-leader learns nothing about whether the
	// commitment exists. Only a missing profile means unauthorized; a store
	// failure stays a retryable failure.
	actor, err := s.profiles.Profile(ctx, actorID)
	if err != nil {
		if errors.Is(err, types.ErrProfileNotFound) {
			return false, types.ErrNotAuthorized
		}
		return false, err
	}
	if !actor.IsLeader {
		return false, types.ErrNotAuthorized
	}

	commitment, err := s.commitments.Commitment(ctx, commitmentID)
	if err != nil {
		return false, err
	}

	need, err := s.needs.Need(ctx, commitment.NeedID)
	if err != nil {
		return false, err
	}

	if need.OrganizationID != actor.OrganizationID {
		return false, types.ErrNotAuthorized
	}

	changed, err := s.commitments.TransitionStatus(ctx, commitmentID,
		[]types.CommitmentStatus{types.CommitmentStatusPending}, to, actorID)
	if err != nil {
		return false, err
	}

	if changed {
		s.notifier.Dispatch(ctx, event, types.NotificationPayload{
			NeedID:       need.ID,
			NeedTitle:    need.Title,
			CommitmentID: commitment.ID,
			ActorID:      actor.ID,
			ActorName:    actor.DisplayName,
		}, []string{commitment.VolunteerID})
	}

	return changed, nil
}

// Cancel withdraws the volunteer's own commitment while it is pending or
// accepted. Cancelling an already-terminal commitment reports changed=false.
func (s *CommitmentService) Cancel(ctx context.Context, commitmentID, volunteerID string) (bool, error) {

	commitment, err := s.commitments.Commitment(ctx, commitmentID)
	if err != nil {
		return false, err
	}

	if commitment.VolunteerID != volunteerID {
		return false, types.ErrNotAuthorized
	}

	changed, err := s.commitments.TransitionStatus(ctx, commitmentID,
		[]types.CommitmentStatus{types.CommitmentStatusPending, types.CommitmentStatusAccepted},
		types.CommitmentStatusCancelled, volunteerID)
	if err != nil {
		return false, err
	}

	if changed {
		need, err := s.needs.Need(ctx, commitment.NeedID)
		if err != nil {
			return true, nil
		}

		volunteer, err := s.profiles.Profile(ctx, volunteerID)
		if err != nil {
			return true, nil
		}

		s.notifyLeaders(ctx, need, types.EventCommitmentCancelled, types.NotificationPayload{
			NeedID:       need.ID,
			NeedTitle:    need.Title,
			CommitmentID: commitment.ID,
			ActorID:      volunteer.ID,
			ActorName:    volunteer.DisplayName,
		})
	}

	return changed, nil
}

// AcceptedCount recomputes a need's confirmed headcount from commitment
// rows. It is never cached on the need.
func (s *CommitmentService) AcceptedCount(ctx context.Context, needID string) (int, error) {
	return s.commitments.CountByStatus(ctx, needID, []types.CommitmentStatus{types.CommitmentStatusAccepted})
}

func (s *CommitmentService) notifyLeaders(ctx context.Context, need *types.Need, event types.EventType, payload types.NotificationPayload) {
	leaders, err := s.profiles.LeadersByOrganization(ctx, need.OrganizationID)
	if err != nil {
		// Best-effort: the transition already committed.
		return
	}

	s.notifier.Dispatch(ctx, event, payload, recipientIDs(leaders))
}
