package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neighborly/internal/matching"
	"neighborly/pkg/types"

	"github.com/go-playground/validator/v10"
)

// NeedService runs the need approval workflow: members submit needs in
// PENDING, a leader moves each one to ACTIVE or REJECTED exactly once.
type NeedService struct {
	needs    NeedStore
	profiles ProfileStore
	notifier Notifier
	validate *validator.Validate
}

func NewNeedService(needs NeedStore, profiles ProfileStore, notifier Notifier) *NeedService {
	return &NeedService{
		needs:    needs,
		profiles: profiles,
		notifier: notifier,
		validate: validator.New(),
	}
}

// Submit validates the input and persists a new need in PENDING. The need is
// invisible to volunteers until a leader approves it.
func (s *NeedService) Submit(ctx context.Context, creatorID string, input types.SubmitNeedInput) (*types.Need, error) {

	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidInput, err)
	}

	need := &types.Need{
		OrganizationID: input.OrganizationID,
		CreatorID:      creatorID,
		Title:          input.Title,
		Description:    input.Description,
		RequiredGifts:  input.RequiredGifts,
		Location:       input.Location,
		Urgency:        types.NeedUrgencyASAP,
		Recurrence:     input.Recurrence,
		PeopleNeeded:   input.PeopleNeeded,
		AutoAccept:     input.AutoAccept,
		Status:         types.NeedStatusPending,
	}

	if need.RequiredGifts == nil {
		need.RequiredGifts = []string{}
	}

	if input.Urgency != "" {
		need.Urgency = types.NeedUrgency(input.Urgency)
	}

	if need.PeopleNeeded == 0 {
		need.PeopleNeeded = 1
	}

	if input.SpecificTime != nil {
		t, err := time.Parse(time.RFC3339, *input.SpecificTime)
		if err != nil {
			return nil, fmt.Errorf("%w: specific_time must be RFC3339", types.ErrInvalidInput)
		}
		need.SpecificTime = &t
	}

	if err := s.needs.CreateNeed(ctx, need); err != nil {
		return nil, err
	}

	return need, nil
}

// Approve moves a pending need to ACTIVE. changed=false means another leader
// already decided the need; the caller should refresh rather than retry.
func (s *NeedService) Approve(ctx context.Context, needID, actorID string) (bool, error) {
	return s.decide(ctx, needID, actorID, types.NeedStatusActive)
}

// Reject moves a pending need to REJECTED.
func (s *NeedService) Reject(ctx context.Context, needID, actorID string) (bool, error) {
	return s.decide(ctx, needID, actorID, types.NeedStatusRejected)
}

func (s *NeedService) decide(ctx context.Context, needID, actorID string, to types.NeedStatus) (bool, error) {

	// The leader check runs before the need lookup so a non-leader learns
	// nothing about whether the need exists. Only a missing profile means
	// unauthorized; a store failure stays a retryable failure.
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

	need, err := s.needs.Need(ctx, needID)
	if err != nil {
		return false, err
	}

	if need.OrganizationID != actor.OrganizationID {
		return false, types.ErrNotAuthorized
	}

	changed, err := s.needs.TransitionStatus(ctx, needID, types.NeedStatusPending, to, actorID)
	if err != nil {
		return false, err
	}

	if changed && to == types.NeedStatusActive {
		s.notifyApproved(ctx, need, actor)
	}

	return changed, nil
}

// NeedVisibleTo reports whether a need may be shown to the viewer. Active
// needs are visible to every member; pending and rejected needs only to
// their creator and to leaders of the need's organization.
func NeedVisibleTo(need *types.Need, viewer *types.Profile) bool {
	if need.Status == types.NeedStatusActive {
		return true
	}
	if viewer == nil {
		return false
	}
	if viewer.ID == need.CreatorID {
		return true
	}
	return viewer.IsLeader && viewer.OrganizationID == need.OrganizationID
}

// notifyApproved tells the creator their need is live, then tells org
// members whose declared gifts match the need's requirements.
func (s *NeedService) notifyApproved(ctx context.Context, need *types.Need, actor *types.Profile) {

	payload := types.NotificationPayload{
		NeedID:    need.ID,
		NeedTitle: need.Title,
		ActorID:   actor.ID,
		ActorName: actor.DisplayName,
	}

	s.notifier.Dispatch(ctx, types.EventNeedApproved, payload, []string{need.CreatorID})

	members, err := s.profiles.ProfilesByOrganization(ctx, need.OrganizationID)
	if err != nil {
		// Best-effort: the approval already happened.
		return
	}

	var matched []string
	for _, member := range members {
		if member.ID == need.CreatorID {
			continue
		}
		if matching.Match(member.Gifts, need.RequiredGifts).IsMatch {
			matched = append(matched, member.ID)
		}
	}

	s.notifier.Dispatch(ctx, types.EventNeedMatchesGifting, payload, matched)
}
