package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"neighborly/internal/workflow"
	"neighborly/pkg/types"
)

// memStore is an in-memory stand-in for the pgx repositories. It mirrors
// the store's concurrency contract: status changes are compare-and-set and
// the active-pair uniqueness guard is enforced atomically at insert.
type memStore struct {
	mu          sync.Mutex
	nextID      int
	needs       map[string]*types.Need
	commitments map[string]*types.Commitment
	profiles    map[string]*types.Profile
}

func newMemStore() *memStore {
	return &memStore{
		needs:       make(map[string]*types.Need),
		commitments: make(map[string]*types.Commitment),
		profiles:    make(map[string]*types.Profile),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) addProfile(p *types.Profile) *types.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return p
}

func (m *memStore) addNeed(n *types.Need) *types.Need {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = m.id("need")
	}
	m.needs[n.ID] = n
	return n
}

func (m *memStore) Need(ctx context.Context, needID string) (*types.Need, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	need, ok := m.needs[needID]
	if !ok {
		return nil, types.ErrNeedNotFound
	}
	copy := *need
	return &copy, nil
}

func (m *memStore) CreateNeed(ctx context.Context, need *types.Need) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	need.ID = m.id("need")
	need.CreatedAt = time.Now()
	need.UpdatedAt = need.CreatedAt
	copy := *need
	m.needs[need.ID] = &copy
	return nil
}

func (m *memStore) TransitionStatus(ctx context.Context, needID string, from, to types.NeedStatus, actorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	need, ok := m.needs[needID]
	if !ok || need.Status != from {
		return false, nil
	}
	need.Status = to
	need.DecidedBy = &actorID
	now := time.Now()
	need.DecidedAt = &now
	return true, nil
}

func (m *memStore) Commitment(ctx context.Context, commitmentID string) (*types.Commitment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	commitment, ok := m.commitments[commitmentID]
	if !ok {
		return nil, types.ErrCommitmentNotFound
	}
	copy := *commitment
	return &copy, nil
}

func (m *memStore) ActiveCommitment(ctx context.Context, needID, volunteerID string) (*types.Commitment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.commitments {
		if c.NeedID == needID && c.VolunteerID == volunteerID && c.Status.Active() {
			copy := *c
			return &copy, nil
		}
	}
	return nil, types.ErrCommitmentNotFound
}

func (m *memStore) CreateCommitment(ctx context.Context, commitment *types.Commitment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.commitments {
		if c.NeedID == commitment.NeedID && c.VolunteerID == commitment.VolunteerID && c.Status.Active() {
			return types.ErrAlreadyCommitted
		}
	}
	commitment.ID = m.id("commitment")
	commitment.CreatedAt = time.Now()
	commitment.UpdatedAt = commitment.CreatedAt
	copy := *commitment
	m.commitments[commitment.ID] = &copy
	return nil
}

func (m *memStore) TransitionCommitmentStatus(ctx context.Context, commitmentID string, from []types.CommitmentStatus, to types.CommitmentStatus, actorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	commitment, ok := m.commitments[commitmentID]
	if !ok {
		return false, nil
	}
	matched := false
	for _, f := range from {
		if commitment.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	commitment.Status = to
	commitment.DecidedBy = &actorID
	if to == types.CommitmentStatusCancelled {
		now := time.Now()
		commitment.CancelledAt = &now
	}
	return true, nil
}

func (m *memStore) CountByStatus(ctx context.Context, needID string, statuses []types.CommitmentStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.commitments {
		if c.NeedID != needID {
			continue
		}
		for _, s := range statuses {
			if c.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

func (m *memStore) Profile(ctx context.Context, profileID string) (*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[profileID]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	copy := *profile
	return &copy, nil
}

func (m *memStore) LeadersByOrganization(ctx context.Context, organizationID string) ([]*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var leaders []*types.Profile
	for _, p := range m.profiles {
		if p.OrganizationID == organizationID && p.IsLeader {
			copy := *p
			leaders = append(leaders, &copy)
		}
	}
	return leaders, nil
}

func (m *memStore) ProfilesByOrganization(ctx context.Context, organizationID string) ([]*types.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var profiles []*types.Profile
	for _, p := range m.profiles {
		if p.OrganizationID == organizationID {
			copy := *p
			profiles = append(profiles, &copy)
		}
	}
	return profiles, nil
}

// commitmentStoreAdapter renames TransitionCommitmentStatus to the
// CommitmentStore interface's TransitionStatus, since memStore already uses
// that name for needs.
type commitmentStoreAdapter struct {
	*memStore
}

func (a commitmentStoreAdapter) TransitionStatus(ctx context.Context, commitmentID string, from []types.CommitmentStatus, to types.CommitmentStatus, actorID string) (bool, error) {
	return a.TransitionCommitmentStatus(ctx, commitmentID, from, to, actorID)
}

var errProfileStoreDown = errors.New("profile store unreachable")

// unreachableProfileStore fails every profile lookup, simulating a store
// outage rather than a missing row.
type unreachableProfileStore struct {
	*memStore
}

func (unreachableProfileStore) Profile(ctx context.Context, profileID string) (*types.Profile, error) {
	return nil, errProfileStoreDown
}

type dispatched struct {
	EventType  types.EventType
	Payload    types.NotificationPayload
	Recipients []string
}

// recordingNotifier captures dispatches for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []dispatched
}

func (r *recordingNotifier) Dispatch(ctx context.Context, eventType types.EventType, payload types.NotificationPayload, recipientIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, dispatched{EventType: eventType, Payload: payload, Recipients: recipientIDs})
}

func (r *recordingNotifier) byType(eventType types.EventType) []dispatched {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dispatched
	for _, e := range r.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

var _ workflow.NeedStore = (*memStore)(nil)
var _ workflow.CommitmentStore = commitmentStoreAdapter{}
var _ workflow.ProfileStore = (*memStore)(nil)
var _ workflow.ProfileStore = unreachableProfileStore{}
var _ workflow.Notifier = (*recordingNotifier)(nil)
