package workflow_test

import (
	"context"
	"testing"

	"neighborly/internal/workflow"
	"neighborly/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commitmentFixture struct {
	store    *memStore
	notifier *recordingNotifier
	svc      *workflow.CommitmentService
	need     *types.Need
}

func newCommitmentFixture(t *testing.T) *commitmentFixture {
	t.Helper()

	store := newMemStore()
	notifier := &recordingNotifier{}
	svc := workflow.NewCommitmentService(store, commitmentStoreAdapter{store}, store, notifier)

	store.addProfile(&types.Profile{ID: "leader-1", OrganizationID: "org-1", DisplayName: "Ava", IsLeader: true})
	store.addProfile(&types.Profile{ID: "leader-2", OrganizationID: "org-1", DisplayName: "Liam", IsLeader: true})
	store.addProfile(&types.Profile{ID: "leader-3", OrganizationID: "org-1", DisplayName: "Emma", IsLeader: true})
	store.addProfile(&types.Profile{ID: "vol-1", OrganizationID: "org-1", DisplayName: "Noah", Gifts: []string{"cooking", "logistics"}})
	store.addProfile(&types.Profile{ID: "other-leader", OrganizationID: "org-2", DisplayName: "Zoe", IsLeader: true})

	need := store.addNeed(&types.Need{
		ID:             "need-1",
		OrganizationID: "org-1",
		CreatorID:      "creator-1",
		Title:          "Meal train",
		RequiredGifts:  []string{"Cooking"},
		PeopleNeeded:   2,
		Status:         types.NeedStatusActive,
	})

	return &commitmentFixture{store: store, notifier: notifier, svc: svc, need: need}
}

func TestRequestHelp(t *testing.T) {
	t.Run("creates pending commitment and notifies all leaders", func(t *testing.T) {
		f := newCommitmentFixture(t)

		commitment, err := f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		require.NoError(t, err)
		assert.Equal(t, types.CommitmentStatusPending, commitment.Status)

		signups := f.notifier.byType(types.EventVolunteerSignedUp)
		require.Len(t, signups, 1)
		assert.ElementsMatch(t, []string{"leader-1", "leader-2", "leader-3"}, signups[0].Recipients)
		assert.Equal(t, f.need.ID, signups[0].Payload.NeedID)
		assert.Equal(t, "Meal train", signups[0].Payload.NeedTitle)
		assert.Equal(t, "Noah", signups[0].Payload.ActorName)
	})

	t.Run("second request reports already committed", func(t *testing.T) {
		f := newCommitmentFixture(t)

		_, err := f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		require.NoError(t, err)

		_, err = f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		assert.ErrorIs(t, err, types.ErrAlreadyCommitted)
	})

	t.Run("pending need rejects volunteers and creates no row", func(t *testing.T) {
		f := newCommitmentFixture(t)

		pending := f.store.addNeed(&types.Need{
			ID:             "need-2",
			OrganizationID: "org-1",
			Title:          "Not yet approved",
			Status:         types.NeedStatusPending,
		})

		_, err := f.svc.RequestHelp(context.Background(), pending.ID, "vol-1")
		assert.ErrorIs(t, err, types.ErrNeedNotActive)

		count, err := f.store.CountByStatus(context.Background(), pending.ID,
			[]types.CommitmentStatus{types.CommitmentStatusPending, types.CommitmentStatusAccepted})
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("rejected need rejects volunteers", func(t *testing.T) {
		f := newCommitmentFixture(t)

		rejected := f.store.addNeed(&types.Need{
			ID:             "need-3",
			OrganizationID: "org-1",
			Title:          "Turned down",
			Status:         types.NeedStatusRejected,
		})

		_, err := f.svc.RequestHelp(context.Background(), rejected.ID, "vol-1")
		assert.ErrorIs(t, err, types.ErrNeedNotActive)
	})

	t.Run("auto-accept need creates commitment directly accepted", func(t *testing.T) {
		f := newCommitmentFixture(t)

		auto := f.store.addNeed(&types.Need{
			ID:             "need-4",
			OrganizationID: "org-1",
			Title:          "Low friction",
			AutoAccept:     true,
			Status:         types.NeedStatusActive,
		})

		commitment, err := f.svc.RequestHelp(context.Background(), auto.ID, "vol-1")
		require.NoError(t, err)
		assert.Equal(t, types.CommitmentStatusAccepted, commitment.Status)

		// Leaders still hear about the signup.
		assert.Len(t, f.notifier.byType(types.EventVolunteerSignedUp), 1)
	})
}

func TestCommitmentDecisions(t *testing.T) {
	request := func(t *testing.T, f *commitmentFixture) *types.Commitment {
		t.Helper()
		commitment, err := f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		require.NoError(t, err)
		return commitment
	}

	t.Run("leader accepts and volunteer is notified", func(t *testing.T) {
		f := newCommitmentFixture(t)
		commitment := request(t, f)

		changed, err := f.svc.Accept(context.Background(), commitment.ID, "leader-1")
		require.NoError(t, err)
		assert.True(t, changed)

		stored, err := f.store.Commitment(context.Background(), commitment.ID)
		require.NoError(t, err)
		assert.Equal(t, types.CommitmentStatusAccepted, stored.Status)

		accepted := f.notifier.byType(types.EventCommitmentAccepted)
		require.Len(t, accepted, 1)
		assert.Equal(t, []string{"vol-1"}, accepted[0].Recipients)
	})

	t.Run("accept is idempotent on a decided commitment", func(t *testing.T) {
		f := newCommitmentFixture(t)
		commitment := request(t, f)

		changed, err := f.svc.Accept(context.Background(), commitment.ID, "leader-1")
		require.NoError(t, err)
		require.True(t, changed)

		changed, err = f.svc.Accept(context.Background(), commitment.ID, "leader-2")
		require.NoError(t, err)
		assert.False(t, changed)

		stored, err := f.store.Commitment(context.Background(), commitment.ID)
		require.NoError(t, err)
		assert.Equal(t, types.CommitmentStatusAccepted, stored.Status)
		assert.Len(t, f.notifier.byType(types.EventCommitmentAccepted), 1)
	})

	t.Run("leader declines and volunteer is notified", func(t *testing.T) {
		f := newCommitmentFixture(t)
		commitment := request(t, f)

		changed, err := f.svc.Decline(context.Background(), commitment.ID, "leader-1")
		require.NoError(t, err)
		assert.True(t, changed)

		declined := f.notifier.byType(types.EventCommitmentDeclined)
		require.Len(t, declined, 1)
		assert.Equal(t, []string{"vol-1"}, declined[0].Recipients)
	})

	t.Run("profile store outage is not reported as unauthorized", func(t *testing.T) {
		f := newCommitmentFixture(t)
		commitment := request(t, f)

		svc := workflow.NewCommitmentService(f.store, commitmentStoreAdapter{f.store},
			unreachableProfileStore{f.store}, f.notifier)

		_, err := svc.Accept(context.Background(), commitment.ID, "leader-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrNotAuthorized)
		assert.ErrorIs(t, err, errProfileStoreDown)
	})

	t.Run("volunteer cannot accept their own commitment", func(t *testing.T) {
		f := newCommitmentFixture(t)
		commitment := request(t, f)

		_, err := f.svc.Accept(context.Background(), commitment.ID, "vol-1")
		assert.ErrorIs(t, err, types.ErrNotAuthorized)
	})

	t.Run("leader of another organization cannot decide", func(t *testing.T) {
		f := newCommitmentFixture(t)
		commitment := request(t, f)

		_, err := f.svc.Accept(context.Background(), commitment.ID, "other-leader")
		assert.ErrorIs(t, err, types.ErrNotAuthorized)
	})
}

func TestCancelCommitment(t *testing.T) {
	t.Run("volunteer cancels pending commitment and leaders hear", func(t *testing.T) {
		f := newCommitmentFixture(t)

		commitment, err := f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		require.NoError(t, err)

		changed, err := f.svc.Cancel(context.Background(), commitment.ID, "vol-1")
		require.NoError(t, err)
		assert.True(t, changed)

		stored, err := f.store.Commitment(context.Background(), commitment.ID)
		require.NoError(t, err)
		assert.Equal(t, types.CommitmentStatusCancelled, stored.Status)
		assert.NotNil(t, stored.CancelledAt)

		cancelled := f.notifier.byType(types.EventCommitmentCancelled)
		require.Len(t, cancelled, 1)
		assert.ElementsMatch(t, []string{"leader-1", "leader-2", "leader-3"}, cancelled[0].Recipients)
	})

	t.Run("only the owning volunteer may cancel", func(t *testing.T) {
		f := newCommitmentFixture(t)

		commitment, err := f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		require.NoError(t, err)

		_, err = f.svc.Cancel(context.Background(), commitment.ID, "leader-1")
		assert.ErrorIs(t, err, types.ErrNotAuthorized)
	})

	t.Run("cancel after decline reports changed=false", func(t *testing.T) {
		f := newCommitmentFixture(t)

		commitment, err := f.svc.RequestHelp(context.Background(), f.need.ID, "vol-1")
		require.NoError(t, err)

		_, err = f.svc.Decline(context.Background(), commitment.ID, "leader-1")
		require.NoError(t, err)

		changed, err := f.svc.Cancel(context.Background(), commitment.ID, "vol-1")
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

// Full journey: sign up, get accepted, cancel, sign up again now that the
// prior record is terminal.
func TestCommitmentEndToEnd(t *testing.T) {
	f := newCommitmentFixture(t)
	ctx := context.Background()

	commitment, err := f.svc.RequestHelp(ctx, f.need.ID, "vol-1")
	require.NoError(t, err)
	assert.Equal(t, types.CommitmentStatusPending, commitment.Status)
	require.Len(t, f.notifier.byType(types.EventVolunteerSignedUp), 1)

	changed, err := f.svc.Accept(ctx, commitment.ID, "leader-1")
	require.NoError(t, err)
	require.True(t, changed)
	require.Len(t, f.notifier.byType(types.EventCommitmentAccepted), 1)

	accepted, err := f.svc.AcceptedCount(ctx, f.need.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, accepted)

	changed, err = f.svc.Cancel(ctx, commitment.ID, "vol-1")
	require.NoError(t, err)
	require.True(t, changed)
	require.Len(t, f.notifier.byType(types.EventCommitmentCancelled), 1)

	accepted, err = f.svc.AcceptedCount(ctx, f.need.ID)
	require.NoError(t, err)
	assert.Zero(t, accepted)

	// Prior record is terminal, so a fresh request succeeds.
	second, err := f.svc.RequestHelp(ctx, f.need.ID, "vol-1")
	require.NoError(t, err)
	assert.NotEqual(t, commitment.ID, second.ID)
	assert.Equal(t, types.CommitmentStatusPending, second.Status)
}
