package store

import (
	"context"
	"fmt"
	"time"

	"neighborly/internal/utils"
	"neighborly/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commitmentTableName = "neighborly.commitments"

var commitmentColumns = utils.StructTagValues(types.Commitment{})

type CommitmentRepository struct {
	pool *pgxpool.Pool
}

func NewCommitmentRepository(pool *pgxpool.Pool) *CommitmentRepository {
	return &CommitmentRepository{pool: pool}
}

func (r *CommitmentRepository) Commitment(ctx context.Context, commitmentID string) (*types.Commitment, error) {

	query, args, err := psql().Select(commitmentColumns...).From(commitmentTableName).
		Where(sq.Eq{"id": commitmentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate commitment query: %w", err)
	}

	var commitment types.Commitment
	err = pgxscan.Get(ctx, r.pool, &commitment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCommitmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch commitment: %w", err)
	}

	return &commitment, nil
}

// ActiveCommitment returns the non-terminal commitment for a (need,
// volunteer) pair, or ErrCommitmentNotFound. Used as the advisory pre-check
// before insert; the partial unique index is the authoritative guard.
func (r *CommitmentRepository) ActiveCommitment(ctx context.Context, needID, volunteerID string) (*types.Commitment, error) {

	query, args, err := psql().Select(commitmentColumns...).From(commitmentTableName).
		Where(sq.Eq{
			"need_id":      needID,
			"volunteer_id": volunteerID,
			"status":       []types.CommitmentStatus{types.CommitmentStatusPending, types.CommitmentStatusAccepted},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate active commitment query: %w", err)
	}

	var commitment types.Commitment
	err = pgxscan.Get(ctx, r.pool, &commitment, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCommitmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch active commitment: %w", err)
	}

	return &commitment, nil
}

func (r *CommitmentRepository) CommitmentsByNeed(ctx context.Context, needID string) ([]*types.Commitment, error) {

	query, args, err := psql().Select(commitmentColumns...).From(commitmentTableName).
		Where(sq.Eq{"need_id": needID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate commitments-by-need query: %w", err)
	}

	var commitments = make([]*types.Commitment, 0)
	err = pgxscan.Select(ctx, r.pool, &commitments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commitments by need: %w", err)
	}

	return commitments, nil
}

func (r *CommitmentRepository) CommitmentsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Commitment, error) {

	query, args, err := psql().Select(commitmentColumns...).From(commitmentTableName).
		Where(sq.Eq{"volunteer_id": volunteerID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate commitments-by-volunteer query: %w", err)
	}

	var commitments = make([]*types.Commitment, 0)
	err = pgxscan.Select(ctx, r.pool, &commitments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commitments by volunteer: %w", err)
	}

	return commitments, nil
}

// CreateCommitment inserts a new commitment. A violation of the partial
// unique index on (need_id, volunteer_id) for active rows surfaces as
// types.ErrAlreadyCommitted.
func (r *CommitmentRepository) CreateCommitment(ctx context.Context, commitment *types.Commitment) error {

	now := time.Now()
	commitment.ID = utils.NanoID()
	commitment.CreatedAt = now
	commitment.UpdatedAt = now

	commitmentMap := utils.StructToMap(commitment)

	query, args, err := psql().Insert(commitmentTableName).SetMap(commitmentMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert commitment query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrAlreadyCommitted
		}
		return fmt.Errorf("failed to create commitment: %w", err)
	}

	return nil
}

// TransitionStatus compare-and-sets a commitment's status. Zero rows
// affected means the row already left one of the from statuses; reported as
// changed=false, not an error.
func (r *CommitmentRepository) TransitionStatus(ctx context.Context, commitmentID string, from []types.CommitmentStatus, to types.CommitmentStatus, actorID string) (bool, error) {

	now := time.Now()
	update := psql().Update(commitmentTableName).
		Set("status", to).
		Set("decided_by", actorID).
		Set("updated_at", now)

	if to == types.CommitmentStatusCancelled {
		update = update.Set("cancelled_at", now)
	}

	query, args, err := update.
		Where(sq.Eq{"id": commitmentID, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate commitment transition query for commitment %s: %w", commitmentID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, utils.ErrorWrapOrNil(err, "failed to transition commitment")
	}

	return tag.RowsAffected() > 0, nil
}

// CountByStatus recomputes the headcount for a need by counting rows. The
// count is never stored on the need itself.
func (r *CommitmentRepository) CountByStatus(ctx context.Context, needID string, statuses []types.CommitmentStatus) (int, error) {

	query, args, err := psql().Select("count(*)").From(commitmentTableName).
		Where(sq.Eq{"need_id": needID, "status": statuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate commitment count query: %w", err)
	}

	var count int
	err = pgxscan.Get(ctx, r.pool, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count commitments: %w", err)
	}

	return count, nil
}
