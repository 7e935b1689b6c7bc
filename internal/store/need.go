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

const needTableName = "neighborly.needs"

var needColumns = utils.StructTagValues(types.Need{})

type NeedRepository struct {
	pool *pgxpool.Pool
}

func NewNeedRepository(pool *pgxpool.Pool) *NeedRepository {
	return &NeedRepository{pool: pool}
}

func (r *NeedRepository) Need(ctx context.Context, needID string) (*types.Need, error) {

	query, args, err := psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"id": needID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate need query: %w", err)
	}

	var need types.Need
	err = pgxscan.Get(ctx, r.pool, &need, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrNeedNotFound
		}
		return nil, fmt.Errorf("failed to fetch need: %w", err)
	}

	return &need, nil
}

func (r *NeedRepository) NeedsByStatus(ctx context.Context, status types.NeedStatus) ([]*types.Need, error) {

	query, args, err := psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate needs-by-status query: %w", err)
	}

	var needs = make([]*types.Need, 0)
	err = pgxscan.Select(ctx, r.pool, &needs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch needs by status: %w", err)
	}

	return needs, nil
}

func (r *NeedRepository) NeedsByCreator(ctx context.Context, creatorID string) ([]*types.Need, error) {

	query, args, err := psql().Select(needColumns...).From(needTableName).
		Where(sq.Eq{"creator_id": creatorID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate needs-by-creator query: %w", err)
	}

	var needs = make([]*types.Need, 0)
	err = pgxscan.Select(ctx, r.pool, &needs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch needs by creator: %w", err)
	}

	return needs, nil
}

func (r *NeedRepository) CreateNeed(ctx context.Context, need *types.Need) error {

	now := time.Now()
	need.ID = utils.NanoID()
	need.CreatedAt = now
	need.UpdatedAt = now

	needMap := utils.StructToMap(need)

	query, args, err := psql().Insert(needTableName).SetMap(needMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert need query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create need")
}

// TransitionStatus moves a need from one status to another with a
// compare-and-set on the current status. It reports false when another
// actor already transitioned the row; callers treat that as a benign
// "already handled" outcome, never a failure.
func (r *NeedRepository) TransitionStatus(ctx context.Context, needID string, from, to types.NeedStatus, actorID string) (bool, error) {

	now := time.Now()
	query, args, err := psql().Update(needTableName).
		Set("status", to).
		Set("decided_by", actorID).
		Set("decided_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": needID, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate need transition query for need %s: %w", needID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, utils.ErrorWrapOrNil(err, "failed to transition need")
	}

	return tag.RowsAffected() > 0, nil
}
