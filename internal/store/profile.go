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

const profileTableName = "neighborly.profiles"

var profileColumns = utils.StructTagValues(types.Profile{})

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Profile(ctx context.Context, profileID string) (*types.Profile, error) {

	query, args, err := psql().Select(profileColumns...).From(profileTableName).
		Where(sq.Eq{"id": profileID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profile query: %w", err)
	}

	var profile types.Profile
	err = pgxscan.Get(ctx, r.pool, &profile, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

// LeadersByOrganization resolves the fan-out recipients for leader-facing
// events.
func (r *ProfileRepository) LeadersByOrganization(ctx context.Context, organizationID string) ([]*types.Profile, error) {

	query, args, err := psql().Select(profileColumns...).From(profileTableName).
		Where(sq.Eq{"organization_id": organizationID, "is_leader": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate leaders query: %w", err)
	}

	var profiles = make([]*types.Profile, 0)
	err = pgxscan.Select(ctx, r.pool, &profiles, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaders: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) ProfilesByOrganization(ctx context.Context, organizationID string) ([]*types.Profile, error) {

	query, args, err := psql().Select(profileColumns...).From(profileTableName).
		Where(sq.Eq{"organization_id": organizationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate profiles-by-organization query: %w", err)
	}

	var profiles = make([]*types.Profile, 0)
	err = pgxscan.Select(ctx, r.pool, &profiles, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile *types.Profile) error {

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	profileMap := utils.StructToMap(profile)

	insert := psql().Insert(profileTableName).SetMap(profileMap)
	query, args, err := insert.
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			gifts = EXCLUDED.gifts,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert profile query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert profile")
}
