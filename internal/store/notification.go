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

const notificationTableName = "neighborly.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateNotifications inserts one row per recipient in a single statement.
func (r *NotificationRepository) CreateNotifications(ctx context.Context, notifications []*types.Notification) error {

	if len(notifications) == 0 {
		return nil
	}

	now := time.Now()
	insert := psql().Insert(notificationTableName).
		Columns("id", "recipient_id", "event_type", "payload", "read_at", "created_at")

	for _, n := range notifications {
		n.ID = utils.NanoID()
		n.CreatedAt = now
		insert = insert.Values(n.ID, n.RecipientID, n.EventType, n.Payload, nil, n.CreatedAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notifications query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create notifications")
}

func (r *NotificationRepository) NotificationsByRecipient(ctx context.Context, recipientID string, limit uint64) ([]*types.Notification, error) {

	if limit == 0 {
		limit = 50
	}

	query, args, err := psql().Select(notificationColumns...).From(notificationTableName).
		Where(sq.Eq{"recipient_id": recipientID}).
		OrderBy("created_at desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notifications query: %w", err)
	}

	var notifications = make([]*types.Notification, 0)
	err = pgxscan.Select(ctx, r.pool, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead stamps read_at once. Re-reads report changed=false.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) (bool, error) {

	query, args, err := psql().Update(notificationTableName).
		Set("read_at", time.Now()).
		Where(sq.Eq{"id": notificationID, "recipient_id": recipientID, "read_at": nil}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate mark read query for notification %s: %w", notificationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, utils.ErrorWrapOrNil(err, "failed to mark notification read")
	}

	return tag.RowsAffected() > 0, nil
}

// UnreadCount is recomputed from rows on every call; the server is the
// authority, never a client-side counter.
func (r *NotificationRepository) UnreadCount(ctx context.Context, recipientID string) (int, error) {

	query, args, err := psql().Select("count(*)").From(notificationTableName).
		Where(sq.Eq{"recipient_id": recipientID, "read_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate unread count query: %w", err)
	}

	var count int
	err = pgxscan.Get(ctx, r.pool, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}
