package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/db"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
)

// batchClaimConstraint is the primary key of notification_batches
const batchClaimConstraint = "notification_batches_pkey"

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ExistsForCompany reports whether any notification of notifType already
// references companyID
func (r *NotificationRepository) ExistsForCompany(ctx context.Context, companyID uuid.UUID, notifType models.NotificationType) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM notification_batches WHERE company_id = $1 AND type = $2)
		    OR EXISTS(SELECT 1 FROM notifications WHERE company_id = $1 AND type = $2)`,
		companyID, string(notifType)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}
	return exists, nil
}

// CreateBatch claims the (company, type) batch and bulk-inserts items in one
// transaction. It returns false without writing anything when the batch was
// already claimed. A failed insert releases the claim.
func (r *NotificationRepository) CreateBatch(ctx context.Context, companyID uuid.UUID, notifType models.NotificationType, items []*models.Notification) (bool, error) {
	created := false
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// A concurrent claimer blocks on the key until this transaction ends
		tag, err := tx.Exec(ctx, `
			INSERT INTO notification_batches (company_id, type, recipients) VALUES ($1, $2, $3)
			ON CONFLICT ON CONSTRAINT `+batchClaimConstraint+` DO NOTHING`,
			companyID, string(notifType), len(items))
		if err != nil {
			return fmt.Errorf("failed to claim notification batch: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		now := time.Now().UTC()
		rows := make([][]interface{}, 0, len(items))
		for _, n := range items {
			if n.ID == uuid.Nil {
				n.ID = uuid.New()
			}
			n.CreatedAt, n.UpdatedAt = now, now
			rows = append(rows, []interface{}{
				n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.CompanyID, n.IsSeen, n.CreatedAt, n.UpdatedAt,
			})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"notifications"},
			[]string{"id", "user_id", "type", "title", "message", "company_id", "is_seen", "created_at", "updated_at"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("failed to bulk insert notifications: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	var notifType string
	if err := row.Scan(&n.ID, &n.UserID, &notifType, &n.Title, &n.Message, &n.CompanyID, &n.IsSeen, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Type = models.NotificationType(notifType)
	return &n, nil
}

// ListForUser returns the newest notifications of a user
func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, limit uint64) ([]*models.Notification, error) {
	query, args, err := r.sb.Select("id", "user_id", "type", "title", "message", "company_id", "is_seen", "created_at", "updated_at").
		From("notifications").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return out, nil
}

// GetByID loads a notification owned by userID
func (r *NotificationRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Notification, error) {
	query, args, err := r.sb.Select("id", "user_id", "type", "title", "message", "company_id", "is_seen", "created_at", "updated_at").
		From("notifications").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get notification query: %w", err)
	}
	n, err := scanNotification(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// UnreadCount counts a user's unseen notifications
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("notifications").
		Where(squirrel.Eq{"user_id": userID, "is_seen": false}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build unread count query: %w", err)
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

// MarkSeen marks one of the user's notifications as seen
func (r *NotificationRepository) MarkSeen(ctx context.Context, userID string, id uuid.UUID) error {
	query, args, err := r.sb.Update("notifications").
		Set("is_seen", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark seen query: %w", err)
	}
	return r.execOne(ctx, query, args...)
}

// MarkAllSeen marks every unseen notification of the user as seen
func (r *NotificationRepository) MarkAllSeen(ctx context.Context, userID string) (int64, error) {
	query, args, err := r.sb.Update("notifications").
		Set("is_seen", true).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"user_id": userID, "is_seen": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build mark all seen query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications seen: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes one of the user's notifications
func (r *NotificationRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query, args, err := r.sb.Delete("notifications").Where(squirrel.Eq{"id": id, "user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete notification query: %w", err)
	}
	return r.execOne(ctx, query, args...)
}

// Clear removes all of the user's notifications
func (r *NotificationRepository) Clear(ctx context.Context, userID string) (int64, error) {
	query, args, err := r.sb.Delete("notifications").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build clear notifications query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PruneSeenBefore deletes seen notifications created before cutoff
func (r *NotificationRepository) PruneSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := r.sb.Delete("notifications").
		Where(squirrel.Eq{"is_seen": true}).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build prune query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}
