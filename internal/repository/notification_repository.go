package repository

import (
	"context"
	"fmt"
	"time"

	"go-gin-event-calendar/internal/model"
	apperrors "go-gin-event-calendar/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	// Create 以 request_id 去重，重複投遞的訊息回傳 (nil, nil)
	Create(ctx context.Context, notification *model.Notification) (*model.Notification, error)
	ListByUserID(ctx context.Context, userID int, limit int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id int, userID int, at time.Time) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &NotificationRepositoryImpl{
		pool: pool,
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *model.Notification) (*model.Notification, error) {
	query := `
		INSERT INTO notifications (request_id, user_id, event_id, kind, message)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (request_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		notification.RequestID, notification.UserID, notification.EventID, notification.Kind, notification.Message,
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

func (r *NotificationRepositoryImpl) ListByUserID(ctx context.Context, userID int, limit int) ([]*model.Notification, error) {
	query := `
		SELECT id, request_id, user_id, event_id, kind, message, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(
			&n.ID,
			&n.RequestID,
			&n.UserID,
			&n.EventID,
			&n.Kind,
			&n.Message,
			&n.ReadAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead 已讀過的通知保留原本的 read_at
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id int, userID int, at time.Time) error {
	query := `
		UPDATE notifications
		SET read_at = COALESCE(read_at, $1)
		WHERE id = $2 AND user_id = $3
	`
	result, err := r.pool.Exec(ctx, query, at, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE read_at IS NOT NULL AND read_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	return result.RowsAffected(), nil
}
