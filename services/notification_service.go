package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"kultivateAPI/internal/notification"
)

type NotificationService struct {
	db *pgxpool.Pool
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

// Create inserts a passive notification record. It accepts a querier so
// callers can run it inside their own transaction (e.g. streak milestones).
func (s *NotificationService) Create(ctx context.Context, q querier, userID uuid.UUID, notifType notification.Type, title, message string, data *string) (*notification.Notification, error) {
	if q == nil {
		q = s.db
	}

	query := `
	INSERT INTO notifications (id, user_id, title, message, type, is_read, data, created_at)
	VALUES ($1, $2, $3, $4, $5, false, $6, NOW())
	RETURNING id, user_id, title, message, type, is_read, read_at, data, created_at
	`

	n := &notification.Notification{}
	err := q.QueryRow(ctx, query, uuid.New(), userID, title, message, notifType, data).Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.IsRead,
		&n.ReadAt,
		&n.Data,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int, unreadOnly bool) (*notification.ListResponse, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND ($2 = false OR is_read = false)`

	var total int
	if err := s.db.QueryRow(ctx, countQuery, userID, unreadOnly).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
	SELECT id, user_id, title, message, type, is_read, read_at, data, created_at
	FROM notifications
	WHERE user_id = $1 AND ($2 = false OR is_read = false)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4
	`

	rows, err := s.db.Query(ctx, query, userID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*notification.Notification{}
	for rows.Next() {
		n := &notification.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.ReadAt, &n.Data, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return &notification.ListResponse{
		Notifications: notifications,
		Page:          page,
		PageSize:      pageSize,
		Total:         total,
	}, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	if err := s.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}

// MarkAsRead flips is_read and stamps read_at only on the first transition.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	query := `
	UPDATE notifications
	SET is_read = true, read_at = COALESCE(read_at, NOW())
	WHERE id = $1 AND user_id = $2
	`

	result, err := s.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
	UPDATE notifications
	SET is_read = true, read_at = COALESCE(read_at, NOW())
	WHERE user_id = $1 AND is_read = false
	`

	result, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return result.RowsAffected(), nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notificationID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}
