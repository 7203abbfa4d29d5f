package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/store"
)

const (
	insertNotificationSQL = `
		INSERT INTO notifications (id, owner_id, message, created_at)
		VALUES ($1, $2, $3, $4)
	`

	selectNotificationsByOwnerSQL = `
		SELECT id, owner_id, message, created_at
		FROM notifications
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
)

// NotificationStore implements the store.NotificationStore interface using
// a PostgreSQL database as the storage backend.
type NotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewNotificationStore creates a PostgreSQL implementation of the
// NotificationStore interface. If logger is nil, the default logger is used.
func NewNotificationStore(db store.DBTX, logger *slog.Logger) *NotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

var _ store.NotificationStore = (*NotificationStore)(nil)

// Create implements store.NotificationStore.Create.
func (s *NotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if err := notification.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, insertNotificationSQL,
		notification.ID,
		notification.OwnerID,
		notification.Message,
		notification.CreatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create notification",
			"error", err,
			"notification_id", notification.ID,
			"owner_id", notification.OwnerID)
		return MapError(err)
	}

	s.logger.Debug("notification created",
		"notification_id", notification.ID,
		"owner_id", notification.OwnerID)
	return nil
}

// FindByOwner implements store.NotificationStore.FindByOwner.
func (s *NotificationStore) FindByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx, selectNotificationsByOwnerSQL, ownerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Message, &n.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return notifications, nil
}
