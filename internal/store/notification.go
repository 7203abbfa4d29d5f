package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
// Notifications are append-only; there is no update or delete operation.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns validation errors if the notification data is invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// FindByOwner returns all notifications owned by the given user.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Notification, error)
}
