package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/events"
	"github.com/taskman/taskman-api/internal/store"
)

// placeholderTitle substitutes a missing task title in notification
// messages. Title absence is not an error.
const placeholderTitle = "Untitled task"

// NotificationService owns notification creation and retrieval.
// CreateNotification is the single entry point used by both the event
// channel ingester and the overdue scanner.
type NotificationService struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates a NotificationService.
// Returns an error if the notification store is nil.
func NewNotificationService(
	notifications store.NotificationStore,
	logger *slog.Logger,
) (*NotificationService, error) {
	if notifications == nil {
		return nil, errors.New("notification store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{
		notifications: notifications,
		logger:        logger.With(slog.String("component", "notification_service")),
	}, nil
}

// CreateNotification validates, stamps and persists a notification for the
// given owner. The creation timestamp is always set here, never by the
// caller. Rejects a nil owner ID or an empty message.
func (s *NotificationService) CreateNotification(
	ctx context.Context,
	ownerID uuid.UUID,
	message string,
) (*domain.Notification, error) {
	notification, err := domain.NewNotification(ownerID, message)
	if err != nil {
		s.logger.Warn("rejected invalid notification",
			"error", err,
			"owner_id", ownerID)
		return nil, err
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, &ServiceError{Operation: "create notification", Err: err}
	}

	s.logger.Info("notification created",
		"notification_id", notification.ID,
		"owner_id", notification.OwnerID)
	return notification, nil
}

// HandleTaskCreated is the event channel handler: it turns a delivered
// TaskCreatedEvent into a persisted notification.
//
// Malformed events (nil event, missing task or owner ID) are reported as
// events.ErrInvalidEvent so the channel discards them without stopping the
// delivery loop. Duplicate deliveries of the same event each create a
// notification: the system favors over-notification over silent loss.
func (s *NotificationService) HandleTaskCreated(
	ctx context.Context,
	event *events.TaskCreatedEvent,
) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", events.ErrInvalidEvent)
	}
	if event.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: missing owner id (event %s)", events.ErrInvalidEvent, event.EventID)
	}
	if event.TaskID == uuid.Nil {
		return fmt.Errorf("%w: missing task id (event %s)", events.ErrInvalidEvent, event.EventID)
	}

	title := event.Title
	if title == "" {
		title = placeholderTitle
	}
	message := fmt.Sprintf("You have been assigned a new task: '%s' (task id %s)", title, event.TaskID)

	if _, err := s.CreateNotification(ctx, event.OwnerID, message); err != nil {
		// The channel redelivers on this error; the next event is unaffected.
		s.logger.Error("failed to create notification for task event",
			"error", err,
			"event_id", event.EventID,
			"task_id", event.TaskID,
			"owner_id", event.OwnerID)
		return err
	}

	return nil
}

// GetAllNotifications returns every notification owned by the given user.
func (s *NotificationService) GetAllNotifications(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Notification, error) {
	notifications, err := s.notifications.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{Operation: "list notifications", Err: err}
	}
	return notifications, nil
}

// GetPendingNotifications returns every notification owned by the given
// user. "Pending" is deliberately an alias for "all": there is no
// read/unread or expiry distinction in this design, and the separate
// method exists only as a seam for a future filter.
func (s *NotificationService) GetPendingNotifications(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Notification, error) {
	return s.GetAllNotifications(ctx, ownerID)
}
