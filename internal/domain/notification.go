package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notification-specific validation errors
var (
	// ErrNotificationOwnerIDEmpty is returned when a notification's owner ID is empty or nil.
	ErrNotificationOwnerIDEmpty = errors.New("notification owner ID cannot be empty")

	// ErrNotificationMessageEmpty is returned when a notification's message is empty.
	ErrNotificationMessageEmpty = errors.New("notification message cannot be empty")
)

// Notification is a message addressed to a single user. Notifications are
// never mutated after creation; the creation timestamp is stamped by the
// constructor, never supplied by the caller.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification creates a Notification for the given owner, generating
// its ID and creation timestamp. Returns an error if validation fails.
func NewNotification(ownerID uuid.UUID, message string) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.OwnerID == uuid.Nil {
		return ErrNotificationOwnerIDEmpty
	}

	if strings.TrimSpace(n.Message) == "" {
		return ErrNotificationMessageEmpty
	}

	return nil
}
