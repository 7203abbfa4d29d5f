package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
)

// ErrInvalidEvent is returned for events that can never be processed:
// undecodable payloads or events missing required identifiers. The delivery
// loop discards such events instead of redelivering them.
var ErrInvalidEvent = errors.New("invalid task event")

// TaskCreatedEvent is the fact published after a task has been persisted.
// It is transient: it exists only on the event channel and is never stored.
// Title may be empty; an absent title must not prevent notification.
type TaskCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	TaskID     uuid.UUID `json:"task_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskCreatedEvent builds the event describing a freshly created task.
func NewTaskCreatedEvent(task *domain.Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		EventID:    uuid.New(),
		TaskID:     task.ID,
		OwnerID:    task.OwnerID,
		Title:      task.Title,
		OccurredAt: time.Now().UTC(),
	}
}

// Encode serializes the event for transport.
func (e *TaskCreatedEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeTaskCreatedEvent deserializes an event payload.
// Returns ErrInvalidEvent if the payload is not valid JSON.
func DecodeTaskCreatedEvent(payload []byte) (*TaskCreatedEvent, error) {
	var event TaskCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, ErrInvalidEvent
	}
	return &event, nil
}

// Handler processes one delivered event. Returning an error wrapping
// ErrInvalidEvent tells the channel to discard the event; any other error
// makes the channel redeliver it later. Either way the next event is
// unaffected.
type Handler func(ctx context.Context, event *TaskCreatedEvent) error

// Publisher is the mutation pipeline's side of the channel. Publish queues
// the event and returns without waiting for broker delivery; the send
// outcome is reported only through logging, never to the caller.
type Publisher interface {
	PublishTaskCreated(ctx context.Context, event *TaskCreatedEvent) error
}

// Subscriber registers the handler that consumes task events.
type Subscriber interface {
	Subscribe(handler Handler) (Subscription, error)
}

// Subscription is an active handler registration.
type Subscription interface {
	// Unsubscribe stops delivery to the handler, draining in-flight messages.
	Unsubscribe() error
}
