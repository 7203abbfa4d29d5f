package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// MemoryChannel is an in-process implementation of Publisher and Subscriber.
// Dispatch is synchronous under a single lock, which trivially preserves
// per-owner publication order. Handler failures are logged and swallowed,
// matching the channel contract that one failed event never blocks the next.
//
// It is used in tests and as a degraded single-process mode when no broker
// is configured.
type MemoryChannel struct {
	mu       sync.Mutex
	handlers []Handler
	logger   *slog.Logger
}

// NewMemoryChannel creates an empty in-process channel.
// If logger is nil, the default logger is used.
func NewMemoryChannel(logger *slog.Logger) *MemoryChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryChannel{
		logger: logger.With(slog.String("component", "memory_channel")),
	}
}

var (
	_ Publisher  = (*MemoryChannel)(nil)
	_ Subscriber = (*MemoryChannel)(nil)
)

// PublishTaskCreated delivers the event to every registered handler through
// the wire codec, so in-process delivery exercises the same encode/decode
// path as the broker.
func (c *MemoryChannel) PublishTaskCreated(ctx context.Context, event *TaskCreatedEvent) error {
	payload, err := event.Encode()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, handler := range c.handlers {
		decoded, decodeErr := DecodeTaskCreatedEvent(payload)
		if decodeErr != nil {
			c.logger.Warn("discarding undecodable task event", "event_id", event.EventID)
			continue
		}
		if handleErr := handler(ctx, decoded); handleErr != nil {
			if errors.Is(handleErr, ErrInvalidEvent) {
				c.logger.Warn("discarding invalid task event",
					"error", handleErr,
					"event_id", event.EventID)
				continue
			}
			c.logger.Error("task event handling failed",
				"error", handleErr,
				"event_id", event.EventID)
		}
	}
	return nil
}

// Subscribe registers a handler for all subsequently published events.
func (c *MemoryChannel) Subscribe(handler Handler) (Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
	return memorySubscription{}, nil
}

type memorySubscription struct{}

func (memorySubscription) Unsubscribe() error { return nil }
