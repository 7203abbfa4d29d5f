package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// tasksStream holds every task event subject.
	tasksStream = "TASKS"

	// taskCreatedSubjectPrefix is completed with the owner ID, so the owner
	// acts as the partition key: JetStream preserves publication order per
	// subject, which gives per-owner ordering and none across owners.
	taskCreatedSubjectPrefix = "tasks.created."

	taskCreatedWildcard = "tasks.created.>"

	// ingesterQueue is the queue group of the notification ingester.
	ingesterQueue = "notification-ingester"

	// handleTimeout bounds the processing of a single delivered event.
	handleTimeout = 5 * time.Second
)

// Subject returns the channel subject the event is published on.
func (e *TaskCreatedEvent) Subject() string {
	return taskCreatedSubjectPrefix + e.OwnerID.String()
}

// EnsureStream creates (or validates) the stream backing the task event
// channel. File storage makes delivery survive broker restarts, which is
// where the at-least-once redelivery cases come from.
func EnsureStream(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(tasksStream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      tasksStream,
		Subjects:  []string{taskCreatedWildcard},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		Replicas:  1,
	})
	return err
}

// JetStreamChannel implements Publisher and Subscriber over NATS JetStream.
type JetStreamChannel struct {
	js     nats.JetStreamContext
	logger *slog.Logger
}

// NewJetStreamChannel creates a channel over the given JetStream context.
// If logger is nil, the default logger is used.
func NewJetStreamChannel(js nats.JetStreamContext, logger *slog.Logger) *JetStreamChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &JetStreamChannel{
		js:     js,
		logger: logger.With(slog.String("component", "jetstream_channel")),
	}
}

var (
	_ Publisher  = (*JetStreamChannel)(nil)
	_ Subscriber = (*JetStreamChannel)(nil)
)

// PublishTaskCreated queues the event for async delivery and returns.
// The broker acknowledgement is observed on a separate goroutine and its
// outcome is only logged; a failed send is a lost event for this attempt,
// never an error surfaced to the mutation caller.
func (c *JetStreamChannel) PublishTaskCreated(ctx context.Context, event *TaskCreatedEvent) error {
	payload, err := event.Encode()
	if err != nil {
		return err
	}

	ack, err := c.js.PublishAsync(event.Subject(), payload)
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-ack.Ok():
			c.logger.Debug("task event published",
				"event_id", event.EventID,
				"task_id", event.TaskID,
				"owner_id", event.OwnerID)
		case pubErr := <-ack.Err():
			c.logger.Error("task event publish failed",
				"error", pubErr,
				"event_id", event.EventID,
				"task_id", event.TaskID,
				"owner_id", event.OwnerID)
		}
	}()

	return nil
}

// Subscribe registers the handler on the ingester queue group with manual
// acknowledgement. Invalid events are terminated so they are never
// redelivered; transient handler failures are nacked and redelivered,
// which is where duplicate deliveries come from.
func (c *JetStreamChannel) Subscribe(handler Handler) (Subscription, error) {
	sub, err := c.js.QueueSubscribe(taskCreatedWildcard, ingesterQueue, func(msg *nats.Msg) {
		event, decodeErr := DecodeTaskCreatedEvent(msg.Data)
		if decodeErr != nil {
			c.logger.Warn("discarding undecodable task event", "subject", msg.Subject)
			_ = msg.Term()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		defer cancel()

		if handleErr := handler(ctx, event); handleErr != nil {
			if errors.Is(handleErr, ErrInvalidEvent) {
				c.logger.Warn("discarding invalid task event",
					"error", handleErr,
					"event_id", event.EventID)
				_ = msg.Term()
				return
			}
			c.logger.Error("task event handling failed, scheduling redelivery",
				"error", handleErr,
				"event_id", event.EventID)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	}, nats.ManualAck())
	if err != nil {
		return nil, err
	}

	c.logger.Info("notification ingester subscribed", "subject", taskCreatedWildcard)
	return natsSubscription{sub: sub}, nil
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) Unsubscribe() error {
	return s.sub.Drain()
}
