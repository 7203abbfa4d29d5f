// Package scheduler runs the periodic overdue sweep: a full scan over all
// active tasks that notifies owners of every task whose target date has
// passed. The sweep runs outside the request path on its own goroutine.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/store"
)

// NotificationCreator is the notification entry point the scanner drives.
// It is the same entry point the event channel ingester uses.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, ownerID uuid.UUID, message string) (*domain.Notification, error)
}

// OverdueScanner periodically scans all non-deleted tasks and notifies
// owners of overdue ones.
//
// Each run is a full, independent pass: there is no progress cursor and no
// memory of earlier runs, so a task that stays overdue is re-notified on
// every run. The scan always reads current store state and never consults
// the task cache.
type OverdueScanner struct {
	tasks    store.TaskStore
	notifier NotificationCreator

	period       time.Duration
	initialDelay time.Duration

	logger     *slog.Logger
	now        func() time.Time
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewOverdueScanner creates a scanner with the given schedule.
// Returns an error if a dependency is nil or the period is not positive.
func NewOverdueScanner(
	tasks store.TaskStore,
	notifier NotificationCreator,
	period time.Duration,
	initialDelay time.Duration,
	logger *slog.Logger,
) (*OverdueScanner, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if notifier == nil {
		return nil, errors.New("notification creator cannot be nil")
	}
	if period <= 0 {
		return nil, fmt.Errorf("scan period must be positive, got %s", period)
	}
	if initialDelay < 0 {
		initialDelay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &OverdueScanner{
		tasks:        tasks,
		notifier:     notifier,
		period:       period,
		initialDelay: initialDelay,
		logger:       logger.With(slog.String("component", "overdue_scanner")),
		now:          func() time.Time { return time.Now().UTC() },
		ctx:          ctx,
		cancelFunc:   cancel,
	}, nil
}

// Start launches the scan loop: one run after the initial delay, then one
// per period until Stop is called.
func (s *OverdueScanner) Start() {
	s.wg.Add(1)
	go s.loop()
	s.logger.Info("overdue scanner started",
		"period", s.period.String(),
		"initial_delay", s.initialDelay.String())
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (s *OverdueScanner) Stop() {
	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info("overdue scanner stopped")
}

func (s *OverdueScanner) loop() {
	defer s.wg.Done()

	delay := time.NewTimer(s.initialDelay)
	defer delay.Stop()

	select {
	case <-s.ctx.Done():
		return
	case <-delay.C:
	}

	s.runAndLog()

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runAndLog()
		}
	}
}

func (s *OverdueScanner) runAndLog() {
	if _, err := s.RunOnce(s.ctx); err != nil {
		s.logger.Error("overdue scan failed", "error", err)
	}
}

// RunOnce performs a single sweep and returns the number of overdue tasks
// processed. The current date is read once at the start, so a run that
// spans a date boundary stays self-consistent.
//
// A failure to notify one task is logged and does not abort the rest of
// the scan; only a failure to load the task list fails the whole run.
func (s *OverdueScanner) RunOnce(ctx context.Context) (int, error) {
	today := domain.DateOf(s.now())

	tasks, err := s.tasks.FindAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("load active tasks: %w", err)
	}

	overdueCount := 0
	for _, task := range tasks {
		if !task.Overdue(today) {
			continue
		}

		message := fmt.Sprintf("Attention! Task '%s' (id %s) became overdue on %s",
			task.Title, task.ID, task.TargetDate.Format(time.DateOnly))

		if _, err := s.notifier.CreateNotification(ctx, task.OwnerID, message); err != nil {
			s.logger.Error("failed to create overdue notification",
				"error", err,
				"task_id", task.ID,
				"owner_id", task.OwnerID)
			continue
		}
		overdueCount++
	}

	// Zero is a normal outcome, logged all the same.
	s.logger.Info("overdue scan finished",
		"scanned", len(tasks),
		"overdue_processed", overdueCount,
		"scan_date", today.Format(time.DateOnly))

	return overdueCount, nil
}
