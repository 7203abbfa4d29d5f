package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/cache"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/events"
	"github.com/taskman/taskman-api/internal/store"
)

// ListKind distinguishes the two cached per-owner task lists.
type ListKind string

const (
	// ListAll is the owner's full non-deleted task list.
	ListAll ListKind = "all"

	// ListPending is the owner's non-deleted tasks with a target date
	// strictly after today.
	ListPending ListKind = "pending"
)

// listKey is the composite cache key for per-owner task lists.
type listKey struct {
	OwnerID uuid.UUID
	Kind    ListKind
}

// TaskService is the task mutation pipeline. Mutations write to the store,
// keep the cache coherent by invalidating the affected keys, and publish a
// TaskCreatedEvent after the store write has committed. Reads go through
// the cache and fall back to the store on a miss.
//
// The cache holds copies, never the authoritative version: divergence is
// always resolved by invalidation, never by writing through the cache.
type TaskService struct {
	tasks     store.TaskStore
	publisher events.Publisher
	byID      *cache.Cache[uuid.UUID, *domain.Task]
	lists     *cache.Cache[listKey, []*domain.Task]
	logger    *slog.Logger
	now       func() time.Time
}

// NewTaskService creates a TaskService.
// Returns an error if any required dependency is nil.
func NewTaskService(
	tasks store.TaskStore,
	publisher events.Publisher,
	logger *slog.Logger,
) (*TaskService, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if publisher == nil {
		return nil, errors.New("event publisher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		tasks:     tasks,
		publisher: publisher,
		byID:      cache.New[uuid.UUID, *domain.Task](),
		lists:     cache.New[listKey, []*domain.Task](),
		logger:    logger.With(slog.String("component", "task_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateTask validates and persists a new task, invalidates the owner's
// cached lists, primes the by-id cache entry, and publishes a
// TaskCreatedEvent keyed by the owner.
//
// Publication failure is logged and swallowed: the task creation has
// already committed and is not rolled back, and no synchronous retry
// happens in the caller's path.
func (s *TaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description string,
	targetDate time.Time,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, title, description, targetDate)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, &ServiceError{Operation: "create task", Err: err}
	}

	s.lists.InvalidateAll(
		listKey{OwnerID: ownerID, Kind: ListAll},
		listKey{OwnerID: ownerID, Kind: ListPending},
	)
	s.byID.Put(task.ID, task)

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", task.OwnerID,
		"target_date", task.TargetDate.Format(time.DateOnly))

	event := events.NewTaskCreatedEvent(task)
	if err := s.publisher.PublishTaskCreated(ctx, event); err != nil {
		// Lost event for this attempt: the notification never happens,
		// which is the accepted weak guarantee. The mutation stands.
		s.logger.Error("failed to publish task created event",
			"error", err,
			"task_id", task.ID,
			"owner_id", task.OwnerID)
	}

	return task, nil
}

// DeleteTask soft-deletes the task and returns its owner ID. If the task
// does not exist or is already deleted, it returns found=false, performs no
// store write and leaves the cache untouched, making double deletes no-ops.
func (s *TaskService) DeleteTask(ctx context.Context, taskID uuid.UUID) (uuid.UUID, bool, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("delete of unknown task ignored", "task_id", taskID)
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, &ServiceError{Operation: "delete task", Err: err}
	}
	if task.Deleted {
		s.logger.Debug("delete of already deleted task ignored", "task_id", taskID)
		return uuid.Nil, false, nil
	}

	if err := s.tasks.MarkDeleted(ctx, taskID); err != nil {
		if store.IsNotFoundError(err) {
			// A concurrent delete got there first.
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, &ServiceError{Operation: "delete task", Err: err}
	}

	s.byID.Invalidate(taskID)
	s.lists.InvalidateAll(
		listKey{OwnerID: task.OwnerID, Kind: ListAll},
		listKey{OwnerID: task.OwnerID, Kind: ListPending},
	)

	s.logger.Info("task deleted", "task_id", taskID, "owner_id", task.OwnerID)
	return task.OwnerID, true, nil
}

// GetTaskByID returns the task with the given ID, reading through the
// by-id cache. Soft-deleted tasks are returned too; list filtering happens
// only in the list queries. Returns store.ErrTaskNotFound if absent.
func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if task, ok := s.byID.Get(id); ok {
		return task, nil
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "get task", Err: err}
	}

	s.byID.Put(id, task)
	return task, nil
}

// GetAllTasks returns the owner's non-deleted tasks, reading through the
// (owner, all) list cache entry.
func (s *TaskService) GetAllTasks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	key := listKey{OwnerID: ownerID, Kind: ListAll}
	if tasks, ok := s.lists.Get(key); ok {
		return tasks, nil
	}

	s.logger.Debug("fetching all tasks from store", "owner_id", ownerID)
	tasks, err := s.tasks.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, &ServiceError{Operation: "list tasks", Err: err}
	}

	s.lists.Put(key, tasks)
	return tasks, nil
}

// GetPendingTasks returns the owner's non-deleted tasks whose target date
// is strictly after the current date, reading through the (owner, pending)
// list cache entry.
func (s *TaskService) GetPendingTasks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	key := listKey{OwnerID: ownerID, Kind: ListPending}
	if tasks, ok := s.lists.Get(key); ok {
		return tasks, nil
	}

	s.logger.Debug("fetching pending tasks from store", "owner_id", ownerID)
	tasks, err := s.tasks.FindActiveByOwnerAfter(ctx, ownerID, s.now())
	if err != nil {
		return nil, &ServiceError{Operation: "list pending tasks", Err: err}
	}

	s.lists.Put(key, tasks)
	return tasks, nil
}
