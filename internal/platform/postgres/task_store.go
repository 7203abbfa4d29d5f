package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/store"
)

const (
	insertTaskSQL = `
		INSERT INTO tasks (id, owner_id, title, description, target_date, created_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	selectTaskByIDSQL = `
		SELECT id, owner_id, title, description, target_date, created_at, deleted
		FROM tasks
		WHERE id = $1
	`

	markTaskDeletedSQL = `
		UPDATE tasks
		SET deleted = TRUE
		WHERE id = $1 AND NOT deleted
	`

	selectActiveByOwnerSQL = `
		SELECT id, owner_id, title, description, target_date, created_at, deleted
		FROM tasks
		WHERE owner_id = $1 AND NOT deleted
	`

	selectActiveByOwnerAfterSQL = `
		SELECT id, owner_id, title, description, target_date, created_at, deleted
		FROM tasks
		WHERE owner_id = $1 AND NOT deleted AND target_date > $2
	`

	selectAllActiveSQL = `
		SELECT id, owner_id, title, description, target_date, created_at, deleted
		FROM tasks
		WHERE NOT deleted
	`
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a PostgreSQL implementation of the TaskStore
// interface. The database handle is initialized and managed by the caller.
// If logger is nil, the default logger is used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, insertTaskSQL,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.TargetDate,
		task.CreatedAt,
		task.Deleted,
	)
	if err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"task_id", task.ID,
			"owner_id", task.OwnerID)
		return MapError(err)
	}

	s.logger.Debug("task created", "task_id", task.ID, "owner_id", task.OwnerID)
	return nil
}

// GetByID implements store.TaskStore.GetByID. Soft-deleted tasks are
// returned as well; list filtering happens only in the FindActive queries.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, selectTaskByIDSQL, id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// MarkDeleted implements store.TaskStore.MarkDeleted. The update only
// matches rows that are not already deleted, which keeps the deleted flag
// monotonic and makes double deletes write nothing.
func (s *TaskStore) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, markTaskDeletedSQL, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	s.logger.Debug("task marked deleted", "task_id", id)
	return nil
}

// FindActiveByOwner implements store.TaskStore.FindActiveByOwner.
func (s *TaskStore) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectActiveByOwnerSQL, ownerID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// FindActiveByOwnerAfter implements store.TaskStore.FindActiveByOwnerAfter.
func (s *TaskStore) FindActiveByOwnerAfter(
	ctx context.Context,
	ownerID uuid.UUID,
	date time.Time,
) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectActiveByOwnerAfterSQL, ownerID, domain.DateOf(date))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// FindAllActive implements store.TaskStore.FindAllActive.
func (s *TaskStore) FindAllActive(ctx context.Context) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, selectAllActiveSQL)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return collectTasks(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description sql.NullString

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&task.TargetDate,
		&task.CreatedAt,
		&task.Deleted,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.TargetDate = domain.DateOf(task.TargetDate)
	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}
