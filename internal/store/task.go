package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
// Deletion is logical: MarkDeleted flips the deleted flag and the FindActive*
// methods exclude flagged rows, but GetByID keeps returning them so a task
// stays addressable by ID after deletion.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors if the task data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, including soft-deleted tasks.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// MarkDeleted sets the deleted flag on a task that is not already deleted.
	// Returns ErrTaskNotFound if the task does not exist or is already deleted,
	// in which case no row is written.
	MarkDeleted(ctx context.Context, id uuid.UUID) error

	// FindActiveByOwner returns all non-deleted tasks owned by the given user.
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// FindActiveByOwnerAfter returns the owner's non-deleted tasks whose target
	// date is strictly after the given calendar date.
	FindActiveByOwnerAfter(ctx context.Context, ownerID uuid.UUID, date time.Time) ([]*domain.Task, error)

	// FindAllActive returns every non-deleted task across all users.
	// Used by the overdue scanner, which always reads current store state.
	FindAllActive(ctx context.Context) ([]*domain.Task, error)
}
