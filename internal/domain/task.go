package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskOwnerIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty or whitespace.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTargetDateZero is returned when a task has no target date.
	ErrTaskTargetDateZero = errors.New("task target date is required")
)

// Task represents a unit of work owned by a user. Deletion is logical:
// once Deleted is set the task never reappears in list queries, but it
// remains retrievable by ID.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TargetDate  time.Time `json:"target_date"`
	CreatedAt   time.Time `json:"created_at"`
	Deleted     bool      `json:"deleted"`
}

// NewTask creates a Task for the given owner. It generates the task ID,
// stamps the creation time, normalizes the target date to a calendar date
// (midnight UTC) and validates the result.
func NewTask(ownerID uuid.UUID, title, description string, targetDate time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		TargetDate:  DateOf(targetDate),
		CreatedAt:   time.Now().UTC(),
		Deleted:     false,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	if t.TargetDate.IsZero() {
		return ErrTaskTargetDateZero
	}

	return nil
}

// Overdue reports whether the task's target date is strictly before the
// given calendar date.
func (t *Task) Overdue(today time.Time) bool {
	return t.TargetDate.Before(DateOf(today))
}

// DateOf truncates a timestamp to its calendar date in UTC. Target dates
// carry no time-of-day component, so all date comparisons go through this.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
