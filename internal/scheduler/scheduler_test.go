package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskman/taskman-api/internal/domain"
)

type fakeTaskSource struct {
	tasks   []*domain.Task
	findErr error
}

func (f *fakeTaskSource) Create(_ context.Context, _ *domain.Task) error { return nil }

func (f *fakeTaskSource) GetByID(_ context.Context, _ uuid.UUID) (*domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskSource) MarkDeleted(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeTaskSource) FindActiveByOwner(_ context.Context, _ uuid.UUID) ([]*domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskSource) FindActiveByOwnerAfter(_ context.Context, _ uuid.UUID, _ time.Time) ([]*domain.Task, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskSource) FindAllActive(_ context.Context) ([]*domain.Task, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.tasks, nil
}

type recordedNotification struct {
	ownerID uuid.UUID
	message string
}

type fakeNotifier struct {
	created []recordedNotification
	// failFor makes CreateNotification fail for a single owner.
	failFor uuid.UUID
}

func (f *fakeNotifier) CreateNotification(_ context.Context, ownerID uuid.UUID, message string) (*domain.Notification, error) {
	if f.failFor != uuid.Nil && ownerID == f.failFor {
		return nil, errors.New("notification store unavailable")
	}
	f.created = append(f.created, recordedNotification{ownerID: ownerID, message: message})
	return domain.NewNotification(ownerID, message)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScanner(t *testing.T, tasks *fakeTaskSource, notifier *fakeNotifier, now time.Time) *OverdueScanner {
	t.Helper()

	scanner, err := NewOverdueScanner(tasks, notifier, time.Minute, 0, testLogger())
	require.NoError(t, err)
	scanner.now = func() time.Time { return now }
	return scanner
}

func taskDue(t *testing.T, ownerID uuid.UUID, title string, targetDate time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, "", targetDate)
	require.NoError(t, err)
	return task
}

func TestNewOverdueScanner_Validation(t *testing.T) {
	tasks := &fakeTaskSource{}
	notifier := &fakeNotifier{}

	_, err := NewOverdueScanner(nil, notifier, time.Minute, 0, testLogger())
	assert.Error(t, err, "nil task store should be rejected")

	_, err = NewOverdueScanner(tasks, nil, time.Minute, 0, testLogger())
	assert.Error(t, err, "nil notifier should be rejected")

	_, err = NewOverdueScanner(tasks, notifier, 0, 0, testLogger())
	assert.Error(t, err, "zero period should be rejected")
}

func TestRunOnce_DateBoundary(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	ownerID := uuid.New()

	tasks := &fakeTaskSource{tasks: []*domain.Task{
		taskDue(t, ownerID, "yesterday", now.AddDate(0, 0, -1)),
		taskDue(t, ownerID, "today", now),
		taskDue(t, ownerID, "tomorrow", now.AddDate(0, 0, 1)),
	}}
	notifier := &fakeNotifier{}
	scanner := newTestScanner(t, tasks, notifier, now)

	count, err := scanner.RunOnce(context.Background())
	require.NoError(t, err)

	// Only the task strictly before today's date is overdue. A task due
	// today still has the whole day.
	assert.Equal(t, 1, count)
	require.Len(t, notifier.created, 1)
	assert.Contains(t, notifier.created[0].message, "'yesterday'")
}

func TestRunOnce_MessageFormat(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	ownerID := uuid.New()
	task := taskDue(t, ownerID, "Quarterly report", now.AddDate(0, 0, -3))

	tasks := &fakeTaskSource{tasks: []*domain.Task{task}}
	notifier := &fakeNotifier{}
	scanner := newTestScanner(t, tasks, notifier, now)

	_, err := scanner.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.created, 1)
	expected := "Attention! Task 'Quarterly report' (id " + task.ID.String() + ") became overdue on 2026-03-12"
	assert.Equal(t, expected, notifier.created[0].message)
	assert.Equal(t, ownerID, notifier.created[0].ownerID)
}

func TestRunOnce_PerTaskFailureIsolated(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	failingOwner := uuid.New()
	healthyOwner := uuid.New()

	tasks := &fakeTaskSource{tasks: []*domain.Task{
		taskDue(t, failingOwner, "stuck", now.AddDate(0, 0, -1)),
		taskDue(t, healthyOwner, "fine", now.AddDate(0, 0, -1)),
	}}
	notifier := &fakeNotifier{failFor: failingOwner}
	scanner := newTestScanner(t, tasks, notifier, now)

	count, err := scanner.RunOnce(context.Background())
	require.NoError(t, err, "one failed notification should not fail the run")

	assert.Equal(t, 1, count)
	require.Len(t, notifier.created, 1)
	assert.Equal(t, healthyOwner, notifier.created[0].ownerID)
}

func TestRunOnce_NoOverdueTasks(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	ownerID := uuid.New()

	tasks := &fakeTaskSource{tasks: []*domain.Task{
		taskDue(t, ownerID, "future work", now.AddDate(0, 0, 7)),
	}}
	notifier := &fakeNotifier{}
	scanner := newTestScanner(t, tasks, notifier, now)

	count, err := scanner.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, notifier.created)
}

func TestRunOnce_RenotifiesAcrossRuns(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	ownerID := uuid.New()

	tasks := &fakeTaskSource{tasks: []*domain.Task{
		taskDue(t, ownerID, "lingering", now.AddDate(0, 0, -2)),
	}}
	notifier := &fakeNotifier{}
	scanner := newTestScanner(t, tasks, notifier, now)

	for i := 0; i < 2; i++ {
		count, err := scanner.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}

	// Runs carry no memory, so a still-overdue task is notified again.
	assert.Len(t, notifier.created, 2)
}

func TestRunOnce_StoreFailure(t *testing.T) {
	tasks := &fakeTaskSource{findErr: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	scanner := newTestScanner(t, tasks, notifier, time.Now())

	count, err := scanner.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, count)
	assert.Empty(t, notifier.created)
}

func TestStartStop(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	tasks := &fakeTaskSource{}
	notifier := &fakeNotifier{}

	scanner, err := NewOverdueScanner(tasks, notifier, time.Hour, time.Hour, testLogger())
	require.NoError(t, err)
	scanner.now = func() time.Time { return now }

	scanner.Start()
	scanner.Stop()

	// Stop fired before the initial delay elapsed, so no run happened.
	assert.Empty(t, notifier.created)
}
