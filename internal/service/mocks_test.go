package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/events"
	"github.com/taskman/taskman-api/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTaskStore is an in-memory store.TaskStore that counts store reads so
// tests can tell cache hits from misses.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	createErr error
	getErr    error
	listErr   error

	getCalls         int
	findByOwnerCalls int
	findPendingCalls int
	markDeletedCalls int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*fakeTaskStore)(nil)

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	task, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDeletedCalls++
	task, ok := f.tasks[id]
	if !ok || task.Deleted {
		return store.ErrTaskNotFound
	}
	task.Deleted = true
	return nil
}

func (f *fakeTaskStore) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findByOwnerCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*domain.Task, 0)
	for _, task := range f.tasks {
		if task.OwnerID == ownerID && !task.Deleted {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeTaskStore) FindActiveByOwnerAfter(
	ctx context.Context,
	ownerID uuid.UUID,
	date time.Time,
) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findPendingCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	cutoff := domain.DateOf(date)
	result := make([]*domain.Task, 0)
	for _, task := range f.tasks {
		if task.OwnerID == ownerID && !task.Deleted && task.TargetDate.After(cutoff) {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeTaskStore) FindAllActive(ctx context.Context) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Task, 0)
	for _, task := range f.tasks {
		if !task.Deleted {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

// fakeNotificationStore is an in-memory store.NotificationStore.
type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications map[uuid.UUID][]*domain.Notification
	createErr     error
	createCalls   int
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[uuid.UUID][]*domain.Notification)}
}

var _ store.NotificationStore = (*fakeNotificationStore)(nil)

func (f *fakeNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	copied := *n
	f.notifications[n.OwnerID] = append(f.notifications[n.OwnerID], &copied)
	return nil
}

func (f *fakeNotificationStore) FindByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Notification(nil), f.notifications[ownerID]...), nil
}

func (f *fakeNotificationStore) byOwner(ownerID uuid.UUID) []*domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Notification(nil), f.notifications[ownerID]...)
}

// fakeUserStore is an in-memory store.UserStore keyed by username.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

var _ store.UserStore = (*fakeUserStore)(nil)

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// capturePublisher records published events and can simulate failures.
type capturePublisher struct {
	mu         sync.Mutex
	events     []*events.TaskCreatedEvent
	publishErr error
}

var _ events.Publisher = (*capturePublisher)(nil)

func (p *capturePublisher) PublishTaskCreated(ctx context.Context, event *events.TaskCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []*events.TaskCreatedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.TaskCreatedEvent(nil), p.events...)
}
