package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/events"
	"github.com/taskman/taskman-api/internal/service"
	"github.com/taskman/taskman-api/internal/store"
)

// memTaskStore is an in-memory TaskStore for handler tests.
type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *memTaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *memTaskStore) MarkDeleted(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.Deleted {
		return store.ErrTaskNotFound
	}
	task.Deleted = true
	return nil
}

func (s *memTaskStore) FindActiveByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Task
	for _, task := range s.tasks {
		if task.OwnerID == ownerID && !task.Deleted {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memTaskStore) FindActiveByOwnerAfter(
	_ context.Context,
	ownerID uuid.UUID,
	date time.Time,
) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := domain.DateOf(date)
	var result []*domain.Task
	for _, task := range s.tasks {
		if task.OwnerID == ownerID && !task.Deleted && task.TargetDate.After(cutoff) {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *memTaskStore) FindAllActive(_ context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Task
	for _, task := range s.tasks {
		if !task.Deleted {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

// memNotificationStore is an in-memory NotificationStore for handler tests.
type memNotificationStore struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func (s *memNotificationStore) Create(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *n
	s.notifications = append(s.notifications, &copied)
	return nil
}

func (s *memNotificationStore) FindByOwner(
	_ context.Context,
	ownerID uuid.UUID,
) ([]*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Notification
	for _, n := range s.notifications {
		if n.OwnerID == ownerID {
			copied := *n
			result = append(result, &copied)
		}
	}
	return result, nil
}

// memUserStore is an in-memory UserStore for handler tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*domain.User)}
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// recordingPublisher captures published events without a broker.
type recordingPublisher struct {
	mu        sync.Mutex
	published []*events.TaskCreatedEvent
}

func (p *recordingPublisher) PublishTaskCreated(_ context.Context, event *events.TaskCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// testEnv wires real services over in-memory stores behind the real router.
type testEnv struct {
	router         http.Handler
	taskStore      *memTaskStore
	notifications  *memNotificationStore
	users          *memUserStore
	publisher      *recordingPublisher
	notificationSv *service.NotificationService
}

func (e *testEnv) notificationService() *service.NotificationService {
	return e.notificationSv
}

func nowPlusDays(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	taskStore := newMemTaskStore()
	notificationStore := &memNotificationStore{}
	userStore := newMemUserStore()
	publisher := &recordingPublisher{}

	taskService, err := service.NewTaskService(taskStore, publisher, logger)
	require.NoError(t, err)
	notificationService, err := service.NewNotificationService(notificationStore, logger)
	require.NoError(t, err)
	userService, err := service.NewUserService(userStore, logger)
	require.NoError(t, err)

	router := NewRouter(
		NewTaskHandler(taskService, logger),
		NewNotificationHandler(notificationService, logger),
		NewUserHandler(userService, logger),
	)

	return &testEnv{
		router:         router,
		taskStore:      taskStore,
		notifications:  notificationStore,
		users:          userStore,
		publisher:      publisher,
		notificationSv: notificationService,
	}
}

// do executes a request against the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
