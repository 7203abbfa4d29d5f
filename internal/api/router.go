package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the application router with standard middleware and all
// API routes registered.
func NewRouter(
	taskHandler *TaskHandler,
	notificationHandler *NotificationHandler,
	userHandler *UserHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// User account endpoints
		r.Post("/users/register", userHandler.Register)
		r.Post("/users/login", userHandler.Login)

		// Task endpoints. The "pending" and "id" segments are registered
		// before the {userId} wildcard so chi routes them literally.
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/pending/{userId}", taskHandler.ListPendingTasks)
		r.Get("/tasks/id/{id}", taskHandler.GetTask)
		r.Get("/tasks/{userId}", taskHandler.ListTasks)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Notification endpoints
		r.Get("/notifications/pending/{userId}", notificationHandler.ListPendingNotifications)
		r.Get("/notifications/{userId}", notificationHandler.ListNotifications)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
