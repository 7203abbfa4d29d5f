package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"github.com/taskman/taskman-api/internal/api"
	"github.com/taskman/taskman-api/internal/config"
	"github.com/taskman/taskman-api/internal/events"
	"github.com/taskman/taskman-api/internal/platform/natsconn"
	"github.com/taskman/taskman-api/internal/platform/postgres"
	"github.com/taskman/taskman-api/internal/scheduler"
	"github.com/taskman/taskman-api/internal/service"
)

const (
	dbPingTimeout   = 5 * time.Second
	shutdownTimeout = 10 * time.Second

	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

// application holds the composed dependencies and owns their lifecycle.
type application struct {
	config *config.Config
	logger *slog.Logger

	db           *sql.DB
	natsClient   *natsconn.Client
	subscription events.Subscription
	scanner      *scheduler.OverdueScanner
	router       http.Handler
}

// newApplication wires up every component: database, event channel,
// stores, services, the notification ingester subscription, the overdue
// scanner and the HTTP router. On any error it tears down what was
// already started.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	db, err := openDatabase(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := postgres.RunMigrations(db, logger); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	natsClient, err := natsconn.ConnectWithRetry(cfg.NATS.URL, cfg.NATS.ConnectTimeout)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	app.natsClient = natsClient
	logger.Info("connected to NATS", "url", cfg.NATS.URL)

	channel := events.NewJetStreamChannel(natsClient.JS, logger)

	taskStore := postgres.NewTaskStore(db, logger)
	notificationStore := postgres.NewNotificationStore(db, logger)
	userStore := postgres.NewUserStore(db, logger)

	taskService, err := service.NewTaskService(taskStore, channel, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("create task service: %w", err)
	}
	notificationService, err := service.NewNotificationService(notificationStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("create notification service: %w", err)
	}
	userService, err := service.NewUserService(userStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("create user service: %w", err)
	}

	subscription, err := channel.Subscribe(notificationService.HandleTaskCreated)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("subscribe notification ingester: %w", err)
	}
	app.subscription = subscription

	scanner, err := scheduler.NewOverdueScanner(
		taskStore,
		notificationService,
		cfg.Scheduler.OverduePeriod,
		cfg.Scheduler.InitialDelay,
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("create overdue scanner: %w", err)
	}
	app.scanner = scanner

	app.router = api.NewRouter(
		api.NewTaskHandler(taskService, logger),
		api.NewNotificationHandler(notificationService, logger),
		api.NewUserHandler(userService, logger),
	)

	return app, nil
}

// openDatabase opens the connection pool and verifies connectivity.
func openDatabase(cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}

// cleanup releases resources in reverse order of acquisition. Safe to call
// with a partially constructed application.
func (app *application) cleanup() {
	if app.scanner != nil {
		app.scanner.Stop()
	}
	if app.subscription != nil {
		if err := app.subscription.Unsubscribe(); err != nil {
			app.logger.Warn("failed to drain ingester subscription", "error", err)
		}
	}
	if app.natsClient != nil {
		app.natsClient.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn("failed to close database", "error", err)
		}
	}
}
