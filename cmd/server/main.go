// Package main implements the entry point for the task management API
// server: a REST backend whose task mutations feed a notification pipeline
// through a JetStream event channel and a periodic overdue scanner.
package main

import (
	"log"

	"github.com/taskman/taskman-api/internal/config"
	"github.com/taskman/taskman-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.run(); err != nil {
		appLogger.Error("server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
}
