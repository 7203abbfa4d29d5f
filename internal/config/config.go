// Package config loads and validates the application configuration from
// environment variables and an optional config file.
package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	NATS      NATSConfig      `mapstructure:"nats" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// NATSConfig contains the event channel broker settings.
type NATSConfig struct {
	URL            string        `mapstructure:"url" validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"required"`
}

// SchedulerConfig contains the overdue scanner schedule. Both values are
// externally configurable; the defaults are a 10 minute period with a
// 1 minute initial delay.
type SchedulerConfig struct {
	OverduePeriod time.Duration `mapstructure:"overdue_period" validate:"required"`
	InitialDelay  time.Duration `mapstructure:"initial_delay" validate:"min=0"`
}
