// Package config loads application configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. Empty selects the local SQLite file.
	DatabaseURL string

	// Redis. Empty disables the block cache.
	RedisURL string
	CacheTTL time.Duration

	// RabbitMQ. Empty keeps events in-process.
	RabbitMQURL string

	// HTTP API
	APIAddr         string
	APIReadTimeout  time.Duration
	APIWriteTimeout time.Duration
	APIIdleTimeout  time.Duration

	// Worker
	WorkerHealthAddr  string
	ReconcileInterval time.Duration
	ReconcileWindow   time.Duration

	// CalDAV import
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVPath     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getDurationEnv("CACHE_TTL", 5*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		APIAddr:         getEnv("API_ADDR", "0.0.0.0:8080"),
		APIReadTimeout:  getDurationEnv("API_READ_TIMEOUT", 15*time.Second),
		APIWriteTimeout: getDurationEnv("API_WRITE_TIMEOUT", 15*time.Second),
		APIIdleTimeout:  getDurationEnv("API_IDLE_TIMEOUT", 60*time.Second),

		WorkerHealthAddr:  getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		ReconcileInterval: getDurationEnv("RECONCILE_INTERVAL", time.Hour),
		ReconcileWindow:   getDurationEnv("RECONCILE_WINDOW", 90*24*time.Hour),

		CalDAVURL:      getEnv("CALDAV_URL", ""),
		CalDAVUsername: getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("CALDAV_PASSWORD", ""),
		CalDAVPath:     getEnv("CALDAV_PATH", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
