package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL   string
	DBMaxConns    int32
	DBMinConns    int32
	MigrationsDir string

	// Work queue and consumer
	WorkQueueCapacity int
	EnqueueTimeout    time.Duration
	// WorkRetryBackoff holds the delay before each retry of a failed item.
	// Empty means a failed item is logged and dropped.
	WorkRetryBackoff []time.Duration

	// Audit retention
	AuditRetention       time.Duration
	AuditCleanupSchedule string

	// Change notifications; an empty WebhookURL disables delivery.
	WebhookURL       string
	WebhookTimeout   time.Duration
	WebhookRateLimit int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	backoff, err := getDurations("WORK_RETRY_BACKOFF")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL:   dbURL,
		DBMaxConns:    int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:    int32(getInt("DB_MIN_CONNS", 5)),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		WorkQueueCapacity: getInt("WORK_QUEUE_CAPACITY", 1000),
		EnqueueTimeout:    getDuration("ENQUEUE_TIMEOUT", 5*time.Second),
		WorkRetryBackoff:  backoff,

		AuditRetention:       getDuration("AUDIT_RETENTION", 720*time.Hour),
		AuditCleanupSchedule: getEnv("AUDIT_CLEANUP_SCHEDULE", "@every 1h"),

		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		WebhookTimeout:   getDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		WebhookRateLimit: getInt("WEBHOOK_RATE_LIMIT", 10),
	}

	if cfg.WorkQueueCapacity <= 0 {
		return nil, fmt.Errorf("WORK_QUEUE_CAPACITY must be positive, got %d", cfg.WorkQueueCapacity)
	}
	if cfg.EnqueueTimeout <= 0 {
		return nil, fmt.Errorf("ENQUEUE_TIMEOUT must be positive, got %s", cfg.EnqueueTimeout)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// getDurations parses a comma-separated list such as "1s,5s,30s".
// Unlike the scalar getters a malformed entry is an error, since silently
// dropping one would change the retry count.
func getDurations(key string) ([]time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		d, err := time.ParseDuration(strings.TrimSpace(p))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%s: invalid duration %q", key, p)
		}
		out = append(out, d)
	}
	return out, nil
}
