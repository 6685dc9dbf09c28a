package config_test

import (
	"testing"
	"time"

	"github.com/umbraco/Umbraco.AI-sub015/internal/config"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")
	t.Setenv("WORK_RETRY_BACKOFF", "")
	t.Setenv("WORK_QUEUE_CAPACITY", "")
	t.Setenv("WEBHOOK_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorkQueueCapacity != 1000 {
		t.Fatalf("expected capacity 1000, got %d", cfg.WorkQueueCapacity)
	}
	if cfg.WorkRetryBackoff != nil {
		t.Fatalf("expected no retries by default, got %v", cfg.WorkRetryBackoff)
	}
	if cfg.AuditRetention != 720*time.Hour || cfg.AuditCleanupSchedule != "@every 1h" {
		t.Fatalf("unexpected retention defaults: %s %q", cfg.AuditRetention, cfg.AuditCleanupSchedule)
	}
	if cfg.WebhookURL != "" {
		t.Fatalf("expected webhook disabled by default, got %q", cfg.WebhookURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")
	t.Setenv("WORK_QUEUE_CAPACITY", "64")
	t.Setenv("WORK_RETRY_BACKOFF", "1s, 5s,30s")
	t.Setenv("ENQUEUE_TIMEOUT", "250ms")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorkQueueCapacity != 64 {
		t.Fatalf("expected capacity 64, got %d", cfg.WorkQueueCapacity)
	}
	want := []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}
	if len(cfg.WorkRetryBackoff) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.WorkRetryBackoff)
	}
	for i := range want {
		if cfg.WorkRetryBackoff[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cfg.WorkRetryBackoff)
		}
	}
	if cfg.EnqueueTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.EnqueueTimeout)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/backoffice")

	t.Run("backoff", func(t *testing.T) {
		t.Setenv("WORK_RETRY_BACKOFF", "1s,soon")
		if _, err := config.Load(); err == nil {
			t.Fatal("expected error for malformed backoff")
		}
	})
	t.Run("capacity", func(t *testing.T) {
		t.Setenv("WORK_RETRY_BACKOFF", "")
		t.Setenv("WORK_QUEUE_CAPACITY", "0")
		if _, err := config.Load(); err == nil {
			t.Fatal("expected error for zero capacity")
		}
	})
}
