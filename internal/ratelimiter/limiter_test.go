package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/ratelimiter"
)

func TestEntityLimiters_WaitWithinBurst(t *testing.T) {
	l := ratelimiter.New(5)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx, domain.EntityPrompt); err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
	}
}

func TestEntityLimiters_CancelledWhileWaiting(t *testing.T) {
	l := ratelimiter.New(1)
	if err := l.Wait(context.Background(), domain.EntityPrompt); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, domain.EntityPrompt); err == nil {
		t.Fatal("expected error when the bucket is empty and ctx expires first")
	}
}

func TestEntityLimiters_Disabled(t *testing.T) {
	l := ratelimiter.New(0)
	for i := 0; i < 1000; i++ {
		if err := l.Wait(context.Background(), domain.EntityAgent); err != nil {
			t.Fatalf("unexpected error with limiting disabled: %v", err)
		}
	}
}
