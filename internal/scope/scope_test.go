package scope

import (
	"context"
	"testing"

	"github.com/umbraco/Umbraco.AI-sub015/internal/provider"
	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
)

func TestScope_CommitThenRollbackIsNoop(t *testing.T) {
	var commits, rollbacks int
	s := newScope(Services{}, nil, nil, "audit.record", "")
	s.commit = func(context.Context) error { commits++; return nil }
	s.rollback = func(context.Context) error { rollbacks++; return nil }

	ctx := context.Background()
	if err := s.Commit(ctx); err != nil {
		t.Fatal(err)
	}
	_ = s.Commit(ctx)
	_ = s.Rollback(ctx)

	if commits != 1 || rollbacks != 0 {
		t.Fatalf("expected 1 commit and 0 rollbacks, got %d and %d", commits, rollbacks)
	}
}

func TestScope_RollbackOnce(t *testing.T) {
	var rollbacks int
	s := newScope(Services{}, nil, nil, "notify.webhook", "corr-1")
	s.rollback = func(context.Context) error { rollbacks++; return nil }

	_ = s.Rollback(context.Background())
	_ = s.Rollback(context.Background())
	if rollbacks != 1 {
		t.Fatalf("expected a single rollback, got %d", rollbacks)
	}
}

func TestStaticFactory_NewScope(t *testing.T) {
	prompts := repository.NewMockPromptRepository()
	audit := repository.NewMockAuditRepository()
	f := NewStaticFactory(prompts, audit, Services{})

	s, err := f.NewScope(context.Background(), "audit.record", "corr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Prompts() != prompts || s.Audit() != audit {
		t.Fatal("expected scope to expose the factory's repositories")
	}
	if _, ok := s.Notifier().(provider.NopNotifier); !ok {
		t.Fatalf("expected NopNotifier default, got %T", s.Notifier())
	}
	if s.Limiter() == nil || s.Logger() == nil {
		t.Fatal("expected default limiter and logger")
	}
	if err := s.Commit(context.Background()); err != nil {
		t.Fatalf("static scope commit: %v", err)
	}
}
