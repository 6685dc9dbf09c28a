// Package scope provides the short-lived dependency container a deferred
// work item resolves its services from at execution time.
//
// Producers never build a Scope. The consumer asks a Factory for a fresh one
// immediately before running each item and completes it afterwards, so no
// request-bound resource outlives the request that created the work.
package scope

import (
	"context"

	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/provider"
	"github.com/umbraco/Umbraco.AI-sub015/internal/ratelimiter"
	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
)

// Services are the process-wide singletons every scope exposes.
type Services struct {
	Notifier provider.Notifier
	Limiter  *ratelimiter.EntityLimiters
	Logger   *zap.Logger
}

// Scope is one unit of work. Repositories obtained from it share the scope's
// transaction, if it has one; Commit or Rollback ends it.
type Scope struct {
	prompts  repository.PromptRepository
	audit    repository.AuditRepository
	notifier provider.Notifier
	limiter  *ratelimiter.EntityLimiters
	logger   *zap.Logger

	commit   func(ctx context.Context) error
	rollback func(ctx context.Context) error
	done     bool
}

// Factory creates a fresh Scope for one execution of a named work item.
type Factory interface {
	NewScope(ctx context.Context, name, correlationID string) (*Scope, error)
}

func newScope(
	svc Services,
	prompts repository.PromptRepository,
	audit repository.AuditRepository,
	name, correlationID string,
) *Scope {
	logger := svc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := svc.Notifier
	if notifier == nil {
		notifier = provider.NopNotifier{}
	}
	limiter := svc.Limiter
	if limiter == nil {
		limiter = ratelimiter.New(0)
	}
	fields := []zap.Field{zap.String("work_item", name)}
	if correlationID != "" {
		fields = append(fields, zap.String("correlation_id", correlationID))
	}
	return &Scope{
		prompts:  prompts,
		audit:    audit,
		notifier: notifier,
		limiter:  limiter,
		logger:   logger.With(fields...),
	}
}

func (s *Scope) Prompts() repository.PromptRepository { return s.prompts }
func (s *Scope) Audit() repository.AuditRepository    { return s.audit }
func (s *Scope) Notifier() provider.Notifier          { return s.notifier }
func (s *Scope) Limiter() *ratelimiter.EntityLimiters { return s.limiter }

// Logger is annotated with the work item name and correlation id.
func (s *Scope) Logger() *zap.Logger { return s.logger }

// Commit makes the scope's writes durable. Calling it twice is a no-op.
func (s *Scope) Commit(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if s.commit == nil {
		return nil
	}
	return s.commit(ctx)
}

// Rollback discards the scope's writes. It is a no-op after Commit.
func (s *Scope) Rollback(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	if s.rollback == nil {
		return nil
	}
	return s.rollback(ctx)
}
