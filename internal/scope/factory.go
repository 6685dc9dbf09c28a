package scope

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
)

// PgFactory opens one PostgreSQL transaction per scope.
type PgFactory struct {
	pool *pgxpool.Pool
	svc  Services
}

func NewPgFactory(pool *pgxpool.Pool, svc Services) *PgFactory {
	return &PgFactory{pool: pool, svc: svc}
}

func (f *PgFactory) NewScope(ctx context.Context, name, correlationID string) (*Scope, error) {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin scope transaction: %w", err)
	}
	s := newScope(f.svc,
		repository.NewPgPromptRepository(tx),
		repository.NewPgAuditRepository(tx),
		name, correlationID,
	)
	s.commit = tx.Commit
	s.rollback = tx.Rollback
	return s, nil
}

// StaticFactory hands every scope the same repositories and has no
// transaction. Used in tests and for in-memory runs.
type StaticFactory struct {
	prompts repository.PromptRepository
	audit   repository.AuditRepository
	svc     Services
}

func NewStaticFactory(prompts repository.PromptRepository, audit repository.AuditRepository, svc Services) *StaticFactory {
	return &StaticFactory{prompts: prompts, audit: audit, svc: svc}
}

func (f *StaticFactory) NewScope(_ context.Context, name, correlationID string) (*Scope, error) {
	return newScope(f.svc, f.prompts, f.audit, name, correlationID), nil
}

var (
	_ Factory = (*PgFactory)(nil)
	_ Factory = (*StaticFactory)(nil)
)
