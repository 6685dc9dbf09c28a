package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repository code runs either directly on the pool or inside a work scope's
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PromptRepository defines all persistence operations for prompts.
// The pgx implementation is in pg_prompt_repo.go.
// Tests use a hand-written mock (mock_prompt_repo.go).
type PromptRepository interface {
	// Upsert inserts p, or updates the existing prompt with the same alias.
	// It fills in ID, Version and timestamps and reports whether a new row was created.
	Upsert(ctx context.Context, p *domain.Prompt) (created bool, err error)
	GetByID(ctx context.Context, id string) (*domain.Prompt, error)
	GetByAlias(ctx context.Context, alias string) (*domain.Prompt, error)
	List(ctx context.Context, filter domain.PromptFilter) ([]*domain.Prompt, int, error)
	Delete(ctx context.Context, id string) error
}

// AuditRepository persists the AI audit log.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditEntry, int, error)
	// DeleteOlderThan removes entries created before cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
