package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

type pgAuditRepository struct {
	db DBTX
}

// NewPgAuditRepository returns an AuditRepository backed by PostgreSQL.
func NewPgAuditRepository(db DBTX) AuditRepository {
	return &pgAuditRepository{db: db}
}

func (r *pgAuditRepository) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_entries (id, entity_type, entity_id, action, correlation_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.EntityType, e.EntityID, e.Action, e.CorrelationID, e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *pgAuditRepository) List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, int, error) {
	where, args := buildAuditWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`
		SELECT id, entity_type, entity_id, action, correlation_id, detail, created_at
		FROM audit_entries%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		e, err := scanAuditEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *pgAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM audit_entries WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete audit entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAuditEntry(row pgx.Row) (*domain.AuditEntry, error) {
	var e domain.AuditEntry
	if err := row.Scan(
		&e.ID, &e.EntityType, &e.EntityID, &e.Action,
		&e.CorrelationID, &e.Detail, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// buildAuditWhere builds a parameterised WHERE clause from an AuditFilter.
func buildAuditWhere(f domain.AuditFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.EntityType != nil {
		add("entity_type = $%d", *f.EntityType)
	}
	if f.EntityID != nil {
		add("entity_id = $%d", *f.EntityID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
