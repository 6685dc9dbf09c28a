package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

const promptColumns = `id, alias, name, content, profile_id, tags, version, created_at, updated_at`

type pgPromptRepository struct {
	db DBTX
}

// NewPgPromptRepository returns a PromptRepository backed by PostgreSQL.
func NewPgPromptRepository(db DBTX) PromptRepository {
	return &pgPromptRepository{db: db}
}

func (r *pgPromptRepository) Upsert(ctx context.Context, p *domain.Prompt) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	now := time.Now().UTC()

	// xmax = 0 only for a freshly inserted row; an ON CONFLICT update sets it.
	var created bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO prompts (id, alias, name, content, profile_id, tags, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,1,$7,$7)
		ON CONFLICT (alias) DO UPDATE
		SET name = EXCLUDED.name,
		    content = EXCLUDED.content,
		    profile_id = EXCLUDED.profile_id,
		    tags = EXCLUDED.tags,
		    version = prompts.version + 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, version, created_at, updated_at, (xmax = 0)`,
		p.ID, p.Alias, p.Name, p.Content, p.ProfileID, p.Tags, now,
	).Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert prompt: %w", err)
	}
	return created, nil
}

func (r *pgPromptRepository) GetByID(ctx context.Context, id string) (*domain.Prompt, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id)
	p, err := scanPrompt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (r *pgPromptRepository) GetByAlias(ctx context.Context, alias string) (*domain.Prompt, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promptColumns+` FROM prompts WHERE alias = $1`, alias)
	p, err := scanPrompt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (r *pgPromptRepository) List(ctx context.Context, f domain.PromptFilter) ([]*domain.Prompt, int, error) {
	var where string
	var args []any
	if f.Tag != nil {
		args = append(args, *f.Tag)
		where = " WHERE $1 = ANY(tags)"
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM prompts"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prompts: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := fmt.Sprintf(`SELECT %s FROM prompts%s ORDER BY alias ASC LIMIT $%d OFFSET $%d`,
		promptColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, 0, err
		}
		prompts = append(prompts, p)
	}
	return prompts, total, rows.Err()
}

func (r *pgPromptRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPrompt(row pgx.Row) (*domain.Prompt, error) {
	var p domain.Prompt
	err := row.Scan(
		&p.ID, &p.Alias, &p.Name, &p.Content, &p.ProfileID, &p.Tags,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
