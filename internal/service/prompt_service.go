package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/jobs"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
)

// PromptService coordinates the prompt repository and the work queue.
// Saves and deletes are committed first; audit and webhook work is deferred
// to the background consumer so the request path never waits on it.
type PromptService struct {
	repo           repository.PromptRepository
	q              *queue.WorkQueue
	enqueueTimeout time.Duration
	logger         *zap.Logger
}

func NewPromptService(
	repo repository.PromptRepository,
	q *queue.WorkQueue,
	enqueueTimeout time.Duration,
	logger *zap.Logger,
) *PromptService {
	return &PromptService{repo: repo, q: q, enqueueTimeout: enqueueTimeout, logger: logger}
}

// Save validates and upserts a prompt by alias, then defers its audit entry
// and change notification.
//
// The returned bool reports whether a new prompt was created. When the save
// succeeds but the follow-up work cannot be queued, the saved prompt is
// returned together with an error wrapping ErrDeferredWorkRejected.
func (s *PromptService) Save(
	ctx context.Context,
	req domain.SavePromptRequest,
	correlationID string,
) (*domain.Prompt, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	p := &domain.Prompt{
		Alias:     req.Alias,
		Name:      req.Name,
		Content:   req.Content,
		ProfileID: req.ProfileID,
		Tags:      req.Tags,
	}
	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, false, fmt.Errorf("persist prompt: %w", err)
	}

	action := domain.AuditUpdated
	if created {
		action = domain.AuditCreated
	}
	if err := s.deferChange(ctx, p, action, correlationID); err != nil {
		return p, created, err
	}
	return p, created, nil
}

// Delete removes a prompt and defers the matching audit entry and notification.
func (s *PromptService) Delete(ctx context.Context, id, correlationID string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.deferChange(ctx, p, domain.AuditDeleted, correlationID)
}

func (s *PromptService) GetByID(ctx context.Context, id string) (*domain.Prompt, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PromptService) GetByAlias(ctx context.Context, alias string) (*domain.Prompt, error) {
	return s.repo.GetByAlias(ctx, alias)
}

func (s *PromptService) List(ctx context.Context, filter domain.PromptFilter) ([]*domain.Prompt, int, error) {
	return s.repo.List(ctx, filter)
}

// ---- private helpers ----

// deferChange queues the audit record and the webhook notification for a
// committed change. Enqueue blocks while the queue is full, bounded by the
// request context and enqueueTimeout.
func (s *PromptService) deferChange(
	ctx context.Context,
	p *domain.Prompt,
	action domain.AuditAction,
	correlationID string,
) error {
	now := time.Now().UTC()

	entry := domain.AuditEntry{
		EntityType: domain.EntityPrompt,
		EntityID:   p.ID,
		Action:     action,
		Detail:     fmt.Sprintf("prompt %q v%d", p.Alias, p.Version),
		CreatedAt:  now,
	}
	if correlationID != "" {
		entry.CorrelationID = &correlationID
	}
	auditItem, err := jobs.RecordAudit(entry)
	if err != nil {
		return err
	}
	notifyItem, err := jobs.NotifyEntityChanged(domain.EntityEvent{
		EntityType:    domain.EntityPrompt,
		EntityID:      p.ID,
		Alias:         p.Alias,
		Action:        action,
		Version:       p.Version,
		CorrelationID: correlationID,
		OccurredAt:    now,
	})
	if err != nil {
		return err
	}

	ectx, cancel := context.WithTimeout(ctx, s.enqueueTimeout)
	defer cancel()

	var errs []error
	for _, item := range []queue.WorkItem{auditItem, notifyItem} {
		if err := s.q.Enqueue(ectx, item); err != nil {
			s.logger.Warn("deferred work not queued",
				zap.String("work_item", item.Name()),
				zap.String("prompt_id", p.ID),
				zap.String("correlation_id", correlationID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", item.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrDeferredWorkRejected, errors.Join(errs...))
	}
	return nil
}
