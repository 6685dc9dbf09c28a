// Package jobs builds the deferred work items producers place on the work
// queue. Each constructor captures only plain values; everything the action
// needs at run time is resolved from the scope it is handed.
package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/scope"
)

// Work item names, used as log fields and metric labels.
const (
	NameAuditRecord   = "audit.record"
	NameNotifyWebhook = "notify.webhook"
	NameAuditCleanup  = "audit.cleanup"
)

// RecordAudit writes entry to the audit log.
func RecordAudit(entry domain.AuditEntry) (queue.WorkItem, error) {
	var correlationID string
	if entry.CorrelationID != nil {
		correlationID = *entry.CorrelationID
	}
	return queue.NewWorkItem(NameAuditRecord, correlationID, func(ctx context.Context, s *scope.Scope) error {
		e := entry
		if err := s.Audit().Insert(ctx, &e); err != nil {
			return fmt.Errorf("record audit for %s %s: %w", e.EntityType, e.EntityID, err)
		}
		s.Logger().Debug("audit entry recorded",
			zap.String("entity_type", string(e.EntityType)),
			zap.String("entity_id", e.EntityID),
			zap.String("action", string(e.Action)),
		)
		return nil
	})
}

// NotifyEntityChanged delivers ev to the configured subscriber, waiting on
// the entity type's rate limiter first.
func NotifyEntityChanged(ev domain.EntityEvent) (queue.WorkItem, error) {
	return queue.NewWorkItem(NameNotifyWebhook, ev.CorrelationID, func(ctx context.Context, s *scope.Scope) error {
		if err := s.Limiter().Wait(ctx, ev.EntityType); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		resp, err := s.Notifier().Notify(ctx, ev)
		if err != nil {
			return fmt.Errorf("notify %s %s: %w", ev.EntityType, ev.EntityID, err)
		}
		s.Logger().Info("entity change delivered",
			zap.String("entity_type", string(ev.EntityType)),
			zap.String("entity_id", ev.EntityID),
			zap.String("delivery_id", resp.DeliveryID),
		)
		return nil
	})
}

// CleanupAudit removes audit entries older than retention, measured from
// the time the item runs rather than when it was queued.
func CleanupAudit(retention time.Duration, now func() time.Time) (queue.WorkItem, error) {
	if now == nil {
		now = time.Now
	}
	return queue.NewWorkItem(NameAuditCleanup, "", func(ctx context.Context, s *scope.Scope) error {
		cutoff := now().UTC().Add(-retention)
		removed, err := s.Audit().DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("audit cleanup: %w", err)
		}
		s.Logger().Info("audit cleanup finished",
			zap.Time("cutoff", cutoff),
			zap.Int64("removed", removed),
		)
		return nil
	})
}
