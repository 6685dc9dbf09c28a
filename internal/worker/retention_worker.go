package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/jobs"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
)

// RetentionWorker enqueues an audit cleanup item on a cron schedule.
//
// It only produces work; the deletion itself runs on the consumer inside a
// scope, like any other deferred item.
type RetentionWorker struct {
	q              *queue.WorkQueue
	schedule       cron.Schedule
	expr           string
	retention      time.Duration
	enqueueTimeout time.Duration
	logger         *zap.Logger
}

// NewRetentionWorker parses expr as a standard cron expression or a
// descriptor such as "@every 1h" or "@daily".
func NewRetentionWorker(
	q *queue.WorkQueue,
	expr string,
	retention time.Duration,
	enqueueTimeout time.Duration,
	logger *zap.Logger,
) (*RetentionWorker, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cleanup schedule %q: %w", expr, err)
	}
	return &RetentionWorker{
		q: q, schedule: schedule, expr: expr,
		retention: retention, enqueueTimeout: enqueueTimeout, logger: logger,
	}, nil
}

// Run fires on every schedule tick until ctx is cancelled.
func (rw *RetentionWorker) Run(ctx context.Context) {
	c := cron.New()
	c.Schedule(rw.schedule, cron.FuncJob(func() {
		if err := rw.Trigger(ctx); err != nil {
			rw.logger.Warn("could not enqueue audit cleanup", zap.Error(err))
		}
	}))
	c.Start()

	rw.logger.Info("retention worker started",
		zap.String("schedule", rw.expr),
		zap.Duration("retention", rw.retention),
	)

	<-ctx.Done()
	<-c.Stop().Done()
	rw.logger.Info("retention worker stopping")
}

// Trigger enqueues one cleanup item, waiting at most enqueueTimeout for room.
func (rw *RetentionWorker) Trigger(ctx context.Context) error {
	item, err := jobs.CleanupAudit(rw.retention, nil)
	if err != nil {
		return err
	}
	ectx, cancel := context.WithTimeout(ctx, rw.enqueueTimeout)
	defer cancel()
	return rw.q.Enqueue(ectx, item)
}

// Next reports when the schedule fires after t.
func (rw *RetentionWorker) Next(t time.Time) time.Time {
	return rw.schedule.Next(t)
}
