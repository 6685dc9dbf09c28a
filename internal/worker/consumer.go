package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/scope"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the consumer constructor signature clean.
type MetricHooks struct {
	OnSuccess func(name string, latency time.Duration)
	OnFailure func(name string, latency time.Duration)
}

// Consumer is the single reader of the work queue. It runs each dequeued
// item to completion, in order, inside a fresh scope.
//
// A failing or panicking item is logged and dropped after its retries are
// spent; it never stops the loop. Retries run inline, so later items wait
// behind the one being retried.
type Consumer struct {
	q       *queue.WorkQueue
	scopes  scope.Factory
	backoff []time.Duration
	logger  *zap.Logger

	// Hooks for metrics, injected so the consumer stays metrics-agnostic.
	onSuccess func(name string, latency time.Duration)
	onFailure func(name string, latency time.Duration)

	wg sync.WaitGroup
}

// NewConsumer constructs a consumer. backoff lists the delay before each
// retry; an empty slice means log-and-drop on the first failure. Hook
// functions are optional (nil = no-op).
func NewConsumer(
	q *queue.WorkQueue,
	scopes scope.Factory,
	backoff []time.Duration,
	logger *zap.Logger,
	hooks MetricHooks,
) *Consumer {
	if hooks.OnSuccess == nil {
		hooks.OnSuccess = func(string, time.Duration) {}
	}
	if hooks.OnFailure == nil {
		hooks.OnFailure = func(string, time.Duration) {}
	}
	return &Consumer{
		q: q, scopes: scopes, backoff: backoff, logger: logger,
		onSuccess: hooks.OnSuccess, onFailure: hooks.OnFailure,
	}
}

// Start launches Run in a goroutine. ctx should be tied to application
// shutdown; it is also the context every action runs under.
func (c *Consumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Run(ctx)
	}()
}

// Wait blocks until the goroutine launched by Start has returned.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

// Run blocks, processing one item per iteration, until the queue is closed
// (or fully drained) or ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Info("work queue consumer started", zap.Int("capacity", c.q.Cap()))
	for {
		item, err := c.q.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrQueueClosed) {
				c.logger.Info("work queue closed, consumer stopping")
			} else {
				c.logger.Info("work queue consumer stopping", zap.Error(err))
			}
			return
		}
		c.process(ctx, item)
	}
}

func (c *Consumer) process(ctx context.Context, item queue.WorkItem) {
	start := time.Now()
	log := c.logger.With(zap.String("work_item", item.Name()))
	if id := item.CorrelationID(); id != "" {
		log = log.With(zap.String("correlation_id", id))
	}

	for attempt := 0; ; attempt++ {
		err := c.execute(ctx, item)
		if err == nil {
			elapsed := time.Since(start)
			c.onSuccess(item.Name(), elapsed)
			log.Debug("work item completed", zap.Int("attempt", attempt+1), zap.Duration("latency", elapsed))
			return
		}

		if attempt >= len(c.backoff) || ctx.Err() != nil {
			c.onFailure(item.Name(), time.Since(start))
			log.Error("work item failed, dropping", zap.Int("attempts", attempt+1), zap.Error(err))
			return
		}

		delay := c.backoff[attempt]
		log.Warn("work item failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			c.onFailure(item.Name(), time.Since(start))
			log.Error("work item dropped during shutdown", zap.Int("attempts", attempt+1), zap.Error(err))
			return
		}
	}
}

// execute runs item once inside its own scope. The scope is committed on
// success and rolled back on error or panic.
func (c *Consumer) execute(ctx context.Context, item queue.WorkItem) (err error) {
	s, err := c.scopes.NewScope(ctx, item.Name(), item.CorrelationID())
	if err != nil {
		return fmt.Errorf("create scope: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("work item panicked: %v", r)
			c.logger.Error("recovered panic in work item",
				zap.String("work_item", item.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
		if err != nil {
			// The action may have failed because ctx was cancelled; the
			// rollback must still reach the database.
			if rbErr := s.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				c.logger.Warn("scope rollback failed", zap.String("work_item", item.Name()), zap.Error(rbErr))
			}
		}
	}()

	if err = item.Run(ctx, s); err != nil {
		return err
	}
	if err = s.Commit(ctx); err != nil {
		return fmt.Errorf("commit scope: %w", err)
	}
	return nil
}
