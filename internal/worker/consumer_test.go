package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
	"github.com/umbraco/Umbraco.AI-sub015/internal/scope"
	"github.com/umbraco/Umbraco.AI-sub015/internal/worker"
)

type hookRecorder struct {
	mu      sync.Mutex
	success []string
	failure []string
}

func (h *hookRecorder) hooks() worker.MetricHooks {
	return worker.MetricHooks{
		OnSuccess: func(name string, _ time.Duration) {
			h.mu.Lock()
			h.success = append(h.success, name)
			h.mu.Unlock()
		},
		OnFailure: func(name string, _ time.Duration) {
			h.mu.Lock()
			h.failure = append(h.failure, name)
			h.mu.Unlock()
		},
	}
}

func staticFactory() scope.Factory {
	return scope.NewStaticFactory(repository.NewMockPromptRepository(), repository.NewMockAuditRepository(), scope.Services{})
}

func mustItem(t *testing.T, name string, action queue.Action) queue.WorkItem {
	t.Helper()
	it, err := queue.NewWorkItem(name, "", action)
	if err != nil {
		t.Fatal(err)
	}
	return it
}

// runUntilDrained enqueues items, drains the queue and runs the consumer
// synchronously until it stops.
func runUntilDrained(t *testing.T, c *worker.Consumer, q *queue.WorkQueue, items ...queue.WorkItem) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, it := range items {
		if err := q.Enqueue(ctx, it); err != nil {
			t.Fatal(err)
		}
	}
	q.Drain()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("consumer did not stop after the queue drained")
	}
}

func TestConsumer_RunsItemsInOrder(t *testing.T) {
	q := queue.NewDefault()
	rec := &hookRecorder{}
	c := worker.NewConsumer(q, staticFactory(), nil, zap.NewNop(), rec.hooks())

	var order []string
	record := func(name string) queue.Action {
		return func(context.Context, *scope.Scope) error {
			order = append(order, name)
			return nil
		}
	}

	runUntilDrained(t, c, q,
		mustItem(t, "first", record("first")),
		mustItem(t, "second", record("second")),
		mustItem(t, "third", record("third")),
	)

	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("unexpected execution order: %v", order)
	}
	if len(rec.success) != 3 || len(rec.failure) != 0 {
		t.Fatalf("expected 3 successes and 0 failures, got %v / %v", rec.success, rec.failure)
	}
}

// TestConsumer_FailureDoesNotStopLoop verifies an erroring item and a
// panicking item are each dropped and the following item still runs.
func TestConsumer_FailureDoesNotStopLoop(t *testing.T) {
	q := queue.NewDefault()
	rec := &hookRecorder{}
	c := worker.NewConsumer(q, staticFactory(), nil, zap.NewNop(), rec.hooks())

	ran := false
	runUntilDrained(t, c, q,
		mustItem(t, "fails", func(context.Context, *scope.Scope) error { return errors.New("boom") }),
		mustItem(t, "panics", func(context.Context, *scope.Scope) error { panic("kaboom") }),
		mustItem(t, "after", func(context.Context, *scope.Scope) error { ran = true; return nil }),
	)

	if !ran {
		t.Fatal("item after the failures did not run")
	}
	if len(rec.failure) != 2 || rec.failure[0] != "fails" || rec.failure[1] != "panics" {
		t.Fatalf("unexpected failures: %v", rec.failure)
	}
	if len(rec.success) != 1 || rec.success[0] != "after" {
		t.Fatalf("unexpected successes: %v", rec.success)
	}
}

func TestConsumer_RetriesWithBackoff(t *testing.T) {
	q := queue.NewDefault()
	rec := &hookRecorder{}
	c := worker.NewConsumer(q, staticFactory(), []time.Duration{time.Millisecond, time.Millisecond}, zap.NewNop(), rec.hooks())

	attempts := 0
	runUntilDrained(t, c, q, mustItem(t, "flaky", func(context.Context, *scope.Scope) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(rec.success) != 1 || len(rec.failure) != 0 {
		t.Fatalf("expected eventual success, got %v / %v", rec.success, rec.failure)
	}
}

func TestConsumer_RetriesExhausted(t *testing.T) {
	q := queue.NewDefault()
	rec := &hookRecorder{}
	c := worker.NewConsumer(q, staticFactory(), []time.Duration{time.Millisecond}, zap.NewNop(), rec.hooks())

	attempts := 0
	runUntilDrained(t, c, q, mustItem(t, "broken", func(context.Context, *scope.Scope) error {
		attempts++
		return errors.New("permanent")
	}))

	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if len(rec.failure) != 1 {
		t.Fatalf("expected one failure, got %v", rec.failure)
	}
}

type failingFactory struct{}

func (failingFactory) NewScope(context.Context, string, string) (*scope.Scope, error) {
	return nil, errors.New("pool exhausted")
}

func TestConsumer_ScopeCreationFailure(t *testing.T) {
	q := queue.NewDefault()
	rec := &hookRecorder{}
	c := worker.NewConsumer(q, failingFactory{}, nil, zap.NewNop(), rec.hooks())

	ran := false
	runUntilDrained(t, c, q, mustItem(t, "needs-scope", func(context.Context, *scope.Scope) error {
		ran = true
		return nil
	}))

	if ran {
		t.Fatal("action must not run without a scope")
	}
	if len(rec.failure) != 1 {
		t.Fatalf("expected one failure, got %v", rec.failure)
	}
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	q := queue.NewDefault()
	c := worker.NewConsumer(q, staticFactory(), nil, zap.NewNop(), worker.MetricHooks{})

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after context cancellation")
	}
}

func TestConsumer_ProcessesConcurrentProducers(t *testing.T) {
	q, _ := queue.New(8)
	c := worker.NewConsumer(q, staticFactory(), nil, zap.NewNop(), worker.MetricHooks{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Start(ctx)

	var mu sync.Mutex
	count := 0
	action := func(context.Context, *scope.Scope) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				it, _ := queue.NewWorkItem("count", "", action)
				if err := q.Enqueue(ctx, it); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
	q.Drain()
	c.Wait()

	if count != 200 {
		t.Fatalf("expected 200 executions, got %d", count)
	}
}
