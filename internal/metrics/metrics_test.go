package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/umbraco/Umbraco.AI-sub015/internal/metrics"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/scope"
)

func TestConsumerHooks_CountByName(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, queue.NewDefault())
	hooks := m.ConsumerHooks()

	hooks.OnSuccess("audit.record", 10*time.Millisecond)
	hooks.OnSuccess("audit.record", 20*time.Millisecond)
	hooks.OnFailure("notify.webhook", time.Second)

	if got := testutil.ToFloat64(m.ItemsProcessed.WithLabelValues("audit.record")); got != 2 {
		t.Fatalf("expected 2 processed, got %v", got)
	}
	if got := testutil.ToFloat64(m.ItemsFailed.WithLabelValues("notify.webhook")); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
	if got := testutil.CollectAndCount(m.ItemDuration); got != 2 {
		t.Fatalf("expected 2 histogram series, got %d", got)
	}
}

func TestQueueGauges_ReadAtScrapeTime(t *testing.T) {
	reg := prometheus.NewRegistry()
	q, err := queue.New(5)
	if err != nil {
		t.Fatal(err)
	}
	metrics.New(reg, q)

	it, _ := queue.NewWorkItem("noop", "", func(context.Context, *scope.Scope) error { return nil })
	for i := 0; i < 3; i++ {
		if err := q.Enqueue(context.Background(), it); err != nil {
			t.Fatal(err)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	values := map[string]float64{}
	for _, mf := range families {
		if len(mf.GetMetric()) == 1 && mf.GetMetric()[0].GetGauge() != nil {
			values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	if values["work_queue_depth"] != 3 {
		t.Fatalf("expected depth 3, got %v", values["work_queue_depth"])
	}
	if values["work_queue_capacity"] != 5 {
		t.Fatalf("expected capacity 5, got %v", values["work_queue_capacity"])
	}
}
