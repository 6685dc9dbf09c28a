package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/worker"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	ItemsProcessed *prometheus.CounterVec
	ItemsFailed    *prometheus.CounterVec
	ItemDuration   *prometheus.HistogramVec
}

// New registers all instruments with the given Prometheus registerer.
// Queue depth and capacity are read from q at scrape time, so nothing has to
// keep a gauge in sync with Enqueue and Dequeue.
func New(reg prometheus.Registerer, q *queue.WorkQueue) *Metrics {
	m := &Metrics{
		ItemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "work_items_processed_total",
			Help: "Total number of deferred work items that completed successfully.",
		}, []string{"name"}),

		ItemsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "work_items_failed_total",
			Help: "Total number of deferred work items dropped after failing.",
		}, []string{"name"}),

		ItemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "work_item_duration_seconds",
			Help:    "Time from dequeue to completion of a work item, retries included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"name"}),
	}

	depth := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "work_queue_depth",
		Help: "Current number of items waiting in the work queue.",
	}, func() float64 { return float64(q.Len()) })

	capacity := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "work_queue_capacity",
		Help: "Maximum number of items the work queue holds.",
	}, func() float64 { return float64(q.Cap()) })

	reg.MustRegister(
		m.ItemsProcessed,
		m.ItemsFailed,
		m.ItemDuration,
		depth,
		capacity,
	)

	return m
}

// ConsumerHooks adapts the instruments to worker.MetricHooks so the consumer
// never imports prometheus directly.
func (m *Metrics) ConsumerHooks() worker.MetricHooks {
	return worker.MetricHooks{
		OnSuccess: func(name string, latency time.Duration) {
			m.ItemsProcessed.WithLabelValues(name).Inc()
			m.ItemDuration.WithLabelValues(name).Observe(latency.Seconds())
		},
		OnFailure: func(name string, latency time.Duration) {
			m.ItemsFailed.WithLabelValues(name).Inc()
			m.ItemDuration.WithLabelValues(name).Observe(latency.Seconds())
		},
	}
}
