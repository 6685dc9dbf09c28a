package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/api/handler"
	apimw "github.com/umbraco/Umbraco.AI-sub015/internal/api/middleware"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/service"
)

// Deps holds everything the HTTP surface needs.
type Deps struct {
	Prompts  *service.PromptService
	Audit    *service.AuditService
	Queue    *queue.WorkQueue
	DB       handler.Pinger
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(1 << 20))
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(d.Logger, "/health", "/ready", "/metrics"))

	ph := handler.NewPromptHandler(d.Prompts, d.Logger)
	ah := handler.NewAuditHandler(d.Audit, d.Logger)
	qh := handler.NewQueueHandler(d.Queue)
	hh := handler.NewHealthHandler(d.DB, d.Queue)

	r.Get("/health", hh.Health)
	r.Get("/ready", hh.Ready)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// alias/{alias} is registered before {id} so "alias" is never read as an ID.
		r.Get("/prompts/alias/{alias}", ph.GetByAlias)
		r.Post("/prompts", ph.Save)
		r.Get("/prompts", ph.List)
		r.Get("/prompts/{id}", ph.GetByID)
		r.Delete("/prompts/{id}", ph.Delete)

		r.Get("/audit", ah.List)
		r.Get("/queue", qh.GetQueue)
	})

	return r
}
