package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/umbraco/Umbraco.AI-sub015/internal/api"
	"github.com/umbraco/Umbraco.AI-sub015/internal/config"
	"github.com/umbraco/Umbraco.AI-sub015/internal/db"
	"github.com/umbraco/Umbraco.AI-sub015/internal/metrics"
	"github.com/umbraco/Umbraco.AI-sub015/internal/provider"
	"github.com/umbraco/Umbraco.AI-sub015/internal/queue"
	"github.com/umbraco/Umbraco.AI-sub015/internal/ratelimiter"
	"github.com/umbraco/Umbraco.AI-sub015/internal/repository"
	"github.com/umbraco/Umbraco.AI-sub015/internal/scope"
	"github.com/umbraco/Umbraco.AI-sub015/internal/service"
	"github.com/umbraco/Umbraco.AI-sub015/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background consumer (default)",
	RunE:  runServe,
}

var skipMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply migrations on startup")
	rootCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply migrations on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if !skipMigrate {
		if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	// ---- core dependencies ----
	q, err := queue.New(cfg.WorkQueueCapacity)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, q)

	var notifier provider.Notifier = provider.NopNotifier{}
	if cfg.WebhookURL != "" {
		notifier = provider.NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout)
	} else {
		logger.Info("WEBHOOK_URL not set, change notifications are skipped")
	}

	scopes := scope.NewPgFactory(pool, scope.Services{
		Notifier: notifier,
		Limiter:  ratelimiter.New(cfg.WebhookRateLimit),
		Logger:   logger,
	})

	prompts := service.NewPromptService(repository.NewPgPromptRepository(pool), q, cfg.EnqueueTimeout, logger)
	audit := service.NewAuditService(repository.NewPgAuditRepository(pool))

	// ---- background work ----
	// The consumer context is only cancelled when draining overruns
	// SHUTDOWN_TIMEOUT; normally the consumer stops when the queue drains.
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()

	consumer := worker.NewConsumer(q, scopes, cfg.WorkRetryBackoff, logger, m.ConsumerHooks())
	consumer.Start(consumerCtx)

	retention, err := worker.NewRetentionWorker(q, cfg.AuditCleanupSchedule, cfg.AuditRetention, cfg.EnqueueTimeout, logger)
	if err != nil {
		return err
	}
	retentionCtx, stopRetention := context.WithCancel(ctx)
	retentionDone := make(chan struct{})
	go func() {
		defer close(retentionDone)
		retention.Run(retentionCtx)
	}()

	// ---- HTTP server ----
	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.Deps{
			Prompts:  prompts,
			Audit:    audit,
			Queue:    q,
			DB:       pool,
			Gatherer: reg,
			Logger:   logger,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Int("queue_capacity", q.Cap()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// ---- graceful shutdown ----
	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serveErr:
		logger.Error("server error", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()

	// 1. Stop accepting requests; in-flight handlers may still enqueue.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. No more scheduled cleanups.
	stopRetention()
	<-retentionDone

	// 3. Refuse new work and let the consumer finish what is queued.
	q.Drain()
	logger.Info("draining work queue", zap.Int("pending", q.Len()))

	// 4. Wait for the consumer, bounded by what is left of the shutdown budget.
	if !waitFor(shutdownCtx, consumer.Wait) {
		// 5. Out of time: interrupt the running item and discard the rest.
		cancelConsumer()
		abandoned := q.Close()
		consumer.Wait()
		logger.Warn("shutdown timeout, deferred work abandoned", zap.Int("abandoned", abandoned))
	}

	logger.Info("server stopped cleanly")
	return runErr
}

// waitFor reports whether wait returned before ctx was done.
func waitFor(ctx context.Context, wait func()) bool {
	done := make(chan struct{})
	go func() {
		wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
