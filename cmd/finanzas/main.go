package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/cache"
	"finanzas/internal/cli"
	"finanzas/internal/core"
	apphttp "finanzas/internal/http"
	"finanzas/internal/metrics"
	"finanzas/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("finanzas")
	cfg := cli.LoadAndValidateConfig(logger)

	res := cli.InitBackend(context.Background(), logger, cfg)

	// Report requests are optional; a nil publisher disables them.
	var publisher services.ReportPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without report requests", "error", err)
		} else {
			publisher = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	kpiCache := cache.NewLRUCache[core.KPIBundle](cfg.KPICacheSize, cfg.KPICacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(kpiCache)
	cacheManager.StartCleanup(10 * time.Minute)

	dashboard := services.NewDashboardService(res.Store, res.Store, kpiCache, time.Now)
	ledgerSvc := services.NewLedgerService(res.Store, publisher, dashboard)

	opts := apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Ready:              res.Ready,
	}
	if cfg.MetricsEnabled {
		collector := metrics.New(metrics.DefaultNamespace)
		registry, err := metrics.NewRegistry(collector)
		if err != nil {
			logger.Error("Failed to register metrics", "error", err)
			os.Exit(1)
		}
		opts.Metrics = collector
		opts.MetricsHandler = metrics.Handler(registry)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, ledgerSvc, dashboard, opts)
	if err != nil {
		logger.Error("Failed to configure HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if err := ledgerSvc.Close(); err != nil {
			logger.Error("Failed to close ledger", "error", err)
		}
	})

	logger.Info("Starting finanzas server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"metrics", cfg.MetricsEnabled,
		"report_requests", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	slog.Info("Server stopped gracefully")
}
