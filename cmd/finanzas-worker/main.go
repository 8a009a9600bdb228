package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/cli"
	"finanzas/internal/metrics"
	"finanzas/internal/services"
	"finanzas/internal/sheets"
	gsheet "finanzas/internal/sheets/google"
	"finanzas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("finanzas-worker")
	logger.Info("Starting finanzas-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	res := cli.InitBackend(context.Background(), logger, cfg)
	defer res.Store.Close()

	writers := []sheets.ReportWriter{worker.DirWriter{Dir: cfg.ReportsDir}}
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writers = append(writers, sheetsClient)
		logger.Info("Google Sheets publishing enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// The worker regenerates on a timer even without a broker.
	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		consumer = client
	} else {
		logger.Info("AMQP disabled - only periodic regeneration will run")
	}

	dashboard := services.NewDashboardService(res.Store, res.Store, nil, time.Now)
	reportWorker := worker.NewReportWorker(dashboard, writers...)

	var metricsServer *http.Server
	if cfg.WorkerMetricsPort != "" {
		collector := metrics.New(metrics.DefaultNamespace)
		registry, err := metrics.NewRegistry(collector)
		if err != nil {
			logger.Error("Failed to register metrics", "error", err)
			os.Exit(1)
		}
		reportWorker.WithObserver(collector)

		mux := http.NewServeMux()
		mux.Handle("GET /metrics", metrics.Handler(registry))
		metricsServer = &http.Server{
			Addr:              ":" + cfg.WorkerMetricsPort,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error", "error", err, "port", cfg.WorkerMetricsPort)
			}
		}()
		logger.Info("Serving worker metrics", "port", cfg.WorkerMetricsPort)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if metricsServer != nil {
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error("Metrics server shutdown error", "error", err)
			}
		}
	})

	logger.Info("Report worker running",
		"reports_dir", cfg.ReportsDir,
		"interval", cfg.ReportInterval.String(),
		"amqp_enabled", consumer != nil)
	if err := reportWorker.Run(ctx, consumer, cfg.ReportInterval); err != nil {
		logger.Error("Report worker stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
