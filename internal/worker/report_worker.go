package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/export"
	"finanzas/internal/sheets"
)

// KPISource computes the bundle for a period. services.DashboardService
// satisfies it.
type KPISource interface {
	KPIs(ctx context.Context, year, month int) (core.KPIBundle, error)
	Now() time.Time
}

// Consumer delivers report requests to a handler until ctx ends.
type Consumer interface {
	ConsumeReportRequests(ctx context.Context, handler amqp.ReportHandler) error
}

// ReportObserver is told the outcome of every generation.
type ReportObserver interface {
	RecordReport(success bool, duration time.Duration)
}

// ReportWorker regenerates monthly reports and hands them to every writer.
type ReportWorker struct {
	kpis     KPISource
	writers  []sheets.ReportWriter
	observer ReportObserver
}

func NewReportWorker(kpis KPISource, writers ...sheets.ReportWriter) *ReportWorker {
	return &ReportWorker{kpis: kpis, writers: writers}
}

// WithObserver reports every generation to o.
func (w *ReportWorker) WithObserver(o ReportObserver) *ReportWorker {
	w.observer = o
	return w
}

// HandleReportRequest processes a single report request from AMQP.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	p, err := msg.Period()
	if err != nil {
		return err
	}
	return w.Generate(ctx, p)
}

// Generate computes the bundle for p and writes it everywhere. A failing
// writer does not stop the others; all failures are returned joined.
func (w *ReportWorker) Generate(ctx context.Context, p core.Period) error {
	start := time.Now()
	err := w.generate(ctx, p)
	if w.observer != nil {
		w.observer.RecordReport(err == nil, time.Since(start))
	}
	return err
}

func (w *ReportWorker) generate(ctx context.Context, p core.Period) error {
	b, err := w.kpis.KPIs(ctx, p.Year, p.Month)
	if err != nil {
		return fmt.Errorf("compute kpis for %s: %w", p, err)
	}

	var errs []error
	for _, wr := range w.writers {
		if err := wr.WriteReport(ctx, b); err != nil {
			slog.ErrorContext(ctx, "Failed to write report", "period", p.String(), "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.InfoContext(ctx, "Report generated",
		"period", p.String(),
		"transactions", len(b.PeriodTransactions),
		"anomalies", b.AnomalyCount)
	return nil
}

// RegenerateCurrent generates the report of the clock's current month.
func (w *ReportWorker) RegenerateCurrent(ctx context.Context) error {
	return w.Generate(ctx, core.PeriodOf(w.kpis.Now()))
}

// Run consumes report requests and regenerates the current month every
// interval, until ctx is cancelled. consumer may be nil.
func (w *ReportWorker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeReportRequests(gctx, w.HandleReportRequest)
		})
	}

	g.Go(func() error {
		if err := w.RegenerateCurrent(gctx); err != nil {
			slog.ErrorContext(gctx, "Startup report generation failed", "error", err)
		}
		if interval <= 0 {
			<-gctx.Done()
			return gctx.Err()
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := w.RegenerateCurrent(gctx); err != nil {
					slog.ErrorContext(gctx, "Periodic report generation failed", "error", err)
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// DirWriter stores each report as an xlsx file named after its period.
type DirWriter struct {
	Dir string
}

var _ sheets.ReportWriter = DirWriter{}

// WriteReport writes through a temporary file so readers never see a
// partial workbook.
func (d DirWriter) WriteReport(_ context.Context, b core.KPIBundle) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".report-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteReport(tmp, b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	path := d.Path(b.Period)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

// Path returns the file a period's report is written to.
func (d DirWriter) Path(p core.Period) string {
	return filepath.Join(d.Dir, export.FileName(p.Year, p.Month))
}
