package memory

import (
	"context"
	"testing"

	"finanzas/internal/core"
)

func TestStoreReplacesReportPerPeriod(t *testing.T) {
	s := New()
	p := core.Period{Year: 2024, Month: 1}
	ctx := context.Background()

	if _, ok := s.Report(p); ok {
		t.Fatalf("expected no report before writes")
	}
	s.WriteReport(ctx, core.KPIBundle{Period: p, AnomalyCount: 1})
	s.WriteReport(ctx, core.KPIBundle{Period: p, AnomalyCount: 2})
	s.WriteReport(ctx, core.KPIBundle{Period: core.Period{Year: 2024, Month: 2}})

	b, ok := s.Report(p)
	if !ok || b.AnomalyCount != 2 {
		t.Fatalf("expected latest report, got %+v", b)
	}
	if s.Writes() != 3 {
		t.Fatalf("expected 3 writes, got %d", s.Writes())
	}
}
