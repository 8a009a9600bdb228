package memory

import (
	"context"
	"sync"

	"finanzas/internal/core"
	ports "finanzas/internal/sheets"
)

// Store keeps the last report written for each period.
type Store struct {
	mu      sync.Mutex
	reports map[core.Period]core.KPIBundle
	writes  int
}

var _ ports.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{reports: map[core.Period]core.KPIBundle{}}
}

// WriteReport replaces the stored report for the bundle's period.
func (s *Store) WriteReport(_ context.Context, b core.KPIBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[b.Period] = b
	s.writes++
	return nil
}

// Report returns the last report written for p.
func (s *Store) Report(p core.Period) (core.KPIBundle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.reports[p]
	return b, ok
}

// Writes counts every WriteReport call.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
