package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/cache"
	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// DashboardService derives the read models shown by the dashboard.
type DashboardService struct {
	lister ledger.TransactionLister
	config ledger.ConfigStore
	cache  cache.Cache[core.KPIBundle]
	now    func() time.Time

	// generation counts ledger changes; a bundle loaded under an older
	// generation is not cached.
	mu         sync.Mutex
	generation uint64
}

// NewDashboardService builds the service. kpiCache may be nil; now defaults to
// time.Now.
func NewDashboardService(lister ledger.TransactionLister, config ledger.ConfigStore, kpiCache cache.Cache[core.KPIBundle], now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		lister: lister,
		config: config,
		cache:  kpiCache,
		now:    now,
	}
}

// Now returns the clock used for projections.
func (s *DashboardService) Now() time.Time {
	return s.now()
}

// KPIs returns the KPI bundle for (year, month). Bundles are cached per period
// and calendar day so the projection follows the clock.
func (s *DashboardService) KPIs(ctx context.Context, year, month int) (core.KPIBundle, error) {
	period, err := core.NewPeriod(year, month)
	if err != nil {
		return core.KPIBundle{}, err
	}
	now := s.now()
	key := period.String() + "@" + core.DateOf(now).String()

	if s.cache != nil {
		if b, ok := s.cache.Get(key); ok {
			return b, nil
		}
	}
	gen := s.currentGeneration()

	var (
		txs          []core.Transaction
		budget, goal core.Money
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.lister.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budget, err = s.config.GetConfig(gctx, ledger.ConfigBudget)
		if err != nil {
			return fmt.Errorf("get budget: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		goal, err = s.config.GetConfig(gctx, ledger.ConfigSavingsGoal)
		if err != nil {
			return fmt.Errorf("get savings goal: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.KPIBundle{}, err
	}

	b, err := core.ComputeKPIs(txs, budget, goal, period.Year, period.Month, now)
	if err != nil {
		return core.KPIBundle{}, err
	}
	s.store(key, gen, b)
	return b, nil
}

func (s *DashboardService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// store caches b unless the ledger changed since gen was read.
func (s *DashboardService) store(key string, gen uint64, b core.KPIBundle) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.cache.Set(key, b)
}

// CurrentKPIs returns the bundle for the month of the service clock.
func (s *DashboardService) CurrentKPIs(ctx context.Context) (core.KPIBundle, error) {
	p := core.PeriodOf(s.now())
	return s.KPIs(ctx, p.Year, p.Month)
}

// Balance is the lifetime net balance of the ledger.
func (s *DashboardService) Balance(ctx context.Context) (core.Money, error) {
	txs, err := s.lister.ListTransactions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.TotalBalance(txs), nil
}

// Breakdown returns the month's expenses grouped by category.
func (s *DashboardService) Breakdown(ctx context.Context, year, month int) ([]core.CategoryAmount, error) {
	txs, err := s.PeriodTransactions(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return core.ExpensesByCategory(txs), nil
}

// PeriodTransactions returns the transactions dated within (year, month).
func (s *DashboardService) PeriodTransactions(ctx context.Context, year, month int) ([]core.Transaction, error) {
	period, err := core.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	txs, err := s.lister.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.FilterPeriod(txs, period), nil
}

// LedgerChanged drops every cached bundle.
func (s *DashboardService) LedgerChanged(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cache != nil {
		s.cache.Purge()
	}
}
