package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// ErrNegativeConfig is returned for budget or goal values below zero.
var ErrNegativeConfig = fmt.Errorf("%w: configuration values must not be negative", core.ErrInvalidArgument)

// ReportPublisher requests regeneration of a monthly report.
type ReportPublisher interface {
	PublishReportRequest(ctx context.Context, year, month int) error
}

// ChangeListener is notified after every successful ledger or configuration write.
type ChangeListener interface {
	LedgerChanged(ctx context.Context)
}

// Settings is the user configuration used by the KPI engine.
type Settings struct {
	Budget      core.Money
	SavingsGoal core.Money
}

// LedgerService orchestrates writes across the store and the report queue.
type LedgerService struct {
	store     ledger.Store
	publisher ReportPublisher
	listeners []ChangeListener
}

// NewLedgerService wires the store with an optional publisher. Pass a nil
// publisher to disable report requests.
func NewLedgerService(store ledger.Store, publisher ReportPublisher, listeners ...ChangeListener) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		listeners: listeners,
	}
}

// AddTransaction validates and stores t, then requests a report for its month.
func (s *LedgerService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	stored, err := s.store.AppendTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.changed(ctx, stored)
	return stored, nil
}

// DeleteTransaction removes a transaction by id.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	removed, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("delete transaction: %w", err)
	}

	s.changed(ctx, removed)
	return removed, nil
}

// Transactions returns the whole ledger.
func (s *LedgerService) Transactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Settings returns the budget and savings goal.
func (s *LedgerService) Settings(ctx context.Context) (Settings, error) {
	budget, err := s.store.GetConfig(ctx, ledger.ConfigBudget)
	if err != nil {
		return Settings{}, err
	}
	goal, err := s.store.GetConfig(ctx, ledger.ConfigSavingsGoal)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Budget: budget, SavingsGoal: goal}, nil
}

// SetConfig replaces one configuration value.
func (s *LedgerService) SetConfig(ctx context.Context, key string, value core.Money) error {
	if !ledger.KnownConfigKey(key) {
		return fmt.Errorf("%w: %q", ledger.ErrUnknownConfigKey, key)
	}
	if value.Cents < 0 {
		return ErrNegativeConfig
	}
	if err := s.store.SetConfig(ctx, key, value); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	s.notify(ctx)
	return nil
}

// UpdateSettings validates both values before writing either.
func (s *LedgerService) UpdateSettings(ctx context.Context, in Settings) error {
	if in.Budget.Cents < 0 || in.SavingsGoal.Cents < 0 {
		return ErrNegativeConfig
	}
	if err := s.SetConfig(ctx, ledger.ConfigBudget, in.Budget); err != nil {
		return err
	}
	return s.SetConfig(ctx, ledger.ConfigSavingsGoal, in.SavingsGoal)
}

// Categories lists the categories offered for kind.
func (s *LedgerService) Categories(ctx context.Context, kind core.Kind) ([]string, error) {
	return s.store.ListCategories(ctx, kind)
}

func (s *LedgerService) changed(ctx context.Context, t core.Transaction) {
	s.notify(ctx)

	// The write already succeeded; a lost report request is regenerated later.
	if err := s.publishReportRequest(ctx, t.Date.Year(), t.Date.Month()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish report request",
			"transaction_id", t.ID,
			"year", t.Date.Year(),
			"month", t.Date.Month(),
			"error", err)
	}
}

func (s *LedgerService) notify(ctx context.Context) {
	for _, l := range s.listeners {
		l.LedgerChanged(ctx)
	}
}

func (s *LedgerService) publishReportRequest(ctx context.Context, year, month int) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Report publisher not configured, skipping report request")
		return nil
	}
	return s.publisher.PublishReportRequest(ctx, year, month)
}

// Close closes the store and the publisher when it holds a connection.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	return errors.Join(errs...)
}
