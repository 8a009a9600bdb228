package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
	"finanzas/internal/ledger/memory"
)

type fakePublisher struct {
	mu       sync.Mutex
	requests []core.Period
	err      error
	closed   bool
}

func (f *fakePublisher) PublishReportRequest(_ context.Context, year, month int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, core.Period{Year: year, Month: month})
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

type countingListener struct{ calls int }

func (c *countingListener) LedgerChanged(context.Context) { c.calls++ }

func food(cents int64, y, m, d int) core.Transaction {
	return core.Transaction{Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: cents}, Date: core.NewDate(y, m, d)}
}

func TestLedgerServiceAddPublishesAndNotifies(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	listener := &countingListener{}
	svc := NewLedgerService(memory.New(nil), pub, listener)

	stored, err := svc.AddTransaction(ctx, food(1000, 2024, 3, 12))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if stored.ID != 1 {
		t.Fatalf("expected id 1, got %d", stored.ID)
	}
	if len(pub.requests) != 1 || pub.requests[0] != (core.Period{Year: 2024, Month: 3}) {
		t.Fatalf("unexpected report requests %+v", pub.requests)
	}
	if listener.calls != 1 {
		t.Fatalf("expected 1 notification, got %d", listener.calls)
	}
}

func TestLedgerServicePublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{err: errors.New("broker down")}
	store := memory.New(nil)
	svc := NewLedgerService(store, pub)

	if _, err := svc.AddTransaction(ctx, food(1000, 2024, 3, 12)); err != nil {
		t.Fatalf("publish errors must not fail the write: %v", err)
	}
	all, _ := store.ListTransactions(ctx)
	if len(all) != 1 {
		t.Fatalf("expected transaction to be stored")
	}
}

func TestLedgerServiceRejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(nil), pub)
	_, err := svc.AddTransaction(context.Background(), food(0, 2024, 3, 12))
	if !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(pub.requests) != 0 {
		t.Fatalf("no report request expected for rejected input")
	}
}

func TestLedgerServiceDelete(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(nil), pub)
	stored, _ := svc.AddTransaction(ctx, food(1000, 2024, 5, 1))

	removed, err := svc.DeleteTransaction(ctx, stored.ID)
	if err != nil || removed.ID != stored.ID {
		t.Fatalf("unexpected delete %+v err=%v", removed, err)
	}
	if len(pub.requests) != 2 || pub.requests[1] != (core.Period{Year: 2024, Month: 5}) {
		t.Fatalf("expected request for the deleted month, got %+v", pub.requests)
	}
	if _, err := svc.DeleteTransaction(ctx, stored.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerServiceNilPublisher(t *testing.T) {
	svc := NewLedgerService(memory.New(nil), nil)
	if _, err := svc.AddTransaction(context.Background(), food(1, 2024, 1, 1)); err != nil {
		t.Fatalf("add without publisher: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestLedgerServiceSettings(t *testing.T) {
	ctx := context.Background()
	listener := &countingListener{}
	svc := NewLedgerService(memory.New(nil), nil, listener)

	got, err := svc.Settings(ctx)
	if err != nil || got.Budget.Cents != 300000 || got.SavingsGoal.Cents != 60000 {
		t.Fatalf("unexpected defaults %+v err=%v", got, err)
	}

	if err := svc.UpdateSettings(ctx, Settings{Budget: core.Money{Cents: 0}, SavingsGoal: core.Money{Cents: 5000}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = svc.Settings(ctx)
	if got.Budget.Cents != 0 || got.SavingsGoal.Cents != 5000 {
		t.Fatalf("unexpected settings %+v", got)
	}
	if listener.calls != 2 {
		t.Fatalf("expected a notification per key, got %d", listener.calls)
	}

	if err := svc.UpdateSettings(ctx, Settings{Budget: core.Money{Cents: -1}}); !errors.Is(err, ErrNegativeConfig) {
		t.Fatalf("expected ErrNegativeConfig, got %v", err)
	}
	if err := svc.SetConfig(ctx, "currency", core.Money{Cents: 1}); !errors.Is(err, ledger.ErrUnknownConfigKey) || !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLedgerServiceCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewLedgerService(memory.New(nil), pub)
	if err := svc.Close(); err != nil || !pub.closed {
		t.Fatalf("expected publisher to be closed, err=%v", err)
	}
}
