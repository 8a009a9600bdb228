package memory

import (
	"context"
	"errors"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

func sample() core.Transaction {
	return core.Transaction{
		Kind:        core.Expense,
		Category:    "Food",
		Amount:      core.Money{Cents: 1234},
		Date:        core.NewDate(2024, 1, 10),
		Description: "lunch",
	}
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	first, err := s.AppendTransaction(ctx, sample())
	if err != nil || first.ID != 1 {
		t.Fatalf("unexpected append: %+v err=%v", first, err)
	}
	second, err := s.AppendTransaction(ctx, sample())
	if err != nil || second.ID != 2 {
		t.Fatalf("unexpected append: %+v err=%v", second, err)
	}

	all, err := s.ListTransactions(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected list: %v err=%v", all, err)
	}
	if all[0] != first {
		t.Fatalf("stored record differs: %+v vs %+v", all[0], first)
	}

	// The snapshot is detached from the store.
	all[0].Category = "changed"
	again, _ := s.ListTransactions(ctx)
	if again[0].Category != "Food" {
		t.Fatalf("list must return a copy")
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	bad := sample()
	bad.Amount = core.Money{Cents: 0}
	if _, err := New(nil).AppendTransaction(context.Background(), bad); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	a, _ := s.AppendTransaction(ctx, sample())
	b, _ := s.AppendTransaction(ctx, sample())

	removed, err := s.DeleteTransaction(ctx, a.ID)
	if err != nil || removed.ID != a.ID {
		t.Fatalf("unexpected delete: %+v err=%v", removed, err)
	}
	if _, err := s.DeleteTransaction(ctx, a.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, _ := s.ListTransactions(ctx)
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("unexpected remaining: %+v", all)
	}

	// Ids are not reused after a delete.
	c, _ := s.AppendTransaction(ctx, sample())
	if c.ID != 3 {
		t.Fatalf("expected id 3, got %d", c.ID)
	}
}

func TestMemoryStoreConfig(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	if v, _ := s.GetConfig(ctx, ledger.ConfigBudget); v.Cents != 300000 {
		t.Fatalf("expected default budget, got %d", v.Cents)
	}
	if err := s.SetConfig(ctx, ledger.ConfigBudget, core.Money{Cents: 0}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := s.GetConfig(ctx, ledger.ConfigBudget); v.Cents != 0 {
		t.Fatalf("expected 0 after set, got %d", v.Cents)
	}
}

func TestMemoryStoreCategories(t *testing.T) {
	s := New(ledger.Categories{core.Expense: {"Rent"}, core.Income: {"Salary"}})
	got, err := s.ListCategories(context.Background(), core.Expense)
	if err != nil || len(got) != 1 || got[0] != "Rent" {
		t.Fatalf("unexpected categories %v err=%v", got, err)
	}
	if _, err := s.ListCategories(context.Background(), "transfer"); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}
