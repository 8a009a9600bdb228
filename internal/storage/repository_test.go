package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "finanzas.db")
	repo, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestSQLiteRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	in := core.Transaction{
		Kind:        core.Expense,
		Category:    "Food",
		Amount:      core.Money{Cents: 20550},
		Date:        core.NewDate(2024, 2, 29),
		Description: "groceries",
	}
	stored, err := repo.AppendTransaction(ctx, in)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored.ID <= 0 {
		t.Fatalf("expected assigned id, got %d", stored.ID)
	}

	all, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(all))
	}
	got := all[0]
	if got.ID != stored.ID || got.Kind != in.Kind || got.Category != in.Category ||
		got.Amount != in.Amount || got.Date.String() != "2024-02-29" || got.Description != in.Description {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, in)
	}
}

func TestSQLiteEmptyDescription(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.AppendTransaction(ctx, core.Transaction{
		Kind: core.Income, Category: "Salary", Amount: core.Money{Cents: 1}, Date: core.NewDate(2024, 1, 1),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	all, _ := repo.ListTransactions(ctx)
	if len(all) != 1 || all[0].Description != "" {
		t.Fatalf("unexpected %+v", all)
	}
}

func TestSQLiteAppendRejectsInvalid(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.AppendTransaction(context.Background(), core.Transaction{
		Kind: core.Expense, Category: "Food", Amount: core.Money{Cents: -1}, Date: core.NewDate(2024, 1, 1),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	stored, err := repo.AppendTransaction(ctx, core.Transaction{
		Kind: core.Expense, Category: "Bus", Amount: core.Money{Cents: 250}, Date: core.NewDate(2024, 3, 1),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	removed, err := repo.DeleteTransaction(ctx, stored.ID)
	if err != nil || removed.ID != stored.ID || removed.Category != "Bus" {
		t.Fatalf("unexpected delete result %+v err=%v", removed, err)
	}
	if _, err := repo.DeleteTransaction(ctx, stored.ID); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, _ := repo.ListTransactions(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty ledger, got %+v", all)
	}
}

func TestSQLiteConfigSeedAndReplace(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	budget, err := repo.GetConfig(ctx, ledger.ConfigBudget)
	if err != nil || budget.Cents != 300000 {
		t.Fatalf("expected seeded budget 300000, got %d err=%v", budget.Cents, err)
	}
	goal, _ := repo.GetConfig(ctx, ledger.ConfigSavingsGoal)
	if goal.Cents != 60000 {
		t.Fatalf("expected seeded goal 60000, got %d", goal.Cents)
	}
	if v, err := repo.GetConfig(ctx, "missing"); err != nil || v.Cents != 0 {
		t.Fatalf("expected zero for unknown key, got %d err=%v", v.Cents, err)
	}

	if err := repo.SetConfig(ctx, ledger.ConfigBudget, core.Money{Cents: 123456}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetConfig(ctx, ledger.ConfigBudget, core.Money{Cents: 654321}); err != nil {
		t.Fatalf("set again: %v", err)
	}
	budget, _ = repo.GetConfig(ctx, ledger.ConfigBudget)
	if budget.Cents != 654321 {
		t.Fatalf("expected replaced value, got %d", budget.Cents)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.AppendTransaction(ctx, core.Transaction{
		Kind: core.Income, Category: "Salary", Amount: core.Money{Cents: 100000}, Date: core.NewDate(2024, 1, 5),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.SetConfig(ctx, ledger.ConfigSavingsGoal, core.Money{Cents: 1}); err != nil {
		t.Fatalf("set: %v", err)
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	all, _ := reopened.ListTransactions(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 transaction after reopen, got %d", len(all))
	}
	// Seeds must not overwrite user values.
	if goal, _ := reopened.GetConfig(ctx, ledger.ConfigSavingsGoal); goal.Cents != 1 {
		t.Fatalf("expected user goal to survive reopen, got %d", goal.Cents)
	}

	version, dirty, err := SchemaVersion(path)
	if err != nil || dirty || version != 1 {
		t.Fatalf("unexpected schema version %d dirty=%v err=%v", version, dirty, err)
	}
}
