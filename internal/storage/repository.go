package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/core"
	"finanzas/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	cats    ledger.Categories
}

// NewSQLiteRepository opens the database at dbPath, creating its directory,
// and applies pending migrations.
func NewSQLiteRepository(dbPath string, cats ledger.Categories) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if cats == nil {
		cats = ledger.DefaultCategories()
	}
	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		cats:    cats,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// AppendTransaction implements ledger.TransactionWriter
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Kind:        t.Kind.String(),
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Date:        t.Date.String(),
		Description: t.Description,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"kind", row.Kind,
		"category", row.Category,
		"amount_cents", row.AmountCents,
		"date", row.Date)

	return toDomain(row)
}

// DeleteTransaction implements ledger.TransactionWriter
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.DeleteTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("delete transaction %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return toDomain(row)
}

// ListTransactions implements ledger.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetConfig implements ledger.ConfigStore
func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (core.Money, error) {
	cents, err := r.queries.GetConfig(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.DefaultValue(key), nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get config %s: %w", key, err)
	}
	return core.Money{Cents: cents}, nil
}

// SetConfig implements ledger.ConfigStore
func (r *SQLiteRepository) SetConfig(ctx context.Context, key string, value core.Money) error {
	if err := r.queries.UpsertConfig(ctx, UpsertConfigParams{Key: key, ValueCents: value.Cents}); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	slog.InfoContext(ctx, "Configuration saved", "key", key, "value_cents", value.Cents)
	return nil
}

// ListCategories implements ledger.CategoryLister
func (r *SQLiteRepository) ListCategories(_ context.Context, kind core.Kind) ([]string, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return r.cats.For(kind), nil
}

func toDomain(row Transaction) (core.Transaction, error) {
	kind, err := core.ParseKind(row.Kind)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", row.ID, err)
	}
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", row.ID, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Kind:        kind,
		Category:    row.Category,
		Amount:      core.Money{Cents: row.AmountCents},
		Date:        date,
		Description: row.Description,
	}, nil
}
