package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          int64
	Kind        string
	Category    string
	AmountCents int64
	Date        string
	Description string
}

const createTransaction = `
INSERT INTO transactions (kind, category, amount_cents, date, description)
VALUES (?, ?, ?, ?, ?)
RETURNING id, kind, category, amount_cents, date, description
`

type CreateTransactionParams struct {
	Kind        string
	Category    string
	AmountCents int64
	Date        string
	Description string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Kind,
		arg.Category,
		arg.AmountCents,
		arg.Date,
		arg.Description,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.Category,
		&i.AmountCents,
		&i.Date,
		&i.Description,
	)
	return i, err
}

const deleteTransaction = `
DELETE FROM transactions WHERE id = ?
RETURNING id, kind, category, amount_cents, date, description
`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, deleteTransaction, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.Category,
		&i.AmountCents,
		&i.Date,
		&i.Description,
	)
	return i, err
}

const listTransactions = `
SELECT id, kind, category, amount_cents, date, description
FROM transactions
ORDER BY id
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Category,
			&i.AmountCents,
			&i.Date,
			&i.Description,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getConfig = `
SELECT value_cents FROM configuration WHERE key = ?
`

func (q *Queries) GetConfig(ctx context.Context, key string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getConfig, key)
	var valueCents int64
	err := row.Scan(&valueCents)
	return valueCents, err
}

const upsertConfig = `
INSERT INTO configuration (key, value_cents) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value_cents = excluded.value_cents
`

type UpsertConfigParams struct {
	Key        string
	ValueCents int64
}

func (q *Queries) UpsertConfig(ctx context.Context, arg UpsertConfigParams) error {
	_, err := q.db.ExecContext(ctx, upsertConfig, arg.Key, arg.ValueCents)
	return err
}
