package ledger

import (
	"context"
	"errors"
	"fmt"

	"finanzas/internal/core"
)

// Configuration keys.
const (
	ConfigBudget      = "budget"
	ConfigSavingsGoal = "savings_goal"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownConfigKey is returned when writing a key other than the known ones.
var ErrUnknownConfigKey = fmt.Errorf("%w: unknown configuration key", core.ErrInvalidArgument)

// DefaultConfig holds the values returned for keys that were never written.
var DefaultConfig = map[string]core.Money{
	ConfigBudget:      {Cents: 300000},
	ConfigSavingsGoal: {Cents: 60000},
}

// DefaultValue returns the default for key, or zero for unknown keys.
func DefaultValue(key string) core.Money {
	return DefaultConfig[key]
}

// KnownConfigKey reports whether key is a configuration key.
func KnownConfigKey(key string) bool {
	_, ok := DefaultConfig[key]
	return ok
}

// Ports for ledger collaborators.
type (
	TransactionWriter interface {
		// AppendTransaction stores t and returns it with the assigned ID.
		AppendTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// DeleteTransaction removes the transaction and returns what was removed.
		DeleteTransaction(ctx context.Context, id int64) (core.Transaction, error)
	}

	// TransactionLister returns a snapshot of the whole ledger.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	ConfigStore interface {
		// GetConfig returns the stored value, or the default when absent.
		GetConfig(ctx context.Context, key string) (core.Money, error)
		SetConfig(ctx context.Context, key string, value core.Money) error
	}

	// CategoryLister returns the categories offered for a kind.
	CategoryLister interface {
		ListCategories(ctx context.Context, kind core.Kind) ([]string, error)
	}

	Store interface {
		TransactionWriter
		TransactionLister
		ConfigStore
		CategoryLister
		Close() error
	}
)
