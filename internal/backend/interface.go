package backend

import (
	"context"

	"finanzas/internal/ledger"
)

// Type represents the type of backend
type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type          Type
	SQLiteDBPath  string
	CategoriesDir string
}

// Result contains the ledger store and its health probe.
type Result struct {
	Store ledger.Store
	// Ready reports whether the store can serve requests.
	Ready func(ctx context.Context) error
}

// Factory creates ledger stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}
