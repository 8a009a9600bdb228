package memory

import (
	"context"
	"sync"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
)

// Store is an in-memory ledger. Ids are assigned monotonically and never reused.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
	config map[string]core.Money
	cats   ledger.Categories
}

func New(cats ledger.Categories) *Store {
	if cats == nil {
		cats = ledger.DefaultCategories()
	}
	return &Store{nextID: 1, config: map[string]core.Money{}, cats: cats}
}

// NewFromFiles seeds categories from the files in base.
func NewFromFiles(base string) *Store {
	return New(ledger.LoadCategories(base))
}

// AppendTransaction stores the transaction and assigns its id.
func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.items = append(s.items, t)
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return t, nil
		}
	}
	return core.Transaction{}, ledger.ErrNotFound
}

// ListTransactions returns a copy in insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.items...), nil
}

func (s *Store) GetConfig(_ context.Context, key string) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.config[key]; ok {
		return v, nil
	}
	return ledger.DefaultValue(key), nil
}

func (s *Store) SetConfig(_ context.Context, key string, value core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	return nil
}

func (s *Store) ListCategories(_ context.Context, kind core.Kind) ([]string, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return s.cats.For(kind), nil
}

func (s *Store) Close() error { return nil }
