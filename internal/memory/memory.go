// Package memory is an in-process expense store for development and tests.
// Data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"riepilogo/internal/core"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	version int64
	items   map[int64]core.Expense
}

// New returns a store holding the given expenses. Seed records keep a non-zero
// ID when they have one; the rest get fresh ids.
func New(seed ...core.Expense) *Store {
	s := &Store{items: make(map[int64]core.Expense, len(seed))}
	for _, e := range seed {
		if e.ID == 0 {
			s.nextID++
			e.ID = s.nextID
		} else if e.ID > s.nextID {
			s.nextID = e.ID
		}
		s.items[e.ID] = e
	}
	return s
}

// Create validates and stores the expense under a new id.
func (s *Store) Create(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.items[e.ID] = e
	s.version++
	return e, nil
}

func (s *Store) Update(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		return core.Expense{}, fmt.Errorf("expense %d: %w", e.ID, core.ErrNotFound)
	}
	s.items[e.ID] = e
	s.version++
	return e, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	delete(s.items, id)
	s.version++
	return nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return e, nil
}

// ListExpenses returns the expenses dated in (year, month).
func (s *Store) ListExpenses(ctx context.Context, year int, month int) ([]core.Expense, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	return s.SearchExpenses(ctx, core.Filter{Year: year, Month: month})
}

// SearchExpenses returns the matching expenses, newest first.
func (s *Store) SearchExpenses(_ context.Context, f core.Filter) ([]core.Expense, error) {
	s.mu.Lock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DatasetVersion(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func (s *Store) Close() error { return nil }
