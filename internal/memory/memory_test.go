package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"riepilogo/internal/core"
	"riepilogo/internal/ports"
)

var _ ports.Store = (*Store)(nil)

func expense(title, cat string, cents int64, y, m, d int) core.Expense {
	return core.Expense{Title: title, Category: cat, Amount: core.Money{Cents: cents}, Date: core.NewDate(y, m, d)}
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	v0, _ := s.DatasetVersion(ctx)
	created, err := s.Create(ctx, expense("Lunch", "Food", 1250, 2025, 1, 5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("expected id 1, got %d", created.ID)
	}
	v1, _ := s.DatasetVersion(ctx)
	if v1 == v0 {
		t.Fatalf("version did not change after create")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil || got.Title != "Lunch" {
		t.Fatalf("get: %+v %v", got, err)
	}

	created.Amount = core.Money{Cents: 999}
	if _, err := s.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.Get(ctx, created.ID)
	if got.Amount.Cents != 999 {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := s.Update(ctx, created); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := New()
	tests := []struct {
		name string
		e    core.Expense
	}{
		{"empty title", expense("", "Food", 1, 2025, 1, 1)},
		{"empty category", expense("x", " ", 1, 2025, 1, 1)},
		{"negative amount", expense("x", "Food", -1, 2025, 1, 1)},
		{"zero date", core.Expense{Title: "x", Category: "Food"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(context.Background(), tt.e); !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestMemoryStoreListAndSearch(t *testing.T) {
	ctx := context.Background()
	s := New(
		expense("Groceries", "Food", 5000, 2025, 1, 3),
		expense("Train", "Travel", 3000, 2025, 1, 20),
		expense("Pizza night", "Food", 2000, 2025, 2, 1),
		expense("Old groceries", "Food", 700, 2024, 1, 3),
	)

	jan, err := s.ListExpenses(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jan) != 2 || jan[0].Title != "Train" || jan[1].Title != "Groceries" {
		t.Fatalf("unexpected january listing: %+v", jan)
	}

	if _, err := s.ListExpenses(ctx, 2025, 13); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected invalid month, got %v", err)
	}

	tests := []struct {
		name string
		f    core.Filter
		want int
	}{
		{"all", core.Filter{}, 4},
		{"query case-insensitive", core.Filter{Query: "GROCER"}, 2},
		{"category", core.Filter{Category: "Food"}, 3},
		{"category all", core.Filter{Category: "all"}, 4},
		{"month without year ignored", core.Filter{Month: 1}, 4},
		{"month and year", core.Filter{Month: 1, Year: 2025}, 2},
		{"combined", core.Filter{Query: "groceries", Month: 1, Year: 2024}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SearchExpenses(ctx, tt.f)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d results, got %d: %+v", tt.want, len(got), got)
			}
		})
	}
}

func TestMemoryStoreSeedIDs(t *testing.T) {
	seeded := expense("a", "A", 1, 2025, 1, 1)
	seeded.ID = 10
	s := New(seeded)
	e, err := s.Create(context.Background(), expense("b", "B", 1, 2025, 1, 1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID != 11 {
		t.Fatalf("expected id after seed, got %d", e.ID)
	}
}

func TestMemoryStoreConcurrentCreate(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(context.Background(), expense("x", "A", 1, 2025, 1, 1))
		}()
	}
	wg.Wait()
	all, _ := s.SearchExpenses(context.Background(), core.Filter{})
	if len(all) != 50 {
		t.Fatalf("expected 50 expenses, got %d", len(all))
	}
}
