package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"riepilogo/internal/core"
	"riepilogo/internal/ports"
)

var _ ports.Store = (*SQLiteRepository)(nil)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreate(t *testing.T, repo *SQLiteRepository, title, cat string, cents int64, y, m, d int) core.Expense {
	t.Helper()
	e, err := repo.Create(context.Background(), core.Expense{
		Title: title, Category: cat, Amount: core.Money{Cents: cents}, Date: core.NewDate(y, m, d),
	})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return e
}

func TestSQLiteRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	v0, err := repo.DatasetVersion(ctx)
	if err != nil {
		t.Fatalf("dataset version: %v", err)
	}

	e := mustCreate(t, repo, "Lunch", "Food", 1250, 2025, 1, 5)
	if e.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Lunch" || got.Amount.Cents != 1250 || got.Date.String() != "2025-01-05" {
		t.Fatalf("unexpected row: %+v", got)
	}

	v1, _ := repo.DatasetVersion(ctx)
	if v1 <= v0 {
		t.Fatalf("expected version to grow on insert: %d -> %d", v0, v1)
	}

	got.Title = "Dinner"
	got.Amount = core.Money{Cents: 0}
	if _, err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.Get(ctx, e.ID)
	if got.Title != "Dinner" || got.Amount.Cents != 0 {
		t.Fatalf("update not applied: %+v", got)
	}
	v2, _ := repo.DatasetVersion(ctx)
	if v2 <= v1 {
		t.Fatalf("expected version to grow on update: %d -> %d", v1, v2)
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	got.ID = 9999
	if _, err := repo.Update(ctx, got); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestSQLiteRepositoryRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Create(context.Background(), core.Expense{
		Title: "x", Category: "Food", Amount: core.Money{Cents: -5}, Date: core.NewDate(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}
}

func TestSQLiteRepositoryListExpenses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	mustCreate(t, repo, "Groceries", "Food", 5000, 2025, 1, 1)
	mustCreate(t, repo, "Train", "Travel", 3000, 2025, 1, 31)
	mustCreate(t, repo, "Pizza", "Food", 2000, 2025, 2, 1)
	mustCreate(t, repo, "Gift", "Gifts", 700, 2024, 12, 31)

	tests := []struct {
		year, month int
		want        []string
	}{
		{2025, 1, []string{"Train", "Groceries"}},
		{2025, 2, []string{"Pizza"}},
		{2024, 12, []string{"Gift"}},
		{2025, 3, nil},
	}
	for _, tt := range tests {
		got, err := repo.ListExpenses(ctx, tt.year, tt.month)
		if err != nil {
			t.Fatalf("list %d-%d: %v", tt.year, tt.month, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("list %d-%d: expected %v, got %+v", tt.year, tt.month, tt.want, got)
		}
		for i, title := range tt.want {
			if got[i].Title != title {
				t.Fatalf("list %d-%d: position %d expected %q, got %q", tt.year, tt.month, i, title, got[i].Title)
			}
		}
	}

	if _, err := repo.ListExpenses(ctx, 2025, 0); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected invalid month, got %v", err)
	}
}

func TestSQLiteRepositorySearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	mustCreate(t, repo, "Groceries", "Food", 5000, 2025, 1, 3)
	mustCreate(t, repo, "Train", "Travel", 3000, 2025, 1, 20)
	mustCreate(t, repo, "Pizza night", "Food", 2000, 2025, 2, 1)
	mustCreate(t, repo, "Old groceries", "Food", 700, 2024, 1, 3)
	mustCreate(t, repo, "100% juice", "Food", 300, 2024, 1, 4)

	tests := []struct {
		name string
		f    core.Filter
		want int
	}{
		{"all", core.Filter{}, 5},
		{"query case-insensitive", core.Filter{Query: "GROCER"}, 2},
		{"query with wildcard chars", core.Filter{Query: "0%"}, 1},
		{"category", core.Filter{Category: "Food"}, 4},
		{"category all", core.Filter{Category: "ALL"}, 5},
		{"month without year ignored", core.Filter{Month: 1}, 5},
		{"month and year", core.Filter{Month: 1, Year: 2025}, 2},
		{"combined", core.Filter{Query: "groceries", Category: "Food", Month: 1, Year: 2024}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchExpenses(ctx, tt.f)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d results, got %d: %+v", tt.want, len(got), got)
			}
		})
	}
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mustCreate(t, repo, "Lunch", "Food", 100, 2025, 1, 1)
	repo.Close()

	// Running migrations a second time is a no-op.
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	got, err := repo.ListExpenses(context.Background(), 2025, 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected persisted row, got %+v %v", got, err)
	}
}
