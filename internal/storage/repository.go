// Package storage is the SQLite expense repository.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"riepilogo/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Create implements ports.ExpenseWriter
func (r *SQLiteRepository) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Title:       e.Title,
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		SpentOn:     e.Date.String(),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", row.ID,
		"title", row.Title,
		"amount_cents", row.AmountCents,
		"spent_on", row.SpentOn)

	return toDomain(row)
}

// Update implements ports.ExpenseWriter
func (r *SQLiteRepository) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	n, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		ID:          e.ID,
		Title:       e.Title,
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		SpentOn:     e.Date.String(),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	if n == 0 {
		return core.Expense{}, fmt.Errorf("expense %d: %w", e.ID, core.ErrNotFound)
	}
	return e, nil
}

// Delete implements ports.ExpenseWriter
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// Get implements ports.ExpenseReader
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return toDomain(row)
}

// ListExpenses implements ports.ExpenseLister
func (r *SQLiteRepository) ListExpenses(ctx context.Context, year int, month int) ([]core.Expense, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	from := core.NewDate(year, month, 1)
	to := core.Date{Time: from.AddDate(0, 1, 0)}
	rows, err := r.queries.GetExpensesBetween(ctx, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("get expenses by month: %w", err)
	}
	return toDomainList(rows)
}

// SearchExpenses implements ports.ExpenseSearcher
func (r *SQLiteRepository) SearchExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	params := SearchExpensesParams{Query: strings.ToLower(strings.TrimSpace(f.Query))}
	if c := strings.TrimSpace(f.Category); !strings.EqualFold(c, "all") {
		params.Category = c
	}
	if f.Month != 0 && f.Year != 0 {
		params.Month = fmt.Sprintf("%04d-%02d", f.Year, f.Month)
	}
	rows, err := r.queries.SearchExpenses(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search expenses: %w", err)
	}
	out, err := toDomainList(rows)
	if err != nil {
		return nil, err
	}
	// SQLite lower() folds ASCII only; re-check so non-ASCII titles match the
	// same way as in the memory store.
	filtered := out[:0]
	for _, e := range out {
		if f.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// DatasetVersion implements ports.DatasetVersioner
func (r *SQLiteRepository) DatasetVersion(ctx context.Context) (int64, error) {
	v, err := r.queries.GetDatasetVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get dataset version: %w", err)
	}
	return v, nil
}

func toDomain(row Expense) (core.Expense, error) {
	d, err := core.ParseDate(row.SpentOn)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w", row.ID, err)
	}
	return core.Expense{
		ID:       row.ID,
		Title:    row.Title,
		Category: row.Category,
		Amount:   core.Money{Cents: row.AmountCents},
		Date:     d,
	}, nil
}

func toDomainList(rows []Expense) ([]core.Expense, error) {
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
