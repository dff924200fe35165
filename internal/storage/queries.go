package storage

import (
	"context"
)

const expenseColumns = `id, title, category, amount_cents, spent_on, created_at, updated_at`

const createExpense = `
INSERT INTO expenses (title, category, amount_cents, spent_on)
VALUES (?, ?, ?, ?)
RETURNING ` + expenseColumns

type CreateExpenseParams struct {
	Title       string
	Category    string
	AmountCents int64
	SpentOn     string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Title, arg.Category, arg.AmountCents, arg.SpentOn)
	return scanExpense(row)
}

const updateExpense = `
UPDATE expenses
SET title = ?, category = ?, amount_cents = ?, spent_on = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

type UpdateExpenseParams struct {
	ID          int64
	Title       string
	Category    string
	AmountCents int64
	SpentOn     string
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateExpense, arg.Title, arg.Category, arg.AmountCents, arg.SpentOn, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getExpense = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	return scanExpense(q.db.QueryRowContext(ctx, getExpense, id))
}

// Dates are stored as YYYY-MM-DD so a half-open string range selects a month.
const getExpensesBetween = `
SELECT ` + expenseColumns + `
FROM expenses
WHERE spent_on >= ? AND spent_on < ?
ORDER BY spent_on DESC, id DESC`

func (q *Queries) GetExpensesBetween(ctx context.Context, from, to string) ([]Expense, error) {
	return q.list(ctx, getExpensesBetween, from, to)
}

const searchExpenses = `
SELECT ` + expenseColumns + `
FROM expenses
WHERE (? = '' OR instr(lower(title), ?) > 0)
  AND (? = '' OR category = ?)
  AND (? = '' OR substr(spent_on, 1, 7) = ?)
ORDER BY spent_on DESC, id DESC`

type SearchExpensesParams struct {
	Query    string // lower-cased title substring
	Category string
	Month    string // YYYY-MM
}

func (q *Queries) SearchExpenses(ctx context.Context, arg SearchExpensesParams) ([]Expense, error) {
	return q.list(ctx, searchExpenses,
		arg.Query, arg.Query,
		arg.Category, arg.Category,
		arg.Month, arg.Month)
}

const getDatasetVersion = `SELECT version FROM dataset_version WHERE id = 1`

func (q *Queries) GetDatasetVersion(ctx context.Context) (int64, error) {
	var v int64
	err := q.db.QueryRowContext(ctx, getDatasetVersion).Scan(&v)
	return v, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var i Expense
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Category,
		&i.AmountCents,
		&i.SpentOn,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) list(ctx context.Context, query string, args ...interface{}) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		i, err := scanExpense(rows)
		if err != nil {
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
