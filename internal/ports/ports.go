// Package ports declares the storage-side interfaces consumed by services and
// the HTTP layer. Both the memory store and the SQLite repository implement
// all of them.
package ports

import (
	"context"

	"riepilogo/internal/core"
)

// Ports for outbound adapters.
type (
	ExpenseWriter interface {
		// Create stores e and returns it with its assigned ID.
		Create(ctx context.Context, e core.Expense) (core.Expense, error)
		// Update overwrites the expense with e.ID. Unknown ids yield core.ErrNotFound.
		Update(ctx context.Context, e core.Expense) (core.Expense, error)
		Delete(ctx context.Context, id int64) error
	}

	ExpenseReader interface {
		Get(ctx context.Context, id int64) (core.Expense, error)
	}

	// ExpenseLister returns the records dated in one calendar month.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, year int, month int) ([]core.Expense, error)
	}

	// ExpenseSearcher returns the records matching f, newest first.
	ExpenseSearcher interface {
		SearchExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error)
	}

	// DatasetVersioner reports a counter that changes on every write. Two
	// equal values mean the stored records did not change in between.
	DatasetVersioner interface {
		DatasetVersion(ctx context.Context) (int64, error)
	}

	// Store is everything a storage backend provides.
	Store interface {
		ExpenseWriter
		ExpenseReader
		ExpenseLister
		ExpenseSearcher
		DatasetVersioner
		Close() error
	}
)
