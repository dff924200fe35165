// Package summary groups expense records into per-category monthly totals
// and compares two months against each other.
//
// Category order is always ascending byte-wise on the category name. Chart
// positions and colors are assigned from that order, so it must not depend on
// map iteration or on the order records were stored.
package summary

import (
	"fmt"
	"sort"

	"riepilogo/internal/core"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string
	Amount   core.Money
}

// CategoryTotals is the per-category sum of one month. It is immutable once
// built; accessors hand out copies.
type CategoryTotals struct {
	year    int
	month   int
	entries []CategoryAmount
	total   core.Money
}

// Aggregate sums the amounts of the records dated in (month, year) by
// category. Categories with no records in the month are omitted. An empty
// selection yields empty totals, not an error.
//
// Every record is checked for a negative amount or a zero date, including those
// outside the requested month.
func Aggregate(records []core.Expense, month, year int) (CategoryTotals, error) {
	if err := core.ValidateMonth(month); err != nil {
		return CategoryTotals{}, err
	}
	sums := make(map[string]int64)
	for _, r := range records {
		if r.Amount.Cents < 0 {
			return CategoryTotals{}, fmt.Errorf("expense %d (%q): %w", r.ID, r.Title, core.ErrNegativeAmount)
		}
		if err := r.Date.Validate(); err != nil {
			return CategoryTotals{}, fmt.Errorf("expense %d (%q): %w", r.ID, r.Title, err)
		}
		if !r.Date.In(year, month) {
			continue
		}
		sums[r.Category] += r.Amount.Cents
	}
	return build(year, month, sums), nil
}

// NewCategoryTotals builds totals from already aggregated amounts, such as
// sums computed by the storage layer.
func NewCategoryTotals(year, month int, amounts map[string]core.Money) (CategoryTotals, error) {
	if err := core.ValidateMonth(month); err != nil {
		return CategoryTotals{}, err
	}
	sums := make(map[string]int64, len(amounts))
	for cat, m := range amounts {
		if m.Cents < 0 {
			return CategoryTotals{}, fmt.Errorf("category %q: %w", cat, core.ErrNegativeAmount)
		}
		sums[cat] = m.Cents
	}
	return build(year, month, sums), nil
}

func build(year, month int, sums map[string]int64) CategoryTotals {
	t := CategoryTotals{year: year, month: month, entries: make([]CategoryAmount, 0, len(sums))}
	for cat, cents := range sums {
		t.entries = append(t.entries, CategoryAmount{Category: cat, Amount: core.Money{Cents: cents}})
		t.total.Cents += cents
	}
	sort.Slice(t.entries, func(i, j int) bool { return t.entries[i].Category < t.entries[j].Category })
	return t
}

// Validate re-checks the month range and that no amount is negative.
func (t CategoryTotals) Validate() error {
	if err := core.ValidateMonth(t.month); err != nil {
		return err
	}
	for _, e := range t.entries {
		if e.Amount.Cents < 0 {
			return fmt.Errorf("category %q: %w", e.Category, core.ErrNegativeAmount)
		}
	}
	return nil
}

func (t CategoryTotals) Year() int  { return t.year }
func (t CategoryTotals) Month() int { return t.month }

// GrandTotal is the sum of every entry.
func (t CategoryTotals) GrandTotal() core.Money { return t.total }

// IsEmpty reports whether the month had no records.
func (t CategoryTotals) IsEmpty() bool { return len(t.entries) == 0 }

// Entries returns the categories in lexical order.
func (t CategoryTotals) Entries() []CategoryAmount {
	return append([]CategoryAmount(nil), t.entries...)
}

// Categories returns the category names in lexical order.
func (t CategoryTotals) Categories() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Category
	}
	return out
}

// Get returns the amount for a category and whether it was present.
func (t CategoryTotals) Get(category string) (core.Money, bool) {
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Category >= category })
	if i < len(t.entries) && t.entries[i].Category == category {
		return t.entries[i].Amount, true
	}
	return core.Money{}, false
}

// UnionCategories merges the category names of several totals into one sorted,
// de-duplicated axis.
func UnionCategories(totals ...CategoryTotals) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range totals {
		for _, e := range t.entries {
			if _, ok := seen[e.Category]; ok {
				continue
			}
			seen[e.Category] = struct{}{}
			out = append(out, e.Category)
		}
	}
	sort.Strings(out)
	return out
}

// PreviousMonth returns the month before (year, month), rolling the year over
// in January.
func PreviousMonth(year, month int) (int, int) {
	if month <= 1 {
		return year - 1, 12
	}
	return year, month - 1
}
