package summary

import (
	"strconv"

	"riepilogo/internal/core"
)

// Change describes the relative change of a value against a baseline.
type Change struct {
	// Defined is false when both values are zero.
	Defined bool
	// Infinite is true when the baseline is zero and the value is not.
	Infinite bool
	// Percent is the change relative to the baseline, rounded to two decimals.
	Percent float64
}

// String renders the change as "+12.5%", "-3%", "∞" or "n/a".
func (c Change) String() string {
	switch {
	case !c.Defined:
		return "n/a"
	case c.Infinite:
		return "∞"
	case c.Percent > 0:
		return "+" + strconv.FormatFloat(c.Percent, 'f', -1, 64) + "%"
	default:
		return strconv.FormatFloat(c.Percent, 'f', -1, 64) + "%"
	}
}

// ComparisonRow is one category of a two-month comparison.
type ComparisonRow struct {
	Category string
	Primary  core.Money
	Compare  core.Money
	Diff     core.Money
	Change   Change
}

// Compare lines up two months category by category over the sorted union of
// their categories. A category missing in one month counts as zero there.
func Compare(primary, compare CategoryTotals) []ComparisonRow {
	cats := UnionCategories(primary, compare)
	rows := make([]ComparisonRow, 0, len(cats))
	for _, cat := range cats {
		p, _ := primary.Get(cat)
		c, _ := compare.Get(cat)
		rows = append(rows, ComparisonRow{
			Category: cat,
			Primary:  p,
			Compare:  c,
			Diff:     p.Sub(c),
			Change:   ChangeOf(p, c),
		})
	}
	return rows
}

// CompareTotals compares the grand totals of two months.
func CompareTotals(primary, compare CategoryTotals) ComparisonRow {
	p, c := primary.GrandTotal(), compare.GrandTotal()
	return ComparisonRow{Primary: p, Compare: c, Diff: p.Sub(c), Change: ChangeOf(p, c)}
}

// ChangeOf computes the percentage change of value relative to base.
func ChangeOf(value, base core.Money) Change {
	if base.Cents == 0 {
		if value.Cents == 0 {
			return Change{}
		}
		return Change{Defined: true, Infinite: true}
	}
	pct := value.Sub(base).Decimal().Div(base.Decimal()).Shift(2).Round(2)
	return Change{Defined: true, Percent: pct.InexactFloat64()}
}
