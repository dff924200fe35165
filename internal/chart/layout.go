package chart

import (
	"fmt"
	"math"

	"riepilogo/internal/core"
	"riepilogo/internal/summary"
)

// Bar is one category of the comparison bar chart.
type Bar struct {
	Category      string
	PrimaryValue  core.Money
	CompareValue  core.Money
	PrimaryHeight float64 // px
	CompareHeight float64 // px
}

// BarLayout is the scaled bar chart for one or two months. Bar heights are
// kept at full precision; the SVG writer rounds them to 0.01 px, so a custom
// renderer should round them itself.
type BarLayout struct {
	Bars []Bar
	// ScaleMax is the value, in currency units, drawn at full chart height.
	// It is shared by both months.
	ScaleMax float64
	// HasCompare is false when no compare month was given.
	HasCompare bool
	// ChartHeight is the px height that ScaleMax maps to.
	ChartHeight float64

	PrimaryYear, PrimaryMonth int
	CompareYear, CompareMonth int
}

// Categories returns the bar axis in order.
func (l BarLayout) Categories() []string {
	out := make([]string, len(l.Bars))
	for i, b := range l.Bars {
		out[i] = b.Category
	}
	return out
}

// Slice is one wedge of a pie chart. Angles are degrees clockwise from
// 12 o'clock.
type Slice struct {
	Category   string
	Amount     core.Money
	Percentage float64
	StartAngle float64
	EndAngle   float64
	Color      string
}

// Sweep returns the angle covered by the slice.
func (s Slice) Sweep() float64 { return s.EndAngle - s.StartAngle }

// IsFullCircle reports whether the slice covers the whole pie.
func (s Slice) IsFullCircle() bool { return s.Sweep() >= 360 }

// PieLayout is the wedge geometry of one month.
type PieLayout struct {
	Year, Month int
	Total       core.Money
	Slices      []Slice
	// Empty is true when the month total is zero; there are no slices then.
	Empty bool
}

// BuildBarLayout scales the bars of both months on one shared axis. The
// axis is the sorted union of categories, so a bar's position does not depend
// on which month introduced its category. A nil compare renders the primary
// month alone.
func BuildBarLayout(primary summary.CategoryTotals, compare *summary.CategoryTotals, style Style) (BarLayout, error) {
	style = style.Normalize()
	if err := primary.Validate(); err != nil {
		return BarLayout{}, fmt.Errorf("primary month: %w", err)
	}
	layout := BarLayout{
		ChartHeight:  style.BarChartHeight,
		PrimaryYear:  primary.Year(),
		PrimaryMonth: primary.Month(),
	}
	all := []summary.CategoryTotals{primary}
	if compare != nil {
		if err := compare.Validate(); err != nil {
			return BarLayout{}, fmt.Errorf("compare month: %w", err)
		}
		layout.HasCompare = true
		layout.CompareYear, layout.CompareMonth = compare.Year(), compare.Month()
		all = append(all, *compare)
	}

	var maxCents int64
	for _, cat := range summary.UnionCategories(all...) {
		b := Bar{Category: cat}
		b.PrimaryValue, _ = primary.Get(cat)
		if compare != nil {
			b.CompareValue, _ = compare.Get(cat)
		}
		maxCents = max(maxCents, b.PrimaryValue.Cents, b.CompareValue.Cents)
		layout.Bars = append(layout.Bars, b)
	}

	// A floor of one unit avoids dividing by zero when every total is zero.
	layout.ScaleMax = math.Max(core.Money{Cents: maxCents}.Units(), 1)
	for i := range layout.Bars {
		b := &layout.Bars[i]
		b.PrimaryHeight = barHeight(b.PrimaryValue, layout.ScaleMax, style.BarChartHeight)
		b.CompareHeight = barHeight(b.CompareValue, layout.ScaleMax, style.BarChartHeight)
	}
	return layout, nil
}

// barHeight keeps full precision; rounding happens only when serializing so
// distinct values never collapse onto the same height.
func barHeight(v core.Money, scaleMax, chartHeight float64) float64 {
	return v.Units() / scaleMax * chartHeight
}

// BuildPieLayout computes the wedges of one month. Angles come from the
// cumulative cent sums, so consecutive slices share their boundary exactly
// and the last slice ends at 360. A zero total yields an empty layout.
func BuildPieLayout(totals summary.CategoryTotals, palette Palette) (PieLayout, error) {
	if err := totals.Validate(); err != nil {
		return PieLayout{}, err
	}
	layout := PieLayout{Year: totals.Year(), Month: totals.Month(), Total: totals.GrandTotal()}
	grand := totals.GrandTotal().Cents
	if grand == 0 {
		layout.Empty = true
		return layout, nil
	}

	g := float64(grand)
	var running int64
	for _, e := range totals.Entries() {
		start := float64(running) * 360 / g
		running += e.Amount.Cents
		end := float64(running) * 360 / g
		layout.Slices = append(layout.Slices, Slice{
			Category:   e.Category,
			Amount:     e.Amount,
			Percentage: float64(e.Amount.Cents) / g * 100,
			StartAngle: start,
			EndAngle:   end,
			Color:      palette.Color(e.Category),
		})
	}
	return layout, nil
}
