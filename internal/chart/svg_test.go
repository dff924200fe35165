package chart

import (
	"encoding/xml"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riepilogo/internal/summary"
)

func januaryVsDecember(t *testing.T) (BarLayout, PieLayout, PieLayout) {
	t.Helper()
	jan := totals(t, 2025, 1, map[string]int64{"Food": 5000, "Travel": 3000})
	dec := totals(t, 2024, 12, map[string]int64{"Food": 2000})
	palette := NewPalette(nil, summary.UnionCategories(jan, dec))

	bars, err := BuildBarLayout(jan, &dec, DefaultStyle())
	require.NoError(t, err)
	pj, err := BuildPieLayout(jan, palette)
	require.NoError(t, err)
	pd, err := BuildPieLayout(dec, palette)
	require.NoError(t, err)
	return bars, pj, pd
}

// wellFormed fails the test unless doc parses as XML.
func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestRenderBarChart(t *testing.T) {
	bars, _, _ := januaryVsDecember(t)
	frag := RenderBarChart(bars, DefaultStyle())

	// Two categories, two bars each; December has no Travel so its bar is flat.
	assert.Equal(t, 4, strings.Count(frag.Body, "<rect"))
	assert.Contains(t, frag.Body, `height="0" fill="#FF6B78"`)
	assert.Contains(t, frag.Body, `height="240" fill="#3A9AD9"`)
	assert.Contains(t, frag.Body, "€50.00")
	assert.Contains(t, frag.Body, "€0.00")
	assert.Contains(t, frag.Body, ">Food</text>")
	assert.Contains(t, frag.Body, ">Travel</text>")
	assert.Less(t, strings.Index(frag.Body, ">Food<"), strings.Index(frag.Body, ">Travel<"))
	assert.Greater(t, frag.Width, 0.0)
	assert.Greater(t, frag.Height, 240.0)
}

func TestRenderBarChart_Empty(t *testing.T) {
	empty, err := summary.Aggregate(nil, 3, 2025)
	require.NoError(t, err)
	layout, err := BuildBarLayout(empty, nil, DefaultStyle())
	require.NoError(t, err)

	frag := RenderBarChart(layout, DefaultStyle())
	assert.Contains(t, frag.Body, "No data")
	assert.NotContains(t, frag.Body, "<rect")
}

func TestRenderPieChart(t *testing.T) {
	_, pj, _ := januaryVsDecember(t)
	frag := RenderPieChart(pj, DefaultStyle())

	assert.Equal(t, 2, strings.Count(frag.Body, "<path"))
	assert.Contains(t, frag.Body, "62.5%")
	assert.Contains(t, frag.Body, "37.5%")
	// Food's wedge runs from 12 o'clock clockwise past the bottom.
	assert.Contains(t, frag.Body, `d="M 110,110 L 110,10 A 100,100 0 0,1 202.39,148.27 A 100,100 0 0,1 39.29,180.71 Z"`)
}

func TestRenderPieChart_FullCircle(t *testing.T) {
	ct := totals(t, 2025, 2, map[string]int64{"Food": 2000})
	pie, err := BuildPieLayout(ct, NewPalette(nil, ct.Categories()))
	require.NoError(t, err)

	frag := RenderPieChart(pie, DefaultStyle())
	assert.NotContains(t, frag.Body, "<path")
	assert.Contains(t, frag.Body, `<circle cx="110" cy="110" r="100" fill="#3A9AD9"`)
	assert.Contains(t, frag.Body, ">100%<")
}

func TestRenderPieChart_NearlyFullSlice(t *testing.T) {
	ct := totals(t, 2025, 3, map[string]int64{"Rent": 125000000, "Snacks": 1})
	pie, err := BuildPieLayout(ct, NewPalette(nil, ct.Categories()))
	require.NoError(t, err)
	require.Len(t, pie.Slices, 2)

	frag := RenderPieChart(pie, DefaultStyle())
	// Rent ends a hair before 12 o'clock; its wedge still goes through 6 o'clock.
	assert.Contains(t, frag.Body, `d="M 110,110 L 110,10 A 100,100 0 0,1 110,210 A 100,100 0 0,1 110,10 Z"`)
}

func TestRenderPieChart_Empty(t *testing.T) {
	empty, err := summary.Aggregate(nil, 2, 2025)
	require.NoError(t, err)
	pie, err := BuildPieLayout(empty, Palette{})
	require.NoError(t, err)

	frag := RenderPieChart(pie, DefaultStyle())
	assert.Contains(t, frag.Body, "No data")
	assert.Contains(t, frag.Body, `fill="#F1F3F5"`)
	assert.NotContains(t, frag.Body, "<path")
}

func TestRenderPieChart_SkipsZeroSlices(t *testing.T) {
	ct := totals(t, 2025, 2, map[string]int64{"Food": 2000, "Gifts": 0, "Rent": 2000})
	pie, err := BuildPieLayout(ct, NewPalette(nil, ct.Categories()))
	require.NoError(t, err)

	frag := RenderPieChart(pie, DefaultStyle())
	assert.Equal(t, 2, strings.Count(frag.Body, "<path"))
	assert.Equal(t, 2, strings.Count(frag.Body, "50%"))
	// The zero slice still appears in the legend.
	assert.Contains(t, frag.Body, ">Gifts</text>")
}

func TestRenderSummaryDocument(t *testing.T) {
	bars, pj, pd := januaryVsDecember(t)
	doc := RenderSummaryDocument(bars, pj, pd, DefaultStyle())

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `xmlns="http://www.w3.org/2000/svg"`)
	assert.Contains(t, doc, "Comparison: January 2025 vs December 2024")
	assert.Contains(t, doc, "January 2025 (Total €80.00)")
	assert.Contains(t, doc, "December 2024 (Total €20.00)")
	assert.Equal(t, 2, strings.Count(doc, `class="pie-chart"`))
	assert.NotContains(t, doc, "NaN")
	assert.NotContains(t, doc, "Inf")
	wellFormed(t, doc)

	inline := RenderSummarySVG(bars, pj, pd, DefaultStyle())
	assert.True(t, strings.HasPrefix(inline, "<svg "))
	assert.True(t, strings.HasSuffix(doc, inline))
}

func TestRenderSummaryDocument_Deterministic(t *testing.T) {
	bars, pj, pd := januaryVsDecember(t)
	first := RenderSummaryDocument(bars, pj, pd, DefaultStyle())
	for range 5 {
		b2, p2, d2 := januaryVsDecember(t)
		assert.Equal(t, first, RenderSummaryDocument(b2, p2, d2, DefaultStyle()))
	}
}

func TestRenderSummaryDocument_NoCompare(t *testing.T) {
	jan := totals(t, 2025, 1, map[string]int64{"Food": 5000})
	bars, err := BuildBarLayout(jan, nil, DefaultStyle())
	require.NoError(t, err)
	pie, err := BuildPieLayout(jan, NewPalette(nil, jan.Categories()))
	require.NoError(t, err)

	doc := RenderSummaryDocument(bars, pie, PieLayout{}, DefaultStyle())
	assert.Contains(t, doc, "Summary: January 2025")
	assert.NotContains(t, doc, "Comparison")
	assert.Equal(t, 1, strings.Count(doc, `class="pie-chart"`))
	wellFormed(t, doc)
}

func TestRenderSummaryDocument_EscapesText(t *testing.T) {
	ct := totals(t, 2025, 5, map[string]int64{"R&D <lab>": 100, `"quoted"`: 100})
	bars, err := BuildBarLayout(ct, nil, DefaultStyle())
	require.NoError(t, err)
	pie, err := BuildPieLayout(ct, NewPalette(nil, ct.Categories()))
	require.NoError(t, err)

	doc := RenderSummaryDocument(bars, pie, PieLayout{}, DefaultStyle())
	assert.Contains(t, doc, "R&amp;D &lt;lab&gt;")
	assert.NotContains(t, doc, "<lab>")
	wellFormed(t, doc)
}

func TestWedgePath(t *testing.T) {
	assert.Equal(t, "M 0,0 L 0,-10 A 10,10 0 0,1 10,0 Z", WedgePath(0, 0, 10, 0, 90))
	assert.Equal(t, "M 0,0 L 0,-10 A 10,10 0 0,1 0,10 Z", WedgePath(0, 0, 10, 0, 180))
	assert.Equal(t, "M 0,0 L 0,-10 A 10,10 0 0,1 7.07,7.07 A 10,10 0 0,1 -10,0 Z", WedgePath(0, 0, 10, 0, 270))
}

func TestNum(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{62.5, "62.5"},
		{1.0 / 3, "0.33"},
		{240, "240"},
		{-0.001, "0"},
		{-12.345678, "-12.35"},
		{math.NaN(), "0"},
		{math.Inf(1), "0"},
		{math.Inf(-1), "0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, num(c.in), "num(%v)", c.in)
	}
}

func TestSummaryFilename(t *testing.T) {
	assert.Equal(t, "summary-2025-01.svg", SummaryFilename(2025, 1))
	assert.Equal(t, "summary-0999-12.svg", SummaryFilename(999, 12))
	assert.Equal(t, "March 2024", MonthLabel(2024, 3))
}

func TestStyle(t *testing.T) {
	assert.Equal(t, DefaultStyle(), Style{}.Normalize())
	assert.NoError(t, DefaultStyle().Validate())

	custom := Style{PrimaryColor: "#000", BarWidth: 10}.Normalize()
	assert.Equal(t, "#000", custom.PrimaryColor)
	assert.Equal(t, 10.0, custom.BarWidth)
	assert.Equal(t, DefaultStyle().CompareColor, custom.CompareColor)

	assert.Error(t, Style{PrimaryColor: "blue"}.Validate())
	assert.Error(t, Style{Palette: []string{"#12345"}}.Validate())
	assert.Error(t, Style{PieLabelRadius: 1.5}.Validate())
}
