package chart

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fragment is a group of SVG elements drawn in local coordinates with the
// origin at the top-left corner, plus the size of the box they occupy.
type Fragment struct {
	Width  float64
	Height float64
	Body   string
}

const (
	barLeftPad   = 48.0
	barTopPad    = 72.0 // room for vertical value labels above the tallest bar
	barBottomPad = 36.0
	barRightPad  = 12.0
	emptyPlotW   = 240.0

	piePad        = 10.0
	legendRowH    = 16.0
	legendSwatch  = 12.0
	legendCharW   = 7.0
	legendMinW    = 100.0
	legendSpacing = 20.0
)

// RenderBarChart draws one bar pair per category, left to right in layout
// order, on a common baseline. Zero values still get a zero-height rect so
// the category labels stay aligned.
func RenderBarChart(layout BarLayout, style Style) Fragment {
	style = style.Normalize()
	h := layout.ChartHeight
	if h <= 0 {
		h = style.BarChartHeight
	}
	groupW := style.BarWidth
	if layout.HasCompare {
		groupW = 2*style.BarWidth + style.BarGap
	}
	n := float64(len(layout.Bars))
	plotW := n*groupW + (n+1)*style.GroupGap
	if len(layout.Bars) == 0 {
		plotW = emptyPlotW
	}
	baseline := barTopPad + h

	var b strings.Builder
	fmt.Fprintf(&b, `<g class="bar-chart" font-size="11" fill="%s">`+"\n", esc(style.TextColor))

	// Axis: baseline, top gridline at ScaleMax and their labels.
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#888888" stroke-width="1"/>`+"\n",
		num(barLeftPad), num(baseline), num(barLeftPad+plotW), num(baseline))
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#DDDDDD" stroke-width="1" stroke-dasharray="4 3"/>`+"\n",
		num(barLeftPad), num(barTopPad), num(barLeftPad+plotW), num(barTopPad))
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" font-size="10">0</text>`+"\n",
		num(barLeftPad-4), num(baseline+3))
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" font-size="10">%s</text>`+"\n",
		num(barLeftPad-4), num(barTopPad+3), esc(formatUnits(layout.ScaleMax, style.Currency)))

	if len(layout.Bars) == 0 {
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" fill="#666666">No data</text>`+"\n",
			num(barLeftPad+plotW/2), num(barTopPad+h/2))
	}

	for i, bar := range layout.Bars {
		x0 := barLeftPad + style.GroupGap + float64(i)*(groupW+style.GroupGap)
		writeBar(&b, x0, baseline, style.BarWidth, bar.PrimaryHeight, style.PrimaryColor, bar.PrimaryValue.Format(style.Currency))
		if layout.HasCompare {
			writeBar(&b, x0+style.BarWidth+style.BarGap, baseline, style.BarWidth, bar.CompareHeight, style.CompareColor, bar.CompareValue.Format(style.Currency))
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(x0+groupW/2), num(baseline+16), esc(bar.Category))
	}
	b.WriteString("</g>\n")

	return Fragment{
		Width:  barLeftPad + plotW + barRightPad,
		Height: baseline + barBottomPad,
		Body:   b.String(),
	}
}

// writeBar emits a rect rising from the baseline and its value label, rotated
// to read upwards from just above the bar.
func writeBar(b *strings.Builder, x, baseline, width, height float64, color, label string) {
	if height < 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		height = 0
	}
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(x), num(baseline-height), num(width), num(height), esc(color))
	lx, ly := x+width/2+3, baseline-height-4
	fmt.Fprintf(b, `<text x="%s" y="%s" font-size="10" transform="rotate(-90 %s %s)">%s</text>`+"\n",
		num(lx), num(ly), num(lx), num(ly), esc(label))
}

// RenderPieChart draws one wedge per slice with its percentage at the mid
// angle, and a legend to the right. A slice covering the whole pie is drawn as
// a circle since an arc from a point back to itself draws nothing. An empty
// layout draws a grey disc reading "No data".
func RenderPieChart(layout PieLayout, style Style) Fragment {
	style = style.Normalize()
	r := style.PieRadius
	cx, cy := r+piePad, r+piePad
	pieBox := 2*r + 2*piePad

	var b strings.Builder
	b.WriteString(`<g class="pie-chart">` + "\n")

	if layout.Empty || len(layout.Slices) == 0 {
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", num(cx), num(cy), num(r*0.9), esc(style.EmptyColor))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="12" fill="#666666">No data</text>`+"\n", num(cx), num(cy))
		b.WriteString("</g>\n")
		return Fragment{Width: pieBox, Height: pieBox, Body: b.String()}
	}

	for _, s := range layout.Slices {
		switch {
		case s.IsFullCircle():
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
				num(cx), num(cy), num(r), esc(s.Color))
		case s.Sweep() > 0:
			fmt.Fprintf(&b, `<path d="%s" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
				WedgePath(cx, cy, r, s.StartAngle, s.EndAngle), esc(s.Color))
		}
	}
	for _, s := range layout.Slices {
		if s.Sweep() <= 0 {
			continue
		}
		lx, ly := cx, cy
		if !s.IsFullCircle() {
			lx, ly = polar(cx, cy, r*style.PieLabelRadius, s.StartAngle+s.Sweep()/2)
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="10" fill="#111111">%s%%</text>`+"\n",
			num(lx), num(ly), FormatPercent(s.Percentage))
	}

	legendX := pieBox + legendSpacing
	longest := 0
	for i, s := range layout.Slices {
		y := piePad + float64(i)*legendRowH
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="10" fill="%s"/>`+"\n",
			num(legendX), num(y), num(legendSwatch), esc(s.Color))
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="12" fill="%s">%s</text>`+"\n",
			num(legendX+legendSwatch+6), num(y+9), esc(style.TextColor), esc(s.Category))
		longest = max(longest, len([]rune(s.Category)))
	}
	b.WriteString("</g>\n")

	legendW := math.Max(legendMinW, legendSwatch+6+float64(longest)*legendCharW)
	height := math.Max(pieBox, 2*piePad+float64(len(layout.Slices))*legendRowH)
	return Fragment{Width: legendX + legendW, Height: height, Body: b.String()}
}

// WedgePath returns the path data of a pie wedge from start to end degrees
// (clockwise from 12 o'clock) around (cx, cy). Sweeps over 180 are drawn as
// two arcs through the mid angle, so a wedge just short of a full turn never
// reduces to an arc whose rounded endpoints coincide. Sweeps of 360 or more
// are not representable; callers draw a circle instead.
func WedgePath(cx, cy, r, start, end float64) string {
	x1, y1 := polar(cx, cy, r, start)
	x2, y2 := polar(cx, cy, r, end)
	var b strings.Builder
	fmt.Fprintf(&b, "M %s,%s L %s,%s ", num(cx), num(cy), num(x1), num(y1))
	if end-start > 180 {
		xm, ym := polar(cx, cy, r, start+(end-start)/2)
		fmt.Fprintf(&b, "A %s,%s 0 0,1 %s,%s ", num(r), num(r), num(xm), num(ym))
	}
	fmt.Fprintf(&b, "A %s,%s 0 0,1 %s,%s Z", num(r), num(r), num(x2), num(y2))
	return b.String()
}

// polar converts an angle in degrees clockwise from 12 o'clock to a point.
func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := (deg - 90) * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

// FormatPercent renders a percentage with at most two decimals, e.g. 62.5.
func FormatPercent(p float64) string {
	return num(p)
}

// num formats a coordinate rounded to 0.01 without trailing zeros. NaN and
// infinities are written as 0.
func num(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	f = math.Round(f*100) / 100
	if f == 0 {
		return "0" // also avoids "-0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatUnits(v float64, currency string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return currency + strconv.FormatFloat(v, 'f', 2, 64)
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
