package chart

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	docMargin    = 20.0
	docHeaderH   = 70.0
	docColumnGap = 40.0
	pieTitleH    = 24.0
	pieRowGap    = 30.0
	minTitleW    = 560.0
	pieTitleW    = 280.0
)

// MonthLabel formats a month as e.g. "January 2025".
func MonthLabel(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

// SummaryFilename is the download name of the summary document for a
// primary month.
func SummaryFilename(year, month int) string {
	return fmt.Sprintf("summary-%04d-%02d.svg", year, month)
}

const xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// RenderSummaryDocument composes the bar chart and the two pies into a
// standalone SVG document with an XML prolog, suitable for download.
func RenderSummaryDocument(bars BarLayout, primaryPie, comparePie PieLayout, style Style) string {
	return Standalone(RenderSummarySVG(bars, primaryPie, comparePie, style))
}

// Standalone turns the output of RenderSummarySVG into a downloadable
// document.
func Standalone(inlineSVG string) string {
	return xmlProlog + inlineSVG
}

// RenderSummarySVG is RenderSummaryDocument without the XML prolog, for
// inline embedding in HTML. The compare pie is only drawn when the bar layout
// has a compare month.
func RenderSummarySVG(bars BarLayout, primaryPie, comparePie PieLayout, style Style) string {
	style = style.Normalize()

	barFrag := RenderBarChart(bars, style)
	pies := []placedPie{{title: pieTitle(primaryPie, style), frag: RenderPieChart(primaryPie, style)}}
	if bars.HasCompare {
		pies = append(pies, placedPie{title: pieTitle(comparePie, style), frag: RenderPieChart(comparePie, style)})
	}

	pieX := docMargin + barFrag.Width + docColumnGap
	pieColW := pieTitleW
	y := docHeaderH
	for i := range pies {
		pies[i].y = y
		pieColW = math.Max(pieColW, pies[i].frag.Width)
		y += pieTitleH + pies[i].frag.Height + pieRowGap
	}
	piesBottom := y - pieRowGap

	width := math.Max(pieX+pieColW+docMargin, minTitleW)
	height := math.Max(docHeaderH+barFrag.Height, piesBottom) + docMargin

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%s" height="%s" viewBox="0 0 %s %s" font-family="%s">`+"\n",
		num(width), num(height), num(width), num(height), esc(style.FontFamily))
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="#FFFFFF"/>`+"\n", num(width), num(height))

	primaryLabel := MonthLabel(bars.PrimaryYear, bars.PrimaryMonth)
	title := "Summary: " + primaryLabel
	if bars.HasCompare {
		title = "Comparison: " + primaryLabel + " vs " + MonthLabel(bars.CompareYear, bars.CompareMonth)
	}
	fmt.Fprintf(&b, `<text x="%s" y="28" font-size="18" fill="%s">%s</text>`+"\n", num(docMargin), esc(style.TextColor), esc(title))

	// Month legend shared by the bar chart.
	fmt.Fprintf(&b, `<g transform="translate(%s,40)" font-size="12" fill="%s">`+"\n", num(docMargin), esc(style.TextColor))
	fmt.Fprintf(&b, `<rect x="0" y="0" width="14" height="10" fill="%s"/><text x="20" y="9">%s</text>`+"\n", esc(style.PrimaryColor), esc(primaryLabel))
	if bars.HasCompare {
		fmt.Fprintf(&b, `<rect x="220" y="0" width="14" height="10" fill="%s"/><text x="240" y="9">%s</text>`+"\n",
			esc(style.CompareColor), esc(MonthLabel(bars.CompareYear, bars.CompareMonth)))
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(&b, `<g transform="translate(%s,%s)">`+"\n", num(docMargin), num(docHeaderH))
	b.WriteString(barFrag.Body)
	b.WriteString("</g>\n")

	for _, p := range pies {
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="13" fill="%s">%s</text>`+"\n",
			num(pieX), num(p.y+14), esc(style.TextColor), esc(p.title))
		fmt.Fprintf(&b, `<g transform="translate(%s,%s)">`+"\n", num(pieX), num(p.y+pieTitleH))
		b.WriteString(p.frag.Body)
		b.WriteString("</g>\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}

type placedPie struct {
	title string
	frag  Fragment
	y     float64
}

func pieTitle(p PieLayout, style Style) string {
	if p.Month < 1 || p.Month > 12 {
		return "No data"
	}
	return fmt.Sprintf("%s (Total %s)", MonthLabel(p.Year, p.Month), p.Total.Format(style.Currency))
}
