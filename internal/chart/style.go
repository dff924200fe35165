// Package chart turns category totals into chart layouts and renders them as
// SVG.
//
// Layout and rendering are pure functions of their inputs. Nothing in this
// package keeps state between calls, so concurrent renders need no locking.
package chart

import (
	"fmt"
	"regexp"
)

// ContentType is the media type of documents produced by RenderSummaryDocument.
const ContentType = "image/svg+xml"

// Style holds every tunable of the rendered charts. Zero fields are filled
// from DefaultStyle by Normalize.
type Style struct {
	// Pie category colors, assigned by category position.
	Palette []string `yaml:"palette"`
	// Bar colors for the primary and compare month.
	PrimaryColor string `yaml:"primary_color"`
	CompareColor string `yaml:"compare_color"`
	// Empty-state fill for a pie with no data.
	EmptyColor string `yaml:"empty_color"`
	TextColor  string `yaml:"text_color"`
	FontFamily string `yaml:"font_family"`
	Currency   string `yaml:"currency"`

	// Height in px of a bar whose value equals ScaleMax.
	BarChartHeight float64 `yaml:"bar_chart_height"`
	BarWidth       float64 `yaml:"bar_width"`
	BarGap         float64 `yaml:"bar_gap"`   // between the two bars of a pair
	GroupGap       float64 `yaml:"group_gap"` // between category pairs

	PieRadius float64 `yaml:"pie_radius"`
	// Distance of percentage labels from the pie center, as a fraction of the radius.
	PieLabelRadius float64 `yaml:"pie_label_radius"`
}

// DefaultStyle returns the built-in look.
func DefaultStyle() Style {
	return Style{
		Palette:        []string{"#3A9AD9", "#FF6B78", "#FFD166", "#6BCB77", "#8E63FF", "#FF9F80"},
		PrimaryColor:   "#3A9AD9",
		CompareColor:   "#FF6B78",
		EmptyColor:     "#F1F3F5",
		TextColor:      "#222222",
		FontFamily:     "Arial, sans-serif",
		Currency:       "€",
		BarChartHeight: 240,
		BarWidth:       22,
		BarGap:         4,
		GroupGap:       36,
		PieRadius:      100,
		PieLabelRadius: 0.62,
	}
}

// Normalize returns a copy of s with unset fields taken from DefaultStyle.
func (s Style) Normalize() Style {
	d := DefaultStyle()
	if len(s.Palette) == 0 {
		s.Palette = d.Palette
	} else {
		s.Palette = append([]string(nil), s.Palette...)
	}
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	num := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	str(&s.PrimaryColor, d.PrimaryColor)
	str(&s.CompareColor, d.CompareColor)
	str(&s.EmptyColor, d.EmptyColor)
	str(&s.TextColor, d.TextColor)
	str(&s.FontFamily, d.FontFamily)
	str(&s.Currency, d.Currency)
	num(&s.BarChartHeight, d.BarChartHeight)
	num(&s.BarWidth, d.BarWidth)
	num(&s.BarGap, d.BarGap)
	num(&s.GroupGap, d.GroupGap)
	num(&s.PieRadius, d.PieRadius)
	num(&s.PieLabelRadius, d.PieLabelRadius)
	return s
}

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks colors are hex triplets and the label radius stays inside
// the pie.
func (s Style) Validate() error {
	colors := append([]string{s.PrimaryColor, s.CompareColor, s.EmptyColor, s.TextColor}, s.Palette...)
	for _, c := range colors {
		if c != "" && !colorRe.MatchString(c) {
			return fmt.Errorf("invalid color %q: must be #rgb or #rrggbb", c)
		}
	}
	if s.PieLabelRadius > 1 {
		return fmt.Errorf("invalid pie label radius %v: must be at most 1", s.PieLabelRadius)
	}
	return nil
}
