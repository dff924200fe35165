package chart

import (
	"hash/fnv"
	"sort"
)

// Palette assigns colors to categories. A category known to the palette gets
// the color at its index in the sorted category axis; any other category is
// colored by an FNV-1a hash of its name. Either way the result only depends on
// the palette colors, the axis and the name.
type Palette struct {
	colors []string
	index  map[string]int
}

// NewPalette builds a palette over the given categories. Pass the union of
// both months so a category has the same color in either pie.
func NewPalette(colors []string, categories []string) Palette {
	if len(colors) == 0 {
		colors = DefaultStyle().Palette
	}
	axis := append([]string(nil), categories...)
	sort.Strings(axis)
	p := Palette{colors: append([]string(nil), colors...), index: make(map[string]int, len(axis))}
	for _, c := range axis {
		if _, ok := p.index[c]; !ok {
			p.index[c] = len(p.index)
		}
	}
	return p
}

// Color returns the color for a category.
func (p Palette) Color(category string) string {
	colors := p.colors
	if len(colors) == 0 {
		colors = DefaultStyle().Palette
	}
	if i, ok := p.index[category]; ok {
		return colors[i%len(colors)]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(category))
	return colors[h.Sum32()%uint32(len(colors))]
}
