package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"riepilogo/internal/chart"
)

// LoadChartStyle returns the default chart style overlaid with the YAML file
// at path. An empty path yields the defaults. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func LoadChartStyle(path string) (chart.Style, error) {
	if path == "" {
		return chart.DefaultStyle(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return chart.Style{}, fmt.Errorf("open chart style: %w", err)
	}
	defer f.Close()

	var style chart.Style
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&style); err != nil {
		return chart.Style{}, fmt.Errorf("parse chart style %s: %w", path, err)
	}
	if err := style.Validate(); err != nil {
		return chart.Style{}, fmt.Errorf("chart style %s: %w", path, err)
	}
	return style.Normalize(), nil
}
