package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"livechart/models"
	"livechart/store"
)

// Dashboard describes the sources and the chart widgets shown on the dashboard page.
type Dashboard struct {
	Sources []string      `yaml:"sources"`
	Charts  []ChartConfig `yaml:"charts"`
}

type ChartConfig struct {
	Key            string `yaml:"key"`
	Title          string `yaml:"title"`
	Source         string `yaml:"source"`
	Field          string `yaml:"field"`
	Capacity       int    `yaml:"capacity"`
	Limit          int    `yaml:"limit"`
	LayoutPriority uint8  `yaml:"layout_priority"`
}

// Load reads a YAML dashboard file.
func Load(path string) (*Dashboard, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Dashboard, error) {
	var cfg Dashboard
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (d *Dashboard) applyDefaults() {
	if len(d.Sources) == 0 {
		d.Sources = []string{DEFAULT_SOURCE}
	}
	for i := range d.Charts {
		chart := &d.Charts[i]
		if chart.Source == "" {
			chart.Source = d.Sources[0]
		}
		if chart.Capacity == 0 {
			chart.Capacity = models.DefaultWindowCapacity
		}
		if chart.Limit == 0 {
			chart.Limit = chart.Capacity
		}
	}
}

func (d *Dashboard) validate() error {
	if len(d.Charts) == 0 {
		return fmt.Errorf("charts: at least one chart is required")
	}
	sources := make(map[string]bool, len(d.Sources))
	for _, source := range d.Sources {
		if source == "" {
			return fmt.Errorf("sources: empty source name")
		}
		sources[source] = true
	}
	for i, chart := range d.Charts {
		if chart.Key == "" {
			return fmt.Errorf("charts[%d].key is required", i)
		}
		if !sources[chart.Source] {
			return fmt.Errorf("charts[%d].source %q is not a declared source", i, chart.Source)
		}
		if chart.Capacity < 0 || chart.Limit < 0 {
			return fmt.Errorf("charts[%d]: capacity and limit must not be negative", i)
		}
	}
	return nil
}

// Build wires one store source per declared source, all backed by samples, into a dashboard.
func (d *Dashboard) Build(samples store.SampleStore) (*store.Dashboard, error) {
	sources := make([]*store.Source, 0, len(d.Sources))
	for _, key := range d.Sources {
		sources = append(sources, store.NewSource(key, samples))
	}

	charts := make([]*models.Chart, 0, len(d.Charts))
	for _, c := range d.Charts {
		charts = append(charts, models.NewChart(c.Key, c.Title, c.Source, c.Field, c.Capacity, c.Limit, c.LayoutPriority))
	}

	return store.NewDashboard(sources, charts)
}
