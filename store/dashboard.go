package store

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"livechart/models"
)

// Dashboard is the registry of sources and the charts drawn from them.
type Dashboard struct {
	sources map[string]*Source
	charts  map[string]*models.Chart
	ordered []*models.Chart
}

// NewDashboard registers sources and charts. Every chart must name a registered source and chart keys must be unique.
func NewDashboard(sources []*Source, charts []*models.Chart) (*Dashboard, error) {
	d := &Dashboard{
		sources: make(map[string]*Source, len(sources)),
		charts:  make(map[string]*models.Chart, len(charts)),
	}
	for _, source := range sources {
		if _, exists := d.sources[source.Key()]; exists {
			return nil, fmt.Errorf("duplicate source %q: %w", source.Key(), ErrInvalidInput)
		}
		d.sources[source.Key()] = source
	}
	for _, chart := range charts {
		if _, exists := d.charts[chart.Key()]; exists {
			return nil, fmt.Errorf("duplicate chart %q: %w", chart.Key(), ErrInvalidInput)
		}
		if _, ok := d.sources[chart.Source()]; !ok {
			return nil, fmt.Errorf("chart %q reads %q: %w", chart.Key(), chart.Source(), ErrUnknownSource)
		}
		d.charts[chart.Key()] = chart
	}

	d.ordered = slices.Collect(maps.Values(d.charts))
	sort.Slice(d.ordered, func(i, j int) bool {
		if d.ordered[i].LayoutPriority() != d.ordered[j].LayoutPriority() {
			return d.ordered[i].LayoutPriority() < d.ordered[j].LayoutPriority()
		}
		return d.ordered[i].Key() < d.ordered[j].Key()
	})
	return d, nil
}

func (d *Dashboard) Source(key string) (*Source, error) {
	source, ok := d.sources[key]
	if !ok {
		return nil, fmt.Errorf("source %q: %w", key, ErrUnknownSource)
	}
	return source, nil
}

func (d *Dashboard) Chart(key string) (*models.Chart, bool) {
	chart, ok := d.charts[key]
	return chart, ok
}

// OrderedCharts returns the charts in layout order.
func (d *Dashboard) OrderedCharts() []*models.Chart {
	return d.ordered
}

// Sources returns the sources sorted by key.
func (d *Dashboard) Sources() []*Source {
	sources := slices.Collect(maps.Values(d.sources))
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Key() < sources[j].Key()
	})
	return sources
}
