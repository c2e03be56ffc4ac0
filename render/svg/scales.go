package svg

import (
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"livechart/chart"
)

const (
	xTickCount = 5
	yTickCount = 8
)

// Scales maps data onto plot coordinates: dates onto [0, width] and values onto [height, 0].
type Scales struct {
	x     gochart.ContinuousRange
	y     gochart.ContinuousRange
	dates [2]time.Time
	valid bool
}

func NewScales(width, height int) *Scales {
	return &Scales{
		x: gochart.ContinuousRange{Domain: width},
		y: gochart.ContinuousRange{Domain: height},
	}
}

// SetDomains sets the input ranges. An invalid domain leaves the scales without ticks until a valid one is set.
func (s *Scales) SetDomains(domains chart.Domains) {
	s.valid = domains.Valid()
	if !s.valid {
		return
	}
	s.dates = domains.Date
	s.x.Min = gochart.TimeToFloat64(domains.Date[0])
	s.x.Max = gochart.TimeToFloat64(domains.Date[1])
	s.y.Min = domains.Value[0]
	s.y.Max = domains.Value[1]
}

func (s *Scales) Valid() bool {
	return s.valid
}

func (s *Scales) X(date time.Time) int {
	return translate(s.x, gochart.TimeToFloat64(date))
}

func (s *Scales) Y(value float64) int {
	return s.y.Domain - translate(s.y, value)
}

// XTicks returns the date ticks inside the x domain with their pixel offset as Value.
func (s *Scales) XTicks() []gochart.Tick {
	if !s.valid {
		return nil
	}
	ticks := timeTicks(s.dates[0], s.dates[1], xTickCount)
	for i := range ticks {
		ticks[i].Value = float64(translate(s.x, ticks[i].Value))
	}
	return ticks
}

// YTicks returns the value ticks inside the y domain with their pixel offset as Value.
func (s *Scales) YTicks() []gochart.Tick {
	if !s.valid {
		return nil
	}
	ticks := valueTicks(s.y.Min, s.y.Max, yTickCount)
	for i := range ticks {
		ticks[i].Value = float64(s.y.Domain - translate(s.y, ticks[i].Value))
	}
	return ticks
}

// translate maps v into r, a zero width domain maps everything onto the middle of the range.
func translate(r gochart.ContinuousRange, v float64) int {
	if r.Max == r.Min {
		return r.Domain / 2
	}
	return r.Translate(v)
}
