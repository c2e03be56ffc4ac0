package svg

import (
	"math"
	"strconv"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"livechart/utils"
)

var timeSteps = []struct {
	step   time.Duration
	layout string
}{
	{time.Millisecond, "15:04:05.000"},
	{5 * time.Millisecond, "15:04:05.000"},
	{10 * time.Millisecond, "15:04:05.000"},
	{50 * time.Millisecond, "15:04:05.000"},
	{100 * time.Millisecond, "15:04:05.000"},
	{500 * time.Millisecond, "15:04:05.000"},
	{time.Second, "15:04:05"},
	{5 * time.Second, "15:04:05"},
	{15 * time.Second, "15:04:05"},
	{30 * time.Second, "15:04:05"},
	{time.Minute, "15:04"},
	{5 * time.Minute, "15:04"},
	{15 * time.Minute, "15:04"},
	{30 * time.Minute, "15:04"},
	{time.Hour, "15:04"},
	{3 * time.Hour, "Jan 2 15:04"},
	{6 * time.Hour, "Jan 2 15:04"},
	{12 * time.Hour, "Jan 2 15:04"},
	{24 * time.Hour, "Jan 2"},
	{2 * 24 * time.Hour, "Jan 2"},
	{7 * 24 * time.Hour, "Jan 2"},
}

const (
	day        = 24 * time.Hour
	longLayout = "Jan 2 2006"
	// maxDecimals bounds label precision, finer steps are labelled at this precision.
	maxDecimals = 15
)

// pickTimeStep returns the smallest step that splits span into at most count intervals, and its label layout. Spans
// too long for the table get a whole number of days per step.
func pickTimeStep(span time.Duration, count int) (time.Duration, string) {
	count = max(count, 1)
	for _, candidate := range timeSteps {
		if span <= candidate.step*time.Duration(count) {
			return candidate.step, candidate.layout
		}
	}
	days := (span/time.Duration(count) + day - 1) / day
	return days * day, longLayout
}

// timeTicks returns step aligned ticks within [from, to], Value holds the tick time as go-chart float.
func timeTicks(from, to time.Time, count int) []gochart.Tick {
	if to.Before(from) {
		return nil
	}
	step, layout := pickTimeStep(to.Sub(from), count)
	format := gochart.TimeValueFormatterWithFormat(layout)

	aligned := from.Truncate(step)
	if aligned.Before(from) {
		aligned = aligned.Add(step)
	}
	if from.Equal(to) {
		aligned = from
	}

	var ticks []gochart.Tick
	for t := aligned; !t.After(to); t = t.Add(step) {
		ticks = append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(t), Label: format(t.Local())})
		if len(ticks) > 2*count {
			break
		}
	}
	return ticks
}

// valueTicks returns round ticks within [lo, hi] using steps of 1, 2 or 5 times a power of ten.
func valueTicks(lo, hi float64, count int) []gochart.Tick {
	if hi < lo || count <= 0 {
		return nil
	}
	if flat(lo, hi) {
		return []gochart.Tick{{Value: lo, Label: strconv.FormatFloat(lo, 'f', -1, 64)}}
	}

	step := niceStep(lo, hi, count)
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return []gochart.Tick{{Value: lo, Label: strconv.FormatFloat(lo, 'f', -1, 64)}}
	}
	decimals := uint8(min(maxDecimals, max(0, -math.Floor(math.Log10(step)))))

	first := math.Ceil(lo / step)
	n := int(math.Floor((hi-first*step)/step+1e-9)) + 1
	n = min(max(n, 0), 2*count+1)

	ticks := make([]gochart.Tick, 0, n)
	for i := 0; i < n; i++ {
		value := utils.RoundToXDp((first+float64(i))*step, decimals)
		ticks = append(ticks, gochart.Tick{Value: value, Label: formatValue(value, decimals)})
	}
	return ticks
}

// flat reports whether [lo, hi] is too narrow to hold distinct ticks.
func flat(lo, hi float64) bool {
	width := hi - lo
	return width <= max(math.Abs(lo), math.Abs(hi))*1e-12 || width < math.Pow10(-maxDecimals)
}

func niceStep(lo, hi float64, count int) float64 {
	raw := (hi - lo) / float64(count)
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	switch ratio := raw / power; {
	case ratio >= math.Sqrt(50):
		return 10 * power
	case ratio >= math.Sqrt(10):
		return 5 * power
	case ratio >= math.Sqrt(2):
		return 2 * power
	default:
		return power
	}
}

func formatValue(value float64, decimals uint8) string {
	return strconv.FormatFloat(value, 'f', int(decimals), 64)
}
