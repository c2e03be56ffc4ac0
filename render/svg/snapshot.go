package svg

import (
	"errors"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"livechart/chart"
	"livechart/models"
)

var ErrNotEnoughPoints = errors.New("a snapshot needs at least two defined points")

// RenderSnapshot writes a standalone SVG image of points. Undefined points are left out.
func RenderSnapshot(w io.Writer, title string, points []models.Point, layout Layout) error {
	var (
		defined []models.Point
		dates   []time.Time
		values  []float64
	)
	for _, point := range points {
		if !point.Defined() {
			continue
		}
		defined = append(defined, point)
		dates = append(dates, point.Date())
		values = append(values, point.Value())
	}
	if len(defined) < 2 {
		return ErrNotEnoughPoints
	}

	domains := chart.ComputeDomains(defined)
	_, layoutFormat := pickTimeStep(domains.Date[1].Sub(domains.Date[0]), xTickCount)

	yAxis := gochart.YAxis{Name: valueLabel}
	if domains.Value[0] == domains.Value[1] {
		yAxis.Range = &gochart.ContinuousRange{Min: domains.Value[0] - 1, Max: domains.Value[1] + 1}
	} else {
		yAxis.Ticks = valueTicks(domains.Value[0], domains.Value[1], yTickCount)
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  layout.Width,
		Height: layout.Height,
		Background: gochart.Style{
			Padding: gochart.Box{
				Top:    layout.Margin.Top,
				Right:  layout.Margin.Right,
				Bottom: layout.Margin.Bottom,
				Left:   layout.Margin.Left,
			},
		},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat(layoutFormat),
			Ticks:          timeTicks(domains.Date[0], domains.Date[1], xTickCount),
		},
		YAxis: yAxis,
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    title,
				XValues: dates,
				YValues: values,
			},
		},
	}
	return graph.Render(gochart.SVG, w)
}
