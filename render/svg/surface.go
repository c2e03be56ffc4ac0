package svg

import (
	"fmt"
	"time"

	"livechart/chart"
	"livechart/models"
)

// Surface is a chart.Surface that renders into the page element with id and hands every change to a Sink.
type Surface struct {
	id     string
	layout Layout
	scales *Scales
	sink   Sink
	// path is the d attribute currently on the page, the start of the next transition.
	path string
}

var _ chart.Surface = (*Surface)(nil)

func NewSurface(id string, layout Layout, sink Sink) *Surface {
	return &Surface{
		id:     id,
		layout: layout,
		scales: NewScales(layout.InnerWidth(), layout.InnerHeight()),
		sink:   sink,
	}
}

func (s *Surface) ID() string {
	return s.id
}

func (s *Surface) plotID() string  { return s.id + "-plot" }
func (s *Surface) lineID() string  { return s.id + "-line" }
func (s *Surface) xAxisID() string { return s.id + "-x" }
func (s *Surface) yAxisID() string { return s.id + "-y" }

func (s *Surface) Mount() error {
	return s.sink(Patch{
		Selector: "#" + s.id,
		Mode:     ModeInner,
		Elements: fmt.Sprintf(
			`<svg class="chart" width="%d" height="%d" viewBox="0 0 %d %d"><g id="%s" transform="translate(%d,%d)"></g></svg>`,
			s.layout.Width, s.layout.Height, s.layout.Width, s.layout.Height,
			s.plotID(), s.layout.Margin.Left, s.layout.Margin.Top,
		),
	})
}

func (s *Surface) SetDomains(domains chart.Domains) {
	s.scales.SetDomains(domains)
}

func (s *Surface) AppendAxes() error {
	return s.sink(Patch{
		Selector: "#" + s.plotID(),
		Mode:     ModeAppend,
		Elements: s.xAxis(0) + s.yAxis(0),
	})
}

func (s *Surface) AppendPath(points []models.Point) error {
	s.path = linePath(points, s.scales)
	return s.sink(Patch{
		Selector: "#" + s.plotID(),
		Mode:     ModeAppend,
		Elements: fmt.Sprintf(`<path id="%s" class="line" d="%s"></path>`, s.lineID(), s.path),
	})
}

// TransitionPath swaps in a line that animates from the previous d attribute. SMIL animations added after the
// document loaded only start when told to, hence the script patch.
func (s *Surface) TransitionPath(points []models.Point, d time.Duration) error {
	next := linePath(points, s.scales)
	animationID := s.lineID() + "-animation"
	err := s.sink(Patch{
		Selector: "#" + s.lineID(),
		Mode:     ModeOuter,
		Elements: fmt.Sprintf(
			`<path id="%s" class="line" d="%s"><animate id="%s" attributeName="d" from="%s" to="%s" dur="%dms" begin="indefinite" fill="freeze"></animate></path>`,
			s.lineID(), next, animationID, s.path, next, d.Milliseconds(),
		),
	})
	if err != nil {
		return err
	}
	s.path = next
	return s.sink(Patch{
		Script: fmt.Sprintf(`document.getElementById(%q)?.beginElement()`, animationID),
	})
}

func (s *Surface) TransitionAxes(d time.Duration) error {
	if err := s.sink(Patch{Selector: "#" + s.xAxisID(), Mode: ModeOuter, Elements: s.xAxis(d)}); err != nil {
		return err
	}
	return s.sink(Patch{Selector: "#" + s.yAxisID(), Mode: ModeOuter, Elements: s.yAxis(d)})
}

func (s *Surface) Clear() error {
	s.path = ""
	return s.sink(Patch{Selector: "#" + s.plotID(), Mode: ModeInner, Elements: ""})
}
