package svg

import (
	"fmt"
	"html"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	tickSize    = 6
	tickPadding = 3
	valueLabel  = "Value"
)

func (s *Surface) xAxis(d time.Duration) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, `<g id="%s" class="x axis" transform="translate(0,%d)">`, s.xAxisID(), s.layout.InnerHeight())
	fmt.Fprintf(&builder, `<path class="domain" d="M0,%dV0H%dV%d"></path>`, tickSize, s.layout.InnerWidth(), tickSize)
	for i, tick := range s.scales.XTicks() {
		fmt.Fprintf(&builder,
			`<g id="%s-%d" class="tick" style="%s"><line y2="%d"></line><text y="%d" dy=".71em" style="text-anchor: middle">%s</text></g>`,
			s.xAxisID(), i, tickStyle(tick, 0, d), tickSize, tickSize+tickPadding, html.EscapeString(tick.Label),
		)
	}
	builder.WriteString(`</g>`)
	return builder.String()
}

func (s *Surface) yAxis(d time.Duration) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, `<g id="%s" class="y axis">`, s.yAxisID())
	fmt.Fprintf(&builder, `<path class="domain" d="M-%d,0H0V%dH-%d"></path>`, tickSize, s.layout.InnerHeight(), tickSize)
	for i, tick := range s.scales.YTicks() {
		fmt.Fprintf(&builder,
			`<g id="%s-%d" class="tick" style="%s"><line x2="-%d"></line><text x="-%d" dy=".32em" style="text-anchor: end">%s</text></g>`,
			s.yAxisID(), i, tickStyle(tick, 1, d), tickSize, tickSize+tickPadding, html.EscapeString(tick.Label),
		)
	}
	fmt.Fprintf(&builder, `<text transform="rotate(-90)" y="6" dy=".71em" style="text-anchor: end">%s</text>`, valueLabel)
	builder.WriteString(`</g>`)
	return builder.String()
}

// tickStyle positions a tick along axis 0 (x) or 1 (y). Ticks are placed with a css transform so a morphed tick
// slides to its new offset.
func tickStyle(tick gochart.Tick, axis int, d time.Duration) string {
	x, y := int(tick.Value), 0
	if axis == 1 {
		x, y = 0, int(tick.Value)
	}
	style := fmt.Sprintf("transform: translate(%dpx,%dpx)", x, y)
	if d > 0 {
		style += fmt.Sprintf("; transition: transform %dms", d.Milliseconds())
	}
	return style
}
