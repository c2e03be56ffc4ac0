package svg

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechart/chart"
	"livechart/models"
)

type patches struct {
	list []Patch
}

func (p *patches) sink(patch Patch) error {
	p.list = append(p.list, patch)
	return nil
}

func points(values ...float64) []models.Point {
	out := make([]models.Point, len(values))
	for i, v := range values {
		out[i] = models.NewPoint(time.UnixMilli(int64(i)*1000), v)
	}
	return out
}

func drawn(t *testing.T, values ...float64) (*Surface, *patches) {
	t.Helper()
	recorded := &patches{}
	surface := NewSurface("chart-temp", DefaultLayout(), recorded.sink)
	require.NoError(t, surface.Mount())
	surface.SetDomains(chart.ComputeDomains(points(values...)))
	require.NoError(t, surface.AppendAxes())
	require.NoError(t, surface.AppendPath(points(values...)))
	return surface, recorded
}

func TestSurface_InitialDraw(t *testing.T) {
	_, recorded := drawn(t, 1, 3, 2)

	require.Len(t, recorded.list, 3)

	mount := recorded.list[0]
	assert.Equal(t, "#chart-temp", mount.Selector)
	assert.Equal(t, ModeInner, mount.Mode)
	assert.Contains(t, mount.Elements, `<g id="chart-temp-plot" transform="translate(50,20)">`)
	assert.Contains(t, mount.Elements, `width="480" height="420"`)

	axes := recorded.list[1]
	assert.Equal(t, "#chart-temp-plot", axes.Selector)
	assert.Equal(t, ModeAppend, axes.Mode)
	assert.Contains(t, axes.Elements, `id="chart-temp-x" class="x axis" transform="translate(0,370)"`)
	assert.Contains(t, axes.Elements, `id="chart-temp-y" class="y axis"`)
	assert.Contains(t, axes.Elements, ">Value</text>")

	path := recorded.list[2]
	assert.Equal(t, ModeAppend, path.Mode)
	assert.Contains(t, path.Elements, `d="M0,370L205,0L410,185"`)
}

func TestSurface_InvalidDomainDrawsEmptyAxes(t *testing.T) {
	recorded := &patches{}
	surface := NewSurface("c", DefaultLayout(), recorded.sink)

	surface.SetDomains(chart.ComputeDomains(nil))
	require.NoError(t, surface.AppendAxes())
	require.NoError(t, surface.AppendPath(nil))

	assert.NotContains(t, recorded.list[0].Elements, `class="tick"`)
	assert.Contains(t, recorded.list[1].Elements, `d=""`)
}

func TestSurface_TransitionPath(t *testing.T) {
	surface, recorded := drawn(t, 1, 3, 2)
	recorded.list = nil

	surface.SetDomains(chart.ComputeDomains(points(1, 3, 2, 5)))
	require.NoError(t, surface.TransitionPath(points(1, 3, 2, 5), 750*time.Millisecond))

	require.Len(t, recorded.list, 2)
	swap := recorded.list[0]
	assert.Equal(t, "#chart-temp-line", swap.Selector)
	assert.Equal(t, ModeOuter, swap.Mode)
	assert.Contains(t, swap.Elements, `from="M0,370L205,0L410,185"`)
	assert.Contains(t, swap.Elements, `dur="750ms"`)
	assert.Contains(t, recorded.list[1].Script, "chart-temp-line-animation")

	target := attribute(swap.Elements, "to")
	assert.Equal(t, 4, strings.Count(target, ","))

	recorded.list = nil
	require.NoError(t, surface.TransitionPath(points(1, 3, 2, 5), 750*time.Millisecond))
	assert.Equal(t, target, attribute(recorded.list[0].Elements, "from"))
}

// attribute returns the value of the first name="..." attribute in markup.
func attribute(markup, name string) string {
	start := strings.Index(markup, " "+name+`="`)
	if start < 0 {
		return ""
	}
	rest := markup[start+len(name)+3:]
	return rest[:strings.IndexByte(rest, '"')]
}

func TestSurface_TransitionAxes(t *testing.T) {
	surface, recorded := drawn(t, 1, 3, 2)
	recorded.list = nil

	require.NoError(t, surface.TransitionAxes(750*time.Millisecond))

	require.Len(t, recorded.list, 2)
	assert.Equal(t, "#chart-temp-x", recorded.list[0].Selector)
	assert.Equal(t, "#chart-temp-y", recorded.list[1].Selector)
	assert.Equal(t, ModeOuter, recorded.list[1].Mode)
	assert.Contains(t, recorded.list[1].Elements, "transition: transform 750ms")
}

func TestSurface_Clear(t *testing.T) {
	surface, recorded := drawn(t, 1, 2)
	recorded.list = nil

	require.NoError(t, surface.Clear())

	assert.Equal(t, []Patch{{Selector: "#chart-temp-plot", Mode: ModeInner}}, recorded.list)
}

func TestLinePath_BreaksAtUndefinedPoints(t *testing.T) {
	values := []float64{0, 10, math.NaN(), 10, 0}
	scales := NewScales(400, 100)
	scales.SetDomains(chart.ComputeDomains(points(values...)))

	d := linePath(points(values...), scales)

	assert.Equal(t, "M0,100L100,0M300,0L400,100", d)
	assert.Equal(t, 2, strings.Count(d, "M"))
}

func TestRenderSnapshot(t *testing.T) {
	var buffer bytes.Buffer
	err := RenderSnapshot(&buffer, "temp", points(1, 4, 2, 8), DefaultLayout())
	require.NoError(t, err)
	assert.Contains(t, buffer.String(), "<svg")

	err = RenderSnapshot(&buffer, "temp", points(1, math.NaN()), DefaultLayout())
	require.ErrorIs(t, err, ErrNotEnoughPoints)
}
