package chart_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechart/chart"
	"livechart/chart/charttest"
	"livechart/models"
)

func newState(samples ...models.Sample) *chart.State {
	window := models.NewWindow(models.DefaultWindowCapacity)
	window.ReplaceAll(samples)
	return &chart.State{Window: window}
}

func temp(ts int64, v float64) models.Sample {
	return models.NewSample(ts, models.Field{Name: "temp", Value: v})
}

func TestController_InitialDraw(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)
	state := newState(temp(1, 10), temp(2, 12), temp(3, 11))

	require.NoError(t, controller.InitialDraw(state))

	assert.Equal(t, []charttest.Op{charttest.OpSetDomains, charttest.OpAppendAxes, charttest.OpAppendPath}, surface.Ops())
	assert.Equal(t, chart.Drawn, controller.State())
	assert.Equal(t, "temp", state.Field)

	domains, _ := surface.Last(charttest.OpSetDomains)
	assert.Equal(t, [2]float64{10, 12}, domains.Domains.Value)
	path, _ := surface.Last(charttest.OpAppendPath)
	assert.Len(t, path.Points, 3)
}

func TestController_InitialDrawWithoutDataInstallsEmptyChart(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)

	require.NoError(t, controller.InitialDraw(newState()))

	assert.Equal(t, []charttest.Op{charttest.OpSetDomains, charttest.OpAppendAxes, charttest.OpAppendPath}, surface.Ops())
	domains, _ := surface.Last(charttest.OpSetDomains)
	assert.False(t, domains.Domains.Valid())
	path, _ := surface.Last(charttest.OpAppendPath)
	assert.Empty(t, path.Points)
	assert.Equal(t, chart.Drawn, controller.State())
}

func TestController_UpdateDrawBeforeInitialDrawIsNoop(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)

	err := controller.UpdateDraw(newState(temp(1, 1)))

	require.ErrorIs(t, err, chart.ErrNotDrawn)
	assert.Empty(t, surface.Calls())
}

func TestController_UpdateDraw(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)
	state := newState(temp(1, 10), temp(2, 12))
	require.NoError(t, controller.InitialDraw(state))
	surface.Reset()

	state.Window.AppendEvictOldest(temp(3, 20))
	require.NoError(t, controller.UpdateDraw(state))

	assert.Equal(t, []charttest.Op{charttest.OpSetDomains, charttest.OpTransitionPath, charttest.OpTransitionAxes}, surface.Ops())
	path, _ := surface.Last(charttest.OpTransitionPath)
	assert.Len(t, path.Points, 3)
	assert.Equal(t, chart.TransitionDuration, path.Duration)
	axes, _ := surface.Last(charttest.OpTransitionAxes)
	assert.Equal(t, 750*time.Millisecond, axes.Duration)
}

func TestController_UpdateDrawSkipsInvalidDomain(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)
	require.NoError(t, controller.InitialDraw(newState()))
	surface.Reset()

	err := controller.UpdateDraw(newState())

	require.ErrorIs(t, err, chart.ErrInvalidDomain)
	assert.Empty(t, surface.Calls())
}

func TestController_UpdateDrawIsIdempotent(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)
	state := newState(temp(1, 1), temp(2, 2))
	require.NoError(t, controller.InitialDraw(state))
	surface.Reset()

	require.NoError(t, controller.UpdateDraw(state))
	require.NoError(t, controller.UpdateDraw(state))

	calls := surface.Calls()
	require.Len(t, calls, 6)
	assert.Equal(t, calls[:3], calls[3:])
}

func TestController_RepeatedInitialDrawClearsFirst(t *testing.T) {
	surface := &charttest.Recorder{}
	controller := chart.NewController(surface, 0)
	state := newState(temp(1, 1), temp(2, 2))

	require.NoError(t, controller.InitialDraw(state))
	require.NoError(t, controller.InitialDraw(state))

	assert.Equal(t, 1, surface.Count(charttest.OpClear))
	assert.Equal(t, 2, surface.Count(charttest.OpAppendAxes))
	assert.Equal(t, 2, surface.Count(charttest.OpAppendPath))
}

func TestController_SurfaceErrorsAreWrapped(t *testing.T) {
	boom := errors.New("client gone")
	surface := &charttest.Recorder{Err: boom}
	controller := chart.NewController(surface, 0)

	err := controller.InitialDraw(newState(temp(1, 1)))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, chart.Uninitialized, controller.State())
}
