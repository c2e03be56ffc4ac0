package widget

import (
	"errors"
	"time"

	"livechart/chart"
	"livechart/models"
	"livechart/store"
)

type historyLoaded struct {
	samples []models.Sample
	initial bool
}

type samplePushed struct {
	sample models.Sample
}

type settingsApplied struct {
	field string
}

type settingsRequested struct {
	reply chan<- models.Settings
}

type refreshRequested struct{}

func (w *Widget) run() {
	defer close(w.done)
	defer w.metrics.ChartStopped()

	for {
		select {
		case <-w.ctx.Done():
			return
		case msg := <-w.messages:
			w.handle(msg)
		}
	}
}

func (w *Widget) handle(msg any) {
	switch m := msg.(type) {
	case historyLoaded:
		w.state.Window.ReplaceAll(m.samples)
		w.metrics.SetWindowSize(w.key, w.state.Window.Len())
		if m.initial {
			w.initialDraw()
		} else {
			w.updateDraw()
		}
	case samplePushed:
		w.metrics.RecordPush(w.key)
		w.state.Window.AppendEvictOldest(m.sample)
		w.metrics.SetWindowSize(w.key, w.state.Window.Len())
		w.updateDraw()
	case settingsApplied:
		w.state.Field = m.field
		w.updateDraw()
	case refreshRequested:
		w.initialDraw()
	case settingsRequested:
		m.reply <- w.settings()
	}
}

func (w *Widget) settings() models.Settings {
	setting := models.Setting{Type: models.SettingTypeText}
	if w.state.Field != "" {
		field := w.state.Field
		setting.Value = &field
	}
	return models.Settings{"value": setting}
}

func (w *Widget) initialDraw() {
	if err := w.controller.InitialDraw(&w.state); err != nil {
		w.metrics.RecordDraw("initial", "error")
		w.logger.Printf("%s: initial draw: %v", w.key, err)
		return
	}
	w.metrics.RecordDraw("initial", "ok")
}

func (w *Widget) updateDraw() {
	err := w.controller.UpdateDraw(&w.state)
	switch {
	case err == nil:
		w.metrics.RecordDraw("update", "ok")
	case errors.Is(err, chart.ErrNotDrawn), errors.Is(err, chart.ErrInvalidDomain):
		w.metrics.RecordDraw("update", "skipped")
	default:
		w.metrics.RecordDraw("update", "error")
		w.logger.Printf("%s: update draw: %v", w.key, err)
	}
}

// forward relays the push stream into the event loop in arrival order.
func (w *Widget) forward(samples <-chan models.Sample, unsubscribe func()) {
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-w.ctx.Done():
				return
			case sample, ok := <-samples:
				if !ok {
					return
				}
				if w.post(samplePushed{sample}) != nil {
					return
				}
			}
		}
	}()
}

// query runs q off the loop and posts the result back to it. A failed query leaves the window as it was.
func (w *Widget) query(kind string, q store.HistoryQuery, initial bool) {
	go func() {
		started := time.Now()
		samples, err := q.Run(w.ctx)
		w.metrics.RecordHistoryQuery(kind, err, time.Since(started))
		if err != nil {
			if w.ctx.Err() == nil {
				w.logger.Printf("%s: %s history query: %v", w.key, kind, err)
			}
			return
		}
		_ = w.post(historyLoaded{samples, initial})
	}()
}
