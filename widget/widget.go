// Package widget binds a chart to a data source. Each Widget runs one event loop goroutine that owns the chart
// state; history results, live samples and user requests all reach the state as messages on that loop.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"livechart/chart"
	"livechart/models"
	"livechart/observability"
	"livechart/store"
)

const (
	// DefaultHistoryLimit is the number of recent samples the first draw is made from.
	DefaultHistoryLimit = models.DefaultWindowCapacity

	messageBuffer = 64
)

var ErrClosed = errors.New("widget closed")

type Options struct {
	// Key names the widget in logs and metrics.
	Key string
	// Element is the id of the root page element, defaults to "chart-" + Key.
	Element string
	// Field preselects the plotted value, empty infers it from the data.
	Field      string
	Capacity   int
	Limit      int
	Transition time.Duration
	Logger     *log.Logger
	Metrics    *observability.Metrics
}

type Widget struct {
	key       string
	element   string
	limit     int
	datastore store.Datastore
	logger    *log.Logger
	metrics   *observability.Metrics

	// controller and state belong to the event loop.
	controller *chart.Controller
	state      chart.State

	ctx      context.Context
	cancel   context.CancelFunc
	messages chan any
	done     chan struct{}
}

// New mounts surface, subscribes to the datastore's push stream and asks it for the latest samples. The widget runs
// until ctx is done or Close is called.
func New(ctx context.Context, datastore store.Datastore, surface chart.Surface, opts Options) (*Widget, error) {
	if opts.Element == "" {
		opts.Element = "chart-" + opts.Key
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[widget] ", log.LstdFlags)
	}

	controller := chart.NewController(surface, opts.Transition)
	if err := controller.Mount(); err != nil {
		return nil, fmt.Errorf("widget %s: %w", opts.Key, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Widget{
		key:        opts.Key,
		element:    opts.Element,
		limit:      opts.Limit,
		datastore:  datastore,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		controller: controller,
		state: chart.State{
			Window: models.NewWindow(opts.Capacity),
			Field:  opts.Field,
		},
		ctx:      ctx,
		cancel:   cancel,
		messages: make(chan any, messageBuffer),
		done:     make(chan struct{}),
	}

	w.metrics.ChartStarted()
	go w.run()
	w.forward(datastore.Subscribe())
	w.query("limit", datastore.History().Limit(w.limit), true)

	return w, nil
}

// Element returns the id of the page element the widget draws into.
func (w *Widget) Element() string {
	return w.element
}

func (w *Widget) Key() string {
	return w.key
}

// Settings returns the settings descriptor, {"value": {"type": "text", "value": field}} with a null value while no
// field is selected.
func (w *Widget) Settings(ctx context.Context) (models.Settings, error) {
	reply := make(chan models.Settings, 1)
	if err := w.post(settingsRequested{reply}); err != nil {
		return nil, err
	}
	select {
	case settings := <-reply:
		return settings, nil
	case <-w.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ApplySettings selects the plotted field and redraws.
func (w *Widget) ApplySettings(result models.SettingsResult) error {
	return w.post(settingsApplied{result.Value})
}

// UpdateSpan replaces the window with the samples in [start, end] once the query completes. Overlapping requests are
// not cancelled, the one that completes last wins.
func (w *Widget) UpdateSpan(start, end time.Time) error {
	if err := w.ctx.Err(); err != nil {
		return ErrClosed
	}
	span := models.NewSpan(start, end)
	w.query("span", w.datastore.History().Span(span.Start, span.End), false)
	return nil
}

// Refresh redraws the chart from scratch.
func (w *Widget) Refresh() error {
	return w.post(refreshRequested{})
}

// Close stops the event loop and ends the subscription. Results arriving afterwards are dropped.
func (w *Widget) Close() {
	w.cancel()
}

// Done is closed once the event loop has stopped.
func (w *Widget) Done() <-chan struct{} {
	return w.done
}

func (w *Widget) post(msg any) error {
	if w.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case w.messages <- msg:
		return nil
	case <-w.ctx.Done():
		return ErrClosed
	}
}
