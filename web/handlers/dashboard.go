package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	ds "github.com/starfederation/datastar-go/datastar"

	"livechart/chart"
	"livechart/models"
	"livechart/observability"
	"livechart/render/svg"
	"livechart/store"
	"livechart/web"
	"livechart/widget"
)

const (
	DASHBOARD_TITLE = "livechart"
	maxFormMemory   = 1 << 20
)

// Dashboard renders the chart page and runs one widget per client and chart, fed over the client's SSE stream.
type Dashboard struct {
	templates  *template.Template
	dashboard  *store.Dashboard
	layout     svg.Layout
	transition time.Duration
	metrics    *observability.Metrics
	logger     *log.Logger

	mu      sync.Mutex
	widgets map[string]map[string]*widget.Widget // clientID -> chartKey -> widget
}

type DashboardOptions struct {
	Layout     svg.Layout
	Transition time.Duration
	Metrics    *observability.Metrics
	Logger     *log.Logger
}

// chartView is what the chart template is executed with.
type chartView struct {
	Key     string
	Title   string
	Element string
	Field   string
}

type spanSignals struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func NewDashboard(dashboard *store.Dashboard, opts DashboardOptions) (*Dashboard, error) {
	if opts.Layout.Width == 0 {
		opts.Layout = svg.DefaultLayout()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[dashboard] ", log.LstdFlags)
	}

	templates, err := template.New("").ParseFS(web.Templates, "templates/dashboard/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard templates: %w", err)
	}

	return &Dashboard{
		templates:  templates,
		dashboard:  dashboard,
		layout:     opts.Layout,
		transition: opts.Transition,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		widgets:    make(map[string]map[string]*widget.Widget),
	}, nil
}

func (d *Dashboard) Templates() *template.Template {
	return d.templates
}

func (d *Dashboard) Handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /widgets/{key}/stream":       d.StreamHandler,
		"POST /widgets/{key}/span":        d.SpanHandler,
		"GET /widgets/{key}/settings":     d.SettingsHandler,
		"POST /widgets/{key}/settings":    d.ApplySettingsHandler,
		"POST /widgets/{key}/refresh":     d.RefreshHandler,
		"GET /widgets/{key}/snapshot.svg": d.SnapshotHandler,
	}
}

func (d *Dashboard) Data() map[string]interface{} {
	charts := d.dashboard.OrderedCharts()
	views := make([]chartView, 0, len(charts))
	for _, c := range charts {
		views = append(views, chartView{
			Key:     c.Key(),
			Title:   c.Title(),
			Element: elementID(c.Key()),
			Field:   c.Field(),
		})
	}
	return map[string]interface{}{
		"title":  DASHBOARD_TITLE,
		"charts": views,
	}
}

// Close stops every widget of every client.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, widgets := range d.widgets {
		for _, w := range widgets {
			w.Close()
		}
	}
}

func elementID(chartKey string) string {
	return "chart-" + chartKey
}

// StreamHandler starts a widget for the client and chart and keeps the SSE stream open until the client leaves.
func (d *Dashboard) StreamHandler(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	c, ok := d.dashboard.Chart(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	source, err := d.dashboard.Source(c.Source())
	if err != nil {
		d.logger.Printf("chart %s: %s", key, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// The cookie has to be set before the SSE headers go out.
	clientIdentifier := getClientID(w, r)
	sse := ds.NewSSE(w, r)

	surface := svg.NewSurface(elementID(key), d.layout, sseSink(sse))
	chartWidget, err := widget.New(r.Context(), source, surface, widget.Options{
		Key:        key,
		Element:    elementID(key),
		Field:      c.Field(),
		Capacity:   c.Capacity(),
		Limit:      c.Limit(),
		Transition: d.transition,
		Logger:     d.logger,
		Metrics:    d.metrics,
	})
	if err != nil {
		d.logger.Printf("couldn't start widget %s: %s", key, err)
		return
	}

	d.register(clientIdentifier, key, chartWidget)
	defer d.unregister(clientIdentifier, key, chartWidget)

	<-chartWidget.Done()
}

// sseSink forwards surface patches to the browser as datastar events.
func sseSink(sse *ds.ServerSentEventGenerator) svg.Sink {
	return func(patch svg.Patch) error {
		if patch.Script != "" {
			return sse.ExecuteScript(patch.Script)
		}
		switch patch.Mode {
		case svg.ModeRemove:
			return sse.RemoveElement(patch.Selector)
		case svg.ModeInner:
			return sse.PatchElements(patch.Elements, ds.WithSelector(patch.Selector), ds.WithModeInner())
		case svg.ModeAppend:
			return sse.PatchElements(patch.Elements, ds.WithSelector(patch.Selector), ds.WithModeAppend())
		default:
			return sse.PatchElements(patch.Elements, ds.WithSelector(patch.Selector), ds.WithModeOuter())
		}
	}
}

func (d *Dashboard) SpanHandler(w http.ResponseWriter, r *http.Request) {
	chartWidget, ok := d.widgetFor(w, r)
	if !ok {
		return
	}

	var signals spanSignals
	if err := readInput(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, err := parseTime(signals.Start)
	if err != nil {
		http.Error(w, fmt.Sprintf("start: %s", err), http.StatusBadRequest)
		return
	}
	end, err := parseTime(signals.End)
	if err != nil {
		http.Error(w, fmt.Sprintf("end: %s", err), http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		http.Error(w, "end is before start", http.StatusBadRequest)
		return
	}

	if err := chartWidget.UpdateSpan(start, end); err != nil {
		d.gone(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	chartWidget, ok := d.widgetFor(w, r)
	if !ok {
		return
	}

	settings, err := chartWidget.Settings(r.Context())
	if err != nil {
		d.gone(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		d.logger.Printf("couldn't write settings: %s", err)
	}
}

func (d *Dashboard) ApplySettingsHandler(w http.ResponseWriter, r *http.Request) {
	chartWidget, ok := d.widgetFor(w, r)
	if !ok {
		return
	}

	var result models.SettingsResult
	if err := readInput(r, &result); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := chartWidget.ApplySettings(models.SettingsResult{Value: strings.TrimSpace(result.Value)}); err != nil {
		d.gone(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	chartWidget, ok := d.widgetFor(w, r)
	if !ok {
		return
	}
	if err := chartWidget.Refresh(); err != nil {
		d.gone(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SnapshotHandler renders the chart's latest samples as a standalone SVG document.
func (d *Dashboard) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	c, ok := d.dashboard.Chart(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	source, err := d.dashboard.Source(c.Source())
	if err != nil {
		d.logger.Printf("chart %s: %s", key, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	started := time.Now()
	samples, err := source.History().Limit(c.Limit()).Run(r.Context())
	d.metrics.RecordHistoryQuery("snapshot", err, time.Since(started))
	if err != nil {
		d.logger.Printf("snapshot %s: %s", key, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	points, _ := chart.Project(samples, c.Field())
	var buf bytes.Buffer
	if err := svg.RenderSnapshot(&buf, c.Title(), points, d.layout); err != nil {
		if errors.Is(err, svg.ErrNotEnoughPoints) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		d.logger.Printf("snapshot %s: %s", key, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

// widgetFor finds the widget the requesting client streams for the chart in the path. It writes a 404 when there
// is none.
func (d *Dashboard) widgetFor(w http.ResponseWriter, r *http.Request) (*widget.Widget, bool) {
	key := r.PathValue("key")
	d.mu.Lock()
	chartWidget, ok := d.widgets[clientID(r)][key]
	d.mu.Unlock()
	if !ok {
		http.Error(w, fmt.Sprintf("no open chart %q for this client", key), http.StatusNotFound)
		return nil, false
	}
	return chartWidget, true
}

func (d *Dashboard) gone(w http.ResponseWriter, err error) {
	if errors.Is(err, widget.ErrClosed) {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}
	d.logger.Printf("widget request: %s", err)
	w.WriteHeader(http.StatusInternalServerError)
}

func (d *Dashboard) register(clientID, key string, w *widget.Widget) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.widgets[clientID]; !ok {
		d.widgets[clientID] = make(map[string]*widget.Widget)
	}
	// A reconnecting stream replaces the widget of the previous one.
	if previous, ok := d.widgets[clientID][key]; ok {
		previous.Close()
	}
	d.widgets[clientID][key] = w
}

func (d *Dashboard) unregister(clientID, key string, w *widget.Widget) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.widgets[clientID][key] == w {
		delete(d.widgets[clientID], key)
	}
	if len(d.widgets[clientID]) == 0 {
		delete(d.widgets, clientID)
	}
}

// readInput decodes a form post or datastar signals into v, whose fields carry json tags.
func readInput(r *http.Request, v any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return err
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return err
		}
	default:
		return ds.ReadSignals(r, v)
	}

	fields := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		fields[name] = r.PostForm.Get(name)
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// parseTime accepts epoch milliseconds, RFC 3339 or a datetime-local input value in the server's time zone.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("missing time")
	}
	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(millis), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", value)
}
