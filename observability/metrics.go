// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "livechart"

// Metrics holds all Prometheus metrics for the application. A nil *Metrics records nothing.
type Metrics struct {
	// Chart metrics
	PushesReceived *prometheus.CounterVec
	Draws          *prometheus.CounterVec
	WindowSize     *prometheus.GaugeVec
	ActiveCharts   prometheus.Gauge

	// History metrics
	HistoryQueries       *prometheus.CounterVec
	HistoryQueryDuration *prometheus.HistogramVec

	// Source metrics
	SamplesPublished *prometheus.CounterVec
	DriverErrors     *prometheus.CounterVec

	namespace string
	factory   promauto.Factory
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		namespace: namespace,
		factory:   factory,
		PushesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "pushes_received_total",
			Help:      "Total number of live samples received by charts",
		}, []string{"chart"}),
		Draws: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "draws_total",
			Help:      "Total number of chart draws by kind and result",
		}, []string{"kind", "result"}),
		WindowSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "window_size",
			Help:      "Number of samples in the most recently updated window of a chart",
		}, []string{"chart"}),
		ActiveCharts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "chart",
			Name:      "active",
			Help:      "Number of chart instances currently streaming to a client",
		}),

		HistoryQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "queries_total",
			Help:      "Total number of history queries by kind and status",
		}, []string{"kind", "status"}),
		HistoryQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "query_duration_seconds",
			Help:      "History query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"kind"}),

		SamplesPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "samples_published_total",
			Help:      "Total number of samples published by source",
		}, []string{"source"}),
		DriverErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "driver_errors_total",
			Help:      "Total number of driver errors by driver",
		}, []string{"driver"}),
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordPush(chart string) {
	if m == nil {
		return
	}
	m.PushesReceived.WithLabelValues(chart).Inc()
}

func (m *Metrics) RecordDraw(kind, result string) {
	if m == nil {
		return
	}
	m.Draws.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) SetWindowSize(chart string, size int) {
	if m == nil {
		return
	}
	m.WindowSize.WithLabelValues(chart).Set(float64(size))
}

func (m *Metrics) ChartStarted() {
	if m == nil {
		return
	}
	m.ActiveCharts.Inc()
}

func (m *Metrics) ChartStopped() {
	if m == nil {
		return
	}
	m.ActiveCharts.Dec()
}

func (m *Metrics) RecordHistoryQuery(kind string, err error, took time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.HistoryQueries.WithLabelValues(kind, status).Inc()
	m.HistoryQueryDuration.WithLabelValues(kind).Observe(took.Seconds())
}

func (m *Metrics) RecordPublish(source string) {
	if m == nil {
		return
	}
	m.SamplesPublished.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordDriverError(driver string) {
	if m == nil {
		return
	}
	m.DriverErrors.WithLabelValues(driver).Inc()
}

// TrackDropped exports dropped as the count of pushes a source skipped for subscribers that had fallen behind.
func (m *Metrics) TrackDropped(source string, dropped func() uint64) prometheus.CounterFunc {
	if m == nil {
		return nil
	}
	return m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "source",
		Name:        "pushes_dropped_total",
		Help:        "Total number of live samples skipped for subscribers that had fallen behind",
		ConstLabels: prometheus.Labels{"source": source},
	}, func() float64 {
		return float64(dropped())
	})
}
