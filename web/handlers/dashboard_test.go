package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechart/models"
	"livechart/observability"
	"livechart/store"
	"livechart/store/memory"
)

type testEnv struct {
	server *httptest.Server
	client *http.Client
	source *store.Source
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	source := store.NewSource("sensors", memory.NewSampleStore(100))
	dashboard, err := store.NewDashboard(
		[]*store.Source{source},
		[]*models.Chart{
			models.NewChart("temperature", "Temperature", "sensors", "temperature", 20, 20, 0),
			models.NewChart("auto", "", "sensors", "", 20, 20, 1),
		},
	)
	require.NoError(t, err)

	logger := log.New(io.Discard, "", 0)
	registry := prometheus.NewRegistry()
	renderer, err := NewDashboard(dashboard, DashboardOptions{
		Transition: 10 * time.Millisecond,
		Metrics:    observability.NewMetrics(observability.DefaultNamespace, registry),
		Logger:     logger,
	})
	require.NoError(t, err)

	server := httptest.NewServer(NewServer(renderer, observability.Handler(registry), logger).Handler())
	t.Cleanup(func() {
		renderer.Close()
		server.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{server: server, client: &http.Client{Jar: jar}, source: source}
}

func (e *testEnv) publish(t *testing.T, from, to int) {
	t.Helper()
	for i := from; i < to; i++ {
		sample := models.NewSample(int64(1700000000000+i*1000),
			models.Field{Name: "status", Value: "ok"},
			models.Field{Name: "temperature", Value: float64(20 + i)},
		)
		require.NoError(t, e.source.Publish(context.Background(), sample))
	}
}

// openStream starts the chart's SSE stream and returns every event line read from it.
func (e *testEnv) openStream(t *testing.T, key string) <-chan string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.server.URL+"/widgets/"+key+"/stream", nil)
	require.NoError(t, err)
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string, 1024)
	go func() {
		defer resp.Body.Close()
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func waitForLine(t *testing.T, lines <-chan string, substr string) string {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream ended before %q", substr)
			if strings.Contains(line, substr) {
				return line
			}
		case <-timeout:
			t.Fatalf("no line containing %q", substr)
		}
	}
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="chart-temperature"`)
	assert.Contains(t, body, `/widgets/auto/stream`)
	assert.Less(t, strings.Index(body, "chart-temperature"), strings.Index(body, "chart-auto"))

	resp, _ = env.get(t, "/static/dashboard.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestStream_DrawsAndUpdates(t *testing.T) {
	env := newTestEnv(t)
	env.publish(t, 0, 3)

	lines := env.openStream(t, "temperature")
	waitForLine(t, lines, `id="chart-temperature-plot"`)
	waitForLine(t, lines, `id="chart-temperature-line"`)

	env.publish(t, 3, 4)
	waitForLine(t, lines, `chart-temperature-line-animation`)

	resp, body := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "livechart_")
}

func TestStream_UnknownChart(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/widgets/nope/stream")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWidgetRequests(t *testing.T) {
	env := newTestEnv(t)
	env.publish(t, 0, 3)

	assert.Equal(t, http.StatusNotFound, env.post(t, "/widgets/auto/refresh", nil).StatusCode)

	lines := env.openStream(t, "auto")
	waitForLine(t, lines, `id="chart-auto-line"`)

	require.Eventually(t, func() bool {
		resp, _ := env.get(t, "/widgets/auto/settings")
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	_, body := env.get(t, "/widgets/auto/settings")
	var settings models.Settings
	require.NoError(t, json.Unmarshal([]byte(body), &settings))
	require.NotNil(t, settings["value"].Value)
	assert.Equal(t, "temperature", *settings["value"].Value)

	resp := env.post(t, "/widgets/auto/settings", url.Values{"value": {"humidity"}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Eventually(t, func() bool {
		_, body := env.get(t, "/widgets/auto/settings")
		return strings.Contains(body, "humidity")
	}, 2*time.Second, 10*time.Millisecond)

	start := strconv.FormatInt(1700000000000, 10)
	end := strconv.FormatInt(1700000002000, 10)
	resp = env.post(t, "/widgets/auto/span", url.Values{"start": {start}, "end": {end}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.post(t, "/widgets/auto/span", url.Values{"start": {end}, "end": {start}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.post(t, "/widgets/auto/span", url.Values{"start": {"yesterday"}, "end": {end}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.post(t, "/widgets/auto/refresh", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSnapshot(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/widgets/temperature/snapshot.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.publish(t, 0, 5)
	resp, body := env.get(t, "/widgets/temperature/snapshot.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<svg")
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)

	got, err := parseTime("2024-03-01T10:30")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = parseTime(strconv.FormatInt(want.UnixMilli(), 10))
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = parseTime(want.Format(time.RFC3339))
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = parseTime("")
	assert.Error(t, err)
}
