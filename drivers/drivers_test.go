package drivers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.einride.tech/can"

	"livechart/config"
	"livechart/decoders"
	"livechart/models"
)

type collector struct {
	mu      sync.Mutex
	samples []models.Sample
}

func (c *collector) Publish(_ context.Context, sample models.Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples = append(c.samples, sample)
	return nil
}

func (c *collector) Samples() []models.Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Sample(nil), c.samples...)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRecorderReplay(t *testing.T) {
	dir := t.TempDir()
	recorded := &collector{}
	recorder, err := NewRecorder(dir, recorded, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		sample := models.NewSample(int64(1000+i*10), models.Field{Name: "v", Value: float64(i)})
		require.NoError(t, recorder.Publish(ctx, sample))
	}
	assert.Equal(t, 5, recorder.Frames())
	require.NoError(t, recorder.Close())
	assert.Len(t, recorded.Samples(), 5)

	replayed := &collector{}
	replayer := NewReplayer(&config.ReplayFlags{Path: recorder.Path(), Speed: 0, SkipFrames: 2}, replayed, quietLogger())
	require.NoError(t, replayer.Init())
	require.NoError(t, replayer.Run(ctx))

	samples := replayed.Samples()
	require.Len(t, samples, 3)
	for i, sample := range samples {
		value, ok := sample.Number("v")
		require.True(t, ok)
		assert.Equal(t, float64(i+2), value)
		assert.Greater(t, sample.Timestamp, int64(1000000))
	}
}

func TestReplayer_InitMissingFile(t *testing.T) {
	replayer := NewReplayer(&config.ReplayFlags{Path: "does-not-exist.bin"}, &collector{}, quietLogger())
	assert.Error(t, replayer.Init())
}

func TestSerial_Process(t *testing.T) {
	var raw []byte
	raw = AppendDIDFrame(raw, DIDFrame{Millis: 1, DID: 0x0100, Data: []byte{0x1F, 0x40}})
	raw = append(raw, 0x00, 0x13)
	raw = AppendDIDFrame(raw, DIDFrame{Millis: 2, DID: 0x7777, Data: []byte{0x01}})
	raw = AppendDIDFrame(raw, DIDFrame{Millis: 3, DID: 0x0031, Data: []byte{0x00, 0x02}})

	published := &collector{}
	driver := NewSerial(&config.SerialFlags{}, decoders.K701(), published, quietLogger())
	require.NoError(t, driver.process(context.Background(), bytes.NewReader(raw)))

	samples := published.Samples()
	require.Len(t, samples, 2)
	rpm, _ := samples[0].Number(decoders.RPM)
	gear, _ := samples[1].Number(decoders.Gear)
	assert.Equal(t, 2000.0, rpm)
	assert.Equal(t, 2.0, gear)
}

func TestSocketCAN_DropsUnchangedFrames(t *testing.T) {
	published := &collector{}
	driver := NewSocketCAN(&config.SocketCANFlags{SocketCanAddr: "vcan0"}, decoders.K701(), published, quietLogger())
	ctx := context.Background()

	frame := can.Frame{ID: 0x0100, Length: 2, Data: can.Data{0x1F, 0x40}}
	driver.handleFrame(ctx, frame)
	driver.handleFrame(ctx, frame)
	frame.Data[1] = 0x44
	driver.handleFrame(ctx, frame)
	driver.handleFrame(ctx, can.Frame{ID: 0x0200, Length: 1, Data: can.Data{0x01}})

	samples := published.Samples()
	require.Len(t, samples, 2)
	rpm, _ := samples[1].Number(decoders.RPM)
	assert.Equal(t, 2001.0, rpm)
}

func TestWebSocket_Run(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"timestamp":1000,"value":{"temp":21.5}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"value":{"temp":22}}`))
		time.Sleep(time.Second)
	}))
	defer server.Close()

	published := &collector{}
	cfg := DefaultWebSocketConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	driver := NewWebSocket(&config.WebSocketFlags{URL: "ws" + strings.TrimPrefix(server.URL, "http")}, &cfg, published, quietLogger())
	require.NoError(t, driver.Init())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	require.Eventually(t, func() bool { return len(published.Samples()) >= 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	samples := published.Samples()
	assert.Equal(t, int64(1000), samples[0].Timestamp)
	assert.Greater(t, samples[1].Timestamp, int64(1000))
}

func TestWebSocket_InitRejectsScheme(t *testing.T) {
	driver := NewWebSocket(&config.WebSocketFlags{URL: "http://example.com"}, nil, &collector{}, quietLogger())
	assert.Error(t, driver.Init())
}

func TestSynthetic_Run(t *testing.T) {
	published := &collector{}
	driver := NewSynthetic(&config.SyntheticFlags{Interval: 5 * time.Millisecond}, published, quietLogger())
	require.NoError(t, driver.Init())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Run(ctx) }()

	require.Eventually(t, func() bool { return len(published.Samples()) >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	sample := published.Samples()[0]
	assert.Equal(t, []string{"status", "temperature", "humidity"}, sample.FieldNames())
	temperature, ok := sample.Number("temperature")
	require.True(t, ok)
	assert.InDelta(t, 20, temperature, 5)
}
