package drivers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"livechart/config"
	"livechart/models"
)

// WebSocketConfig configures reconnect and read behaviour of the WebSocket driver.
type WebSocketConfig struct {
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	ReadTimeout       time.Duration
	HandshakeTimeout  time.Duration
}

func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
		HandshakeTimeout:  10 * time.Second,
	}
}

// WebSocket subscribes to a remote feed where every text message is one JSON sample:
// {"timestamp": 1700000000000, "value": {"temp": 21.5}}
// A missing timestamp is replaced with the receive time.
type WebSocket struct {
	*config.WebSocketFlags
	config    WebSocketConfig
	publisher Publisher
	logger    *log.Logger
}

func NewWebSocket(flags *config.WebSocketFlags, cfg *WebSocketConfig, publisher Publisher, logger *log.Logger) *WebSocket {
	c := DefaultWebSocketConfig()
	if cfg != nil {
		c = *cfg
	}
	if logger == nil {
		logger = log.Default()
	}
	return &WebSocket{
		WebSocketFlags: flags,
		config:         c,
		publisher:      publisher,
		logger:         logger,
	}
}

func (w *WebSocket) Init() error {
	u, err := url.Parse(w.URL)
	if err != nil {
		return fmt.Errorf("websocket url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("websocket url %q: scheme must be ws or wss", w.URL)
	}
	return nil
}

// Run keeps a connection to the feed open, reconnecting with exponential backoff.
func (w *WebSocket) Run(ctx context.Context) error {
	delay := w.config.ReconnectDelay
	for {
		received, err := w.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if received > 0 {
			delay = w.config.ReconnectDelay
		}
		w.logger.Printf("websocket %s: %v, reconnecting in %s", w.URL, err, delay)
		if !sleep(ctx, delay) {
			return nil
		}
		delay = min(delay*2, w.config.MaxReconnectDelay)
	}
}

// session reads from one connection until it fails, returning how many samples it published.
func (w *WebSocket) session(ctx context.Context) (int, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: w.config.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	received := 0
	for {
		if w.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(w.config.ReadTimeout))
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return received, fmt.Errorf("read: %w", err)
		}

		var sample models.Sample
		if err := json.Unmarshal(message, &sample); err != nil {
			w.logger.Printf("dropping message: %v", err)
			continue
		}
		if sample.Timestamp == 0 {
			sample.Timestamp = nowMillis()
		}
		if err := w.publisher.Publish(ctx, sample); err != nil {
			w.logger.Printf("publish: %v", err)
			continue
		}
		received++
	}
}
