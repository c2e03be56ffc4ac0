package drivers

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"livechart/config"
	"livechart/decoders"
	"livechart/models"
)

const DialTimeout = 5 * time.Second

// SocketCAN listens to a CAN interface and publishes the signals decoded from each frame. Frames whose payload has
// not changed since the last frame with the same identifier are dropped.
type SocketCAN struct {
	*config.SocketCANFlags
	decoder   decoders.Decoder
	publisher Publisher
	logger    *log.Logger

	conn    net.Conn
	lastChk map[uint32]frameChecksum
}

type frameChecksum struct {
	length   uint8
	checksum byte
}

func NewSocketCAN(flags *config.SocketCANFlags, decoder decoders.Decoder, publisher Publisher, logger *log.Logger) *SocketCAN {
	if logger == nil {
		logger = log.Default()
	}
	return &SocketCAN{
		SocketCANFlags: flags,
		decoder:        decoder,
		publisher:      publisher,
		logger:         logger,
		lastChk:        make(map[uint32]frameChecksum),
	}
}

func (p *SocketCAN) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), DialTimeout)
	defer cancel()

	conn, err := socketcan.DialContext(ctx, "can", p.SocketCanAddr)
	if err != nil {
		return fmt.Errorf("socketCAN open %s: %w", p.SocketCanAddr, err)
	}
	p.conn = conn
	p.logger.Printf("listening on %s", p.SocketCanAddr)
	return nil
}

func (p *SocketCAN) Run(ctx context.Context) error {
	if p.conn == nil {
		return fmt.Errorf("socketCAN %s not initialised", p.SocketCanAddr)
	}
	stop := context.AfterFunc(ctx, func() { _ = p.conn.Close() })
	defer stop()

	receiver := socketcan.NewReceiver(p.conn)
	for receiver.Receive() {
		if receiver.HasErrorFrame() {
			p.logger.Printf("error frame: %v", receiver.ErrorFrame())
			continue
		}
		p.handleFrame(ctx, receiver.Frame())
	}
	if ctx.Err() != nil {
		return nil
	}
	return receiver.Err()
}

func (p *SocketCAN) handleFrame(ctx context.Context, frame can.Frame) {
	if frame.IsRemote || !p.changed(frame) {
		return
	}

	fields := p.decoder.Decode(frame.ID, frame.Data[:frame.Length])
	if len(fields) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, models.NewSample(nowMillis(), fields...)); err != nil {
		p.logger.Printf("publish: %v", err)
	}
}

func (p *SocketCAN) changed(frame can.Frame) bool {
	var chk byte
	for _, b := range frame.Data[:frame.Length] {
		chk ^= b
	}
	current := frameChecksum{length: frame.Length, checksum: chk}
	if last, ok := p.lastChk[frame.ID]; ok && last == current {
		return false
	}
	p.lastChk[frame.ID] = current
	return true
}
