package drivers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"livechart/config"
	"livechart/decoders"
	"livechart/models"
)

// Serial reads data logger frames from an Arduino style board and publishes the decoded signals.
type Serial struct {
	*config.SerialFlags
	decoder   decoders.Decoder
	publisher Publisher
	logger    *log.Logger
	port      serial.Port
}

// Arduino & clones common VIDs
var preferredVIDs = map[string]bool{
	"2341": true, // Arduino
	"2A03": true, // Arduino (older)
	"1A86": true, // CH340
	"10C4": true, // CP210x
	"0403": true, // FTDI
}

func NewSerial(serialFlags *config.SerialFlags, decoder decoders.Decoder, publisher Publisher, logger *log.Logger) *Serial {
	if logger == nil {
		logger = log.Default()
	}
	return &Serial{
		SerialFlags: serialFlags,
		decoder:     decoder,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *Serial) Init() error {
	port := s.SerialPort
	if port == "auto" {
		name, err := autoSelectPort()
		if err != nil {
			return fmt.Errorf("auto-select: %w", err)
		}
		port = name
	}

	serialPort, err := serial.Open(port, &serial.Mode{BaudRate: s.BaudRate})
	if err != nil {
		return fmt.Errorf("couldn't open serial %s: %w", port, err)
	}
	s.logger.Printf("connected to %s @ %d", port, s.BaudRate)
	s.port = serialPort
	return nil
}

func (s *Serial) Run(ctx context.Context) error {
	if s.port == nil {
		return errors.New("serial port not initialised")
	}
	stop := context.AfterFunc(ctx, func() { _ = s.port.Close() })
	defer stop()

	return s.process(ctx, s.port)
}

// process decodes frames from reader until it is exhausted or ctx is done.
func (s *Serial) process(ctx context.Context, reader io.Reader) error {
	bufferReader := bufio.NewReader(reader)
	for {
		frame, err := ReadDIDFrame(bufferReader)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			if IsCorrupt(err) {
				s.logger.Printf("read frame: %v", err)
				continue
			}
			return fmt.Errorf("read frame: %w", err)
		}

		fields := s.decoder.Decode(uint32(frame.DID), frame.Data)
		if len(fields) == 0 {
			continue
		}
		if err := s.publisher.Publish(ctx, models.NewSample(nowMillis(), fields...)); err != nil {
			s.logger.Printf("publish: %v", err)
		}
	}
}

func autoSelectPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate ports: %w", err)
	}
	// Look for the first matching "arduino port"
	for _, p := range ports {
		if p.IsUSB && preferredVIDs[strings.ToUpper(p.VID)] {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("no arduino serial ports found")
}
