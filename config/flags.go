package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

type DriverType string

const (
	Synthetic DriverType = "synthetic"
	Replay    DriverType = "replay"
	Serial    DriverType = "serial"
	SocketCAN DriverType = "socket-can"
	WebSocket DriverType = "websocket"
)

type StoreType string

const (
	Memory     StoreType = "memory"
	Postgres   StoreType = "postgres"
	ClickHouse StoreType = "clickhouse"
)

type Flags struct {
	Driver        DriverType
	Addr          string
	ConfigPath    string
	Source        string
	Store         StoreType
	PostgresDSN   string
	ClickHouseDSN string
	Retention     int
	RecordDir     string
}

type SerialFlags struct {
	SerialPort string
	BaudRate   int
	Decoder    string
}

type ReplayFlags struct {
	Path       string
	Speed      float64
	Loop       bool
	SkipFrames int
}

type SocketCANFlags struct {
	SocketCanAddr string
	Decoder       string
}

type WebSocketFlags struct {
	URL string
}

type SyntheticFlags struct {
	Interval time.Duration
}

type DriverFlags struct {
	Serial    *SerialFlags
	Replay    *ReplayFlags
	SocketCAN *SocketCANFlags
	WebSocket *WebSocketFlags
	Synthetic *SyntheticFlags
}

const (
	DEFAULT_BAUD_RATE          = 115200
	DEFAULT_SYNTHETIC_INTERVAL = time.Second
	DEFAULT_RETENTION          = 10000
)

// ParseFlags registers every flag on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (*Flags, *DriverFlags, error) {
	flags := &Flags{}
	var driverStr, storeStr string
	fs.StringVar(&driverStr, "driver", string(Synthetic), "data source driver: synthetic, replay, serial, socket-can or websocket")
	fs.StringVar(&flags.Addr, "addr", ":8080", "http listen address")
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a YAML dashboard file, empty uses the built-in dashboard")
	fs.StringVar(&flags.Source, "source", DEFAULT_SOURCE, "source the driver publishes to")
	fs.StringVar(&storeStr, "store", string(Memory), "sample store: memory, postgres or clickhouse")
	fs.StringVar(&flags.PostgresDSN, "postgres-dsn", "", "PostgreSQL connection string")
	fs.StringVar(&flags.ClickHouseDSN, "clickhouse-dsn", "", "ClickHouse connection string")
	fs.IntVar(&flags.Retention, "retention", DEFAULT_RETENTION, "samples kept per source by the memory store")
	fs.StringVar(&flags.RecordDir, "record-dir", "", "directory to record published samples to, empty disables recording")

	drivers := &DriverFlags{
		Serial:    &SerialFlags{},
		Replay:    &ReplayFlags{},
		SocketCAN: &SocketCANFlags{},
		WebSocket: &WebSocketFlags{},
		Synthetic: &SyntheticFlags{},
	}
	fs.StringVar(&drivers.Serial.SerialPort, "serial-port", "auto", "serial device path or 'auto'")
	fs.IntVar(&drivers.Serial.BaudRate, "baud", DEFAULT_BAUD_RATE, "baud rate")
	fs.StringVar(&drivers.Serial.Decoder, "serial-decoder", "k701", "decoder for serial frames: k701 or raw")

	fs.StringVar(&drivers.Replay.Path, "replay", "", "Path to .bin to replay")
	fs.Float64Var(&drivers.Replay.Speed, "replay-speed", 1.0, "Replay speed multiplier (0 = as fast as possible)")
	fs.BoolVar(&drivers.Replay.Loop, "replay-loop", false, "Loop replay at EOF")
	fs.IntVar(&drivers.Replay.SkipFrames, "replay-skip-frames", 0, "Skips X amount of frames from start")

	fs.StringVar(&drivers.SocketCAN.SocketCanAddr, "socket-can-address", "can0", "Socket CAN bus address")
	fs.StringVar(&drivers.SocketCAN.Decoder, "socket-can-decoder", "k701", "decoder for CAN frames: k701 or raw")

	fs.StringVar(&drivers.WebSocket.URL, "websocket-url", "", "ws:// or wss:// feed of JSON samples")

	fs.DurationVar(&drivers.Synthetic.Interval, "synthetic-interval", DEFAULT_SYNTHETIC_INTERVAL, "interval between synthetic samples")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	flags.Driver = DriverType(driverStr)
	flags.Store = StoreType(storeStr)

	switch flags.Driver {
	case Synthetic, Replay, Serial, SocketCAN, WebSocket:
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", driverStr)
	}
	switch flags.Store {
	case Memory, Postgres, ClickHouse:
	default:
		return nil, nil, fmt.Errorf("unknown store %q", storeStr)
	}
	if flags.Driver == Replay && drivers.Replay.Path == "" {
		return nil, nil, fmt.Errorf("replay driver needs -replay")
	}

	return flags, drivers, nil
}

func GetFlags() (*Flags, *DriverFlags, error) {
	return ParseFlags(flag.CommandLine, os.Args[1:])
}
