package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"livechart/config"
	"livechart/decoders"
	"livechart/drivers"
	"livechart/observability"
	"livechart/store/backends"
	"livechart/web/handlers"
)

func main() {
	flags, driverFlags, err := config.GetFlags()
	if err != nil {
		log.Fatalf("couldn't parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, driverFlags); err != nil {
		log.Fatalf("dashboard: %v", err)
	}
}

func run(ctx context.Context, flags *config.Flags, driverFlags *config.DriverFlags) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(observability.DefaultNamespace, registry)

	samples, closeStore, err := backends.Open(ctx, flags)
	if err != nil {
		return fmt.Errorf("open %s store: %w", flags.Store, err)
	}
	defer closeStore()

	dashboardConfig := config.DefaultDashboard()
	if flags.ConfigPath != "" {
		if dashboardConfig, err = config.Load(flags.ConfigPath); err != nil {
			return fmt.Errorf("load %s: %w", flags.ConfigPath, err)
		}
	}
	dashboard, err := dashboardConfig.Build(samples)
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	source, err := dashboard.Source(flags.Source)
	if err != nil {
		return err
	}
	for _, src := range dashboard.Sources() {
		metrics.TrackDropped(src.Key(), src.Dropped)
	}
	publisher := drivers.Metered(source, metrics, source.Key())
	if flags.RecordDir != "" {
		recorder, err := drivers.NewRecorder(flags.RecordDir, publisher, log.New(os.Stdout, "[recorder] ", log.LstdFlags))
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				log.Printf("couldn't close recording: %s", err)
			}
		}()
		publisher = recorder
	}

	// Create the correct driver
	driver, err := newDriver(flags.Driver, driverFlags, publisher)
	if err != nil {
		return err
	}

	// Start up the driver
	if err := driver.Init(); err != nil {
		return fmt.Errorf("couldn't init driver: %w", err)
	}

	go func() {
		if err := driver.Run(ctx); err != nil {
			metrics.RecordDriverError(string(flags.Driver))
			log.Printf("error running driver: %s", err)
		}
	}()

	// Initialise UI
	renderer, err := handlers.NewDashboard(dashboard, handlers.DashboardOptions{Metrics: metrics})
	if err != nil {
		return fmt.Errorf("couldn't create dashboard: %w", err)
	}

	// Initialise Server
	server := handlers.NewServer(renderer, observability.Handler(registry), nil)
	return server.Start(ctx, flags.Addr)
}

func newDriver(driverType config.DriverType, driverFlags *config.DriverFlags, publisher drivers.Publisher) (drivers.Driver, error) {
	logger := log.New(os.Stdout, "[driver] ", log.LstdFlags)

	switch driverType {
	case config.Synthetic:
		return drivers.NewSynthetic(driverFlags.Synthetic, publisher, logger), nil
	case config.Replay:
		return drivers.NewReplayer(driverFlags.Replay, publisher, logger), nil
	case config.WebSocket:
		return drivers.NewWebSocket(driverFlags.WebSocket, nil, publisher, logger), nil
	case config.Serial:
		decoder, err := decoders.Get(driverFlags.Serial.Decoder)
		if err != nil {
			return nil, err
		}
		return drivers.NewSerial(driverFlags.Serial, decoder, publisher, logger), nil
	case config.SocketCAN:
		decoder, err := decoders.Get(driverFlags.SocketCAN.Decoder)
		if err != nil {
			return nil, err
		}
		return drivers.NewSocketCAN(driverFlags.SocketCAN, decoder, publisher, logger), nil
	}
	return nil, fmt.Errorf("unsupported driver type: %s", driverType)
}
