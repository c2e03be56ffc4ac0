package drivers

import (
	"context"
	"log"
	"math"
	"time"

	"livechart/config"
	"livechart/models"
	"livechart/utils"
)

// Synthetic generates a weather-station style sample on every tick. The first field is a string so the chart has to
// look past it to find a numeric field.
type Synthetic struct {
	*config.SyntheticFlags
	publisher Publisher
	logger    *log.Logger
	step      int
}

func NewSynthetic(flags *config.SyntheticFlags, publisher Publisher, logger *log.Logger) *Synthetic {
	if logger == nil {
		logger = log.Default()
	}
	return &Synthetic{
		SyntheticFlags: flags,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *Synthetic) Init() error {
	if s.Interval <= 0 {
		s.Interval = config.DEFAULT_SYNTHETIC_INTERVAL
	}
	return nil
}

func (s *Synthetic) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := s.publisher.Publish(ctx, syntheticSample(s.step, now)); err != nil {
				s.logger.Printf("publish: %v", err)
			}
			s.step++
		}
	}
}

func syntheticSample(step int, at time.Time) models.Sample {
	phase := float64(step) / 10
	return models.NewSample(at.UnixMilli(),
		models.Field{Name: "status", Value: "ok"},
		models.Field{Name: "temperature", Value: utils.RoundToXDp(20+5*math.Sin(phase), 2)},
		models.Field{Name: "humidity", Value: utils.RoundToXDp(50+10*math.Cos(phase), 2)},
	)
}
