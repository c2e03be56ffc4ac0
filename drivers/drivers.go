// Package drivers reads samples from a data source (a serial data logger, a CAN bus, a recording, a remote feed or
// a generator) and publishes them to a store source.
package drivers

import (
	"context"
	"time"

	"livechart/models"
	"livechart/observability"
)

const (
	LOG_DIR              = "logs"
	LOG_NAME             = "RAWLOG"
	LOG_EXT              = ".bin"
	WRITE_EVERY_N_FRAMES = 100
)

type Driver interface {
	Init() error
	// Run blocks until ctx is cancelled or the source is exhausted.
	Run(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, sample models.Sample) error
}

type PublisherFunc func(ctx context.Context, sample models.Sample) error

func (f PublisherFunc) Publish(ctx context.Context, sample models.Sample) error {
	return f(ctx, sample)
}

// Metered counts every sample that next accepts for source.
func Metered(next Publisher, metrics *observability.Metrics, source string) Publisher {
	return PublisherFunc(func(ctx context.Context, sample models.Sample) error {
		if err := next.Publish(ctx, sample); err != nil {
			return err
		}
		metrics.RecordPublish(source)
		return nil
	})
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// sleep waits for d or until ctx is done, reporting whether the full duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
