package drivers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"livechart/config"
)

// Replayer plays back a recording, publishing each sample stamped with the current time.
type Replayer struct {
	*config.ReplayFlags
	publisher Publisher
	logger    *log.Logger
}

func NewReplayer(replayFlags *config.ReplayFlags, publisher Publisher, logger *log.Logger) *Replayer {
	if logger == nil {
		logger = log.Default()
	}
	return &Replayer{
		replayFlags,
		publisher,
		logger,
	}
}

func (r *Replayer) Init() error {
	if _, err := os.Stat(r.Path); err != nil {
		return fmt.Errorf("replay file: %w", err)
	}
	return nil
}

func (r *Replayer) Run(ctx context.Context) error {
	for {
		if err := r.playOnce(ctx); err != nil {
			return err
		}
		if !r.Loop || ctx.Err() != nil {
			return nil
		}
	}
}

func (r *Replayer) playOnce(ctx context.Context) error {
	file, err := os.Open(r.Path)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			r.logger.Printf("couldn't close file: %s", err)
		}
	}(file)

	bufferReader := bufio.NewReaderSize(file, 1<<20)

	var (
		first  = true
		prevMS int64
	)

	frameIndex := 0
	for {
		sample, err := ReadFrame(bufferReader)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				r.logger.Println("end of replay")
				return nil
			}
			if IsCorrupt(err) {
				r.logger.Printf("skipping frame: %v", err)
				continue
			}
			return err
		}

		if frameIndex < r.SkipFrames {
			frameIndex++
			continue
		}
		frameIndex++

		if first {
			first = false
			prevMS = sample.Timestamp
		}

		if r.Speed > 0 {
			delta := sample.Timestamp - prevMS
			if !sleep(ctx, time.Duration(float64(delta)*float64(time.Millisecond)/r.Speed)) {
				return nil
			}
			prevMS = sample.Timestamp
		} else if ctx.Err() != nil {
			return nil
		}

		sample.Timestamp = nowMillis()
		if err := r.publisher.Publish(ctx, sample); err != nil {
			r.logger.Printf("publish: %v", err)
		}
	}
}
