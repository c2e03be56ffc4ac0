package drivers

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"livechart/models"
	"livechart/utils"
)

// Recorder writes every sample it publishes to a binary log that the replay driver can play back.
type Recorder struct {
	next   Publisher
	logger *log.Logger

	mu     sync.Mutex
	path   string
	file   *os.File
	writer *bufio.Writer
	frames int
}

func NewRecorder(dir string, next Publisher, logger *log.Logger) (*Recorder, error) {
	if dir == "" {
		dir = LOG_DIR
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := utils.NextAvailableFilename(dir, LOG_NAME, LOG_EXT)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open rawlog: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("recording to %s", path)

	return &Recorder{
		next:   next,
		logger: logger,
		path:   path,
		file:   file,
		writer: bufio.NewWriterSize(file, 1<<20),
	}, nil
}

func (r *Recorder) Path() string {
	return r.path
}

// Publish records sample and hands it on. A failed write is logged and does not stop the sample.
func (r *Recorder) Publish(ctx context.Context, sample models.Sample) error {
	r.mu.Lock()
	if r.writer != nil {
		if err := WriteFrame(r.writer, sample); err != nil {
			r.logger.Printf("raw write: %v", err)
		} else {
			r.frames++
			if r.frames%WRITE_EVERY_N_FRAMES == 0 {
				_ = r.writer.Flush()
			}
		}
	}
	r.mu.Unlock()

	return r.next.Publish(ctx, sample)
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writer == nil {
		return nil
	}
	flushErr := r.writer.Flush()
	closeErr := r.file.Close()
	r.writer = nil
	if flushErr != nil {
		return fmt.Errorf("flush rawlog: %w", flushErr)
	}
	return closeErr
}
