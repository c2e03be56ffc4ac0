package clickhouse

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"livechart/models"
	"livechart/store"
)

// SampleStore implements store.SampleStore using ClickHouse. Values are kept as JSON text so their key order
// survives.
type SampleStore struct {
	conn *Conn
	// seq orders samples that share a timestamp.
	seq atomic.Uint64
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(conn *Conn) *SampleStore {
	s := &SampleStore{conn: conn}
	s.seq.Store(uint64(time.Now().UnixNano()))
	return s
}

// Compile-time interface check.
var _ store.SampleStore = (*SampleStore)(nil)

func (s *SampleStore) InsertBulk(ctx context.Context, source string, samples []models.Sample) error {
	if source == "" {
		return fmt.Errorf("empty source: %w", store.ErrInvalidInput)
	}
	if len(samples) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO samples (source, timestamp_ms, seq, value)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer batch.Abort()

	for _, sample := range samples {
		value, err := sample.MarshalValues()
		if err != nil {
			return fmt.Errorf("encode sample %d: %w: %w", sample.Timestamp, store.ErrInvalidInput, err)
		}
		if err := batch.Append(source, sample.Timestamp, s.seq.Add(1), string(value)); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetLatest retrieves the n most recent samples of a source, ordered by timestamp ASC.
func (s *SampleStore) GetLatest(ctx context.Context, source string, n int) ([]models.Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("limit %d: %w", n, store.ErrInvalidInput)
	}

	query := `
		SELECT timestamp_ms, value
		FROM (
			SELECT timestamp_ms, seq, value
			FROM samples
			WHERE source = ?
			ORDER BY timestamp_ms DESC, seq DESC
			LIMIT ?
		)
		ORDER BY timestamp_ms ASC, seq ASC
	`

	rows, err := s.conn.Query(ctx, query, source, uint64(n))
	if err != nil {
		return nil, fmt.Errorf("get latest samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByTimeRange retrieves samples of a source within [start, end] (inclusive), ordered by timestamp ASC.
func (s *SampleStore) GetByTimeRange(ctx context.Context, source string, start, end int64) ([]models.Sample, error) {
	query := `
		SELECT timestamp_ms, value
		FROM samples
		WHERE source = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, seq ASC
	`

	rows, err := s.conn.Query(ctx, query, source, start, end)
	if err != nil {
		return nil, fmt.Errorf("get samples by time range: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func scanSamples(rows driver.Rows) ([]models.Sample, error) {
	samples := []models.Sample{}
	for rows.Next() {
		var (
			timestamp int64
			value     string
		)
		if err := rows.Scan(&timestamp, &value); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		fields, err := models.UnmarshalValues([]byte(value))
		if err != nil {
			return nil, fmt.Errorf("decode sample %d: %w", timestamp, err)
		}
		samples = append(samples, models.Sample{Timestamp: timestamp, Values: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}
