package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"livechart/models"
	"livechart/store"
)

// SampleStore implements store.SampleStore using PostgreSQL.
type SampleStore struct {
	pool *Pool
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(pool *Pool) *SampleStore {
	return &SampleStore{pool: pool}
}

// Compile-time interface check.
var _ store.SampleStore = (*SampleStore)(nil)

// InsertBulk adds samples atomically.
func (s *SampleStore) InsertBulk(ctx context.Context, source string, samples []models.Sample) error {
	if source == "" {
		return fmt.Errorf("empty source: %w", store.ErrInvalidInput)
	}
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO samples (source, timestamp_ms, value)
		VALUES ($1, $2, $3::json)
	`

	for _, sample := range samples {
		value, err := sample.MarshalValues()
		if err != nil {
			return fmt.Errorf("encode sample %d: %w: %w", sample.Timestamp, store.ErrInvalidInput, err)
		}
		if _, err := tx.Exec(ctx, query, source, sample.Timestamp, string(value)); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetLatest retrieves the n most recent samples of a source, ordered by timestamp ASC.
func (s *SampleStore) GetLatest(ctx context.Context, source string, n int) ([]models.Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("limit %d: %w", n, store.ErrInvalidInput)
	}

	query := `
		SELECT timestamp_ms, value::text
		FROM (
			SELECT id, timestamp_ms, value
			FROM samples
			WHERE source = $1
			ORDER BY timestamp_ms DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, source, n)
	if err != nil {
		return nil, fmt.Errorf("get latest samples: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByTimeRange retrieves samples of a source within [start, end] (inclusive), ordered by timestamp ASC.
func (s *SampleStore) GetByTimeRange(ctx context.Context, source string, start, end int64) ([]models.Sample, error) {
	query := `
		SELECT timestamp_ms, value::text
		FROM samples
		WHERE source = $1 AND timestamp_ms >= $2 AND timestamp_ms <= $3
		ORDER BY timestamp_ms ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, source, start, end)
	if err != nil {
		return nil, fmt.Errorf("get samples by time range: %w", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func scanSamples(rows pgx.Rows) ([]models.Sample, error) {
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
