// Package memory provides an in-memory SampleStore, used when no database is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"livechart/models"
	"livechart/store"
)

// SampleStore implements store.SampleStore in memory.
type SampleStore struct {
	mu sync.RWMutex
	// data holds the samples of each source ordered by timestamp, equal timestamps in insertion order.
	data map[string][]models.Sample
	// retention caps the samples kept per source, zero keeps everything.
	retention int
}

// NewSampleStore creates a new SampleStore. A positive retention keeps only that many recent samples per source.
func NewSampleStore(retention int) *SampleStore {
	return &SampleStore{
		data:      make(map[string][]models.Sample),
		retention: retention,
	}
}

// Compile-time interface check.
var _ store.SampleStore = (*SampleStore)(nil)

func (s *SampleStore) InsertBulk(_ context.Context, source string, samples []models.Sample) error {
	if source == "" {
		return fmt.Errorf("empty source: %w", store.ErrInvalidInput)
	}
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[source]
	for _, sample := range samples {
		i := sort.Search(len(existing), func(i int) bool {
			return existing[i].Timestamp > sample.Timestamp
		})
		existing = append(existing, models.Sample{})
		copy(existing[i+1:], existing[i:])
		existing[i] = sample
	}
	if s.retention > 0 && len(existing) > s.retention {
		existing = append([]models.Sample(nil), existing[len(existing)-s.retention:]...)
	}
	s.data[source] = existing
	return nil
}

func (s *SampleStore) GetLatest(_ context.Context, source string, n int) ([]models.Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("limit %d: %w", n, store.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	samples := s.data[source]
	if n < len(samples) {
		samples = samples[len(samples)-n:]
	}
	return append([]models.Sample{}, samples...), nil
}

func (s *SampleStore) GetByTimeRange(_ context.Context, source string, start, end int64) ([]models.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	samples := s.data[source]
	from := sort.Search(len(samples), func(i int) bool {
		return samples[i].Timestamp >= start
	})
	to := sort.Search(len(samples), func(i int) bool {
		return samples[i].Timestamp > end
	})
	if from >= to {
		return []models.Sample{}, nil
	}
	return append([]models.Sample{}, samples[from:to]...), nil
}
