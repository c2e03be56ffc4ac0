package store

import (
	"context"
	"fmt"
	"math"

	"livechart/events"
	"livechart/models"
)

// Source is one named data source. Publishing persists a sample and pushes it to every subscriber.
type Source struct {
	key   string
	store SampleStore
	hub   *events.EventHub
}

var _ Datastore = (*Source)(nil)

func NewSource(key string, store SampleStore) *Source {
	return &Source{
		key:   key,
		store: store,
		hub:   events.NewHub(),
	}
}

func (s *Source) Key() string {
	return s.key
}

// Publish stores sample and then broadcasts it, so a subscriber that queries history after a push sees the sample.
func (s *Source) Publish(ctx context.Context, sample models.Sample) error {
	if err := s.store.InsertBulk(ctx, s.key, []models.Sample{sample}); err != nil {
		return fmt.Errorf("store sample for %s: %w", s.key, err)
	}
	s.hub.Broadcast(sample)
	return nil
}

func (s *Source) Subscribe() (<-chan models.Sample, func()) {
	_, ch, cancel := s.hub.Subscribe()
	return ch, cancel
}

func (s *Source) Subscribers() int {
	return s.hub.Subscribers()
}

// Dropped counts pushes skipped for subscribers that had fallen behind.
func (s *Source) Dropped() uint64 {
	return s.hub.Dropped()
}

func (s *Source) History() HistoryQuery {
	return &historyQuery{source: s}
}

type historyQuery struct {
	source *Source
	limit  int
	span   *models.Span
}

func (q *historyQuery) Limit(n int) HistoryQuery {
	next := *q
	next.limit = n
	return &next
}

func (q *historyQuery) Span(start, end int64) HistoryQuery {
	next := *q
	next.span = &models.Span{Start: start, End: end}
	return &next
}

func (q *historyQuery) Run(ctx context.Context) ([]models.Sample, error) {
	if q.limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", q.limit, ErrInvalidInput)
	}

	if q.span == nil {
		if q.limit > 0 {
			return q.source.store.GetLatest(ctx, q.source.key, q.limit)
		}
		return q.source.store.GetByTimeRange(ctx, q.source.key, math.MinInt64, math.MaxInt64)
	}

	if !q.span.Valid() {
		return nil, fmt.Errorf("span [%d, %d]: %w", q.span.Start, q.span.End, ErrInvalidInput)
	}
	samples, err := q.source.store.GetByTimeRange(ctx, q.source.key, q.span.Start, q.span.End)
	if err != nil {
		return nil, err
	}
	if q.limit > 0 && len(samples) > q.limit {
		samples = samples[len(samples)-q.limit:]
	}
	return samples, nil
}
