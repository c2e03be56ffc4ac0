// Package store holds the data side of the dashboard: persisted samples, the live push stream of each source and
// the registry of sources and charts.
package store

import (
	"context"
	"errors"

	"livechart/models"
)

var (
	// ErrInvalidInput is returned when a query or sample is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownSource is returned when a key names no registered source.
	ErrUnknownSource = errors.New("unknown source")
)

// SampleStore persists the samples of every source.
type SampleStore interface {
	// InsertBulk appends samples to a source. Samples sharing a timestamp are all kept.
	InsertBulk(ctx context.Context, source string, samples []models.Sample) error
	// GetLatest retrieves the n most recent samples of a source, ordered by timestamp ASC.
	GetLatest(ctx context.Context, source string, n int) ([]models.Sample, error)
	// GetByTimeRange retrieves the samples of a source within [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, source string, start, end int64) ([]models.Sample, error)
}

// HistoryQuery is a query over the persisted samples of one source. Limit and Span narrow it, Run executes it.
type HistoryQuery interface {
	// Limit keeps only the n most recent matching samples.
	Limit(n int) HistoryQuery
	// Span restricts the query to [start, end] in epoch milliseconds, both inclusive.
	Span(start, end int64) HistoryQuery
	// Run executes the query. Results are in chronological order.
	Run(ctx context.Context) ([]models.Sample, error)
}

// Datastore is what a chart consumes: history on request and a push stream of new samples.
type Datastore interface {
	History() HistoryQuery
	// Subscribe returns the push stream and the func that ends the subscription.
	Subscribe() (<-chan models.Sample, func())
}
