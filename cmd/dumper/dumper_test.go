package main

import (
	"bufio"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livechart/drivers"
	"livechart/models"
	"livechart/store/memory"
)

func TestDump(t *testing.T) {
	ctx := context.Background()
	samples := memory.NewSampleStore(100)
	for i := int64(0); i < 10; i++ {
		require.NoError(t, samples.InsertBulk(ctx, "sensors", []models.Sample{
			models.NewSample(i*1000, models.Field{Name: "v", Value: float64(i)}),
		}))
	}

	var buf bytes.Buffer
	count, err := dump(ctx, samples, "sensors", models.Span{Start: 2000, End: 4000}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	reader := bufio.NewReader(&buf)
	for _, want := range []int64{2000, 3000, 4000} {
		sample, err := drivers.ReadFrame(reader)
		require.NoError(t, err)
		assert.Equal(t, want, sample.Timestamp)
	}
}

func TestParseSpan(t *testing.T) {
	now := time.UnixMilli(10_000_000)

	span, err := parseSpan("", "", now)
	require.NoError(t, err)
	assert.Equal(t, models.Span{Start: 10_000_000 - 3_600_000, End: 10_000_000}, span)

	span, err = parseSpan("1000", "2000", now)
	require.NoError(t, err)
	assert.Equal(t, models.Span{Start: 1000, End: 2000}, span)

	_, err = parseSpan("2000", "1000", now)
	assert.Error(t, err)

	_, err = parseSpan("soon", "", now)
	assert.Error(t, err)
}
