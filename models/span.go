package models

import "time"

// Span is an inclusive time range in epoch milliseconds.
type Span struct {
	Start int64
	End   int64
}

func NewSpan(start, end time.Time) Span {
	return Span{start.UnixMilli(), end.UnixMilli()}
}

func (s Span) Valid() bool {
	return s.Start <= s.End
}

func (s Span) Contains(timestamp int64) bool {
	return timestamp >= s.Start && timestamp <= s.End
}
