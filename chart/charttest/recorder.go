// Package charttest provides a chart.Surface that records the calls made to it.
package charttest

import (
	"sync"
	"time"

	"livechart/chart"
	"livechart/models"
)

type Op string

const (
	OpMount          Op = "mount"
	OpSetDomains     Op = "set-domains"
	OpAppendAxes     Op = "append-axes"
	OpAppendPath     Op = "append-path"
	OpTransitionPath Op = "transition-path"
	OpTransitionAxes Op = "transition-axes"
	OpClear          Op = "clear"
)

// Call is one recorded surface call.
type Call struct {
	Op       Op
	Points   []models.Point
	Domains  chart.Domains
	Duration time.Duration
}

// Recorder is a chart.Surface that keeps every call. It is safe to inspect from another goroutine.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	// Err, when set, is returned by every call that can fail.
	Err error
}

var _ chart.Surface = (*Recorder)(nil)

func (r *Recorder) record(call Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	return r.Err
}

func (r *Recorder) Mount() error {
	return r.record(Call{Op: OpMount})
}

func (r *Recorder) SetDomains(domains chart.Domains) {
	_ = r.record(Call{Op: OpSetDomains, Domains: domains})
}

func (r *Recorder) AppendAxes() error {
	return r.record(Call{Op: OpAppendAxes})
}

func (r *Recorder) AppendPath(points []models.Point) error {
	return r.record(Call{Op: OpAppendPath, Points: append([]models.Point(nil), points...)})
}

func (r *Recorder) TransitionPath(points []models.Point, d time.Duration) error {
	return r.record(Call{Op: OpTransitionPath, Points: append([]models.Point(nil), points...), Duration: d})
}

func (r *Recorder) TransitionAxes(d time.Duration) error {
	return r.record(Call{Op: OpTransitionAxes, Duration: d})
}

func (r *Recorder) Clear() error {
	return r.record(Call{Op: OpClear})
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Ops returns the recorded operations in call order.
func (r *Recorder) Ops() []Op {
	calls := r.Calls()
	ops := make([]Op, len(calls))
	for i, call := range calls {
		ops[i] = call.Op
	}
	return ops
}

// Count returns how many times op was called.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, call := range r.Calls() {
		if call.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent call of op.
func (r *Recorder) Last(op Op) (Call, bool) {
	calls := r.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Op == op {
			return calls[i], true
		}
	}
	return Call{}, false
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
