package models

// DefaultWindowCapacity is the number of samples a chart keeps while following live data, the same number the
// initial history query asks for.
const DefaultWindowCapacity = 20

// Window is the chronological run of samples a chart currently shows. It is not safe for concurrent use, a chart's
// event loop owns it.
type Window struct {
	// capacity bounds the window while appending live samples. ReplaceAll ignores it so a span query can show more.
	capacity int
	// samples holds the window contents, oldest first.
	samples []Sample
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &Window{
		capacity,
		make([]Sample, 0, capacity),
	}
}

func (w *Window) Capacity() int {
	return w.capacity
}

func (w *Window) Len() int {
	return len(w.samples)
}

// ReplaceAll discards the window contents and stores a copy of samples as they are.
func (w *Window) ReplaceAll(samples []Sample) {
	w.samples = append(make([]Sample, 0, len(samples)), samples...)
}

// AppendEvictOldest adds a live sample. When that takes the window over capacity exactly one sample is dropped from
// the head, so a window holding more than capacity after a span query keeps its size.
func (w *Window) AppendEvictOldest(sample Sample) {
	w.samples = append(w.samples, sample)
	if len(w.samples) > w.capacity {
		w.samples = w.samples[1:]
	}
}

// Snapshot returns a copy of the window contents.
func (w *Window) Snapshot() []Sample {
	return append([]Sample(nil), w.samples...)
}

func (w *Window) Latest() (Sample, bool) {
	if len(w.samples) == 0 {
		return Sample{}, false
	}
	return w.samples[len(w.samples)-1], true
}
