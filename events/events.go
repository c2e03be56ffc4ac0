package events

import (
	"sync"
	"sync/atomic"

	"livechart/models"
)

// SubscriberBuffer is how many samples a subscriber may lag behind before samples are dropped for it.
const SubscriberBuffer = 64

// EventHub fans samples out to subscribers in broadcast order. Broadcast never waits: a subscriber whose buffer is
// full misses the sample and the drop is counted, the others still receive it.
type EventHub struct {
	mu      sync.Mutex
	subs    map[int]chan models.Sample
	next    int
	dropped atomic.Uint64
}

func NewHub() *EventHub {
	return &EventHub{subs: map[int]chan models.Sample{}}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it and closes the channel, it is safe to
// call more than once.
func (h *EventHub) Subscribe() (int, <-chan models.Sample, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan models.Sample, SubscriberBuffer)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; !ok {
			return
		}
		delete(h.subs, id)
		close(ch)
	}
	return id, ch, cancel
}

// Broadcast delivers sample to every subscriber with room for it and returns how many it had to skip.
func (h *EventHub) Broadcast(sample models.Sample) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	skipped := 0
	for _, ch := range h.subs {
		select {
		case ch <- sample:
		default:
			skipped++
		}
	}
	if skipped > 0 {
		h.dropped.Add(uint64(skipped))
	}
	return skipped
}

func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped is the total number of deliveries skipped because a subscriber had fallen behind.
func (h *EventHub) Dropped() uint64 {
	return h.dropped.Load()
}
