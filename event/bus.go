package event

import (
	"context"
	"fmt"
	"sync"
)

// Bus is a thread-safe in-process event fan-out with a bounded history.
type Bus struct {
	mu       sync.RWMutex
	handlers []handlerEntry
	nextID   int
	history  []Event
	maxHist  int
}

type handlerEntry struct {
	id      int
	handler Handler
}

// NewBus creates a Bus with a 1000-event history cap.
func NewBus() *Bus {
	return &Bus{maxHist: 1000}
}

// Publish delivers ev to every subscriber. Handler errors are
// aggregated and reported to the publisher but do not stop delivery to
// the remaining handlers.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	b.mu.Lock()
	b.history = append(b.history, ev)
	if len(b.history) > b.maxHist {
		b.history = b.history[len(b.history)-b.maxHist:]
	}
	targets := make([]Handler, len(b.handlers))
	for i, e := range b.handlers {
		targets[i] = e.handler
	}
	b.mu.Unlock()

	var errs []error
	for _, h := range targets {
		if err := h(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("publish %s: %d handler error(s): %v", ev.Kind, len(errs), errs[0])
	}
	return nil
}

// Subscribe registers a handler for all events. The returned function
// unsubscribes it.
func (b *Bus) Subscribe(handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, handlerEntry{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		filtered := b.handlers[:0]
		for _, e := range b.handlers {
			if e.id != id {
				filtered = append(filtered, e)
			}
		}
		b.handlers = filtered
	}
}

// History returns the most recent limit events in chronological order.
// A limit <= 0 returns the full retained history.
func (b *Bus) History(limit int) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := 0
	if limit > 0 && len(b.history) > limit {
		start = len(b.history) - limit
	}
	out := make([]Event, len(b.history)-start)
	copy(out, b.history[start:])
	return out
}
