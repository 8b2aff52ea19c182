package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster delivers events to subscribers within one process.
// Delivery is synchronous: Publish returns after every handler has run.
type MemoryBroadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewMemoryBroadcaster creates an in-process broadcaster.
func NewMemoryBroadcaster() *MemoryBroadcaster {
	return &MemoryBroadcaster{subs: make(map[int]func(Event))}
}

// Publish implements Broadcaster.Publish.
func (b *MemoryBroadcaster) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// Subscribe implements Broadcaster.Subscribe.
func (b *MemoryBroadcaster) Subscribe(handler func(Event)) (func(), error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}
