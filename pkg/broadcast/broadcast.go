// Package broadcast carries the cross-context logout signal. One process
// logging out publishes a single event; every other open context of the
// same account observes it and ends its own session, the way browser tabs
// watch a shared storage key.
package broadcast

import (
	"context"
	"time"
)

// Event is a logout notification. Origin identifies the session context
// that published it, so subscribers can tell their own logout apart from
// one observed elsewhere and avoid re-publishing.
type Event struct {
	ID     string    `json:"id"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Broadcaster is a one-directional pub/sub channel with at-least-once,
// unordered delivery. Subscribers must tolerate observing their own
// events.
type Broadcaster interface {
	// Publish delivers the event to every subscriber, including
	// subscribers registered by the publishing context.
	Publish(ctx context.Context, ev Event) error

	// Subscribe registers a handler for future events and returns a
	// function that removes it.
	Subscribe(handler func(Event)) (unsubscribe func(), err error)
}
