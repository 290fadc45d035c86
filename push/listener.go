// Package push maintains the session-scoped server push subscription and
// fans decoded events out to subscribers. Filtering by conversation is the
// subscriber's job; the listener dispatches every event to everyone.
package push

import (
	"context"
	"errors"
	"log"
	"sync"

	"conversync/internal/observability"
	"conversync/models"
)

// Source abstracts the push transport. Next blocks until an event arrives or
// the transport fails.
type Source interface {
	Next(ctx context.Context) (models.PushEvent, error)
	Close() error
}

// Listener runs one subscription and dispatches events to all registered
// subscriptions. When the source errors the listener shuts down and does not
// reconnect; re-mounting the view creates a fresh listener.
type Listener struct {
	source Source

	mu   sync.RWMutex
	subs map[*Subscription]bool

	done     chan struct{}
	shutOnce sync.Once
}

// Subscription is one registered handler. Close unregisters it; future events
// are no longer delivered.
type Subscription struct {
	listener *Listener
	handler  func(models.PushEvent)
}

// Close unregisters the subscription.
func (s *Subscription) Close() {
	s.listener.mu.Lock()
	defer s.listener.mu.Unlock()
	delete(s.listener.subs, s)
}

// NewListener builds a listener over a connected source.
func NewListener(source Source) *Listener {
	return &Listener{
		source: source,
		subs:   make(map[*Subscription]bool),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a handler for every event the listener receives.
func (l *Listener) Subscribe(handler func(models.PushEvent)) *Subscription {
	sub := &Subscription{listener: l, handler: handler}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs[sub] = true
	return sub
}

// Run reads events until the source fails or ctx is cancelled. It is meant to
// be spawned once per listener.
func (l *Listener) Run(ctx context.Context) {
	observability.IncActiveListeners()
	defer observability.DecActiveListeners()
	defer l.shutdown()

	for {
		ev, err := l.source.Next(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("conversync: push subscription closed: %v", err)
			}
			return
		}

		observability.IncPushEvent(ev.Type)
		l.mu.RLock()
		for sub := range l.subs {
			sub.handler(ev)
		}
		l.mu.RUnlock()
	}
}

// Done is closed once the listener has shut down.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) shutdown() {
	l.shutOnce.Do(func() {
		if err := l.source.Close(); err != nil {
			log.Printf("conversync: push source close: %v", err)
		}
		l.mu.Lock()
		l.subs = make(map[*Subscription]bool)
		l.mu.Unlock()
		close(l.done)
	})
}
