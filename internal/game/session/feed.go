package session

import (
	"sync"

	"github.com/google/uuid"
)

// Feed fans pre-encoded event payloads out to the subscribers of each
// session. Slow subscribers whose buffers fill are evicted rather than
// allowed to stall the table. Safe for concurrent use.
type Feed struct {
	mu         sync.RWMutex
	bufferSize int
	subs       map[string]map[*Subscriber]struct{} // session ID → subscriber set
}

// NewFeed creates an empty Feed whose subscribers buffer bufferSize
// events; non-positive selects the Subscriber default.
func NewFeed(bufferSize int) *Feed {
	return &Feed{
		bufferSize: bufferSize,
		subs:       make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber for the session's events.
//
// Postcondition: Returns an open Subscriber the caller must eventually
// pass to Unsubscribe.
func (f *Feed) Subscribe(sessionID string) *Subscriber {
	sub := NewSubscriber(uuid.New().String(), f.bufferSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[sessionID] == nil {
		f.subs[sessionID] = make(map[*Subscriber]struct{})
	}
	f.subs[sessionID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes and closes sub. Unknown subscribers are ignored.
func (f *Feed) Unsubscribe(sessionID string, sub *Subscriber) {
	f.mu.Lock()
	if set, ok := f.subs[sessionID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(f.subs, sessionID)
		}
	}
	f.mu.Unlock()

	_ = sub.Close()
}

// Publish delivers payload to every subscriber of the session, evicting
// any whose buffer is full or that has been closed.
//
// Postcondition: Returns the number of subscribers that received the
// payload.
func (f *Feed) Publish(sessionID string, payload []byte) int {
	f.mu.RLock()
	set := f.subs[sessionID]
	targets := make([]*Subscriber, 0, len(set))
	for sub := range set {
		targets = append(targets, sub)
	}
	f.mu.RUnlock()

	delivered := 0
	for _, sub := range targets {
		if err := sub.Push(payload); err != nil {
			f.Unsubscribe(sessionID, sub)
			continue
		}
		delivered++
	}
	return delivered
}

// DropSession closes and removes every subscriber of the session.
func (f *Feed) DropSession(sessionID string) {
	f.mu.Lock()
	set := f.subs[sessionID]
	delete(f.subs, sessionID)
	f.mu.Unlock()

	for sub := range set {
		_ = sub.Close()
	}
}

// Subscribers returns how many subscribers the session currently has.
func (f *Feed) Subscribers(sessionID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[sessionID])
}
