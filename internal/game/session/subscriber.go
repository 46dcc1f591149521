package session

import (
	"fmt"
	"sync"
)

// Subscriber routes push calls to a Go channel, bridging the session feed
// to the websocket writer goroutine. Pushes never block: a full buffer is
// an error the feed uses to evict slow consumers.
type Subscriber struct {
	id     string
	events chan []byte
	mu     sync.Mutex
	closed bool
}

// NewSubscriber creates a Subscriber identified by id.
//
// Precondition: id must be non-empty.
// Postcondition: Returns a Subscriber with an open events channel.
func NewSubscriber(id string, bufferSize int) *Subscriber {
	if bufferSize <= 0 {
		bufferSize = 32
	}
	return &Subscriber{
		id:     id,
		events: make(chan []byte, bufferSize),
	}
}

// ID returns the subscriber's identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Push enqueues payload for delivery.
//
// Postcondition: payload is enqueued, or an error if the subscriber is
// closed or its buffer is full.
func (s *Subscriber) Push(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("subscriber %s is closed", s.id)
	}
	select {
	case s.events <- payload:
		return nil
	default:
		return fmt.Errorf("subscriber %s event buffer full", s.id)
	}
}

// Events returns the read-only events channel. The websocket writer
// goroutine drains it until it is closed.
func (s *Subscriber) Events() <-chan []byte {
	return s.events
}

// Close marks the subscriber as closed and closes the events channel.
// Closing twice is safe.
//
// Postcondition: further Push calls return an error.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

// IsClosed reports whether the subscriber has been closed.
func (s *Subscriber) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
