package output

import "sync"

// Subscriber consumes output events. Subscribers cannot propagate errors;
// rendering failures are dropped.
type Subscriber interface {
	// Name identifies the subscriber.
	Name() string

	// ShouldHandle decides whether this subscriber cares about the event.
	ShouldHandle(event Event) bool

	// Handle renders the event.
	Handle(event Event)
}

// EventStream fans output events out to its subscribers.
type EventStream struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewEventStream creates an empty event stream.
func NewEventStream() *EventStream {
	return &EventStream{}
}

// Subscribe registers a subscriber for all future events.
func (s *EventStream) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// SubscriberCount returns the number of registered subscribers.
func (s *EventStream) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// Emit delivers an event to every subscriber that wants it, in subscription
// order.
func (s *EventStream) Emit(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subscribers {
		if sub.ShouldHandle(event) {
			sub.Handle(event)
		}
	}
}
