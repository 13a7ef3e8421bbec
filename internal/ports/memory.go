package ports

import (
	"context"
	"sync"
	"time"
)

// NopSink discards every notification. Useful as a default when a room has
// no transport attached yet.
type NopSink struct{}

func (NopSink) NotifyRoom(context.Context, string, interface{}) error {
	return nil
}

func (NopSink) NotifyPlayer(context.Context, string, string, interface{}) error {
	return nil
}

// StoredEvent is one journaled entry held by MemoryEventStore.
type StoredEvent struct {
	RoomID    string
	EventType string
	Payload   interface{}
	ActorID   string
	At        time.Time
}

// MemoryEventStore keeps the journal in memory. Used by tests and the
// simulation runner; rooms that want durability use the sqlite store.
type MemoryEventStore struct {
	mu     sync.Mutex
	events []StoredEvent
}

// NewMemoryEventStore returns an empty in-memory journal.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

func (s *MemoryEventStore) StoreEvent(_ context.Context, roomID, eventType string, payload interface{}, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, StoredEvent{
		RoomID:    roomID,
		EventType: eventType,
		Payload:   payload,
		ActorID:   actorID,
		At:        time.Now(),
	})
	return nil
}

// Events returns a copy of everything journaled so far.
func (s *MemoryEventStore) Events() []StoredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredEvent, len(s.events))
	copy(out, s.events)
	return out
}

// EventsForRoom returns the journal filtered to one room.
func (s *MemoryEventStore) EventsForRoom(roomID string) []StoredEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []StoredEvent
	for _, e := range s.events {
		if e.RoomID == roomID {
			out = append(out, e)
		}
	}
	return out
}
