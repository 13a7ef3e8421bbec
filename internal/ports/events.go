package ports

import "context"

// EventStore journals room events for later inspection. Writes are best
// effort: the engine logs and swallows store errors, and game flow never
// depends on a journal read.
type EventStore interface {
	// StoreEvent appends one event to the room's journal.
	// actorID may be empty for engine-originated events.
	StoreEvent(ctx context.Context, roomID, eventType string, payload interface{}, actorID string) error
}
