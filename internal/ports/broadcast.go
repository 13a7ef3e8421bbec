package ports

import "context"

// BroadcastSink delivers engine notifications to connected clients.
// Payloads are closed serializable DTO values; implementations must not
// reach back into engine state. Delivery is best effort: the engine logs
// and swallows sink errors.
type BroadcastSink interface {
	// NotifyRoom sends a payload to every client in the room.
	NotifyRoom(ctx context.Context, kind string, payload interface{}) error
	// NotifyPlayer sends a payload to a single client.
	NotifyPlayer(ctx context.Context, playerID string, kind string, payload interface{}) error
}
