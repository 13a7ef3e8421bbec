package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// dispatcherSink carries engine notifications onto the Nakama dispatcher.
// The dispatcher itself only arrives with the first match callback, so it is
// bound late; until then delivery is a silent no-op. Engine timer and bot
// goroutines call the sink concurrently with the match loop, hence the lock.
// Nakama's dispatcher is safe for concurrent use.
type dispatcherSink struct {
	mu         sync.Mutex
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
}

func newDispatcherSink() *dispatcherSink {
	return &dispatcherSink{presences: make(map[string]runtime.Presence)}
}

// Bind attaches the dispatcher. Idempotent; every match callback rebinds.
func (s *dispatcherSink) Bind(d runtime.MatchDispatcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher = d
}

func (s *dispatcherSink) Track(p runtime.Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presences[p.GetUserId()] = p
}

func (s *dispatcherSink) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presences, userID)
}

func (s *dispatcherSink) Presence(userID string) (runtime.Presence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.presences[userID]
	return p, ok
}

// NotifyRoom broadcasts one engine notification to every connected client.
func (s *dispatcherSink) NotifyRoom(ctx context.Context, kind string, payload interface{}) error {
	op, ok := opcodeForNote(kind)
	if !ok {
		return fmt.Errorf("no opcode for notification %q", kind)
	}
	s.mu.Lock()
	d := s.dispatcher
	s.mu.Unlock()
	if d == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	return d.BroadcastMessage(op, data, nil, nil, true)
}

// NotifyPlayer sends one engine notification to a single client. Recipients
// without a presence (bots, dropped players) are skipped: a private payload
// must never widen to the room.
func (s *dispatcherSink) NotifyPlayer(ctx context.Context, playerID string, kind string, payload interface{}) error {
	op, ok := opcodeForNote(kind)
	if !ok {
		return fmt.Errorf("no opcode for notification %q", kind)
	}
	s.mu.Lock()
	d := s.dispatcher
	presence, seen := s.presences[playerID]
	s.mu.Unlock()
	if d == nil || !seen {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	return d.BroadcastMessage(op, data, []runtime.Presence{presence}, nil, true)
}
