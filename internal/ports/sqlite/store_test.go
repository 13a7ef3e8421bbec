package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStoreEventJournalsInOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	events := []struct {
		room  string
		kind  string
		actor string
	}{
		{"room-1", "phase_changed", ""},
		{"room-1", "action_declare", "p2"},
		{"room-2", "phase_changed", ""},
		{"room-1", "action_play_pieces", "p3"},
	}
	for i, e := range events {
		payload := map[string]interface{}{"seq": i}
		if err := store.StoreEvent(ctx, e.room, e.kind, payload, e.actor); err != nil {
			t.Fatalf("store event %d: %v", i, err)
		}
	}

	rows, err := store.EventsForRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("room-1 journal = %d rows, want 3", len(rows))
	}
	wantKinds := []string{"phase_changed", "action_declare", "action_play_pieces"}
	for i, row := range rows {
		if row.EventType != wantKinds[i] {
			t.Errorf("row %d type = %s, want %s", i, row.EventType, wantKinds[i])
		}
		if row.ID == "" {
			t.Errorf("row %d has no event id", i)
		}
	}
	if rows[1].ActorID != "p2" {
		t.Errorf("actor = %q, want p2", rows[1].ActorID)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(rows[2].Payload), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["seq"].(float64) != 3 {
		t.Errorf("payload = %v, want seq 3", decoded)
	}

	n, err := store.CountForRoom(ctx, "room-2")
	if err != nil || n != 1 {
		t.Fatalf("room-2 count = %d (%v), want 1", n, err)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	if err := store.StoreEvent(ctx, "room-1", "game_over", map[string]string{"winner": "p1"}, ""); err != nil {
		t.Fatalf("store event: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	rows, err := reopened.EventsForRoom(ctx, "room-1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("journal after reopen = %d rows (%v), want 1", len(rows), err)
	}
	if rows[0].EventType != "game_over" {
		t.Fatalf("event type = %s, want game_over", rows[0].EventType)
	}
}

func TestPruneRoomDropsOnlyThatRoom(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.StoreEvent(ctx, "room-1", "phase_changed", nil, "")
	store.StoreEvent(ctx, "room-2", "phase_changed", nil, "")

	if err := store.PruneRoom(ctx, "room-1"); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n, _ := store.CountForRoom(ctx, "room-1"); n != 0 {
		t.Fatalf("room-1 count after prune = %d", n)
	}
	if n, _ := store.CountForRoom(ctx, "room-2"); n != 1 {
		t.Fatalf("room-2 count after prune = %d", n)
	}
}
