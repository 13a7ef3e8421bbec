package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// EventRow is one journaled engine event.
type EventRow struct {
	Seq       int64
	ID        string
	RoomID    string
	EventType string
	Payload   string // JSON
	ActorID   string
	At        time.Time
}

// Store journals room events in a SQLite database. It satisfies
// ports.EventStore.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS room_events (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			id         TEXT NOT NULL UNIQUE,
			room_id    TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload    TEXT NOT NULL,
			actor_id   TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_room_events_room ON room_events(room_id, seq);
	`)
	return err
}

// StoreEvent appends one event to the journal. The payload is stored as
// JSON; events that cannot marshal are refused.
func (s *Store) StoreEvent(ctx context.Context, roomID, eventType string, payload interface{}, actorID string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO room_events (id, room_id, event_type, payload, actor_id) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(), roomID, eventType, string(data), actorID,
	)
	return err
}

// EventsForRoom returns a room's journal in insertion order.
func (s *Store) EventsForRoom(ctx context.Context, roomID string) ([]EventRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT seq, id, room_id, event_type, payload, actor_id, created_at FROM room_events WHERE room_id = ? ORDER BY seq",
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []EventRow
	for rows.Next() {
		var er EventRow
		if err := rows.Scan(&er.Seq, &er.ID, &er.RoomID, &er.EventType, &er.Payload, &er.ActorID, &er.At); err != nil {
			return nil, err
		}
		result = append(result, er)
	}
	return result, rows.Err()
}

// CountForRoom returns how many events a room has journaled.
func (s *Store) CountForRoom(ctx context.Context, roomID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM room_events WHERE room_id = ?", roomID,
	).Scan(&n)
	return n, err
}

// PruneRoom drops a room's journal, used when a finished room is torn down.
func (s *Store) PruneRoom(ctx context.Context, roomID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM room_events WHERE room_id = ?", roomID)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
