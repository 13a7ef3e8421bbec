package nakama

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"liaptui/internal/app"
	"liaptui/internal/domain"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type broadcastRecord struct {
	opCode     int64
	data       []byte
	recipients int
}

// mockDispatcher records dispatcher calls. Engine goroutines can deliver
// concurrently with the test, so records are guarded.
type mockDispatcher struct {
	mu         sync.Mutex
	broadcasts []broadcastRecord
	labels     []string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.broadcasts = append(md.broadcasts, broadcastRecord{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: len(presences),
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) last(opCode int64) (broadcastRecord, bool) {
	md.mu.Lock()
	defer md.mu.Unlock()
	for i := len(md.broadcasts) - 1; i >= 0; i-- {
		if md.broadcasts[i].opCode == opCode {
			return md.broadcasts[i], true
		}
	}
	return broadcastRecord{}, false
}

func (md *mockDispatcher) lastLabel() (string, bool) {
	md.mu.Lock()
	defer md.mu.Unlock()
	if len(md.labels) == 0 {
		return "", false
	}
	return md.labels[len(md.labels)-1], true
}

type fakePresence struct {
	id       string
	username string
}

func (p fakePresence) GetUserId() string    { return p.id }
func (p fakePresence) GetSessionId() string { return "session-" + p.id }
func (p fakePresence) GetNodeId() string    { return "node-1" }
func (p fakePresence) GetHidden() bool      { return false }
func (p fakePresence) GetPersistence() bool { return true }
func (p fakePresence) GetUsername() string  { return p.username }
func (p fakePresence) GetStatus() string    { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason {
	return runtime.PresenceReasonJoin
}

type fakeMatchData struct {
	fakePresence
	opCode int64
	data   []byte
}

func (m fakeMatchData) GetOpCode() int64      { return m.opCode }
func (m fakeMatchData) GetData() []byte       { return m.data }
func (m fakeMatchData) GetReliable() bool     { return true }
func (m fakeMatchData) GetReceiveTime() int64 { return 0 }

func newTestMatch(t *testing.T) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	mh := newMatchHandler()
	stateI, _, label := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, nil)
	if stateI == nil {
		t.Fatal("MatchInit returned nil state")
	}
	ms, ok := stateI.(*MatchState)
	if !ok {
		t.Fatalf("MatchInit returned %T, want *MatchState", stateI)
	}
	var initial MatchLabel
	if err := json.Unmarshal([]byte(label), &initial); err != nil {
		t.Fatalf("initial label does not parse: %v", err)
	}
	if initial.Game != LabelGame || initial.Phase != string(app.PhaseWaiting) || initial.Open != domain.NumSeats {
		t.Fatalf("unexpected initial label %+v", initial)
	}
	t.Cleanup(func() { mh.shutdown(ms) })
	return mh, ms, &mockDispatcher{}
}

func join(t *testing.T, mh *matchHandler, ms *MatchState, md *mockDispatcher, users ...fakePresence) {
	t.Helper()
	presences := make([]runtime.Presence, 0, len(users))
	for _, u := range users {
		presences = append(presences, u)
	}
	if out := mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, md, 1, ms, presences); out == nil {
		t.Fatal("MatchJoin returned nil state")
	}
}

func TestActionFromMessage(t *testing.T) {
	tests := []struct {
		name    string
		opCode  int64
		data    string
		wantErr bool
		check   func(t *testing.T, a app.Action)
	}{
		{
			name:   "StartGame",
			opCode: OpStartGame,
			check: func(t *testing.T, a app.Action) {
				if a.Kind != app.ActionStartGame {
					t.Errorf("Kind = %v, want start_game", a.Kind)
				}
			},
		},
		{
			name:   "RedealAccept",
			opCode: OpRedealDecision,
			data:   `{"accept":true}`,
			check: func(t *testing.T, a app.Action) {
				if a.Kind != app.ActionRedealDecision || !a.Accept {
					t.Errorf("got kind=%v accept=%t", a.Kind, a.Accept)
				}
			},
		},
		{
			name:   "Declare",
			opCode: OpDeclare,
			data:   `{"value":3}`,
			check: func(t *testing.T, a app.Action) {
				if a.Kind != app.ActionDeclare || a.Value != 3 {
					t.Errorf("got kind=%v value=%d", a.Kind, a.Value)
				}
			},
		},
		{
			name:   "PlayPieces",
			opCode: OpPlayPieces,
			data:   `{"pieces":[{"kind":"SOLDIER","color":"RED","copy":0}]}`,
			check: func(t *testing.T, a app.Action) {
				if a.Kind != app.ActionPlayPieces || len(a.Pieces) != 1 {
					t.Fatalf("got kind=%v pieces=%d", a.Kind, len(a.Pieces))
				}
				if a.Pieces[0].Kind != domain.Soldier || a.Pieces[0].Color != domain.Red {
					t.Errorf("resolved wrong piece %+v", a.Pieces[0])
				}
			},
		},
		{
			name:    "BadJSON",
			opCode:  OpDeclare,
			data:    `{"value":`,
			wantErr: true,
		},
		{
			name:    "UnknownPiece",
			opCode:  OpPlayPieces,
			data:    `{"pieces":[{"kind":"DRAGON","color":"RED","copy":0}]}`,
			wantErr: true,
		},
		{
			name:    "UnknownOpcode",
			opCode:  999,
			wantErr: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			msg := fakeMatchData{
				fakePresence: fakePresence{id: "user-1", username: "Alice"},
				opCode:       test.opCode,
				data:         []byte(test.data),
			}
			a, err := actionFromMessage(msg)
			if test.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("actionFromMessage: %v", err)
			}
			if a.PlayerID != "user-1" {
				t.Errorf("PlayerID = %q, want user-1", a.PlayerID)
			}
			if a.Source != app.SourceHuman {
				t.Errorf("Source = %v, want human", a.Source)
			}
			test.check(t, a)
		})
	}
}

func TestHumansRemaining(t *testing.T) {
	tests := []struct {
		name    string
		players []domain.PlayerDTO
		want    bool
	}{
		{
			name: "ConnectedHuman",
			players: []domain.PlayerDTO{
				{ID: "bot-1", IsBot: true, Connected: true},
				{ID: "user-1", Connected: true},
			},
			want: true,
		},
		{
			name: "OnlyBots",
			players: []domain.PlayerDTO{
				{ID: "bot-1", IsBot: true, Connected: true},
				{ID: "bot-2", IsBot: true, Connected: true},
			},
			want: false,
		},
		{
			name: "DroppedHuman",
			players: []domain.PlayerDTO{
				{ID: "user-1", Connected: false},
				{ID: "bot-1", IsBot: true, Connected: true},
			},
			want: false,
		},
		{
			name: "EmptyRoom",
			want: false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			snap := app.RoomSnapshot{Players: test.players}
			if got := humansRemaining(snap); got != test.want {
				t.Fatalf("humansRemaining() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchJoinSeatsFirstPlayerAsHost(t *testing.T) {
	mh, ms, md := newTestMatch(t)

	join(t, mh, ms, md, fakePresence{id: "user-1", username: "Alice"})

	snap := ms.Machine.Snapshot()
	if len(snap.Players) != 1 {
		t.Fatalf("seated players = %d, want 1", len(snap.Players))
	}
	pl := snap.Players[0]
	if pl.ID != "user-1" || pl.Name != "Alice" || !pl.IsHost {
		t.Fatalf("unexpected seated player %+v", pl)
	}

	raw, ok := md.lastLabel()
	if !ok {
		t.Fatal("no label update after join")
	}
	var label MatchLabel
	if err := json.Unmarshal([]byte(raw), &label); err != nil {
		t.Fatalf("label does not parse: %v", err)
	}
	if label.Open != domain.NumSeats-1 || label.Phase != string(app.PhaseWaiting) {
		t.Fatalf("unexpected label %+v", label)
	}

	rec, ok := md.last(OpRoomState)
	if !ok {
		t.Fatal("joiner did not receive room state")
	}
	if rec.recipients != 1 {
		t.Fatalf("room state recipients = %d, want 1", rec.recipients)
	}
	var resp RoomStateResponse
	if err := json.Unmarshal(rec.data, &resp); err != nil {
		t.Fatalf("room state does not parse: %v", err)
	}
	allowed := make(map[string]bool)
	for _, a := range resp.Allowed {
		allowed[a] = true
	}
	if !allowed["start_game"] || !allowed["leave"] {
		t.Fatalf("host allowed actions = %v", resp.Allowed)
	}
}

func TestMatchJoinAttemptRejectsFifthPlayer(t *testing.T) {
	mh, ms, md := newTestMatch(t)

	join(t, mh, ms, md,
		fakePresence{id: "user-1", username: "Alice"},
		fakePresence{id: "user-2", username: "Bob"},
		fakePresence{id: "user-3", username: "Cleo"},
		fakePresence{id: "user-4", username: "Dara"},
	)

	_, allowed, reason := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, md, 2, ms, fakePresence{id: "user-5"}, nil)
	if allowed {
		t.Fatal("fifth player admitted to a full room")
	}
	if reason != "room full" {
		t.Fatalf("reason = %q, want room full", reason)
	}

	// A seated player may always come back.
	_, allowed, _ = mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, md, 2, ms, fakePresence{id: "user-2"}, nil)
	if !allowed {
		t.Fatal("seated player refused re-entry")
	}
}

func TestMatchLeaveTerminatesEmptyRoom(t *testing.T) {
	mh, ms, md := newTestMatch(t)
	join(t, mh, ms, md, fakePresence{id: "user-1", username: "Alice"})

	out := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, md, 3, ms, []runtime.Presence{fakePresence{id: "user-1"}})
	if out != nil {
		t.Fatal("expected nil state to terminate the empty room")
	}

	res := ms.Machine.HandleAction(app.Action{Kind: app.ActionJoin, PlayerID: "late", Source: app.SourceHuman})
	if res.Rejection == nil || res.Rejection.Code != app.RejectNotRunning {
		t.Fatalf("engine still accepting actions after termination: %+v", res)
	}
}

func TestMatchLoopRejectionGoesOnlyToSender(t *testing.T) {
	mh, ms, md := newTestMatch(t)
	join(t, mh, ms, md, fakePresence{id: "user-1", username: "Alice"})

	msg := fakeMatchData{
		fakePresence: fakePresence{id: "user-1", username: "Alice"},
		opCode:       OpDeclare,
		data:         []byte(`{"value":2}`),
	}
	if out := mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, md, 4, ms, []runtime.MatchData{msg}); out == nil {
		t.Fatal("MatchLoop returned nil state")
	}

	rec, ok := md.last(OpActionRejected)
	if !ok {
		t.Fatal("no rejection delivered")
	}
	if rec.recipients != 1 {
		t.Fatalf("rejection recipients = %d, want 1", rec.recipients)
	}
	var payload app.ActionRejectedPayload
	if err := json.Unmarshal(rec.data, &payload); err != nil {
		t.Fatalf("rejection does not parse: %v", err)
	}
	if payload.Code != app.RejectWrongPhase {
		t.Fatalf("code = %q, want %q", payload.Code, app.RejectWrongPhase)
	}
}

func TestMatchLoopAnswersStateRequest(t *testing.T) {
	mh, ms, md := newTestMatch(t)
	join(t, mh, ms, md, fakePresence{id: "user-1", username: "Alice"})

	msg := fakeMatchData{
		fakePresence: fakePresence{id: "user-1", username: "Alice"},
		opCode:       OpRequestState,
	}
	mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, md, 5, ms, []runtime.MatchData{msg})

	rec, ok := md.last(OpRoomState)
	if !ok {
		t.Fatal("no room state answer")
	}
	var resp RoomStateResponse
	if err := json.Unmarshal(rec.data, &resp); err != nil {
		t.Fatalf("room state does not parse: %v", err)
	}
	if resp.Snapshot.Phase != string(app.PhaseWaiting) {
		t.Fatalf("snapshot phase = %q, want WAITING", resp.Snapshot.Phase)
	}
	if len(resp.Snapshot.Players) != 1 {
		t.Fatalf("snapshot players = %d, want 1", len(resp.Snapshot.Players))
	}
}
