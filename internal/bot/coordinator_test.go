package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"liaptui/internal/app"
	"liaptui/internal/domain"
)

// fakeMachine records submitted actions and serves canned hands and
// snapshots.
type fakeMachine struct {
	mu      sync.Mutex
	feed    chan app.Notification
	actions []app.Action
	hands   map[string][]domain.Piece
	snap    app.RoomSnapshot
}

func newFakeMachine() *fakeMachine {
	return &fakeMachine{
		feed:  make(chan app.Notification, 64),
		hands: make(map[string][]domain.Piece),
	}
}

func (f *fakeMachine) HandleAction(a app.Action) app.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, a)
	return app.Result{Accepted: true}
}

func (f *fakeMachine) Snapshot() app.RoomSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeMachine) PlayerHand(id string) ([]domain.Piece, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hand, ok := f.hands[id]
	return hand, ok
}

func (f *fakeMachine) BotFeed() <-chan app.Notification { return f.feed }

func (f *fakeMachine) taken() []app.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]app.Action(nil), f.actions...)
}

func newTestCoordinator(fake *fakeMachine) *Coordinator {
	return NewCoordinator(zerolog.Nop(), fake, CoordinatorOptions{
		MinThinkDelay: time.Millisecond,
		MaxThinkDelay: 2 * time.Millisecond,
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestCoordinatorSchedulesDeclarationOnce(t *testing.T) {
	fake := newFakeMachine()
	fake.hands["b1"] = strongHand()
	coord := newTestCoordinator(fake)
	coord.Register(NewAgent("b1", "Bot", &scriptedStrategy{declare: 3}))
	coord.Start()

	note := app.Notification{Kind: app.NoteDeclarationTurn, Payload: app.DeclarationTurnPayload{
		PlayerID: "b1", Position: 0, Total: 0, Forbidden: -1,
	}}
	fake.feed <- note
	fake.feed <- note

	waitFor(t, "declaration", func() bool { return len(fake.taken()) >= 1 })
	time.Sleep(20 * time.Millisecond)

	actions := fake.taken()
	if len(actions) != 1 {
		t.Fatalf("duplicate window produced %d actions, want 1", len(actions))
	}
	a := actions[0]
	if a.Kind != app.ActionDeclare || a.PlayerID != "b1" || a.Value != 3 || a.Source != app.SourceBot {
		t.Fatalf("declared action = %+v", a)
	}

	close(fake.feed)
	coord.Wait()
}

func TestCoordinatorDropsPendingOnPhaseChange(t *testing.T) {
	fake := newFakeMachine()
	fake.hands["b1"] = strongHand()
	coord := NewCoordinator(zerolog.Nop(), fake, CoordinatorOptions{
		MinThinkDelay: 150 * time.Millisecond,
		MaxThinkDelay: 150 * time.Millisecond,
	})
	coord.Register(NewAgent("b1", "Bot", &scriptedStrategy{declare: 3}))
	coord.Start()

	fake.feed <- app.Notification{Kind: app.NoteDeclarationTurn, Payload: app.DeclarationTurnPayload{
		PlayerID: "b1", Forbidden: -1,
	}}
	fake.feed <- app.Notification{Kind: app.NotePhaseChanged, Payload: app.PhaseChangedPayload{
		Phase: string(app.PhaseTurn), Reason: "declarations_complete", Round: 1,
	}}

	time.Sleep(300 * time.Millisecond)
	if actions := fake.taken(); len(actions) != 0 {
		t.Fatalf("stale decision still fired: %+v", actions)
	}

	close(fake.feed)
	coord.Wait()
}

// observingStrategy records everything Observe hands it.
type observingStrategy struct {
	scriptedStrategy
	mu     sync.Mutex
	events []interface{}
}

func (s *observingStrategy) Observe(e interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *observingStrategy) seen() []interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]interface{}(nil), s.events...)
}

func TestCoordinatorRoutesPrivateNotesToOwner(t *testing.T) {
	fake := newFakeMachine()
	coord := newTestCoordinator(fake)
	s1 := &observingStrategy{}
	s2 := &observingStrategy{}
	coord.Register(NewAgent("b1", "Bot One", s1))
	coord.Register(NewAgent("b2", "Bot Two", s2))
	coord.Start()

	fake.feed <- app.Notification{
		Kind:       app.NoteHandDealt,
		Payload:    app.HandDealtPayload{PlayerID: "b1", Round: 1},
		Recipients: []string{"b1"},
	}
	fake.feed <- app.Notification{Kind: app.NoteRoundScored, Payload: app.RoundScoredPayload{Round: 1}}

	waitFor(t, "broadcast fanout", func() bool { return len(s2.seen()) >= 1 })

	if events := s2.seen(); len(events) != 1 {
		t.Fatalf("b2 saw %d events, want only the broadcast", len(events))
	} else if _, ok := events[0].(app.RoundScoredPayload); !ok {
		t.Fatalf("b2 saw %T, want RoundScoredPayload", events[0])
	}
	events := s1.seen()
	if len(events) != 2 {
		t.Fatalf("b1 saw %d events, want its hand plus the broadcast", len(events))
	}
	if _, ok := events[0].(app.HandDealtPayload); !ok {
		t.Fatalf("b1 first event = %T, want HandDealtPayload", events[0])
	}

	close(fake.feed)
	coord.Wait()
}

func TestCoordinatorFollowsWithTrackedToBeat(t *testing.T) {
	fake := newFakeMachine()
	fake.hands["b1"] = []domain.Piece{
		pc(domain.Advisor, domain.Red, 0),
		pc(domain.Advisor, domain.Red, 1),
		pc(domain.Soldier, domain.Black, 0),
		pc(domain.Soldier, domain.Black, 1),
	}
	fake.snap = app.RoomSnapshot{Players: []domain.PlayerDTO{{ID: "b1", Declared: 1, Captured: 0}}}
	coord := newTestCoordinator(fake)
	coord.Register(NewAgent("b1", "Bot", &StandardStrategy{}))
	coord.Start()

	fake.feed <- app.Notification{Kind: app.NoteTrickStarted, Payload: app.TrickStartedPayload{
		Round: 1, Trick: 1, Starter: "h1",
	}}
	fake.feed <- app.Notification{Kind: app.NotePlayMade, Payload: app.PlayMadePayload{
		PlayerID: "h1",
		Play:     playDTO(pc(domain.Elephant, domain.Black, 0), pc(domain.Elephant, domain.Black, 1)),
		Valid:    true,
		Required: 2,
		Next:     "b1",
	}}

	waitFor(t, "follow play", func() bool { return len(fake.taken()) >= 1 })

	a := fake.taken()[0]
	if a.Kind != app.ActionPlayPieces || a.PlayerID != "b1" {
		t.Fatalf("follow action = %+v", a)
	}
	wantPair := []domain.Piece{pc(domain.Advisor, domain.Red, 0), pc(domain.Advisor, domain.Red, 1)}
	if len(a.Pieces) != 2 || !domain.HoldsAll(wantPair, a.Pieces) {
		t.Fatalf("follow pieces = %v, want the advisor pair beating the elephants", a.Pieces)
	}

	close(fake.feed)
	coord.Wait()
}

func TestCoordinatorRecoversOnceFromRejection(t *testing.T) {
	fake := newFakeMachine()
	fake.hands["b1"] = strongHand()
	coord := newTestCoordinator(fake)
	coord.Register(NewAgent("b1", "Bot", &scriptedStrategy{declare: 3}))
	coord.Start()

	fake.feed <- app.Notification{Kind: app.NoteDeclarationTurn, Payload: app.DeclarationTurnPayload{
		PlayerID: "b1", Forbidden: -1,
	}}
	waitFor(t, "first declaration", func() bool { return len(fake.taken()) >= 1 })

	rejection := app.Notification{
		Kind:       app.NoteActionRejected,
		Payload:    app.ActionRejectedPayload{Action: "declare", Code: app.RejectOutOfRange, Seq: 2},
		Recipients: []string{"b1"},
	}
	fake.feed <- rejection
	waitFor(t, "fallback declaration", func() bool { return len(fake.taken()) >= 2 })

	// A second identical rejection must not produce a third attempt.
	fake.feed <- rejection
	time.Sleep(30 * time.Millisecond)

	actions := fake.taken()
	if len(actions) != 2 {
		t.Fatalf("rejection loop produced %d actions, want 2", len(actions))
	}
	if actions[1].Kind != app.ActionDeclare || actions[1].Value != 0 {
		t.Fatalf("fallback action = %+v, want the lowest legal declaration", actions[1])
	}

	close(fake.feed)
	coord.Wait()
}
