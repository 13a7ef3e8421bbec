package app

import (
	"testing"
)

func TestDeclarationOrderStartsAtStarter(t *testing.T) {
	m, sink := newTestMachine(t, 7)
	startGame(t, m)

	order := declarationOrder(t, m)
	snap := m.Snapshot()
	if order[0] != snap.StarterID {
		t.Fatalf("first declarer = %s, want starter %s", order[0], snap.StarterID)
	}

	note, ok := sink.last(NoteDeclarationTurn)
	if !ok {
		t.Fatalf("expected declaration_turn note")
	}
	payload := note.payload.(DeclarationTurnPayload)
	if payload.PlayerID != order[0] || payload.Position != 0 || payload.Forbidden != -1 {
		t.Fatalf("declaration_turn payload = %+v", payload)
	}
}

func TestDeclarationValuesAndRunningTotal(t *testing.T) {
	m, sink := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	res := m.HandleAction(Action{Kind: ActionDeclare, PlayerID: order[0], Value: 9, Source: SourceHuman})
	if res.Rejection == nil || res.Rejection.Code != RejectOutOfRange {
		t.Fatalf("rejection = %+v, want %s", res.Rejection, RejectOutOfRange)
	}

	wantTotals := []int{2, 4, 6}
	for i, v := range []int{2, 2, 2} {
		mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[i], Value: v, Source: SourceHuman})
		note, _ := sink.last(NoteDeclarationMade)
		payload := note.payload.(DeclarationMadePayload)
		if payload.PlayerID != order[i] || payload.Value != v || payload.Total != wantTotals[i] {
			t.Fatalf("declaration_made payload = %+v", payload)
		}
	}

	turn, _ := sink.last(NoteDeclarationTurn)
	turnPayload := turn.payload.(DeclarationTurnPayload)
	if turnPayload.PlayerID != order[3] || turnPayload.Forbidden != 2 {
		t.Fatalf("last declaration_turn payload = %+v", turnPayload)
	}

	res = m.HandleAction(Action{Kind: ActionDeclare, PlayerID: order[3], Value: 2, Source: SourceHuman})
	if res.Rejection == nil || res.Rejection.Code != RejectTotalForbidden {
		t.Fatalf("rejection = %+v, want %s", res.Rejection, RejectTotalForbidden)
	}

	mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[3], Value: 3, Source: SourceHuman})
	if got := m.CurrentPhase(); got != PhaseTurn {
		t.Fatalf("phase = %s, want %s", got, PhaseTurn)
	}

	for _, pl := range m.Snapshot().Players {
		want := 2
		if pl.ID == order[3] {
			want = 3
		}
		if pl.Declared != want {
			t.Errorf("declared for %s = %d, want %d", pl.ID, pl.Declared, want)
		}
	}
}

func TestDeclarationEightForbiddenAtZeroTotal(t *testing.T) {
	m, _ := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	for i := 0; i < 3; i++ {
		mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[i], Value: 0, Source: SourceHuman})
	}

	res := m.HandleAction(Action{Kind: ActionDeclare, PlayerID: order[3], Value: 8, Source: SourceHuman})
	if res.Rejection == nil || res.Rejection.Code != RejectTotalForbidden {
		t.Fatalf("rejection = %+v, want %s", res.Rejection, RejectTotalForbidden)
	}

	mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[3], Value: 0, Source: SourceHuman})
	if got := m.CurrentPhase(); got != PhaseTurn {
		t.Fatalf("phase = %s, want %s", got, PhaseTurn)
	}
}

func TestDeclarationZeroStreakTracksZeroDeclares(t *testing.T) {
	m, _ := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[0], Value: 0, Source: SourceHuman})
	mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[1], Value: 2, Source: SourceHuman})

	for _, pl := range m.Snapshot().Players {
		switch pl.ID {
		case order[0]:
			if pl.ZeroStreak != 1 {
				t.Errorf("zero streak for %s = %d, want 1", pl.ID, pl.ZeroStreak)
			}
		case order[1]:
			if pl.ZeroStreak != 0 {
				t.Errorf("zero streak for %s = %d, want 0", pl.ID, pl.ZeroStreak)
			}
		}
	}
}

func TestDeclarationTimeoutTakesLowestLegal(t *testing.T) {
	m, sink := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	mustAccept(t, m, Action{
		Kind:    ActionTimeout,
		Source:  SourceTimer,
		Expired: Slot{Phase: PhaseDeclaration, Round: 1, Turn: 0, PlayerID: order[0]},
	})
	note, _ := sink.last(NoteDeclarationMade)
	payload := note.payload.(DeclarationMadePayload)
	if payload.PlayerID != order[0] || payload.Value != 0 || !payload.Forced {
		t.Fatalf("declaration_made payload = %+v, want forced 0", payload)
	}
}

func TestDeclarationTimeoutAvoidsForbiddenZero(t *testing.T) {
	m, sink := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	for i, v := range []int{3, 3, 2} {
		mustAccept(t, m, Action{Kind: ActionDeclare, PlayerID: order[i], Value: v, Source: SourceHuman})
	}

	// Total sits at 8, so zero is the forbidden value for the last seat.
	mustAccept(t, m, Action{
		Kind:    ActionTimeout,
		Source:  SourceTimer,
		Expired: Slot{Phase: PhaseDeclaration, Round: 1, Turn: 3, PlayerID: order[3]},
	})
	note, _ := sink.last(NoteDeclarationMade)
	payload := note.payload.(DeclarationMadePayload)
	if payload.PlayerID != order[3] || payload.Value != 1 || !payload.Forced {
		t.Fatalf("declaration_made payload = %+v, want forced 1", payload)
	}
	if got := m.CurrentPhase(); got != PhaseTurn {
		t.Fatalf("phase = %s, want %s", got, PhaseTurn)
	}
}

func TestDeclarationStaleTimeoutRejected(t *testing.T) {
	m, _ := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	res := m.HandleAction(Action{
		Kind:    ActionTimeout,
		Source:  SourceTimer,
		Expired: Slot{Phase: PhaseDeclaration, Round: 1, Turn: 2, PlayerID: order[2]},
	})
	if res.Rejection == nil || res.Rejection.Code != RejectStaleTimeout {
		t.Fatalf("rejection = %+v, want %s", res.Rejection, RejectStaleTimeout)
	}
}

func TestDeclarationLeaveCollapsesWindow(t *testing.T) {
	m, sink := newTestMachine(t, 7)
	startGame(t, m)
	order := declarationOrder(t, m)

	mustAccept(t, m, Action{Kind: ActionLeave, PlayerID: order[0], Source: SourceHuman})

	// The leaver's window collapses to a grace timer that force-declares.
	deadline := timeoutWait(t, func() bool {
		note, ok := sink.last(NoteDeclarationMade)
		if !ok {
			return false
		}
		p := note.payload.(DeclarationMadePayload)
		return p.PlayerID == order[0] && p.Forced
	})
	if !deadline {
		t.Fatalf("leaver's declaration never forced")
	}
}
