package app

const taskDeclareTimeout = "declare_timeout"

// declarationPhase collects pile declarations in seat order from the round
// starter. The last declarer may not bring the total to exactly eight, so
// someone always misses. Timed-out players take the lowest legal value.
type declarationPhase struct {
	m *GameMachine

	order []string
	idx   int
	total int
}

func newDeclarationPhase(m *GameMachine) *declarationPhase {
	return &declarationPhase{m: m}
}

func (p *declarationPhase) Name() PhaseName { return PhaseDeclaration }

func (p *declarationPhase) OnEnter() []Notification {
	g := p.m.game
	p.order = g.SeatOrderFrom(g.StarterID)
	p.idx = 0
	p.total = 0
	return p.announce()
}

func (p *declarationPhase) OnExit() {}

func (p *declarationPhase) current() string {
	if p.idx >= len(p.order) {
		return ""
	}
	return p.order[p.idx]
}

func (p *declarationPhase) isLast() bool {
	return p.idx == len(p.order)-1
}

// forbidden returns the declaration value the current player may not pick,
// or -1 when unconstrained.
func (p *declarationPhase) forbidden() int {
	if !p.isLast() {
		return -1
	}
	f := 8 - p.total
	if f < 0 || f > 8 {
		return -1
	}
	return f
}

// lowestLegal is the timeout fallback value.
func (p *declarationPhase) lowestLegal() int {
	if p.forbidden() == 0 {
		return 1
	}
	return 0
}

func (p *declarationPhase) slot() Slot {
	return Slot{Phase: PhaseDeclaration, Round: p.m.game.Round, Turn: p.idx, PlayerID: p.current()}
}

func (p *declarationPhase) slotCurrent(s Slot) bool {
	return s.Phase == PhaseDeclaration && s.Round == p.m.game.Round &&
		s.Turn == p.idx && s.PlayerID == p.current()
}

// announce opens the current player's declaration window.
func (p *declarationPhase) announce() []Notification {
	id := p.current()
	if id == "" {
		return nil
	}
	d := p.m.opt.DeclareTimeout
	if !p.m.connected(id) {
		d = disconnectedGrace
	}
	p.m.scheduleTimeout(taskDeclareTimeout, d, p.slot())
	return []Notification{{
		Kind: NoteDeclarationTurn,
		Payload: DeclarationTurnPayload{
			PlayerID:  id,
			Position:  p.idx,
			Total:     p.total,
			Forbidden: p.forbidden(),
		},
	}}
}

func (p *declarationPhase) ValidateAction(a Action) *Rejection {
	switch a.Kind {
	case ActionDeclare:
		if a.PlayerID != p.current() {
			return reject(RejectNotYourTurn, "it is not player %s's turn to declare", a.PlayerID)
		}
		if a.Value < 0 || a.Value > 8 {
			return reject(RejectOutOfRange, "declaration %d outside 0..8", a.Value)
		}
		if f := p.forbidden(); f >= 0 && a.Value == f {
			return reject(RejectTotalForbidden, "declaration %d would make the total exactly 8", a.Value)
		}
		return nil
	case ActionTimeout:
		if !p.slotCurrent(a.Expired) {
			return reject(RejectStaleTimeout, "timer fired for an expired slot")
		}
		return nil
	case ActionLeave:
		if _, seated := p.m.game.Players[a.PlayerID]; !seated {
			return reject(RejectNotSeated, "player %s holds no seat", a.PlayerID)
		}
		return nil
	default:
		return rejectWrongPhase(a, PhaseDeclaration)
	}
}

func (p *declarationPhase) ExecuteAction(a Action) ([]Notification, error) {
	switch a.Kind {
	case ActionDeclare:
		return p.apply(a.Value, false), nil
	case ActionTimeout:
		return p.apply(p.lowestLegal(), true), nil
	case ActionLeave:
		notes := p.m.markDisconnected(a.PlayerID)
		if a.PlayerID == p.current() {
			// Collapse the leaver's window instead of waiting it out.
			p.m.scheduleTimeout(taskDeclareTimeout, disconnectedGrace, p.slot())
		}
		return notes, nil
	default:
		return nil, nil
	}
}

// apply records the current player's declaration and advances the order.
func (p *declarationPhase) apply(value int, forced bool) []Notification {
	g := p.m.game
	id := p.current()
	pl := g.Players[id]
	pl.Declared = value
	if value == 0 {
		pl.ZeroStreak++
	} else {
		pl.ZeroStreak = 0
	}
	p.total += value

	notes := []Notification{{
		Kind: NoteDeclarationMade,
		Payload: DeclarationMadePayload{
			PlayerID: id,
			Value:    value,
			Total:    p.total,
			Forced:   forced,
		},
	}}
	p.idx++
	if p.idx < len(p.order) {
		notes = append(notes, p.announce()...)
	} else {
		p.m.tasks.Cancel(taskDeclareTimeout)
	}
	return notes
}

func (p *declarationPhase) CheckTransition() *TransitionRequest {
	if p.idx >= len(p.order) {
		return &TransitionRequest{Target: PhaseTurn, Reason: "declarations_complete"}
	}
	return nil
}

func (p *declarationPhase) Data() map[string]interface{} {
	declared := make(map[string]int)
	for i := 0; i < p.idx && i < len(p.order); i++ {
		id := p.order[i]
		declared[id] = p.m.game.Players[id].Declared
	}
	return map[string]interface{}{
		"order":     append([]string(nil), p.order...),
		"position":  p.idx,
		"total":     p.total,
		"current":   p.current(),
		"declared":  declared,
		"forbidden": p.forbidden(),
	}
}

func (p *declarationPhase) AllowedActions(playerID string) []ActionKind {
	var kinds []ActionKind
	if playerID == p.current() {
		kinds = append(kinds, ActionDeclare)
	}
	if _, seated := p.m.game.Players[playerID]; seated {
		kinds = append(kinds, ActionLeave)
	}
	return kinds
}
