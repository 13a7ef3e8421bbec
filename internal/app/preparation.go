package app

import (
	"time"

	"liaptui/internal/domain"
)

const (
	taskRedealTimeout = "redeal_timeout"
	taskRedealWarning = "redeal_warning"
)

// preparationPhase deals hands and runs the weak-hand redeal window. A
// round may go through several redeal waves; each accepted redeal bumps the
// score multiplier and deals fresh hands. The wave count caps the cascade,
// after which hands stand as dealt.
type preparationPhase struct {
	m *GameMachine

	wave         int
	weak         []string
	decisions    map[string]bool
	lastAccepter string
	starter      string
	ready        bool
}

func newPreparationPhase(m *GameMachine) *preparationPhase {
	return &preparationPhase{m: m}
}

func (p *preparationPhase) Name() PhaseName { return PhasePreparation }

func (p *preparationPhase) OnEnter() []Notification {
	g := p.m.game
	g.Round++
	g.RedealMultiplier = 1
	g.ResetRound()
	p.wave = 0
	p.weak = nil
	p.decisions = nil
	p.lastAccepter = ""
	p.starter = ""
	p.ready = false
	return p.deal()
}

func (p *preparationPhase) OnExit() {}

// deal hands out a fresh shuffle and opens the redeal window when weak
// hands exist and the cascade cap has not been reached.
func (p *preparationPhase) deal() []Notification {
	g := p.m.game
	hands := domain.Deal(p.m.rng)

	var notes []Notification
	p.weak = nil
	p.decisions = make(map[string]bool)
	for seat := 0; seat < domain.NumSeats; seat++ {
		id := g.Seats[seat]
		pl := g.Players[id]
		if pl == nil {
			continue
		}
		pl.Hand = hands[seat]
		weak := domain.IsWeak(pl.Hand)
		if weak {
			p.weak = append(p.weak, id)
		}
		notes = append(notes, Notification{
			Kind: NoteHandDealt,
			Payload: HandDealtPayload{
				PlayerID: id,
				Round:    g.Round,
				Hand:     domain.PiecesToDTO(pl.Hand),
				Weak:     weak,
			},
			Recipients: []string{id},
		})
	}

	if len(p.weak) == 0 || p.wave >= p.m.opt.MaxRedeals {
		p.finish()
		return notes
	}

	notes = append(notes, Notification{
		Kind: NoteWeakHands,
		Payload: WeakHandsPayload{
			Round:          g.Round,
			PlayerIDs:      append([]string(nil), p.weak...),
			TimeoutSeconds: int(p.m.opt.RedealTimeout / time.Second),
			Redeals:        p.wave,
		},
	})

	slot := p.slot()
	p.m.scheduleWarning(taskRedealWarning, p.m.opt.RedealWarning, slot)
	p.m.scheduleTimeout(taskRedealTimeout, p.m.opt.RedealTimeout, slot)

	// Disconnected weak players decline immediately instead of holding
	// the table for the full window.
	for _, id := range p.weak {
		if !p.m.connected(id) {
			notes = append(notes, p.forceDecline(id)...)
		}
	}
	if p.allDecided() {
		notes = append(notes, p.resolveWave()...)
	}
	return notes
}

func (p *preparationPhase) slot() Slot {
	return Slot{Phase: PhasePreparation, Round: p.m.game.Round, Redeals: p.wave}
}

func (p *preparationPhase) slotCurrent(s Slot) bool {
	return s.Phase == PhasePreparation && s.Round == p.m.game.Round && s.Redeals == p.wave
}

func (p *preparationPhase) pendingIDs() []string {
	var out []string
	for _, id := range p.weak {
		if _, done := p.decisions[id]; !done {
			out = append(out, id)
		}
	}
	return out
}

func (p *preparationPhase) allDecided() bool {
	return len(p.weak) > 0 && len(p.decisions) == len(p.weak)
}

func (p *preparationPhase) isPendingWeak(id string) bool {
	for _, w := range p.weak {
		if w == id {
			_, done := p.decisions[id]
			return !done
		}
	}
	return false
}

func (p *preparationPhase) ValidateAction(a Action) *Rejection {
	switch a.Kind {
	case ActionRedealDecision:
		if p.ready {
			return rejectWrongPhase(a, PhasePreparation)
		}
		for _, w := range p.weak {
			if w == a.PlayerID {
				if _, done := p.decisions[a.PlayerID]; done {
					return reject(RejectAlreadyDecided, "player %s already answered the redeal offer", a.PlayerID)
				}
				return nil
			}
		}
		return reject(RejectNotWeak, "player %s has no redeal offer pending", a.PlayerID)
	case ActionTimeout, ActionRedealWarning:
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
		return rejectWrongPhase(a, PhasePreparation)
	}
}

func (p *preparationPhase) ExecuteAction(a Action) ([]Notification, error) {
	switch a.Kind {
	case ActionRedealDecision:
		p.decisions[a.PlayerID] = a.Accept
		notes := []Notification{{
			Kind:    NoteRedealDecision,
			Payload: RedealDecisionPayload{PlayerID: a.PlayerID, Accepted: a.Accept},
		}}
		if p.allDecided() {
			notes = append(notes, p.resolveWave()...)
		}
		return notes, nil
	case ActionTimeout:
		var notes []Notification
		for _, id := range p.pendingIDs() {
			notes = append(notes, p.forceDecline(id)...)
		}
		notes = append(notes, p.resolveWave()...)
		return notes, nil
	case ActionRedealWarning:
		left := int((p.m.opt.RedealTimeout - p.m.opt.RedealWarning) / time.Second)
		return []Notification{{
			Kind: NoteRedealWarning,
			Payload: RedealWarningPayload{
				Round:       p.m.game.Round,
				Pending:     p.pendingIDs(),
				SecondsLeft: left,
			},
		}}, nil
	case ActionLeave:
		notes := p.m.markDisconnected(a.PlayerID)
		if p.isPendingWeak(a.PlayerID) {
			notes = append(notes, p.forceDecline(a.PlayerID)...)
			if p.allDecided() {
				notes = append(notes, p.resolveWave()...)
			}
		}
		return notes, nil
	default:
		return nil, nil
	}
}

func (p *preparationPhase) forceDecline(id string) []Notification {
	if _, done := p.decisions[id]; done {
		return nil
	}
	p.decisions[id] = false
	return []Notification{{
		Kind:    NoteRedealDecision,
		Payload: RedealDecisionPayload{PlayerID: id, Accepted: false, Forced: true},
	}}
}

// resolveWave closes the current decision window. The accepter closest to
// the round starter in seat order wins the redeal; no accepters means the
// hands stand.
func (p *preparationPhase) resolveWave() []Notification {
	g := p.m.game
	p.m.tasks.Cancel(taskRedealTimeout)
	p.m.tasks.Cancel(taskRedealWarning)

	accepter := ""
	for _, id := range g.SeatOrderFrom(g.RoundStarter()) {
		if p.decisions[id] {
			accepter = id
			break
		}
	}
	if accepter == "" {
		p.finish()
		return nil
	}

	p.wave++
	g.RedealMultiplier++
	p.lastAccepter = accepter
	notes := []Notification{{
		Kind: NoteRedealExecuted,
		Payload: RedealExecutedPayload{
			AccepterID: accepter,
			Multiplier: g.RedealMultiplier,
			Redeals:    p.wave,
		},
	}}
	return append(notes, p.deal()...)
}

// finish pins the round starter and releases the phase. A redeal accepter
// takes starter priority over the usual order.
func (p *preparationPhase) finish() {
	g := p.m.game
	if p.lastAccepter != "" {
		p.starter = p.lastAccepter
	} else {
		p.starter = g.RoundStarter()
	}
	g.StarterID = p.starter
	p.ready = true
}

func (p *preparationPhase) CheckTransition() *TransitionRequest {
	if p.ready {
		return &TransitionRequest{Target: PhaseDeclaration, Reason: "hands_settled"}
	}
	return nil
}

func (p *preparationPhase) Data() map[string]interface{} {
	return map[string]interface{}{
		"round":      p.m.game.Round,
		"wave":       p.wave,
		"weak":       append([]string(nil), p.weak...),
		"pending":    p.pendingIDs(),
		"multiplier": p.m.game.RedealMultiplier,
		"starter_id": p.starter,
		"ready":      p.ready,
	}
}

func (p *preparationPhase) AllowedActions(playerID string) []ActionKind {
	var kinds []ActionKind
	if p.isPendingWeak(playerID) {
		kinds = append(kinds, ActionRedealDecision)
	}
	if _, seated := p.m.game.Players[playerID]; seated {
		kinds = append(kinds, ActionLeave)
	}
	return kinds
}
