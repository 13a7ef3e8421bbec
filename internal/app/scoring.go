package app

import (
	"liaptui/internal/domain"
)

// scoringPhase settles the finished round and decides whether the game
// continues. Scores accumulate across rounds; the game ends when the top
// score reaches the win threshold, with ties producing multiple winners.
type scoringPhase struct {
	m *GameMachine

	next   PhaseName
	scored bool
}

func newScoringPhase(m *GameMachine) *scoringPhase {
	return &scoringPhase{m: m}
}

func (p *scoringPhase) Name() PhaseName { return PhaseScoring }

func (p *scoringPhase) OnEnter() []Notification {
	g := p.m.game
	lines := make([]ScoreLine, 0, domain.NumSeats)
	for seat := 0; seat < domain.NumSeats; seat++ {
		pl := g.PlayerAtSeat(seat)
		if pl == nil {
			continue
		}
		base := domain.ScoreRound(pl.Declared, pl.Captured)
		delta := domain.RoundDelta(pl.Declared, pl.Captured, g.RedealMultiplier)
		pl.Score += delta
		lines = append(lines, ScoreLine{
			PlayerID: pl.ID,
			Declared: pl.Declared,
			Captured: pl.Captured,
			Base:     base,
			Delta:    delta,
			Total:    pl.Score,
		})
	}

	top := g.TopScorers()
	if len(top) > 0 && g.Players[top[0]].Score >= p.m.opt.WinThreshold {
		g.Winners = top
		p.next = PhaseGameOver
	} else {
		p.next = PhasePreparation
	}
	p.scored = true

	return []Notification{{
		Kind: NoteRoundScored,
		Payload: RoundScoredPayload{
			Round:      g.Round,
			Multiplier: g.RedealMultiplier,
			Lines:      lines,
		},
	}}
}

func (p *scoringPhase) OnExit() {
	p.scored = false
}

func (p *scoringPhase) ValidateAction(a Action) *Rejection {
	switch a.Kind {
	case ActionLeave:
		if _, seated := p.m.game.Players[a.PlayerID]; !seated {
			return reject(RejectNotSeated, "player %s holds no seat", a.PlayerID)
		}
		return nil
	case ActionTimeout, ActionRedealWarning:
		return reject(RejectStaleTimeout, "timer fired for an expired slot")
	default:
		return rejectWrongPhase(a, PhaseScoring)
	}
}

func (p *scoringPhase) ExecuteAction(a Action) ([]Notification, error) {
	if a.Kind == ActionLeave {
		return p.m.markDisconnected(a.PlayerID), nil
	}
	return nil, nil
}

func (p *scoringPhase) CheckTransition() *TransitionRequest {
	if !p.scored {
		return nil
	}
	if p.next == PhaseGameOver {
		return &TransitionRequest{Target: PhaseGameOver, Reason: "win_threshold_reached"}
	}
	return &TransitionRequest{Target: PhasePreparation, Reason: "next_round"}
}

func (p *scoringPhase) Data() map[string]interface{} {
	return map[string]interface{}{
		"round":   p.m.game.Round,
		"winners": append([]string(nil), p.m.game.Winners...),
		"next":    string(p.next),
	}
}

func (p *scoringPhase) AllowedActions(playerID string) []ActionKind {
	if _, seated := p.m.game.Players[playerID]; seated {
		return []ActionKind{ActionLeave}
	}
	return nil
}
