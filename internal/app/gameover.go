package app

import (
	"liaptui/internal/domain"
)

// gameOverPhase is terminal. It announces the winners once and then only
// lets players leave while the room winds down.
type gameOverPhase struct {
	m *GameMachine
}

func newGameOverPhase(m *GameMachine) *gameOverPhase {
	return &gameOverPhase{m: m}
}

func (p *gameOverPhase) Name() PhaseName { return PhaseGameOver }

func (p *gameOverPhase) OnEnter() []Notification {
	g := p.m.game
	return []Notification{{
		Kind: NoteGameOver,
		Payload: GameOverPayload{
			Winners:   append([]string(nil), g.Winners...),
			Standings: domain.PlayersToDTO(g),
			Rounds:    g.Round,
		},
	}}
}

func (p *gameOverPhase) OnExit() {}

func (p *gameOverPhase) ValidateAction(a Action) *Rejection {
	switch a.Kind {
	case ActionLeave:
		if _, seated := p.m.game.Players[a.PlayerID]; !seated {
			return reject(RejectNotSeated, "player %s holds no seat", a.PlayerID)
		}
		return nil
	case ActionTimeout, ActionRedealWarning:
		return reject(RejectStaleTimeout, "timer fired for an expired slot")
	default:
		return reject(RejectGameOver, "the game is over")
	}
}

func (p *gameOverPhase) ExecuteAction(a Action) ([]Notification, error) {
	if a.Kind != ActionLeave {
		return nil, nil
	}
	if !p.m.game.RemovePlayer(a.PlayerID) {
		return nil, nil
	}
	return []Notification{{
		Kind:    NotePlayerLeft,
		Payload: PlayerLeftPayload{PlayerID: a.PlayerID, Removed: true},
	}}, nil
}

func (p *gameOverPhase) CheckTransition() *TransitionRequest { return nil }

func (p *gameOverPhase) Data() map[string]interface{} {
	return map[string]interface{}{
		"winners": append([]string(nil), p.m.game.Winners...),
		"rounds":  p.m.game.Round,
	}
}

func (p *gameOverPhase) AllowedActions(playerID string) []ActionKind {
	if _, seated := p.m.game.Players[playerID]; seated {
		return []ActionKind{ActionLeave}
	}
	return nil
}
