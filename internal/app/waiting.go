package app

import (
	"liaptui/internal/domain"
)

// waitingPhase is the lobby: players claim seats, the host starts the game.
// Empty seats are filled with bots at start time.
type waitingPhase struct {
	m       *GameMachine
	started bool
}

func newWaitingPhase(m *GameMachine) *waitingPhase {
	return &waitingPhase{m: m}
}

func (p *waitingPhase) Name() PhaseName { return PhaseWaiting }

func (p *waitingPhase) OnEnter() []Notification {
	p.started = false
	return nil
}

func (p *waitingPhase) OnExit() {}

func (p *waitingPhase) ValidateAction(a Action) *Rejection {
	g := p.m.game
	switch a.Kind {
	case ActionJoin:
		if _, seated := g.Players[a.PlayerID]; seated {
			return reject(RejectAlreadySeated, "player %s already holds a seat", a.PlayerID)
		}
		if g.LowestFreeSeat() < 0 {
			return reject(RejectRoomFull, "all %d seats are taken", domain.NumSeats)
		}
		return nil
	case ActionLeave:
		if _, seated := g.Players[a.PlayerID]; !seated {
			return reject(RejectNotSeated, "player %s holds no seat", a.PlayerID)
		}
		return nil
	case ActionStartGame:
		pl, seated := g.Players[a.PlayerID]
		if !seated {
			return reject(RejectNotSeated, "player %s holds no seat", a.PlayerID)
		}
		if !pl.IsHost {
			return reject(RejectNotHost, "only the host may start the game")
		}
		if g.SeatedCount() < MinPlayersToStartGame {
			return reject(RejectTooFewPlayers, "need at least %d seated players", MinPlayersToStartGame)
		}
		return nil
	default:
		return rejectWrongPhase(a, PhaseWaiting)
	}
}

func (p *waitingPhase) ExecuteAction(a Action) ([]Notification, error) {
	g := p.m.game
	switch a.Kind {
	case ActionJoin:
		pl := g.AddPlayer(a.PlayerID, a.Name, a.IsBot)
		if pl == nil {
			return nil, nil
		}
		return []Notification{{
			Kind:    NotePlayerJoined,
			Payload: PlayerJoinedPayload{Player: domain.PlayerToDTO(pl)},
		}}, nil
	case ActionLeave:
		if !g.RemovePlayer(a.PlayerID) {
			return nil, nil
		}
		return []Notification{{
			Kind:    NotePlayerLeft,
			Payload: PlayerLeftPayload{PlayerID: a.PlayerID, Removed: true},
		}}, nil
	case ActionStartGame:
		var notes []Notification
		for seat := g.LowestFreeSeat(); seat >= 0; seat = g.LowestFreeSeat() {
			id, name := p.m.opt.BotIdentity(seat)
			bot := g.AddPlayer(id, name, true)
			if bot == nil {
				break
			}
			notes = append(notes, Notification{
				Kind:    NotePlayerJoined,
				Payload: PlayerJoinedPayload{Player: domain.PlayerToDTO(bot)},
			})
		}
		p.started = true
		notes = append(notes, Notification{
			Kind:    NoteGameStarted,
			Payload: GameStartedPayload{Players: domain.PlayersToDTO(g)},
		})
		return notes, nil
	default:
		return nil, nil
	}
}

func (p *waitingPhase) CheckTransition() *TransitionRequest {
	if p.started {
		return &TransitionRequest{Target: PhasePreparation, Reason: "game_started"}
	}
	return nil
}

func (p *waitingPhase) Data() map[string]interface{} {
	g := p.m.game
	return map[string]interface{}{
		"seated":  g.SeatedCount(),
		"host_id": g.HostID,
		"started": p.started,
	}
}

func (p *waitingPhase) AllowedActions(playerID string) []ActionKind {
	g := p.m.game
	var kinds []ActionKind
	pl, seated := g.Players[playerID]
	if !seated {
		if g.LowestFreeSeat() >= 0 {
			kinds = append(kinds, ActionJoin)
		}
		return kinds
	}
	kinds = append(kinds, ActionLeave)
	if pl.IsHost && g.SeatedCount() >= MinPlayersToStartGame {
		kinds = append(kinds, ActionStartGame)
	}
	return kinds
}
