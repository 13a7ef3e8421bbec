package app

import (
	"liaptui/internal/domain"
)

const taskPlayTimeout = "play_timeout"

// turnPhase runs tricks until every hand is empty. The trick starter sets
// the required piece count with a valid play; followers must match the
// count but may throw invalid sets, which can never win. Pieces leave all
// hands when the trick resolves.
type turnPhase struct {
	m *GameMachine

	trick    int
	starter  string
	order    []string
	idx      int
	required int
	plays    []domain.TrickPlay
	done     bool
}

func newTurnPhase(m *GameMachine) *turnPhase {
	return &turnPhase{m: m}
}

func (p *turnPhase) Name() PhaseName { return PhaseTurn }

func (p *turnPhase) OnEnter() []Notification {
	p.trick = 1
	p.starter = p.m.game.StarterID
	p.done = false
	return p.begin()
}

func (p *turnPhase) OnExit() {}

// begin opens a trick with the current starter leading.
func (p *turnPhase) begin() []Notification {
	p.order = p.m.game.SeatOrderFrom(p.starter)
	p.idx = 0
	p.required = 0
	p.plays = nil
	notes := []Notification{{
		Kind: NoteTrickStarted,
		Payload: TrickStartedPayload{
			Round:   p.m.game.Round,
			Trick:   p.trick,
			Starter: p.starter,
		},
	}}
	return append(notes, p.awaitPlay()...)
}

func (p *turnPhase) current() string {
	if p.idx >= len(p.order) {
		return ""
	}
	return p.order[p.idx]
}

// playOrdinal uniquely identifies a play window within the round.
func (p *turnPhase) playOrdinal() int {
	return (p.trick-1)*domain.NumSeats + p.idx
}

func (p *turnPhase) slot() Slot {
	return Slot{Phase: PhaseTurn, Round: p.m.game.Round, Turn: p.playOrdinal(), PlayerID: p.current()}
}

func (p *turnPhase) slotCurrent(s Slot) bool {
	return s.Phase == PhaseTurn && s.Round == p.m.game.Round &&
		s.Turn == p.playOrdinal() && s.PlayerID == p.current()
}

func (p *turnPhase) awaitPlay() []Notification {
	id := p.current()
	if id == "" {
		return nil
	}
	d := p.m.opt.PlayTimeout
	if !p.m.connected(id) {
		d = disconnectedGrace
	}
	p.m.scheduleTimeout(taskPlayTimeout, d, p.slot())
	return nil
}

func (p *turnPhase) ValidateAction(a Action) *Rejection {
	switch a.Kind {
	case ActionPlayPieces:
		if a.PlayerID != p.current() {
			return reject(RejectNotYourTurn, "it is not player %s's turn to play", a.PlayerID)
		}
		n := len(a.Pieces)
		if p.idx == 0 {
			if n < 1 || n > domain.MaxPlaySize {
				return reject(RejectBadPlaySize, "starter must play 1 to %d pieces, got %d", domain.MaxPlaySize, n)
			}
		} else if n != p.required {
			return reject(RejectBadPlaySize, "trick requires %d pieces, got %d", p.required, n)
		}
		pl := p.m.game.Players[a.PlayerID]
		if !domain.HoldsAll(pl.Hand, a.Pieces) {
			return reject(RejectPiecesNotHeld, "player %s does not hold all offered pieces", a.PlayerID)
		}
		if p.idx == 0 && domain.IdentifyPlay(a.Pieces).Type == domain.Invalid {
			return reject(RejectInvalidPlay, "starter play does not form a recognized combination")
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
		return rejectWrongPhase(a, PhaseTurn)
	}
}

func (p *turnPhase) ExecuteAction(a Action) ([]Notification, error) {
	switch a.Kind {
	case ActionPlayPieces:
		return p.applyPlay(a.Pieces, false), nil
	case ActionTimeout:
		pl := p.m.game.Players[p.current()]
		need := p.required
		if p.idx == 0 {
			need = 1
		}
		auto := domain.LowestPieces(pl.Hand, need)
		return p.applyPlay(auto, true), nil
	case ActionLeave:
		notes := p.m.markDisconnected(a.PlayerID)
		if a.PlayerID == p.current() {
			p.m.scheduleTimeout(taskPlayTimeout, disconnectedGrace, p.slot())
		}
		return notes, nil
	default:
		return nil, nil
	}
}

// applyPlay records the current player's pieces and either advances the
// trick or resolves it when everyone has played.
func (p *turnPhase) applyPlay(pieces []domain.Piece, forced bool) []Notification {
	id := p.current()
	pieces = append([]domain.Piece(nil), pieces...)
	play := domain.IdentifyPlay(pieces)
	if p.idx == 0 {
		p.required = len(pieces)
	}
	p.plays = append(p.plays, domain.TrickPlay{
		PlayerID: id,
		Pieces:   pieces,
		Play:     play,
		Order:    p.idx,
	})
	valid := play.Type != domain.Invalid && len(pieces) == p.required
	p.idx++

	notes := []Notification{{
		Kind: NotePlayMade,
		Payload: PlayMadePayload{
			PlayerID: id,
			Play:     domain.PlayToDTO(play),
			Valid:    valid,
			Required: p.required,
			Next:     p.current(),
			Forced:   forced,
		},
	}}
	if p.idx < len(p.order) {
		return append(notes, p.awaitPlay()...)
	}
	return append(notes, p.resolve()...)
}

// resolve ranks the completed trick, strips played pieces from every hand
// and awards piles to the winner.
func (p *turnPhase) resolve() []Notification {
	g := p.m.game
	p.m.tasks.Cancel(taskPlayTimeout)

	res := domain.ResolveTurn(p.plays, p.required)
	for _, tp := range p.plays {
		pl := g.Players[tp.PlayerID]
		pl.Hand = domain.RemovePieces(pl.Hand, tp.Pieces)
	}
	if res.WinnerID != "" {
		g.Players[res.WinnerID].Captured += res.Piles
		g.LastTrickWinner = res.WinnerID
		p.starter = res.WinnerID
	}

	notes := []Notification{{
		Kind: NoteTurnResolved,
		Payload: TurnResolvedPayload{
			Round:  g.Round,
			Trick:  p.trick,
			Result: domain.TurnResultToDTO(res),
		},
	}}
	if g.AllHandsEmpty() {
		p.done = true
		return notes
	}
	p.trick++
	return append(notes, p.begin()...)
}

func (p *turnPhase) CheckTransition() *TransitionRequest {
	if p.done {
		return &TransitionRequest{Target: PhaseScoring, Reason: "hands_exhausted"}
	}
	return nil
}

func (p *turnPhase) Data() map[string]interface{} {
	return map[string]interface{}{
		"trick":    p.trick,
		"starter":  p.starter,
		"current":  p.current(),
		"required": p.required,
		"played":   len(p.plays),
		"order":    append([]string(nil), p.order...),
	}
}

func (p *turnPhase) AllowedActions(playerID string) []ActionKind {
	var kinds []ActionKind
	if playerID == p.current() {
		kinds = append(kinds, ActionPlayPieces)
	}
	if _, seated := p.m.game.Players[playerID]; seated {
		kinds = append(kinds, ActionLeave)
	}
	return kinds
}
