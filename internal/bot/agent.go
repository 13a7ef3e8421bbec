package bot

import (
	"liaptui/internal/domain"
)

// Agent is one autonomous seat: an identity plus a strategy, with a
// legalization layer between the strategy and the table. Whatever a
// strategy returns, the agent submits something the rules accept.
type Agent struct {
	ID       string
	Name     string
	Strategy Strategy
}

type selfAware interface {
	bindSelf(id string)
}

// NewAgent builds an agent and binds identity-aware strategies to their id.
func NewAgent(id, name string, strategy Strategy) *Agent {
	if s, ok := strategy.(selfAware); ok {
		s.bindSelf(id)
	}
	return &Agent{ID: id, Name: name, Strategy: strategy}
}

// DecideRedeal asks the strategy whether to trade a weak hand away.
func (a *Agent) DecideRedeal(hand []domain.Piece) bool {
	return a.Strategy.ChooseRedeal(hand)
}

// DecideDeclaration clamps the strategy's bid into the legal window.
func (a *Agent) DecideDeclaration(hand []domain.Piece, view DeclareView) int {
	value := a.Strategy.ChooseDeclaration(hand, view)
	if value < 0 {
		value = 0
	}
	if value > domain.TotalPiles {
		value = domain.TotalPiles
	}
	if value == view.Forbidden {
		if value > 0 {
			value--
		} else {
			value = 1
		}
	}
	return value
}

// DecidePlay verifies the strategy's pieces are held, sized right and, on a
// lead, shaped right. Anything else falls back to the lowest legal table.
func (a *Agent) DecidePlay(hand []domain.Piece, view TableView) []domain.Piece {
	pieces := a.Strategy.ChoosePlay(hand, view)

	if view.Required > 0 {
		if len(pieces) != view.Required || !domain.HoldsAll(hand, pieces) {
			return domain.LowestPieces(hand, view.Required)
		}
		return pieces
	}

	if len(pieces) == 0 || len(pieces) > domain.MaxPlaySize || !domain.HoldsAll(hand, pieces) {
		return domain.LowestPieces(hand, 1)
	}
	if domain.IdentifyPlay(pieces).Type == domain.Invalid {
		return domain.LowestPieces(hand, 1)
	}
	return pieces
}

// Observe forwards a game event to the strategy.
func (a *Agent) Observe(event interface{}) {
	a.Strategy.Observe(event)
}
