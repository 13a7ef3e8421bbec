package bot

import (
	"liaptui/internal/bot/internal"
	"liaptui/internal/domain"
)

// GreedyStrategy chases piles. It trades any weak hand away, bids one over
// the estimate and keeps fighting for tricks even after the bid is met.
type GreedyStrategy struct{}

var greedyRules = []SelectionRule{&FavorStraightsRule{}}

func (s *GreedyStrategy) ChooseRedeal([]domain.Piece) bool {
	return true
}

func (s *GreedyStrategy) ChooseDeclaration(hand []domain.Piece, view DeclareView) int {
	return legalDeclaration(internal.EstimatePiles(hand)+greedyTuning.DeclareAdjust, view)
}

func (s *GreedyStrategy) ChoosePlay(hand []domain.Piece, view TableView) []domain.Piece {
	return pickPlay(hand, view, greedyTuning, greedyRules, true)
}

func (s *GreedyStrategy) Observe(interface{}) {}
