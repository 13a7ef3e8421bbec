package bot

import (
	"liaptui/internal/bot/internal"
	"liaptui/internal/domain"
)

// CautiousStrategy keeps its hands. It never trades a deal away, bids one
// under the estimate and hoards strong pieces until the bid demands them.
type CautiousStrategy struct{}

var cautiousRules = []SelectionRule{&FavorPairsRule{}, &FewerLoosePiecesRule{}}

func (s *CautiousStrategy) ChooseRedeal([]domain.Piece) bool {
	return false
}

func (s *CautiousStrategy) ChooseDeclaration(hand []domain.Piece, view DeclareView) int {
	return legalDeclaration(internal.EstimatePiles(hand)+cautiousTuning.DeclareAdjust, view)
}

func (s *CautiousStrategy) ChoosePlay(hand []domain.Piece, view TableView) []domain.Piece {
	needPiles := view.Captured < view.Declared
	if view.Required > 0 && !needPiles {
		return domain.LowestPieces(hand, view.Required)
	}
	return pickPlay(hand, view, cautiousTuning, cautiousRules, needPiles)
}

func (s *CautiousStrategy) Observe(interface{}) {}
