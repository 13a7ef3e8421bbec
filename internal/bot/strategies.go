package bot

import (
	"sort"

	"liaptui/internal/bot/internal"
	"liaptui/internal/domain"
)

// StandardStrategy is the balanced default. It bids what the hand supports,
// fights for piles while behind the bid and dumps low once it is met.
type StandardStrategy struct{}

var standardRules = []SelectionRule{&FavorStraightsRule{}, &FewerLoosePiecesRule{}}

func (s *StandardStrategy) ChooseRedeal(hand []domain.Piece) bool {
	return domain.PointsSum(hand) < DefaultTuning.RedealPointLimit
}

func (s *StandardStrategy) ChooseDeclaration(hand []domain.Piece, view DeclareView) int {
	return legalDeclaration(internal.EstimatePiles(hand)+DefaultTuning.DeclareAdjust, view)
}

func (s *StandardStrategy) ChoosePlay(hand []domain.Piece, view TableView) []domain.Piece {
	needPiles := view.Captured < view.Declared
	if view.Required > 0 && !needPiles {
		// Bid met; winning more tricks only risks overcapture.
		return domain.LowestPieces(hand, view.Required)
	}
	return pickPlay(hand, view, DefaultTuning, standardRules, needPiles)
}

func (s *StandardStrategy) Observe(interface{}) {}

// legalDeclaration clamps a raw pile estimate into the window the rules
// allow for this seat.
func legalDeclaration(est int, view DeclareView) int {
	if est < 0 {
		est = 0
	}
	if est > domain.TotalPiles {
		est = domain.TotalPiles
	}
	if est != view.Forbidden {
		return est
	}
	// Step off the forbidden value, preferring the safer lower bid.
	if est > 0 {
		return est - 1
	}
	return 1
}

// pickPlay runs the stage-weighted scoring pipeline shared by the tuned
// strategies.
func pickPlay(hand []domain.Piece, view TableView, tuning internal.BotTuning, rules []SelectionRule, needPiles bool) []domain.Piece {
	if len(hand) == 0 {
		return nil
	}

	weights := tuning.ForStage(internal.DetectStage(len(hand)))

	var cands []internal.CandidatePlay
	if view.Required <= 0 {
		cands = leadCandidates(hand, rules)
	} else {
		cands = internal.FindBeating(hand, view.Required, view.ToBeat)
		if len(cands) == 0 {
			// Nothing wins; shed the cheapest pieces.
			return domain.LowestPieces(hand, view.Required)
		}
	}

	scored := internal.BuildScoredPlays(hand, cands, weights, needPiles)
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		// Save higher pieces when scores are equal.
		return scored[i].Candidate.Play.Value < scored[j].Candidate.Play.Value
	})
	return scored[0].Candidate.Pieces
}

// leadCandidates builds lead options from the units of the best hand
// organization. Every unit identifies as a valid play by construction.
func leadCandidates(hand []domain.Piece, rules []SelectionRule) []internal.CandidatePlay {
	org := selectOrganization(internal.GetTacticalOptions(hand), rules)

	var cands []internal.CandidatePlay
	for _, unit := range org.Units() {
		play := domain.IdentifyPlay(unit)
		if play.Type == domain.Invalid {
			continue
		}
		cands = append(cands, internal.CandidatePlay{Pieces: unit, Play: play})
	}
	if len(cands) == 0 {
		cands = internal.FindAllPlays(hand)
	}
	return cands
}
