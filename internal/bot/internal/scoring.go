package internal

import "liaptui/internal/domain"

// StageWeights tune play scoring for a specific stage of the round.
type StageWeights struct {
	HandScoreWeight     float64
	StraightPieceWeight float64
	SoldierSetWeight    float64
	PairWeight          float64
	SingleWeight        float64
	UseGeneralPenalty   float64
	UseStrongPenalty    float64
	UseValuePenalty     float64
	WinValueBonus       float64
}

// BotTuning defines stage weights and thresholds for a bot difficulty.
type BotTuning struct {
	Early            StageWeights
	Mid              StageWeights
	Late             StageWeights
	RedealPointLimit int
	DeclareAdjust    int
}

// ForStage returns the weights that match the supplied stage.
func (t BotTuning) ForStage(stage Stage) StageWeights {
	switch stage {
	case StageEarly:
		return t.Early
	case StageLate:
		return t.Late
	default:
		return t.Mid
	}
}

// ScoredPlay holds a candidate with its computed score and supporting metadata.
type ScoredPlay struct {
	Candidate        CandidatePlay
	Score            float64
	Remaining        []domain.Piece
	RemainingProfile HandProfile
}

// BuildScoredPlays scores each candidate by the hand it leaves behind and the
// pieces it spends. With needPiles set, high play values get an extra pull so
// a bot behind on its declaration fights for the trick.
func BuildScoredPlays(hand []domain.Piece, cands []CandidatePlay, weights StageWeights, needPiles bool) []ScoredPlay {
	scored := make([]ScoredPlay, 0, len(cands))
	for _, cand := range cands {
		remaining := domain.RemovePieces(hand, cand.Pieces)
		profile := ProfileHand(remaining)
		score := scoreHandWithProfile(remaining, profile, weights)

		score -= weights.UseValuePenalty * float64(cand.Play.Value)
		for _, p := range cand.Pieces {
			switch {
			case p.Kind == domain.General:
				score -= weights.UseGeneralPenalty
			case p.Points() > domain.WeakThreshold:
				score -= weights.UseStrongPenalty
			}
		}

		if needPiles {
			score += weights.WinValueBonus * float64(cand.Play.Value)
		}

		scored = append(scored, ScoredPlay{
			Candidate:        cand,
			Score:            score,
			Remaining:        remaining,
			RemainingProfile: profile,
		})
	}
	return scored
}

// EstimatePiles predicts how many piles a hand can plausibly take over a
// round. Generals and advisors usually carry a trick on their own; straights
// and soldier sets win at their full piece count.
func EstimatePiles(hand []domain.Piece) int {
	profile := ProfileHand(hand)

	est := 0
	for _, p := range hand {
		if p.Points() >= 11 {
			est++
		}
	}
	est += profile.Straights
	if profile.BiggestSet >= 4 {
		est++
	}
	if est > domain.TotalPiles {
		est = domain.TotalPiles
	}
	return est
}

func scoreHandWithProfile(hand []domain.Piece, profile HandProfile, weights StageWeights) float64 {
	score := 0.0
	score += weights.HandScoreWeight * EvaluateHand(hand)
	score += weights.StraightPieceWeight * float64(profile.StraightPieces)
	score += weights.SoldierSetWeight * float64(profile.SoldierSets)
	score += weights.PairWeight * float64(profile.Pairs)
	score += weights.SingleWeight * float64(profile.Singles)
	return score
}
