package internal

import "liaptui/internal/domain"

const (
	ScoreGeneral    = 10.0
	ScoreStraight   = 6.0 // per straight kept intact
	ScoreSoldierSet = 8.0
	ScorePair       = 3.0
	ScoreHighSingle = 1.5 // above the weak threshold
	ScoreLowSingle  = -1.0
	pointScale      = 0.5
)

// EvaluateHand returns a heuristic score for the given hand.
// Higher is better.
//
// Structures are valued over loose points: a straight takes a pile at its
// full piece count while singles take one at a time.
func EvaluateHand(hand []domain.Piece) float64 {
	if len(hand) == 0 {
		return 0
	}

	org := PartitionHand(hand)

	score := pointScale * float64(domain.PointsSum(hand))
	score += ScoreStraight * float64(len(org.Straights))
	score += ScoreSoldierSet * float64(len(org.SoldierSets))
	score += ScorePair * float64(len(org.Pairs))
	for _, s := range org.Singles {
		switch {
		case s.Kind == domain.General:
			score += ScoreGeneral
		case s.Points() > domain.WeakThreshold:
			score += ScoreHighSingle
		default:
			score += ScoreLowSingle
		}
	}
	return score
}
