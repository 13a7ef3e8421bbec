package brain

import "liaptui/internal/domain"

// Estimator provides probabilistic reads on top of memory.
type Estimator struct {
	Memory *RoundMemory
}

// NewEstimator creates a reasoning engine over the supplied memory.
func NewEstimator(m *RoundMemory) *Estimator {
	return &Estimator{Memory: m}
}

// BossPieces returns the pieces in hand that no unseen piece can top.
func (e *Estimator) BossPieces(hand []domain.Piece) []domain.Piece {
	var boss []domain.Piece
	for _, p := range hand {
		if e.Memory.IsBoss(p) {
			boss = append(boss, p)
		}
	}
	return boss
}

// HoldProbability returns a 0.0 to 1.0 chance that leading this piece as a
// single takes the trick back.
func (e *Estimator) HoldProbability(piece domain.Piece) float64 {
	higher := 0
	for _, p := range e.Memory.Unseen() {
		if p.Points() > piece.Points() {
			higher++
		}
	}
	if higher == 0 {
		return 1.0
	}
	// Simple heuristic: inverse of unseen higher pieces. Opponent modeling
	// sharpens this through SafeAgainstTable.
	return 1.0 / float64(higher+1)
}

// Dominance returns a 0.0 to 1.0 score of hand strength relative to the
// pieces still unseen.
func (e *Estimator) Dominance(hand []domain.Piece) float64 {
	if len(hand) == 0 {
		return 0.0
	}
	unseen := e.Memory.Unseen()
	if len(unseen) == 0 {
		return 1.0
	}

	avgHand := float64(domain.PointsSum(hand)) / float64(len(hand))
	avgUnseen := float64(domain.PointsSum(unseen)) / float64(len(unseen))
	return avgHand / (avgHand + avgUnseen)
}

// TopChance estimates the chance that some unseen holding tops the given
// play at its size.
func (e *Estimator) TopChance(play domain.Play) float64 {
	unseen := e.Memory.Unseen()
	switch play.Type {
	case domain.Invalid:
		return 1.0
	case domain.Single:
		higher := 0
		for _, p := range unseen {
			if p.Points() > play.Value {
				higher++
			}
		}
		if higher == 0 {
			return 0.0
		}
		return 1.0 - 1.0/float64(higher+1)
	case domain.Pair:
		if bestUnseenPair(unseen) <= play.Value {
			return 0.0
		}
		return 0.5
	case domain.Straight, domain.FourOfAKind, domain.FiveOfAKind:
		// Top-ranked shapes only lose to a same-rank shape of higher value,
		// which needs very specific unseen pieces.
		if len(unseen) < len(play.Pieces) {
			return 0.0
		}
		return 0.2
	default:
		if len(unseen) < len(play.Pieces) {
			return 0.0
		}
		// Same-size straights and soldier sets outrank these shapes.
		return 0.4
	}
}

// SafeAgainstTable reports the fraction of profiled players with no recorded
// ability to top the play. Sparse history reads as unsafe.
func (e *Estimator) SafeAgainstTable(play domain.Play, selfID string) float64 {
	checked := 0
	safe := 0
	for id, p := range e.Memory.Opponents {
		if id == selfID || p.PiecesRemaining == 0 {
			continue
		}
		checked++
		if !p.CanPossiblyTop(play) {
			safe++
		}
	}
	if checked == 0 {
		return 0.0
	}
	return float64(safe) / float64(checked)
}

func bestUnseenPair(unseen []domain.Piece) int {
	best := 0
	counts := make(map[domain.Kind][2]int, len(unseen))
	for _, p := range unseen {
		c := counts[p.Kind]
		c[p.Color]++
		counts[p.Kind] = c
	}
	for kind, c := range counts {
		for color := domain.Red; color <= domain.Black; color++ {
			if c[color] < 2 {
				continue
			}
			v := 2 * domain.Piece{Kind: kind, Color: color}.Points()
			if v > best {
				best = v
			}
		}
	}
	return best
}
