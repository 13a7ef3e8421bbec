package brain

import (
	"testing"

	"liaptui/internal/domain"
)

func TestEstimatorBossPieces(t *testing.T) {
	m := NewMemory()
	e := NewEstimator(m)

	// The red general tops everything even with the whole deck unseen.
	redGeneral := piece(domain.General, domain.Red, 0)
	if len(e.BossPieces([]domain.Piece{redGeneral})) != 1 {
		t.Errorf("red general should always be boss")
	}

	// The black general is not boss until the red one shows up.
	blackGeneral := piece(domain.General, domain.Black, 0)
	hand := []domain.Piece{blackGeneral}
	if len(e.BossPieces(hand)) != 0 {
		t.Errorf("black general should not be boss while the red one is unseen")
	}

	m.MarkSeen([]domain.Piece{redGeneral})
	if len(e.BossPieces(hand)) != 1 {
		t.Errorf("black general should be boss once the red one is seen")
	}
}

func TestEstimatorHoldProbability(t *testing.T) {
	m := NewMemory()
	e := NewEstimator(m)

	if p := e.HoldProbability(piece(domain.General, domain.Red, 0)); p != 1.0 {
		t.Errorf("red general probability should be 1.0, got %f", p)
	}

	// A black soldier has nearly the whole deck above it.
	if p := e.HoldProbability(piece(domain.Soldier, domain.Black, 0)); p >= 0.5 {
		t.Errorf("black soldier probability should be very low, got %f", p)
	}
}

func TestEstimatorDominanceShifts(t *testing.T) {
	m := NewMemory()
	e := NewEstimator(m)

	strong := []domain.Piece{
		piece(domain.General, domain.Red, 0),
		piece(domain.Advisor, domain.Red, 0),
	}
	weak := []domain.Piece{
		piece(domain.Soldier, domain.Black, 0),
		piece(domain.Soldier, domain.Black, 1),
	}

	m.MarkMine(strong)
	if ds, dw := e.Dominance(strong), e.Dominance(weak); ds <= dw {
		t.Errorf("Dominance(strong)=%f should exceed Dominance(weak)=%f", ds, dw)
	}
}
