package internal

import (
	"testing"

	"liaptui/internal/domain"
)

func TestEvaluateHand(t *testing.T) {
	// Case 1: loose weak singles.
	trash := []domain.Piece{
		piece(domain.Soldier, domain.Red, 0),
		piece(domain.Cannon, domain.Black, 0),
		piece(domain.Horse, domain.Black, 0),
	}
	scoreTrash := EvaluateHand(trash)

	// Case 2: the same piece count held as an intact straight.
	straight := []domain.Piece{
		piece(domain.Chariot, domain.Red, 0),
		piece(domain.Horse, domain.Red, 0),
		piece(domain.Cannon, domain.Red, 0),
	}
	scoreStraight := EvaluateHand(straight)

	if scoreStraight <= scoreTrash {
		t.Errorf("Straight (%.2f) should be worth more than loose singles (%.2f)", scoreStraight, scoreTrash)
	}

	// Case 3: a pair versus two loose pieces of similar points.
	pair := []domain.Piece{
		piece(domain.Advisor, domain.Black, 0),
		piece(domain.Advisor, domain.Black, 1),
	}
	scorePair := EvaluateHand(pair)

	loose := []domain.Piece{
		piece(domain.Advisor, domain.Black, 0),
		piece(domain.Elephant, domain.Black, 0),
	}
	scoreLoose := EvaluateHand(loose)

	if scorePair <= scoreLoose {
		t.Errorf("Pair (%.2f) should be worth more than loose pieces (%.2f)", scorePair, scoreLoose)
	}

	// Case 4: a lone general carries a premium.
	general := []domain.Piece{piece(domain.General, domain.Red, 0)}
	if score := EvaluateHand(general); score < 15.0 {
		t.Errorf("General (%.2f) should be very valuable", score)
	}

	if score := EvaluateHand(nil); score != 0 {
		t.Errorf("Empty hand = %.2f, want 0", score)
	}
}
