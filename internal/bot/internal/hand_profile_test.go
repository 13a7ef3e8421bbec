package internal

import (
	"testing"

	"liaptui/internal/domain"
)

func TestProfileHandCountsStructures(t *testing.T) {
	// Upper red straight, three black soldiers, a black chariot pair.
	hand := []domain.Piece{
		piece(domain.General, domain.Red, 0),
		piece(domain.Advisor, domain.Red, 0),
		piece(domain.Elephant, domain.Red, 0),
		piece(domain.Soldier, domain.Black, 0),
		piece(domain.Soldier, domain.Black, 1),
		piece(domain.Soldier, domain.Black, 2),
		piece(domain.Chariot, domain.Black, 0),
		piece(domain.Chariot, domain.Black, 1),
	}

	profile := ProfileHand(hand)

	if profile.TotalPieces != 8 {
		t.Fatalf("TotalPieces = %d, want 8", profile.TotalPieces)
	}
	if profile.Points != 53 {
		t.Fatalf("Points = %d, want 53", profile.Points)
	}
	if profile.StrongPieces != 3 {
		t.Fatalf("StrongPieces = %d, want 3", profile.StrongPieces)
	}
	if profile.Straights != 1 || profile.StraightPieces != 3 {
		t.Fatalf("Straights = %d (pieces %d), want 1 straight of 3", profile.Straights, profile.StraightPieces)
	}
	if profile.SoldierSets != 1 || profile.BiggestSet != 3 {
		t.Fatalf("SoldierSets = %d (biggest %d), want 1 set of 3", profile.SoldierSets, profile.BiggestSet)
	}
	if profile.Pairs != 1 {
		t.Fatalf("Pairs = %d, want 1", profile.Pairs)
	}
	if profile.Singles != 0 {
		t.Fatalf("Singles = %d, want 0", profile.Singles)
	}
}

func TestProfileHandWeakHand(t *testing.T) {
	// Nothing above the weak threshold, everything paired.
	hand := []domain.Piece{
		piece(domain.Soldier, domain.Red, 0),
		piece(domain.Soldier, domain.Red, 1),
		piece(domain.Cannon, domain.Red, 0),
		piece(domain.Cannon, domain.Red, 1),
		piece(domain.Horse, domain.Black, 0),
		piece(domain.Horse, domain.Black, 1),
		piece(domain.Elephant, domain.Black, 0),
		piece(domain.Elephant, domain.Black, 1),
	}

	profile := ProfileHand(hand)

	if profile.StrongPieces != 0 {
		t.Fatalf("StrongPieces = %d, want 0", profile.StrongPieces)
	}
	if profile.Pairs != 4 {
		t.Fatalf("Pairs = %d, want 4", profile.Pairs)
	}
	if profile.Straights != 0 || profile.SoldierSets != 0 || profile.Singles != 0 {
		t.Fatalf("unexpected structure: %+v", profile)
	}
}
