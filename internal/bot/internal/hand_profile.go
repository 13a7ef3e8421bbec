package internal

import "liaptui/internal/domain"

// HandProfile summarizes a hand's strategic structure.
type HandProfile struct {
	TotalPieces    int
	Points         int
	StrongPieces   int // above the weak threshold
	Straights      int
	StraightPieces int
	SoldierSets    int
	BiggestSet     int
	Pairs          int
	Singles        int
}

// ProfileHand analyzes a hand with a greedy structure pass.
func ProfileHand(hand []domain.Piece) HandProfile {
	profile := HandProfile{TotalPieces: len(hand), Points: domain.PointsSum(hand)}
	if len(hand) == 0 {
		return profile
	}
	for _, p := range hand {
		if p.Points() > domain.WeakThreshold {
			profile.StrongPieces++
		}
	}

	org := PartitionHand(hand)
	profile.Straights = len(org.Straights)
	for _, s := range org.Straights {
		profile.StraightPieces += len(s)
	}
	profile.SoldierSets = len(org.SoldierSets)
	for _, s := range org.SoldierSets {
		if len(s) > profile.BiggestSet {
			profile.BiggestSet = len(s)
		}
	}
	profile.Pairs = len(org.Pairs)
	profile.Singles = len(org.Singles)
	return profile
}
