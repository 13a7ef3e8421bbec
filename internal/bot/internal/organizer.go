package internal

import (
	"liaptui/internal/domain"
)

// OrganizedHand represents a tactical partitioning of a player's hand.
type OrganizedHand struct {
	Straights   [][]domain.Piece
	SoldierSets [][]domain.Piece
	Pairs       [][]domain.Piece
	Singles     []domain.Piece
}

// GetTacticalOptions generates the partitioning strategies worth comparing.
func GetTacticalOptions(hand []domain.Piece) []OrganizedHand {
	return []OrganizedHand{PartitionHand(hand), PartitionHandPairsFirst(hand)}
}

// PartitionHand organizes a hand with straights taking priority. Straights
// win at their piece count, so keeping them intact is the default.
func PartitionHand(hand []domain.Piece) OrganizedHand {
	var org OrganizedHand
	pool := append([]domain.Piece(nil), hand...)
	org.Straights, pool = ExtractStraights(pool)
	org.SoldierSets, pool = ExtractSoldierSets(pool)
	org.Pairs, pool = ExtractPairs(pool)
	org.Singles = pool
	return org
}

// PartitionHandPairsFirst organizes a hand prioritizing pairs. Pairs of
// straight kinds compete with the straights for the same pieces.
func PartitionHandPairsFirst(hand []domain.Piece) OrganizedHand {
	var org OrganizedHand
	pool := append([]domain.Piece(nil), hand...)
	org.SoldierSets, pool = ExtractSoldierSets(pool)
	org.Pairs, pool = ExtractPairs(pool)
	org.Straights, pool = ExtractStraights(pool)
	org.Singles = pool
	return org
}

// Units lists each partition element as a playable lead candidate.
func (h OrganizedHand) Units() [][]domain.Piece {
	var units [][]domain.Piece
	units = append(units, h.Straights...)
	units = append(units, h.SoldierSets...)
	units = append(units, h.Pairs...)
	for _, s := range h.Singles {
		units = append(units, []domain.Piece{s})
	}
	return units
}
