package internal

import (
	"liaptui/internal/domain"
)

// removeSubset removes the specified pieces using multiset identity semantics.
func removeSubset(source, subset []domain.Piece) []domain.Piece {
	counts := make(map[domain.Piece]int, len(subset))
	for _, p := range subset {
		counts[p]++
	}
	rest := make([]domain.Piece, 0, len(source))
	for _, p := range source {
		if counts[p] > 0 {
			counts[p]--
			continue
		}
		rest = append(rest, p)
	}
	return rest
}

var (
	upperKinds = []domain.Kind{domain.General, domain.Advisor, domain.Elephant}
	lowerKinds = []domain.Kind{domain.Chariot, domain.Horse, domain.Cannon}
)

// ExtractStraights repeatedly pulls base three-kind straights of one color
// out of the pool. Duplicate kinds stay behind for the pair pass.
func ExtractStraights(pool []domain.Piece) ([][]domain.Piece, []domain.Piece) {
	var out [][]domain.Piece
	for {
		straight := findStraight(pool)
		if straight == nil {
			return out, pool
		}
		out = append(out, straight)
		pool = removeSubset(pool, straight)
	}
}

func findStraight(pool []domain.Piece) []domain.Piece {
	for _, color := range []domain.Color{domain.Red, domain.Black} {
		for _, group := range [][]domain.Kind{upperKinds, lowerKinds} {
			straight := make([]domain.Piece, 0, len(group))
			for _, kind := range group {
				for _, p := range pool {
					if p.Kind == kind && p.Color == color {
						straight = append(straight, p)
						break
					}
				}
			}
			if len(straight) == len(group) {
				return straight
			}
		}
	}
	return nil
}

// ExtractSoldierSets pulls all soldiers of a color as one set when at least
// three are held.
func ExtractSoldierSets(pool []domain.Piece) ([][]domain.Piece, []domain.Piece) {
	var out [][]domain.Piece
	for _, color := range []domain.Color{domain.Red, domain.Black} {
		var set []domain.Piece
		for _, p := range pool {
			if p.Kind == domain.Soldier && p.Color == color {
				set = append(set, p)
			}
		}
		if len(set) >= 3 {
			out = append(out, set)
			pool = removeSubset(pool, set)
		}
	}
	return out, pool
}

// ExtractPairs pulls same-kind same-color pairs from the pool.
func ExtractPairs(pool []domain.Piece) ([][]domain.Piece, []domain.Piece) {
	var out [][]domain.Piece
	for {
		pair := findPair(pool)
		if pair == nil {
			return out, pool
		}
		out = append(out, pair)
		pool = removeSubset(pool, pair)
	}
}

func findPair(pool []domain.Piece) []domain.Piece {
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			if pool[i].SameFace(pool[j]) {
				return []domain.Piece{pool[i], pool[j]}
			}
		}
	}
	return nil
}
