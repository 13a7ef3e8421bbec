package domain

import "sort"

// TrickPlay is one seat's tabled pieces within a single trick, captured in
// play order.
type TrickPlay struct {
	PlayerID string
	Pieces   []Piece
	Play     Play
	Order    int
}

// validAt reports whether the play competes for the trick at the required
// piece count.
func (tp TrickPlay) validAt(required int) bool {
	return tp.Play.Type != Invalid && len(tp.Pieces) == required
}

// RankedPlay is a trick play with its final standing, 1 being the best.
type RankedPlay struct {
	TrickPlay
	Rank  int
	Valid bool
}

// TurnResult is the outcome of one resolved trick.
type TurnResult struct {
	// WinnerID is empty when nothing valid was tabled.
	WinnerID string
	// Piles awarded to the winner, equal to the trick's required count.
	Piles   int
	Ranking []RankedPlay
}

// ResolveTurn ranks a completed trick and picks its winner. Invalid plays
// always rank below every valid play and never win; when nothing valid was
// tabled the trick awards no piles. Ties on type rank and value go to the
// earlier play.
func ResolveTurn(plays []TrickPlay, requiredCount int) TurnResult {
	ranked := make([]RankedPlay, 0, len(plays))
	for _, tp := range plays {
		ranked = append(ranked, RankedPlay{TrickPlay: tp, Valid: tp.validAt(requiredCount)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Valid != b.Valid {
			return a.Valid
		}
		if ar, br := a.Play.Type.rank(), b.Play.Type.rank(); ar != br {
			return ar > br
		}
		if a.Play.Value != b.Play.Value {
			return a.Play.Value > b.Play.Value
		}
		return a.Order < b.Order
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	res := TurnResult{Ranking: ranked}
	if len(ranked) > 0 && ranked[0].Valid {
		res.WinnerID = ranked[0].PlayerID
		res.Piles = requiredCount
	}
	return res
}
