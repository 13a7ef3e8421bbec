package internal

import (
	"liaptui/internal/domain"
)

// CandidatePlay is one legal tabling of pieces from a hand.
type CandidatePlay struct {
	Pieces []domain.Piece
	Play   domain.Play
}

// FindPlays enumerates every valid play of exactly the given size.
func FindPlays(hand []domain.Piece, size int) []CandidatePlay {
	var out []CandidatePlay
	forEachSubset(hand, size, func(pieces []domain.Piece) {
		play := domain.IdentifyPlay(pieces)
		if play.Type == domain.Invalid {
			return
		}
		kept := append([]domain.Piece(nil), pieces...)
		out = append(out, CandidatePlay{
			Pieces: kept,
			Play:   domain.Play{Type: play.Type, Pieces: kept, Value: play.Value},
		})
	})
	return out
}

// FindAllPlays enumerates valid plays of every size a lead may table.
func FindAllPlays(hand []domain.Piece) []CandidatePlay {
	var out []CandidatePlay
	max := domain.MaxPlaySize
	if len(hand) < max {
		max = len(hand)
	}
	for size := 1; size <= max; size++ {
		out = append(out, FindPlays(hand, size)...)
	}
	return out
}

// FindBeating returns the plays of the given size that beat toBeat. A
// zero-valued toBeat matches everything valid.
func FindBeating(hand []domain.Piece, size int, toBeat domain.Play) []CandidatePlay {
	var out []CandidatePlay
	for _, c := range FindPlays(hand, size) {
		if c.Play.Beats(toBeat) {
			out = append(out, c)
		}
	}
	return out
}

// forEachSubset invokes fn with every size-k subset of hand. The slice
// passed to fn is reused between calls.
func forEachSubset(hand []domain.Piece, k int, fn func([]domain.Piece)) {
	if k <= 0 || k > len(hand) {
		return
	}
	buf := make([]domain.Piece, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			fn(buf)
			return
		}
		for i := start; i <= len(hand)-(k-depth); i++ {
			buf[depth] = hand[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
