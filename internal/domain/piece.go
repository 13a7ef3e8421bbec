package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// Color is a piece color. Red pieces outrank their black counterparts.
type Color int8

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	if c == Red {
		return "RED"
	}
	return "BLACK"
}

// Kind is a piece kind, strongest first.
type Kind int8

const (
	General Kind = iota
	Advisor
	Elephant
	Chariot
	Horse
	Cannon
	Soldier
)

var kindNames = [...]string{"GENERAL", "ADVISOR", "ELEPHANT", "CHARIOT", "HORSE", "CANNON", "SOLDIER"}

func (k Kind) String() string {
	if k < General || k > Soldier {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// copiesPerColor is how many physical pieces of each kind one color holds.
var copiesPerColor = [...]int{1, 2, 2, 2, 2, 2, 5}

// piecePoints maps kind to point value, indexed by color.
var piecePoints = [...][2]int{
	General:  {14, 13},
	Advisor:  {12, 11},
	Elephant: {10, 9},
	Chariot:  {8, 7},
	Horse:    {6, 5},
	Cannon:   {4, 3},
	Soldier:  {2, 1},
}

const (
	// DeckSize is the number of pieces in a full set.
	DeckSize = 32
	// HandSize is how many pieces each seat is dealt.
	HandSize = 8
	// NumSeats is the fixed seat count per room.
	NumSeats = 4
	// WeakThreshold marks weak hands: no piece worth more than this.
	WeakThreshold = 9
	// TotalPiles is the pile count awarded across one full round.
	TotalPiles = 8
	// MaxPlaySize is the largest recognized play.
	MaxPlaySize = 6
)

// Piece is one physical game piece. Copy distinguishes duplicates of the
// same kind and color so removal from hands works by identity, not value.
type Piece struct {
	Kind  Kind
	Color Color
	Copy  int8
}

// Points returns the piece's fixed point value.
func (p Piece) Points() int {
	return piecePoints[p.Kind][p.Color]
}

// Label renders the canonical display form, e.g. "GENERAL_RED(14)".
func (p Piece) Label() string {
	return fmt.Sprintf("%s_%s(%d)", p.Kind, p.Color, p.Points())
}

// SameFace reports whether two pieces share kind and color. The rules treat
// such pieces as interchangeable even though their identities differ.
func (p Piece) SameFace(o Piece) bool {
	return p.Kind == o.Kind && p.Color == o.Color
}

// NewDeck returns the full ordered 32-piece set.
func NewDeck() []Piece {
	deck := make([]Piece, 0, DeckSize)
	for _, color := range []Color{Red, Black} {
		for kind := General; kind <= Soldier; kind++ {
			for i := 0; i < copiesPerColor[kind]; i++ {
				deck = append(deck, Piece{Kind: kind, Color: color, Copy: int8(i)})
			}
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Piece) []Piece {
	out := make([]Piece, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal shuffles a fresh deck and splits it into NumSeats hands of HandSize,
// each sorted strongest first.
func Deal(rng *rand.Rand) [NumSeats][]Piece {
	deck := ShuffleDeck(rng, NewDeck())
	var hands [NumSeats][]Piece
	for i := 0; i < NumSeats; i++ {
		hand := make([]Piece, HandSize)
		copy(hand, deck[i*HandSize:(i+1)*HandSize])
		SortHand(hand)
		hands[i] = hand
	}
	return hands
}

// SortHand orders a hand strongest first. Duplicates keep copy order.
func SortHand(hand []Piece) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Points() != hand[j].Points() {
			return hand[i].Points() > hand[j].Points()
		}
		return hand[i].Copy < hand[j].Copy
	})
}

// IsWeak reports whether a hand holds nothing above the weak threshold.
func IsWeak(hand []Piece) bool {
	for _, p := range hand {
		if p.Points() > WeakThreshold {
			return false
		}
	}
	return true
}

// PointsSum totals the point values of the given pieces.
func PointsSum(pieces []Piece) int {
	sum := 0
	for _, p := range pieces {
		sum += p.Points()
	}
	return sum
}

// HoldsAll reports whether hand contains every listed piece by identity,
// counting duplicates in the request against duplicates in the hand.
func HoldsAll(hand, pieces []Piece) bool {
	have := make(map[Piece]int, len(hand))
	for _, p := range hand {
		have[p]++
	}
	for _, p := range pieces {
		if have[p] == 0 {
			return false
		}
		have[p]--
	}
	return true
}

// RemovePieces returns hand minus the given pieces, matched by identity.
// Pieces not present are ignored.
func RemovePieces(hand, played []Piece) []Piece {
	remove := make(map[Piece]int, len(played))
	for _, p := range played {
		remove[p]++
	}
	out := make([]Piece, 0, len(hand))
	for _, p := range hand {
		if remove[p] > 0 {
			remove[p]--
			continue
		}
		out = append(out, p)
	}
	return out
}

// LowestPieces returns the n weakest pieces of the hand in ascending
// strength, or the whole hand when it holds fewer than n.
func LowestPieces(hand []Piece, n int) []Piece {
	sorted := make([]Piece, len(hand))
	copy(sorted, hand)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Points() != sorted[j].Points() {
			return sorted[i].Points() < sorted[j].Points()
		}
		return sorted[i].Copy < sorted[j].Copy
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
