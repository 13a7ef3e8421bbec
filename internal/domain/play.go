package domain

// PlayType classifies a set of pieces tabled together.
type PlayType int

const (
	// Invalid marks a set that matches no recognized shape.
	Invalid PlayType = iota
	// Single is any one piece.
	Single
	// Pair is two pieces of the same kind and color.
	Pair
	// ThreeOfAKind is three soldiers of one color.
	ThreeOfAKind
	// Straight is GENERAL+ADVISOR+ELEPHANT or CHARIOT+HORSE+CANNON of one color.
	Straight
	// FourOfAKind is four soldiers of one color.
	FourOfAKind
	// ExtendedStraight is a straight plus one duplicate of its kinds (4 pieces).
	ExtendedStraight
	// FiveOfAKind is all five soldiers of one color.
	FiveOfAKind
	// ExtendedStraightFive is a straight plus two duplicates of its kinds (5 pieces).
	ExtendedStraightFive
	// DoubleStraight is CHARIOT+HORSE+CANNON of one color, two of each (6 pieces).
	DoubleStraight
)

var playTypeNames = map[PlayType]string{
	Invalid:              "INVALID",
	Single:               "SINGLE",
	Pair:                 "PAIR",
	ThreeOfAKind:         "THREE_OF_A_KIND",
	Straight:             "STRAIGHT",
	FourOfAKind:          "FOUR_OF_A_KIND",
	ExtendedStraight:     "EXTENDED_STRAIGHT",
	FiveOfAKind:          "FIVE_OF_A_KIND",
	ExtendedStraightFive: "EXTENDED_STRAIGHT_5",
	DoubleStraight:       "DOUBLE_STRAIGHT",
}

func (t PlayType) String() string {
	if name, ok := playTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// rank orders play types that compete at the same piece count. Soldier sets
// outrank straights of the same size because they are rarer.
func (t PlayType) rank() int {
	switch t {
	case Invalid:
		return 0
	case Straight, FourOfAKind, FiveOfAKind:
		return 2
	default:
		return 1
	}
}

// Play is a classified set of pieces.
type Play struct {
	Type   PlayType
	Pieces []Piece
	Value  int
}

// IdentifyPlay classifies pieces into a Play. Unrecognized shapes come back
// with Type Invalid and a zero value.
func IdentifyPlay(pieces []Piece) Play {
	play := Play{Type: Invalid, Pieces: pieces}
	switch len(pieces) {
	case 1:
		play.Type = Single
	case 2:
		if pieces[0].SameFace(pieces[1]) {
			play.Type = Pair
		}
	case 3:
		switch {
		case isStraight(pieces):
			play.Type = Straight
		case soldiersOfOneColor(pieces):
			play.Type = ThreeOfAKind
		}
	case 4:
		switch {
		case soldiersOfOneColor(pieces):
			play.Type = FourOfAKind
		case isExtendedStraight(pieces):
			play.Type = ExtendedStraight
		}
	case 5:
		switch {
		case soldiersOfOneColor(pieces):
			play.Type = FiveOfAKind
		case isExtendedStraight(pieces):
			play.Type = ExtendedStraightFive
		}
	case 6:
		if isDoubleStraight(pieces) {
			play.Type = DoubleStraight
		}
	}
	if play.Type != Invalid {
		play.Value = PointsSum(pieces)
	}
	return play
}

// Beats reports whether p outranks o when both were tabled at the same
// piece count. Type rank decides first, then total value.
func (p Play) Beats(o Play) bool {
	if p.Type == Invalid {
		return false
	}
	if o.Type == Invalid {
		return true
	}
	if p.Type.rank() != o.Type.rank() {
		return p.Type.rank() > o.Type.rank()
	}
	return p.Value > o.Value
}

var (
	upperGroup = []Kind{General, Advisor, Elephant}
	lowerGroup = []Kind{Chariot, Horse, Cannon}
)

func sameColor(pieces []Piece) bool {
	for _, p := range pieces[1:] {
		if p.Color != pieces[0].Color {
			return false
		}
	}
	return true
}

func soldiersOfOneColor(pieces []Piece) bool {
	if !sameColor(pieces) {
		return false
	}
	for _, p := range pieces {
		if p.Kind != Soldier {
			return false
		}
	}
	return true
}

func kindCounts(pieces []Piece) map[Kind]int {
	counts := make(map[Kind]int, len(pieces))
	for _, p := range pieces {
		counts[p.Kind]++
	}
	return counts
}

// hasExactly reports whether counts holds exactly each copies of every kind
// in group and nothing else.
func hasExactly(counts map[Kind]int, group []Kind, each int) bool {
	if len(counts) != len(group) {
		return false
	}
	for _, k := range group {
		if counts[k] != each {
			return false
		}
	}
	return true
}

// coversGroup reports whether counts includes every kind of group at least
// once and no kind outside it.
func coversGroup(counts map[Kind]int, group []Kind) bool {
	if len(counts) != len(group) {
		return false
	}
	for _, k := range group {
		if counts[k] == 0 {
			return false
		}
	}
	return true
}

func isStraight(pieces []Piece) bool {
	if len(pieces) != 3 || !sameColor(pieces) {
		return false
	}
	counts := kindCounts(pieces)
	return hasExactly(counts, upperGroup, 1) || hasExactly(counts, lowerGroup, 1)
}

func isExtendedStraight(pieces []Piece) bool {
	if (len(pieces) != 4 && len(pieces) != 5) || !sameColor(pieces) {
		return false
	}
	counts := kindCounts(pieces)
	return coversGroup(counts, upperGroup) || coversGroup(counts, lowerGroup)
}

func isDoubleStraight(pieces []Piece) bool {
	if len(pieces) != 6 || !sameColor(pieces) {
		return false
	}
	// Only the lower group can double up physically, but the shape check
	// stays symmetric.
	counts := kindCounts(pieces)
	return hasExactly(counts, upperGroup, 2) || hasExactly(counts, lowerGroup, 2)
}
