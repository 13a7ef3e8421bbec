package bot

import "liaptui/internal/domain"

// Level selects a strategy difficulty.
type Level int

const (
	LevelStandard Level = iota
	LevelGreedy
	LevelCautious
	LevelMaster
)

func (l Level) String() string {
	switch l {
	case LevelGreedy:
		return "greedy"
	case LevelCautious:
		return "cautious"
	case LevelMaster:
		return "master"
	default:
		return "standard"
	}
}

// ParseLevel maps a config string to a Level. Unknown strings fall back to
// LevelStandard.
func ParseLevel(s string) Level {
	switch s {
	case "greedy":
		return LevelGreedy
	case "cautious":
		return LevelCautious
	case "master":
		return LevelMaster
	default:
		return LevelStandard
	}
}

// DeclareView is what a strategy sees when bidding piles.
type DeclareView struct {
	Position  int // bid order, 0 acts first
	Total     int // sum of the bids already made
	Forbidden int // value this seat may not bid, -1 when unconstrained
}

// TableView is what a strategy sees when asked for pieces.
type TableView struct {
	Required int         // pieces to table, 0 when leading
	ToBeat   domain.Play // play currently holding the trick, zero when leading
	Declared int         // own bid this round
	Captured int         // piles taken so far this round
}

// Strategy is the decision interface every bot difficulty implements.
type Strategy interface {
	// ChooseRedeal decides whether to trade a weak hand for a fresh deal.
	ChooseRedeal(hand []domain.Piece) bool
	// ChooseDeclaration bids a pile count for the round.
	ChooseDeclaration(hand []domain.Piece, view DeclareView) int
	// ChoosePlay picks the pieces to table.
	ChoosePlay(hand []domain.Piece, view TableView) []domain.Piece
	// Observe feeds game events to strategies that track table state.
	Observe(event interface{})
}
