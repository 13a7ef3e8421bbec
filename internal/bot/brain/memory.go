package brain

import "liaptui/internal/domain"

// PieceStatus represents what the bot knows about a specific piece.
type PieceStatus int

const (
	StatusUnknown PieceStatus = iota // location not known
	StatusMine                       // in the bot's hand
	StatusSeen                       // already tabled this round
)

// fullDeck gives the piece at each status index. pieceToIndex mirrors the
// deck build order: one 16-piece block per color.
var fullDeck = domain.NewDeck()

// kindOffset positions each kind inside one color's block.
var kindOffset = [...]int{
	domain.General:  0,
	domain.Advisor:  1,
	domain.Elephant: 3,
	domain.Chariot:  5,
	domain.Horse:    7,
	domain.Cannon:   9,
	domain.Soldier:  11,
}

// RoundMemory stores the bot's private view of the table.
type RoundMemory struct {
	status [domain.DeckSize]PieceStatus
	// Opponents tracks behavioral profiles by player id. Profiles survive
	// redeals and new rounds.
	Opponents map[string]*OpponentProfile
	// TrickBest is the play currently holding the trick.
	TrickBest domain.Play
}

// NewMemory initializes a fresh memory state.
func NewMemory() *RoundMemory {
	return &RoundMemory{Opponents: make(map[string]*OpponentProfile)}
}

// ResetRound clears piece knowledge for a fresh deal. Behavioral history
// stays.
func (m *RoundMemory) ResetRound() {
	for i := range m.status {
		m.status[i] = StatusUnknown
	}
	m.TrickBest = domain.Play{}
	for _, p := range m.Opponents {
		p.PiecesRemaining = domain.HandSize
	}
}

// MarkMine records the pieces currently in the bot's hand.
func (m *RoundMemory) MarkMine(pieces []domain.Piece) {
	for _, p := range pieces {
		m.status[pieceToIndex(p)] = StatusMine
	}
}

// MarkSeen records pieces revealed on the table.
func (m *RoundMemory) MarkSeen(pieces []domain.Piece) {
	for _, p := range pieces {
		m.status[pieceToIndex(p)] = StatusSeen
	}
}

// SyncHand re-marks the hand after plays shifted it. Pieces that left the
// hand fall back to Unknown until their table reveal lands.
func (m *RoundMemory) SyncHand(hand []domain.Piece) {
	for i, s := range m.status {
		if s == StatusMine {
			m.status[i] = StatusUnknown
		}
	}
	m.MarkMine(hand)
}

// StartTrick clears the play to beat.
func (m *RoundMemory) StartTrick() {
	m.TrickBest = domain.Play{}
}

// RecordPlay logs that a player tabled pieces. A valid play that tops the
// trick becomes the new TrickBest; anything else counts as a failure against
// it, since followers table pieces whether they can win or not.
func (m *RoundMemory) RecordPlay(playerID string, pieces []domain.Piece, valid bool) {
	m.MarkSeen(pieces)

	p, ok := m.Opponents[playerID]
	if !ok {
		p = NewOpponentProfile(playerID)
		m.Opponents[playerID] = p
	}

	play := domain.IdentifyPlay(pieces)
	if valid && play.Beats(m.TrickBest) {
		p.RecordPlay(play)
		m.TrickBest = play
	} else {
		p.RecordFailure(m.TrickBest)
	}

	p.PiecesRemaining -= len(pieces)
	if p.PiecesRemaining < 0 {
		p.PiecesRemaining = 0
	}
}

// IsBoss reports whether no unseen piece can top this one as a single. Ties
// lose to the piece already holding the trick, so equal points elsewhere do
// not threaten it.
func (m *RoundMemory) IsBoss(piece domain.Piece) bool {
	for i, s := range m.status {
		if s != StatusUnknown {
			continue
		}
		if fullDeck[i].Points() > piece.Points() {
			return false
		}
	}
	return true
}

// IsSeen reports whether the piece has already shown up on the table.
func (m *RoundMemory) IsSeen(piece domain.Piece) bool {
	return m.status[pieceToIndex(piece)] == StatusSeen
}

// Unseen lists every piece whose location is still unknown.
func (m *RoundMemory) Unseen() []domain.Piece {
	var out []domain.Piece
	for i, s := range m.status {
		if s == StatusUnknown {
			out = append(out, fullDeck[i])
		}
	}
	return out
}

func pieceToIndex(p domain.Piece) int {
	return int(p.Color)*16 + kindOffset[p.Kind] + int(p.Copy)
}
