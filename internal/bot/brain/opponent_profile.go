package brain

import "liaptui/internal/domain"

// OpponentProfile tracks the behavioral history of a specific player.
type OpponentProfile struct {
	ID              string
	PiecesRemaining int
	// Weaknesses maps a play type to the strongest value the player failed
	// to top when forced to follow.
	Weaknesses map[domain.PlayType]int
	// PlayedStats counts how many of each play type this player has tabled.
	PlayedStats map[domain.PlayType]int

	// Bid history, accumulated across rounds.
	RoundsSeen    int
	TotalDeclared int
	TotalCaptured int
}

// NewOpponentProfile initializes a profile for a player.
func NewOpponentProfile(id string) *OpponentProfile {
	return &OpponentProfile{
		ID:              id,
		PiecesRemaining: domain.HandSize,
		Weaknesses:      make(map[domain.PlayType]int),
		PlayedStats:     make(map[domain.PlayType]int),
	}
}

// RecordPlay logs a play tabled by this player.
func (p *OpponentProfile) RecordPlay(play domain.Play) {
	if play.Type == domain.Invalid {
		return
	}
	p.PlayedStats[play.Type]++
}

// RecordFailure notes that this player could not top the play holding the
// trick.
func (p *OpponentProfile) RecordFailure(best domain.Play) {
	if best.Type == domain.Invalid {
		return
	}
	if best.Value > p.Weaknesses[best.Type] {
		p.Weaknesses[best.Type] = best.Value
	}
}

// CanPossiblyTop returns false only when the player already failed against
// something at least this strong.
func (p *OpponentProfile) CanPossiblyTop(play domain.Play) bool {
	maxFailed, ok := p.Weaknesses[play.Type]
	if !ok {
		return true
	}
	return play.Value < maxFailed
}

// RecordRound folds one round's declaration into the bid history.
func (p *OpponentProfile) RecordRound(declared, captured int) {
	p.RoundsSeen++
	p.TotalDeclared += declared
	p.TotalCaptured += captured
}

// BidBias returns the player's average declaration error per round.
// Positive means they promise more piles than they take.
func (p *OpponentProfile) BidBias() float64 {
	if p.RoundsSeen == 0 {
		return 0
	}
	return float64(p.TotalDeclared-p.TotalCaptured) / float64(p.RoundsSeen)
}
