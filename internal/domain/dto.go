package domain

import "fmt"

// Serializable views for everything that crosses the broadcast or journal
// boundary. Internal types never serialize directly.

// PieceDTO is the wire form of a piece. Copy rides along so clients can
// submit the exact pieces they were dealt.
type PieceDTO struct {
	Kind   string `json:"kind"`
	Color  string `json:"color"`
	Copy   int    `json:"copy"`
	Points int    `json:"points"`
	Label  string `json:"label"`
}

// PieceToDTO converts a piece to its wire form.
func PieceToDTO(p Piece) PieceDTO {
	return PieceDTO{
		Kind:   p.Kind.String(),
		Color:  p.Color.String(),
		Copy:   int(p.Copy),
		Points: p.Points(),
		Label:  p.Label(),
	}
}

// PiecesToDTO converts a slice of pieces to wire form.
func PiecesToDTO(pieces []Piece) []PieceDTO {
	out := make([]PieceDTO, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, PieceToDTO(p))
	}
	return out
}

var kindsByName = map[string]Kind{
	"GENERAL":  General,
	"ADVISOR":  Advisor,
	"ELEPHANT": Elephant,
	"CHARIOT":  Chariot,
	"HORSE":    Horse,
	"CANNON":   Cannon,
	"SOLDIER":  Soldier,
}

// PieceFromDTO resolves a wire piece back to its identity. Point and label
// fields are ignored; kind, color and copy define the piece.
func PieceFromDTO(d PieceDTO) (Piece, error) {
	kind, ok := kindsByName[d.Kind]
	if !ok {
		return Piece{}, fmt.Errorf("unknown piece kind %q", d.Kind)
	}
	var color Color
	switch d.Color {
	case "RED":
		color = Red
	case "BLACK":
		color = Black
	default:
		return Piece{}, fmt.Errorf("unknown piece color %q", d.Color)
	}
	if d.Copy < 0 || d.Copy >= copiesPerColor[kind] {
		return Piece{}, fmt.Errorf("piece copy %d out of range for %s", d.Copy, d.Kind)
	}
	return Piece{Kind: kind, Color: color, Copy: int8(d.Copy)}, nil
}

// PiecesFromDTO resolves a slice of wire pieces.
func PiecesFromDTO(dtos []PieceDTO) ([]Piece, error) {
	out := make([]Piece, 0, len(dtos))
	for _, d := range dtos {
		p, err := PieceFromDTO(d)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PlayDTO is the wire form of a classified play.
type PlayDTO struct {
	Type   string     `json:"type"`
	Value  int        `json:"value"`
	Pieces []PieceDTO `json:"pieces"`
}

// PlayToDTO converts a play to wire form.
func PlayToDTO(p Play) PlayDTO {
	return PlayDTO{
		Type:   p.Type.String(),
		Value:  p.Value,
		Pieces: PiecesToDTO(p.Pieces),
	}
}

// PlayerDTO is the public wire view of a seat. Hands stay private; only the
// count crosses the room boundary.
type PlayerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	IsBot      bool   `json:"is_bot"`
	IsHost     bool   `json:"is_host"`
	Connected  bool   `json:"connected"`
	HandSize   int    `json:"hand_size"`
	Declared   int    `json:"declared"`
	Captured   int    `json:"captured"`
	Score      int    `json:"score"`
	ZeroStreak int    `json:"zero_streak"`
}

// PlayerToDTO converts a player to its public wire view.
func PlayerToDTO(p *Player) PlayerDTO {
	return PlayerDTO{
		ID:         p.ID,
		Name:       p.Name,
		Seat:       p.Seat,
		IsBot:      p.IsBot,
		IsHost:     p.IsHost,
		Connected:  p.Connected,
		HandSize:   len(p.Hand),
		Declared:   p.Declared,
		Captured:   p.Captured,
		Score:      p.Score,
		ZeroStreak: p.ZeroStreak,
	}
}

// PlayersToDTO converts all seated players in seat order.
func PlayersToDTO(g *Game) []PlayerDTO {
	out := make([]PlayerDTO, 0, NumSeats)
	for _, id := range g.Seats {
		if id == "" {
			continue
		}
		out = append(out, PlayerToDTO(g.Players[id]))
	}
	return out
}

// RankedPlayDTO is one line of a trick's resolved ranking.
type RankedPlayDTO struct {
	PlayerID string  `json:"player_id"`
	Rank     int     `json:"rank"`
	Valid    bool    `json:"valid"`
	Play     PlayDTO `json:"play"`
}

// TurnResultDTO is the wire form of a resolved trick.
type TurnResultDTO struct {
	WinnerID string          `json:"winner_id"`
	Piles    int             `json:"piles"`
	Ranking  []RankedPlayDTO `json:"ranking"`
}

// TurnResultToDTO converts a turn result to wire form.
func TurnResultToDTO(res TurnResult) TurnResultDTO {
	ranking := make([]RankedPlayDTO, 0, len(res.Ranking))
	for _, rp := range res.Ranking {
		ranking = append(ranking, RankedPlayDTO{
			PlayerID: rp.PlayerID,
			Rank:     rp.Rank,
			Valid:    rp.Valid,
			Play:     PlayToDTO(rp.Play),
		})
	}
	return TurnResultDTO{WinnerID: res.WinnerID, Piles: res.Piles, Ranking: ranking}
}
