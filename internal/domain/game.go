package domain

// Player holds state for one seat in a room.
type Player struct {
	ID        string
	Name      string
	Seat      int // 0-based seat index
	IsBot     bool
	IsHost    bool
	Connected bool

	Hand       []Piece
	Declared   int // piles declared this round, -1 before declaring
	Captured   int // piles captured this round
	Score      int // cumulative score across rounds
	ZeroStreak int // consecutive rounds declaring zero
}

// Game is the authoritative aggregate for one room. All mutation happens
// under the owning machine's lock.
type Game struct {
	RoomID string

	Players map[string]*Player
	Seats   [NumSeats]string // seat index -> player id, "" when empty
	HostID  string

	Round            int
	StarterID        string
	RedealMultiplier int
	LastTrickWinner  string
	Winners          []string
}

// NewGame returns an empty aggregate for a room.
func NewGame(roomID string) *Game {
	return &Game{
		RoomID:           roomID,
		Players:          make(map[string]*Player),
		RedealMultiplier: 1,
	}
}

// LowestFreeSeat returns the first open seat index, or -1 when full.
func (g *Game) LowestFreeSeat() int {
	for i, id := range g.Seats {
		if id == "" {
			return i
		}
	}
	return -1
}

// SeatedCount returns how many seats are occupied.
func (g *Game) SeatedCount() int {
	n := 0
	for _, id := range g.Seats {
		if id != "" {
			n++
		}
	}
	return n
}

// AddPlayer seats a player at the lowest free seat. The first player to sit
// becomes host. Returns nil when the room is full or the id is taken.
func (g *Game) AddPlayer(id, name string, isBot bool) *Player {
	if _, exists := g.Players[id]; exists {
		return nil
	}
	seat := g.LowestFreeSeat()
	if seat < 0 {
		return nil
	}
	p := &Player{
		ID:        id,
		Name:      name,
		Seat:      seat,
		IsBot:     isBot,
		Connected: true,
		Declared:  -1,
	}
	if g.SeatedCount() == 0 {
		p.IsHost = true
		g.HostID = id
	}
	g.Players[id] = p
	g.Seats[seat] = id
	return p
}

// RemovePlayer frees the player's seat. Host passes to the next occupied
// seat when the host leaves.
func (g *Game) RemovePlayer(id string) bool {
	p, ok := g.Players[id]
	if !ok {
		return false
	}
	g.Seats[p.Seat] = ""
	delete(g.Players, id)
	if g.HostID == id {
		g.HostID = ""
		for _, sid := range g.Seats {
			if sid != "" {
				g.HostID = sid
				g.Players[sid].IsHost = true
				break
			}
		}
	}
	return true
}

// PlayerAtSeat returns the player seated at idx, or nil.
func (g *Game) PlayerAtSeat(idx int) *Player {
	if idx < 0 || idx >= NumSeats || g.Seats[idx] == "" {
		return nil
	}
	return g.Players[g.Seats[idx]]
}

// SeatOrderFrom returns occupied player ids in seat order starting at the
// given player and wrapping around the table.
func (g *Game) SeatOrderFrom(startID string) []string {
	start := 0
	if p, ok := g.Players[startID]; ok {
		start = p.Seat
	}
	order := make([]string, 0, NumSeats)
	for i := 0; i < NumSeats; i++ {
		if id := g.Seats[(start+i)%NumSeats]; id != "" {
			order = append(order, id)
		}
	}
	return order
}

// GeneralRedHolder returns the id of the player holding the single
// strongest piece, or "" when nobody does.
func (g *Game) GeneralRedHolder() string {
	for _, p := range g.Players {
		for _, piece := range p.Hand {
			if piece.Kind == General && piece.Color == Red {
				return p.ID
			}
		}
	}
	return ""
}

// RoundStarter picks the opening seat for a round: the first round goes to
// the holder of the strongest piece, later rounds to the previous round's
// last trick winner, falling back to the first occupied seat.
func (g *Game) RoundStarter() string {
	if g.Round <= 1 {
		if id := g.GeneralRedHolder(); id != "" {
			return id
		}
	}
	if g.LastTrickWinner != "" {
		if _, ok := g.Players[g.LastTrickWinner]; ok {
			return g.LastTrickWinner
		}
	}
	for _, id := range g.Seats {
		if id != "" {
			return id
		}
	}
	return ""
}

// ResetRound clears per-round player fields ahead of a new deal.
func (g *Game) ResetRound() {
	for _, p := range g.Players {
		p.Hand = nil
		p.Declared = -1
		p.Captured = 0
	}
}

// AllHandsEmpty reports whether every seated player has played out.
func (g *Game) AllHandsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// TopScorers returns every player id sharing the highest cumulative score.
func (g *Game) TopScorers() []string {
	best := 0
	first := true
	for _, p := range g.Players {
		if first || p.Score > best {
			best = p.Score
			first = false
		}
	}
	if first {
		return nil
	}
	var top []string
	for _, id := range g.Seats {
		if id == "" {
			continue
		}
		if g.Players[id].Score == best {
			top = append(top, id)
		}
	}
	return top
}
