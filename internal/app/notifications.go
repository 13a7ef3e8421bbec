package app

import "liaptui/internal/domain"

// NotificationKind identifies emitted engine notifications for transport
// dispatch.
type NotificationKind string

const (
	NotePlayerJoined    NotificationKind = "player_joined"
	NotePlayerLeft      NotificationKind = "player_left"
	NotePhaseChanged    NotificationKind = "phase_changed"
	NoteGameStarted     NotificationKind = "game_started"
	NoteHandDealt       NotificationKind = "hand_dealt"
	NoteWeakHands       NotificationKind = "weak_hands"
	NoteRedealWarning   NotificationKind = "redeal_warning"
	NoteRedealDecision  NotificationKind = "redeal_decision"
	NoteRedealExecuted  NotificationKind = "redeal_executed"
	NoteDeclarationTurn NotificationKind = "declaration_turn"
	NoteDeclarationMade NotificationKind = "declaration_made"
	NoteTrickStarted    NotificationKind = "trick_started"
	NotePlayMade        NotificationKind = "play_made"
	NoteTurnResolved    NotificationKind = "turn_resolved"
	NoteRoundScored     NotificationKind = "round_scored"
	NoteGameOver        NotificationKind = "game_over"
	NoteActionRejected  NotificationKind = "action_rejected"
)

// Notification is one outbound engine message with optional targeted
// recipients. Payloads are closed DTO structs; nothing else crosses the
// broadcast boundary.
type Notification struct {
	Kind       NotificationKind
	Payload    interface{}
	Recipients []string // player ids; empty means the whole room
}

type PlayerJoinedPayload struct {
	Player domain.PlayerDTO `json:"player"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
	// Removed is true for a lobby exit, false for a mid-game drop that
	// keeps the seat.
	Removed bool `json:"removed"`
}

type PhaseChangedPayload struct {
	Phase  string `json:"phase"`
	Reason string `json:"reason"`
	Round  int    `json:"round"`
	Seq    uint64 `json:"seq"`
}

type GameStartedPayload struct {
	Players []domain.PlayerDTO `json:"players"`
}

type HandDealtPayload struct {
	PlayerID string            `json:"player_id"`
	Round    int               `json:"round"`
	Hand     []domain.PieceDTO `json:"hand"`
	Weak     bool              `json:"weak"`
}

type WeakHandsPayload struct {
	Round          int      `json:"round"`
	PlayerIDs      []string `json:"player_ids"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	Redeals        int      `json:"redeals"`
}

type RedealWarningPayload struct {
	Round       int      `json:"round"`
	Pending     []string `json:"pending"`
	SecondsLeft int      `json:"seconds_left"`
}

type RedealDecisionPayload struct {
	PlayerID string `json:"player_id"`
	Accepted bool   `json:"accepted"`
	// Forced marks a decision applied by the timeout fallback.
	Forced bool `json:"forced"`
}

type RedealExecutedPayload struct {
	AccepterID string `json:"accepter_id"`
	Multiplier int    `json:"multiplier"`
	Redeals    int    `json:"redeals"`
}

type DeclarationTurnPayload struct {
	PlayerID string `json:"player_id"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
	// Forbidden is the value this player may not declare, or -1.
	Forbidden int `json:"forbidden"`
}

type DeclarationMadePayload struct {
	PlayerID string `json:"player_id"`
	Value    int    `json:"value"`
	Total    int    `json:"total"`
	Forced   bool   `json:"forced"`
}

type TrickStartedPayload struct {
	Round   int    `json:"round"`
	Trick   int    `json:"trick"`
	Starter string `json:"starter"`
}

type PlayMadePayload struct {
	PlayerID string         `json:"player_id"`
	Play     domain.PlayDTO `json:"play"`
	Valid    bool           `json:"valid"`
	Required int            `json:"required"`
	// Next is the next player to act, empty once the trick is full.
	Next   string `json:"next"`
	Forced bool   `json:"forced"`
}

type TurnResolvedPayload struct {
	Round  int                  `json:"round"`
	Trick  int                  `json:"trick"`
	Result domain.TurnResultDTO `json:"result"`
}

type ScoreLine struct {
	PlayerID string `json:"player_id"`
	Declared int    `json:"declared"`
	Captured int    `json:"captured"`
	Base     int    `json:"base"`
	Delta    int    `json:"delta"`
	Total    int    `json:"total"`
}

type RoundScoredPayload struct {
	Round      int         `json:"round"`
	Multiplier int         `json:"multiplier"`
	Lines      []ScoreLine `json:"lines"`
}

type GameOverPayload struct {
	Winners   []string           `json:"winners"`
	Standings []domain.PlayerDTO `json:"standings"`
	Rounds    int                `json:"rounds"`
}

type ActionRejectedPayload struct {
	Action  string `json:"action"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Seq     uint64 `json:"seq"`
}
