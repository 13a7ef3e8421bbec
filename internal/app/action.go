package app

import (
	"fmt"

	"liaptui/internal/domain"
)

// ActionKind enumerates every message the machine accepts. Dispatch is a
// switch on this tag; the payload fields on Action are read per kind.
type ActionKind int

const (
	ActionJoin ActionKind = iota
	ActionLeave
	ActionStartGame
	ActionRedealDecision
	ActionDeclare
	ActionPlayPieces
	ActionTimeout
	ActionRedealWarning
)

var actionNames = [...]string{
	ActionJoin:           "join",
	ActionLeave:          "leave",
	ActionStartGame:      "start_game",
	ActionRedealDecision: "redeal_decision",
	ActionDeclare:        "declare",
	ActionPlayPieces:     "play_pieces",
	ActionTimeout:        "timeout",
	ActionRedealWarning:  "redeal_warning",
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[k]
}

// ActionSource records where an action originated.
type ActionSource int8

const (
	SourceHuman ActionSource = iota
	SourceBot
	SourceTimer
)

func (s ActionSource) String() string {
	switch s {
	case SourceBot:
		return "bot"
	case SourceTimer:
		return "timer"
	default:
		return "human"
	}
}

// Slot pins background work to the decision window it was scheduled for.
// The live phase compares an expired slot against its own and drops stale
// submissions, so timer races resolve by identity instead of timing.
type Slot struct {
	Phase    PhaseName
	Round    int
	Redeals  int    // redeal wave within the round
	Turn     int    // declaration position or trick number
	PlayerID string // whose window, empty for group windows
}

// Action is the single mutation message. Kind selects which payload fields
// are meaningful; unused fields stay at their zero values.
type Action struct {
	Kind     ActionKind
	PlayerID string
	Source   ActionSource

	// ActionJoin
	Name  string
	IsBot bool

	// ActionRedealDecision
	Accept bool

	// ActionDeclare
	Value int

	// ActionPlayPieces
	Pieces []domain.Piece

	// ActionTimeout / ActionRedealWarning
	Expired Slot
}

// Rejection codes surfaced to clients. Stable strings, not display text.
const (
	RejectNotRunning     = "not_running"
	RejectWrongPhase     = "wrong_phase"
	RejectRoomFull       = "room_full"
	RejectAlreadySeated  = "already_seated"
	RejectNotSeated      = "not_seated"
	RejectNotHost        = "not_host"
	RejectTooFewPlayers  = "too_few_players"
	RejectNotWeak        = "not_weak"
	RejectAlreadyDecided = "already_decided"
	RejectNotYourTurn    = "not_your_turn"
	RejectOutOfRange     = "out_of_range"
	RejectTotalForbidden = "total_forbidden"
	RejectBadPlaySize    = "bad_play_size"
	RejectPiecesNotHeld  = "pieces_not_held"
	RejectInvalidPlay    = "invalid_play"
	RejectStaleTimeout   = "stale_timeout"
	RejectGameOver       = "game_over"
)

// Rejection explains a refused action. Rejections are values, not errors:
// they flow back in the Result and as a private notification, and the
// machine state is untouched.
type Rejection struct {
	Code    string
	Message string
}

func reject(code, format string, args ...interface{}) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

func rejectWrongPhase(a Action, phase PhaseName) *Rejection {
	return reject(RejectWrongPhase, "action %s not available in %s", a.Kind, phase)
}

// Result reports how HandleAction fared.
type Result struct {
	// Seq is the admission sequence number stamped under the room lock.
	Seq       uint64
	Accepted  bool
	Rejection *Rejection
	// Phase is the active phase after processing, transitions included.
	Phase PhaseName
}
