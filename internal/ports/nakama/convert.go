package nakama

import (
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"liaptui/internal/app"
	"liaptui/internal/domain"
)

// Client request payloads. Everything on the wire is JSON keyed by op code.

type RedealDecisionRequest struct {
	Accept bool `json:"accept"`
}

type DeclareRequest struct {
	Value int `json:"value"`
}

type PlayPiecesRequest struct {
	Pieces []domain.PieceDTO `json:"pieces"`
}

// actionFromMessage maps a client match message onto an engine action. The
// sender's user id becomes the acting player; the engine decides whether the
// action is legal.
func actionFromMessage(msg runtime.MatchData) (app.Action, error) {
	a := app.Action{PlayerID: msg.GetUserId(), Source: app.SourceHuman}

	switch msg.GetOpCode() {
	case OpStartGame:
		a.Kind = app.ActionStartGame
	case OpRedealDecision:
		var req RedealDecisionRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return app.Action{}, fmt.Errorf("bad redeal_decision payload: %w", err)
		}
		a.Kind = app.ActionRedealDecision
		a.Accept = req.Accept
	case OpDeclare:
		var req DeclareRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return app.Action{}, fmt.Errorf("bad declare payload: %w", err)
		}
		a.Kind = app.ActionDeclare
		a.Value = req.Value
	case OpPlayPieces:
		var req PlayPiecesRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			return app.Action{}, fmt.Errorf("bad play_pieces payload: %w", err)
		}
		pieces, err := domain.PiecesFromDTO(req.Pieces)
		if err != nil {
			return app.Action{}, fmt.Errorf("bad play_pieces payload: %w", err)
		}
		a.Kind = app.ActionPlayPieces
		a.Pieces = pieces
	default:
		return app.Action{}, fmt.Errorf("unknown opcode %d", msg.GetOpCode())
	}
	return a, nil
}

var noteOpcodes = map[app.NotificationKind]int64{
	app.NotePlayerJoined:    OpPlayerJoined,
	app.NotePlayerLeft:      OpPlayerLeft,
	app.NotePhaseChanged:    OpPhaseChanged,
	app.NoteGameStarted:     OpGameStarted,
	app.NoteHandDealt:       OpHandDealt,
	app.NoteWeakHands:       OpWeakHands,
	app.NoteRedealWarning:   OpRedealWarning,
	app.NoteRedealDecision:  OpRedealDecided,
	app.NoteRedealExecuted:  OpRedealExecuted,
	app.NoteDeclarationTurn: OpDeclarationTurn,
	app.NoteDeclarationMade: OpDeclarationMade,
	app.NoteTrickStarted:    OpTrickStarted,
	app.NotePlayMade:        OpPlayMade,
	app.NoteTurnResolved:    OpTurnResolved,
	app.NoteRoundScored:     OpRoundScored,
	app.NoteGameOver:        OpGameOver,
	app.NoteActionRejected:  OpActionRejected,
}

// opcodeForNote resolves the wire op code for an engine notification kind.
// Unknown kinds report false and are not sent.
func opcodeForNote(kind string) (int64, bool) {
	op, ok := noteOpcodes[app.NotificationKind(kind)]
	return op, ok
}
