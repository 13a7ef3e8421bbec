package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/rs/zerolog"

	"liaptui/internal/app"
	"liaptui/internal/bot"
	"liaptui/internal/config"
	"liaptui/internal/domain"
	"liaptui/internal/ports"
	"liaptui/internal/ports/sqlite"
)

// MatchLabel is the queryable JSON label kept current as the room changes.
type MatchLabel struct {
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Open  int    `json:"open"`
}

// MatchState is the per-room wiring. Game state lives inside the engine;
// Nakama only carries this shell between callbacks.
type MatchState struct {
	Machine *app.GameMachine
	Coord   *bot.Coordinator
	Sink    *dispatcherSink
	Store   *sqlite.Store
	Label   MatchLabel
}

// RoomStateResponse syncs one client: the public snapshot plus that
// player's private hand and currently legal actions.
type RoomStateResponse struct {
	Snapshot app.RoomSnapshot  `json:"snapshot"`
	Hand     []domain.PieceDTO `json:"hand,omitempty"`
	Allowed  []string          `json:"allowed,omitempty"`
}

type matchHandler struct{}

func newMatchHandler() *matchHandler { return &matchHandler{} }

// MatchInit builds the engine and bot coordinator for a fresh room. The
// engine drives its own timers; Nakama ticks only pump client messages.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.Load(""); err != nil {
		logger.Warn("MatchInit: engine config not loaded, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(config.BotIdentitiesPath()); err != nil {
		logger.Warn("MatchInit: bot identities not loaded, using generated names: %v", err)
	}

	roomID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if roomID == "" {
		roomID = uuid.NewString()
	}

	var journal ports.EventStore
	var store *sqlite.Store
	if path := config.EventStorePath(); path != "" {
		st, err := sqlite.New(path)
		if err != nil {
			logger.Warn("MatchInit: event store disabled: %v", err)
		} else {
			store = st
			journal = st
		}
	}

	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	sink := newDispatcherSink()
	level := bot.ParseLevel(config.BotLevel())

	// The machine asks for bot seats only at game start, after the
	// coordinator below exists.
	var coord *bot.Coordinator
	machine := app.NewGameMachine(roomID, zlog, sink, journal, app.Options{
		RedealTimeout:  config.RedealTimeout(),
		RedealWarning:  config.RedealWarning(),
		DeclareTimeout: config.DeclareTimeout(),
		PlayTimeout:    config.PlayTimeout(),
		WinThreshold:   config.WinThreshold(),
		MaxRedeals:     config.MaxRedeals(),
		BotIdentity: func(seat int) (string, string) {
			return coord.SeatFiller(level)(seat)
		},
	})
	coord = bot.NewCoordinator(zlog, machine, bot.CoordinatorOptions{
		MinThinkDelay: config.BotMinDelay(),
		MaxThinkDelay: config.BotMaxDelay(),
	})
	coord.Start()

	if err := machine.Start(app.PhaseWaiting); err != nil {
		logger.Error("MatchInit: engine start failed: %v", err)
		return nil, 0, ""
	}

	state := &MatchState{
		Machine: machine,
		Coord:   coord,
		Sink:    sink,
		Store:   store,
		Label:   MatchLabel{Game: LabelGame, Phase: string(app.PhaseWaiting), Open: domain.NumSeats},
	}

	labelBytes, err := json.Marshal(state.Label)
	if err != nil {
		logger.Error("MatchInit: label marshal failed: %v", err)
		return nil, 0, ""
	}

	tickRate := 5
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	snap := ms.Machine.Snapshot()
	userID := presence.GetUserId()
	for _, pl := range snap.Players {
		if pl.ID == userID {
			// Seat survived a drop; let the player back in.
			return ms, true, ""
		}
	}
	if snap.Phase != string(app.PhaseWaiting) {
		return ms, false, "game in progress"
	}
	if len(snap.Players) >= domain.NumSeats {
		return ms, false, "room full"
	}
	return ms, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	ms.Sink.Bind(dispatcher)

	for _, p := range presences {
		ms.Sink.Track(p)
		userID := p.GetUserId()

		if ms.Machine.MarkConnected(userID) {
			logger.Info("MatchJoin: %s reconnected", userID)
		} else {
			res := ms.Machine.HandleAction(app.Action{
				Kind:     app.ActionJoin,
				PlayerID: userID,
				Name:     p.GetUsername(),
				Source:   app.SourceHuman,
			})
			if res.Rejection != nil {
				logger.Warn("MatchJoin: %s not seated: %s", userID, res.Rejection.Code)
			}
		}

		mh.sendRoomState(ms, dispatcher, logger, p)
	}

	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	ms.Sink.Bind(dispatcher)

	for _, p := range presences {
		userID := p.GetUserId()
		ms.Sink.Forget(userID)
		res := ms.Machine.HandleAction(app.Action{
			Kind:     app.ActionLeave,
			PlayerID: userID,
			Source:   app.SourceHuman,
		})
		if res.Rejection != nil {
			logger.Debug("MatchLeave: %s leave rejected: %s", userID, res.Rejection.Code)
		}
	}

	if !humansRemaining(ms.Machine.Snapshot()) {
		logger.Info("MatchLeave: no humans left, terminating room")
		mh.shutdown(ms)
		return nil
	}

	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		return state
	}
	ms.Sink.Bind(dispatcher)

	for _, msg := range messages {
		if msg.GetOpCode() == OpRequestState {
			if p, ok := ms.Sink.Presence(msg.GetUserId()); ok {
				mh.sendRoomState(ms, dispatcher, logger, p)
			}
			continue
		}

		action, err := actionFromMessage(msg)
		if err != nil {
			logger.Warn("MatchLoop: dropping message from %s: %v", msg.GetUserId(), err)
			continue
		}
		res := ms.Machine.HandleAction(action)
		if res.Rejection != nil {
			// The engine already told the sender privately.
			logger.Debug("MatchLoop: %s %s rejected: %s", msg.GetUserId(), action.Kind, res.Rejection.Code)
		}
	}

	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: reason %d", reason)
	if ms, ok := state.(*MatchState); ok {
		mh.shutdown(ms)
	}
	return state
}

// MatchSignal answers with the room snapshot, which makes signals a cheap
// operational peek into a live room.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	snap, err := json.Marshal(ms.Machine.Snapshot())
	if err != nil {
		logger.Error("MatchSignal: snapshot marshal failed: %v", err)
		return ms, ""
	}
	return ms, string(snap)
}

// shutdown stops the engine, drains the bot coordinator and releases the
// journal.
func (mh *matchHandler) shutdown(ms *MatchState) {
	ms.Machine.Stop()
	ms.Coord.Wait()
	if ms.Store != nil {
		ms.Store.Close()
	}
}

// humansRemaining reports whether any connected human still holds a seat.
func humansRemaining(snap app.RoomSnapshot) bool {
	for _, pl := range snap.Players {
		if !pl.IsBot && pl.Connected {
			return true
		}
	}
	return false
}

func (mh *matchHandler) sendRoomState(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presence runtime.Presence) {
	userID := presence.GetUserId()
	resp := RoomStateResponse{Snapshot: ms.Machine.Snapshot()}
	if hand, ok := ms.Machine.PlayerHand(userID); ok {
		resp.Hand = domain.PiecesToDTO(hand)
	}
	for _, kind := range ms.Machine.AllowedActions(userID) {
		resp.Allowed = append(resp.Allowed, kind.String())
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("sendRoomState: marshal failed: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpRoomState, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendRoomState: send failed: %v", err)
	}
}

// updateLabel pushes a fresh label only when phase or seating changed.
func (mh *matchHandler) updateLabel(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	snap := ms.Machine.Snapshot()
	label := MatchLabel{
		Game:  LabelGame,
		Phase: snap.Phase,
		Open:  domain.NumSeats - len(snap.Players),
	}
	if label == ms.Label {
		return
	}
	data, err := json.Marshal(label)
	if err != nil {
		logger.Error("updateLabel: marshal failed: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(data)); err != nil {
		logger.Error("updateLabel: update failed: %v", err)
		return
	}
	ms.Label = label
}
