package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"liaptui/internal/domain"
	"liaptui/internal/ports"
)

var (
	ErrAlreadyRunning = errors.New("machine already running")
	ErrUnknownPhase   = errors.New("unknown phase")
)

const (
	defaultRedealTimeout  = 30 * time.Second
	defaultRedealWarning  = 20 * time.Second
	defaultDeclareTimeout = 30 * time.Second
	defaultPlayTimeout    = 30 * time.Second
	defaultWinThreshold   = 50
	defaultMaxRedeals     = 3
	defaultHistorySize    = 50
	defaultBotFeedSize    = 256

	// storeTimeout bounds best-effort journal writes.
	storeTimeout = 2 * time.Second

	// disconnectedGrace is the shortened window applied when the player
	// whose turn it is has already dropped.
	disconnectedGrace = 25 * time.Millisecond

	// maxTransitionChain caps one drain of the transition driver.
	maxTransitionChain = 16
)

// Options tunes one machine. Zero values fall back to defaults.
type Options struct {
	RedealTimeout  time.Duration
	RedealWarning  time.Duration // elapsed time before the warning fires
	DeclareTimeout time.Duration
	PlayTimeout    time.Duration
	WinThreshold   int
	MaxRedeals     int // redeal waves allowed per round
	HistorySize    int
	BotFeedSize    int
	// BotIdentity names the bot seated at an empty seat on game start.
	BotIdentity func(seat int) (id, name string)
	Rand        *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.RedealTimeout <= 0 {
		o.RedealTimeout = defaultRedealTimeout
	}
	if o.RedealWarning <= 0 || o.RedealWarning >= o.RedealTimeout {
		o.RedealWarning = o.RedealTimeout * 2 / 3
	}
	if o.DeclareTimeout <= 0 {
		o.DeclareTimeout = defaultDeclareTimeout
	}
	if o.PlayTimeout <= 0 {
		o.PlayTimeout = defaultPlayTimeout
	}
	if o.WinThreshold <= 0 {
		o.WinThreshold = defaultWinThreshold
	}
	if o.MaxRedeals <= 0 {
		o.MaxRedeals = defaultMaxRedeals
	}
	if o.HistorySize <= 0 {
		o.HistorySize = defaultHistorySize
	}
	if o.BotFeedSize <= 0 {
		o.BotFeedSize = defaultBotFeedSize
	}
	if o.BotIdentity == nil {
		o.BotIdentity = func(seat int) (string, string) {
			return fmt.Sprintf("bot-%d", seat), fmt.Sprintf("Bot %d", seat+1)
		}
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// ChangeRecord is one line of the bounded mutation history.
type ChangeRecord struct {
	Seq    uint64    `json:"seq"`
	Phase  PhaseName `json:"phase"`
	Action string    `json:"action"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

// RoomSnapshot is the public serializable view of a room.
type RoomSnapshot struct {
	RoomID     string                 `json:"room_id"`
	Phase      string                 `json:"phase"`
	Round      int                    `json:"round"`
	Multiplier int                    `json:"multiplier"`
	StarterID  string                 `json:"starter_id"`
	Players    []domain.PlayerDTO     `json:"players"`
	PhaseData  map[string]interface{} `json:"phase_data"`
	Winners    []string               `json:"winners"`
	Seq        uint64                 `json:"seq"`
}

// GameMachine drives one room through its phases. Every mutation funnels
// through HandleAction under the room lock; timers and bots re-enter the
// same way from their own goroutines. Phases never transition directly:
// they return requests that the driver loop applies after each step.
type GameMachine struct {
	mu sync.Mutex

	log   zerolog.Logger
	opt   Options
	rng   *rand.Rand
	game  *domain.Game
	sink  ports.BroadcastSink
	store ports.EventStore

	phases  map[PhaseName]PhaseState
	current PhaseState
	running bool

	seq     uint64
	history []ChangeRecord
	tasks   *TaskSet
	epoch   uint64

	botFeed   chan Notification
	botClosed bool
}

// NewGameMachine wires a machine for one room. A nil sink falls back to a
// no-op; a nil store disables the journal.
func NewGameMachine(roomID string, log zerolog.Logger, sink ports.BroadcastSink, store ports.EventStore, opt Options) *GameMachine {
	opt = opt.withDefaults()
	if sink == nil {
		sink = ports.NopSink{}
	}
	m := &GameMachine{
		log:     log.With().Str("room_id", roomID).Logger(),
		opt:     opt,
		rng:     opt.Rand,
		game:    domain.NewGame(roomID),
		sink:    sink,
		store:   store,
		tasks:   NewTaskSet(),
		botFeed: make(chan Notification, opt.BotFeedSize),
	}
	m.phases = map[PhaseName]PhaseState{
		PhaseWaiting:     newWaitingPhase(m),
		PhasePreparation: newPreparationPhase(m),
		PhaseDeclaration: newDeclarationPhase(m),
		PhaseTurn:        newTurnPhase(m),
		PhaseScoring:     newScoringPhase(m),
		PhaseGameOver:    newGameOverPhase(m),
	}
	return m
}

// Start enters the initial phase and begins accepting actions.
func (m *GameMachine) Start(initial PhaseName) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}
	phase, ok := m.phases[initial]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPhase, initial)
	}
	m.running = true
	m.current = phase
	m.seq++
	m.record(m.seq, "start", "")
	m.log.Info().Str("phase", string(initial)).Msg("machine started")
	m.dispatch(phase.OnEnter())
	m.drainTransitions()
	return nil
}

// Stop halts the machine, cancels pending work and closes the bot feed.
func (m *GameMachine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.tasks.CancelAll()
	if !m.botClosed {
		m.botClosed = true
		close(m.botFeed)
	}
}

// HandleAction admits one action. This is the only mutation entry: it
// stamps a sequence number, validates against the current phase, executes,
// broadcasts, feeds the bots, then lets the driver loop apply any follow-up
// transitions, all before returning.
func (m *GameMachine) HandleAction(a Action) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running || m.current == nil {
		return Result{Rejection: &Rejection{Code: RejectNotRunning, Message: "room is not running"}}
	}

	m.seq++
	seq := m.seq

	if rej := m.current.ValidateAction(a); rej != nil {
		m.log.Debug().
			Str("action", a.Kind.String()).
			Str("player", a.PlayerID).
			Str("code", rej.Code).
			Msg("action rejected")
		m.notifyRejection(a, seq, rej)
		return Result{Seq: seq, Rejection: rej, Phase: m.current.Name()}
	}

	notes, err := m.current.ExecuteAction(a)
	if err != nil {
		// Execution failures keep whatever state was written. No rollback.
		m.log.Error().Err(err).
			Str("action", a.Kind.String()).
			Str("player", a.PlayerID).
			Msg("action execution failed")
	}
	m.record(seq, a.Kind.String(), a.PlayerID)
	m.persist("action_"+a.Kind.String(), actionJournal(a, seq), a.PlayerID)
	m.dispatch(notes)
	m.drainTransitions()
	return Result{Seq: seq, Accepted: true, Phase: m.current.Name()}
}

func actionJournal(a Action, seq uint64) map[string]interface{} {
	entry := map[string]interface{}{
		"seq":    seq,
		"source": a.Source.String(),
	}
	switch a.Kind {
	case ActionRedealDecision:
		entry["accept"] = a.Accept
	case ActionDeclare:
		entry["value"] = a.Value
	case ActionPlayPieces:
		entry["pieces"] = domain.PiecesToDTO(a.Pieces)
	}
	return entry
}

// drainTransitions applies phase moves until the machine settles. Phases
// request moves; the driver applies them one at a time so transitions never
// recurse into each other.
func (m *GameMachine) drainTransitions() {
	for i := 0; i < maxTransitionChain; i++ {
		req := m.current.CheckTransition()
		if req == nil {
			return
		}
		if !m.transitionTo(req.Target, req.Reason) {
			return
		}
	}
	m.log.Error().Msg("transition chain exceeded limit")
}

// transitionTo runs the atomic transition sequence: cancel phase tasks,
// exit, swap, enter, journal, broadcast, feed bots. Illegal edges are
// refused and reported false.
func (m *GameMachine) transitionTo(target PhaseName, reason string) bool {
	from := m.current.Name()
	if !transitionAllowed(from, target) {
		m.log.Warn().
			Str("from", string(from)).
			Str("to", string(target)).
			Str("reason", reason).
			Msg("transition refused")
		return false
	}
	next := m.phases[target]

	m.tasks.CancelAll()
	m.current.OnExit()
	m.current = next
	m.epoch++
	m.seq++
	m.record(m.seq, "transition:"+string(target), "")

	notes := next.OnEnter()

	payload := PhaseChangedPayload{Phase: string(target), Reason: reason, Round: m.game.Round, Seq: m.seq}
	m.persist("phase_changed", payload, "")
	m.deliver(Notification{Kind: NotePhaseChanged, Payload: payload})
	m.dispatch(notes)

	m.log.Info().
		Str("from", string(from)).
		Str("to", string(target)).
		Str("reason", reason).
		Int("round", m.game.Round).
		Msg("phase transition")
	return true
}

// record appends one line to the bounded change history.
func (m *GameMachine) record(seq uint64, action, actor string) {
	m.history = append(m.history, ChangeRecord{
		Seq:    seq,
		Phase:  m.current.Name(),
		Action: action,
		Actor:  actor,
		At:     time.Now(),
	})
	if len(m.history) > m.opt.HistorySize {
		m.history = m.history[len(m.history)-m.opt.HistorySize:]
	}
}

// persist journals best effort; store trouble never disturbs game flow.
func (m *GameMachine) persist(eventType string, payload interface{}, actorID string) {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.StoreEvent(ctx, m.game.RoomID, eventType, payload, actorID); err != nil {
		m.log.Warn().Err(err).Str("event", eventType).Msg("event store write failed")
	}
}

func (m *GameMachine) dispatch(notes []Notification) {
	for _, n := range notes {
		m.deliver(n)
	}
}

// deliver pushes one notification to the sink, then to the bot feed. Sink
// errors are logged and swallowed.
func (m *GameMachine) deliver(n Notification) {
	ctx := context.Background()
	var err error
	if len(n.Recipients) == 0 {
		err = m.sink.NotifyRoom(ctx, string(n.Kind), n.Payload)
	} else {
		for _, id := range n.Recipients {
			if perr := m.sink.NotifyPlayer(ctx, id, string(n.Kind), n.Payload); perr != nil && err == nil {
				err = perr
			}
		}
	}
	if err != nil {
		m.log.Warn().Err(err).Str("kind", string(n.Kind)).Msg("broadcast failed")
	}
	if m.botClosed {
		return
	}
	select {
	case m.botFeed <- n:
	default:
		m.log.Warn().Str("kind", string(n.Kind)).Msg("bot feed full, notification dropped")
	}
}

func (m *GameMachine) notifyRejection(a Action, seq uint64, rej *Rejection) {
	if a.PlayerID == "" {
		return
	}
	m.deliver(Notification{
		Kind: NoteActionRejected,
		Payload: ActionRejectedPayload{
			Action:  a.Kind.String(),
			Code:    rej.Code,
			Message: rej.Message,
			Seq:     seq,
		},
		Recipients: []string{a.PlayerID},
	})
}

// scheduleTimeout arms a phase task that re-enters the machine with a
// timeout action for the given slot.
func (m *GameMachine) scheduleTimeout(name string, d time.Duration, slot Slot) {
	m.tasks.Schedule(name, d, func() {
		m.HandleAction(Action{Kind: ActionTimeout, Source: SourceTimer, Expired: slot})
	})
}

// scheduleWarning arms the advance warning that precedes a timeout.
func (m *GameMachine) scheduleWarning(name string, d time.Duration, slot Slot) {
	m.tasks.Schedule(name, d, func() {
		m.HandleAction(Action{Kind: ActionRedealWarning, Source: SourceTimer, Expired: slot})
	})
}

// markDisconnected flags a player who dropped mid-game. The seat stays;
// pending decision windows fall back to the deterministic timeout policy.
func (m *GameMachine) markDisconnected(playerID string) []Notification {
	pl, ok := m.game.Players[playerID]
	if !ok || !pl.Connected {
		return nil
	}
	pl.Connected = false
	return []Notification{{
		Kind:    NotePlayerLeft,
		Payload: PlayerLeftPayload{PlayerID: playerID, Removed: false},
	}}
}

// connected reports whether the player is still attached.
func (m *GameMachine) connected(playerID string) bool {
	pl, ok := m.game.Players[playerID]
	return ok && pl.Connected
}

// MarkConnected reattaches a seated player after a transport rejoin. The
// waiting phase handles fresh joins; this only flips the flag back for a
// seat that survived a mid-game drop.
func (m *GameMachine) MarkConnected(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	pl, ok := m.game.Players[playerID]
	if !ok || pl.Connected {
		return false
	}
	pl.Connected = true
	m.deliver(Notification{
		Kind:    NotePlayerJoined,
		Payload: PlayerJoinedPayload{Player: domain.PlayerToDTO(pl)},
	})
	return true
}

// CurrentPhase returns the active phase name.
func (m *GameMachine) CurrentPhase() PhaseName {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// PhaseData returns the active phase's serializable snapshot.
func (m *GameMachine) PhaseData() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.Data()
}

// AllowedActions lists what the given player may do right now.
func (m *GameMachine) AllowedActions(playerID string) []ActionKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.AllowedActions(playerID)
}

// Snapshot returns the public room view.
func (m *GameMachine) Snapshot() RoomSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := RoomSnapshot{
		RoomID:     m.game.RoomID,
		Round:      m.game.Round,
		Multiplier: m.game.RedealMultiplier,
		StarterID:  m.game.StarterID,
		Players:    domain.PlayersToDTO(m.game),
		Winners:    append([]string(nil), m.game.Winners...),
		Seq:        m.seq,
	}
	if m.current != nil {
		snap.Phase = string(m.current.Name())
		snap.PhaseData = m.current.Data()
	}
	return snap
}

// PlayerHand returns a copy of a seated player's current hand.
func (m *GameMachine) PlayerHand(playerID string) ([]domain.Piece, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pl, ok := m.game.Players[playerID]
	if !ok {
		return nil, false
	}
	return append([]domain.Piece(nil), pl.Hand...), true
}

// History returns a copy of the bounded change history.
func (m *GameMachine) History() []ChangeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChangeRecord, len(m.history))
	copy(out, m.history)
	return out
}

// Epoch returns the phase epoch, bumped on every transition. Background
// work captures it to detect staleness.
func (m *GameMachine) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// BotFeed exposes the per-room notification stream. The bot coordinator is
// its only consumer.
func (m *GameMachine) BotFeed() <-chan Notification {
	return m.botFeed
}
