package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"liaptui/internal/app"
	"liaptui/internal/domain"
)

// Machine is the engine surface the coordinator drives. *app.GameMachine
// satisfies it.
type Machine interface {
	HandleAction(a app.Action) app.Result
	Snapshot() app.RoomSnapshot
	PlayerHand(playerID string) ([]domain.Piece, bool)
	BotFeed() <-chan app.Notification
}

const (
	defaultMinThinkDelay = 500 * time.Millisecond
	defaultMaxThinkDelay = 2 * time.Second
)

// CoordinatorOptions tunes bot pacing. Zero values fall back to defaults.
type CoordinatorOptions struct {
	// MinThinkDelay and MaxThinkDelay bound the random pause before a
	// scheduled decision is acted on.
	MinThinkDelay time.Duration
	MaxThinkDelay time.Duration
	DedupTTL      time.Duration
	Rand          *rand.Rand
}

func (o CoordinatorOptions) withDefaults() CoordinatorOptions {
	if o.MinThinkDelay <= 0 {
		o.MinThinkDelay = defaultMinThinkDelay
	}
	if o.MaxThinkDelay <= 0 {
		o.MaxThinkDelay = defaultMaxThinkDelay
	}
	if o.MaxThinkDelay < o.MinThinkDelay {
		o.MaxThinkDelay = o.MinThinkDelay
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Coordinator is the single consumer of a machine's bot feed. It fans
// observations out to its agents, schedules each bot decision exactly once
// per window and submits the results back through HandleAction after a
// humanlike pause. A phase change cancels every decision still pending
// from the previous phase.
type Coordinator struct {
	log     zerolog.Logger
	machine Machine
	opt     CoordinatorOptions
	dedup   *dedupCache

	mu     sync.Mutex
	agents map[string]*Agent
	toBeat domain.Play
	round  int
	trick  int
	ctx    context.Context
	cancel context.CancelFunc

	wg   sync.WaitGroup
	done chan struct{}
}

// NewCoordinator wires a coordinator to one machine's feed. Call Start to
// begin consuming.
func NewCoordinator(log zerolog.Logger, machine Machine, opt CoordinatorOptions) *Coordinator {
	opt = opt.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		log:     log.With().Str("component", "bot_coordinator").Logger(),
		machine: machine,
		opt:     opt,
		dedup:   newDedupCache(opt.DedupTTL),
		agents:  make(map[string]*Agent),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Register adds an agent under the player id the machine seated it with.
func (c *Coordinator) Register(agent *Agent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agents[agent.ID] = agent
}

// SeatFiller returns a seat assignment callback for the engine. Each call
// mints an identity, registers a fresh agent at the given level and hands
// the seat back to the machine.
func (c *Coordinator) SeatFiller(level Level) func(seat int) (id, name string) {
	return func(seat int) (string, string) {
		identity := IdentityForSeat(seat, level)
		strategy, err := NewStrategy(ParseLevel(identity.Level))
		if err != nil {
			strategy = &StandardStrategy{}
		}
		c.Register(NewAgent(identity.ID, identity.Name, strategy))
		return identity.ID, identity.Name
	}
}

// Start begins consuming the feed. The loop ends when the machine closes
// its feed on Stop.
func (c *Coordinator) Start() {
	go c.run()
}

// Wait blocks until the feed is drained and every scheduled decision has
// run or been canceled.
func (c *Coordinator) Wait() {
	<-c.done
}

func (c *Coordinator) run() {
	defer close(c.done)
	for note := range c.machine.BotFeed() {
		c.handle(note)
	}
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Coordinator) handle(n app.Notification) {
	c.observe(n)

	switch n.Kind {
	case app.NotePhaseChanged:
		c.rollEpoch()
	case app.NoteWeakHands:
		if p, ok := n.Payload.(app.WeakHandsPayload); ok {
			c.scheduleRedeals(p)
		}
	case app.NoteDeclarationTurn:
		if p, ok := n.Payload.(app.DeclarationTurnPayload); ok {
			c.scheduleDeclaration(p)
		}
	case app.NoteTrickStarted:
		if p, ok := n.Payload.(app.TrickStartedPayload); ok {
			c.beginTrick(p)
			c.scheduleLead(p)
		}
	case app.NotePlayMade:
		if p, ok := n.Payload.(app.PlayMadePayload); ok {
			c.trackPlay(p)
			c.scheduleFollow(p)
		}
	case app.NoteActionRejected:
		c.recover(n)
	}
}

// observe fans the notification out to agent strategies. Targeted
// notifications reach only their recipients, so a bot never sees another
// player's hand.
func (c *Coordinator) observe(n app.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(n.Recipients) == 0 {
		for _, agent := range c.agents {
			agent.Observe(n.Payload)
		}
		return
	}
	for _, id := range n.Recipients {
		if agent, ok := c.agents[id]; ok {
			agent.Observe(n.Payload)
		}
	}
}

// rollEpoch abandons every decision scheduled for the previous phase.
func (c *Coordinator) rollEpoch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.toBeat = domain.Play{}
	c.dedup.Clear()
}

func (c *Coordinator) beginTrick(p app.TrickStartedPayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round = p.Round
	c.trick = p.Trick
	c.toBeat = domain.Play{}
}

// trackPlay keeps the strongest valid play of the running trick so a
// following bot knows what it must beat.
func (c *Coordinator) trackPlay(p app.PlayMadePayload) {
	if !p.Valid {
		return
	}
	pieces, err := domain.PiecesFromDTO(p.Play.Pieces)
	if err != nil {
		return
	}
	play := domain.IdentifyPlay(pieces)
	c.mu.Lock()
	defer c.mu.Unlock()
	if play.Beats(c.toBeat) {
		c.toBeat = play
	}
}

func (c *Coordinator) agentFor(id string) *Agent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agents[id]
}

func (c *Coordinator) currentToBeat() domain.Play {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toBeat
}

func (c *Coordinator) currentTrick() (round, trick int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round, c.trick
}

func (c *Coordinator) scheduleRedeals(p app.WeakHandsPayload) {
	for _, id := range p.PlayerIDs {
		agent := c.agentFor(id)
		if agent == nil {
			continue
		}
		key := fmt.Sprintf("redeal:%d:%d:%s", p.Round, p.Redeals, id)
		c.schedule(key, func() { c.actRedeal(agent) })
	}
}

func (c *Coordinator) scheduleDeclaration(p app.DeclarationTurnPayload) {
	agent := c.agentFor(p.PlayerID)
	if agent == nil {
		return
	}
	key := fmt.Sprintf("declare:%d:%s", p.Position, p.PlayerID)
	view := DeclareView{Position: p.Position, Total: p.Total, Forbidden: p.Forbidden}
	c.schedule(key, func() { c.actDeclare(agent, view) })
}

func (c *Coordinator) scheduleLead(p app.TrickStartedPayload) {
	agent := c.agentFor(p.Starter)
	if agent == nil {
		return
	}
	key := fmt.Sprintf("play:%d:%d:%s", p.Round, p.Trick, p.Starter)
	c.schedule(key, func() { c.actPlay(agent, 0) })
}

func (c *Coordinator) scheduleFollow(p app.PlayMadePayload) {
	if p.Next == "" {
		return
	}
	agent := c.agentFor(p.Next)
	if agent == nil {
		return
	}
	round, trick := c.currentTrick()
	key := fmt.Sprintf("play:%d:%d:%s", round, trick, p.Next)
	c.schedule(key, func() { c.actPlay(agent, p.Required) })
}

// schedule queues fn after a think delay, at most once per key. The fn is
// dropped unrun if the phase changes first.
func (c *Coordinator) schedule(key string, fn func()) {
	if !c.dedup.Once(key) {
		return
	}
	c.mu.Lock()
	ctx := c.ctx
	delay := c.opt.MinThinkDelay
	if spread := c.opt.MaxThinkDelay - c.opt.MinThinkDelay; spread > 0 {
		delay += time.Duration(c.opt.Rand.Int63n(int64(spread)))
	}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		fn()
	}()
}

func (c *Coordinator) actRedeal(agent *Agent) {
	hand, ok := c.machine.PlayerHand(agent.ID)
	if !ok {
		return
	}
	accept := agent.DecideRedeal(hand)
	c.submit(app.Action{
		Kind:     app.ActionRedealDecision,
		PlayerID: agent.ID,
		Source:   app.SourceBot,
		Accept:   accept,
	})
}

func (c *Coordinator) actDeclare(agent *Agent, view DeclareView) {
	hand, ok := c.machine.PlayerHand(agent.ID)
	if !ok {
		return
	}
	value := agent.DecideDeclaration(hand, view)
	c.submit(app.Action{
		Kind:     app.ActionDeclare,
		PlayerID: agent.ID,
		Source:   app.SourceBot,
		Value:    value,
	})
}

func (c *Coordinator) actPlay(agent *Agent, required int) {
	hand, ok := c.machine.PlayerHand(agent.ID)
	if !ok || len(hand) == 0 {
		return
	}
	declared, captured := c.seatTotals(agent.ID)
	view := TableView{
		Required: required,
		ToBeat:   c.currentToBeat(),
		Declared: declared,
		Captured: captured,
	}
	pieces := agent.DecidePlay(hand, view)
	c.submit(app.Action{
		Kind:     app.ActionPlayPieces,
		PlayerID: agent.ID,
		Source:   app.SourceBot,
		Pieces:   pieces,
	})
}

func (c *Coordinator) seatTotals(playerID string) (declared, captured int) {
	snap := c.machine.Snapshot()
	for _, pl := range snap.Players {
		if pl.ID == playerID {
			return pl.Declared, pl.Captured
		}
	}
	return 0, 0
}

// submit sends one action into the machine. Rejections come back on the
// feed as targeted notifications, so nothing is retried here.
func (c *Coordinator) submit(a app.Action) {
	res := c.machine.HandleAction(a)
	if res.Rejection != nil {
		c.log.Debug().
			Str("player", a.PlayerID).
			Str("action", a.Kind.String()).
			Str("code", res.Rejection.Code).
			Msg("bot action rejected")
	}
}

// recover gives a rejected bot one fallback attempt per decision window.
// The fallback mirrors the forced move the timeout path would make, so a
// wedged bot degrades to timeout behavior instead of stalling the room
// until the timer fires.
func (c *Coordinator) recover(n app.Notification) {
	if len(n.Recipients) != 1 {
		return
	}
	agent := c.agentFor(n.Recipients[0])
	if agent == nil {
		return
	}
	p, ok := n.Payload.(app.ActionRejectedPayload)
	if !ok {
		return
	}
	switch p.Code {
	case app.RejectNotYourTurn, app.RejectWrongPhase, app.RejectStaleTimeout,
		app.RejectAlreadyDecided, app.RejectNotWeak, app.RejectNotRunning,
		app.RejectGameOver:
		// The window moved on; nothing is waiting for this bot anymore.
		return
	}
	snap := c.machine.Snapshot()
	key := fmt.Sprintf("recover:%s:%s:%d:%s", p.Action, snap.Phase, snap.Round, agent.ID)
	c.schedule(key, func() { c.fallback(agent, p.Action) })
}

func (c *Coordinator) fallback(agent *Agent, action string) {
	c.log.Warn().
		Str("player", agent.ID).
		Str("action", action).
		Msg("bot falling back to forced move")

	switch action {
	case app.ActionRedealDecision.String():
		c.submit(app.Action{
			Kind:     app.ActionRedealDecision,
			PlayerID: agent.ID,
			Source:   app.SourceBot,
		})
	case app.ActionDeclare.String():
		c.submit(app.Action{
			Kind:     app.ActionDeclare,
			PlayerID: agent.ID,
			Source:   app.SourceBot,
			Value:    c.lowestLegalDeclare(),
		})
	case app.ActionPlayPieces.String():
		hand, ok := c.machine.PlayerHand(agent.ID)
		if !ok || len(hand) == 0 {
			return
		}
		need := c.requiredCount()
		c.submit(app.Action{
			Kind:     app.ActionPlayPieces,
			PlayerID: agent.ID,
			Source:   app.SourceBot,
			Pieces:   domain.LowestPieces(hand, need),
		})
	}
}

// lowestLegalDeclare reads the live forbidden value and returns the lowest
// declaration still allowed.
func (c *Coordinator) lowestLegalDeclare() int {
	snap := c.machine.Snapshot()
	forbidden := -1
	if v, ok := snap.PhaseData["forbidden"].(int); ok {
		forbidden = v
	}
	for value := 0; value <= domain.TotalPiles; value++ {
		if value != forbidden {
			return value
		}
	}
	return 0
}

// requiredCount reads the live trick size, or 1 when this bot leads.
func (c *Coordinator) requiredCount() int {
	snap := c.machine.Snapshot()
	if v, ok := snap.PhaseData["required"].(int); ok && v > 0 {
		return v
	}
	return 1
}
