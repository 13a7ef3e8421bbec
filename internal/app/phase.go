package app

// PhaseName labels a machine phase.
type PhaseName string

const (
	PhaseWaiting     PhaseName = "WAITING"
	PhasePreparation PhaseName = "PREPARATION"
	PhaseDeclaration PhaseName = "DECLARATION"
	PhaseTurn        PhaseName = "TURN"
	PhaseScoring     PhaseName = "SCORING"
	PhaseGameOver    PhaseName = "GAME_OVER"
)

// TransitionRequest asks the machine to move to another phase once the
// current step settles. Phases return requests instead of transitioning
// themselves; the machine's driver loop applies them one at a time.
type TransitionRequest struct {
	Target PhaseName
	Reason string
}

// transitionTable fixes the legal phase graph. Requests outside it are
// refused silently.
var transitionTable = map[PhaseName][]PhaseName{
	PhaseWaiting:     {PhasePreparation},
	PhasePreparation: {PhaseDeclaration},
	PhaseDeclaration: {PhaseTurn},
	PhaseTurn:        {PhaseScoring},
	PhaseScoring:     {PhasePreparation, PhaseGameOver},
	PhaseGameOver:    nil,
}

func transitionAllowed(from, to PhaseName) bool {
	for _, t := range transitionTable[from] {
		if t == to {
			return true
		}
	}
	return false
}

// PhaseState is the behavior contract every phase implements. The machine
// calls every method under the room lock.
type PhaseState interface {
	Name() PhaseName
	// OnEnter resets phase-local data and performs setup work. Returned
	// notifications go out after the phase change broadcast.
	OnEnter() []Notification
	// OnExit flushes phase results into the game aggregate.
	OnExit()
	// ValidateAction is pure. A nil result admits the action.
	ValidateAction(a Action) *Rejection
	// ExecuteAction applies the smallest state update for an admitted
	// action. An error marks an execution failure; partial state stands.
	ExecuteAction(a Action) ([]Notification, error)
	// CheckTransition reports the follow-up move, or nil to stay.
	CheckTransition() *TransitionRequest
	// Data snapshots phase-local state for clients and tooling.
	Data() map[string]interface{}
	// AllowedActions lists what the given player may do right now.
	AllowedActions(playerID string) []ActionKind
}
