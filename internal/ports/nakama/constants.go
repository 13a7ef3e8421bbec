package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open room.
	RpcQuickMatch = "quick_match"

	// MatchName is the authoritative match handler name registered with
	// Nakama.
	MatchName = "liaptui_match"

	// LabelGame tags every room label so quick-match queries only see ours.
	LabelGame = "liaptui"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpRedealDecision int64 = 2
	OpDeclare        int64 = 3
	OpPlayPieces     int64 = 4
	OpRequestState   int64 = 5

	// Server -> Client events, one per engine notification kind.
	OpPlayerJoined    int64 = 101
	OpPlayerLeft      int64 = 102
	OpPhaseChanged    int64 = 103
	OpGameStarted     int64 = 104
	OpHandDealt       int64 = 105 // sent privately
	OpWeakHands       int64 = 106
	OpRedealWarning   int64 = 107
	OpRedealDecided   int64 = 108
	OpRedealExecuted  int64 = 109
	OpDeclarationTurn int64 = 110
	OpDeclarationMade int64 = 111
	OpTrickStarted    int64 = 112
	OpPlayMade        int64 = 113
	OpTurnResolved    int64 = 114
	OpRoundScored     int64 = 115
	OpGameOver        int64 = 116
	OpActionRejected  int64 = 117 // sent privately

	// OpRoomState answers OpRequestState and greets joiners.
	OpRoomState int64 = 120
)
