package bot

import botinternal "liaptui/internal/bot/internal"

// DefaultTuning balances structure preservation and pile hunting by stage.
var DefaultTuning = botinternal.BotTuning{
	Early: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.6,
		SoldierSetWeight:    0.8,
		PairWeight:          0.5,
		SingleWeight:        -1.0,
		UseGeneralPenalty:   6.0,
		UseStrongPenalty:    2.0,
		UseValuePenalty:     0.3,
		WinValueBonus:       0.5,
	},
	Mid: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.5,
		SoldierSetWeight:    0.7,
		PairWeight:          0.6,
		SingleWeight:        -1.2,
		UseGeneralPenalty:   4.0,
		UseStrongPenalty:    1.5,
		UseValuePenalty:     0.25,
		WinValueBonus:       0.7,
	},
	Late: botinternal.StageWeights{
		HandScoreWeight:     1.2,
		StraightPieceWeight: 0.3,
		SoldierSetWeight:    0.4,
		PairWeight:          0.4,
		SingleWeight:        -1.5,
		UseGeneralPenalty:   1.0,
		UseStrongPenalty:    0.5,
		UseValuePenalty:     0.1,
		WinValueBonus:       1.0,
	},
	RedealPointLimit: 35,
	DeclareAdjust:    0,
}

// greedyTuning spends winners freely and overbids by a pile.
var greedyTuning = botinternal.BotTuning{
	Early: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.5,
		SoldierSetWeight:    0.7,
		PairWeight:          0.4,
		SingleWeight:        -0.8,
		UseGeneralPenalty:   2.0,
		UseStrongPenalty:    0.5,
		UseValuePenalty:     0.1,
		WinValueBonus:       1.2,
	},
	Mid: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.4,
		SoldierSetWeight:    0.6,
		PairWeight:          0.4,
		SingleWeight:        -1.0,
		UseGeneralPenalty:   1.0,
		UseStrongPenalty:    0.3,
		UseValuePenalty:     0.05,
		WinValueBonus:       1.4,
	},
	Late: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.2,
		SoldierSetWeight:    0.3,
		PairWeight:          0.3,
		SingleWeight:        -1.2,
		UseGeneralPenalty:   0.5,
		UseStrongPenalty:    0.1,
		UseValuePenalty:     0.0,
		WinValueBonus:       1.6,
	},
	// Greedy trades any weak hand away, so the limit never binds.
	RedealPointLimit: 100,
	DeclareAdjust:    1,
}

// cautiousTuning protects structures, underbids and hoards strong pieces.
var cautiousTuning = botinternal.BotTuning{
	Early: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.8,
		SoldierSetWeight:    1.0,
		PairWeight:          0.7,
		SingleWeight:        -1.0,
		UseGeneralPenalty:   10.0,
		UseStrongPenalty:    4.0,
		UseValuePenalty:     0.5,
		WinValueBonus:       0.3,
	},
	Mid: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.7,
		SoldierSetWeight:    0.9,
		PairWeight:          0.7,
		SingleWeight:        -1.1,
		UseGeneralPenalty:   7.0,
		UseStrongPenalty:    3.0,
		UseValuePenalty:     0.4,
		WinValueBonus:       0.5,
	},
	Late: botinternal.StageWeights{
		HandScoreWeight:     1.1,
		StraightPieceWeight: 0.4,
		SoldierSetWeight:    0.5,
		PairWeight:          0.5,
		SingleWeight:        -1.3,
		UseGeneralPenalty:   3.0,
		UseStrongPenalty:    1.0,
		UseValuePenalty:     0.2,
		WinValueBonus:       0.8,
	},
	RedealPointLimit: 0,
	DeclareAdjust:    -1,
}

// masterTuning sharpens the default weights; the counting layer does the
// rest of the work.
var masterTuning = botinternal.BotTuning{
	Early: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.6,
		SoldierSetWeight:    0.8,
		PairWeight:          0.5,
		SingleWeight:        -1.0,
		UseGeneralPenalty:   5.0,
		UseStrongPenalty:    1.5,
		UseValuePenalty:     0.2,
		WinValueBonus:       0.6,
	},
	Mid: botinternal.StageWeights{
		HandScoreWeight:     1.0,
		StraightPieceWeight: 0.5,
		SoldierSetWeight:    0.7,
		PairWeight:          0.5,
		SingleWeight:        -1.2,
		UseGeneralPenalty:   3.0,
		UseStrongPenalty:    1.0,
		UseValuePenalty:     0.15,
		WinValueBonus:       0.9,
	},
	Late: botinternal.StageWeights{
		HandScoreWeight:     1.2,
		StraightPieceWeight: 0.3,
		SoldierSetWeight:    0.4,
		PairWeight:          0.4,
		SingleWeight:        -1.5,
		UseGeneralPenalty:   0.5,
		UseStrongPenalty:    0.2,
		UseValuePenalty:     0.05,
		WinValueBonus:       1.2,
	},
	RedealPointLimit: 32,
	DeclareAdjust:    0,
}
