package bot

import (
	"sort"

	"liaptui/internal/app"
	"liaptui/internal/bot/brain"
	"liaptui/internal/bot/internal"
	"liaptui/internal/domain"
)

const (
	masterHoldWeight  = 8.0
	masterTableWeight = 4.0
)

// MasterStrategy layers piece counting and opponent modeling on top of the
// scored pipeline. It feeds on the table's event stream through Observe.
type MasterStrategy struct {
	memory *brain.RoundMemory
	est    *brain.Estimator
	selfID string
}

// NewMasterStrategy builds a master strategy with fresh memory.
func NewMasterStrategy() *MasterStrategy {
	m := brain.NewMemory()
	return &MasterStrategy{memory: m, est: brain.NewEstimator(m)}
}

func (s *MasterStrategy) bindSelf(id string) { s.selfID = id }

func (s *MasterStrategy) ChooseRedeal(hand []domain.Piece) bool {
	return domain.PointsSum(hand) < masterTuning.RedealPointLimit
}

func (s *MasterStrategy) ChooseDeclaration(hand []domain.Piece, view DeclareView) int {
	s.memory.SyncHand(hand)

	est := internal.EstimatePiles(hand) + masterTuning.DeclareAdjust
	// Raw estimates undervalue hands whose strength sits in boss pieces.
	if boss := len(s.est.BossPieces(hand)); boss > est {
		est = boss
	}
	return legalDeclaration(est, view)
}

func (s *MasterStrategy) ChoosePlay(hand []domain.Piece, view TableView) []domain.Piece {
	if len(hand) == 0 {
		return nil
	}
	s.memory.SyncHand(hand)

	needPiles := view.Captured < view.Declared
	weights := masterTuning.ForStage(internal.DetectStage(len(hand)))

	var cands []internal.CandidatePlay
	if view.Required > 0 {
		cands = internal.FindBeating(hand, view.Required, view.ToBeat)
		if len(cands) == 0 || !needPiles {
			return domain.LowestPieces(hand, view.Required)
		}
	} else {
		// Masters consider every tabling shape, not just organizer units.
		cands = internal.FindAllPlays(hand)
	}

	scored := internal.BuildScoredPlays(hand, cands, weights, needPiles)
	for i := range scored {
		hold := 1.0 - s.est.TopChance(scored[i].Candidate.Play)
		if needPiles {
			// Reward plays the unseen pieces cannot answer.
			scored[i].Score += masterHoldWeight * hold
			scored[i].Score += masterTableWeight * s.est.SafeAgainstTable(scored[i].Candidate.Play, s.selfID)
		} else {
			// Shed the plays most likely to lose anyway.
			scored[i].Score -= masterHoldWeight * hold
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Candidate.Play.Value < scored[j].Candidate.Play.Value
	})
	return scored[0].Candidate.Pieces
}

// Observe keeps the memory synchronized with the table.
func (s *MasterStrategy) Observe(event interface{}) {
	switch e := event.(type) {
	case app.HandDealtPayload:
		// Private note; the coordinator routes it only to its owner.
		s.memory.ResetRound()
		if hand, err := domain.PiecesFromDTO(e.Hand); err == nil {
			s.memory.MarkMine(hand)
		}
	case app.TrickStartedPayload:
		s.memory.StartTrick()
	case app.PlayMadePayload:
		if pieces, err := domain.PiecesFromDTO(e.Play.Pieces); err == nil {
			s.memory.RecordPlay(e.PlayerID, pieces, e.Valid)
		}
	case app.RoundScoredPayload:
		for _, line := range e.Lines {
			p, ok := s.memory.Opponents[line.PlayerID]
			if !ok {
				p = brain.NewOpponentProfile(line.PlayerID)
				s.memory.Opponents[line.PlayerID] = p
			}
			p.RecordRound(line.Declared, line.Captured)
		}
	}
}
