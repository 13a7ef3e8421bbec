package internal

// Stage describes how deep into a round a hand is.
type Stage int

const (
	// StageEarly indicates the opening tricks, with hands mostly intact.
	StageEarly Stage = iota
	// StageMid indicates the middle tricks.
	StageMid
	// StageLate indicates the last couple of tricks.
	StageLate
)

// DetectStage infers the stage from how many pieces are still in hand.
// Every seat sheds pieces at the same rate, so one hand size stands in
// for the whole table.
func DetectStage(remaining int) Stage {
	switch {
	case remaining >= 6:
		return StageEarly
	case remaining >= 3:
		return StageMid
	default:
		return StageLate
	}
}
