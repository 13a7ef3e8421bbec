package domain

// ScoreRound returns the base score for one player's round given declared
// and captured pile counts. Hitting a zero declaration pays a flat bonus,
// hitting a nonzero one pays the declaration plus a bonus, and any miss
// costs the distance.
func ScoreRound(declared, actual int) int {
	switch {
	case declared == 0 && actual == 0:
		return 3
	case declared == actual:
		return declared + 5
	default:
		return -absInt(declared - actual)
	}
}

// RoundDelta applies the round's redeal multiplier to the base score.
func RoundDelta(declared, actual, multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}
	return ScoreRound(declared, actual) * multiplier
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
