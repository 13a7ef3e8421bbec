package internal

import "testing"

func TestDetectStage(t *testing.T) {
	cases := []struct {
		remaining int
		want      Stage
	}{
		{8, StageEarly},
		{6, StageEarly},
		{5, StageMid},
		{3, StageMid},
		{2, StageLate},
		{0, StageLate},
	}

	for _, tc := range cases {
		if got := DetectStage(tc.remaining); got != tc.want {
			t.Errorf("DetectStage(%d) = %v, want %v", tc.remaining, got, tc.want)
		}
	}
}
