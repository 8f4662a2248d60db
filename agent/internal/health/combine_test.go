package health

import (
	"math"
	"testing"
)

func TestCombineScores_FloorRounding(t *testing.T) {
	tests := []struct {
		hardware, application, want int
	}{
		{100, 100, 100},
		{100, 99, 99}, // never 100 unless both sub-scores are 100
		{99, 100, 99},
		{100, 70, 82}, // floor(40 + 42)
		{0, 0, 0},
		{0, 100, 60},
		{100, 0, 40},
		{50, 50, 50},
		{73, 91, 83}, // floor(29.2 + 54.6) = floor(83.8)
	}
	for _, tc := range tests {
		if got := CombineScores(tc.hardware, tc.application); got != tc.want {
			t.Errorf("CombineScores(%d, %d) = %d, want %d", tc.hardware, tc.application, got, tc.want)
		}
	}
}

func TestCombineScores_MatchesFloorForAllPairs(t *testing.T) {
	// Exhaustive: for every sub-score pair the integer arithmetic must equal
	// floor(hw*0.4 + app*0.6) computed without float weight error.
	for hw := 0; hw <= 100; hw++ {
		for app := 0; app <= 100; app++ {
			want := int(math.Floor(float64(2*hw+3*app) / 5))
			if got := CombineScores(hw, app); got != want {
				t.Fatalf("CombineScores(%d, %d) = %d, want %d", hw, app, got, want)
			}
		}
	}
}

func TestCombineScores_StaysInRange(t *testing.T) {
	for hw := 0; hw <= 100; hw += 10 {
		for app := 0; app <= 100; app += 10 {
			got := CombineScores(hw, app)
			if got < 0 || got > 100 {
				t.Errorf("CombineScores(%d, %d) = %d, out of [0,100]", hw, app, got)
			}
		}
	}
}
