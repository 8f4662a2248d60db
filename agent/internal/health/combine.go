package health

// Global score weights: hardware 40%, application 60%, as 2/5 and 3/5.
// Kept as integer ratios so the floor is exact — with float64 weights,
// 0.6*70 lands fractionally below 42 and floor(40+0.6*70) gives 81, not 82.
const (
	weightHardware    = 2
	weightApplication = 3
	weightDenominator = 5
)

// CombineScores folds the two sub-scores into the global score:
// floor(hardware*0.4 + application*0.6). Floor, never round-to-nearest:
// a perfect 100 requires both sub-scores at exactly 100, so any single
// deduction anywhere drops the visible integer by at least one point.
func CombineScores(hardware, application int) int {
	return (hardware*weightHardware + application*weightApplication) / weightDenominator
}
