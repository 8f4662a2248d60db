package health

import (
	"log/slog"
	"math"

	"github.com/homepulse/homepulse/pkg/types"
)

// Evaluate computes the full health report for one snapshot.
//
// It holds no state across calls and never fails: out-of-range numeric
// metrics are clamped into [0,100] and malformed registry entries are
// skipped (and counted in the report), so the worst case is a best-effort
// score over the valid subset of the snapshot.
func Evaluate(snap *types.MetricsSnapshot) *types.HealthReport {
	cpu := sanitizePercent(snap.CPULoadPercent)
	mem := sanitizePercent(snap.MemoryUsagePercent)
	disk := sanitizePercent(snap.DiskUsagePercent)

	hwScore, hwDeds := ScoreHardware(cpu, mem, disk)
	app := ScoreApplication(snap)

	deds := make([]Deduction, 0, len(hwDeds)+len(app.Deductions))
	deds = append(deds, hwDeds...)
	deds = append(deds, app.Deductions...)

	if app.SkippedEntities > 0 || app.SkippedIntegrations > 0 {
		slog.Warn("health: skipped malformed registry entries",
			"entities", app.SkippedEntities,
			"integrations", app.SkippedIntegrations)
	}

	zombies := app.ZombieEntities
	if zombies == nil {
		zombies = []string{} // marshals as [], not null
	}

	return &types.HealthReport{
		HardwareScore:       hwScore,
		ApplicationScore:    app.Score,
		GlobalScore:         CombineScores(hwScore, app.Score),
		Recommendations:     Recommendations(deds),
		ZombieEntities:      zombies,
		SkippedEntities:     app.SkippedEntities,
		SkippedIntegrations: app.SkippedIntegrations,
	}
}

// sanitizePercent clamps a percentage metric into [0, 100]. NaN collapses
// to 0 so a broken sensor reads as "no load" instead of poisoning every
// comparison downstream.
func sanitizePercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
