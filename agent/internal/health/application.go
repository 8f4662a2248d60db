package health

import (
	"fmt"
	"strings"

	"github.com/homepulse/homepulse/pkg/types"
)

// Application penalty weights.
const (
	// zombiePointsEach is the raw penalty per zombie entity.
	zombiePointsEach = 4

	// zombiePointsCap bounds the summed zombie penalty so a large
	// installation with many flaky devices is not punished out of
	// proportion. The cap bounds points only — never the reported list.
	zombiePointsCap = 20

	integrationPoints = 5
	backupPoints      = 30
	updatePoints      = 5
)

// zombieExemptDomains are domains whose entities legitimately rest in
// unavailable/unknown (stateless triggers, trackers out of range, …).
// They never count as zombies.
var zombieExemptDomains = map[string]bool{
	"button":         true,
	"scene":          true,
	"group":          true,
	"automation":     true,
	"device_tracker": true,
}

// ApplicationResult is the output of ScoreApplication.
type ApplicationResult struct {
	Score      int
	Deductions []Deduction

	// ZombieEntities holds the ids of every zombie in registry order,
	// independent of the point cap.
	ZombieEntities []string

	// SkippedEntities / SkippedIntegrations count registry entries dropped
	// for missing required fields.
	SkippedEntities     int
	SkippedIntegrations int
}

// ScoreApplication computes the application sub-score from the entity and
// integration registries and the maintenance flags. Malformed entries are
// skipped and counted rather than aborting the evaluation.
func ScoreApplication(snap *types.MetricsSnapshot) ApplicationResult {
	var res ApplicationResult

	// Zombie detection. Domain grouping keeps the advisory short even when
	// dozens of entities from one integration die at once.
	domainOrder := make([]string, 0, 4)
	domainCount := make(map[string]int)
	for _, e := range snap.Entities {
		if e.ID == "" || e.Domain == "" || e.State == "" {
			res.SkippedEntities++
			continue
		}
		if e.State != types.StateUnavailable && e.State != types.StateUnknown {
			continue
		}
		if zombieExemptDomains[e.Domain] {
			continue
		}
		res.ZombieEntities = append(res.ZombieEntities, e.ID)
		if domainCount[e.Domain] == 0 {
			domainOrder = append(domainOrder, e.Domain)
		}
		domainCount[e.Domain]++
	}

	zombiePenalty := len(res.ZombieEntities) * zombiePointsEach
	if zombiePenalty > zombiePointsCap {
		zombiePenalty = zombiePointsCap
	}
	if zombiePenalty > 0 {
		parts := make([]string, 0, len(domainOrder))
		for _, dom := range domainOrder {
			parts = append(parts, fmt.Sprintf("%d %s", domainCount[dom], dom))
		}
		res.Deductions = append(res.Deductions, Deduction{
			Points:   zombiePenalty,
			Category: CategoryZombie,
			Message:  "Zombies: " + strings.Join(parts, ", "),
		})
	}

	// Integration health: one flat deduction per unhealthy integration,
	// deliberately uncapped — each one is an actionable failure.
	for _, in := range snap.Integrations {
		if in.Name == "" || in.Healthy == nil {
			res.SkippedIntegrations++
			continue
		}
		if *in.Healthy {
			continue
		}
		res.Deductions = append(res.Deductions, Deduction{
			Points:   integrationPoints,
			Category: CategoryIntegration,
			Message:  fmt.Sprintf("Integration %q unhealthy", in.Name),
		})
	}

	if snap.BackupStale {
		res.Deductions = append(res.Deductions, Deduction{
			Points:   backupPoints,
			Category: CategoryBackup,
			Message:  "Latest backup is stale — create a fresh backup",
		})
	}

	if snap.PendingCoreUpdate {
		res.Deductions = append(res.Deductions, Deduction{
			Points:   updatePoints,
			Category: CategoryUpdate,
			Message:  "Core update pending installation",
		})
	}

	total := 0
	for _, d := range res.Deductions {
		total += d.Points
	}
	res.Score = clampScore(100 - total)
	return res
}
