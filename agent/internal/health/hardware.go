package health

import (
	"fmt"
	"math"
)

// Deduction categories, in report order.
const (
	CategoryCPU         = "cpu"
	CategoryMemory      = "memory"
	CategoryDisk        = "disk"
	CategoryZombie      = "zombie"
	CategoryIntegration = "integration"
	CategoryBackup      = "backup"
	CategoryUpdate      = "update"
)

// Deduction is one triggered penalty: the points it removes from a
// sub-score plus the category and message the advisor renders.
type Deduction struct {
	Points   int
	Category string
	Message  string
}

// Memory and disk penalty thresholds (percent used).
const (
	memoryThreshold = 70.0
	diskThreshold   = 80.0

	// diskCeiling is the usage level at which the disk penalty reaches its
	// 100-point maximum. Beyond it the hub risks a write-locked database.
	diskCeiling = 95.0
)

// cpuTiers maps CPU load to a flat deduction. Ordered by ascending lower
// bound; the last tier whose bound is exceeded wins, so tiers never stack.
var cpuTiers = []struct {
	lowerBound float64
	points     int
}{
	{10, 10},
	{15, 25},
	{25, 50},
	{50, 80},
}

// ScoreHardware computes the hardware sub-score from CPU, memory and disk
// usage percentages. Inputs must already be sanitised to [0,100].
func ScoreHardware(cpu, mem, disk float64) (int, []Deduction) {
	var deds []Deduction

	if pts := cpuPenalty(cpu); pts > 0 {
		deds = append(deds, Deduction{
			Points:   pts,
			Category: CategoryCPU,
			Message:  fmt.Sprintf("CPU load high (%.1f%%)", cpu),
		})
	}

	if pts := memoryPenalty(mem); pts > 0 {
		deds = append(deds, Deduction{
			Points:   pts,
			Category: CategoryMemory,
			Message:  fmt.Sprintf("RAM usage high (%.1f%%)", mem),
		})
	}

	if pts := diskPenalty(disk); pts > 0 {
		deds = append(deds, Deduction{
			Points:   pts,
			Category: CategoryDisk,
			Message:  fmt.Sprintf("Disk space critical (%.1f%%)", disk),
		})
	}

	total := 0
	for _, d := range deds {
		total += d.Points
	}
	return clampScore(100 - total), deds
}

// cpuPenalty walks the tier table and returns the deduction of the highest
// applicable tier. Load at or below 10% is free.
func cpuPenalty(cpu float64) int {
	pts := 0
	for _, t := range cpuTiers {
		if cpu > t.lowerBound {
			pts = t.points
		}
	}
	return pts
}

// memoryPenalty is 0 up to the 70% baseline (the hub and OS legitimately
// hold that much) and grows quadratically above it, reaching the full 100
// points at 100% usage. The ceil keeps any usage above the threshold
// visible as at least one point.
func memoryPenalty(mem float64) int {
	if mem <= memoryThreshold {
		return 0
	}
	over := mem - memoryThreshold
	return int(math.Ceil(over * over / 9))
}

// diskPenalty is 0 up to 80% and escalates quadratically toward the 95%
// ceiling, where the database can no longer be written and the penalty is
// the full 100 points.
func diskPenalty(disk float64) int {
	if disk <= diskThreshold {
		return 0
	}
	over := disk - diskThreshold
	if over > diskCeiling-diskThreshold {
		over = diskCeiling - diskThreshold
	}
	ratio := over / (diskCeiling - diskThreshold)
	return int(math.Ceil(ratio * ratio * 100))
}

// clampScore restricts a score to [0, 100].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
