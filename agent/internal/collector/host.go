package collector

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// hostSource samples CPU, memory and disk usage of the machine the agent
// runs on via gopsutil. Used when the agent is co-located with the hub.
type hostSource struct {
	diskPath string
}

func newHostSource(diskPath string) *hostSource {
	return &hostSource{diskPath: diskPath}
}

// sample returns current usage percentages. CPU is measured against the
// previous call (gopsutil keeps the last CPU times internally), so the very
// first poll reads as 0% — one cycle of warm-up, same as any delta metric.
func (s *hostSource) sample(ctx context.Context) (cpuPct, memPct, diskPct float64, err error) {
	cpuStats, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("cpu sample: %w", err)
	}
	if len(cpuStats) > 0 {
		cpuPct = cpuStats[0]
	}

	memStats, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("memory sample: %w", err)
	}
	memPct = memStats.UsedPercent

	diskStats, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("disk sample %q: %w", s.diskPath, err)
	}
	diskPct = diskStats.UsedPercent

	return cpuPct, memPct, diskPct, nil
}
