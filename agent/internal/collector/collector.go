package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/homepulse/homepulse/agent/internal/config"
	"github.com/homepulse/homepulse/pkg/types"
)

// hardwareSource supplies CPU/memory/disk usage percentages.
type hardwareSource interface {
	sample(ctx context.Context) (cpuPct, memPct, diskPct float64, err error)
}

// Collector assembles one MetricsSnapshot per poll from a hardware source
// and the hub registry client.
type Collector struct {
	hw  hardwareSource
	hub *hubClient
}

// New builds a Collector from the agent configuration.
func New(cfg config.AgentConfig) (*Collector, error) {
	var hw hardwareSource
	switch cfg.Metrics.Source {
	case "prometheus":
		src, err := newPromSource(cfg.Metrics)
		if err != nil {
			return nil, err
		}
		hw = src
	case "host", "":
		hw = newHostSource(cfg.Metrics.DiskPath)
	default:
		return nil, fmt.Errorf("collector: unsupported metrics source %q", cfg.Metrics.Source)
	}

	hub, err := newHubClient(cfg.Hub)
	if err != nil {
		return nil, err
	}
	return &Collector{hw: hw, hub: hub}, nil
}

// Collect gathers a full snapshot. Collection is best-effort: any piece
// that fails is logged and left zeroed/empty so the caller can still score
// the rest. The returned snapshot is never nil.
func (c *Collector) Collect(ctx context.Context) *types.MetricsSnapshot {
	snap := &types.MetricsSnapshot{}

	cpuPct, memPct, diskPct, err := c.hw.sample(ctx)
	if err != nil {
		slog.Warn("collector: hardware sample failed", "err", err)
	} else {
		snap.CPULoadPercent = cpuPct
		snap.MemoryUsagePercent = memPct
		snap.DiskUsagePercent = diskPct
	}

	if entities, err := c.hub.entities(ctx); err != nil {
		slog.Warn("collector: entity registry fetch failed", "err", err)
	} else {
		snap.Entities = entities
	}

	if integrations, err := c.hub.integrations(ctx); err != nil {
		slog.Warn("collector: integration registry fetch failed", "err", err)
	} else {
		snap.Integrations = integrations
	}

	if stale, err := c.hub.backupStale(ctx); err != nil {
		slog.Warn("collector: backup check failed", "err", err)
	} else {
		snap.BackupStale = stale
	}

	if pending, err := c.hub.pendingCoreUpdate(ctx); err != nil {
		slog.Warn("collector: core update check failed", "err", err)
	} else {
		snap.PendingCoreUpdate = pending
	}

	return snap
}
