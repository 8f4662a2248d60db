package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homepulse/homepulse/agent/internal/collector"
	"github.com/homepulse/homepulse/agent/internal/config"
	"github.com/homepulse/homepulse/agent/internal/health"
	"github.com/homepulse/homepulse/agent/internal/security"
	"github.com/homepulse/homepulse/agent/internal/shipper"
	"github.com/homepulse/homepulse/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("homepulse-agent starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"instance", cfg.Agent.InstanceID,
		"hub", cfg.Agent.Hub.Endpoint,
		"server_endpoint", cfg.Agent.ServerEndpoint,
		"poll_interval", cfg.Agent.PollInterval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	coll, err := collector.New(cfg.Agent)
	if err != nil {
		slog.Error("failed to build collector", "err", err)
		os.Exit(1)
	}

	// Watch config file for hot-reload (logs only in this phase).
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded", "instance", updated.Agent.InstanceID)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// Start the shipper — runs until ctx is cancelled.
	ship := shipper.New(cfg.Agent)
	go ship.Run(ctx)

	// Poll loop: collect a snapshot every PollInterval, score it, ship the
	// resulting report.
	go func() {
		ticker := time.NewTicker(cfg.Agent.PollInterval)
		defer ticker.Stop()

		poll := func(at time.Time) {
			snap := coll.Collect(ctx)
			report := health.Evaluate(snap)
			env := &types.ReportEnvelope{
				InstanceID:  cfg.Agent.InstanceID,
				GeneratedAt: at.UTC(),
				Report:      *report,
				Cert:        security.Check(ctx, cfg.Agent.Hub),
			}
			ship.Ship(env)
			slog.Debug("shipped report",
				"global_score", report.GlobalScore,
				"hardware_score", report.HardwareScore,
				"application_score", report.ApplicationScore,
				"zombies", len(report.ZombieEntities),
			)
		}

		// One immediate poll so the server sees us without waiting a full tick.
		poll(time.Now())
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				poll(t)
			}
		}
	}()

	<-ctx.Done()
	slog.Info("homepulse-agent shutting down", "pending_reports", ship.Pending())
}
