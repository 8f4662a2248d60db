package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/homepulse/homepulse/server/internal/api"
	"github.com/homepulse/homepulse/server/internal/auth"
	"github.com/homepulse/homepulse/server/internal/config"
	"github.com/homepulse/homepulse/server/internal/receiver"
	"github.com/homepulse/homepulse/server/internal/store"
	"github.com/homepulse/homepulse/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve dashboard static files from this directory; leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("homepulse-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"report_ttl", cfg.Server.Reports.TTL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Report store with background TTL eviction.
	st := store.New(cfg.Server.Reports.TTL)
	go st.Run(ctx)

	// WebSocket hub — pushes the fleet snapshot to dashboard clients.
	hub := ws.New(st, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	// Combined HTTP server: agent ingest + REST API + WebSocket hub, all
	// behind the same API key middleware.
	mux := http.NewServeMux()
	mux.Handle("/api/v1/ingest", receiver.New(st))
	mux.Handle("/api/", api.New(st))
	mux.Handle("/ws/stream", hub)

	// Optional: serve a pre-built dashboard from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	handler := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
		mux,
	)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: handler,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("homepulse-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
