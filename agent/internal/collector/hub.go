package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/homepulse/homepulse/agent/internal/config"
	"github.com/homepulse/homepulse/pkg/types"
)

// Hub REST API paths read on every poll.
const (
	pathStates       = "/api/states"
	pathIntegrations = "/api/integrations"
	pathLatestBackup = "/api/backups/latest"
	pathCoreUpdate   = "/api/updates/core"
)

// hubClient reads the registry and maintenance state from the hub's REST API.
type hubClient struct {
	cfg     config.HubConfig
	client  *http.Client
	ignored map[string]bool
	now     func() time.Time // injectable for deterministic tests
}

func newHubClient(cfg config.HubConfig) (*hubClient, error) {
	client, err := buildHTTPClient(cfg.Auth, cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("hub client: build http client: %w", err)
	}
	ignored := make(map[string]bool, len(cfg.IgnoreDomains))
	for _, d := range cfg.IgnoreDomains {
		ignored[d] = true
	}
	return &hubClient{cfg: cfg, client: client, ignored: ignored, now: time.Now}, nil
}

// hubState is one entry of GET /api/states.
type hubState struct {
	EntityID string `json:"entity_id"`
	State    string `json:"state"`
}

// entities fetches the entity registry. Ignored domains are filtered out
// here so they never reach the scoring engine.
func (h *hubClient) entities(ctx context.Context) ([]types.Entity, error) {
	var states []hubState
	if err := fetchJSON(ctx, h.client, h.cfg.Endpoint+pathStates, &states); err != nil {
		return nil, fmt.Errorf("hub states: %w", err)
	}

	out := make([]types.Entity, 0, len(states))
	for _, s := range states {
		domain := entityDomain(s.EntityID)
		if h.ignored[domain] {
			continue
		}
		out = append(out, types.Entity{
			ID:     s.EntityID,
			Domain: domain,
			State:  s.State,
		})
	}
	return out, nil
}

// integrations fetches integration health entries as-is; entries without a
// health flag keep a nil Healthy so the engine can skip and count them.
func (h *hubClient) integrations(ctx context.Context) ([]types.Integration, error) {
	var out []types.Integration
	if err := fetchJSON(ctx, h.client, h.cfg.Endpoint+pathIntegrations, &out); err != nil {
		return nil, fmt.Errorf("hub integrations: %w", err)
	}
	return out, nil
}

// backupStale reports whether the latest backup is older than the configured
// freshness threshold. A hub with no backup at all (404) counts as stale.
func (h *hubClient) backupStale(ctx context.Context) (bool, error) {
	var latest struct {
		CreatedAt time.Time `json:"created_at"`
	}
	err := fetchJSON(ctx, h.client, h.cfg.Endpoint+pathLatestBackup, &latest)
	if errors.Is(err, errNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("hub latest backup: %w", err)
	}
	if latest.CreatedAt.IsZero() {
		return true, nil
	}
	return h.now().Sub(latest.CreatedAt) > h.cfg.BackupMaxAge, nil
}

// pendingCoreUpdate reports whether the hub has an installable core update.
func (h *hubClient) pendingCoreUpdate(ctx context.Context) (bool, error) {
	var upd struct {
		Pending bool `json:"pending"`
	}
	if err := fetchJSON(ctx, h.client, h.cfg.Endpoint+pathCoreUpdate, &upd); err != nil {
		return false, fmt.Errorf("hub core update: %w", err)
	}
	return upd.Pending, nil
}

// entityDomain extracts the domain from a full entity id
// ("sensor.kitchen_temp" → "sensor"). Ids without a dot have no domain.
func entityDomain(id string) string {
	if i := strings.IndexByte(id, '.'); i > 0 {
		return id[:i]
	}
	return ""
}
