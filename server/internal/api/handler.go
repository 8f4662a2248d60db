package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/homepulse/homepulse/server/internal/store"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads instance state from the report store and returns JSON responses.
type Handler struct {
	store *store.Store
	mux   *http.ServeMux
}

// New creates a Handler wired to the given report store and registers all routes.
func New(st *store.Store) http.Handler {
	h := &Handler{store: st, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/instances", h.listInstances)
	h.mux.HandleFunc("/api/v1/instances/", h.getInstance) // subtree — extracts {id}
	h.mux.HandleFunc("/api/v1/advice", h.advice)
	h.mux.HandleFunc("/api/v1/zombies", h.zombies)
	h.mux.HandleFunc("/api/v1/certs", h.certs)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — fleet-wide average score and state counts.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := liveEntries(h.store)
	resp := HealthResponse{
		InstanceCount: len(entries),
	}

	if len(entries) == 0 {
		resp.State = "unknown"
		jsonResp(w, http.StatusOK, resp)
		return
	}

	var total int
	for _, e := range entries {
		score := e.Envelope.Report.GlobalScore
		total += score
		switch stateFromScore(score) {
		case "healthy":
			resp.HealthyCount++
		case "degraded":
			resp.DegradedCount++
		default:
			resp.CriticalCount++
		}
	}

	resp.OverallScore = float64(total) / float64(len(entries))
	resp.State = stateFromScore(int(resp.OverallScore))
	jsonResp(w, http.StatusOK, resp)
}

// listInstances returns GET /api/v1/instances — all live instances.
func (h *Handler) listInstances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := liveEntries(h.store)
	out := make([]InstanceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toInstanceResponse(e))
	}
	jsonResp(w, http.StatusOK, out)
}

// getInstance returns GET /api/v1/instances/{id} — a single live instance.
func (h *Handler) getInstance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/instances/")
	if id == "" {
		// Redirect bare /api/v1/instances/ to the list handler.
		h.listInstances(w, r)
		return
	}

	e, ok := h.store.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "instance not found")
		return
	}
	// Exclude stale entries — treat them as not found.
	if time.Since(e.UpdatedAt) > h.store.TTL() {
		jsonErr(w, http.StatusNotFound, "instance not found")
		return
	}

	jsonResp(w, http.StatusOK, toInstanceResponse(e))
}

// advice returns GET /api/v1/advice — recommendations aggregated across all
// live instances. Each distinct message lists the instances it applies to.
func (h *Handler) advice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := liveEntries(h.store)
	var order []string
	byMsg := make(map[string]*AdviceEntry)
	for _, e := range entries {
		for _, msg := range e.Envelope.Report.Recommendations {
			a, ok := byMsg[msg]
			if !ok {
				a = &AdviceEntry{Message: msg}
				byMsg[msg] = a
				order = append(order, msg)
			}
			a.Instances = append(a.Instances, e.Envelope.InstanceID)
		}
	}

	out := make([]AdviceEntry, 0, len(order))
	for _, msg := range order {
		out = append(out, *byMsg[msg])
	}
	jsonResp(w, http.StatusOK, out)
}

// zombies returns GET /api/v1/zombies — per-instance zombie entity lists.
// Instances without zombies are omitted.
func (h *Handler) zombies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := liveEntries(h.store)
	out := make([]ZombieEntry, 0)
	for _, e := range entries {
		zs := e.Envelope.Report.ZombieEntities
		if len(zs) == 0 {
			continue
		}
		out = append(out, ZombieEntry{
			InstanceID: e.Envelope.InstanceID,
			Entities:   zs,
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// certs returns GET /api/v1/certs — hub certificate status per instance.
// Instances monitoring a plain-HTTP hub carry no cert and are omitted.
func (h *Handler) certs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := liveEntries(h.store)
	out := make([]CertEntry, 0)
	for _, e := range entries {
		c := e.Envelope.Cert
		if c == nil {
			continue
		}
		out = append(out, CertEntry{
			InstanceID: e.Envelope.InstanceID,
			Endpoint:   c.Endpoint,
			Status:     c.Status,
			DaysLeft:   c.DaysLeft,
			Issuer:     c.Issuer,
			NotAfter:   c.NotAfter,
		})
	}
	jsonResp(w, http.StatusOK, out)
}

// snapshot returns GET /api/v1/snapshot — full JSON dump of all live instances.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildSnapshot(h.store))
}

// BuildSnapshot assembles the full-fleet snapshot payload. Shared with the
// WebSocket hub so broadcasts and GET /api/v1/snapshot stay identical.
func BuildSnapshot(st *store.Store) SnapshotResponse {
	entries := liveEntries(st)
	instances := make([]InstanceResponse, 0, len(entries))
	for _, e := range entries {
		instances = append(instances, toInstanceResponse(e))
	}
	return SnapshotResponse{
		Instances:   instances,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// liveEntries returns the store's live entries ordered by instance ID so
// responses are deterministic.
func liveEntries(st *store.Store) []*store.Entry {
	entries := st.List()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Envelope.InstanceID < entries[j].Envelope.InstanceID
	})
	return entries
}

// stateFromScore converts a 0–100 global score to a health state string.
func stateFromScore(score int) string {
	switch {
	case score >= 85:
		return "healthy"
	case score >= 60:
		return "degraded"
	default:
		return "critical"
	}
}

// toInstanceResponse maps a store.Entry to its JSON representation.
func toInstanceResponse(e *store.Entry) InstanceResponse {
	env := e.Envelope
	rec := env.Report.Recommendations
	if rec == nil {
		rec = []string{}
	}
	zs := env.Report.ZombieEntities
	if zs == nil {
		zs = []string{}
	}
	return InstanceResponse{
		InstanceID:          env.InstanceID,
		State:               stateFromScore(env.Report.GlobalScore),
		HardwareScore:       env.Report.HardwareScore,
		ApplicationScore:    env.Report.ApplicationScore,
		GlobalScore:         env.Report.GlobalScore,
		Recommendations:     rec,
		ZombieEntities:      zs,
		SkippedEntities:     env.Report.SkippedEntities,
		SkippedIntegrations: env.Report.SkippedIntegrations,
		GeneratedAt:         env.GeneratedAt.UTC().Format(time.RFC3339),
		LastSeen:            e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
