package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homepulse/homepulse/pkg/types"
	"github.com/homepulse/homepulse/server/internal/api"
	"github.com/homepulse/homepulse/server/internal/store"
)

// --- test helpers -----------------------------------------------------------

func newStore(envs ...*types.ReportEnvelope) *store.Store {
	st := store.New(5 * time.Minute)
	for _, e := range envs {
		st.Put(e)
	}
	return st
}

func env(id string, global int) *types.ReportEnvelope {
	return &types.ReportEnvelope{
		InstanceID:  id,
		GeneratedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Report: types.HealthReport{
			HardwareScore:    global,
			ApplicationScore: global,
			GlobalScore:      global,
		},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth_EmptyStore(t *testing.T) {
	h := api.New(newStore())
	rr := get(t, h, "/api/v1/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)

	if resp.State != "unknown" {
		t.Errorf("state: got %q, want unknown", resp.State)
	}
	if resp.InstanceCount != 0 {
		t.Errorf("instance_count: got %d, want 0", resp.InstanceCount)
	}
}

func TestHealth_AveragesAndCounts(t *testing.T) {
	// One healthy, one degraded, one critical instance.
	h := api.New(newStore(env("home", 100), env("cabin", 70), env("office", 40)))
	rr := get(t, h, "/api/v1/health")

	var resp api.HealthResponse
	decode(t, rr, &resp)

	if resp.InstanceCount != 3 {
		t.Errorf("instance_count: got %d, want 3", resp.InstanceCount)
	}
	if resp.OverallScore != 70 {
		t.Errorf("overall_score: got %v, want 70", resp.OverallScore)
	}
	if resp.State != "degraded" {
		t.Errorf("state: got %q, want degraded", resp.State)
	}
	if resp.HealthyCount != 1 || resp.DegradedCount != 1 || resp.CriticalCount != 1 {
		t.Errorf("counts: healthy=%d degraded=%d critical=%d, want 1/1/1",
			resp.HealthyCount, resp.DegradedCount, resp.CriticalCount)
	}
}

func TestHealth_StateBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{85, "healthy"},
		{84, "degraded"},
		{60, "degraded"},
		{59, "critical"},
		{0, "critical"},
	}
	for _, tc := range tests {
		h := api.New(newStore(env("home", tc.score)))
		var resp api.HealthResponse
		decode(t, get(t, h, "/api/v1/health"), &resp)
		if resp.State != tc.want {
			t.Errorf("score %d: state %q, want %q", tc.score, resp.State, tc.want)
		}
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h := api.New(newStore())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/instances ------------------------------------------------------

func TestInstances_ListSorted(t *testing.T) {
	h := api.New(newStore(env("zulu", 90), env("alpha", 80)))
	rr := get(t, h, "/api/v1/instances")

	var resp []api.InstanceResponse
	decode(t, rr, &resp)

	if len(resp) != 2 {
		t.Fatalf("instances: got %d, want 2", len(resp))
	}
	if resp[0].InstanceID != "alpha" || resp[1].InstanceID != "zulu" {
		t.Errorf("order: got %q, %q, want alpha, zulu", resp[0].InstanceID, resp[1].InstanceID)
	}
}

func TestInstances_GetByID(t *testing.T) {
	e := env("home", 82)
	e.Report.Recommendations = []string{"RAM usage high (85.0%)"}
	e.Report.ZombieEntities = []string{"sensor.dead"}
	h := api.New(newStore(e))

	rr := get(t, h, "/api/v1/instances/home")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp api.InstanceResponse
	decode(t, rr, &resp)
	if resp.InstanceID != "home" {
		t.Errorf("instance_id: got %q, want home", resp.InstanceID)
	}
	if resp.GlobalScore != 82 || resp.State != "degraded" {
		t.Errorf("score/state: got %d/%q, want 82/degraded", resp.GlobalScore, resp.State)
	}
	if len(resp.Recommendations) != 1 || len(resp.ZombieEntities) != 1 {
		t.Errorf("lists not carried through: %+v", resp)
	}
}

func TestInstances_GetUnknown(t *testing.T) {
	h := api.New(newStore(env("home", 90)))
	if rr := get(t, h, "/api/v1/instances/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestInstances_EmptyListsNeverNull(t *testing.T) {
	h := api.New(newStore(env("home", 100)))
	rr := get(t, h, "/api/v1/instances/home")

	var raw map[string]json.RawMessage
	decode(t, rr, &raw)
	if string(raw["recommendations"]) != "[]" {
		t.Errorf("recommendations: got %s, want []", raw["recommendations"])
	}
	if string(raw["zombie_entities"]) != "[]" {
		t.Errorf("zombie_entities: got %s, want []", raw["zombie_entities"])
	}
}

// --- /api/v1/advice ---------------------------------------------------------

func TestAdvice_AggregatesAcrossInstances(t *testing.T) {
	e1 := env("alpha", 70)
	e1.Report.Recommendations = []string{"RAM usage high (85.0%)", "Core update pending installation"}
	e2 := env("bravo", 75)
	e2.Report.Recommendations = []string{"RAM usage high (85.0%)"}
	h := api.New(newStore(e1, e2))

	rr := get(t, h, "/api/v1/advice")
	var resp []api.AdviceEntry
	decode(t, rr, &resp)

	if len(resp) != 2 {
		t.Fatalf("advice entries: got %d, want 2 (deduplicated)", len(resp))
	}
	if resp[0].Message != "RAM usage high (85.0%)" {
		t.Errorf("first message: got %q", resp[0].Message)
	}
	if len(resp[0].Instances) != 2 {
		t.Errorf("shared message instances: got %v, want both", resp[0].Instances)
	}
	if len(resp[1].Instances) != 1 || resp[1].Instances[0] != "alpha" {
		t.Errorf("unique message instances: got %v, want [alpha]", resp[1].Instances)
	}
}

func TestAdvice_Empty(t *testing.T) {
	h := api.New(newStore(env("home", 100)))
	rr := get(t, h, "/api/v1/advice")
	var resp []api.AdviceEntry
	decode(t, rr, &resp)
	if len(resp) != 0 {
		t.Errorf("advice: got %v, want empty", resp)
	}
}

// --- /api/v1/zombies --------------------------------------------------------

func TestZombies_OmitsCleanInstances(t *testing.T) {
	e1 := env("haunted", 80)
	e1.Report.ZombieEntities = []string{"sensor.a", "light.b"}
	e2 := env("clean", 100)
	h := api.New(newStore(e1, e2))

	rr := get(t, h, "/api/v1/zombies")
	var resp []api.ZombieEntry
	decode(t, rr, &resp)

	if len(resp) != 1 {
		t.Fatalf("zombie entries: got %d, want 1", len(resp))
	}
	if resp[0].InstanceID != "haunted" || len(resp[0].Entities) != 2 {
		t.Errorf("entry: %+v", resp[0])
	}
}

// --- /api/v1/certs ----------------------------------------------------------

func TestCerts_OmitsPlainHTTPInstances(t *testing.T) {
	e1 := env("secure", 95)
	e1.Cert = &types.CertStatus{
		Endpoint: "https://hub.local:8123",
		Status:   types.CertExpiring,
		DaysLeft: 12,
	}
	e2 := env("plain", 95)
	h := api.New(newStore(e1, e2))

	rr := get(t, h, "/api/v1/certs")
	var resp []api.CertEntry
	decode(t, rr, &resp)

	if len(resp) != 1 {
		t.Fatalf("cert entries: got %d, want 1", len(resp))
	}
	if resp[0].InstanceID != "secure" || resp[0].Status != "expiring" || resp[0].DaysLeft != 12 {
		t.Errorf("entry: %+v", resp[0])
	}
}

// --- /api/v1/snapshot -------------------------------------------------------

func TestSnapshot_FullDump(t *testing.T) {
	h := api.New(newStore(env("home", 90), env("cabin", 60)))
	rr := get(t, h, "/api/v1/snapshot")

	var resp api.SnapshotResponse
	decode(t, rr, &resp)

	if len(resp.Instances) != 2 {
		t.Errorf("instances: got %d, want 2", len(resp.Instances))
	}
	if _, err := time.Parse(time.RFC3339, resp.GeneratedAt); err != nil {
		t.Errorf("generated_at %q not RFC3339: %v", resp.GeneratedAt, err)
	}
}
