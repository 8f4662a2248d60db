package receiver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/homepulse/homepulse/pkg/types"
	"github.com/homepulse/homepulse/server/internal/store"
)

// maxBodySize caps the ingest request body. A health report with a few
// thousand zombie entities stays well under this.
const maxBodySize = 1 << 20 // 1 MiB

// Receiver handles report ingestion from agents.
type Receiver struct {
	store *store.Store
}

// New creates a Receiver that writes accepted reports to st.
func New(st *store.Store) *Receiver {
	return &Receiver{store: st}
}

// ServeHTTP handles POST /api/v1/ingest.
func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var env types.ReportEnvelope
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&env); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}
	if env.InstanceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "instance_id is required"})
		return
	}

	rc.store.Put(&env)

	slog.Debug("receiver: report stored",
		"instance", env.InstanceID,
		"global_score", env.Report.GlobalScore,
		"zombies", len(env.Report.ZombieEntities),
	)

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
