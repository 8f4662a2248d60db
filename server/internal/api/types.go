package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	OverallScore  float64 `json:"overall_score"`
	State         string  `json:"state"`
	InstanceCount int     `json:"instance_count"`
	HealthyCount  int     `json:"healthy_count"`
	DegradedCount int     `json:"degraded_count"`
	CriticalCount int     `json:"critical_count"`
}

// InstanceResponse is one instance entry in GET /api/v1/instances or
// GET /api/v1/instances/{id}.
type InstanceResponse struct {
	InstanceID          string   `json:"instance_id"`
	State               string   `json:"state"`
	HardwareScore       int      `json:"hardware_score"`
	ApplicationScore    int      `json:"application_score"`
	GlobalScore         int      `json:"global_score"`
	Recommendations     []string `json:"recommendations"`
	ZombieEntities      []string `json:"zombie_entities"`
	SkippedEntities     int      `json:"skipped_entities,omitempty"`
	SkippedIntegrations int      `json:"skipped_integrations,omitempty"`
	GeneratedAt         string   `json:"generated_at"` // RFC3339
	LastSeen            string   `json:"last_seen"`    // RFC3339
}

// AdviceEntry is one aggregated recommendation in GET /api/v1/advice.
type AdviceEntry struct {
	Message   string   `json:"message"`
	Instances []string `json:"instances"`
}

// ZombieEntry is one instance's zombie list in GET /api/v1/zombies.
type ZombieEntry struct {
	InstanceID string   `json:"instance_id"`
	Entities   []string `json:"entities"`
}

// CertEntry is one instance's hub certificate status in GET /api/v1/certs.
type CertEntry struct {
	InstanceID string `json:"instance_id"`
	Endpoint   string `json:"endpoint"`
	Status     string `json:"status"`
	DaysLeft   int    `json:"days_left"`
	Issuer     string `json:"issuer,omitempty"`
	NotAfter   string `json:"not_after,omitempty"`
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the WebSocket
// broadcast body.
type SnapshotResponse struct {
	Instances   []InstanceResponse `json:"instances"`
	GeneratedAt string             `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
