package types

import "time"

// Entity states that mark an entity as potentially dead.
const (
	StateUnavailable = "unavailable"
	StateUnknown     = "unknown"
)

// Entity is one entry of the hub's entity registry.
// ID is the full entity id (e.g. "sensor.living_room_temp"), Domain the part
// before the first dot. State is the raw state string as reported by the hub;
// anything other than "unavailable"/"unknown" counts as live.
type Entity struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	State  string `json:"state"`
}

// Integration is one entry of the hub's integration registry.
// Healthy is a pointer so a missing field in the hub payload is
// distinguishable from an explicit false — entries without it are skipped
// by the scoring engine rather than counted as unhealthy.
type Integration struct {
	Name    string `json:"name"`
	Healthy *bool  `json:"healthy"`
}

// MetricsSnapshot is the full input of one evaluation cycle. It is assembled
// by the collector once per poll and treated as immutable afterwards.
type MetricsSnapshot struct {
	CPULoadPercent     float64 `json:"cpu_load_percent"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`
	DiskUsagePercent   float64 `json:"disk_usage_percent"`

	Entities     []Entity      `json:"entities"`
	Integrations []Integration `json:"integrations"`

	// BackupStale is true when the latest backup is older than the
	// configured freshness threshold.
	BackupStale bool `json:"backup_stale"`

	// PendingCoreUpdate is true when the hub reports an installable
	// core update.
	PendingCoreUpdate bool `json:"pending_core_update"`
}

// HealthReport is the externally observable result of one evaluation.
// It is derived entirely from a single MetricsSnapshot; evaluating the same
// snapshot twice yields an identical report.
type HealthReport struct {
	HardwareScore    int `json:"hardware_score"`
	ApplicationScore int `json:"application_score"`
	GlobalScore      int `json:"global_score"`

	// Recommendations is the ordered, de-duplicated list of remediation
	// hints. Empty (never a placeholder) when nothing fired.
	Recommendations []string `json:"recommendations"`

	// ZombieEntities lists the ids of all entities classified as zombies,
	// in registry order. The zombie point cap does not shorten this list.
	ZombieEntities []string `json:"zombie_entities"`

	// Counts of registry entries that were skipped because required fields
	// were missing. Non-zero values indicate a partial (best-effort) score.
	SkippedEntities     int `json:"skipped_entities,omitempty"`
	SkippedIntegrations int `json:"skipped_integrations,omitempty"`
}

// Certificate status values reported in CertStatus.Status.
const (
	CertValid       = "valid"
	CertExpiring    = "expiring"
	CertExpired     = "expired"
	CertUnreachable = "unreachable"
)

// CertStatus describes the TLS certificate of the hub endpoint.
// Status is one of: valid | expiring | expired | unreachable.
type CertStatus struct {
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	DaysLeft int    `json:"days_left"`
	Issuer   string `json:"issuer,omitempty"`
	NotAfter string `json:"not_after,omitempty"` // RFC3339
}

// ReportEnvelope is the unit shipped from agent to server: one health report
// plus the identity and timing metadata the engine itself does not own.
type ReportEnvelope struct {
	InstanceID  string       `json:"instance_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Report      HealthReport `json:"report"`
	Cert        *CertStatus  `json:"cert,omitempty"`
}
