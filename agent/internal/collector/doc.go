// Package collector assembles the MetricsSnapshot scored on every poll.
//
// A Collector combines one hardware metrics source with the hub registry
// client. Hardware sources: the local host via gopsutil (host.go) or a
// Prometheus text exposition endpoint with configurable gauge names
// (prometheus.go). The hub client (hub.go) reads the entity registry,
// integration health, latest-backup age and pending core update flag from
// the hub's JSON REST API, filtering out configured ignore-domains.
//
// Authentication (mTLS, API key, bearer token, basic) is handled by the
// shared authRoundTripper in base.go; both the hub client and the
// Prometheus source receive a pre-configured *http.Client.
//
// Collection is best-effort: a failing piece is logged and leaves its part
// of the snapshot zeroed/empty, so the scoring engine always has something
// to evaluate.
package collector
