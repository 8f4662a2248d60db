package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultPollInterval = 60 * time.Second
	DefaultShipInterval = 15 * time.Second
	DefaultBufferSize   = 100
	DefaultBackupMaxAge = 24 * time.Hour
	DefaultDiskPath     = "/"

	DefaultCPUMetric    = "system_cpu_percent"
	DefaultMemoryMetric = "system_memory_percent"
	DefaultDiskMetric   = "system_disk_percent"
)

// Config is the agent-side view of the configuration file.
type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig holds all agent-side settings.
type AgentConfig struct {
	// InstanceID identifies this hub installation in reports. Required.
	InstanceID string `yaml:"instance_id"`

	// PollInterval controls how often a snapshot is collected and scored.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ShipInterval is reserved for batched shipping; reports are currently
	// shipped as they are produced.
	ShipInterval time.Duration `yaml:"ship_interval"`

	// BufferSize is the maximum number of reports held in memory while the
	// server is unreachable.
	BufferSize int `yaml:"buffer_size"`

	// ServerEndpoint is the base URL of homepulse-server (http://host:port).
	ServerEndpoint string `yaml:"server_endpoint"`

	// ServerAuth configures how the agent authenticates to homepulse-server.
	ServerAuth AuthConfig `yaml:"server_auth"`

	// Hub configures access to the home automation hub's REST API.
	Hub HubConfig `yaml:"hub"`

	// Metrics selects where hardware metrics come from.
	Metrics MetricsConfig `yaml:"metrics"`
}

// HubConfig describes the monitored home automation hub.
type HubConfig struct {
	// Endpoint is the base URL of the hub's REST API.
	Endpoint string `yaml:"endpoint"`

	// Auth configures how the agent authenticates to the hub.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`

	// BackupMaxAge is the freshness threshold: a latest backup older than
	// this marks the snapshot's backup as stale.
	BackupMaxAge time.Duration `yaml:"backup_max_age"`

	// IgnoreDomains lists entity domains excluded from the snapshot
	// entirely (on top of the engine's built-in exempt domains).
	IgnoreDomains []string `yaml:"ignore_domains"`
}

// MetricsConfig selects the hardware metrics source.
type MetricsConfig struct {
	// Source is one of: host | prometheus.
	Source string `yaml:"source"`

	// DiskPath is the mount point sampled for disk usage (host source).
	DiskPath string `yaml:"disk_path"`

	// Endpoint is the Prometheus text exposition URL (prometheus source).
	Endpoint string `yaml:"endpoint"`

	// Gauge metric names read from the exposition (prometheus source).
	CPUMetric    string `yaml:"cpu_metric"`
	MemoryMetric string `yaml:"memory_metric"`
	DiskMetric   string `yaml:"disk_metric"`
}

// AuthConfig specifies an authentication mode for an HTTP endpoint.
type AuthConfig struct {
	// Mode is one of: mtls | apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// mTLS fields — used when Mode == "mtls".
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// API key fields — used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields — used when Mode == "bearer".
	// TokenEnv is the name of the environment variable that holds the token.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields — used when Mode == "basic".
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// EffectiveHeader returns the configured API key header, defaulting to
// "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header == "" {
		return "x-api-key"
	}
	return a.Header
}

// TLSConfig holds TLS dial options for the hub endpoint.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for self-signed hubs on trusted networks.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			PollInterval: DefaultPollInterval,
			ShipInterval: DefaultShipInterval,
			BufferSize:   DefaultBufferSize,
			Hub: HubConfig{
				BackupMaxAge: DefaultBackupMaxAge,
			},
			Metrics: MetricsConfig{
				Source:       "host",
				DiskPath:     DefaultDiskPath,
				CPUMetric:    DefaultCPUMetric,
				MemoryMetric: DefaultMemoryMetric,
				DiskMetric:   DefaultDiskMetric,
			},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	a := cfg.Agent
	if a.InstanceID == "" {
		return fmt.Errorf("agent.instance_id is required")
	}
	if a.ServerEndpoint == "" {
		return fmt.Errorf("agent.server_endpoint is required")
	}
	if a.PollInterval <= 0 {
		return fmt.Errorf("agent.poll_interval must be positive")
	}
	if a.BufferSize <= 0 {
		return fmt.Errorf("agent.buffer_size must be positive")
	}
	if a.Hub.Endpoint == "" {
		return fmt.Errorf("agent.hub.endpoint is required")
	}
	if a.Hub.BackupMaxAge <= 0 {
		return fmt.Errorf("agent.hub.backup_max_age must be positive")
	}
	switch a.Metrics.Source {
	case "host", "prometheus":
	default:
		return fmt.Errorf("agent.metrics.source: unknown source %q", a.Metrics.Source)
	}
	if a.Metrics.Source == "prometheus" && a.Metrics.Endpoint == "" {
		return fmt.Errorf("agent.metrics.endpoint is required for the prometheus source")
	}
	switch a.Hub.Auth.Mode {
	case "mtls", "apikey", "bearer", "basic", "none", "":
	default:
		return fmt.Errorf("agent.hub.auth: unknown mode %q", a.Hub.Auth.Mode)
	}
	switch a.ServerAuth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("agent.server_auth: unknown mode %q", a.ServerAuth.Mode)
	}
	return nil
}
