// Package config loads and watches the agent configuration file (config.yaml).
//
// Top-level types:
//   - Config{Agent} — the agent: section of the config tree (the server:
//     section is parsed by the server binary's own config package)
//   - AgentConfig — instance_id, poll_interval, ship_interval, buffer_size,
//     server_endpoint, server_auth, hub, metrics
//   - HubConfig — endpoint, auth, tls, backup_max_age, ignore_domains
//   - MetricsConfig — source (host|prometheus), disk_path, endpoint and
//     gauge metric names for the prometheus source
//   - AuthConfig — mode (mtls|apikey|bearer|basic|none), cert/key/ca files,
//     header, key_env, token_env; Key(), Token() and Password() resolve
//     secrets from environment variables
//
// Load(path) reads the YAML file, applies defaults (60s poll, 15s ship,
// 100 buffer, 24h backup freshness, host metrics from "/"), then validates
// required fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create pattern
// used by atomic-save editors by re-adding the watch after the event.
package config
