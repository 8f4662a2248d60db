// Package config loads the server-side YAML configuration.
//
// The server reads the `server:` section of config.yaml (the `agent:` section
// in the same file is ignored, so agent and server can share one file).
// Missing fields get defaults; Load fails on structural errors only.
package config
