// Package types defines shared Go types used by both the agent and server.
// These are the canonical in-memory and JSON wire representations of a hub
// metrics snapshot and the health report derived from it.
package types
