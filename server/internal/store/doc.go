// Package store keeps the latest health report per instance in memory.
//
// Entries are keyed by instance_id and carry the time they were last
// received. A background loop (Run) evicts entries that have not been
// refreshed within the configured TTL, so an agent that stops reporting
// drops out of the API after one TTL window.
package store
