// Package security inspects the TLS certificate of the hub endpoint.
//
// Check dials the endpoint, reads the leaf certificate and classifies it as
// valid, expiring (≤30 days left), expired or unreachable. Plain-HTTP hubs
// have nothing to inspect and yield a nil status.
package security
