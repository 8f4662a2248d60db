// Package shipper delivers ReportEnvelope JSON documents to homepulse-server
// (POST /api/v1/ingest).
//
// Shipper.Ship() is non-blocking: envelopes are placed in an in-memory
// channel (default capacity 100). When the buffer is full the oldest entry
// is evicted so the latest health data is always preserved.
//
// Shipper.Run() drains the buffer in a loop, retrying with truncated
// exponential backoff (1s→60s, ±25% jitter) on transport errors. Permanent
// HTTP responses (400, 401, 403) discard the envelope immediately rather
// than retrying — the next poll cycle produces fresher data anyway.
//
// Auth: API key via a configurable header. The postFn field is injectable
// for testing.
package shipper
