// Package receiver accepts report envelopes from homepulse-agent instances.
//
// It handles POST /api/v1/ingest: the JSON body is decoded, validated and
// written to the report store. Authentication is enforced by middleware
// before the handler runs.
package receiver
