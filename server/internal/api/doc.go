// Package api serves the REST endpoints under /api/v1.
//
// All endpoints read the latest per-instance health reports from the report
// store and return JSON. Instances whose reports have exceeded the store TTL
// are treated as gone.
package api
