// Package server implements the HTTP job API around the tracking
// pipeline.
//
// # Endpoints
//
//   - POST /jobs        submit a job; returns its ID immediately
//   - GET  /jobs        list known jobs
//   - GET  /jobs/{id}   job status and artifact paths
//   - GET  /healthz     liveness probe
//   - GET  /metrics     Prometheus metrics
//
// # Job Model
//
// Jobs execute in a background goroutine per submission and progress
// through pending -> running -> done|failed. Status lives in an
// in-memory store owned by the Server instance; there is no
// process-wide state, so multiple servers (or tests) can coexist in
// one process.
//
// # Validation
//
// The submission handler owns the input validation the pipeline
// assumes: target color must be a 6-hex-digit triple, threshold must
// be in [0,255], and region declarations (when provided inline) must
// parse in full. Malformed regions reject the submission rather than
// silently degrading; the degraded no-regions mode is a choice the
// batch CLI makes explicitly, not a server default.
package server
