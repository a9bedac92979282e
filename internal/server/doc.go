// Package server exposes the mapping pipeline over HTTP.
//
// The API is a thin JSON layer on top of pkg/perm and pkg/mapgen:
//
//   - POST /v1/canonical   reduce a permutation to its canonical form
//   - POST /v1/equivalent  sample a random member of a permutation's class
//   - GET  /v1/count       count equivalence classes for a tree shape
//   - POST /v1/generate    run the full mapping generation pipeline
//   - GET  /healthz        liveness probe
//
// Errors carry their pkg/errors code in the response body and map onto
// HTTP status codes.
package server
