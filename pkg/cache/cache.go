// Package cache provides pluggable byte caching for expensive pipeline
// results: discovered topologies, canonical permutation sets and rendered
// artifacts.
//
// Backends share the [Cache] interface; [FileCache] suits CLI usage,
// [MemoryCache] suits tests and short-lived servers, [RedisCache] suits
// shared deployments, and [NullCache] disables caching entirely. Keys are
// produced through a [Keyer] so callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero or negative ttl stores it without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per cacheable stage. Topologies change on hardware swaps,
// generated sets and artifacts only with the inputs already in their keys.
const (
	TTLTopology   = 24 * time.Hour
	TTLCanonical  = 7 * 24 * time.Hour
	TTLEquivalent = 7 * 24 * time.Hour
	TTLRender     = 30 * 24 * time.Hour
)

// CanonicalKeyOpts parameterize canonical-set cache keys.
type CanonicalKeyOpts struct {
	Limit int   `json:"limit"`
	Seed  int64 `json:"seed"`
}

// EquivalentKeyOpts parameterize equivalent-set cache keys.
type EquivalentKeyOpts struct {
	Count int   `json:"count"`
	Seed  int64 `json:"seed"`
}

// RenderKeyOpts parameterize rendered-artifact cache keys.
type RenderKeyOpts struct {
	Format string `json:"format"`
}

// Keyer generates cache keys for the pipeline's cacheable stages. Keys for
// the same inputs must be identical across processes so caches can be
// shared.
type Keyer interface {
	// TopologyKey keys a discovered topology by host identity.
	TopologyKey(hostname string) string

	// CanonicalKey keys the canonical permutation set of a tree shape.
	// The shape signature must identify the tree up to isomorphism.
	CanonicalKey(shapeSig string, opts CanonicalKeyOpts) string

	// EquivalentKey keys a sampled set of equivalent permutations.
	EquivalentKey(shapeSig, permutation string, opts EquivalentKeyOpts) string

	// RenderKey keys a rendered artifact of a mapped tree.
	RenderKey(shapeSig, permutation string, opts RenderKeyOpts) string
}

// DefaultKeyer is the standard key scheme. Keys are prefixed by stage and
// hashed, so arbitrary signatures and permutation strings stay filesystem
// and Redis safe.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TopologyKey generates a key for topology caching.
func (k *DefaultKeyer) TopologyKey(hostname string) string {
	return hashKey("topo", hostname)
}

// CanonicalKey generates a key for canonical-set caching.
func (k *DefaultKeyer) CanonicalKey(shapeSig string, opts CanonicalKeyOpts) string {
	return hashKey("canon", shapeSig, opts)
}

// EquivalentKey generates a key for equivalent-set caching.
func (k *DefaultKeyer) EquivalentKey(shapeSig, permutation string, opts EquivalentKeyOpts) string {
	return hashKey("equiv", shapeSig, permutation, opts)
}

// RenderKey generates a key for rendered-artifact caching.
func (k *DefaultKeyer) RenderKey(shapeSig, permutation string, opts RenderKeyOpts) string {
	return hashKey("render", shapeSig, permutation, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
