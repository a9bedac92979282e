package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or runs
// can share one backend without key collisions.
//
// Example usage:
//
//	// Per-cluster keys on a shared Redis
//	clusterKeyer := NewScopedKeyer(NewDefaultKeyer(), "cluster:a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TopologyKey generates a prefixed key for topology caching.
func (k *ScopedKeyer) TopologyKey(hostname string) string {
	return k.prefix + k.inner.TopologyKey(hostname)
}

// CanonicalKey generates a prefixed key for canonical-set caching.
func (k *ScopedKeyer) CanonicalKey(shapeSig string, opts CanonicalKeyOpts) string {
	return k.prefix + k.inner.CanonicalKey(shapeSig, opts)
}

// EquivalentKey generates a prefixed key for equivalent-set caching.
func (k *ScopedKeyer) EquivalentKey(shapeSig, permutation string, opts EquivalentKeyOpts) string {
	return k.prefix + k.inner.EquivalentKey(shapeSig, permutation, opts)
}

// RenderKey generates a prefixed key for rendered-artifact caching.
func (k *ScopedKeyer) RenderKey(shapeSig, permutation string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(shapeSig, permutation, opts)
}
