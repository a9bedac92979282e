package mapgen

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"math/big"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/treesym/treesym/pkg/cache"
	"github.com/treesym/treesym/pkg/errors"
	"github.com/treesym/treesym/pkg/observability"
	"github.com/treesym/treesym/pkg/perm"
	"github.com/treesym/treesym/pkg/topology"
	"github.com/treesym/treesym/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Mapping is one canonical permutation together with sampled members of its
// equivalence class.
type Mapping struct {
	Canonical   string   `json:"canonical"`
	Equivalents []string `json:"equivalents,omitempty"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Leaves        int           `json:"leaves"`
	ResolveTime   time.Duration `json:"resolve_time"`
	EnumerateTime time.Duration `json:"enumerate_time"`
	SampleTime    time.Duration `json:"sample_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TopologyHit  bool `json:"topology_hit"`  // Whether the topology came from cache
	CanonicalHit bool `json:"canonical_hit"` // Whether the canonical set came from cache
	SampleHit    bool `json:"sample_hit"`    // Whether all equivalent sets came from cache
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string `json:"run_id"`

	// ShapeSig is the shape signature of the mapped tree; identical
	// machines produce identical signatures.
	ShapeSig string `json:"shape_sig"`

	// Hostname is set when the tree came from a discovered topology.
	Hostname string `json:"hostname,omitempty"`

	// Classes is the total number of equivalence classes of the shape.
	Classes *big.Int `json:"classes"`

	// Mappings holds the generated canonical mappings and their
	// equivalents.
	Mappings []Mapping `json:"mappings"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// Execute runs the complete resolve, enumerate, sample pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{RunID: uuid.NewString()}

	// Stage 1: Resolve the tree.
	resolveStart := time.Now()
	root, hostname, topoHit, err := r.Resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Hostname = hostname
	result.ShapeSig = root.Signature()
	result.Stats.Leaves = root.NLeaves()
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.TopologyHit = topoHit

	classes, err := perm.Classes(root)
	if err != nil {
		return nil, err
	}
	result.Classes = classes

	r.Logger.Info("resolved tree",
		"leaves", result.Stats.Leaves,
		"classes", classes.String(),
		"duration", result.Stats.ResolveTime)

	// Stage 2: Enumerate canonical mappings.
	enumStart := time.Now()
	canonicals, canonHit, err := r.canonicalSet(ctx, root, result.ShapeSig, classes, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.EnumerateTime = time.Since(enumStart)
	result.CacheInfo.CanonicalHit = canonHit

	r.Logger.Info("enumerated canonical mappings",
		"count", len(canonicals),
		"duration", result.Stats.EnumerateTime)

	// Stage 3: Sample equivalents per canonical mapping.
	sampleStart := time.Now()
	result.Mappings = make([]Mapping, len(canonicals))
	result.CacheInfo.SampleHit = len(canonicals) > 0
	for i, c := range canonicals {
		equivalents, hit, err := r.equivalentSet(ctx, root, result.ShapeSig, c, classes, opts)
		if err != nil {
			return nil, err
		}
		result.Mappings[i] = Mapping{Canonical: c, Equivalents: equivalents}
		if !hit {
			result.CacheInfo.SampleHit = false
		}
	}
	result.Stats.SampleTime = time.Since(sampleStart)

	r.Logger.Info("sampled equivalent mappings",
		"canonical", len(result.Mappings),
		"duration", result.Stats.SampleTime)

	return result, nil
}

// Resolve builds the tree to map: synthetic when arities are given,
// otherwise from a cached or freshly discovered topology.
func (r *Runner) Resolve(ctx context.Context, opts Options) (*tree.Node, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	if len(opts.Arities) > 0 {
		return tree.NewTleaf(opts.Arities...), "", false, nil
	}

	host := opts.TopologyInput
	if host == "" {
		name, err := os.Hostname()
		if err != nil {
			return nil, "", false, errors.Wrap(errors.ErrCodeTopology, err, "resolve hostname")
		}
		host = name
	}

	topo, hit, err := r.discover(ctx, host, opts)
	if err != nil {
		return nil, "", false, err
	}
	if opts.RestrictType != "" {
		topo.Restrict(opts.RestrictIndexes, opts.RestrictType)
	}
	return topo.Root(), topo.Hostname(), hit, nil
}

func (r *Runner) discover(ctx context.Context, host string, opts Options) (*topology.Topology, bool, error) {
	key := r.Keyer.TopologyKey(host)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if topo, err := topology.Parse(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "topo")
				return topo, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "topo")
	}

	start := time.Now()
	observability.Pipeline().OnDiscoverStart(ctx, opts.TopologyInput)
	data, err := topology.DiscoverXML(ctx, topology.DiscoverOptions{Input: opts.TopologyInput})
	if err != nil {
		observability.Pipeline().OnDiscoverComplete(ctx, opts.TopologyInput, 0, time.Since(start), err)
		return nil, false, err
	}
	topo, err := topology.Parse(data)
	if err != nil {
		observability.Pipeline().OnDiscoverComplete(ctx, opts.TopologyInput, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnDiscoverComplete(ctx, opts.TopologyInput,
		len(topo.Root().Select(nil)), time.Since(start), nil)

	_ = r.Cache.Set(ctx, key, data, cache.TTLTopology)
	observability.Cache().OnCacheSet(ctx, "topo", len(data))
	return topo, false, nil
}

// canonicalSet returns the canonical mappings for the shape, from cache when
// possible.
func (r *Runner) canonicalSet(ctx context.Context, root *tree.Node, shapeSig string, classes *big.Int, opts Options) ([]string, bool, error) {
	key := r.Keyer.CanonicalKey(shapeSig, opts.CanonicalKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached []string
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "canon")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "canon")
	}

	start := time.Now()
	observability.Pipeline().OnEnumerateStart(ctx, shapeSig, root.NLeaves())
	canonicals, err := generateCanonicals(ctx, root, opts.NumCanonical, opts.Seed, classes)
	observability.Pipeline().OnEnumerateComplete(ctx, shapeSig, len(canonicals), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(canonicals); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLCanonical)
		observability.Cache().OnCacheSet(ctx, "canon", len(data))
	}
	return canonicals, false, nil
}

// equivalentSet returns sampled equivalents of one canonical mapping, from
// cache when possible.
func (r *Runner) equivalentSet(ctx context.Context, root *tree.Node, shapeSig, canonical string, classes *big.Int, opts Options) ([]string, bool, error) {
	key := r.Keyer.EquivalentKey(shapeSig, canonical, opts.EquivalentKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached []string
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "equiv")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "equiv")
	}

	start := time.Now()
	observability.Pipeline().OnSampleStart(ctx, shapeSig, opts.NumEquivalent)
	equivalents, err := generateEquivalents(ctx, root, canonical, opts.NumEquivalent, deriveSeed(opts.Seed, canonical), classes)
	observability.Pipeline().OnSampleComplete(ctx, shapeSig, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(equivalents); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLEquivalent)
		observability.Cache().OnCacheSet(ctx, "equiv", len(data))
	}
	return equivalents, false, nil
}

// deriveSeed gives every canonical mapping its own deterministic sampling
// stream, so per-canonical cache entries stay valid regardless of which
// other canonicals a run includes.
func deriveSeed(seed int64, canonical string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(canonical))
	return seed ^ int64(h.Sum64())
}

// maxEnumerable bounds the identifier space for falling back to exhaustive
// enumeration when rejection sampling stalls.
var maxEnumerable = big.NewInt(1 << 20)

// generateCanonicals collects up to n distinct canonical permutations of the
// tree by rejection sampling, deterministically from the seed. The target is
// capped at the number of classes.
func generateCanonicals(ctx context.Context, root *tree.Node, n int, seed int64, classes *big.Int) ([]string, error) {
	target := n
	if classes.IsInt64() && classes.Int64() < int64(target) {
		target = int(classes.Int64())
	}
	if target == 0 {
		return nil, nil
	}

	base, err := perm.NewTreePermutation(root, nil)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))

	seen := make(map[string]bool, target)
	ordered := make([]string, 0, target)
	attempts := 0
	maxAttempts := 200*target + 1000
	for len(ordered) < target {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempts >= maxAttempts {
			// Sampling stalled on the last rare classes; sweep the
			// identifier space when that is tractable.
			total := perm.Factorial(root.NLeaves())
			if total.Cmp(maxEnumerable) > 0 {
				return ordered, nil
			}
			return enumerateCanonicals(ctx, root, target)
		}
		attempts++
		s := base.Shuffle(rng).String()
		if seen[s] {
			continue
		}
		seen[s] = true
		ordered = append(ordered, s)
	}
	return ordered, nil
}

// enumerateCanonicals walks the full identifier space and returns the first
// n canonical permutations.
func enumerateCanonicals(ctx context.Context, root *tree.Node, n int) ([]string, error) {
	seq, err := perm.NewCanonicalSequence(root)
	if err != nil {
		return nil, err
	}
	canonicals := make([]string, 0, n)
	for tp := seq.Next(); tp != nil && len(canonicals) < n; tp = seq.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		canonicals = append(canonicals, tp.String())
	}
	return canonicals, nil
}

// generateEquivalents samples up to n distinct members of the canonical
// mapping's equivalence class, the canonical itself excluded. The target is
// capped at the class size minus one.
func generateEquivalents(ctx context.Context, root *tree.Node, canonical string, n int, seed int64, classes *big.Int) ([]string, error) {
	p, err := perm.Parse(canonical)
	if err != nil {
		return nil, err
	}
	tp, err := perm.FromPermutation(root, p)
	if err != nil {
		return nil, err
	}

	// All classes share one size: the automorphism group order.
	size := new(big.Int).Quo(perm.Factorial(root.NLeaves()), classes)
	target := n
	if size.IsInt64() && size.Int64()-1 < int64(target) {
		target = int(size.Int64() - 1)
	}
	if target <= 0 {
		return nil, nil
	}

	rng := rand.New(rand.NewSource(seed))
	seen := map[string]bool{canonical: true}
	ordered := make([]string, 0, target)
	attempts := 0
	maxAttempts := 200*target + 1000
	for len(ordered) < target && attempts < maxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++
		s := tp.ShuffleNodes(rng).String()
		if seen[s] {
			continue
		}
		seen[s] = true
		ordered = append(ordered, s)
	}
	return ordered, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
