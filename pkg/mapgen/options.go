package mapgen

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/treesym/treesym/pkg/cache"
	"github.com/treesym/treesym/pkg/errors"
)

// Default values shared by CLI, API, and plan files.
const (
	// DefaultNumCanonical is the number of canonical mappings generated
	// per shape.
	DefaultNumCanonical = 100

	// DefaultNumEquivalent is the number of equivalent variants sampled
	// per canonical mapping.
	DefaultNumEquivalent = 100

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = int64(42)
)

// Options contains all configuration for one mapping generation run.
// This struct supports JSON serialization for API requests and TOML for
// plan files.
type Options struct {
	// Arities describes a synthetic balanced tree, root first. Leave
	// empty to use a hardware topology instead.
	Arities []int `json:"arities,omitempty" toml:"arities"`

	// TopologyInput is an lstopo input (XML file or synthetic
	// description). Empty with empty Arities discovers the current
	// machine.
	TopologyInput string `json:"topology_input,omitempty" toml:"topology_input"`

	// RestrictType and RestrictIndexes narrow a discovered topology
	// before mapping, e.g. to the first two cores.
	RestrictType    string `json:"restrict_type,omitempty" toml:"restrict_type"`
	RestrictIndexes []int  `json:"restrict_indexes,omitempty" toml:"restrict_indexes"`

	// NumCanonical is the number of distinct canonical mappings to
	// produce. Capped at the number of equivalence classes.
	NumCanonical int `json:"num_canonical,omitempty" toml:"num_canonical"`

	// NumEquivalent is the number of distinct equivalents sampled per
	// canonical mapping. Capped at the class size minus one.
	NumEquivalent int `json:"num_equivalent,omitempty" toml:"num_equivalent"`

	// Seed makes generation reproducible. Zero selects DefaultSeed.
	Seed int64 `json:"seed,omitempty" toml:"seed"`

	// Refresh bypasses the cache and overwrites it with fresh results.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-" toml:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults. This method is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	for _, a := range o.Arities {
		if a < 1 {
			return errors.New(errors.ErrCodeInvalidArgument, "arities must be positive, got %d", a)
		}
	}
	if o.NumCanonical < 0 || o.NumEquivalent < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "mapping counts must not be negative")
	}
	if (o.RestrictType == "") != (len(o.RestrictIndexes) == 0) {
		return errors.New(errors.ErrCodeInvalidArgument, "restrict_type and restrict_indexes must be set together")
	}
	if o.RestrictType != "" && len(o.Arities) > 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "restriction applies to topologies, not synthetic trees")
	}
	if o.NumCanonical == 0 {
		o.NumCanonical = DefaultNumCanonical
	}
	if o.NumEquivalent == 0 {
		o.NumEquivalent = DefaultNumEquivalent
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CanonicalKeyOpts returns cache key options for the generated set.
func (o *Options) CanonicalKeyOpts() cache.CanonicalKeyOpts {
	return cache.CanonicalKeyOpts{
		Limit: o.NumCanonical,
		Seed:  o.Seed,
	}
}

// EquivalentKeyOpts returns cache key options for per-canonical sampling.
func (o *Options) EquivalentKeyOpts() cache.EquivalentKeyOpts {
	return cache.EquivalentKeyOpts{
		Count: o.NumEquivalent,
		Seed:  o.Seed,
	}
}
