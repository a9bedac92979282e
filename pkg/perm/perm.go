package perm

import (
	"math/big"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"github.com/treesym/treesym/pkg/errors"
)

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n < 0 {
		n = 0
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! as a big integer. For n <= 1, Factorial returns 1.
//
// Identifiers of permutations live in [0, n!), so factorials bound every
// enumeration in this package. They grow extremely fast: 21! already exceeds
// uint64, which is why identifiers are big integers throughout.
func Factorial(n int) *big.Int {
	f := big.NewInt(1)
	for i := int64(2); i <= int64(n); i++ {
		f.Mul(f, big.NewInt(i))
	}
	return f
}

// Permutation is an ordered sequence of n distinct integers that is a
// complete index of 0..n: every value in 0..n appears exactly once. The size
// n is fixed at construction.
//
// The zero value is the empty permutation of size 0. Permutations are only
// mutated through [Permutation.Shuffle]; all other operations return new
// instances.
type Permutation struct {
	elements []int
}

// New builds the permutation of size n identified by id.
//
// The identifier is decoded in the factorial number system: repeatedly take
// id modulo the number of remaining slots, consume the slot at that rank,
// and divide id down. Remaining slots are appended in ascending order once
// id reaches zero. The identifier is reduced modulo n! first, so every id
// maps to a valid permutation; a nil or zero id yields the identity.
//
// New and [Permutation.ID] are exact mutual inverses:
// New(n, p.ID()).ID() equals p.ID() for every permutation p of size n.
func New(n int, id *big.Int) *Permutation {
	elements := make([]int, 0, n)
	slots := Seq(n)
	rem := new(big.Int)
	if id != nil {
		rem.Mod(id, Factorial(n))
	}
	size := new(big.Int)
	digit := new(big.Int)
	for rem.Sign() > 0 && len(slots) > 0 {
		size.SetInt64(int64(len(slots)))
		rem.DivMod(rem, size, digit)
		k := int(digit.Int64())
		elements = append(elements, slots[k])
		slots = slices.Delete(slots, k, k+1)
	}
	elements = append(elements, slots...)
	return &Permutation{elements: elements}
}

// NewInt is a convenience wrapper around [New] for identifiers that fit an
// int64.
func NewInt(n int, id int64) *Permutation {
	return New(n, big.NewInt(id))
}

// Identity returns the permutation of size n with identifier 0, the identity
// element of the composition group.
func Identity(n int) *Permutation {
	return &Permutation{elements: Seq(n)}
}

// FromElements builds a permutation from an explicit element sequence.
// The slice is copied.
//
// Returns an INVALID_ARGUMENT error unless elements is a complete index of
// 0..len(elements).
func FromElements(elements []int) (*Permutation, error) {
	if !isCompleteIndex(elements) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"permutation elements must be a complete index of 0..%d", len(elements))
	}
	return &Permutation{elements: slices.Clone(elements)}, nil
}

// Parse builds a permutation from its textual form "i:j:k:...", the inverse
// of [Permutation.String]. An empty string parses to the empty permutation.
//
// Returns an INVALID_FORMAT error for non-integer fields and an
// INVALID_ARGUMENT error when the values are not a complete index.
func Parse(s string) (*Permutation, error) {
	if s == "" {
		return &Permutation{}, nil
	}
	fields := strings.Split(s, ":")
	elements := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse permutation element %q", f)
		}
		elements[i] = v
	}
	return FromElements(elements)
}

// ID returns the unique identifier of the element sequence in [0, n!).
//
// The encoding walks positions left to right, accumulating each element's
// rank within the shrinking list of unconsumed values scaled by a factorial
// mixed-radix multiplier. Position 0 contributes the least significant
// digit.
func (p *Permutation) ID() *big.Int {
	ret := big.NewInt(0)
	mul := big.NewInt(1)
	slots := Seq(len(p.elements))
	term := new(big.Int)
	for _, e := range p.elements {
		j := slices.Index(slots, e)
		term.SetInt64(int64(j))
		term.Mul(term, mul)
		ret.Add(ret, term)
		mul.Mul(mul, big.NewInt(int64(len(slots))))
		slots = slices.Delete(slots, j, j+1)
	}
	return ret
}

// Len returns the number of elements.
func (p *Permutation) Len() int { return len(p.elements) }

// At returns the element at position i.
func (p *Permutation) At(i int) int { return p.elements[i] }

// Elements returns a copy of the element sequence.
func (p *Permutation) Elements() []int { return slices.Clone(p.elements) }

// Equal reports whether p and other have identical element sequences.
func (p *Permutation) Equal(other *Permutation) bool {
	return other != nil && slices.Equal(p.elements, other.elements)
}

// Clone returns a deep copy of p.
func (p *Permutation) Clone() *Permutation {
	return &Permutation{elements: slices.Clone(p.elements)}
}

// String returns the colon-separated textual form "i:j:k:...". It round-trips
// through [Parse].
func (p *Permutation) String() string {
	fields := make([]string, len(p.elements))
	for i, e := range p.elements {
		fields[i] = strconv.Itoa(e)
	}
	return strings.Join(fields, ":")
}

// Shuffle replaces the element sequence with a uniformly random permutation
// of 0..n, in place, and returns p for chaining. A nil rng uses the
// process-wide random source; callers requiring determinism must pass a
// seeded source.
func (p *Permutation) Shuffle(rng *rand.Rand) *Permutation {
	swap := func(i, j int) { p.elements[i], p.elements[j] = p.elements[j], p.elements[i] }
	if rng == nil {
		rand.Shuffle(len(p.elements), swap)
	} else {
		rng.Shuffle(len(p.elements), swap)
	}
	return p
}

// Inverse returns the permutation q with q[p[i]] = i for all i: the rank
// order of p's elements.
func (p *Permutation) Inverse() *Permutation {
	inv := make([]int, len(p.elements))
	for i, e := range p.elements {
		inv[e] = i
	}
	return &Permutation{elements: inv}
}

// Compose combines two permutations of equal size with the cyclic-group
// operation on identifiers:
//
//	a.Compose(b).ID() == (a.ID() + b.ID()) mod n!
//
// This is not function composition; it is addition in Z/n!, with
// [Identity] as the neutral element.
//
// Returns an INVALID_ARGUMENT error when the operand sizes differ.
func (p *Permutation) Compose(other *Permutation) (*Permutation, error) {
	if other == nil || len(p.elements) != len(other.elements) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"compose requires permutations of equal size")
	}
	sum := new(big.Int).Add(p.ID(), other.ID())
	return New(len(p.elements), sum), nil
}

// Transform builds the permutation that reorders src into dst: element i of
// the result is the position in src of dst's i-th value.
//
// Returns an INVALID_ARGUMENT error when dst is not a reordering of src.
func Transform(src, dst []int) (*Permutation, error) {
	if len(src) != len(dst) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"transform requires sequences of equal length")
	}
	elements := make([]int, len(dst))
	for i, v := range dst {
		j := slices.Index(src, v)
		if j < 0 {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"transform destination value %d not present in source", v)
		}
		elements[i] = j
	}
	return FromElements(elements)
}

// isCompleteIndex reports whether elements contains every integer in
// 0..len(elements) exactly once.
func isCompleteIndex(elements []int) bool {
	seen := make([]bool, len(elements))
	for _, v := range elements {
		if v < 0 || v >= len(elements) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
