package perm

import (
	"math/big"
	"math/rand"
	"slices"
	"strings"

	"github.com/treesym/treesym/pkg/errors"
	"github.com/treesym/treesym/pkg/tree"
)

// TreePermutation is a [Permutation] attached to the leaves of a tree: the
// value at position i is assigned to leaf i of the tree's leaf traversal
// order. The tree defines which permutations are equivalent: reordering
// children with structurally isomorphic subtrees at any node yields another
// member of the same equivalence class.
//
// A TreePermutation keeps two derived views in sync with its element
// sequence: per-node subtree minima are recomputed whenever the elements
// change, and the per-node partition of children into isomorphism groups is
// computed once from the tree's shape. Both live in side tables keyed by
// node identity; the shared tree itself is never reordered, so several
// TreePermutations can safely reference the same tree.
//
// The tree's structure must not change for the lifetime of the
// TreePermutation; build a new instance after structural mutations such as
// Prune or Remove.
type TreePermutation struct {
	Permutation
	tree   *tree.Node
	leaves []*tree.Node
	rank   map[*tree.Node]int   // leaf -> position in traversal order
	groups map[*tree.Node][][]int
	mins   map[*tree.Node]int   // subtree minimum of assigned leaf values
}

// NewTreePermutation builds a permutation of as many elements as t has
// leaves, identified by id (nil for the identity).
//
// Returns an INVALID_ARGUMENT error if t is nil.
func NewTreePermutation(t *tree.Node, id *big.Int) (*TreePermutation, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "tree permutation requires a tree")
	}
	tp := &TreePermutation{tree: t}
	tp.index()
	tp.Permutation = *New(len(tp.leaves), id)
	tp.retag()
	return tp, nil
}

// FromPermutation attaches an existing permutation to the leaves of t. The
// element sequence is copied.
//
// Returns an INVALID_ARGUMENT error if t is nil or the element count does
// not match the tree's leaf count.
func FromPermutation(t *tree.Node, p *Permutation) (*TreePermutation, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "tree permutation requires a tree")
	}
	tp := &TreePermutation{tree: t}
	tp.index()
	if p.Len() != len(tp.leaves) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"permutation has %d elements, tree has %d leaves", p.Len(), len(tp.leaves))
	}
	tp.Permutation = *p.Clone()
	tp.retag()
	return tp, nil
}

// Tree returns the tree this permutation is attached to, so callers can map
// each element position to a concrete leaf for resource binding.
func (tp *TreePermutation) Tree() *tree.Node { return tp.tree }

// Leaves returns the tree's leaves in traversal order. Leaf i corresponds to
// element i.
func (tp *TreePermutation) Leaves() []*tree.Node { return slices.Clone(tp.leaves) }

// SubtreeMin returns the minimum permutation value assigned to any leaf of
// n's subtree. For a leaf it is the leaf's assigned value.
func (tp *TreePermutation) SubtreeMin(n *tree.Node) int { return tp.mins[n] }

// GroupedChildren returns the partition of n's child indices into
// isomorphism groups: two children share a group exactly when their subtrees
// are structurally isomorphic (equal multiset of subtree shapes, compared
// recursively). Indices within a group appear in ascending order.
func (tp *TreePermutation) GroupedChildren(n *tree.Node) [][]int {
	groups := make([][]int, len(tp.groups[n]))
	for i, g := range tp.groups[n] {
		groups[i] = slices.Clone(g)
	}
	return groups
}

// Equal reports whether tp and other assign identical element sequences.
func (tp *TreePermutation) Equal(other *TreePermutation) bool {
	return other != nil && tp.Permutation.Equal(&other.Permutation)
}

// Clone returns a deep copy sharing the same tree.
func (tp *TreePermutation) Clone() *TreePermutation {
	clone, _ := FromPermutation(tp.tree, &tp.Permutation)
	return clone
}

// index caches the leaf traversal order, leaf ranks, and the shape-derived
// isomorphism groups. Called once at construction; the groups depend only on
// the tree's shape.
func (tp *TreePermutation) index() {
	tp.leaves = tp.tree.Leaves()
	tp.rank = make(map[*tree.Node]int, len(tp.leaves))
	for i, l := range tp.leaves {
		tp.rank[l] = i
	}
	tp.groups = groupIsomorphic(tp.tree)
}

// retag recomputes the subtree minima from the current element sequence:
// each leaf carries its assigned value, and every internal node the minimum
// over its children. The tree iterator's children-before-parent order makes
// this a single bottom-up pass.
func (tp *TreePermutation) retag() {
	tp.mins = make(map[*tree.Node]int, 2*len(tp.leaves))
	it := tree.NewIterator(tp.tree, nil)
	for n := it.Next(); n != nil; n = it.Next() {
		if n.IsLeaf() {
			tp.mins[n] = tp.elements[tp.rank[n]]
			continue
		}
		min := tp.mins[n.Child(0)]
		for _, c := range n.Children()[1:] {
			if tp.mins[c] < min {
				min = tp.mins[c]
			}
		}
		tp.mins[n] = min
	}
}

// setElements replaces the element sequence and retags. The slice is taken
// over, not copied.
func (tp *TreePermutation) setElements(elements []int) {
	tp.elements = elements
	tp.retag()
}

// Canonical returns the canonical representative of tp's equivalence class:
// at every node, each isomorphism group's children are reordered ascending
// by subtree minimum, and the elements are re-derived from the resulting
// leaf order. Canonical is idempotent and does not modify tp or the tree.
func (tp *TreePermutation) Canonical() *TreePermutation {
	elements := make([]int, 0, len(tp.leaves))
	tp.walk(tp.tree, tp.canonicalOrder, func(l *tree.Node) {
		elements = append(elements, tp.mins[l])
	})
	ret := &TreePermutation{
		tree:   tp.tree,
		leaves: tp.leaves,
		rank:   tp.rank,
		groups: tp.groups,
	}
	ret.setElements(elements)
	return ret
}

// IsCanonical reports whether tp already is its class representative: at
// every node, each group's children appear in non-decreasing subtree-minimum
// order.
func (tp *TreePermutation) IsCanonical() bool {
	for n := range tp.groups {
		for _, group := range tp.groups[n] {
			for i := 1; i < len(group); i++ {
				if tp.mins[n.Child(group[i-1])] > tp.mins[n.Child(group[i])] {
					return false
				}
			}
		}
	}
	return true
}

// Shuffle returns the canonical representative reachable from a uniformly
// random permutation. The distribution over representatives is not uniform:
// classes with more members are drawn proportionally more often. A nil rng
// uses the process-wide random source.
func (tp *TreePermutation) Shuffle(rng *rand.Rand) *TreePermutation {
	random, _ := FromPermutation(tp.tree, Identity(len(tp.leaves)).Shuffle(rng))
	return random.Canonical()
}

// ShuffleNodes returns a random, generally non-canonical member of tp's
// equivalence class, obtained by independently shuffling the children within
// every isomorphism group of every node. Shuffles never cross group
// boundaries, so for any x:
//
//	x.ShuffleNodes(rng).Canonical().Equal(x.Canonical())
//
// A nil rng uses the process-wide random source.
func (tp *TreePermutation) ShuffleNodes(rng *rand.Rand) *TreePermutation {
	order := func(n *tree.Node) []int { return tp.shuffledOrder(n, rng) }
	elements := make([]int, 0, len(tp.leaves))
	tp.walk(tp.tree, order, func(l *tree.Node) {
		elements = append(elements, tp.elements[tp.rank[l]])
	})
	ret := &TreePermutation{
		tree:   tp.tree,
		leaves: tp.leaves,
		rank:   tp.rank,
		groups: tp.groups,
	}
	ret.setElements(elements)
	return ret
}

// walk visits the subtree's leaves in the child order chosen by orderFor at
// every internal node, without touching the tree itself.
func (tp *TreePermutation) walk(n *tree.Node, orderFor func(*tree.Node) []int, visit func(*tree.Node)) {
	if n.IsLeaf() {
		visit(n)
		return
	}
	for _, i := range orderFor(n) {
		tp.walk(n.Child(i), orderFor, visit)
	}
}

// canonicalOrder returns n's child indices with each isomorphism group
// sorted ascending by subtree minimum. Group members permute only among the
// positions the group occupies. Subtree minima are distinct (leaf values
// are), so the order is fully determined.
func (tp *TreePermutation) canonicalOrder(n *tree.Node) []int {
	order := Seq(n.Arity())
	for _, group := range tp.groups[n] {
		members := slices.Clone(group)
		slices.SortFunc(members, func(a, b int) int {
			return tp.mins[n.Child(a)] - tp.mins[n.Child(b)]
		})
		for i, pos := range group {
			order[pos] = members[i]
		}
	}
	return order
}

// shuffledOrder returns n's child indices with each isomorphism group
// independently shuffled in place.
func (tp *TreePermutation) shuffledOrder(n *tree.Node, rng *rand.Rand) []int {
	order := Seq(n.Arity())
	for _, group := range tp.groups[n] {
		members := slices.Clone(group)
		swap := func(i, j int) { members[i], members[j] = members[j], members[i] }
		if rng == nil {
			rand.Shuffle(len(members), swap)
		} else {
			rng.Shuffle(len(members), swap)
		}
		for i, pos := range group {
			order[pos] = members[i]
		}
	}
	return order
}

// groupIsomorphic partitions every node's children into groups of mutually
// isomorphic subtrees. Isomorphism is decided by shape signatures with
// sorted child signatures, so two subtrees match exactly when their shapes
// are equal as unordered trees, node counts and per-node arities included.
func groupIsomorphic(root *tree.Node) map[*tree.Node][][]int {
	sigs := make(map[*tree.Node]string)
	it := tree.NewIterator(root, nil)
	for n := it.Next(); n != nil; n = it.Next() {
		if n.IsLeaf() {
			sigs[n] = "()"
			continue
		}
		childSigs := make([]string, n.Arity())
		for i, c := range n.Children() {
			childSigs[i] = sigs[c]
		}
		slices.Sort(childSigs)
		sigs[n] = "(" + strings.Join(childSigs, "") + ")"
	}

	groups := make(map[*tree.Node][][]int)
	it.Reset()
	for n := it.Next(); n != nil; n = it.Next() {
		if n.IsLeaf() {
			continue
		}
		bySig := make(map[string]int)
		var partition [][]int
		for i, c := range n.Children() {
			g, ok := bySig[sigs[c]]
			if !ok {
				g = len(partition)
				bySig[sigs[c]] = g
				partition = append(partition, nil)
			}
			partition[g] = append(partition[g], i)
		}
		groups[n] = partition
	}
	return groups
}

// Classes returns the number of equivalence classes of leaf orderings over
// t's shape: n! divided by the order of the shape's automorphism group. The
// group order is the product, over every node, of |g|! for each isomorphism
// group g of its children.
//
// Returns an INVALID_ARGUMENT error if t is nil.
func Classes(t *tree.Node) (*big.Int, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "tree must not be nil")
	}
	aut := big.NewInt(1)
	for _, partition := range groupIsomorphic(t) {
		for _, group := range partition {
			aut.Mul(aut, Factorial(len(group)))
		}
	}
	return new(big.Int).Quo(Factorial(t.NLeaves()), aut), nil
}

// CanonicalSequence enumerates the canonical representatives of all
// equivalence classes over a tree, in ascending identifier order: it walks
// every permutation of the tree's leaf count and yields only those already
// in canonical form. The sequence is lazy and finite; create a fresh
// instance to enumerate again.
//
// Exhaustive enumeration walks n! candidates and is only tractable for
// small leaf counts.
type CanonicalSequence struct {
	scratch *TreePermutation
	seq     *Sequence
}

// NewCanonicalSequence creates a canonical enumerator for the given tree.
//
// Returns an INVALID_ARGUMENT error if t is nil.
func NewCanonicalSequence(t *tree.Node) (*CanonicalSequence, error) {
	scratch, err := NewTreePermutation(t, nil)
	if err != nil {
		return nil, err
	}
	return &CanonicalSequence{
		scratch: scratch,
		seq:     NewSequence(Identity(scratch.Len())),
	}, nil
}

// Next returns the next canonical tree permutation, or nil when the
// identifier space is exhausted.
func (cs *CanonicalSequence) Next() *TreePermutation {
	for p := cs.seq.Next(); p != nil; p = cs.seq.Next() {
		cs.scratch.setElements(p.elements)
		if cs.scratch.IsCanonical() {
			return cs.scratch.Clone()
		}
	}
	return nil
}

// EnumerateFunc yields canonical tree permutations via callback until fn
// returns false or the identifier space is exhausted, and returns the
// number yielded.
func (cs *CanonicalSequence) EnumerateFunc(fn func(*TreePermutation) bool) int {
	count := 0
	for tp := cs.Next(); tp != nil; tp = cs.Next() {
		count++
		if !fn(tp) {
			break
		}
	}
	return count
}
