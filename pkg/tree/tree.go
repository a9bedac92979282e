package tree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/treesym/treesym/pkg/errors"
)

// Node is a node of an ordered, rooted tree. A tree and a node are the same
// type: a tree is identified by its root node, and all methods work on any
// subtree.
//
// The zero value is a usable single-node tree (a root that is also a leaf).
// Nodes are not safe for concurrent mutation.
type Node struct {
	parent   *Node
	children []*Node
}

// New creates a detached single-node tree.
func New() *Node {
	return &Node{}
}

// NewTleaf builds a balanced tree where all nodes at the same depth share the
// same arity. The arities are given per level above the leaves: NewTleaf(2, 3)
// is a root with 2 children, each of which has 3 leaf children.
//
// NewTleaf() returns a single-node tree.
func NewTleaf(arities ...int) *Node {
	n := &Node{}
	if len(arities) == 0 {
		return n
	}
	for i := 0; i < arities[0]; i++ {
		child := NewTleaf(arities[1:]...)
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

// ConnectChildren links the given nodes as children of n, in order, after any
// existing children. Each child's parent reference is set to n.
//
// Returns an INVALID_ARGUMENT error if any argument is nil; in that case no
// links are created.
func (n *Node) ConnectChildren(children ...*Node) error {
	for _, c := range children {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidArgument, "ConnectChildren takes non-nil nodes")
		}
	}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return nil
}

// ConnectParent links n as the last child of p.
//
// Returns an INVALID_ARGUMENT error if p is nil.
func (n *Node) ConnectParent(p *Node) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "ConnectParent takes a non-nil node")
	}
	p.children = append(p.children, n)
	n.parent = p
	return nil
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Parent returns n's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns n's children in order. The returned slice is a copy;
// the nodes themselves are shared.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Child returns the i-th child, or nil if i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Arity returns the number of children of n.
func (n *Node) Arity() int { return len(n.children) }

// Depth returns the distance from n to the root of its tree.
func (n *Node) Depth() int {
	if n.parent == nil {
		return 0
	}
	return 1 + n.parent.Depth()
}

// MaxDepth returns the maximum distance from the root of n's tree to any
// leaf below n.
func (n *Node) MaxDepth() int {
	max := 0
	it := NewIterator(n, (*Node).IsLeaf)
	for l := it.Next(); l != nil; l = it.Next() {
		if d := l.Depth(); d > max {
			max = d
		}
	}
	return max
}

// Index returns n's position among its parent's children, or 0 for the root.
func (n *Node) Index() int {
	if n.parent == nil {
		return 0
	}
	return slices.Index(n.parent.children, n)
}

// Root returns the root of the tree containing n.
func (n *Node) Root() *Node {
	if n.parent == nil {
		return n
	}
	return n.parent.Root()
}

// Coords returns n's structural address: the list of child indices followed
// from the root to reach n. The root has empty coordinates.
func (n *Node) Coords() []int {
	if n.parent == nil {
		return []int{}
	}
	return append(n.parent.Coords(), n.Index())
}

// At retrieves a descendant by its coordinates relative to n. Walking stops
// early at a leaf, so coordinates deeper than the tree resolve to the leaf
// reached.
func (n *Node) At(coords ...int) *Node {
	if len(coords) == 0 || n.IsLeaf() {
		return n
	}
	c := n.Child(coords[0])
	if c == nil {
		return nil
	}
	return c.At(coords[1:]...)
}

// Swap reorders n's children so that new child i is old child order[i].
//
// Returns an INVALID_ARGUMENT error unless order is a complete index of the
// current child count (every value in 0..arity appears exactly once). A
// two-child Swap([1,0]) is an involution: applying it twice restores the
// original order.
func (n *Node) Swap(order []int) error {
	if len(order) != len(n.children) || !isCompleteIndex(order) {
		return errors.New(errors.ErrCodeInvalidArgument,
			"swap order must be a complete index of %d children", len(n.children))
	}
	reordered := make([]*Node, len(order))
	for i, j := range order {
		reordered[i] = n.children[j]
	}
	n.children = reordered
	return nil
}

// Level returns all nodes at relative depth i below n. Leaves shallower than
// i are included, so the result always covers the full breadth of the
// subtree.
func (n *Node) Level(i int) []*Node {
	if i == 0 || n.IsLeaf() {
		return []*Node{n}
	}
	var nodes []*Node
	for _, c := range n.children {
		nodes = append(nodes, c.Level(i-1)...)
	}
	return nodes
}

// Apply visits n and its descendants pre-order, calling fn on each node.
// A non-negative depth limits the recursion: Apply(fn, 0) visits only n.
// Pass a negative depth for no cutoff.
func (n *Node) Apply(fn func(*Node), depth int) {
	fn(n)
	if depth == 0 || n.IsLeaf() {
		return
	}
	for _, c := range n.children {
		c.Apply(fn, depth-1)
	}
}

// Reduce folds the subtree bottom-up into a single leaf: every internal node
// resolves to fn applied to the resolutions of its children.
func (n *Node) Reduce(fn func([]*Node) *Node) *Node {
	if n.IsLeaf() {
		return n
	}
	resolved := make([]*Node, len(n.children))
	for i, c := range n.children {
		resolved[i] = c.Reduce(fn)
	}
	return fn(resolved)
}

// Select walks all nodes of the subtree in iterator order and returns those
// satisfying cond.
func (n *Node) Select(cond func(*Node) bool) []*Node {
	var nodes []*Node
	it := NewIterator(n, cond)
	for m := it.Next(); m != nil; m = it.Next() {
		nodes = append(nodes, m)
	}
	return nodes
}

// Prune detaches every node below n (including n itself) satisfying cond and
// returns the detached nodes. When a matched node's ancestor also matches,
// detaching the ancestor already removes the descendant from the tree; the
// descendant still appears in the returned list.
func (n *Node) Prune(cond func(*Node) bool) []*Node {
	eliminated := n.Select(cond)
	for _, e := range eliminated {
		if e.parent != nil {
			e.parent.children = slices.DeleteFunc(slices.Clone(e.parent.children),
				func(c *Node) bool { return c == e })
			e.parent = nil
		}
	}
	return eliminated
}

// Remove splices n out of its tree: n's children take its place among the
// former parent's children, preserving order. Removing a root is a no-op.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	i := n.Index()
	children := make([]*Node, 0, len(p.children)+len(n.children)-1)
	children = append(children, p.children[:i]...)
	children = append(children, n.children...)
	children = append(children, p.children[i+1:]...)
	for _, c := range n.children {
		c.parent = p
	}
	p.children = children
	n.parent = nil
	n.children = nil
}

// FirstLeaf returns the leftmost leaf of the subtree.
func (n *Node) FirstLeaf() *Node {
	if n.IsLeaf() {
		return n
	}
	return n.children[0].FirstLeaf()
}

// LastLeaf returns the rightmost leaf of the subtree.
func (n *Node) LastLeaf() *Node {
	if n.IsLeaf() {
		return n
	}
	return n.children[len(n.children)-1].LastLeaf()
}

// NLeaves returns the number of leaves in the subtree.
func (n *Node) NLeaves() int {
	if n.IsLeaf() {
		return 1
	}
	sum := 0
	for _, c := range n.children {
		sum += c.NLeaves()
	}
	return sum
}

// Leaves returns the leaves of the subtree in traversal order. This order
// defines the positional correspondence with permutation elements.
func (n *Node) Leaves() []*Node {
	return n.Select((*Node).IsLeaf)
}

// Clone returns a deep copy of the subtree rooted at n. The copy is a
// detached root regardless of n's position in its original tree.
func (n *Node) Clone() *Node {
	clone := &Node{}
	clone.children = make([]*Node, len(n.children))
	for i, c := range n.children {
		cc := c.Clone()
		cc.parent = clone
		clone.children[i] = cc
	}
	return clone
}

// Signature returns a parenthesized encoding of the subtree's shape. Child
// signatures are sorted before concatenation, so two subtrees have equal
// signatures exactly when they are isomorphic as unordered trees.
func (n *Node) Signature() string {
	if n.IsLeaf() {
		return "()"
	}
	sigs := make([]string, len(n.children))
	for i, c := range n.children {
		sigs[i] = c.Signature()
	}
	slices.Sort(sigs)
	return "(" + strings.Join(sigs, "") + ")"
}

// String renders the subtree as an indented outline of node coordinates.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, "")
	return b.String()
}

func (n *Node) write(b *strings.Builder, prefix string) {
	fmt.Fprintf(b, "%s%v\n", prefix, n.Coords())
	for _, c := range n.children {
		c.write(b, prefix+"  ")
	}
}

// isCompleteIndex reports whether order contains every integer in 0..len(order)
// exactly once.
func isCompleteIndex(order []int) bool {
	seen := make([]bool, len(order))
	for _, v := range order {
		if v < 0 || v >= len(order) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
