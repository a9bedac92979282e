package tree

import (
	"slices"
	"testing"

	"github.com/treesym/treesym/pkg/errors"
)

func TestNewTleaf(t *testing.T) {
	tests := []struct {
		name    string
		arities []int
		leaves  int
		depth   int
		arity   int
	}{
		{name: "single node", arities: nil, leaves: 1, depth: 0, arity: 0},
		{name: "flat", arities: []int{4}, leaves: 4, depth: 1, arity: 4},
		{name: "two levels", arities: []int{2, 2}, leaves: 4, depth: 2, arity: 2},
		{name: "three levels", arities: []int{2, 4, 2}, leaves: 16, depth: 3, arity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewTleaf(tt.arities...)
			if got := root.NLeaves(); got != tt.leaves {
				t.Errorf("NLeaves() = %d, want %d", got, tt.leaves)
			}
			if got := root.MaxDepth(); got != tt.depth {
				t.Errorf("MaxDepth() = %d, want %d", got, tt.depth)
			}
			if got := root.Arity(); got != tt.arity {
				t.Errorf("Arity() = %d, want %d", got, tt.arity)
			}
		})
	}
}

func TestConnectChildren(t *testing.T) {
	root := New()
	a, b := New(), New()

	if err := root.ConnectChildren(a, b); err != nil {
		t.Fatalf("ConnectChildren error: %v", err)
	}
	if root.Arity() != 2 {
		t.Errorf("Arity() = %d, want 2", root.Arity())
	}
	if a.Parent() != root || b.Parent() != root {
		t.Error("children should point back to their parent")
	}

	if err := root.ConnectChildren(nil); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("ConnectChildren(nil) error = %v, want INVALID_ARGUMENT", err)
	}
	if root.Arity() != 2 {
		t.Error("failed connect should not modify children")
	}
}

func TestConnectParent(t *testing.T) {
	root := New()
	child := New()

	if err := child.ConnectParent(root); err != nil {
		t.Fatalf("ConnectParent error: %v", err)
	}
	if child.Parent() != root {
		t.Error("child should point to parent")
	}
	if root.Child(0) != child {
		t.Error("parent should own the child")
	}

	if err := child.ConnectParent(nil); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("ConnectParent(nil) error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestSwap(t *testing.T) {
	root := NewTleaf(2)
	first, second := root.Child(0), root.Child(1)

	if err := root.Swap([]int{1, 0}); err != nil {
		t.Fatalf("Swap error: %v", err)
	}
	if root.Child(0) != second || root.Child(1) != first {
		t.Error("Swap([1,0]) should exchange the children")
	}

	// A 2-way swap is an involution.
	if err := root.Swap([]int{1, 0}); err != nil {
		t.Fatalf("Swap error: %v", err)
	}
	if root.Child(0) != first || root.Child(1) != second {
		t.Error("applying Swap([1,0]) twice should restore the original order")
	}
}

func TestSwapInvalid(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{name: "too short", order: []int{0}},
		{name: "too long", order: []int{0, 1, 2}},
		{name: "duplicate", order: []int{0, 0}},
		{name: "out of range", order: []int{0, 2}},
		{name: "negative", order: []int{-1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewTleaf(2)
			if err := root.Swap(tt.order); !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("Swap(%v) error = %v, want INVALID_ARGUMENT", tt.order, err)
			}
		})
	}
}

func TestCoordsAndAt(t *testing.T) {
	root := NewTleaf(2, 4, 2)

	node := root.At(1, 3, 1)
	if got := node.Coords(); !slices.Equal(got, []int{1, 3, 1}) {
		t.Errorf("Coords() = %v, want [1 3 1]", got)
	}
	if got := root.Coords(); len(got) != 0 {
		t.Errorf("root Coords() = %v, want []", got)
	}
	if node.Root() != root {
		t.Error("Root() should resolve to the tree root")
	}
	if got := node.Depth(); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}

	// Walking past a leaf stops at the leaf.
	if root.At(1, 3, 1, 0, 0) != node {
		t.Error("At should stop at leaves")
	}
	if root.At(5) != nil {
		t.Error("At with an out-of-range index should return nil")
	}
}

func TestIndex(t *testing.T) {
	root := NewTleaf(3)
	for i := 0; i < 3; i++ {
		if got := root.Child(i).Index(); got != i {
			t.Errorf("Child(%d).Index() = %d", i, got)
		}
	}
	if root.Index() != 0 {
		t.Errorf("root Index() = %d, want 0", root.Index())
	}
}

func TestLevel(t *testing.T) {
	root := NewTleaf(2, 3)

	if got := len(root.Level(0)); got != 1 {
		t.Errorf("Level(0) has %d nodes, want 1", got)
	}
	if got := len(root.Level(1)); got != 2 {
		t.Errorf("Level(1) has %d nodes, want 2", got)
	}
	if got := len(root.Level(2)); got != 6 {
		t.Errorf("Level(2) has %d nodes, want 6", got)
	}
	// Deeper than the tree: leaves are carried down.
	if got := len(root.Level(3)); got != 6 {
		t.Errorf("Level(3) has %d nodes, want 6", got)
	}
}

func TestApply(t *testing.T) {
	root := NewTleaf(2, 2)

	count := 0
	root.Apply(func(*Node) { count++ }, -1)
	if count != 7 {
		t.Errorf("Apply visited %d nodes, want 7", count)
	}

	count = 0
	root.Apply(func(*Node) { count++ }, 1)
	if count != 3 {
		t.Errorf("Apply with depth 1 visited %d nodes, want 3", count)
	}

	count = 0
	root.Apply(func(*Node) { count++ }, 0)
	if count != 1 {
		t.Errorf("Apply with depth 0 visited %d nodes, want 1", count)
	}
}

func TestReduce(t *testing.T) {
	root := NewTleaf(2, 2)
	last := root.LastLeaf()

	got := root.Reduce(func(nodes []*Node) *Node { return nodes[len(nodes)-1] })
	if got != last {
		t.Error("Reduce picking the last child should resolve to the last leaf")
	}

	leaf := New()
	if leaf.Reduce(func(nodes []*Node) *Node { return nodes[0] }) != leaf {
		t.Error("Reduce on a leaf should return the leaf itself")
	}
}

func TestSelect(t *testing.T) {
	root := NewTleaf(2, 3)

	leaves := root.Select((*Node).IsLeaf)
	if len(leaves) != 6 {
		t.Errorf("Select(IsLeaf) returned %d nodes, want 6", len(leaves))
	}
	all := root.Select(nil)
	if len(all) != 9 {
		t.Errorf("Select(nil) returned %d nodes, want 9", len(all))
	}
}

func TestPrune(t *testing.T) {
	root := NewTleaf(2, 2)

	// Detach the first leaf of every internal node.
	detached := root.Prune(func(n *Node) bool { return n.IsLeaf() && n.Index() == 0 })
	if len(detached) != 2 {
		t.Fatalf("Prune detached %d nodes, want 2", len(detached))
	}
	if got := root.NLeaves(); got != 2 {
		t.Errorf("NLeaves() after prune = %d, want 2", got)
	}
	for _, d := range detached {
		if d.Parent() != nil {
			t.Error("detached nodes should have no parent")
		}
	}
}

func TestPruneMatchedAncestor(t *testing.T) {
	root := NewTleaf(2, 2)
	branch := root.Child(0)

	// Both a subtree and one of its leaves match; detaching the subtree
	// already removes the leaf from the tree.
	detached := root.Prune(func(n *Node) bool { return n == branch || n.Parent() == branch })
	if len(detached) != 3 {
		t.Errorf("Prune detached %d nodes, want 3", len(detached))
	}
	if got := root.Arity(); got != 1 {
		t.Errorf("root Arity() after prune = %d, want 1", got)
	}
	if got := root.NLeaves(); got != 2 {
		t.Errorf("NLeaves() after prune = %d, want 2", got)
	}
}

func TestRemove(t *testing.T) {
	root := NewTleaf(2, 2)
	branch := root.Child(0)
	grandchildren := branch.Children()

	branch.Remove()

	if got := root.Arity(); got != 3 {
		t.Fatalf("root Arity() after remove = %d, want 3", got)
	}
	// Spliced children take the removed node's position, preserving order.
	if root.Child(0) != grandchildren[0] || root.Child(1) != grandchildren[1] {
		t.Error("removed node's children should take its position in order")
	}
	for _, c := range grandchildren {
		if c.Parent() != root {
			t.Error("spliced children should be re-parented")
		}
	}

	// Removing a root is a no-op.
	root.Remove()
	if root.Arity() != 3 {
		t.Error("removing a root should not modify the tree")
	}
}

func TestFirstLastLeaf(t *testing.T) {
	root := NewTleaf(2, 2)

	if got := root.FirstLeaf(); got != root.At(0, 0) {
		t.Error("FirstLeaf() should be the leftmost deepest leaf")
	}
	if got := root.LastLeaf(); got != root.At(1, 1) {
		t.Error("LastLeaf() should be the rightmost leaf")
	}

	leaf := New()
	if leaf.FirstLeaf() != leaf || leaf.LastLeaf() != leaf {
		t.Error("a single node is its own first and last leaf")
	}
}

func TestClone(t *testing.T) {
	root := NewTleaf(2, 3)
	clone := root.Clone()

	if clone == root {
		t.Fatal("Clone should allocate a new tree")
	}
	if !clone.IsRoot() {
		t.Error("clone should be a detached root")
	}
	if clone.NLeaves() != root.NLeaves() || clone.MaxDepth() != root.MaxDepth() {
		t.Error("clone should preserve the tree shape")
	}

	// Mutating the clone leaves the original untouched.
	clone.Prune((*Node).IsLeaf)
	if root.NLeaves() != 6 {
		t.Error("pruning the clone should not affect the original")
	}
}

func TestSignature(t *testing.T) {
	if got := New().Signature(); got != "()" {
		t.Errorf("leaf Signature() = %q, want %q", got, "()")
	}
	if got := NewTleaf(2).Signature(); got != "(()())" {
		t.Errorf("Signature() = %q, want %q", got, "(()())")
	}

	// Signatures ignore child order.
	a := New()
	if err := a.ConnectChildren(New(), NewTleaf(2)); err != nil {
		t.Fatal(err)
	}
	b := New()
	if err := b.ConnectChildren(NewTleaf(2), New()); err != nil {
		t.Fatal(err)
	}
	if a.Signature() != b.Signature() {
		t.Error("mirrored trees should share a signature")
	}

	// Different shapes differ.
	if NewTleaf(2, 2).Signature() == NewTleaf(4).Signature() {
		t.Error("distinct shapes should have distinct signatures")
	}
}

func TestChildrenIsACopy(t *testing.T) {
	root := NewTleaf(2)
	children := root.Children()
	children[0] = nil
	if root.Child(0) == nil {
		t.Error("mutating the returned slice should not affect the tree")
	}
}
