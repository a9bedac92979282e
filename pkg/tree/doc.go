// Package tree provides an ordered, rooted, variable-arity tree container
// with the traversal protocol used throughout treesym.
//
// # Overview
//
// A tree and a tree node are the same type: a tree is identified by its root
// [Node]. Every node holds an ordered slice of owned children and a non-owning
// back-reference to its parent, so all operations work uniformly on any
// subtree. Nodes carry no payload; collaborators that need per-node data
// (topology attributes, permutation tags) keep typed side tables keyed by
// node identity instead of an open attribute bag.
//
// # Basic Usage
//
// Build trees bottom-up or top-down with [Node.ConnectChildren] and
// [Node.ConnectParent], or synthesize a balanced tree from a list of
// per-level arities with [NewTleaf]:
//
//	root := tree.NewTleaf(2, 4, 2) // 2 children, each with 4, each with 2 leaves
//	fmt.Println(root.NLeaves())    // 16
//
// Structural queries include [Node.Coords] (the node's address as child
// indices from the root), [Node.Level], [Node.Depth], and [Node.MaxDepth].
// Mutations are [Node.Swap] (reorder children), [Node.Prune] (detach matching
// nodes), and [Node.Remove] (splice a node out, re-parenting its children).
//
// # Traversal
//
// [Iterator] walks the tree depth-first, visiting every node only after all
// of its children, starting at the leftmost deepest leaf. This leaf order is
// the positional contract used by the perm package: leaf i of the walk
// corresponds to element i of a permutation.
//
// [ScatterIterator] interleaves subtrees breadth-first in round-robin order,
// which spreads consecutive visits across branches. Both iterators accept an
// optional predicate, are lazy and finite, and hold no resources.
//
// # Concurrency
//
// Nodes are not safe for concurrent mutation. Every tree is exclusively
// owned by its caller; synchronize externally when sharing.
package tree
