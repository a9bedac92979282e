package tree

// Iterator walks all nodes of a tree depth-first, visiting a node only after
// all of its children:
//
//	6----5----4
//	|    |
//	|    +----3
//	|
//	+----2----1
//	     |
//	     +----0
//
// The walk starts at the leftmost deepest leaf and advances via
// next-sibling-or-parent steps, ending at the root. The sequence is lazy,
// finite, and single-pass; call [Iterator.Reset] to walk again.
//
// An optional predicate filters the yielded nodes; the walk itself still
// covers every node.
type Iterator struct {
	root    *Node
	cond    func(*Node) bool
	current *Node
}

// NewIterator creates an iterator over the subtree rooted at root.
// A nil cond yields every node. For a leaf iterator:
//
//	it := tree.NewIterator(root, (*tree.Node).IsLeaf)
func NewIterator(root *Node, cond func(*Node) bool) *Iterator {
	it := &Iterator{root: root, cond: cond}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the first node without allocating a new one.
func (it *Iterator) Reset() {
	it.current = it.root.FirstLeaf()
}

// Next returns the next node satisfying the predicate, or nil when the walk
// is exhausted.
func (it *Iterator) Next() *Node {
	for it.current != nil {
		ret := it.current
		it.advance()
		if it.cond == nil || it.cond(ret) {
			return ret
		}
	}
	return nil
}

func (it *Iterator) advance() {
	cur := it.current
	if cur == it.root || cur.parent == nil {
		it.current = nil
		return
	}
	next := cur.Index() + 1
	if next == len(cur.parent.children) {
		it.current = cur.parent
		return
	}
	it.current = cur.parent.children[next].FirstLeaf()
}

// Count consumes the remaining sequence and returns the number of nodes
// yielded. Use Reset to walk again afterwards.
func (it *Iterator) Count() int {
	count := 0
	for it.Next() != nil {
		count++
	}
	return count
}

// ScatterIterator walks all nodes of a tree level-by-level in round-robin
// order across subtrees:
//
//	0----2----6
//	|    |
//	|    +----4
//	|
//	+----1----5
//	     |
//	     +----3
//
// Each entry into a not-yet-yielded node yields it; afterwards the node
// routes successive visits into its children in rotation, spreading
// consecutive visits across branches. Visit counters live in a side table,
// so concurrent ScatterIterators over the same tree do not interfere.
//
// The sequence is lazy and finite. An optional predicate filters the yielded
// nodes; the counting logic still walks every node.
type ScatterIterator struct {
	root   *Node
	cond   func(*Node) bool
	visits map[*Node]int
	last   *Node
	done   bool
}

// NewScatterIterator creates a scatter iterator over the subtree rooted at
// root. A nil cond yields every node.
func NewScatterIterator(root *Node, cond func(*Node) bool) *ScatterIterator {
	it := &ScatterIterator{
		root:   root,
		cond:   cond,
		visits: make(map[*Node]int),
		last:   root.LastLeaf(),
	}
	walk := NewIterator(root, nil)
	for n := walk.Next(); n != nil; n = walk.Next() {
		it.visits[n] = -2
	}
	return it
}

// Next returns the next node satisfying the predicate, or nil when the walk
// is exhausted.
func (it *ScatterIterator) Next() *Node {
	for !it.done {
		ret := it.visit(it.root)
		if ret == nil {
			return nil
		}
		if it.cond == nil || it.cond(ret) {
			return ret
		}
	}
	return nil
}

// visit advances the round-robin walk by one node. A node transitioning out
// of its initial state yields itself; a node whose children are exhausted
// resets and re-enters from the root, stopping once the walk drains at the
// last leaf.
func (it *ScatterIterator) visit(n *Node) *Node {
	it.visits[n]++
	v := it.visits[n]
	if v < 0 {
		return n
	}
	if v < len(n.children) {
		return it.visit(n.children[v])
	}
	it.visits[n] = -1
	if n == it.last {
		it.done = true
		return nil
	}
	return it.visit(it.root)
}

// Count consumes the remaining sequence and returns the number of nodes
// yielded.
func (it *ScatterIterator) Count() int {
	count := 0
	for it.Next() != nil {
		count++
	}
	return count
}
