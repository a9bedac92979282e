// Package perm implements permutations of a fixed-size index set, a
// bijection between permutations and integer identifiers, and equivalence
// of permutations under the structural symmetries of a tree.
//
// # Permutations and identifiers
//
// A [Permutation] is an ordered sequence of n distinct integers covering
// 0..n. Every permutation has a unique identifier in [0, n!): [Permutation.ID]
// encodes the element sequence in the factorial number system (a Lehmer-style
// mixed-radix code where position 0 contributes the least significant digit),
// and [New] decodes an identifier back into elements. The two are exact
// mutual inverses for every n ≥ 0.
//
// Identifiers are [math/big] integers because n! overflows uint64 already at
// n = 21, and machine topologies commonly have more leaves than that.
//
// # Tree symmetries
//
// A [TreePermutation] attaches a permutation to the leaves of a tree, in the
// tree package's leaf traversal order. Two permutations are equivalent when
// one can be transformed into the other by reordering, at any node, children
// whose subtrees are structurally isomorphic: such reorderings permute the
// machine's identical resources and therefore describe the same placement.
//
// [TreePermutation.Canonical] picks a unique representative of each
// equivalence class by sorting, at every node, each group of mutually
// isomorphic children by the smallest leaf value in their subtrees.
// [TreePermutation.ShuffleNodes] samples another member of the same class;
// [CanonicalSequence] enumerates class representatives exhaustively.
//
// # Complexity
//
// Exhaustive enumeration ([Sequence], [CanonicalSequence]) visits n!
// permutations and is only tractable for small n. [Permutation] operations
// themselves are polynomial in n and never block; nothing in this package
// performs I/O.
package perm
