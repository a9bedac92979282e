// Package pkg provides the core libraries for treesym mapping generation.
//
// # Overview
//
// Treesym maps processes onto hierarchical hardware topologies. Two
// permutations of a tree's leaves are equivalent when one arises from the
// other by swapping isomorphic subtrees; measuring one representative per
// equivalence class covers the whole mapping space. The pkg directory is
// organized as:
//
//  1. [tree] - ordered rooted trees and traversal iterators
//  2. [perm] - permutations, factorial identifiers, canonical forms
//  3. [topology] - hardware topology discovery via hwloc's lstopo
//  4. [mapgen] - the generation pipeline (resolve, enumerate, sample)
//  5. [cache] - result caching (file, memory, Redis)
//  6. [render] - Graphviz visualization of trees and mappings
//
// # Architecture
//
// The typical data flow:
//
//	lstopo XML or synthetic arities
//	         ↓
//	    [topology] / [tree] (resolve the tree shape)
//	         ↓
//	    [perm] (canonical forms, class counts, sampling)
//	         ↓
//	    [mapgen] (mapping sets, cached per stage)
//	         ↓
//	    mapping files / HTTP API / SVG renders
//
// # Quick Start
//
// Count the equivalence classes of a small shape and list them:
//
//	root := tree.NewTleaf(2, 2)
//	classes, _ := perm.Classes(root)
//	cs, _ := perm.NewCanonicalSequence(root)
//	cs.EnumerateFunc(func(tp *perm.TreePermutation) bool {
//	    fmt.Println(tp)
//	    return true
//	})
//
// Supporting packages [errors], [observability], and [buildinfo] provide
// structured error codes, pipeline instrumentation hooks, and build-time
// version stamping.
//
// [tree]: https://pkg.go.dev/github.com/treesym/treesym/pkg/tree
// [perm]: https://pkg.go.dev/github.com/treesym/treesym/pkg/perm
// [topology]: https://pkg.go.dev/github.com/treesym/treesym/pkg/topology
// [mapgen]: https://pkg.go.dev/github.com/treesym/treesym/pkg/mapgen
// [cache]: https://pkg.go.dev/github.com/treesym/treesym/pkg/cache
// [render]: https://pkg.go.dev/github.com/treesym/treesym/pkg/render
// [errors]: https://pkg.go.dev/github.com/treesym/treesym/pkg/errors
// [observability]: https://pkg.go.dev/github.com/treesym/treesym/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/treesym/treesym/pkg/buildinfo
package pkg
