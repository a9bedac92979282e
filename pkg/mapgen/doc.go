// Package mapgen provides the mapping generation pipeline: from a tree
// shape to a reproducible set of canonical thread-to-resource mappings and
// their randomized equivalents.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: build the tree, either synthetically from arities or from a
//     discovered hardware topology
//  2. Enumerate: collect distinct canonical permutations, exhaustively when
//     the class count is small and by rejection sampling otherwise
//  3. Sample: draw symmetry-equivalent variants of each canonical mapping
//
// Each cacheable stage is keyed on the tree's shape signature, so machines
// with identical structure share cached results.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := mapgen.NewRunner(cache, nil, logger)
//	opts := mapgen.Options{
//	    Arities:       []int{2, 4, 2},
//	    NumCanonical:  100,
//	    NumEquivalent: 100,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range result.Mappings {
//	    fmt.Println(m.Canonical)
//	}
//
// Results can be persisted in the line-oriented mapping file format with
// [WriteTo] and re-read with [ReadFrom], which is how long experiment
// campaigns track the mappings they still have to measure.
package mapgen
