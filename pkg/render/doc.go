// Package render draws trees and tree permutations as Graphviz diagrams.
//
// # Overview
//
// Rendering is a two-step pipeline:
//
//   - [ToDOT] converts a tree to Graphviz DOT format, with labels supplied
//     by a [LabelFunc]
//   - [RenderSVG] and [RenderPNG] rasterize the DOT string
//
// Label helpers cover the common cases: [MappingLabels] annotates leaves
// with the values of a tree permutation, [TopologyLabels] annotates nodes
// with their hardware object types.
//
//	dot := render.ToDOT(topo.Root(), render.Options{
//		Labels: render.TopologyLabels(topo),
//	})
//	svg, err := render.RenderSVG(dot)
package render
