package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/treesym/treesym/pkg/perm"
	"github.com/treesym/treesym/pkg/topology"
	"github.com/treesym/treesym/pkg/tree"
)

// LabelFunc returns the display label for a tree node.
type LabelFunc func(*tree.Node) string

// Options configures DOT generation.
type Options struct {
	// Labels supplies node labels. When nil, nodes are labeled with
	// their coordinates.
	Labels LabelFunc

	// RankDir sets the graph direction ("TB", "LR", ...). Empty means
	// "TB".
	RankDir string
}

// ToDOT converts a tree to Graphviz DOT format. Leaves are drawn as filled
// boxes, internal nodes as ellipses. The resulting DOT string can be
// rendered with [RenderSVG] or [RenderPNG].
func ToDOT(root *tree.Node, opts Options) string {
	labels := opts.Labels
	if labels == nil {
		labels = coordLabel
	}
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	root.Apply(func(n *tree.Node) {
		attrs := []string{fmt.Sprintf("label=%q", labels(n))}
		if n.IsLeaf() {
			attrs = append(attrs, "shape=box", "style=filled", "fillcolor=lightblue")
		} else {
			attrs = append(attrs, "shape=ellipse")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n), strings.Join(attrs, ", "))
	}, -1)

	buf.WriteString("\n")
	root.Apply(func(n *tree.Node) {
		if n.IsRoot() || n == root {
			return
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(n.Parent()), nodeID(n))
	}, -1)

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID derives a stable DOT identifier from a node's coordinates.
func nodeID(n *tree.Node) string {
	coords := n.Coords()
	if len(coords) == 0 {
		return "root"
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = strconv.Itoa(c)
	}
	return "n" + strings.Join(parts, "_")
}

func coordLabel(n *tree.Node) string {
	return fmt.Sprintf("%v", n.Coords())
}

// MappingLabels labels the leaves of tp's tree with their mapped values and
// internal nodes with their subtree minima, visualizing the permutation the
// way the symmetry engine sees it.
func MappingLabels(tp *perm.TreePermutation) LabelFunc {
	return func(n *tree.Node) string {
		return strconv.Itoa(tp.SubtreeMin(n))
	}
}

// TopologyLabels labels nodes with their hardware type and logical index,
// e.g. "Core:3". Nodes unknown to the topology fall back to coordinates.
func TopologyLabels(topo *topology.Topology) LabelFunc {
	return func(n *tree.Node) string {
		obj := topo.Object(n)
		if obj == nil {
			return coordLabel(n)
		}
		return fmt.Sprintf("%s:%d", obj.Type, obj.LogicalIndex)
	}
}
