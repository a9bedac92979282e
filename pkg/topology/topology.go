package topology

import (
	"context"
	"encoding/xml"
	"os/exec"
	"slices"
	"strconv"

	"github.com/treesym/treesym/pkg/errors"
	"github.com/treesym/treesym/pkg/tree"
)

// Object holds the hardware attributes of one topology node.
type Object struct {
	// Type is the hwloc object type, e.g. "Machine", "Package", "Core",
	// "PU".
	Type string

	// OSIndex is the operating system index, or -1 when absent.
	OSIndex int

	// LogicalIndex numbers objects of the same type in traversal order,
	// starting at 0.
	LogicalIndex int

	// CPUSet is the hwloc cpuset bitmask string.
	CPUSet string

	// Attrs carries the remaining XML attributes verbatim.
	Attrs map[string]string
}

// Topology is a machine hierarchy parsed from lstopo XML: a structural tree
// plus per-node hardware attributes. The tree contains only structural
// objects carrying a cpuset; memory and I/O objects are skipped.
type Topology struct {
	root     *tree.Node
	hostname string
	objects  map[*tree.Node]*Object
}

// DiscoverOptions control lstopo invocation in [Discover].
type DiscoverOptions struct {
	// Input is a topology source understood by lstopo --input: an XML
	// file path or a synthetic description such as "node:2 core:4 pu:2".
	// Empty discovers the current machine.
	Input string

	// KeepAll disables the "--filter all:structure" flag, retaining
	// objects that do not contribute to the structure.
	KeepAll bool

	// KeepIO disables the --no-io flag.
	KeepIO bool
}

// Discover runs lstopo and parses the resulting XML.
func Discover(ctx context.Context, opts DiscoverOptions) (*Topology, error) {
	out, err := DiscoverXML(ctx, opts)
	if err != nil {
		return nil, err
	}
	return Parse(out)
}

// DiscoverXML runs lstopo and returns its raw XML output, suitable for
// caching and later [Parse].
func DiscoverXML(ctx context.Context, opts DiscoverOptions) ([]byte, error) {
	args := []string{"--of", "xml"}
	if opts.Input != "" {
		args = append(args, "--input", opts.Input)
	}
	if !opts.KeepAll {
		args = append(args, "--filter", "all:structure")
	}
	if !opts.KeepIO {
		args = append(args, "--no-io")
	}

	out, err := exec.CommandContext(ctx, "lstopo", args...).Output()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTopology, err, "run lstopo")
	}
	return out, nil
}

type xmlInfo struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlObject struct {
	Type        string      `xml:"type,attr"`
	OSIndex     string      `xml:"os_index,attr"`
	CPUSet      string      `xml:"cpuset,attr"`
	LocalMemory string      `xml:"local_memory,attr"`
	Attrs       []xml.Attr  `xml:",any,attr"`
	Infos       []xmlInfo   `xml:"info"`
	Children    []xmlObject `xml:"object"`
}

type xmlTopology struct {
	Object *xmlObject `xml:"object"`
}

// Parse builds a topology from lstopo XML output.
func Parse(data []byte) (*Topology, error) {
	var doc xmlTopology
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTopology, err, "parse topology XML")
	}
	if doc.Object == nil {
		return nil, errors.New(errors.ErrCodeTopology, "topology XML has no root object")
	}

	t := &Topology{objects: make(map[*tree.Node]*Object)}
	t.root = t.build(doc.Object)
	for _, info := range doc.Object.Infos {
		if info.Name == "HostName" {
			t.hostname = info.Value
		}
	}
	t.renumber()
	return t, nil
}

// build converts one XML object and its structural descendants.
func (t *Topology) build(x *xmlObject) *tree.Node {
	n := tree.New()
	obj := &Object{
		Type:    x.Type,
		OSIndex: -1,
		CPUSet:  x.CPUSet,
		Attrs:   make(map[string]string, len(x.Attrs)),
	}
	if x.OSIndex != "" {
		if v, err := strconv.Atoi(x.OSIndex); err == nil {
			obj.OSIndex = v
		}
	}
	for _, a := range x.Attrs {
		obj.Attrs[a.Name.Local] = a.Value
	}
	t.objects[n] = obj

	for i := range x.Children {
		c := &x.Children[i]
		// Memory objects carry local_memory, I/O objects no cpuset.
		// Neither contributes to the structural tree.
		if c.CPUSet == "" || c.LocalMemory != "" {
			continue
		}
		// The tree owns the child; ignore the nil-child error path.
		_ = n.ConnectChildren(t.build(c))
	}
	return n
}

// renumber reassigns logical indexes per object type in traversal order.
func (t *Topology) renumber() {
	counts := make(map[string]int)
	it := tree.NewIterator(t.root, nil)
	for n := it.Next(); n != nil; n = it.Next() {
		obj := t.objects[n]
		obj.LogicalIndex = counts[obj.Type]
		counts[obj.Type]++
	}
}

// Root returns the topology tree. Mutating it through pkg/tree is allowed;
// the side table keeps following the surviving nodes.
func (t *Topology) Root() *tree.Node { return t.root }

// Hostname returns the machine hostname recorded in the topology, or "".
func (t *Topology) Hostname() string { return t.hostname }

// Object returns the hardware attributes of a topology node, or nil for
// nodes not part of this topology.
func (t *Topology) Object(n *tree.Node) *Object { return t.objects[n] }

// NbObjectsByType counts the topology objects of the given type.
func (t *Topology) NbObjectsByType(typ string) int {
	return len(t.ObjectsByType(typ))
}

// ObjectsByType returns the topology nodes of the given type in traversal
// order.
func (t *Topology) ObjectsByType(typ string) []*tree.Node {
	return t.root.Select(func(n *tree.Node) bool {
		obj := t.objects[n]
		return obj != nil && obj.Type == typ
	})
}

// ObjectByType returns the node of the given type with the given logical
// index, or OS index when physical is true. Returns nil when absent.
func (t *Topology) ObjectByType(typ string, index int, physical bool) *tree.Node {
	for _, n := range t.ObjectsByType(typ) {
		obj := t.objects[n]
		if physical && obj.OSIndex == index {
			return n
		}
		if !physical && obj.LogicalIndex == index {
			return n
		}
	}
	return nil
}

// PUs returns the leaf processing units below n in traversal order.
func (t *Topology) PUs(n *tree.Node) []*tree.Node {
	return n.Select((*tree.Node).IsLeaf)
}

// Restrict removes all objects of the given type whose logical index is not
// listed, then cascades upward: parents left childless are removed the same
// way, level by level, until every remaining branch reaches a leaf.
func (t *Topology) Restrict(indexes []int, typ string) {
	doomed := t.root.Select(func(n *tree.Node) bool {
		obj := t.objects[n]
		return obj != nil && obj.Type == typ && !slices.Contains(indexes, obj.LogicalIndex)
	})
	if len(doomed) == 0 {
		return
	}

	// Parents must be captured before pruning detaches the subtrees.
	parents := make(map[*tree.Node]bool)
	for _, n := range doomed {
		if p := n.Parent(); p != nil {
			parents[p] = true
		}
	}
	t.root.Prune(func(n *tree.Node) bool {
		return slices.Contains(doomed, n)
	})
	for _, n := range doomed {
		t.forget(n)
	}

	// A parent stripped of all children is no longer a valid inner
	// object; restrict its level to the survivors.
	var nextType string
	emptied := make(map[*tree.Node]bool)
	for p := range parents {
		obj := t.objects[p]
		if obj != nil && p.Arity() == 0 {
			emptied[p] = true
			nextType = obj.Type
		}
	}
	if len(emptied) == 0 {
		return
	}
	var keep []int
	for _, n := range t.ObjectsByType(nextType) {
		if !emptied[n] {
			keep = append(keep, t.objects[n].LogicalIndex)
		}
	}
	t.Restrict(keep, nextType)
}

// forget drops the side-table entries of a detached subtree.
func (t *Topology) forget(n *tree.Node) {
	n.Apply(func(d *tree.Node) { delete(t.objects, d) }, -1)
}

// Singlify collapses every object of the given type to a single path: the
// node and each surviving descendant keep only their first child. Leaf
// objects are left untouched.
func (t *Topology) Singlify(typ string) {
	for _, n := range t.ObjectsByType(typ) {
		t.singlifyNode(n)
	}
}

func (t *Topology) singlifyNode(n *tree.Node) {
	if children := n.Children(); len(children) > 1 {
		extra := children[1:]
		for _, c := range extra {
			t.forget(c)
		}
		n.Prune(func(d *tree.Node) bool { return slices.Contains(extra, d) })
	}
	for _, c := range n.Children() {
		t.singlifyNode(c)
	}
}

// Clone returns a deep copy with an independent tree and side table.
func (t *Topology) Clone() *Topology {
	dup := &Topology{
		hostname: t.hostname,
		objects:  make(map[*tree.Node]*Object, len(t.objects)),
	}
	dup.root = dup.cloneNode(t, t.root)
	return dup
}

func (dup *Topology) cloneNode(t *Topology, n *tree.Node) *tree.Node {
	c := tree.New()
	if obj := t.objects[n]; obj != nil {
		copied := *obj
		copied.Attrs = make(map[string]string, len(obj.Attrs))
		for k, v := range obj.Attrs {
			copied.Attrs[k] = v
		}
		dup.objects[c] = &copied
	}
	for _, child := range n.Children() {
		_ = c.ConnectChildren(dup.cloneNode(t, child))
	}
	return c
}

// String renders the topology as an indented outline of typed objects.
func (t *Topology) String() string {
	var b []byte
	var write func(n *tree.Node, depth int)
	write = func(n *tree.Node, depth int) {
		for i := 0; i < depth; i++ {
			b = append(b, ' ', ' ')
		}
		obj := t.objects[n]
		b = append(b, obj.Type...)
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(obj.LogicalIndex), 10)
		b = append(b, '\n')
		for _, c := range n.Children() {
			write(c, depth+1)
		}
	}
	write(t.root, 0)
	return string(b)
}
