package topology

import (
	"strings"
	"testing"

	"github.com/treesym/treesym/pkg/perm"
)

// machineXML is a reduced lstopo export: one machine, two packages, two
// cores each, two PUs per core, plus a NUMA memory child and an info tag
// that must not become tree nodes.
const machineXML = `<?xml version="1.0" encoding="UTF-8"?>
<topology version="2.4">
  <object type="Machine" os_index="0" cpuset="0x000000ff">
    <info name="HostName" value="node-17"/>
    <object type="NUMANode" os_index="0" cpuset="0x000000ff" local_memory="8000000000"/>
    <object type="Package" os_index="0" cpuset="0x0000000f">
      <object type="Core" os_index="0" cpuset="0x00000003">
        <object type="PU" os_index="0" cpuset="0x00000001"/>
        <object type="PU" os_index="4" cpuset="0x00000002"/>
      </object>
      <object type="Core" os_index="1" cpuset="0x0000000c">
        <object type="PU" os_index="1" cpuset="0x00000004"/>
        <object type="PU" os_index="5" cpuset="0x00000008"/>
      </object>
    </object>
    <object type="Package" os_index="1" cpuset="0x000000f0">
      <object type="Core" os_index="2" cpuset="0x00000030">
        <object type="PU" os_index="2" cpuset="0x00000010"/>
        <object type="PU" os_index="6" cpuset="0x00000020"/>
      </object>
      <object type="Core" os_index="3" cpuset="0x000000c0">
        <object type="PU" os_index="3" cpuset="0x00000040"/>
        <object type="PU" os_index="7" cpuset="0x00000080"/>
      </object>
    </object>
  </object>
</topology>`

func mustParse(t *testing.T) *Topology {
	t.Helper()
	topo, err := Parse([]byte(machineXML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return topo
}

func TestParse(t *testing.T) {
	topo := mustParse(t)

	if got := topo.Hostname(); got != "node-17" {
		t.Errorf("Hostname() = %q, want %q", got, "node-17")
	}
	if got := topo.NbObjectsByType("Machine"); got != 1 {
		t.Errorf("machines = %d, want 1", got)
	}
	if got := topo.NbObjectsByType("Package"); got != 2 {
		t.Errorf("packages = %d, want 2", got)
	}
	if got := topo.NbObjectsByType("Core"); got != 4 {
		t.Errorf("cores = %d, want 4", got)
	}
	if got := topo.NbObjectsByType("PU"); got != 8 {
		t.Errorf("PUs = %d, want 8", got)
	}

	// The NUMA memory object must not appear in the structural tree.
	if got := topo.NbObjectsByType("NUMANode"); got != 0 {
		t.Errorf("NUMANodes = %d, want 0", got)
	}
	if got := topo.Root().NLeaves(); got != 8 {
		t.Errorf("NLeaves() = %d, want 8", got)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("not xml")); err == nil {
		t.Error("Parse of garbage should fail")
	}
	if _, err := Parse([]byte("<topology/>")); err == nil {
		t.Error("Parse without a root object should fail")
	}
}

func TestObjectAttributes(t *testing.T) {
	topo := mustParse(t)

	n := topo.ObjectByType("PU", 5, true)
	if n == nil {
		t.Fatal("PU with OS index 5 not found")
	}
	obj := topo.Object(n)
	if obj.CPUSet != "0x00000008" {
		t.Errorf("CPUSet = %q", obj.CPUSet)
	}
	if obj.Type != "PU" {
		t.Errorf("Type = %q", obj.Type)
	}

	// Logical indexes number PUs in traversal order regardless of OS
	// indexes.
	for i := 0; i < 8; i++ {
		if topo.ObjectByType("PU", i, false) == nil {
			t.Errorf("PU with logical index %d not found", i)
		}
	}
	if topo.ObjectByType("PU", 99, false) != nil {
		t.Error("absent logical index should return nil")
	}
}

func TestPUs(t *testing.T) {
	topo := mustParse(t)

	pkg := topo.ObjectByType("Package", 1, false)
	if pkg == nil {
		t.Fatal("package 1 not found")
	}
	pus := topo.PUs(pkg)
	if len(pus) != 4 {
		t.Fatalf("package 1 has %d PUs, want 4", len(pus))
	}
	for _, pu := range pus {
		if topo.Object(pu).Type != "PU" {
			t.Errorf("leaf has type %q", topo.Object(pu).Type)
		}
	}
}

func TestRestrict(t *testing.T) {
	topo := mustParse(t)

	topo.Restrict([]int{0, 3}, "Core")

	if got := topo.NbObjectsByType("Core"); got != 2 {
		t.Errorf("cores after restrict = %d, want 2", got)
	}
	if got := topo.NbObjectsByType("PU"); got != 4 {
		t.Errorf("PUs after restrict = %d, want 4", got)
	}
	// Both packages kept a core, so none cascade away.
	if got := topo.NbObjectsByType("Package"); got != 2 {
		t.Errorf("packages after restrict = %d, want 2", got)
	}
}

func TestRestrictCascades(t *testing.T) {
	topo := mustParse(t)

	// Keeping only PUs of package 0 empties package 1 entirely; the
	// restriction must cascade and remove it.
	topo.Restrict([]int{0, 1, 2, 3}, "PU")

	if got := topo.NbObjectsByType("PU"); got != 4 {
		t.Errorf("PUs after restrict = %d, want 4", got)
	}
	if got := topo.NbObjectsByType("Core"); got != 2 {
		t.Errorf("cores after restrict = %d, want 2", got)
	}
	if got := topo.NbObjectsByType("Package"); got != 1 {
		t.Errorf("packages after restrict = %d, want 1", got)
	}
}

func TestRestrictNoMatch(t *testing.T) {
	topo := mustParse(t)
	topo.Restrict([]int{0, 1, 2, 3, 4, 5, 6, 7}, "PU")
	if got := topo.NbObjectsByType("PU"); got != 8 {
		t.Errorf("PUs = %d, want 8 untouched", got)
	}
}

func TestSinglify(t *testing.T) {
	topo := mustParse(t)

	// The collapse is deep: each package keeps one core, and that core in
	// turn keeps one PU.
	topo.Singlify("Package")

	if got := topo.NbObjectsByType("Package"); got != 2 {
		t.Errorf("packages after singlify = %d, want 2", got)
	}
	if got := topo.NbObjectsByType("Core"); got != 2 {
		t.Errorf("cores after singlify = %d, want 2", got)
	}
	if got := topo.NbObjectsByType("PU"); got != 2 {
		t.Errorf("PUs after singlify = %d, want 2", got)
	}
	for _, pkg := range topo.ObjectsByType("Package") {
		if pkg.Arity() != 1 {
			t.Errorf("package arity = %d, want 1", pkg.Arity())
		}
		if core := pkg.Children()[0]; core.Arity() != 1 {
			t.Errorf("kept core arity = %d, want 1", core.Arity())
		}
	}
}

func TestSinglifyLeafType(t *testing.T) {
	topo := mustParse(t)

	// PUs have no children; singlifying them changes nothing.
	topo.Singlify("PU")

	if got := topo.NbObjectsByType("PU"); got != 8 {
		t.Errorf("PUs after singlify = %d, want 8 untouched", got)
	}
	if got := topo.NbObjectsByType("Core"); got != 4 {
		t.Errorf("cores after singlify = %d, want 4 untouched", got)
	}
}

func TestClone(t *testing.T) {
	topo := mustParse(t)
	dup := topo.Clone()

	dup.Restrict([]int{0}, "Package")

	if got := topo.NbObjectsByType("Package"); got != 2 {
		t.Error("restricting the clone should not affect the original")
	}
	if got := dup.NbObjectsByType("Package"); got != 1 {
		t.Errorf("clone packages = %d, want 1", got)
	}
	if dup.Hostname() != topo.Hostname() {
		t.Error("clone should keep the hostname")
	}
}

func TestString(t *testing.T) {
	topo := mustParse(t)
	s := topo.String()
	if !strings.Contains(s, "Machine:0") || !strings.Contains(s, "PU:7") {
		t.Errorf("String() = %q", s)
	}
}

func TestTopologyWithTreePermutation(t *testing.T) {
	// The topology tree plugs straight into the symmetry engine: the
	// 2x2x2 machine has (2!)^7 automorphisms, leaving 8!/128 = 315
	// canonical mappings.
	topo := mustParse(t)

	seq, err := perm.NewCanonicalSequence(topo.Root())
	if err != nil {
		t.Fatal(err)
	}
	count := seq.EnumerateFunc(func(*perm.TreePermutation) bool { return true })
	if count != 315 {
		t.Errorf("canonical mappings = %d, want 315", count)
	}
}
