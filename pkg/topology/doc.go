// Package topology discovers and parses hardware topologies via hwloc's
// lstopo utility.
//
// A [Topology] wraps a [tree.Node] tree mirroring the machine's structural
// hierarchy (Machine, Package, L3, Core, PU, ...) and a side table of
// per-node hardware attributes. Because the hierarchy is a plain tree,
// everything in pkg/perm applies directly: processing units are the leaves,
// and tree permutations describe thread-to-PU mappings.
//
// # Discovery
//
// [Discover] shells out to lstopo and parses its XML output:
//
//	topo, err := topology.Discover(ctx, topology.DiscoverOptions{})
//	if err != nil {
//		return err
//	}
//	fmt.Println(topo.NbObjectsByType("PU"))
//
// [Parse] consumes XML directly, for exported topologies or synthetic
// descriptions produced with lstopo's --input flag.
package topology
