package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/perm"
	"github.com/treesym/treesym/pkg/topology"
)

// topologyCommand creates the topology command for inspecting the machine
// hierarchy.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		input        string
		restrictFlag string
		singlify     string
	)

	cmd := &cobra.Command{
		Use:   "topology",
		Short: "Discover and print the hardware topology",
		Long: `Discover and print the hardware topology.

Runs lstopo to discover the local machine hierarchy (or parses --input) and
prints it as an indented outline along with its shape signature and
equivalence class count. Use --restrict to narrow the tree to specific
objects and --singlify to collapse each object of a type to one child.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := topology.Discover(cmd.Context(), topology.DiscoverOptions{Input: input})
			if err != nil {
				return err
			}

			if restrictFlag != "" {
				typ, indexes, err := parseRestrict(restrictFlag)
				if err != nil {
					return err
				}
				topo.Restrict(indexes, typ)
			}
			if singlify != "" {
				topo.Singlify(singlify)
			}

			if topo.Hostname() != "" {
				printKeyValue("host", topo.Hostname())
			}
			printKeyValue("leaves", fmt.Sprintf("%d", topo.Root().NLeaves()))
			printKeyValue("signature", topo.Root().Signature())
			if classes, err := perm.Classes(topo.Root()); err == nil {
				printKeyValue("classes", classes.String())
			}
			printNewline()
			fmt.Print(topo.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "lstopo input (XML file or synthetic description)")
	cmd.Flags().StringVar(&restrictFlag, "restrict", "", "narrow the topology, e.g. Core=0,1")
	cmd.Flags().StringVar(&singlify, "singlify", "", "collapse each object of this type to a single child")

	return cmd
}
