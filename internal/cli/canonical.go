package cli

import (
	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/perm"
)

// canonicalCommand creates the canonical command for reducing permutations.
func (c *CLI) canonicalCommand() *cobra.Command {
	var aritiesFlag string

	cmd := &cobra.Command{
		Use:   "canonical [permutation]",
		Short: "Reduce a permutation to its canonical class representative",
		Long: `Reduce a permutation to its canonical class representative.

Two permutations are equivalent when one can be turned into the other by
swapping isomorphic subtrees. The canonical form is the representative that
sorts every isomorphism group by its subtree minimum, so equivalent inputs
always reduce to the same output.

The permutation is given in colon-separated form, e.g. "3:2:1:0", and must
have one element per leaf of the --arities shape.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := shapeTree(aritiesFlag)
			if err != nil {
				return err
			}
			p, err := perm.Parse(args[0])
			if err != nil {
				return err
			}
			tp, err := perm.FromPermutation(root, p)
			if err != nil {
				return err
			}

			canonical := tp.Canonical()
			printKeyValue("input", args[0])
			printKeyValue("canonical", canonical.String())
			printKeyValue("id", canonical.ID().String())
			if canonical.Equal(tp) {
				printSuccess("Already canonical")
			} else {
				printInfo("Reduced to class representative")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&aritiesFlag, "arities", "a", "", "tree shape as comma-separated arities, e.g. 2,4,2")

	return cmd
}
