package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/perm"
)

// enumerateCommand creates the enumerate command for listing canonical
// permutations.
func (c *CLI) enumerateCommand() *cobra.Command {
	var (
		aritiesFlag string
		limit       int
		interactive bool
		countOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Enumerate canonical permutations of a tree shape",
		Long: `Enumerate canonical permutations of a tree shape.

Walks the permutation space in ascending identifier order and prints one
canonical class representative per line. Use --limit to stop early; the
number of classes grows quickly with the leaf count.

With --count only the class count is computed, without enumeration.
With --interactive the results open in a browsable list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := shapeTree(aritiesFlag)
			if err != nil {
				return err
			}

			classes, err := perm.Classes(root)
			if err != nil {
				return err
			}
			if countOnly {
				printKeyValue("leaves", fmt.Sprintf("%d", root.NLeaves()))
				printKeyValue("classes", classes.String())
				printKeyValue("total", perm.Factorial(root.NLeaves()).String())
				return nil
			}

			cs, err := perm.NewCanonicalSequence(root)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var canonicals []string
			cs.EnumerateFunc(func(tp *perm.TreePermutation) bool {
				if ctx.Err() != nil {
					return false
				}
				canonicals = append(canonicals, tp.String())
				return limit == 0 || len(canonicals) < limit
			})
			if err := ctx.Err(); err != nil {
				return err
			}

			if interactive {
				model := newCanonicalListModel(canonicals, classes.String())
				final, err := tea.NewProgram(model).Run()
				if err != nil {
					return err
				}
				if m, ok := final.(canonicalListModel); ok && m.selected != "" {
					fmt.Println(m.selected)
				}
				return nil
			}

			for _, s := range canonicals {
				fmt.Println(s)
			}
			printNewline()
			printDetail("%d of %s classes shown", len(canonicals), classes.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&aritiesFlag, "arities", "a", "", "tree shape as comma-separated arities, e.g. 2,4,2")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "stop after this many canonical forms (0 = all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse results interactively")
	cmd.Flags().BoolVar(&countOnly, "count", false, "only print the class count")

	return cmd
}
