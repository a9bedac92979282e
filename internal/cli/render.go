package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/errors"
	"github.com/treesym/treesym/pkg/perm"
	"github.com/treesym/treesym/pkg/render"
	"github.com/treesym/treesym/pkg/topology"
	"github.com/treesym/treesym/pkg/tree"
)

// renderCommand creates the render command for visualizing trees and
// mappings.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		aritiesFlag string
		input       string
		permStr     string
		format      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a tree shape or mapping as DOT, SVG, or PNG",
		Long: `Render a tree shape or mapping as DOT, SVG, or PNG.

The tree comes from --arities (synthetic balanced tree) or from the
hardware topology (--input or local discovery). With --permutation, leaves
are labeled with their assigned values; topology trees are labeled with
their object type and index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), aritiesFlag, input, permStr, format, output)
		},
	}

	cmd.Flags().StringVarP(&aritiesFlag, "arities", "a", "", "synthetic tree shape as comma-separated arities")
	cmd.Flags().StringVar(&input, "input", "", "lstopo input (XML file or synthetic description)")
	cmd.Flags().StringVarP(&permStr, "permutation", "p", "", "label leaves with this permutation")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot (default), svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot)")

	return cmd
}

// runRender resolves the tree, builds the DOT graph, and writes the chosen
// format.
func (c *CLI) runRender(ctx context.Context, aritiesFlag, input, permStr, format, output string) error {
	var (
		root *tree.Node
		opts render.Options
	)

	arities, err := parseArities(aritiesFlag)
	if err != nil {
		return err
	}
	if len(arities) > 0 {
		root = tree.NewTleaf(arities...)
	} else {
		topo, err := topology.Discover(ctx, topology.DiscoverOptions{Input: input})
		if err != nil {
			return err
		}
		root = topo.Root()
		opts.Labels = render.TopologyLabels(topo)
	}

	if permStr != "" {
		p, err := perm.Parse(permStr)
		if err != nil {
			return err
		}
		tp, err := perm.FromPermutation(root, p)
		if err != nil {
			return err
		}
		opts.Labels = render.MappingLabels(tp)
	}

	dot := render.ToDOT(root, opts)

	var data []byte
	switch strings.ToLower(format) {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.RenderSVG(dot)
	case "png":
		data, err = render.RenderPNG(dot)
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if output == "" {
		if format != "dot" {
			return errors.New(errors.ErrCodeInvalidArgument, "--output is required for %s", format)
		}
		fmt.Print(dot)
		return nil
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Render complete")
	printFile(output)
	return nil
}
