package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/mapgen"
)

// sampleCommand creates the sample command, the main entry into the mapping
// generation pipeline.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		output    string
		noCache   bool
		redisAddr string
	)
	var (
		aritiesFlag  string
		restrictFlag string
	)
	opts := mapgen.Options{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a mapping set for a tree shape or the local topology",
		Long: `Generate a mapping set for a tree shape or the local topology.

Samples distinct canonical mappings and, for each, distinct equivalent
variants from the same class. With --arities the shape is a synthetic
balanced tree; otherwise the hardware topology is discovered with lstopo
(optionally narrowed with --restrict).

The output is a line-oriented mapping file: one "permutation canonical
count" triple per line, where each canonical line is weighted by its number
of equivalents. Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			arities, err := parseArities(aritiesFlag)
			if err != nil {
				return err
			}
			opts.Arities = arities
			if restrictFlag != "" {
				typ, indexes, err := parseRestrict(restrictFlag)
				if err != nil {
					return err
				}
				opts.RestrictType = typ
				opts.RestrictIndexes = indexes
			}
			return c.runSample(cmd.Context(), opts, output, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output mapping file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis cache at this address instead of the file cache")

	cmd.Flags().StringVarP(&aritiesFlag, "arities", "a", "", "synthetic tree shape as comma-separated arities")
	cmd.Flags().StringVar(&opts.TopologyInput, "input", "", "lstopo input (XML file or synthetic description)")
	cmd.Flags().StringVar(&restrictFlag, "restrict", "", "narrow the topology, e.g. Core=0,1")
	cmd.Flags().IntVarP(&opts.NumCanonical, "canonical", "c", 0, "number of canonical mappings (default 100)")
	cmd.Flags().IntVarP(&opts.NumEquivalent, "equivalent", "e", 0, "number of equivalents per canonical (default 100)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (default 42)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and overwrite it")

	return cmd
}

// runSample executes the pipeline and writes the mapping file.
func (c *CLI) runSample(ctx context.Context, opts mapgen.Options, output string, noCache bool, redisAddr string) error {
	runner, err := c.newRunner(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, "Generating mappings...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	entries := mapgen.Entries(result.Mappings)
	if output == "" {
		if err := mapgen.WriteTo(os.Stdout, entries); err != nil {
			return err
		}
	} else {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output %s: %w", output, err)
		}
		defer f.Close()
		if err := mapgen.WriteTo(f, entries); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Mapping set complete")
		printFile(output)
	}

	cached := result.CacheInfo.CanonicalHit && result.CacheInfo.SampleHit
	printStats(result.Stats.Leaves, len(result.Mappings), result.Classes.String(), cached)
	return nil
}
