package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/mapgen"
)

// planCommand creates the plan command for running TOML experiment plans.
func (c *CLI) planCommand() *cobra.Command {
	var (
		outputDir string
		noCache   bool
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "plan [plan.toml]",
		Short: "Run a TOML experiment plan",
		Long: `Run a TOML experiment plan.

A plan file lists named shapes, each with its own generation options:

    [[shape]]
    name = "synthetic"
    arities = [2, 4, 2]
    num_canonical = 10
    num_equivalent = 5

    [[shape]]
    name = "this-machine"

One mapping file per shape is written to the output directory, named after
the entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], outputDir, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for generated mapping files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "use a Redis cache at this address instead of the file cache")

	return cmd
}

// runPlan loads the plan and generates one mapping file per entry.
func (c *CLI) runPlan(ctx context.Context, path, outputDir string, noCache bool, redisAddr string) error {
	plan, err := mapgen.LoadPlan(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	printInfo("Running plan with %d shapes", len(plan.Shapes))

	for _, entry := range plan.Shapes {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		opts := entry.Options
		opts.Logger = c.Logger

		spinner := newSpinner(ctx, fmt.Sprintf("Generating %s...", entry.Name))
		spinner.Start()

		result, err := runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("Shape %s failed", entry.Name))
			return err
		}
		spinner.Stop()

		outputPath := filepath.Join(outputDir, entry.Name+".map")
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output %s: %w", outputPath, err)
		}
		if err := mapgen.WriteTo(f, mapgen.Entries(result.Mappings)); err != nil {
			f.Close()
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		printSuccess("%s", entry.Name)
		printFile(outputPath)
		cached := result.CacheInfo.CanonicalHit && result.CacheInfo.SampleHit
		printStats(result.Stats.Leaves, len(result.Mappings), result.Classes.String(), cached)
	}

	return nil
}
