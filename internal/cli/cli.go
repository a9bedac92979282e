// Package cli implements the treesym command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/treesym/treesym/pkg/buildinfo"
	"github.com/treesym/treesym/pkg/cache"
	"github.com/treesym/treesym/pkg/errors"
	"github.com/treesym/treesym/pkg/mapgen"
	"github.com/treesym/treesym/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "treesym"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "treesym",
		Short:        "Treesym maps processes onto hierarchical hardware topologies",
		Long:         `Treesym generates process-to-hardware mappings for hierarchical topologies, exploiting tree symmetries so that only one representative per equivalence class needs to be measured.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.canonicalCommand())
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, redisAddr string) (*mapgen.Runner, error) {
	store, err := newCache(ctx, noCache, redisAddr)
	if err != nil {
		return nil, err
	}
	return mapgen.NewRunner(store, nil, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treesym/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseArities parses a comma-separated arities flag like "2,4,2".
func parseArities(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	arities := make([]int, len(parts))
	for i, p := range parts {
		a, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "parse arities %q", s)
		}
		if a < 1 {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "arities must be positive, got %d", a)
		}
		arities[i] = a
	}
	return arities, nil
}

// parseRestrict parses a restriction flag like "Core=0,1" into an object
// type and logical indexes.
func parseRestrict(s string) (string, []int, error) {
	typ, list, ok := strings.Cut(s, "=")
	if !ok || typ == "" || list == "" {
		return "", nil, errors.New(errors.ErrCodeInvalidArgument,
			"restrict must look like Type=idx,idx, got %q", s)
	}
	parts := strings.Split(list, ",")
	indexes := make([]int, len(parts))
	for i, p := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "parse restrict %q", s)
		}
		indexes[i] = idx
	}
	return typ, indexes, nil
}

// shapeTree builds a balanced tree from an arities flag. An empty flag is an
// error for commands that have no topology fallback.
func shapeTree(aritiesFlag string) (*tree.Node, error) {
	arities, err := parseArities(aritiesFlag)
	if err != nil {
		return nil, err
	}
	if len(arities) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "an --arities shape is required")
	}
	return tree.NewTleaf(arities...), nil
}
