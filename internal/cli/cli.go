// Package cli implements the sisi command-line interface.
//
// # Commands
//
// The main commands are:
//   - line: Solve one line from its size and clue
//   - batch: Solve every line of a TOML or JSON batch file
//   - tree: Render the placement search tree as SVG or DOT
//   - explore: Edit a line interactively and watch the solution update
//   - serve: Run the HTTP API
//   - cache: Manage the solve cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers observability hooks that log every solve and cache event.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sisi/pkg/buildinfo"
	"github.com/matzehuels/sisi/pkg/cache"
	"github.com/matzehuels/sisi/pkg/config"
	"github.com/matzehuels/sisi/pkg/solve"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sisi"
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

	// Config is loaded by the root command before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sisi",
		Short: "Sisi solves nonogram lines",
		Long: `Sisi decides which cells of a nonogram line are certainly filled or
certainly empty, given the line length and its block clue.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sisi/config.toml)")

	// Register all subcommands
	root.AddCommand(c.lineCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and attaches the logger to the command
// context.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a solve runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*solve.Runner, error) {
	cc, err := newCache(ctx, c.Config.Cache, noCache)
	if err != nil {
		return nil, err
	}
	r := solve.NewRunner(cc, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured cache backend. The file backend falls back
// to no caching when no cache directory can be determined.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case config.BackendMongo:
		return cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDB, "")
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
	return cache.NewNullCache(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sisi/).
func cacheDir() (string, error) {
	return config.CacheDir()
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
