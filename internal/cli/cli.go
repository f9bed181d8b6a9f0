// Package cli implements the styxgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/styx-api/styxgraph/pkg/buildinfo"
	"github.com/styx-api/styxgraph/pkg/cache"
	"github.com/styx-api/styxgraph/pkg/graph"
	"github.com/styx-api/styxgraph/pkg/runner"
	"github.com/styx-api/styxgraph/pkg/runner/dry"
	"github.com/styx-api/styxgraph/pkg/runner/local"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "styxgraph"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = "localhost:8080"

	// redisURLEnv supplies the default of --redis-url.
	redisURLEnv = "STYXGRAPH_REDIS_URL"

	// redisConnectTimeout bounds the initial PING to the redis cache.
	redisConnectTimeout = 3 * time.Second
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
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Styxgraph records tool executions and draws their dependency graph",
		Long:          `Styxgraph runs neuroimaging tool pipelines and infers which step feeds which from the files they read and write, producing a Mermaid, DOT, SVG or JSON diagram.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the returned error
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.runCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions are the flags shared by run and serve.
type runnerOptions struct {
	style   string
	dryRun  bool
	dataDir string
	cacheOptions
}

func (o *runnerOptions) addFlags(cmd *cobra.Command, dryDefault bool) {
	cmd.Flags().StringVarP(&o.style, "style", "s", "TD", "diagram direction (TD, LR, BT, RL)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", dryDefault, "resolve paths without running any tool")
	cmd.Flags().StringVar(&o.dataDir, "data-dir", "", "directory for execution outputs (default: $XDG_DATA_HOME/styxgraph)")
	o.cacheOptions.addFlags(cmd)
}

// cacheOptions select the SVG render cache.
type cacheOptions struct {
	noCache  bool
	redisURL string
}

func (o *cacheOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "render SVG without a cache")
	cmd.Flags().StringVar(&o.redisURL, "redis-url", os.Getenv(redisURLEnv), "cache SVG in redis instead of on disk (env "+redisURLEnv+")")
}

// newRunner wraps a local or dry base runner in a recording graph runner.
func (c *CLI) newRunner(opts runnerOptions) (*graph.Runner, error) {
	style, err := graph.ParseStyle(opts.style)
	if err != nil {
		return nil, err
	}

	dir := opts.dataDir
	if dir == "" {
		if dir, err = dataDir(); err != nil {
			return nil, err
		}
	}

	var base runner.Runner
	if opts.dryRun {
		base = dry.New(dir, c.Logger)
	} else {
		base = local.New(dir, c.Logger)
	}

	r := graph.NewRunner(base, style)
	r.SetLogger(c.Logger)
	return r, nil
}

// newCache returns the SVG render cache: redis when a URL is configured, the
// XDG cache directory otherwise. Any backend that cannot be opened degrades
// to a null cache with a warning; rendering never fails because of it.
func (c *CLI) newCache(ctx context.Context, opts cacheOptions) cache.Cache {
	if opts.noCache {
		return cache.NewNullCache()
	}
	if opts.redisURL != "" {
		ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			c.Logger.Warn("render cache disabled", "backend", "redis", "err", err)
			return cache.NewNullCache()
		}
		c.Logger.Debug("render cache", "backend", "redis")
		return rc
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "backend", "file", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the output directory using XDG standard (~/.local/share/styxgraph/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/styxgraph/).
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
