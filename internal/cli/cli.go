package cli

import (
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/cache"
	"github.com/matzehuels/fontsmith/pkg/observability"
	"github.com/matzehuels/fontsmith/pkg/pipeline"
	"github.com/matzehuels/fontsmith/pkg/settings"
	"github.com/matzehuels/fontsmith/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "fontsmith"

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

	// dir is the source directory, set by the persistent --dir flag.
	dir     string
	verbose bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// setup runs before every command: it applies --verbose, installs the log
// hooks and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetBuildHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	}
	abs, err := filepath.Abs(c.dir)
	if err != nil {
		return err
	}
	c.dir = abs
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Project - an opened source directory and its backing services
// =============================================================================

// project bundles an opened workspace with the cache and store behind it.
type project struct {
	runner *pipeline.Runner
	ws     *pipeline.Workspace
	cache  cache.Cache
	store  store.Store
}

// Close releases the store and cache connections.
func (p *project) Close() error {
	return stderrors.Join(p.store.Close(), p.cache.Close())
}

type openOptions struct {
	noCache     bool
	skipSources bool
	formats     []string
	output      string
}

// loadSettings reads fontsmith.toml from the source directory and applies
// flag overrides.
func (c *CLI) loadSettings(o openOptions) (*settings.Settings, error) {
	s, err := settings.Load(c.dir)
	if err != nil {
		return nil, err
	}
	if len(o.formats) > 0 {
		s.Build.Formats = o.formats
	}
	if o.output != "" {
		s.Build.Output = o.output
	}
	return s, s.Validate()
}

// openProject loads the settings, connects the cache and store they name and
// opens the workspace.
func (c *CLI) openProject(ctx context.Context, o openOptions) (*project, error) {
	s, err := c.loadSettings(o)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, s, o.noCache)
	if err != nil {
		return nil, err
	}
	st, err := newStore(ctx, c.dir, s)
	if err != nil {
		runner.Cache.Close()
		return nil, err
	}
	p := &project{runner: runner, cache: runner.Cache, store: st}

	p.ws, err = runner.Open(ctx, pipeline.Options{
		Dir:         c.dir,
		Settings:    s,
		Store:       st,
		SkipSources: o.skipSources,
		Logger:      c.Logger,
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the cache the settings name.
func (c *CLI) newRunner(ctx context.Context, s *settings.Settings, noCache bool) (*pipeline.Runner, error) {
	cc, keyer, err := newCache(ctx, s, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache selects the shared Redis cache when one is configured and the
// local file cache otherwise. Redis keys are scoped by font name so several
// projects can share one server.
func newCache(ctx context.Context, s *settings.Settings, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache || s.Cache.Disabled {
		return cache.NewNullCache(), nil, nil
	}
	if s.Cache.Redis != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     s.Cache.Redis,
			Password: s.Cache.Password,
			DB:       s.Cache.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(nil, appName+":"+s.Font.Name+":"), nil
	}
	dir, err := cacheDir(s)
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// newStore opens the MongoDB store when configured, else config.json in dir.
func newStore(ctx context.Context, dir string, s *settings.Settings) (store.Store, error) {
	if s.Store.Mongo != "" {
		ms, err := store.NewMongoStore(ctx, s.Store.Mongo, s.Store.Database)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return store.NewFileStore(dir), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the local cache directory: [cache] dir when set, else
// the per-user cache directory (~/.cache/fontsmith/).
func cacheDir(s *settings.Settings) (string, error) {
	if s != nil && s.Cache.Dir != "" {
		return s.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
