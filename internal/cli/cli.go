// Package cli implements the expedition command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/expedition/internal/config"
	"github.com/matzehuels/expedition/pkg/buildinfo"
	"github.com/matzehuels/expedition/pkg/cache"
	"github.com/matzehuels/expedition/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "expedition"
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

	// ConfigPath overrides the default config file location.
	ConfigPath string
	// Verbose forces debug logging regardless of the config.
	Verbose bool

	cfg   config.Config
	store store.Store
	now   func() time.Time
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
		now:    time.Now,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Expedition tracks goals and the metrics that measure them",
		Long: `Expedition keeps a document of mountains, goals and indicators. Indicators
point at metrics; the same metric may be shared by many indicators and is
stored once.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/expedition/config.toml)")

	// Register all subcommands
	root.AddCommand(c.initCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.dueCommand())
	root.AddCommand(c.measureCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config, fixes the log level and registers hooks.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, _ := cfg.LogLevel()
	if c.Verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	registerHooks(c.Logger)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases the store if one was opened.
func (c *CLI) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// =============================================================================
// Store & Cache Factories
// =============================================================================

// openStore opens the configured store once per command.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	s, err := store.Open(ctx, c.cfg.StoreOptions(), c.Logger)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "backend", s.Backend())
	c.store = s
	return s, nil
}

// newCache returns the render cache. A Redis store shares its connection
// with the cache; otherwise renderings are cached on disk.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Store.Backend == store.BackendRedis {
		s, err := c.openStore(ctx)
		if err != nil {
			return nil, err
		}
		if rs, ok := s.(*store.RedisStore); ok {
			return cache.NewRedisCache(rs.Client(), "expedition:cache:"), nil
		}
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/expedition/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
