// Package config loads the expedition CLI configuration.
//
// Configuration lives in a TOML file at $XDG_CONFIG_HOME/expedition/config.toml
// (~/.config/expedition/config.toml when XDG_CONFIG_HOME is unset):
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	max_revisions = 20
//
//	[cache]
//	disabled = false
//
//	[log]
//	level = "debug"
//
// A missing default file is not an error; defaults apply. Environment
// variables override the file: EXPEDITION_STORE, EXPEDITION_REDIS_ADDR and
// EXPEDITION_MONGO_URI.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/store"
)

const appName = "expedition"

// Environment variables that override the file.
const (
	EnvStore     = "EXPEDITION_STORE"
	EnvRedisAddr = "EXPEDITION_REDIS_ADDR"
	EnvMongoURI  = "EXPEDITION_MONGO_URI"
)

// Config is the full configuration.
type Config struct {
	Store StoreConfig `toml:"store"`
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Backend      string `toml:"backend"`
	Dir          string `toml:"dir"`
	MaxRevisions int    `toml:"max_revisions"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig controls the render cache.
type CacheConfig struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:         store.BackendFile,
			MaxRevisions:    store.DefaultMaxRevisions,
			MongoDatabase:   "expedition",
			MongoCollection: "documents",
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of the defaults and applies environment
// overrides. An empty path means [DefaultPath], which may be missing; an
// explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, errs.New(errs.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	case os.IsNotExist(err) && !explicit:
		cfg = Default()
	case os.IsNotExist(err):
		return Config{}, errs.New(errs.ErrCodeDocumentNotFound, "config file %s not found", path)
	default:
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse %s", path)
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvStore); v != "" {
		c.Store.Backend = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Store.RedisAddr = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
}

var backends = []string{store.BackendFile, store.BackendRedis, store.BackendMongo}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if !slices.Contains(backends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "store.backend must be one of %s, got %q",
			strings.Join(backends, ", "), c.Store.Backend)
	}
	if c.Store.MaxRevisions < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "store.max_revisions cannot be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, errs.Wrap(errs.ErrCodeInvalidInput, err, "log.level")
	}
	return level, nil
}

// StoreOptions converts the store section for [store.Open].
func (c Config) StoreOptions() store.Config {
	s := c.Store
	return store.Config{
		Backend:         s.Backend,
		MaxRevisions:    s.MaxRevisions,
		Dir:             s.Dir,
		RedisAddr:       s.RedisAddr,
		RedisPassword:   s.RedisPassword,
		RedisDB:         s.RedisDB,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
	}
}

// Write encodes c as TOML. Secrets are not redacted.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
