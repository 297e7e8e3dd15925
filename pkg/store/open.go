package store

import (
	"context"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend      string
	MaxRevisions int

	// File backend
	Dir string

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Mongo backend
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open returns the store described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		s, err = NewFileStore(cfg.Dir, cfg.MaxRevisions)
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "redis backend needs an address")
		}
		s, err = NewRedisStore(ctx, RedisConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			MaxRevisions: cfg.MaxRevisions,
		}, logger)
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "mongo backend needs a URI")
		}
		s, err = NewMongoStore(ctx, MongoConfig{
			URI:          cfg.MongoURI,
			Database:     cfg.MongoDatabase,
			Collection:   cfg.MongoCollection,
			MaxRevisions: cfg.MaxRevisions,
		})
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
