package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/expedition/pkg/cache"
	errs "github.com/matzehuels/expedition/pkg/errors"
)

// RedisStore keeps each document in a string key and its revisions in a
// capped list, both named by a [cache.Keyer].
type RedisStore struct {
	client       redis.UniversalClient
	keyer        cache.Keyer
	maxRevisions int
	backoff      cache.Backoff
	logger       *log.Logger
	now          func() time.Time
}

// RedisConfig configures [NewRedisStore].
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	Prefix       string
	MaxRevisions int
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger *log.Logger) (*RedisStore, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Addr},
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storageError(err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg, logger), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client redis.UniversalClient, cfg RedisConfig, logger *log.Logger) *RedisStore {
	if cfg.Prefix == "" {
		cfg.Prefix = "expedition:"
	}
	if cfg.MaxRevisions <= 0 {
		cfg.MaxRevisions = DefaultMaxRevisions
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RedisStore{
		client:       client,
		keyer:        cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Prefix),
		maxRevisions: cfg.MaxRevisions,
		backoff:      cache.DefaultBackoff,
		logger:       logger,
		now:          time.Now,
	}
}

// Client returns the underlying client, e.g. to share it with a
// [cache.RedisCache].
func (s *RedisStore) Client() redis.UniversalClient { return s.client }

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var data []byte
	err := s.retry(ctx, "load", func() error {
		var err error
		data, err = s.client.Get(ctx, s.keyer.DocumentKey(name)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "load %s", name)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, data []byte) (Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Revision{}, err
	}
	rev := NewRevision(name, data, s.now())
	encoded, err := json.Marshal(rev)
	if err != nil {
		return Revision{}, storageError(err, "encode revision")
	}

	revKey := s.keyer.RevisionsKey(name)
	err = s.retry(ctx, "save", func() error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.keyer.DocumentKey(name), data, 0)
			pipe.LPush(ctx, revKey, encoded)
			pipe.LTrim(ctx, revKey, 0, int64(s.maxRevisions-1))
			return nil
		})
		return err
	})
	if err != nil {
		return Revision{}, storageError(err, "save %s", name)
	}
	return rev, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	err := s.retry(ctx, "delete", func() error {
		return s.client.Del(ctx, s.keyer.DocumentKey(name), s.keyer.RevisionsKey(name)).Err()
	})
	if err != nil {
		return storageError(err, "delete %s", name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	prefix := s.keyer.DocumentKey("")
	var names []string
	err := s.retry(ctx, "list", func() error {
		names = names[:0]
		iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			names = append(names, strings.TrimPrefix(iter.Val(), prefix))
		}
		return iter.Err()
	})
	if err != nil {
		return nil, storageError(err, "list documents")
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

func (s *RedisStore) History(ctx context.Context, name string) ([]Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var raw []string
	err := s.retry(ctx, "history", func() error {
		var err error
		raw, err = s.client.LRange(ctx, s.keyer.RevisionsKey(name), 0, -1).Result()
		return err
	})
	if err != nil {
		return nil, storageError(err, "history of %s", name)
	}
	revs := make([]Revision, 0, len(raw))
	for _, r := range raw {
		var rev Revision
		if err := json.Unmarshal([]byte(r), &rev); err != nil {
			return nil, storageError(err, "parse revision of %s", name)
		}
		revs = append(revs, rev)
	}
	return revs, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// retry runs fn with backoff, retrying network failures only.
func (s *RedisStore) retry(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	err := s.backoff.Retry(ctx, func() error {
		attempt++
		err := fn()
		if isTransient(err) {
			s.logger.Warn("redis operation failed", "op", op, "attempt", attempt, "err", err)
			return cache.Retryable(fmt.Errorf("%w: %w", cache.ErrUnavailable, err))
		}
		return err
	})
	var re *cache.RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

func isTransient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}

var _ Store = (*RedisStore)(nil)
