// Package store persists expedition documents by name.
//
// A [Store] holds the latest JSON text of every document plus a capped list
// of revisions describing earlier saves. Three backends exist:
//
//   - [FileStore]: one file per document in a directory (the default)
//   - [RedisStore]: documents and revision lists in Redis
//   - [MongoStore]: documents and revisions in two MongoDB collections
//
// Stores move bytes only. [LoadObject] and [SaveObject] connect them to the
// codec and report every operation to the [observability] store hooks:
//
//	s, err := store.Open(ctx, cfg, logger)
//	exp, err := store.LoadObject(ctx, s, "health", expedition.ExpeditionType)
//	// ... modify exp ...
//	rev, err := store.SaveObject(ctx, s, "health", exp)
//
// Documents are stored as the exact text produced by [io.Marshal], so key
// order survives every backend.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/expedition/pkg/cache"
	"github.com/matzehuels/expedition/pkg/codec"
	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/io"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/observability"
)

// DefaultMaxRevisions is how many revisions a store keeps per document
// unless configured otherwise.
const DefaultMaxRevisions = 50

// Revision describes one save of a document.
type Revision struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Hash    string    `json:"hash"`
	Size    int       `json:"size"`
	SavedAt time.Time `json:"saved_at"`
}

// NewRevision describes data saved as name at savedAt.
func NewRevision(name string, data []byte, savedAt time.Time) Revision {
	return Revision{
		ID:      uuid.New(),
		Name:    name,
		Hash:    cache.Hash(data),
		Size:    len(data),
		SavedAt: savedAt.UTC(),
	}
}

// Store is a named document store.
type Store interface {
	// Backend names the implementation, e.g. "file".
	Backend() string

	// Load returns the latest content of name, or DOCUMENT_NOT_FOUND.
	Load(ctx context.Context, name string) ([]byte, error)

	// Save replaces the content of name and records a revision.
	Save(ctx context.Context, name string, data []byte) (Revision, error)

	// Delete removes name and its revisions. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored document names in sorted order.
	List(ctx context.Context) ([]string, error)

	// History returns the revisions of name, newest first.
	History(ctx context.Context, name string) ([]Revision, error)

	// Close releases backend connections.
	Close() error
}

// LoadObject loads name from s and inflates it into a new object of typ.
func LoadObject[T model.Object](ctx context.Context, s Store, name string, typ *model.Type[T], opts ...codec.Option) (T, error) {
	var zero T
	if err := errs.ValidateDocumentName(name); err != nil {
		return zero, err
	}

	hooks := observability.Store()
	hooks.OnLoadStart(ctx, s.Backend(), name)
	start := time.Now()

	data, err := s.Load(ctx, name)
	if err != nil {
		hooks.OnLoadComplete(ctx, s.Backend(), name, 0, time.Since(start), err)
		return zero, err
	}
	obj, err := io.Unmarshal(data, typ, opts...)
	hooks.OnLoadComplete(ctx, s.Backend(), name, len(data), time.Since(start), err)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", name, err)
	}
	return obj, nil
}

// SaveObject deflates obj and saves it as name.
func SaveObject(ctx context.Context, s Store, name string, obj model.Object) (Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Revision{}, err
	}

	hooks := observability.Store()
	hooks.OnSaveStart(ctx, s.Backend(), name)
	start := time.Now()

	data, err := io.Marshal(obj)
	if err != nil {
		err = errs.Wrap(errs.ErrCodeInternal, err, "encode %s", name)
		hooks.OnSaveComplete(ctx, s.Backend(), name, 0, time.Since(start), err)
		return Revision{}, err
	}
	rev, err := s.Save(ctx, name, data)
	hooks.OnSaveComplete(ctx, s.Backend(), name, len(data), time.Since(start), err)
	return rev, err
}

func notFound(name string) error {
	return errs.New(errs.ErrCodeDocumentNotFound, "no document named %q", name)
}

func storageError(err error, format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeStorage, err, format, args...)
}
