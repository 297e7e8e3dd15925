package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

const (
	docExt     = ".json"
	historyDir = ".history"
)

// FileStore keeps documents as JSON files in a directory. Revisions of
// <name>.json are kept in .history/<name>.json.
type FileStore struct {
	mu           sync.RWMutex
	baseDir      string
	maxRevisions int
	now          func() time.Time
}

// NewFileStore creates a store in baseDir, creating it if needed.
// If baseDir is empty, defaults to ~/.local/share/expedition/.
func NewFileStore(baseDir string, maxRevisions int) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(filepath.Join(baseDir, historyDir), 0o755); err != nil {
		return nil, storageError(err, "create store dir")
	}
	if maxRevisions <= 0 {
		maxRevisions = DefaultMaxRevisions
	}
	return &FileStore{baseDir: baseDir, maxRevisions: maxRevisions, now: time.Now}, nil
}

// DefaultDataDir returns $XDG_DATA_HOME/expedition or
// ~/.local/share/expedition.
func DefaultDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "expedition"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "expedition"), nil
}

func (s *FileStore) Backend() string { return "file" }

// Path returns the file that holds name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.baseDir, name+docExt)
}

func (s *FileStore) historyPath(name string) string {
	return filepath.Join(s.baseDir, historyDir, name+docExt)
}

func (s *FileStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, storageError(err, "read %s", name)
	}
	return data, nil
}

func (s *FileStore) Save(ctx context.Context, name string, data []byte) (Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Revision{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.Path(name), data); err != nil {
		return Revision{}, storageError(err, "write %s", name)
	}

	rev := NewRevision(name, data, s.now())
	history, err := s.readHistory(name)
	if err != nil {
		return Revision{}, err
	}
	history = append([]Revision{rev}, history...)
	if len(history) > s.maxRevisions {
		history = history[:s.maxRevisions]
	}
	encoded, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return Revision{}, storageError(err, "encode history of %s", name)
	}
	if err := writeAtomic(s.historyPath(name), encoded); err != nil {
		return Revision{}, storageError(err, "write history of %s", name)
	}
	return rev, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.Path(name), s.historyPath(name)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return storageError(err, "remove %s", path)
		}
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageError(err, "read store dir")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != docExt {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), docExt))
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) History(ctx context.Context, name string) ([]Revision, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readHistory(name)
}

func (s *FileStore) readHistory(name string) ([]Revision, error) {
	data, err := os.ReadFile(s.historyPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storageError(err, "read history of %s", name)
	}
	var history []Revision
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, storageError(err, "parse history of %s", name)
	}
	return history, nil
}

func (s *FileStore) Close() error { return nil }

// Dir returns the base directory.
func (s *FileStore) Dir() string {
	return s.baseDir
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

var _ Store = (*FileStore)(nil)
