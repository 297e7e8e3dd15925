package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/expedition/pkg/codec"
	"github.com/matzehuels/expedition/pkg/expedition"
	"github.com/matzehuels/expedition/pkg/io"
	"github.com/matzehuels/expedition/pkg/store"
)

// document is an expedition addressed on the command line. A reference
// ending in .json or containing a path separator is a file; anything else
// is a name in the configured store.
type document struct {
	ref  string
	path string
	exp  *expedition.Expedition
}

func isFileRef(ref string) bool {
	return strings.HasSuffix(ref, ".json") || strings.ContainsRune(ref, filepath.Separator)
}

func (d *document) isFile() bool { return d.path != "" }

// newDocument wraps exp without loading anything.
func newDocument(ref string, exp *expedition.Expedition) *document {
	d := &document{ref: ref, exp: exp}
	if isFileRef(ref) {
		d.path = ref
	}
	return d
}

// load reads the expedition behind ref.
func (c *CLI) load(ctx context.Context, ref string, opts ...codec.Option) (*document, error) {
	prog := newProgress(c.Logger)
	d := newDocument(ref, nil)

	var err error
	if d.isFile() {
		d.exp, err = io.ImportJSON(d.path, expedition.ExpeditionType, opts...)
	} else {
		var s store.Store
		if s, err = c.openStore(ctx); err == nil {
			d.exp, err = store.LoadObject(ctx, s, ref, expedition.ExpeditionType, opts...)
		}
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debugf("loaded %s with %d metrics", ref, len(d.exp.Metrics()))
	if c.Verbose {
		prog.done("Loaded " + ref)
	}
	return d, nil
}

// raw returns the stored bytes behind ref, as they are on disk or in the
// store.
func (c *CLI) raw(ctx context.Context, ref string) ([]byte, error) {
	if isFileRef(ref) {
		return readFile(ref)
	}
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, ref)
}

// save writes d back where it came from.
func (c *CLI) save(ctx context.Context, d *document) error {
	if d.isFile() {
		return io.ExportJSON(d.exp, d.path)
	}
	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	rev, err := store.SaveObject(ctx, s, d.ref, d.exp)
	if err != nil {
		return err
	}
	c.Logger.Debug("saved revision", "id", rev.ID, "hash", rev.Hash[:12], "bytes", rev.Size)
	return nil
}

// exists reports whether ref already holds a document.
func (c *CLI) exists(ctx context.Context, ref string) (bool, error) {
	_, err := c.raw(ctx, ref)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// parseAt parses a --at flag: empty means now, otherwise a date
// (2006-01-02) or an RFC 3339 instant.
func (c *CLI) parseAt(s string) (time.Time, error) {
	if s == "" {
		return c.now(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalidInput("--at must be a date (2006-01-02) or RFC 3339 time, got %q", s)
	}
	return t, nil
}
