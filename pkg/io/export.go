package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/expedition/pkg/codec"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/wire"
)

// WriteJSON deflates obj and writes it to w as indented JSON.
// The output can be read back with [ReadJSON].
func WriteJSON(obj model.Object, w io.Writer) error {
	return wire.Write(w, codec.DeflateObject(obj))
}

// ExportJSON writes obj to a JSON file at path, creating parent
// directories as needed.
func ExportJSON(obj model.Object, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(obj, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Marshal returns the JSON document for obj.
func Marshal(obj model.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(obj, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
