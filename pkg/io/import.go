package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/expedition/pkg/codec"
	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/wire"
)

// ReadJSON decodes a JSON document from r and inflates it into a new
// object of typ.
//
// ReadJSON returns an error if:
//   - The JSON is malformed (MALFORMED_DOCUMENT)
//   - The tree does not match the schema of typ (see [codec.Inflate])
//   - A reference token is never defined (UNRESOLVED_REFERENCE)
//
// ReadJSON does not close r.
func ReadJSON[T model.Object](r io.Reader, typ *model.Type[T], opts ...codec.Option) (T, error) {
	var zero T
	tree, err := wire.Read(r)
	if err != nil {
		return zero, errs.Wrap(errs.ErrCodeMalformedDocument, err, "invalid JSON")
	}
	return codec.InflateObject(tree, typ, opts...)
}

// ImportJSON reads the JSON file at path and inflates it into a new object
// of typ. A missing file is reported as DOCUMENT_NOT_FOUND.
func ImportJSON[T model.Object](path string, typ *model.Type[T], opts ...codec.Option) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, errs.Wrap(errs.ErrCodeDocumentNotFound, err, "no document at %s", path)
		}
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	obj, err := ReadJSON(f, typ, opts...)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// Unmarshal inflates a JSON document held in memory.
func Unmarshal[T model.Object](data []byte, typ *model.Type[T], opts ...codec.Option) (T, error) {
	return ReadJSON(bytes.NewReader(data), typ, opts...)
}
