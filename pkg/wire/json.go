package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"
)

// Marshal encodes a tree as indented JSON with a trailing newline.
func Marshal(tree any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a tree as indented JSON and writes it to w.
func Write(w io.Writer, tree any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Unmarshal decodes JSON into a tree. Objects become *Map in document order,
// arrays become []any and numbers become float64. Trailing data after the
// first value is an error.
func Unmarshal(data []byte) (any, error) {
	if !json.Valid(data) {
		// Decode again for the position of the syntax error.
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return nil, fmt.Errorf("decode: invalid JSON")
	}
	tree, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return tree, nil
}

// Read decodes a single JSON document from r into a tree.
// Read does not close r.
func Read(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// decode turns one valid JSON value into a tree. Objects go through
// orderedmap, which keeps key order at every depth.
func decode(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	switch data[0] {
	case '{':
		om := orderedmap.New()
		if err := om.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return fromOrdered(om), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		arr := make([]any, len(items))
		for i, item := range items {
			v, err := decode(item)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func fromOrdered(om *orderedmap.OrderedMap) *Map {
	m := NewMap()
	for _, k := range om.Keys() {
		v, _ := om.Get(k)
		m.Set(k, fromValue(v))
	}
	return m
}

// fromValue converts the values orderedmap produces for nested objects
// and arrays into wire values.
func fromValue(v any) any {
	switch v := v.(type) {
	case orderedmap.OrderedMap:
		return fromOrdered(&v)
	case *orderedmap.OrderedMap:
		return fromOrdered(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = fromValue(item)
		}
		return out
	}
	return v
}
