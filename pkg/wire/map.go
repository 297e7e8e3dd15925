package wire

import (
	"slices"

	"github.com/iancoleman/orderedmap"
)

// Reserved keys of the generic object and Either shapes.
const (
	KeyID     = "id"
	KeyType   = "type"
	KeyFields = "fields"
	KeyPicked = "picked"
	KeyObject = "object"
)

// Map is a string-keyed JSON object that preserves insertion order.
// Setting an existing key replaces its value in place.
//
// The zero value is an empty map ready to use. A nil *Map reads as empty.
type Map struct {
	om *orderedmap.OrderedMap
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{}
}

func newOrdered() *orderedmap.OrderedMap {
	om := orderedmap.New()
	om.SetEscapeHTML(false)
	return om
}

// Set stores v under key, appending key if it is new.
func (m *Map) Set(key string, v any) *Map {
	if m.om == nil {
		m.om = newOrdered()
	}
	m.om.Set(key, v)
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.om == nil {
		return nil, false
	}
	return m.om.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, keeping the order of the remaining keys.
func (m *Map) Delete(key string) {
	if m == nil || m.om == nil {
		return
	}
	m.om.Delete(key)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil || m.om == nil {
		return nil
	}
	return slices.Clone(m.om.Keys())
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return len(m.om.Keys())
}

// MarshalJSON encodes the map as a JSON object in insertion order, without
// HTML escaping.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil || m.om == nil {
		return []byte("{}"), nil
	}
	return m.om.MarshalJSON()
}

// Object builds the generic object shape. An empty id is omitted.
func Object(id, typeName string, fields *Map) *Map {
	m := NewMap()
	if id != "" {
		m.Set(KeyID, id)
	}
	if fields == nil {
		fields = NewMap()
	}
	return m.Set(KeyType, typeName).Set(KeyFields, fields)
}

// Choice builds the Either shape. A nil picked encodes as null.
func Choice(picked *string, object any) *Map {
	m := NewMap()
	if picked == nil {
		m.Set(KeyPicked, nil)
	} else {
		m.Set(KeyPicked, *picked)
	}
	return m.Set(KeyObject, object)
}
