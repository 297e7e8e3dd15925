package model

// Map maps unique string keys to containers shaped like a prototype.
// It owns its values exclusively and iterates in insertion order.
type Map[C Container] struct {
	proto C
	keys  []string
	vals  map[string]C
}

// NewMap returns an empty map whose values are clones of proto.
func NewMap[C Container](proto C) *Map[C] {
	return &Map[C]{proto: fresh(proto), vals: make(map[string]C)}
}

// MapOf is shorthand for a map of One[T].
func MapOf[T Object](typ *Type[T]) *Map[*One[T]] {
	return NewMap(NewOne(typ))
}

func (m *Map[C]) Kind() Kind { return KindMap }

func (m *Map[C]) Clone() Container { return NewMap(m.proto) }

func (m *Map[C]) Description() string { return "Map of " + m.proto.Description() }

// Put stores an empty container under key, replacing any previous value,
// and returns it.
func (m *Map[C]) Put(key string) C {
	c := fresh(m.proto)
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = c
	return c
}

// At returns the value under key, or a detached empty container.
func (m *Map[C]) At(key string) C {
	if c, ok := m.vals[key]; ok {
		return c
	}
	return fresh(m.proto)
}

// Lookup returns the value under key and whether it exists.
func (m *Map[C]) Lookup(key string) (C, bool) {
	c, ok := m.vals[key]
	return c, ok
}

// Has reports whether key exists.
func (m *Map[C]) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map[C]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key order.
func (m *Map[C]) Values() []C {
	out := make([]C, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.vals[k]
	}
	return out
}

// Len returns the number of keys.
func (m *Map[C]) Len() int { return len(m.keys) }

// Delete removes key and reports whether it existed.
func (m *Map[C]) Delete(key string) bool {
	if _, ok := m.vals[key]; !ok {
		return false
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Slot returns the value under key for the codec.
func (m *Map[C]) Slot(key string) (Container, bool) {
	c, ok := m.vals[key]
	if !ok {
		return nil, false
	}
	return c, true
}

// PutSlot is [Map.Put] for the codec.
func (m *Map[C]) PutSlot(key string) Container { return m.Put(key) }

// Reset removes all entries.
func (m *Map[C]) Reset() {
	m.keys = nil
	m.vals = make(map[string]C)
}
