package model

// Many is an ordered sequence of containers shaped like a prototype.
// It owns its elements exclusively.
type Many[C Container] struct {
	proto C
	items []C
}

// NewMany returns an empty sequence whose elements are clones of proto.
// proto itself is only used as a shape and never stored.
func NewMany[C Container](proto C) *Many[C] {
	return &Many[C]{proto: fresh(proto)}
}

// ManyOf is shorthand for a sequence of One[T].
func ManyOf[T Object](typ *Type[T]) *Many[*One[T]] {
	return NewMany(NewOne(typ))
}

func (m *Many[C]) Kind() Kind { return KindMany }

func (m *Many[C]) Clone() Container { return NewMany(m.proto) }

func (m *Many[C]) Description() string { return "Many of " + m.proto.Description() }

// Add appends an empty element and returns it.
func (m *Many[C]) Add() C {
	c := fresh(m.proto)
	m.items = append(m.items, c)
	return c
}

// At returns the element at index i. Out of range indexes return a detached
// empty element, never nil.
func (m *Many[C]) At(i int) C {
	if i < 0 || i >= len(m.items) {
		return fresh(m.proto)
	}
	return m.items[i]
}

// Last returns the final element, or a detached empty one.
func (m *Many[C]) Last() C {
	return m.FromEnd(0)
}

// FromEnd returns the element i positions before the last one, or a detached
// empty one.
func (m *Many[C]) FromEnd(i int) C {
	return m.At(len(m.items) - 1 - i)
}

// All returns the elements in order. The slice is a copy.
func (m *Many[C]) All() []C {
	out := make([]C, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of elements.
func (m *Many[C]) Len() int { return len(m.items) }

// IsEmpty reports whether there are no elements.
func (m *Many[C]) IsEmpty() bool { return len(m.items) == 0 }

// RemoveAt deletes the element at index i and reports whether it existed.
func (m *Many[C]) RemoveAt(i int) bool {
	if i < 0 || i >= len(m.items) {
		return false
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return true
}

// Select returns a new sequence holding the elements that match pred, in
// order. The new sequence shares the elements but not the backing slice.
func (m *Many[C]) Select(pred func(C) bool) *Many[C] {
	out := NewMany(m.proto)
	for _, c := range m.items {
		if pred(c) {
			out.items = append(out.items, c)
		}
	}
	return out
}

// Slots returns the elements as containers for the codec.
func (m *Many[C]) Slots() []Container {
	out := make([]Container, len(m.items))
	for i, c := range m.items {
		out[i] = c
	}
	return out
}

// AppendSlot is [Many.Add] for the codec.
func (m *Many[C]) AppendSlot() Container { return m.Add() }

// Reset removes all elements.
func (m *Many[C]) Reset() { m.items = nil }

// MapTo projects every element of src into a fresh element of a new sequence
// shaped like target, calling fn(source, destination) for each.
func MapTo[C, D Container](src *Many[C], target D, fn func(src C, dst D)) *Many[D] {
	out := NewMany(target)
	for _, c := range src.items {
		fn(c, out.Add())
	}
	return out
}

// Objects returns the instances held by a sequence of One, skipping empty
// slots.
func Objects[T Object](m *Many[*One[T]]) []T {
	out := make([]T, 0, len(m.items))
	for _, o := range m.items {
		if v, ok := o.Get(); ok {
			out = append(out, v)
		}
	}
	return out
}
