package model

// Kind identifies a container variant.
type Kind int

const (
	KindValue Kind = iota
	KindOne
	KindMany
	KindMap
	KindEither
	KindFormula
)

var kindNames = map[Kind]string{
	KindValue:   "Value",
	KindOne:     "One",
	KindMany:    "Many",
	KindMap:     "Map",
	KindEither:  "Either",
	KindFormula: "Formula",
}

// String returns the variant name, e.g. "Many".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Container is a node of a domain object graph.
type Container interface {
	// Kind identifies the variant.
	Kind() Kind

	// Clone returns a fresh, empty container of the same static shape.
	Clone() Container

	// Description names the shape, e.g. "Many of One of Goal".
	Description() string
}

// ScalarSlot is the codec's view of a [Value].
type ScalarSlot interface {
	Container

	// Scalar returns the raw value and whether it is set.
	Scalar() (any, bool)

	// SetScalar coerces a wire scalar into the slot. nil unsets it.
	SetScalar(v any) error
}

// ObjectSlot is the codec's view of a [One].
type ObjectSlot interface {
	Container

	// Object returns the held object and whether one is set.
	Object() (Object, bool)

	// Adopt stores obj, failing if it is not assignable to the slot's type.
	Adopt(obj Object) error

	// Instantiate creates a fresh object for a wire type tag.
	Instantiate(typeName string) (Object, error)

	// Clear unsets the slot.
	Clear()
}

// Sequence is the codec's view of a [Many].
type Sequence interface {
	Container

	// Slots returns the elements in order.
	Slots() []Container

	// AppendSlot adds an empty element and returns it.
	AppendSlot() Container

	// Reset removes all elements.
	Reset()
}

// Dictionary is the codec's view of a [Map].
type Dictionary interface {
	Container

	// Keys returns the keys in insertion order.
	Keys() []string

	// Slot returns the container stored under key.
	Slot(key string) (Container, bool)

	// PutSlot stores an empty container under key and returns it.
	PutSlot(key string) Container

	// Reset removes all entries.
	Reset()
}

// Union is the codec's view of an [Either].
type Union interface {
	Container

	// Picked returns the name of the active variant.
	Picked() (string, bool)

	// Active returns the active variant's container, or nil.
	Active() Container

	// Pick activates the named variant with empty content.
	Pick(name string) (Container, error)

	// Unpick deactivates the current variant.
	Unpick()
}

// Expression is the codec's view of a [Formula].
type Expression interface {
	Container

	// Source returns the expression text, empty when unset.
	Source() string

	// Set compiles and stores an expression. An empty source clears it.
	Set(src string) error
}

// fresh clones proto into a new empty container of the same concrete type.
func fresh[C Container](proto C) C {
	return proto.Clone().(C)
}
