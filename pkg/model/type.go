package model

import (
	"fmt"
	"slices"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

// Type describes how to construct instances of a domain type T by name.
//
// A concrete type has its own constructor. An abstraction has none and can
// only be instantiated through its registered implementations. Concrete
// types may have implementations too, when a subtype extends them.
//
// Types are populated at startup and read afterwards; they are not safe for
// concurrent registration.
type Type[T Object] struct {
	name   string
	ctor   func() T
	impls  []string
	byName map[string]func() T
}

// NewType registers a concrete type with its constructor.
func NewType[T Object](name string, ctor func() T) *Type[T] {
	if name == "" || ctor == nil {
		panic("model: NewType requires a name and a constructor")
	}
	return &Type[T]{name: name, ctor: ctor, byName: map[string]func() T{}}
}

// NewAbstraction registers an abstraction: a type only instantiable through
// implementations added with [Extend] or [Implement].
func NewAbstraction[T Object](name string) *Type[T] {
	if name == "" {
		panic("model: NewAbstraction requires a name")
	}
	return &Type[T]{name: name, byName: map[string]func() T{}}
}

// Extend registers ctor as the implementation named name of t.
// Registering the same name twice panics.
func Extend[T Object](t *Type[T], name string, ctor func() T) {
	if name == "" || ctor == nil {
		panic("model: Extend requires a name and a constructor")
	}
	if name == t.name || t.byName[name] != nil {
		panic(fmt.Sprintf("model: %s already has an implementation named %s", t.name, name))
	}
	t.impls = append(t.impls, name)
	t.byName[name] = ctor
}

// Implement registers the concrete type impl as an implementation of the
// abstraction t. Instances of C must implement A; this is checked once at
// registration.
func Implement[A, C Object](t *Type[A], impl *Type[C]) {
	if impl.ctor == nil {
		panic(fmt.Sprintf("model: %s is abstract and cannot implement %s", impl.name, t.name))
	}
	if _, ok := any(impl.ctor()).(A); !ok {
		panic(fmt.Sprintf("model: %s does not implement %s", impl.name, t.name))
	}
	Extend(t, impl.name, func() A { return any(impl.ctor()).(A) })
}

// Name returns the type tag.
func (t *Type[T]) Name() string { return t.name }

// IsAbstract reports whether the type has no constructor of its own.
func (t *Type[T]) IsAbstract() bool { return t.ctor == nil }

// Implementations returns the registered implementation names in
// registration order.
func (t *Type[T]) Implementations() []string {
	return slices.Clone(t.impls)
}

// Constructors returns every name [Type.New] accepts: the type itself when
// concrete, then its implementations.
func (t *Type[T]) Constructors() []string {
	var names []string
	if t.ctor != nil {
		names = append(names, t.name)
	}
	return append(names, t.impls...)
}

// Create returns a new instance of a concrete type. It panics for
// abstractions, which must be instantiated with [Type.New].
func (t *Type[T]) Create() T {
	if t.ctor == nil {
		panic(fmt.Sprintf("model: %s is abstract; use one of %v", t.name, t.impls))
	}
	return t.ctor()
}

// New returns a new instance for a type tag: the type itself or one of its
// implementations.
func (t *Type[T]) New(name string) (T, error) {
	if name == t.name && t.ctor != nil {
		return t.ctor(), nil
	}
	if ctor, ok := t.byName[name]; ok {
		return ctor(), nil
	}
	var zero T
	return zero, errs.New(errs.ErrCodeUnknownType, "%q is not a registered implementation of %s (known: %v)",
		name, t.name, t.Constructors())
}
