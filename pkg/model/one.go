package model

import (
	errs "github.com/matzehuels/expedition/pkg/errors"
)

// One holds at most one instance of the domain type T.
//
// When T's [Type] is an abstraction the stored instance may be any of its
// registered implementations; use [One.CreateAs] to construct one.
type One[T Object] struct {
	typ *Type[T]
	obj T
	set bool
}

// NewOne returns an unset One of typ.
func NewOne[T Object](typ *Type[T]) *One[T] {
	return &One[T]{typ: typ}
}

func (o *One[T]) Kind() Kind { return KindOne }

func (o *One[T]) Clone() Container { return NewOne(o.typ) }

func (o *One[T]) Description() string { return "One of " + o.typ.Name() }

// Type returns the declared type of the slot.
func (o *One[T]) Type() *Type[T] { return o.typ }

// Create stores a new instance of the declared concrete type, passes it to
// each then callback and returns it. It panics if the type is abstract.
func (o *One[T]) Create(then ...func(T)) T {
	return o.store(o.typ.Create(), then)
}

// CreateAs stores a new instance of the named implementation (or the
// declared type itself), passes it to each then callback and returns it.
func (o *One[T]) CreateAs(name string, then ...func(T)) (T, error) {
	obj, err := o.typ.New(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return o.store(obj, then), nil
}

// Constructors returns the names accepted by [One.CreateAs].
func (o *One[T]) Constructors() []string {
	return o.typ.Constructors()
}

func (o *One[T]) store(obj T, then []func(T)) T {
	o.obj = obj
	o.set = true
	for _, fn := range then {
		fn(obj)
	}
	return obj
}

// Set stores v as the owned instance. A nil interface value clears the slot.
func (o *One[T]) Set(v T) {
	if any(v) == nil {
		o.Clear()
		return
	}
	o.obj = v
	o.set = true
}

// Point stores v, an instance owned elsewhere in the graph. The codec keeps
// both places pointing at one instance across a round trip.
func (o *One[T]) Point(v T) T {
	o.Set(v)
	return v
}

// Get returns the instance and whether one is set.
func (o *One[T]) Get() (T, bool) {
	return o.obj, o.set
}

// MustGet returns the instance and panics when the slot is empty.
func (o *One[T]) MustGet() T {
	if !o.set {
		panic(errs.New(errs.ErrCodeInternal, "no %s", o.Description()))
	}
	return o.obj
}

// Exists reports whether an instance is set.
func (o *One[T]) Exists() bool { return o.set }

// IfThere calls fn with the instance when one is set.
func (o *One[T]) IfThere(fn func(T)) {
	if o.set {
		fn(o.obj)
	}
}

// IfNot calls fn when the slot is empty.
func (o *One[T]) IfNot(fn func()) {
	if !o.set {
		fn()
	}
}

// Clear unsets the slot.
func (o *One[T]) Clear() {
	var zero T
	o.obj = zero
	o.set = false
}

// Object returns the instance for the codec.
func (o *One[T]) Object() (Object, bool) {
	if !o.set {
		return nil, false
	}
	return o.obj, true
}

// Adopt stores obj if it is a T.
func (o *One[T]) Adopt(obj Object) error {
	if obj == nil {
		o.Clear()
		return nil
	}
	v, ok := obj.(T)
	if !ok {
		return errs.New(errs.ErrCodeTypeCoercion, "%s cannot hold a %s", o.Description(), obj.TypeName())
	}
	o.Set(v)
	return nil
}

// Instantiate creates a new object for a wire type tag without storing it.
func (o *One[T]) Instantiate(typeName string) (Object, error) {
	obj, err := o.typ.New(typeName)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// IfEither returns there(instance) when o is set and not() otherwise.
func IfEither[T Object, R any](o *One[T], there func(T) R, not func() R) R {
	if v, ok := o.Get(); ok {
		return there(v)
	}
	return not()
}
