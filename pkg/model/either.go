package model

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

// Variant is one named option of an [Either].
type Variant struct {
	Name  string
	Shape Container
}

// Either is a tagged union: at most one of its variants is active.
// Picking a variant discards the content of the previous one.
type Either struct {
	variants []Variant
	picked   int
	active   Container
}

// NewEither returns an unpicked union over variants. Variant names must be
// non-empty and unique; NewEither panics otherwise.
func NewEither(variants ...Variant) *Either {
	if len(variants) == 0 {
		panic("model: Either needs at least one variant")
	}
	seen := make(map[string]bool, len(variants))
	vs := make([]Variant, len(variants))
	for i, v := range variants {
		if v.Name == "" || v.Shape == nil {
			panic("model: Either variants need a name and a shape")
		}
		if seen[v.Name] {
			panic(fmt.Sprintf("model: duplicate Either variant %q", v.Name))
		}
		seen[v.Name] = true
		vs[i] = Variant{Name: v.Name, Shape: v.Shape.Clone()}
	}
	return &Either{variants: vs, picked: -1}
}

func (e *Either) Kind() Kind { return KindEither }

func (e *Either) Clone() Container { return NewEither(e.variants...) }

func (e *Either) Description() string {
	parts := make([]string, len(e.variants))
	for i, v := range e.variants {
		parts[i] = v.Name + ": " + v.Shape.Description()
	}
	return "Either of " + strings.Join(parts, ", ")
}

// Options returns the variants in declaration order.
func (e *Either) Options() []Variant {
	out := make([]Variant, len(e.variants))
	copy(out, e.variants)
	return out
}

// Pick activates the named variant with a fresh empty container and
// returns it.
func (e *Either) Pick(name string) (Container, error) {
	for i, v := range e.variants {
		if v.Name == name {
			e.picked = i
			e.active = v.Shape.Clone()
			return e.active, nil
		}
	}
	return nil, errs.New(errs.ErrCodeMalformedDocument, "%q is not a variant of %s", name, e.Description())
}

// Picked returns the active variant's name.
func (e *Either) Picked() (string, bool) {
	if e.picked < 0 {
		return "", false
	}
	return e.variants[e.picked].Name, true
}

// Active returns the active variant's container, or nil when unpicked.
func (e *Either) Active() Container { return e.active }

// Exists reports whether a variant is picked.
func (e *Either) Exists() bool { return e.picked >= 0 }

// Unpick deactivates the current variant and drops its content.
func (e *Either) Unpick() {
	e.picked = -1
	e.active = nil
}

// PickAs picks the named variant and returns it as C.
func PickAs[C Container](e *Either, name string) (C, error) {
	var zero C
	for _, v := range e.variants {
		if v.Name != name {
			continue
		}
		if _, ok := v.Shape.(C); !ok {
			return zero, errs.New(errs.ErrCodeTypeCoercion, "variant %q is a %s", name, v.Shape.Description())
		}
		c, err := e.Pick(name)
		if err != nil {
			return zero, err
		}
		return c.(C), nil
	}
	return zero, errs.New(errs.ErrCodeMalformedDocument, "%q is not a variant of %s", name, e.Description())
}

// ActiveAs returns the active variant as C if one is picked and has that
// shape.
func ActiveAs[C Container](e *Either) (C, bool) {
	c, ok := e.active.(C)
	return c, ok
}
