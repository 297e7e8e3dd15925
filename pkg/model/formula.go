package model

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

// Formula computes containers shaped like a prototype from an expression.
//
// The expression is kept as source text in the expr language, so it can be
// persisted and recompiled without executing host code. Arguments are passed
// as an environment of named values:
//
//	f := model.NewFormula(model.NewValue[float64]())
//	_ = f.Set("weight / (height * height)")
//	bmi, err := f.Execute(map[string]any{"weight": 80.0, "height": 1.8})
//
// Only results that fit a [ScalarSlot] can be assigned; a nil result leaves
// the returned container unset.
type Formula[C Container] struct {
	proto   C
	source  string
	program *vm.Program
	last    C
	hasLast bool
}

// NewFormula returns a formula without an expression.
func NewFormula[C Container](proto C) *Formula[C] {
	return &Formula[C]{proto: fresh(proto)}
}

func (f *Formula[C]) Kind() Kind { return KindFormula }

func (f *Formula[C]) Clone() Container { return NewFormula(f.proto) }

func (f *Formula[C]) Description() string { return "Formula of " + f.proto.Description() }

// Set compiles src and stores it. An empty src clears the formula.
func (f *Formula[C]) Set(src string) error {
	if src == "" {
		f.Clear()
		return nil
	}
	program, err := expr.Compile(src)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormula, err, "compile %q", src)
	}
	f.source = src
	f.program = program
	f.hasLast = false
	return nil
}

// Source returns the expression text, empty when unset.
func (f *Formula[C]) Source() string { return f.source }

// Exists reports whether an expression is set.
func (f *Formula[C]) Exists() bool { return f.program != nil }

// Clear drops the expression and the last result.
func (f *Formula[C]) Clear() {
	var zero C
	f.source = ""
	f.program = nil
	f.last = zero
	f.hasLast = false
}

// Execute evaluates the expression against env and returns a fresh
// container holding the result. Without an expression the container is
// returned empty.
func (f *Formula[C]) Execute(env map[string]any) (C, error) {
	result := fresh(f.proto)
	if f.program == nil {
		return result, nil
	}
	if env == nil {
		env = map[string]any{}
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		var zero C
		return zero, errs.Wrap(errs.ErrCodeInvalidFormula, err, "evaluate %q", f.source)
	}
	if out != nil {
		slot, ok := any(result).(ScalarSlot)
		if !ok {
			var zero C
			return zero, errs.New(errs.ErrCodeUnsupported, "formula results cannot fill a %s", result.Description())
		}
		if err := slot.SetScalar(out); err != nil {
			var zero C
			return zero, err
		}
	}

	f.last = result
	f.hasLast = true
	return result, nil
}

// Last returns the result of the most recent successful Execute.
func (f *Formula[C]) Last() (C, bool) {
	return f.last, f.hasLast
}
