package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	errs "github.com/matzehuels/expedition/pkg/errors"
)

// InstantLayout is the wire encoding of time.Time values: ISO-8601 in UTC
// with millisecond precision.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// Scalar lists the primitive kinds a [Value] can hold.
type Scalar interface {
	string | float64 | int | bool | time.Time
}

// Value holds at most one scalar of type T.
type Value[T Scalar] struct {
	v   T
	set bool
}

// NewValue returns an unset Value.
func NewValue[T Scalar]() *Value[T] {
	return &Value[T]{}
}

func (v *Value[T]) Kind() Kind { return KindValue }

func (v *Value[T]) Clone() Container { return NewValue[T]() }

func (v *Value[T]) Description() string { return "Value of " + scalarName[T]() }

// Set stores x.
func (v *Value[T]) Set(x T) {
	v.v = x
	v.set = true
}

// Get returns the stored scalar, or the zero value when unset.
func (v *Value[T]) Get() T {
	return v.v
}

// Lookup returns the stored scalar and whether it is set.
func (v *Value[T]) Lookup() (T, bool) {
	return v.v, v.set
}

// Exists reports whether a scalar is set.
func (v *Value[T]) Exists() bool {
	return v.set
}

// Unset clears the value.
func (v *Value[T]) Unset() {
	var zero T
	v.v = zero
	v.set = false
}

// Scalar returns the raw value for the codec.
func (v *Value[T]) Scalar() (any, bool) {
	if !v.set {
		return nil, false
	}
	return v.v, true
}

// SetScalar coerces a wire scalar into the value. Numbers convert between
// int and float64 when lossless; strings parse as instants for time.Time.
func (v *Value[T]) SetScalar(x any) error {
	if x == nil {
		v.Unset()
		return nil
	}
	t, err := coerce[T](x)
	if err != nil {
		return err
	}
	v.Set(t)
	return nil
}

func coerce[T Scalar](x any) (T, error) {
	var zero T
	var out any

	switch any(zero).(type) {
	case string:
		s, ok := x.(string)
		if !ok {
			return zero, coercionError[T](x)
		}
		out = s
	case bool:
		b, ok := x.(bool)
		if !ok {
			return zero, coercionError[T](x)
		}
		out = b
	case float64:
		f, ok := toFloat(x)
		if !ok {
			return zero, coercionError[T](x)
		}
		out = f
	case int:
		f, ok := toFloat(x)
		if !ok || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
			return zero, coercionError[T](x)
		}
		out = int(f)
	case time.Time:
		switch tv := x.(type) {
		case time.Time:
			out = tv
		case string:
			t, err := ParseInstant(tv)
			if err != nil {
				return zero, errs.Wrap(errs.ErrCodeTypeCoercion, err, "cannot use %q as %s", tv, scalarName[T]())
			}
			out = t
		default:
			return zero, coercionError[T](x)
		}
	}
	return out.(T), nil
}

func coercionError[T Scalar](x any) error {
	return errs.New(errs.ErrCodeTypeCoercion, "cannot use %T %v as %s", x, x, scalarName[T]())
}

func toFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func scalarName[T Scalar]() string {
	var zero T
	switch any(zero).(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case int:
		return "integer"
	case bool:
		return "boolean"
	case time.Time:
		return "instant"
	}
	return fmt.Sprintf("%T", zero)
}

// FormatInstant encodes t in [InstantLayout].
func FormatInstant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// ParseInstant decodes an ISO-8601 timestamp. Date-only strings are read as
// midnight UTC.
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an ISO-8601 instant: %q", s)
	}
	return t, nil
}
