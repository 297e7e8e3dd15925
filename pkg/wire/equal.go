package wire

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Equal reports whether two trees are structurally equal.
func Equal(a, b any) bool {
	_, same := Diff(a, b)
	return same
}

// Diff compares two trees and returns the path of the first difference
// ("$" is the root, ".key" and "[i]" descend). It reports true when the
// trees are equal, in which case the path is empty.
func Diff(a, b any) (string, bool) {
	return diff("$", a, b)
}

func diff(path string, a, b any) (string, bool) {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok || fa != fb {
			return path, false
		}
		return "", true
	}

	switch av := a.(type) {
	case nil:
		if !isNil(b) {
			return path, false
		}
		return "", true
	case string:
		bv, ok := b.(string)
		if !ok || av != bv {
			return path, false
		}
		return "", true
	case bool:
		bv, ok := b.(bool)
		if !ok || av != bv {
			return path, false
		}
		return "", true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return path, false
		}
		for i := range av {
			if p, same := diff(fmt.Sprintf("%s[%d]", path, i), av[i], bv[i]); !same {
				return p, false
			}
		}
		return "", true
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return path, false
		}
		keys := av.Keys()
		slices.Sort(keys)
		for _, k := range keys {
			bval, ok := bv.Get(k)
			if !ok {
				return path + "." + k, false
			}
			aval, _ := av.Get(k)
			if p, same := diff(path+"."+k, aval, bval); !same {
				return p, false
			}
		}
		return "", true
	}
	return path, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	m, ok := v.(*Map)
	return ok && m == nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
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
