package value

import (
	"cmp"
	"fmt"
)

// Truthy reports whether v counts as true in a cond test. The falsy set is
// null, false, 0, 0.0, the empty string, the empty list and the empty map;
// every other value is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(t)
	case Int:
		return t != 0
	case Float:
		return t != 0
	case String:
		return t != ""
	case List:
		return len(t) > 0
	case *Map:
		return t.Len() > 0
	default:
		return true
	}
}

// Equal reports structural equality. Int and Float compare numerically
// across kinds, so 1 equals 1.0. Lists compare element-wise in order; maps
// compare by key set and per-key values, ignoring order.
func Equal(a, b Value) bool {
	switch ta := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		tb, ok := b.(Bool)
		return ok && ta == tb
	case Int:
		switch tb := b.(type) {
		case Int:
			return ta == tb
		case Float:
			return float64(ta) == float64(tb)
		}
		return false
	case Float:
		switch tb := b.(type) {
		case Int:
			return float64(ta) == float64(tb)
		case Float:
			return ta == tb
		}
		return false
	case String:
		tb, ok := b.(String)
		return ok && ta == tb
	case List:
		tb, ok := b.(List)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case *Map:
		tb, ok := b.(*Map)
		if !ok || ta.Len() != tb.Len() {
			return false
		}
		for k, av := range ta.items {
			bv, ok := tb.items[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case Absent:
		_, ok := b.(Absent)
		return ok
	case Func:
		tb, ok := b.(Func)
		return ok && ta.Callable == tb.Callable
	}
	return false
}

// Compare orders a against b, returning -1, 0 or 1. Numbers order
// numerically across int and float, strings lexicographically by byte, and
// lists lexicographically element-wise with shorter prefixes first. Any
// other pairing cannot be ordered.
func Compare(a, b Value) (int, error) {
	switch ta := a.(type) {
	case Int:
		switch tb := b.(type) {
		case Int:
			return cmp.Compare(ta, tb), nil
		case Float:
			return cmp.Compare(float64(ta), float64(tb)), nil
		}
	case Float:
		switch tb := b.(type) {
		case Int:
			return cmp.Compare(float64(ta), float64(tb)), nil
		case Float:
			return cmp.Compare(ta, tb), nil
		}
	case String:
		if tb, ok := b.(String); ok {
			return cmp.Compare(ta, tb), nil
		}
	case List:
		if tb, ok := b.(List); ok {
			// Order on the first unequal element pair. Equal elements pass
			// through even when their kind has no ordering.
			for i := 0; i < len(ta) && i < len(tb); i++ {
				if Equal(ta[i], tb[i]) {
					continue
				}
				c, err := Compare(ta[i], tb[i])
				if err != nil {
					return 0, fmt.Errorf("list index %d: %w", i, err)
				}
				return c, nil
			}
			return cmp.Compare(len(ta), len(tb)), nil
		}
	}
	return 0, fmt.Errorf("cannot order %s and %s", a.Kind(), b.Kind())
}
