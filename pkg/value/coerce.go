package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coerce converts v to the named type: str, int, float, bool, list, tuple,
// set or dict. Semantics follow loose dynamic casting:
//   - str renders the display form (containers as compact JSON).
//   - int and float parse strings (base 10) and truncate or widen numbers;
//     bools become 0 or 1.
//   - bool is truthiness.
//   - list JSON-decodes a string first, then listifies: a list is copied, a
//     map yields its keys, a string yields its characters.
//   - tuple and set listify without the JSON decode step; set additionally
//     deduplicates, keeping first occurrences.
//   - dict JSON-decodes a string first, then accepts a map or a list of
//     [key, value] pairs.
func Coerce(v Value, typ string) (Value, error) {
	switch typ {
	case "str":
		return String(v.String()), nil
	case "int":
		return coerceInt(v)
	case "float":
		return coerceFloat(v)
	case "bool":
		return Bool(Truthy(v)), nil
	case "list":
		decoded, err := jsonDecoded(v)
		if err != nil {
			return nil, err
		}
		return listify(decoded)
	case "tuple":
		return listify(v)
	case "set":
		elems, err := listify(v)
		if err != nil {
			return nil, err
		}
		return dedupe(elems.(List))
	case "dict":
		decoded, err := jsonDecoded(v)
		if err != nil {
			return nil, err
		}
		return mapify(decoded)
	default:
		return nil, fmt.Errorf("cannot cast %s to %s", v, typ)
	}
}

func coerceInt(v Value) (Value, error) {
	switch t := v.(type) {
	case Bool:
		if t {
			return Int(1), nil
		}
		return Int(0), nil
	case Int:
		return t, nil
	case Float:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot convert %s to int", t)
		}
		if f >= float64(math.MaxInt64) || f < float64(math.MinInt64) {
			return nil, fmt.Errorf("%s overflows int", t)
		}
		return Int(int64(f)), nil
	case String:
		i, err := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q", string(t))
		}
		return Int(i), nil
	}
	return nil, fmt.Errorf("cannot convert %s to int", v.Kind())
}

func coerceFloat(v Value) (Value, error) {
	switch t := v.(type) {
	case Bool:
		if t {
			return Float(1), nil
		}
		return Float(0), nil
	case Int:
		return Float(t), nil
	case Float:
		return t, nil
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q", string(t))
		}
		return Float(f), nil
	}
	return nil, fmt.Errorf("cannot convert %s to float", v.Kind())
}

// jsonDecoded decodes v when it is a string, mirroring the decode-then-cast
// behavior of the list and dict casts. Non-strings pass through.
func jsonDecoded(v Value) (Value, error) {
	s, ok := v.(String)
	if !ok {
		return v, nil
	}
	decoded, err := DecodeJSON([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as JSON: %w", string(s), err)
	}
	return decoded, nil
}

func listify(v Value) (Value, error) {
	switch t := v.(type) {
	case String:
		list := make(List, 0, len(t))
		for _, r := range string(t) {
			list = append(list, String(r))
		}
		return list, nil
	case List:
		return append(List{}, t...), nil
	case *Map:
		keys := t.Keys()
		list := make(List, len(keys))
		for i, k := range keys {
			list[i] = String(k)
		}
		return list, nil
	}
	return nil, fmt.Errorf("%s is not iterable", v.Kind())
}

func dedupe(list List) (Value, error) {
	out := List{}
	for _, elem := range list {
		switch elem.(type) {
		case List, *Map:
			return nil, fmt.Errorf("unhashable element %s", elem)
		}
		dup := false
		for _, seen := range out {
			if Equal(seen, elem) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, elem)
		}
	}
	return out, nil
}

func mapify(v Value) (Value, error) {
	switch t := v.(type) {
	case *Map:
		m := NewMap()
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			m.Set(k, val)
		}
		return m, nil
	case List:
		m := NewMap()
		for i, elem := range t {
			pair, ok := elem.(List)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("element %d is not a [key, value] pair", i)
			}
			key, ok := pair[0].(String)
			if !ok {
				return nil, fmt.Errorf("element %d: key %s is not a string", i, pair[0])
			}
			m.Set(string(key), pair[1])
		}
		return m, nil
	}
	return nil, fmt.Errorf("cannot convert %s to dict", v.Kind())
}
