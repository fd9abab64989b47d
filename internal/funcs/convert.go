package funcs

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// toStarlark converts a document value to its Starlark form. Absent
// converts to None so cond misses stay representable inside user code.
func toStarlark(v value.Value) (starlark.Value, error) {
	switch t := v.(type) {
	case value.Null:
		return starlark.None, nil
	case value.Bool:
		return starlark.Bool(t), nil
	case value.Int:
		return starlark.MakeInt64(int64(t)), nil
	case value.Float:
		return starlark.Float(t), nil
	case value.String:
		return starlark.String(t), nil
	case value.List:
		elems := make([]starlark.Value, len(t))
		for i, elem := range t {
			sv, err := toStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			elems[i] = sv
		}
		return starlark.NewList(elems), nil
	case *value.Map:
		dict := starlark.NewDict(t.Len())
		for _, k := range t.Keys() {
			elem, _ := t.Get(k)
			sv, err := toStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
		}
		return dict, nil
	case value.Absent:
		return starlark.None, nil
	}
	return nil, fmt.Errorf("cannot convert %s to starlark", v.Kind())
}

// fromStarlark converts a Starlark result back to a document value.
func fromStarlark(v starlark.Value) (value.Value, error) {
	switch t := v.(type) {
	case starlark.NoneType:
		return value.Null{}, nil
	case starlark.Bool:
		return value.Bool(t), nil
	case starlark.Int:
		i, ok := t.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s overflows int64", t.String())
		}
		return value.Int(i), nil
	case starlark.Float:
		return value.Float(t), nil
	case starlark.String:
		return value.String(t), nil
	case *starlark.List:
		list := make(value.List, t.Len())
		for i := 0; i < t.Len(); i++ {
			elem, err := fromStarlark(t.Index(i))
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = elem
		}
		return list, nil
	case starlark.Tuple:
		list := make(value.List, len(t))
		for i, elem := range t {
			ev, err := fromStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("tuple index %d: %w", i, err)
			}
			list[i] = ev
		}
		return list, nil
	case *starlark.Dict:
		m := value.NewMap()
		for _, item := range t.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("map key %s is not a string", item[0].String())
			}
			elem, err := fromStarlark(item[1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", string(key), err)
			}
			m.Set(string(key), elem)
		}
		return m, nil
	case *starlark.Set:
		list := make(value.List, 0, t.Len())
		iter := t.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for iter.Next(&elem) {
			ev, err := fromStarlark(elem)
			if err != nil {
				return nil, fmt.Errorf("set element: %w", err)
			}
			list = append(list, ev)
		}
		return list, nil
	}
	return nil, fmt.Errorf("cannot convert %s to a document value", v.Type())
}
