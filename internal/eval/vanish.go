package eval

import "github.com/leapstack-labs/randomjson/pkg/value"

// Vanish prunes absent values bottom-up: list elements and map entries
// holding an absent value disappear, then the survivors are pruned
// recursively. Scalars pass through. The result contains no absent value,
// so running Vanish again is a no-op.
func Vanish(v value.Value) value.Value {
	switch t := v.(type) {
	case value.List:
		out := make(value.List, 0, len(t))
		for _, elem := range t {
			if _, gone := elem.(value.Absent); gone {
				continue
			}
			out = append(out, Vanish(elem))
		}
		return out
	case *value.Map:
		out := value.NewMap()
		for _, k := range t.Keys() {
			elem, _ := t.Get(k)
			if _, gone := elem.(value.Absent); gone {
				continue
			}
			out.Set(k, Vanish(elem))
		}
		return out
	default:
		return v
	}
}
