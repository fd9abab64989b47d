package funcs

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

type builtinFunc func(args []value.Value, kwargs []value.Kwarg) (value.Value, error)

// Builtin is a host implemented function with registry metadata.
type Builtin struct {
	name      string
	signature string
	group     string
	doc       string
	fn        builtinFunc
}

func (b *Builtin) Name() string      { return b.name }
func (b *Builtin) Signature() string { return b.signature }
func (b *Builtin) Group() string     { return b.group }
func (b *Builtin) Doc() string       { return b.doc }

func (b *Builtin) Call(_ context.Context, args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	return b.fn(args, kwargs)
}

// NewBuiltins returns a fresh builtin set drawing randomness from rng.
// Counter state lives inside the set, so two sets never share counts.
// The set is not safe for concurrent use; give each generator its own.
func NewBuiltins(rng *rand.Rand) []*Builtin {
	counters := make(map[string]value.Value)
	return []*Builtin{
		{name: "count", signature: `count(delta=1, key="default")`, group: "counter", doc: "Add delta to a named counter and return the new total.", fn: countFn(counters)},
		{name: "add", signature: "add(*values)", group: "arithmetic", doc: "Sum numbers, concatenate strings or lists, merge maps, or OR bools.", fn: addValues},
		{name: "sub", signature: "sub(left, right)", group: "arithmetic", doc: "Subtract right from left.", fn: subValues},
		{name: "mul", signature: "mul(*values)", group: "arithmetic", doc: "Multiply numbers, or AND the truthiness of bools.", fn: mulValues},
		{name: "div", signature: "div(left, right)", group: "arithmetic", doc: "Divide left by right; the result is always a float.", fn: divValues},
		{name: "mod", signature: "mod(left, right)", group: "arithmetic", doc: "Remainder of left divided by right, signed like the divisor.", fn: modValues},
		{name: "pow", signature: "pow(left, right)", group: "arithmetic", doc: "Raise left to the power right.", fn: powValues},
		{name: "cast", signature: "cast(value, typ)", group: "conversion", doc: "Convert a value to the named type.", fn: castValue},
		{name: "neg", signature: "neg(value)", group: "arithmetic", doc: "Negate a number or invert a bool.", fn: negValue},
		{name: "format", signature: "format(fmt, *args, **kwargs)", group: "conversion", doc: "Render {} placeholders with the remaining arguments.", fn: formatValue},
		{name: "len", signature: "len(value)", group: "conversion", doc: "Count characters of a string or entries of a container.", fn: lenValue},
		{name: "eq", signature: "eq(*values)", group: "comparison", doc: "True when all arguments are equal.", fn: eqValues},
		{name: "ne", signature: "ne(*values)", group: "comparison", doc: "True when adjacent arguments differ.", fn: neValues},
		{name: "gt", signature: "gt(left, right)", group: "comparison", doc: "True when left is greater than right.", fn: gtValues},
		{name: "ge", signature: "ge(left, right)", group: "comparison", doc: "True when left is at least right.", fn: geValues},
		{name: "lt", signature: "lt(left, right)", group: "comparison", doc: "True when left is less than right.", fn: ltValues},
		{name: "le", signature: "le(left, right)", group: "comparison", doc: "True when left is at most right.", fn: leValues},
		{name: "copy", signature: "copy(value, amount)", group: "collection", doc: "Repeat a value amount times into a list.", fn: copyValue},
		{name: "choice", signature: "choice(population, k=1)", group: "collection", doc: "Pick k elements with replacement.", fn: choiceFn(rng)},
		{name: "sample", signature: "sample(population, k=1)", group: "collection", doc: "Pick k distinct elements without replacement.", fn: sampleFn(rng)},
		{name: "rand", signature: "rand(*bounds)", group: "random", doc: "Random int or float, optionally bounded.", fn: randFn(rng)},
		{name: "uuid", signature: "uuid()", group: "random", doc: "Random UUIDv4 string.", fn: uuidValue},
	}
}

// bindArgs resolves positional and keyword arguments against the
// parameter names, with defaults aligned to the tail of names.
func bindArgs(args []value.Value, kwargs []value.Kwarg, names []string, defaults []value.Value) ([]value.Value, error) {
	if len(args) > len(names) {
		return nil, fmt.Errorf("expected at most %d arguments, got %d", len(names), len(args))
	}
	bound := make([]value.Value, len(names))
	set := make([]bool, len(names))
	for i, arg := range args {
		bound[i] = arg
		set[i] = true
	}
	for _, kw := range kwargs {
		idx := -1
		for i, name := range names {
			if name == kw.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("unexpected keyword argument %q", kw.Name)
		}
		if set[idx] {
			return nil, fmt.Errorf("got multiple values for argument %q", kw.Name)
		}
		bound[idx] = kw.Value
		set[idx] = true
	}
	for i := range names {
		if set[i] {
			continue
		}
		di := i - (len(names) - len(defaults))
		if di < 0 {
			return nil, fmt.Errorf("missing argument %q", names[i])
		}
		bound[i] = defaults[di]
	}
	return bound, nil
}

func noKwargs(kwargs []value.Kwarg) error {
	if len(kwargs) > 0 {
		return fmt.Errorf("unexpected keyword argument %q", kwargs[0].Name)
	}
	return nil
}

// elementsOf views a list as itself and a string as its characters.
func elementsOf(v value.Value) ([]value.Value, error) {
	switch t := v.(type) {
	case value.List:
		return t, nil
	case value.String:
		elems := make([]value.Value, 0, len(t))
		for _, r := range string(t) {
			elems = append(elems, value.String(string(r)))
		}
		return elems, nil
	}
	return nil, fmt.Errorf("%s is not a sequence", v.Kind())
}

func countFn(counters map[string]value.Value) builtinFunc {
	return func(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
		bound, err := bindArgs(args, kwargs, []string{"delta", "key"}, []value.Value{value.Int(1), value.String("default")})
		if err != nil {
			return nil, err
		}
		key, ok := bound[1].(value.String)
		if !ok {
			return nil, fmt.Errorf("count key must be a string, got %s", bound[1].Kind())
		}
		switch bound[0].(type) {
		case value.Int, value.Float:
		default:
			return nil, fmt.Errorf("cannot count by %s", bound[0].Kind())
		}
		cur, ok := counters[string(key)]
		if !ok {
			cur = value.Int(0)
		}
		next, err := sumNumeric([]value.Value{cur, bound[0]})
		if err != nil {
			return nil, err
		}
		counters[string(key)] = next
		return next, nil
	}
}

func copyValue(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"value", "amount"}, nil)
	if err != nil {
		return nil, err
	}
	n, ok := bound[1].(value.Int)
	if !ok {
		return nil, fmt.Errorf("copy amount must be an int, got %s", bound[1].Kind())
	}
	out := value.List{}
	for i := int64(0); i < int64(n); i++ {
		out = append(out, bound[0])
	}
	return out, nil
}

func choiceFn(rng *rand.Rand) builtinFunc {
	return func(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
		bound, err := bindArgs(args, kwargs, []string{"population", "k"}, []value.Value{value.Int(1)})
		if err != nil {
			return nil, err
		}
		pop, err := elementsOf(bound[0])
		if err != nil {
			return nil, err
		}
		k, ok := bound[1].(value.Int)
		if !ok {
			return nil, fmt.Errorf("choice k must be an int, got %s", bound[1].Kind())
		}
		out := value.List{}
		if k <= 0 {
			return out, nil
		}
		if len(pop) == 0 {
			return nil, errors.New("cannot choose from an empty population")
		}
		for i := int64(0); i < int64(k); i++ {
			out = append(out, pop[rng.IntN(len(pop))])
		}
		return out, nil
	}
}

func sampleFn(rng *rand.Rand) builtinFunc {
	return func(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
		bound, err := bindArgs(args, kwargs, []string{"population", "k"}, []value.Value{value.Int(1)})
		if err != nil {
			return nil, err
		}
		pop, err := elementsOf(bound[0])
		if err != nil {
			return nil, err
		}
		k, ok := bound[1].(value.Int)
		if !ok {
			return nil, fmt.Errorf("sample k must be an int, got %s", bound[1].Kind())
		}
		if k < 0 || int(k) > len(pop) {
			return nil, errors.New("sample larger than population or negative")
		}
		out := make(value.List, int(k))
		for i, j := range rng.Perm(len(pop))[:int(k)] {
			out[i] = pop[j]
		}
		return out, nil
	}
}

func randFn(rng *rand.Rand) builtinFunc {
	return func(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
		if err := noKwargs(kwargs); err != nil {
			return nil, err
		}
		switch len(args) {
		case 0:
			return value.Float(rng.Float64()), nil
		case 1, 2:
		default:
			return nil, fmt.Errorf("rand %d arguments unsupported", len(args))
		}
		switch first := args[0].(type) {
		case value.Int:
			lo, hi := value.Int(0), first
			if len(args) == 2 {
				second, ok := args[1].(value.Int)
				if !ok {
					return nil, fmt.Errorf("rand bounds must both be ints, got %s", args[1].Kind())
				}
				lo, hi = first, second
			}
			if hi < lo {
				return nil, fmt.Errorf("rand empty range [%d, %d]", int64(lo), int64(hi))
			}
			// Both bounds are inclusive. A span of 0 means the whole
			// int64 range.
			span := uint64(int64(hi)) - uint64(int64(lo)) + 1
			if span == 0 {
				return value.Int(rng.Uint64()), nil
			}
			return lo + value.Int(rng.Uint64N(span)), nil
		case value.Float:
			a, b := 0.0, float64(first)
			if len(args) == 2 {
				bf, err := asFloat("rand", args[1])
				if err != nil {
					return nil, err
				}
				a, b = float64(first), bf
			}
			return value.Float(a + rng.Float64()*(b-a)), nil
		}
		return nil, fmt.Errorf("cannot generate rand from %s", args[0].Kind())
	}
}

func uuidValue(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	if err := noKwargs(kwargs); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("uuid takes no arguments, got %d", len(args))
	}
	return value.String(uuid.NewString()), nil
}
