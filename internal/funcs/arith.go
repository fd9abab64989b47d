package funcs

import (
	"errors"
	"fmt"
	"math"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// addValues dispatches on the first argument. Bool arguments OR their
// truthiness, numbers sum, strings and lists concatenate, and maps
// merge with the rightmost value winning per key.
func addValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	if err := noKwargs(kwargs); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("cannot add empty")
	}
	switch first := args[0].(type) {
	case value.Bool:
		for _, arg := range args {
			if value.Truthy(arg) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.Int, value.Float:
		return sumNumeric(args)
	case value.String:
		out := string(first)
		for _, arg := range args[1:] {
			s, ok := arg.(value.String)
			if !ok {
				return nil, fmt.Errorf("cannot add %s to a string", arg.Kind())
			}
			out += string(s)
		}
		return value.String(out), nil
	case value.List:
		out := append(value.List{}, first...)
		for _, arg := range args[1:] {
			l, ok := arg.(value.List)
			if !ok {
				return nil, fmt.Errorf("cannot add %s to a list", arg.Kind())
			}
			out = append(out, l...)
		}
		return out, nil
	case *value.Map:
		out := value.NewMap()
		for _, arg := range args {
			m, ok := arg.(*value.Map)
			if !ok {
				return nil, fmt.Errorf("cannot add %s to a map", arg.Kind())
			}
			for _, k := range m.Keys() {
				mv, _ := m.Get(k)
				out.Set(k, mv)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot add %s", args[0].Kind())
}

func sumNumeric(args []value.Value) (value.Value, error) {
	var isum int64
	var fsum float64
	isFloat := false
	for _, arg := range args {
		switch t := arg.(type) {
		case value.Int:
			if isFloat {
				fsum += float64(t)
			} else {
				isum += int64(t)
			}
		case value.Float:
			if !isFloat {
				isFloat = true
				fsum = float64(isum)
			}
			fsum += float64(t)
		default:
			return nil, fmt.Errorf("cannot add %s to a number", arg.Kind())
		}
	}
	if isFloat {
		return value.Float(fsum), nil
	}
	return value.Int(isum), nil
}

// subValues subtracts right from left. A bool left yields left AND NOT
// truthy(right).
func subValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"left", "right"}, nil)
	if err != nil {
		return nil, err
	}
	left, right := bound[0], bound[1]
	switch l := left.(type) {
	case value.Bool:
		return value.Bool(bool(l) && !value.Truthy(right)), nil
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return l - r, nil
		case value.Float:
			return value.Float(float64(l)) - r, nil
		}
	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return l - value.Float(r), nil
		case value.Float:
			return l - r, nil
		}
	default:
		return nil, fmt.Errorf("cannot sub %s", left.Kind())
	}
	return nil, fmt.Errorf("cannot sub %s from %s", right.Kind(), left.Kind())
}

// mulValues products its arguments. A bool first argument ANDs the
// truthiness of all arguments instead.
func mulValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	if err := noKwargs(kwargs); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("cannot mul empty")
	}
	if _, ok := args[0].(value.Bool); ok {
		for _, arg := range args {
			if !value.Truthy(arg) {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	}
	iprod := int64(1)
	fprod := 1.0
	isFloat := false
	for _, arg := range args {
		switch t := arg.(type) {
		case value.Int:
			if isFloat {
				fprod *= float64(t)
			} else {
				iprod *= int64(t)
			}
		case value.Float:
			if !isFloat {
				isFloat = true
				fprod = float64(iprod)
			}
			fprod *= float64(t)
		default:
			return nil, fmt.Errorf("cannot mul %s", arg.Kind())
		}
	}
	if isFloat {
		return value.Float(fprod), nil
	}
	return value.Int(iprod), nil
}

// divValues is true division: the result is always a float.
func divValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"left", "right"}, nil)
	if err != nil {
		return nil, err
	}
	lf, err := asFloat("div", bound[0])
	if err != nil {
		return nil, err
	}
	rf, err := asFloat("div", bound[1])
	if err != nil {
		return nil, err
	}
	if rf == 0 {
		return nil, errors.New("division by zero")
	}
	return value.Float(lf / rf), nil
}

// modValues computes the remainder with the sign of the divisor.
func modValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"left", "right"}, nil)
	if err != nil {
		return nil, err
	}
	l, lok := bound[0].(value.Int)
	r, rok := bound[1].(value.Int)
	if lok && rok {
		if r == 0 {
			return nil, errors.New("division by zero")
		}
		m := l % r
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return m, nil
	}
	lf, err := asFloat("mod", bound[0])
	if err != nil {
		return nil, err
	}
	rf, err := asFloat("mod", bound[1])
	if err != nil {
		return nil, err
	}
	if rf == 0 {
		return nil, errors.New("division by zero")
	}
	m := math.Mod(lf, rf)
	if m != 0 && (m < 0) != (rf < 0) {
		m += rf
	}
	return value.Float(m), nil
}

// powValues raises left to right. Two ints with a non-negative
// exponent stay an int; everything else goes through float math.
func powValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"left", "right"}, nil)
	if err != nil {
		return nil, err
	}
	if l, lok := bound[0].(value.Int); lok {
		if r, rok := bound[1].(value.Int); rok && r >= 0 {
			return ipow(int64(l), int64(r))
		}
	}
	lf, err := asFloat("pow", bound[0])
	if err != nil {
		return nil, err
	}
	rf, err := asFloat("pow", bound[1])
	if err != nil {
		return nil, err
	}
	res := math.Pow(lf, rf)
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return nil, fmt.Errorf("pow of %s and %s is not a finite number", bound[0], bound[1])
	}
	return value.Float(res), nil
}

func ipow(base, exp int64) (value.Value, error) {
	res := int64(1)
	for i := int64(0); i < exp; i++ {
		prev := res
		res *= base
		if base != 0 && res/base != prev {
			return nil, errors.New("pow overflows int")
		}
	}
	return value.Int(res), nil
}

// negValue negates a number or inverts a bool.
func negValue(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"value"}, nil)
	if err != nil {
		return nil, err
	}
	switch t := bound[0].(type) {
	case value.Bool:
		return !t, nil
	case value.Int:
		return -t, nil
	case value.Float:
		return -t, nil
	}
	return nil, fmt.Errorf("cannot neg %s", bound[0].Kind())
}

func asFloat(op string, v value.Value) (float64, error) {
	switch t := v.(type) {
	case value.Int:
		return float64(t), nil
	case value.Float:
		return float64(t), nil
	}
	return 0, fmt.Errorf("cannot %s %s, want a number", op, v.Kind())
}
