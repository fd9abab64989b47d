package funcs

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// eqValues is true when every adjacent pair of arguments is equal.
func eqValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	if err := noKwargs(kwargs); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, errors.New("require 2 arguments to compare")
	}
	for i := 0; i < len(args)-1; i++ {
		if !value.Equal(args[i], args[i+1]) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

// neValues is true when every adjacent pair of arguments differs.
func neValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	if err := noKwargs(kwargs); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, errors.New("require 2 arguments to compare")
	}
	for i := 0; i < len(args)-1; i++ {
		if value.Equal(args[i], args[i+1]) {
			return value.Bool(false), nil
		}
	}
	return value.Bool(true), nil
}

func orderValues(args []value.Value, kwargs []value.Kwarg) (int, error) {
	bound, err := bindArgs(args, kwargs, []string{"left", "right"}, nil)
	if err != nil {
		return 0, err
	}
	return value.Compare(bound[0], bound[1])
}

func gtValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	c, err := orderValues(args, kwargs)
	if err != nil {
		return nil, err
	}
	return value.Bool(c > 0), nil
}

func geValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	c, err := orderValues(args, kwargs)
	if err != nil {
		return nil, err
	}
	return value.Bool(c >= 0), nil
}

func ltValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	c, err := orderValues(args, kwargs)
	if err != nil {
		return nil, err
	}
	return value.Bool(c < 0), nil
}

func leValues(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	c, err := orderValues(args, kwargs)
	if err != nil {
		return nil, err
	}
	return value.Bool(c <= 0), nil
}

// lenValue counts characters of a string or entries of a container.
func lenValue(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"value"}, nil)
	if err != nil {
		return nil, err
	}
	switch t := bound[0].(type) {
	case value.String:
		return value.Int(utf8.RuneCountInString(string(t))), nil
	case value.List:
		return value.Int(len(t)), nil
	case *value.Map:
		return value.Int(t.Len()), nil
	}
	return nil, fmt.Errorf("cannot take len of %s", bound[0].Kind())
}

// castValue converts a value to the named type.
func castValue(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	bound, err := bindArgs(args, kwargs, []string{"value", "typ"}, nil)
	if err != nil {
		return nil, err
	}
	typ, ok := bound[1].(value.String)
	if !ok {
		return nil, fmt.Errorf("cast type must be a string, got %s", bound[1].Kind())
	}
	return value.Coerce(bound[0], string(typ))
}
