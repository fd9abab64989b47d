package funcs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// formatValue renders {} placeholders in the first argument. Fields
// may be empty (automatic numbering), a decimal index into the
// remaining positional arguments, or a name resolved from kwargs.
// Doubled braces escape. Conversion and spec suffixes (":" and "!")
// are not supported.
func formatValue(args []value.Value, kwargs []value.Kwarg) (value.Value, error) {
	if len(args) == 0 {
		return nil, errors.New("format needs a format string")
	}
	f, ok := args[0].(value.String)
	if !ok {
		return nil, fmt.Errorf("format string must be a string, got %s", args[0].Kind())
	}
	named := make(map[string]value.Value, len(kwargs))
	for _, kw := range kwargs {
		named[kw.Name] = kw.Value
	}
	out, err := formatString(string(f), args[1:], named)
	if err != nil {
		return nil, err
	}
	return value.String(out), nil
}

func formatString(f string, args []value.Value, named map[string]value.Value) (string, error) {
	var sb strings.Builder
	auto := 0
	manual := false
	autoUsed := false
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case '{':
			if i+1 < len(f) && f[i+1] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(f[i+1:], '}')
			if end < 0 {
				return "", errors.New("single '{' in format string")
			}
			field := f[i+1 : i+1+end]
			i += end + 1
			if strings.ContainsAny(field, ":!") {
				return "", fmt.Errorf("format spec %q is not supported", field)
			}
			v, err := resolveField(field, args, named, &auto, &manual, &autoUsed)
			if err != nil {
				return "", err
			}
			sb.WriteString(v.String())
		case '}':
			if i+1 < len(f) && f[i+1] == '}' {
				sb.WriteByte('}')
				i++
				continue
			}
			return "", errors.New("single '}' in format string")
		default:
			sb.WriteByte(f[i])
		}
	}
	return sb.String(), nil
}

func resolveField(field string, args []value.Value, named map[string]value.Value, auto *int, manual, autoUsed *bool) (value.Value, error) {
	if field == "" {
		if *manual {
			return nil, errors.New("cannot mix automatic and manual field numbering")
		}
		*autoUsed = true
		if *auto >= len(args) {
			return nil, fmt.Errorf("format index %d out of range", *auto)
		}
		v := args[*auto]
		*auto++
		return v, nil
	}
	if idx, err := strconv.Atoi(field); err == nil && idx >= 0 {
		if *autoUsed {
			return nil, errors.New("cannot mix automatic and manual field numbering")
		}
		*manual = true
		if idx >= len(args) {
			return nil, fmt.Errorf("format index %d out of range", idx)
		}
		return args[idx], nil
	}
	v, ok := named[field]
	if !ok {
		return nil, fmt.Errorf("format field %q is not defined", field)
	}
	return v, nil
}
