package generator

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// Request is one generation job.
type Request struct {
	// Schema is the raw schema before preprocessing. Its root must be
	// a map unless PreprocessOnly is set.
	Schema value.Value

	// Variables binds names resolvable by variable nodes.
	Variables *value.Map

	// Functions holds source fragments for the provider, executed in
	// order into one shared namespace.
	Functions []string

	// PreprocessOnly stops the pipeline after macro expansion.
	PreprocessOnly bool
}

// ParseRequest reads a decoded request document. Unknown fields are
// rejected. The fields "statements" and "only_preprocessor" are
// accepted as legacy spellings of "functions" and "preprocess_only";
// giving a field under both names is an error.
func ParseRequest(raw value.Value) (*Request, error) {
	m, ok := raw.(*value.Map)
	if !ok {
		return nil, fmt.Errorf("request must be a map, got %s", raw.Kind())
	}

	req := &Request{}
	haveFunctions := false
	havePreprocessOnly := false
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		switch key {
		case "schema":
			req.Schema = v
		case "variables":
			vm, ok := v.(*value.Map)
			if !ok {
				return nil, fmt.Errorf("variables must be a map, got %s", v.Kind())
			}
			req.Variables = vm
		case "functions", "statements":
			if haveFunctions {
				return nil, errors.New("functions and statements are mutually exclusive")
			}
			haveFunctions = true
			list, ok := v.(value.List)
			if !ok {
				return nil, fmt.Errorf("%s must be a list, got %s", key, v.Kind())
			}
			for i, elem := range list {
				s, ok := elem.(value.String)
				if !ok {
					return nil, fmt.Errorf("%s[%d] must be a string, got %s", key, i, elem.Kind())
				}
				req.Functions = append(req.Functions, string(s))
			}
		case "preprocess_only", "only_preprocessor":
			if havePreprocessOnly {
				return nil, errors.New("preprocess_only and only_preprocessor are mutually exclusive")
			}
			havePreprocessOnly = true
			b, ok := v.(value.Bool)
			if !ok {
				return nil, fmt.Errorf("%s must be a bool, got %s", key, v.Kind())
			}
			req.PreprocessOnly = bool(b)
		default:
			return nil, fmt.Errorf("unknown request field %q", key)
		}
	}
	if req.Schema == nil {
		return nil, errors.New("request is missing schema")
	}
	return req, nil
}
