package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/randomjson/internal/cli/config"
	"github.com/leapstack-labs/randomjson/pkg/generator"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

// loadRequest builds a generation request from a request file (or stdin
// when path is "-"), or from an inline schema expression. Exactly one
// source must be given.
func loadRequest(cmd *cobra.Command, path, expr string) (*generator.Request, error) {
	if expr != "" {
		if path != "" {
			return nil, errors.New("cannot combine an inline schema with a request file")
		}
		schema, err := value.DecodeJSON([]byte(expr))
		if err != nil {
			return nil, fmt.Errorf("decode inline schema: %w", err)
		}
		return &generator.Request{Schema: schema}, nil
	}
	if path == "" {
		return nil, errors.New("missing request: pass a file path, - for stdin, or --expr")
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", path, err)
	}

	raw, err := decodeRequestData(path, data)
	if err != nil {
		return nil, fmt.Errorf("decode request %s: %w", path, err)
	}
	return generator.ParseRequest(raw)
}

// decodeRequestData picks the codec by file extension. Stdin has no
// extension, so it tries JSON first and falls back to YAML.
func decodeRequestData(name string, data []byte) (value.Value, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return value.DecodeYAML(data)
	}
	if name == "-" {
		if v, err := value.DecodeJSON(data); err == nil {
			return v, nil
		}
		return value.DecodeYAML(data)
	}
	return value.DecodeJSON(data)
}

// applyVars merges name=value bindings into the request's variables,
// overriding any of the same name from the request itself. Values parse
// as JSON where possible and fall back to plain strings.
func applyVars(req *generator.Request, vars []string) error {
	if len(vars) == 0 {
		return nil
	}
	if req.Variables == nil {
		req.Variables = value.NewMap()
	}
	for _, binding := range vars {
		name, raw, ok := strings.Cut(binding, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid variable binding %q, want name=value", binding)
		}
		v, err := value.DecodeJSON([]byte(raw))
		if err != nil {
			v = value.String(raw)
		}
		req.Variables.Set(name, v)
	}
	return nil
}

// readFunctionSources loads Starlark sources from files.
func readFunctionSources(paths []string) ([]string, error) {
	sources := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read function file %s: %w", path, err)
		}
		sources = append(sources, string(data))
	}
	return sources, nil
}

// prependConfigFunctions loads the configured Starlark files and places
// their sources ahead of the request's own, so request fragments can
// call names the shared files define.
func prependConfigFunctions(cfg *config.Config, req *generator.Request) error {
	if len(cfg.Functions) == 0 {
		return nil
	}
	sources, err := readFunctionSources(cfg.Functions)
	if err != nil {
		return err
	}
	req.Functions = append(sources, req.Functions...)
	return nil
}
