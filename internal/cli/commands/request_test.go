package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/randomjson/internal/cli/config"
	"github.com/leapstack-labs/randomjson/pkg/generator"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

func TestLoadRequestInlineSchema(t *testing.T) {
	req, err := loadRequest(&cobra.Command{}, "", `{"a": {"type": "const", "value": 1}}`)
	require.NoError(t, err)
	require.NotNil(t, req.Schema)
	assert.Nil(t, req.Variables)
}

func TestLoadRequestRejectsBothSources(t *testing.T) {
	_, err := loadRequest(&cobra.Command{}, "req.json", `{"a": 1}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot combine")
}

func TestLoadRequestMissingSource(t *testing.T) {
	_, err := loadRequest(&cobra.Command{}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing request")
}

func TestLoadRequestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	doc := `{"schema": {"a": {"type": "variable", "name": "x"}}, "variables": {"x": 7}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	req, err := loadRequest(&cobra.Command{}, path, "")
	require.NoError(t, err)
	require.NotNil(t, req.Variables)
	v, ok := req.Variables.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Int(7), v)
}

func TestLoadRequestFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	doc := "schema:\n  a:\n    type: const\n    value: hi\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	req, err := loadRequest(&cobra.Command{}, path, "")
	require.NoError(t, err)
	require.NotNil(t, req.Schema)
}

func TestLoadRequestFromStdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(`{"schema": {"a": {"type": "const", "value": 1}}}`))

	req, err := loadRequest(cmd, "-", "")
	require.NoError(t, err)
	require.NotNil(t, req.Schema)
}

func TestLoadRequestUnreadableFile(t *testing.T) {
	_, err := loadRequest(&cobra.Command{}, filepath.Join(t.TempDir(), "absent.json"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read request")
}

func TestLoadRequestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := loadRequest(&cobra.Command{}, path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request")
}

func TestDecodeRequestDataStdinFallsBackToYAML(t *testing.T) {
	raw, err := decodeRequestData("-", []byte("schema:\n  a: 1\n"))
	require.NoError(t, err)
	m, ok := raw.(*value.Map)
	require.True(t, ok)
	assert.True(t, m.Has("schema"))
}

func TestApplyVars(t *testing.T) {
	tests := []struct {
		name    string
		binding string
		want    value.Value
	}{
		{"json int", "n=42", value.Int(42)},
		{"json bool", "b=true", value.Bool(true)},
		{"json string", `q="x"`, value.String("x")},
		{"bare string", "s=hello", value.String("hello")},
		{"equals in value", "a=b=c", value.String("b=c")},
		{"empty value", "e=", value.String("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &generator.Request{}
			require.NoError(t, applyVars(req, []string{tt.binding}))
			name, _, _ := strings.Cut(tt.binding, "=")
			v, ok := req.Variables.Get(name)
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestApplyVarsJSONList(t *testing.T) {
	req := &generator.Request{}
	require.NoError(t, applyVars(req, []string{`colors=["red","green"]`}))
	v, ok := req.Variables.Get("colors")
	require.True(t, ok)
	assert.Equal(t, value.List{value.String("red"), value.String("green")}, v)
}

func TestApplyVarsInvalidBinding(t *testing.T) {
	for _, binding := range []string{"noequals", "=x"} {
		err := applyVars(&generator.Request{}, []string{binding})
		require.Error(t, err, "binding %q", binding)
		assert.Contains(t, err.Error(), "invalid variable binding")
	}
}

func TestApplyVarsOverridesRequestVariables(t *testing.T) {
	req := &generator.Request{Variables: value.NewMap()}
	req.Variables.Set("n", value.Int(1))

	require.NoError(t, applyVars(req, []string{"n=2"}))
	v, _ := req.Variables.Get("n")
	assert.Equal(t, value.Int(2), v)
}

func TestReadFunctionSources(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.star")
	second := filepath.Join(dir, "b.star")
	require.NoError(t, os.WriteFile(first, []byte("def a():\n    return 1\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("def b():\n    return 2\n"), 0644))

	sources, err := readFunctionSources([]string{first, second})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Contains(t, sources[0], "def a")
	assert.Contains(t, sources[1], "def b")
}

func TestReadFunctionSourcesMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.star")
	_, err := readFunctionSources([]string{missing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestPrependConfigFunctions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.star")
	require.NoError(t, os.WriteFile(path, []byte("def lib():\n    return 0\n"), 0644))

	cfg := &config.Config{Functions: []string{path}}
	req := &generator.Request{Functions: []string{"def own():\n    return 1\n"}}
	require.NoError(t, prependConfigFunctions(cfg, req))

	// Config sources compile first so request fragments can call them
	require.Len(t, req.Functions, 2)
	assert.Contains(t, req.Functions[0], "def lib")
	assert.Contains(t, req.Functions[1], "def own")
}
