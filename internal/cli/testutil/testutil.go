// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/leapstack-labs/randomjson/internal/cli/output"
)

// SetupTestProject creates a temporary schema project: a config file
// pinning the seed, a request document, and a Starlark function library.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	// Create directories
	dirs := []string{
		filepath.Join(tmpDir, "schemas"),
		filepath.Join(tmpDir, "lib"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}

	// Create config file
	config := `random_seed: 7
output: compact
functions:
  - lib/helpers.star
`
	if err := os.WriteFile(filepath.Join(tmpDir, "randomjson.yaml"),
		[]byte(config), 0644); err != nil {
		t.Fatalf("failed to create randomjson.yaml: %v", err)
	}

	// Create request document
	request := `{
  "schema": {
    "users": [
      "{{repeat}}",
      "{{const|2|int}}",
      {
        "id": ["{{function|count}}"],
        "name": ["{{function|shout}}", "{{variable|name}}"]
      }
    ]
  },
  "variables": {"name": "ada"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, "schemas", "users.json"),
		[]byte(request), 0644); err != nil {
		t.Fatalf("failed to create users.json: %v", err)
	}

	// Create function library
	helpers := `def shout(s):
    return s.upper()
`
	if err := os.WriteFile(filepath.Join(tmpDir, "lib", "helpers.star"),
		[]byte(helpers), 0644); err != nil {
		t.Fatalf("failed to create helpers.star: %v", err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the given mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to compact output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererPretty creates a new test renderer in pretty mode.
func NewTestRendererPretty() *TestRenderer {
	return NewTestRenderer(output.ModePretty, false)
}

// NewTestRendererCompact creates a new test renderer in compact mode.
func NewTestRendererCompact() *TestRenderer {
	return NewTestRenderer(output.ModeCompact, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertNotContains checks that the string does not contain the substring.
func AssertNotContains(t *testing.T, s, unexpected string) {
	t.Helper()
	if strings.Contains(s, unexpected) {
		t.Errorf("string %q unexpectedly contains %q", s, unexpected)
	}
}

// AssertJSONDocuments checks that every non-empty line of s is a valid
// JSON document, the shape generate emits in compact mode.
func AssertJSONDocuments(t *testing.T, s string) {
	t.Helper()

	for i, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !json.Valid([]byte(line)) {
			t.Errorf("line %d is not valid JSON: %q", i+1, line)
		}
	}
}
