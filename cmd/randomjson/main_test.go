// Package main provides tests for the randomjson CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/randomjson/internal/cli"
)

// runCLI executes the root command with the given args and returns the
// combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "randomjson") {
		t.Errorf("version output should contain 'randomjson', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"init", "generate", "preprocess", "functions", "doctor", "repl", "version", "completion"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestGenerateInlineSchema(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "generate", "-E", `{"id": "{{const|1|int}}", "name": "{{const|doc}}"}`)
	if err != nil {
		t.Errorf("generate command error = %v", err)
	}
	// Output to a buffer is not a TTY, so auto mode renders compact
	if output != `{"id":1,"name":"doc"}`+"\n" {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestGenerateSeedIsDeterministic(t *testing.T) {
	t.Chdir(t.TempDir())

	schema := `{"n": ["{{function|rand}}", "{{const|1|int}}", "{{const|1000000|int}}"], "id": ["{{function|uuid}}"]}`
	first, err := runCLI(t, "generate", "-E", schema, "--seed", "42")
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, err := runCLI(t, "generate", "-E", schema, "--seed", "42")
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	// rand is seeded, uuid is not
	if first[:strings.Index(first, `"id"`)] != second[:strings.Index(second, `"id"`)] {
		t.Errorf("seeded runs differ:\n%s\n%s", first, second)
	}
}

func TestGenerateRequestFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	reqPath := filepath.Join(tmpDir, "request.json")
	request := `{"schema": {"greeting": "{{variable|who}}"}, "variables": {"who": "world"}}`
	if err := os.WriteFile(reqPath, []byte(request), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "generate", reqPath)
	if err != nil {
		t.Errorf("generate command error = %v", err)
	}
	if output != `{"greeting":"world"}`+"\n" {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestGenerateYAMLRequestFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	reqPath := filepath.Join(tmpDir, "request.yaml")
	request := "schema:\n  n: \"{{const|7|int}}\"\n"
	if err := os.WriteFile(reqPath, []byte(request), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "generate", reqPath)
	if err != nil {
		t.Errorf("generate command error = %v", err)
	}
	if output != `{"n":7}`+"\n" {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestGenerateVarFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "generate", "-E", `{"user": "{{variable|user}}", "port": "{{variable|port}}"}`,
		"--var", "user=alice", "--var", "port=8080")
	if err != nil {
		t.Errorf("generate command error = %v", err)
	}
	if output != `{"user":"alice","port":8080}`+"\n" {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestGenerateMissingRequest(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "generate")
	if err == nil {
		t.Error("expected error for missing request")
	}
	if !strings.Contains(err.Error(), "missing request") {
		t.Errorf("error should mention missing request, got: %v", err)
	}
}

func TestGenerateOutDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	outDir := filepath.Join(tmpDir, "docs")
	_, err := runCLI(t, "generate", "-E", `{"n": ["{{function|count}}"]}`, "-n", "3", "--out-dir", outDir, "--seed", "7")
	if err != nil {
		t.Fatalf("generate command error = %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 documents, got %d", len(entries))
	}

	// Counters are per-document, so every document starts at 1
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(outDir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(data)) != `{"n":1}` {
			t.Errorf("document %s = %s, want {\"n\":1}", e.Name(), data)
		}
	}
}

func TestPreprocessCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "preprocess", "-E", `{"flag": "{{const|true|bool}}", "who": "{{variable|user}}"}`)
	if err != nil {
		t.Errorf("preprocess command error = %v", err)
	}
	want := `{"flag":{"type":"const","value":true},"who":{"type":"variable","name":"user"}}` + "\n"
	if output != want {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestFunctionsCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "functions")
	if err != nil {
		t.Errorf("functions command error = %v", err)
	}
	for _, name := range []string{"count", "rand", "uuid", "choice"} {
		if !strings.Contains(output, name) {
			t.Errorf("functions output should contain %q, got: %s", name, output)
		}
	}
}

func TestFunctionsJSON(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runCLI(t, "functions", "--json")
	if err != nil {
		t.Errorf("functions --json command error = %v", err)
	}
	if !strings.Contains(output, `"signature"`) {
		t.Errorf("JSON output should contain signature field, got: %s", output)
	}
}

func TestConfigFileSeed(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "randomjson.yaml"), []byte("random_seed: 42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	schema := `{"n": ["{{function|rand}}", "{{const|1|int}}", "{{const|1000000|int}}"]}`
	first, err := runCLI(t, "generate", "-E", schema)
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, err := runCLI(t, "generate", "-E", schema)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if first != second {
		t.Errorf("config-seeded runs differ:\n%s\n%s", first, second)
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "bogus")
	if err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestInitThenDoctorAndGenerate(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := runCLI(t, "init", "--example"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if out, err := runCLI(t, "doctor"); err != nil {
		t.Errorf("doctor error = %v, output: %s", err, out)
	}

	output, err := runCLI(t, "generate", filepath.Join("schemas", "users.json"))
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	if !strings.Contains(output, `"name":"ADA"`) {
		t.Errorf("generated document should contain shouted name, got: %s", output)
	}
}
