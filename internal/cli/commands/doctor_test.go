package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func checkByName(checks []HealthCheck, name string) (HealthCheck, bool) {
	for _, c := range checks {
		if c.Name == name {
			return c, true
		}
	}
	return HealthCheck{}, false
}

func TestDoctorChecksHealthyProject(t *testing.T) {
	cc, _, _ := testContext(t)
	dir := t.TempDir()

	starPath := writeProjectFile(t, dir, "lib/helpers.star", "def shout(s):\n    return s.upper()\n")
	writeProjectFile(t, dir, "schemas/users.json",
		`{"schema": {"id": ["{{function|count}}"]}, "variables": {"n": 1}}`)

	cc.Cfg.RandomSeed = 7
	cc.Cfg.Functions = []string{starPath}

	checks := collectDoctorChecks(context.Background(), cc, dir)

	seed, ok := checkByName(checks, "seed")
	require.True(t, ok)
	assert.Equal(t, "pass", seed.Status)
	assert.Equal(t, "pinned to 7", seed.Detail)

	file, ok := checkByName(checks, starPath)
	require.True(t, ok)
	assert.Equal(t, "pass", file.Status)

	compile, ok := checkByName(checks, "compile")
	require.True(t, ok)
	assert.Equal(t, "pass", compile.Status)
	assert.Equal(t, "1 functions", compile.Detail)

	doc, ok := checkByName(checks, filepath.Join(dir, "schemas", "users.json"))
	require.True(t, ok)
	assert.Equal(t, "pass", doc.Status)

	for _, c := range checks {
		assert.NotEqual(t, "fail", c.Status, "check %s: %s", c.Name, c.Detail)
	}
}

func TestDoctorWithoutConfigOrFunctions(t *testing.T) {
	cc, _, _ := testContext(t)
	dir := t.TempDir()

	checks := collectDoctorChecks(context.Background(), cc, dir)

	seed, ok := checkByName(checks, "seed")
	require.True(t, ok)
	assert.Equal(t, "warn", seed.Status)

	fns, ok := checkByName(checks, "function files")
	require.True(t, ok)
	assert.Equal(t, "skip", fns.Status)

	docs, ok := checkByName(checks, "request documents")
	require.True(t, ok)
	assert.Equal(t, "warn", docs.Status)
}

func TestDoctorFlagsMissingFunctionFile(t *testing.T) {
	cc, _, _ := testContext(t)
	dir := t.TempDir()
	cc.Cfg.Functions = []string{filepath.Join(dir, "nope.star")}

	checks := collectDoctorChecks(context.Background(), cc, dir)

	missing, ok := checkByName(checks, filepath.Join(dir, "nope.star"))
	require.True(t, ok)
	assert.Equal(t, "fail", missing.Status)

	_, ok = checkByName(checks, "compile")
	assert.False(t, ok, "compile should not run with unreadable sources")
}

func TestDoctorFlagsBrokenFunctionSource(t *testing.T) {
	cc, _, _ := testContext(t)
	dir := t.TempDir()
	starPath := writeProjectFile(t, dir, "lib/broken.star", "def broken(:\n")
	cc.Cfg.Functions = []string{starPath}

	checks := collectDoctorChecks(context.Background(), cc, dir)

	compile, ok := checkByName(checks, "compile")
	require.True(t, ok)
	assert.Equal(t, "fail", compile.Status)
	assert.NotEmpty(t, compile.Detail)
}

func TestDoctorFlagsUnparseableSchema(t *testing.T) {
	cc, _, _ := testContext(t)
	dir := t.TempDir()

	bad := writeProjectFile(t, dir, "schemas/bad.json", `{"schema": {"a": 1}}`)
	noSchema := writeProjectFile(t, dir, "schemas/empty.json", `{"variables": {}}`)

	checks := collectDoctorChecks(context.Background(), cc, dir)

	badCheck, ok := checkByName(checks, bad)
	require.True(t, ok)
	assert.Equal(t, "fail", badCheck.Status)

	noSchemaCheck, ok := checkByName(checks, noSchema)
	require.True(t, ok)
	assert.Equal(t, "fail", noSchemaCheck.Status)
	assert.Contains(t, noSchemaCheck.Detail, "missing schema")
}

func TestDoctorSkipsPreprocessOnlySchema(t *testing.T) {
	cc, _, _ := testContext(t)
	dir := t.TempDir()

	path := writeProjectFile(t, dir, "expand.json",
		`{"schema": {"a": 1}, "preprocess_only": true}`)

	checks := collectDoctorChecks(context.Background(), cc, dir)

	check, ok := checkByName(checks, path)
	require.True(t, ok)
	assert.Equal(t, "pass", check.Status)
}

func TestDiscoverRequestFiles(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "schemas/users.json", "{}")
	writeProjectFile(t, dir, "top.yml", "")
	writeProjectFile(t, dir, "lib/helpers.star", "")
	writeProjectFile(t, dir, "randomjson.yaml", "")
	writeProjectFile(t, dir, ".git/objects/x.json", "{}")
	writeProjectFile(t, dir, "_build/y.yaml", "")

	files, err := discoverRequestFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "schemas", "users.json"),
		filepath.Join(dir, "top.yml"),
	}, files)
}

func TestRunDoctorReportsProblems(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "schemas/bad.json", `{"schema": {"a": 1}}`)

	cmd := NewDoctorCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problems found")
}

func TestRunDoctorJSONReport(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, "schemas/ok.json",
		`{"schema": {"id": ["{{function|uuid}}"]}}`)

	cmd := NewDoctorCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir, "--json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"checks"`)
	assert.Contains(t, out.String(), `"problems": 0`)
}

func TestNewDoctorCommandMetadata(t *testing.T) {
	cmd := NewDoctorCommand()
	assert.Equal(t, "doctor [directory]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("json"))
}
