package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/randomjson/internal/cli/config"
	"github.com/leapstack-labs/randomjson/internal/cli/output"
	clitest "github.com/leapstack-labs/randomjson/internal/cli/testutil"
	"github.com/leapstack-labs/randomjson/internal/testutil"
	"github.com/leapstack-labs/randomjson/pkg/generator"
	"github.com/leapstack-labs/randomjson/pkg/value"
)

// testContext builds a CommandContext with buffered output for exercising
// command internals directly.
func testContext(t *testing.T) (*CommandContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	tr := clitest.NewTestRendererAuto()
	cc := &CommandContext{
		Cfg:      &config.Config{RandomSeed: config.DefaultSeed, OutputFormat: config.DefaultOutput},
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	}
	return cc, tr.Out, tr.ErrOut
}

func schemaRequest(t *testing.T, schema string) *generator.Request {
	t.Helper()
	raw, err := value.DecodeJSON([]byte(schema))
	require.NoError(t, err)
	return &generator.Request{Schema: raw}
}

func TestRunGenerateRejectsOutConflict(t *testing.T) {
	cmd := NewGenerateCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-E", `{"a": {"type": "const", "value": 1}}`, "--out", "a.json", "--out-dir", "docs"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot combine --out and --out-dir")
}

func TestRunGenerateRejectsZeroCount(t *testing.T) {
	cmd := NewGenerateCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"-E", `{"a": {"type": "const", "value": 1}}`, "-n", "0"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count must be at least 1")
}

func TestGenerateBatchSeedsPerDocument(t *testing.T) {
	cc, _, _ := testContext(t)
	req := schemaRequest(t, `{"n": ["{{function|count}}"]}`)

	docs, err := generateBatch(context.Background(), cc, req, 42, 4)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	// Every document has its own generator, so counters restart at 1
	for _, doc := range docs {
		data, err := value.EncodeJSON(doc)
		require.NoError(t, err)
		assert.Equal(t, `{"n":1}`, string(data))
	}
}

func TestGenerateBatchIsReproducible(t *testing.T) {
	cc, _, _ := testContext(t)
	req := schemaRequest(t, `{"n": ["{{function|rand}}", "{{const|1|int}}", "{{const|1000000|int}}"]}`)

	first, err := generateBatch(context.Background(), cc, req, 7, 8)
	require.NoError(t, err)
	second, err := generateBatch(context.Background(), cc, req, 7, 8)
	require.NoError(t, err)

	for i := range first {
		a, err := value.EncodeJSON(first[i])
		require.NoError(t, err)
		b, err := value.EncodeJSON(second[i])
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "document %d", i)
	}
}

func TestGenerateBatchReportsDocumentIndex(t *testing.T) {
	cc, _, _ := testContext(t)
	req := schemaRequest(t, `{"n": ["{{function|nosuch}}"]}`)

	_, err := generateBatch(context.Background(), cc, req, 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document ")
	assert.Contains(t, err.Error(), "nosuch")
}

func TestEncodeDocument(t *testing.T) {
	doc := value.List{value.Int(1), value.Int(2)}

	compact, err := encodeDocument(output.ModeCompact, doc)
	require.NoError(t, err)
	assert.Equal(t, "[1,2]\n", string(compact))

	pretty, err := encodeDocument(output.ModePretty, doc)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1,\n  2\n]\n", string(pretty))
}

func TestWriteSingleToRenderer(t *testing.T) {
	cc, out, _ := testContext(t)
	m := value.NewMap()
	m.Set("ok", value.Bool(true))

	require.NoError(t, writeSingle(cc, "", m))
	assert.Equal(t, `{"ok":true}`+"\n", out.String())
}
