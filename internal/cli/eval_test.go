package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "defs.yaml", yamlDefs)
	return dir
}

func runEvalCommand(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewEvalCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestEval_SingleGroup(t *testing.T) {
	buf, err := runEvalCommand(t, "text", defsDir(t), "--query", "otto")

	require.NoError(t, err)
	assert.Equal(t, "otto: [0] (1 indices)\n", buf.String())
}

func TestEval_RangeGroup(t *testing.T) {
	buf, err := runEvalCommand(t, "text", defsDir(t), "--query", "span")

	require.NoError(t, err)
	assert.Equal(t, "span: [0 1 2] (3 indices)\n", buf.String())
}

func TestEval_ListGroupCollapsesDuplicates(t *testing.T) {
	buf, err := runEvalCommand(t, "text", defsDir(t), "--query", "all")

	require.NoError(t, err)
	// Two "otto" references collapse via set union: 4 indices, not 5.
	assert.Equal(t, "all: [0 1 2 3] (4 indices)\n", buf.String())
}

func TestEval_AllGroupsGolden(t *testing.T) {
	buf, err := runEvalCommand(t, "text", defsDir(t), "--all")

	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "eval_all", buf.Bytes())
}

func TestEval_JSON(t *testing.T) {
	buf, err := runEvalCommand(t, "json", defsDir(t), "--query", "span")

	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	results, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	res := results[0].(map[string]any)
	assert.Equal(t, "span", res["group"])
	assert.Equal(t, float64(3), res["size"])
}

func TestEval_UnknownGroup(t *testing.T) {
	buf, err := runEvalCommand(t, "text", defsDir(t), "--query", "nope")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "UNKNOWN_GROUP")
}

func TestEval_MissingQueryFlag(t *testing.T) {
	_, err := runEvalCommand(t, "text", defsDir(t))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEval_EvaluationFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defs.yaml", `identifiers:
  0: 3
  64: 0
groups:
  inverted:
    range: {first: 0, last: 64}
`)

	buf, err := runEvalCommand(t, "text", dir, "--query", "inverted")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "INVALID_RANGE")
}

func TestEval_DanglingGroupReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defs.yaml", `identifiers:
  0: 0
groups:
  dangling:
    group: missing
`)

	buf, err := runEvalCommand(t, "text", dir, "--query", "dangling")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "UNKNOWN_GROUP")
}

func TestEval_NonExistentDirectory(t *testing.T) {
	_, err := runEvalCommand(t, "text", "/nonexistent/path", "--query", "otto")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
