package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateCommand(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestValidate_ValidDefs(t *testing.T) {
	buf, err := runValidateCommand(t, "text", defsDir(t))

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ All queries valid (3 groups)")
}

func TestValidate_ValidDefsJSON(t *testing.T) {
	buf, err := runValidateCommand(t, "json", defsDir(t))

	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	report := resp.Data.(map[string]any)
	assert.Equal(t, true, report["valid"])
	assert.Equal(t, float64(3), report["groups"])
}

func TestValidate_StructurallyInvalidQuery(t *testing.T) {
	dir := t.TempDir()
	// An empty intersection decodes but has no universe set.
	writeFile(t, dir, "defs.yaml", `identifiers:
  0: 0
groups:
  empty:
    intersect: []
`)

	buf, err := runValidateCommand(t, "text", dir)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗ empty:")
	assert.Contains(t, buf.String(), "intersection of zero queries")
}

func TestValidate_LoadErrorsReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defs.yaml", "groups:\n  broken:\n    union: []\n")

	buf, err := runValidateCommand(t, "text", dir)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), ErrCodeBadDefinition)
}

func TestValidate_NonExistentDirectory(t *testing.T) {
	buf, err := runValidateCommand(t, "text", "/nonexistent/directory/path")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), ErrCodeNotFound)
}
