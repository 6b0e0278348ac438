package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHashCommand(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHashCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestHash_TextOutput(t *testing.T) {
	buf, err := runHashCommand(t, "text", defsDir(t))

	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		parts := strings.Fields(line)
		require.Len(t, parts, 2)
		assert.Len(t, parts[0], 64) // hex-encoded SHA-256
	}
	// Sorted by label.
	assert.True(t, strings.HasSuffix(lines[0], "all"))
	assert.True(t, strings.HasSuffix(lines[1], "otto"))
	assert.True(t, strings.HasSuffix(lines[2], "span"))
}

func TestHash_StableAcrossRuns(t *testing.T) {
	dir := defsDir(t)

	first, err := runHashCommand(t, "text", dir)
	require.NoError(t, err)
	second, err := runHashCommand(t, "text", dir)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
}

func TestHash_EqualAcrossFormats(t *testing.T) {
	// The same query defined in YAML and CUE must hash identically:
	// identity is the canonical form, not the source syntax.
	yamlDir := t.TempDir()
	writeFile(t, yamlDir, "defs.yaml", "groups:\n  otto:\n    single: {identifier: 0}\n")

	cueDir := t.TempDir()
	writeFile(t, cueDir, "defs.cue", "package defs\n\ngroups: otto: {single: {identifier: 0}}\n")

	fromYAML, err := runHashCommand(t, "text", yamlDir)
	require.NoError(t, err)
	fromCUE, err := runHashCommand(t, "text", cueDir)
	require.NoError(t, err)

	assert.Equal(t, fromYAML.String(), fromCUE.String())
}

func TestHash_JSON(t *testing.T) {
	buf, err := runHashCommand(t, "json", defsDir(t))

	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	hashes := resp.Data.([]any)
	assert.Len(t, hashes, 3)
}

func TestHash_NonExistentDirectory(t *testing.T) {
	_, err := runHashCommand(t, "text", "/nonexistent/directory/path")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
