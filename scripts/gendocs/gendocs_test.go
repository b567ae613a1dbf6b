package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "DO NOT EDIT")
	assert.Contains(t, string(index), "[`edit`](/cli/edit)")
	assert.Contains(t, string(index), "`--workbook`")
	assert.Contains(t, string(index), "LEAPTABLE_STATE_PATH")

	edit, err := os.ReadFile(filepath.Join(dir, "edit.md"))
	require.NoError(t, err)
	assert.Contains(t, string(edit), "leaptable edit <subcommand> [options]")
	assert.Contains(t, string(edit), "## Subcommands")
	assert.Contains(t, string(edit), "`indent`")

	_, err = os.Stat(filepath.Join(dir, "help.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateConfigDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateConfigDocs(dir))

	page, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "| `state_path` | string | `.leaptable/state.db` | `--state` |")
	assert.Contains(t, string(page), "`ui.hidden_width` | int | `3` | - |")
}

func TestCleanExample(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"common indent", "  # a\n  leaptable x\n", "# a\nleaptable x"},
		{"nested indent kept", "  a\n    b", "a\n  b"},
		{"no indent", "a\nb", "a\nb"},
		{"blank lines ignored", "    a\n\n    b", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanExample(tt.in))
		})
	}
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})
	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", string(w.Bytes()))

	empty := NewMarkdownWriter()
	empty.Table([]string{"A"}, nil)
	assert.Empty(t, empty.Bytes())
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "Hide a column in a hidden bundle", cleanDescription("Hide a column\n  in a hidden bundle."))
}
