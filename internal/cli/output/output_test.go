package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newRenderer(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode OutputMode
		tty  bool
		want OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeMarkdown, true, ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newRenderer(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.tty, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestHeader(t *testing.T) {
	r, out, _ := newRenderer(ModeMarkdown, false)
	r.Header(2, "Columns")
	assert.Equal(t, "## Columns\n\n", out.String())

	r, out, _ = newRenderer(ModeText, false)
	r.Header(1, "Columns")
	assert.Equal(t, "Columns\n", out.String())
}

func TestStatusLine(t *testing.T) {
	r, out, _ := newRenderer(ModeMarkdown, false)
	r.Success("saved")
	r.StatusLine("tasks", StatusSkipped, "(unchanged)")
	assert.Equal(t, "- saved\n- tasks (skipped) (unchanged)\n", out.String())

	r, out, _ = newRenderer(ModeText, false)
	r.StatusLine("tasks", StatusFailed, "")
	assert.Equal(t, "✗ tasks\n", out.String())
}

func TestWarningGoesToErrOut(t *testing.T) {
	r, out, errOut := newRenderer(ModeMarkdown, false)
	r.Warning("stale cursor")
	assert.Empty(t, out.String())
	assert.Equal(t, "warning: stale cursor\n", errOut.String())
}

func TestTable(t *testing.T) {
	headers := []string{"id", "name"}
	rows := [][]string{{"v1", "default"}, {"v2", "wide"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newRenderer(ModeMarkdown, false)
		require.NoError(t, r.Table(headers, rows))
		s := out.String()
		assert.Contains(t, s, "| id | name |")
		assert.Contains(t, s, "| v2 | wide |")
		assert.False(t, ansi.MatchString(s))
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newRenderer(ModeText, false)
		require.NoError(t, r.Table(headers, rows))
		s := out.String()
		assert.Contains(t, s, "default")
		assert.True(t, strings.Contains(s, "┌"), "light box style")
	})

	t.Run("json", func(t *testing.T) {
		r, out, _ := newRenderer(ModeJSON, false)
		require.NoError(t, r.Table(headers, rows))
		var got []map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []map[string]string{
			{"id": "v1", "name": "default"},
			{"id": "v2", "name": "wide"},
		}, got)
	})
}

func TestJSON(t *testing.T) {
	r, out, _ := newRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"rows": 3}))
	assert.Equal(t, "{\n  \"rows\": 3\n}\n", out.String())

	assert.Error(t, r.JSON(make(chan int)))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "###### Deep", FormatHeader(9, "Deep"))
	assert.Equal(t, "**Rows:** 3", FormatKeyValue("Rows", "3"))
	assert.Equal(t, "Show Hidden", Title("show_hidden"))
	assert.Equal(t, "Link Type", Title("link-type"))
}
