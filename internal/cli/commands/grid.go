package commands

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/tui"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// gridStyles maps the renderer's styles onto the grid. Only text mode is
// styled.
func gridStyles(r *output.Renderer) tui.Styles {
	st := tui.PlainStyles()
	if r.EffectiveMode() != output.ModeText {
		return st
	}
	rs := r.Styles()
	st.Header = rs.Bold
	st.Hidden = rs.Hidden
	st.Cursor = rs.Cursor
	st.Rule = rs.Muted
	st.Status = rs.Muted
	st.Error = rs.Error
	st.Cell = lipgloss.NewStyle()
	st.Striped = lipgloss.NewStyle()
	return st
}

// printGrid writes the grid with cur highlighted. Markdown output is fenced.
func printGrid(r *output.Renderer, g *tui.Grid, cur core.Cursor) {
	text := g.Render(cur, gridStyles(r))
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println("```")
		r.Printf("%s", text)
		r.Println("```")
		r.Println()
		return
	}
	r.Printf("%s", text)
}

// gridLines renders the grid without styles, one string per line.
func gridLines(g *tui.Grid) []string {
	return strings.Split(strings.TrimSuffix(g.Render(nil, tui.PlainStyles()), "\n"), "\n")
}
