package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/internal/cursor"
	"github.com/leapstack-labs/leaptable/internal/rows"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// pxPerChar converts configured column widths to terminal cells.
const pxPerChar = 8

const minCellWidth = 4

// Source is everything the grid draws from.
type Source struct {
	Table         core.Table
	Attributes    func(core.Part) []core.Attribute
	Documents     map[string]core.Document
	LinkInstances map[string]core.LinkInstance
}

// GridOptions controls how hidden bundles are drawn.
type GridOptions struct {
	ShowHidden bool
	// HiddenWidth is the cell width of a hidden bundle stub.
	HiddenWidth int
}

// Cell is one drawn cell. Addr is the cursor that selects it; cells spanned
// by the same header or row share their address.
type Cell struct {
	Text    string
	Width   int
	Addr    core.Cursor
	Hidden  bool
	Striped bool
	// PartEnd marks the last column of a part.
	PartEnd bool
}

// Grid is the laid out table.
type Grid struct {
	Header [][]Cell
	Body   [][]Cell
}

type leafRef struct {
	part   int
	index  int
	path   []int
	column core.Column
}

// BuildGrid lays out the header and body of src.
func BuildGrid(src Source, opts GridOptions) *Grid {
	if opts.HiddenWidth <= 0 {
		opts.HiddenWidth = 3
	}
	parts := src.Table.Config.Parts

	var leaves []leafRef
	height := 0
	for p, part := range parts {
		height = max(height, columns.MaxDepth(part.Columns))
		for i, lp := range leafPaths(part.Columns, nil) {
			leaves = append(leaves, leafRef{part: p, index: i, path: lp, column: columns.Find(part.Columns, lp)})
		}
	}
	var visible []leafRef
	for _, l := range leaves {
		if l.column.Kind() == core.ColumnKindHidden && !opts.ShowHidden {
			continue
		}
		visible = append(visible, l)
	}

	g := &Grid{}
	widths := make([]int, len(visible))
	for i, l := range visible {
		widths[i] = cellWidth(l.column, opts)
	}
	partEnd := func(i int) bool {
		return i == len(visible)-1 || visible[i+1].part != visible[i].part
	}

	for level := range height {
		line := make([]Cell, len(visible))
		for i, l := range visible {
			cell := Cell{Width: widths[i], PartEnd: partEnd(i), Hidden: l.column.Kind() == core.ColumnKindHidden}
			if level < len(l.path) {
				prefix := l.path[:level+1]
				cell.Addr = &core.HeaderCursor{TableID: src.Table.ID, PartIndex: l.part, ColumnPath: prefix}
				if i == 0 || visible[i-1].part != l.part || !startsWith(visible[i-1].path, prefix) {
					cell.Text = headerLabel(columns.Find(parts[l.part].Columns, prefix), src.attributes(parts[l.part]))
				}
			}
			line[i] = cell
		}
		g.Header = append(g.Header, line)
	}

	depth := core.PartRowDepth(len(parts) - 1)
	for _, slot := range slotPaths(src.Table.Config.Rows, depth) {
		line := make([]Cell, len(visible))
		for i, l := range visible {
			d := core.PartRowDepth(l.part)
			rowPath := slot[:d]
			cell := Cell{
				Width:   widths[i],
				PartEnd: partEnd(i),
				Hidden:  l.column.Kind() == core.ColumnKindHidden,
				Striped: rows.IsStriped(src.Table.Config.Rows, rowPath),
				Addr: &core.BodyCursor{
					TableID: src.Table.ID, PartIndex: l.part,
					RowPath: append([]int(nil), rowPath...), ColumnIndex: l.index,
				},
			}
			if allZero(slot[d:]) {
				cell.Text = bodyText(src, l, rowPath)
			}
			line[i] = cell
		}
		g.Body = append(g.Body, line)
	}
	return g
}

// leafPaths returns the path of every leaf in render order.
func leafPaths(cols core.Columns, prefix []int) [][]int {
	var out [][]int
	for i, c := range cols {
		path := append(append([]int(nil), prefix...), i)
		if compound, ok := c.(*core.CompoundColumn); ok && compound.HasChildren() {
			out = append(out, leafPaths(compound.Children, path)...)
			continue
		}
		out = append(out, path)
	}
	return out
}

// slotPaths enumerates the body lines: one row path of the given depth per
// visual slot. Collapsed rows and rows without links take one slot, padded
// with zeros.
func slotPaths(forest []core.Row, depth int) [][]int {
	var out [][]int
	var walk func(list []core.Row, prefix []int)
	walk = func(list []core.Row, prefix []int) {
		for i, row := range list {
			path := append(append([]int(nil), prefix...), i)
			if len(path) == depth || len(row.LinkedRows) == 0 || row.Collapsed() {
				padded := make([]int, depth)
				copy(padded, path)
				out = append(out, padded)
				continue
			}
			walk(row.LinkedRows, path)
		}
	}
	walk(forest, nil)
	return out
}

func cellWidth(c core.Column, opts GridOptions) int {
	if c.Kind() == core.ColumnKindHidden {
		return opts.HiddenWidth
	}
	return max(columns.WidthOf(c, opts.ShowHidden)/pxPerChar, minCellWidth)
}

func (src Source) attributes(p core.Part) []core.Attribute {
	if src.Attributes == nil {
		return nil
	}
	return src.Attributes(p)
}

// lastName returns the last segment of a dotted attribute name.
func lastName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func headerLabel(c core.Column, attrs []core.Attribute) string {
	switch col := c.(type) {
	case *core.HiddenColumn:
		return "…"
	case *core.CompoundColumn:
		if !col.Initialized() {
			if col.AttributeName != "" {
				return col.AttributeName
			}
			return "+"
		}
		id := col.AttributeID()
		for _, a := range attrs {
			if a.ID == id {
				return lastName(a.Name)
			}
		}
		return id
	}
	return ""
}

// bodyText returns the values shown for leaf l in the slot at rowPath. A
// collapsed slot joins the values of every row it stands for.
func bodyText(src Source, l leafRef, rowPath []int) string {
	if l.column.Kind() == core.ColumnKindHidden {
		return "…"
	}
	compound, ok := l.column.(*core.CompoundColumn)
	if !ok || !compound.Initialized() {
		return ""
	}
	attr := compound.AttributeID()

	var values []string
	for _, pr := range rows.VisibleRowsWithPath(src.Table.Config.Rows, rowPath) {
		var data map[string]any
		if src.Table.Config.Parts[l.part].IsLink() {
			data = src.LinkInstances[pr.Row.LinkInstanceID].Data
		} else {
			data = src.Documents[pr.Row.DocumentID].Data
		}
		if v, ok := data[attr]; ok && v != nil {
			values = append(values, formatValue(v))
		}
	}
	return strings.Join(values, ", ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(val[k])
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(v)
}

func startsWith(path, prefix []int) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

func allZero(path []int) bool {
	for _, n := range path {
		if n != 0 {
			return false
		}
	}
	return true
}

// Render draws the grid, highlighting every cell addressed by cur.
func (g *Grid) Render(cur core.Cursor, st Styles) string {
	var b strings.Builder
	for _, line := range g.Header {
		renderLine(&b, line, cur, st, st.Header)
	}
	if len(g.Header) > 0 {
		total := 0
		for _, c := range g.Header[0] {
			total += c.Width + 1
		}
		b.WriteString(st.Rule.Render(strings.Repeat("─", max(total-1, 0))))
		b.WriteByte('\n')
	}
	for _, line := range g.Body {
		renderLine(&b, line, cur, st, st.Cell)
	}
	return b.String()
}

func renderLine(b *strings.Builder, line []Cell, cur core.Cursor, st Styles, base lipgloss.Style) {
	for i, c := range line {
		style := base
		if c.Striped {
			style = st.Striped
		}
		if c.Hidden {
			style = st.Hidden
		}
		if c.Addr != nil && cur != nil && cursor.Equal(c.Addr, cur) {
			style = st.Cursor
		}
		b.WriteString(style.Width(c.Width).MaxWidth(c.Width).Inline(true).Render(c.Text))
		if i < len(line)-1 {
			if c.PartEnd {
				b.WriteString(st.Rule.Render("│"))
			} else {
				b.WriteByte(' ')
			}
		}
	}
	b.WriteByte('\n')
}

// Styles are the lipgloss styles of the grid.
type Styles struct {
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Striped lipgloss.Style
	Hidden  lipgloss.Style
	Cursor  lipgloss.Style
	Rule    lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the explorer's styles.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true),
		Cell:    lipgloss.NewStyle(),
		Striped: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Hidden:  lipgloss.NewStyle().Faint(true),
		Cursor:  lipgloss.NewStyle().Reverse(true),
		Rule:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// PlainStyles returns unstyled styles, for text output and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header: plain, Cell: plain, Striped: plain, Hidden: plain,
		Cursor: plain, Rule: plain, Status: plain, Error: plain,
	}
}

// Locate returns the first drawn line and column holding the cell addressed
// by cur. Body lines are counted after the header and its rule.
func (g *Grid) Locate(cur core.Cursor) (line, col int, ok bool) {
	if cur == nil {
		return 0, 0, false
	}
	for i, cells := range g.Header {
		for j, c := range cells {
			if c.Addr != nil && cursor.Equal(c.Addr, cur) {
				return i, j, true
			}
		}
	}
	offset := len(g.Header)
	if offset > 0 {
		offset++
	}
	for i, cells := range g.Body {
		for j, c := range cells {
			if c.Addr != nil && cursor.Equal(c.Addr, cur) {
				return offset + i, j, true
			}
		}
	}
	return 0, 0, false
}
