package session

import (
	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// Clamp returns the nearest cursor that resolves in table. A cursor for
// another table, or any cursor when the table has no parts, becomes nil.
// Header paths are shortened until they resolve. Body row indices are
// clamped level by level, and a body cursor with no rows or no leaf columns
// to stand on falls back to its part's header root.
func Clamp(table core.Table, c core.Cursor) core.Cursor {
	if c == nil || c.Table() != table.ID || len(table.Config.Parts) == 0 {
		return nil
	}
	part := min(max(c.Part(), 0), len(table.Config.Parts)-1)
	cols := table.Config.Parts[part].Columns

	switch cur := c.(type) {
	case *core.HeaderCursor:
		path := cur.ColumnPath
		if part != cur.PartIndex {
			path = nil
		}
		for len(path) > 0 && columns.Find(cols, path) == nil {
			path = path[:len(path)-1]
		}
		return &core.HeaderCursor{TableID: table.ID, PartIndex: part, ColumnPath: append([]int{}, path...)}

	case *core.BodyCursor:
		leaves := len(columns.LeafColumns(cols))
		rowPath := clampRowPath(table.Config.Rows, cur.RowPath, core.PartRowDepth(part))
		if leaves == 0 || rowPath == nil {
			return &core.HeaderCursor{TableID: table.ID, PartIndex: part, ColumnPath: []int{}}
		}
		return &core.BodyCursor{
			TableID:     table.ID,
			PartIndex:   part,
			RowPath:     rowPath,
			ColumnIndex: min(max(cur.ColumnIndex, 0), leaves-1),
		}
	}
	return nil
}

// clampRowPath fits path to depth levels of forest. Levels below a row
// without linked rows are zero. It returns nil when the forest is empty.
func clampRowPath(forest []core.Row, path []int, depth int) []int {
	if len(forest) == 0 {
		return nil
	}
	out := make([]int, depth)
	list := forest
	for level := range depth {
		if len(list) == 0 {
			break
		}
		idx := 0
		if level < len(path) {
			idx = min(max(path[level], 0), len(list)-1)
		}
		out[level] = idx
		list = list[idx].LinkedRows
	}
	return out
}
