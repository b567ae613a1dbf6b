// Package cursor moves the table cursor between header and body cells.
//
// Move is a pure function of the table, the cursor and a direction. A move
// that cannot be made, whether because the edge of the table was reached or
// because the cursor no longer matches the table, returns the cursor it was
// given.
package cursor

import (
	"slices"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// Move returns the cursor reached from c by moving one step in dir.
func Move(table core.Table, c core.Cursor, dir core.Direction) core.Cursor {
	if c == nil || c.Table() != table.ID {
		return c
	}
	parts := table.Config.Parts
	if c.Part() < 0 || c.Part() >= len(parts) {
		return c
	}

	var next core.Cursor
	switch cur := c.(type) {
	case *core.HeaderCursor:
		next = moveHeader(table, cur, dir)
	case *core.BodyCursor:
		next = moveBody(table, cur, dir)
	}
	if next == nil {
		return c
	}
	return next
}

// Equal reports whether a and b address the same cell.
func Equal(a, b core.Cursor) bool {
	switch x := a.(type) {
	case *core.HeaderCursor:
		y, ok := b.(*core.HeaderCursor)
		return ok && x.TableID == y.TableID && x.PartIndex == y.PartIndex && slices.Equal(x.ColumnPath, y.ColumnPath)
	case *core.BodyCursor:
		y, ok := b.(*core.BodyCursor)
		return ok && x.TableID == y.TableID && x.PartIndex == y.PartIndex &&
			x.ColumnIndex == y.ColumnIndex && slices.Equal(x.RowPath, y.RowPath)
	}
	return a == nil && b == nil
}

// IsHeaderAncestor reports whether child lies under parent in the same part.
// A cursor counts as its own ancestor.
func IsHeaderAncestor(parent, child *core.HeaderCursor) bool {
	if parent == nil || child == nil {
		return false
	}
	if parent.TableID != child.TableID || parent.PartIndex != child.PartIndex {
		return false
	}
	return len(parent.ColumnPath) <= len(child.ColumnPath) &&
		slices.Equal(parent.ColumnPath, child.ColumnPath[:len(parent.ColumnPath)])
}

// withDepth truncates path to depth or pads it with zeros.
func withDepth(path []int, depth int) []int {
	out := make([]int, depth)
	copy(out, path)
	return out
}

func step(dir core.Direction) int {
	if dir == core.Left || dir == core.Up {
		return -1
	}
	return 1
}
