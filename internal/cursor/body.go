package cursor

import (
	"slices"

	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/internal/rows"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

func moveBody(table core.Table, c *core.BodyCursor, dir core.Direction) core.Cursor {
	switch dir {
	case core.Up, core.Down:
		path := siblingRow(table.Config.Rows, c.RowPath, step(dir))
		if path == nil {
			return nil
		}
		return &core.BodyCursor{TableID: c.TableID, PartIndex: c.PartIndex, RowPath: path, ColumnIndex: c.ColumnIndex}
	case core.Left, core.Right:
		return siblingCell(table.Config.Parts, c, step(dir))
	}
	return nil
}

// siblingCell moves to the next visible leaf column in direction s, crossing
// into neighbouring parts when the current part runs out. The row path is
// cut or zero-padded to the row depth of the part landed on.
func siblingCell(parts []core.Part, c *core.BodyCursor, s int) *core.BodyCursor {
	leaves := columns.LeafColumns(parts[c.PartIndex].Columns)
	for i := c.ColumnIndex + s; i >= 0 && i < len(leaves); i += s {
		if leaves[i].Kind() != core.ColumnKindHidden {
			return &core.BodyCursor{TableID: c.TableID, PartIndex: c.PartIndex, RowPath: slices.Clone(c.RowPath), ColumnIndex: i}
		}
	}

	for q := c.PartIndex + s; q >= 0 && q < len(parts); q += s {
		i := edgeVisibleLeaf(columns.LeafColumns(parts[q].Columns), s)
		if i < 0 {
			continue
		}
		return &core.BodyCursor{
			TableID:     c.TableID,
			PartIndex:   q,
			RowPath:     withDepth(c.RowPath, core.PartRowDepth(q)),
			ColumnIndex: i,
		}
	}
	return nil
}

// edgeVisibleLeaf returns the first visible leaf when s is positive and the
// last one otherwise, or -1.
func edgeVisibleLeaf(leaves core.Columns, s int) int {
	if s > 0 {
		for i, leaf := range leaves {
			if leaf.Kind() != core.ColumnKindHidden {
				return i
			}
		}
		return -1
	}
	for i := len(leaves) - 1; i >= 0; i-- {
		if leaves[i].Kind() != core.ColumnKindHidden {
			return i
		}
	}
	return -1
}

// siblingRow finds the nearest row slot in direction s at the depth of path.
// Levels below a collapsed row hold a single slot and are skipped. Moving
// down lands on the first linked row chain of the hit; moving up lands on the
// last one, stopping at a collapsed row.
func siblingRow(forest []core.Row, path []int, s int) []int {
	depth := len(path)
	for level := depth - 1; level >= 0; level-- {
		parentPath := path[:level]
		if rows.IsCollapsed(forest, parentPath) {
			continue
		}
		siblings := forest
		if level > 0 {
			parent := rows.Find(forest, parentPath)
			if parent == nil {
				continue
			}
			siblings = parent.LinkedRows
		}
		i := path[level] + s
		if i < 0 || i >= len(siblings) {
			continue
		}
		base := append(slices.Clone(parentPath), i)
		if s > 0 {
			return withDepth(base, depth)
		}
		return lastLinkedChain(forest, base, depth)
	}
	return nil
}

func lastLinkedChain(forest []core.Row, path []int, depth int) []int {
	for len(path) < depth {
		row := rows.Find(forest, path)
		if row == nil || row.Collapsed() || len(row.LinkedRows) == 0 {
			break
		}
		path = append(path, len(row.LinkedRows)-1)
	}
	return withDepth(path, depth)
}
