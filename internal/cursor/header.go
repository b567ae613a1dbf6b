package cursor

import (
	"slices"

	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

func moveHeader(table core.Table, c *core.HeaderCursor, dir core.Direction) core.Cursor {
	parts := table.Config.Parts
	cols := parts[c.PartIndex].Columns

	switch dir {
	case core.Up:
		if len(c.ColumnPath) <= 1 {
			return nil
		}
		return header(c, c.PartIndex, c.ColumnPath[:len(c.ColumnPath)-1])

	case core.Down:
		if len(c.ColumnPath) == 0 {
			if i := edgeCompound(cols, 1); i >= 0 {
				return header(c, c.PartIndex, []int{i})
			}
			return nil
		}
		compound, ok := columns.Find(cols, c.ColumnPath).(*core.CompoundColumn)
		if !ok {
			return nil
		}
		if i := edgeCompound(compound.Children, 1); i >= 0 {
			return header(c, c.PartIndex, append(slices.Clone(c.ColumnPath), i))
		}
		index := columns.LeafIndex(cols, c.ColumnPath)
		if index < 0 {
			return nil
		}
		return &core.BodyCursor{
			TableID:     c.TableID,
			PartIndex:   c.PartIndex,
			RowPath:     make([]int, core.PartRowDepth(c.PartIndex)),
			ColumnIndex: index,
		}

	case core.Left, core.Right:
		s := step(dir)
		if len(c.ColumnPath) == 0 {
			q := c.PartIndex + s
			if q < 0 || q >= len(parts) {
				return nil
			}
			return header(c, q, nil)
		}
		if path := siblingColumn(cols, c.ColumnPath, s); path != nil {
			return header(c, c.PartIndex, path)
		}
		for q := c.PartIndex + s; q >= 0 && q < len(parts); q += s {
			i := edgeCompound(parts[q].Columns, s)
			if i < 0 {
				continue
			}
			return header(c, q, descendColumns(parts[q].Columns, []int{i}, len(c.ColumnPath), s))
		}
	}
	return nil
}

func header(c *core.HeaderCursor, partIndex int, path []int) *core.HeaderCursor {
	return &core.HeaderCursor{TableID: c.TableID, PartIndex: partIndex, ColumnPath: slices.Clone(path)}
}

// edgeCompound returns the index of the first compound column in list when
// from is positive, of the last one otherwise, or -1.
func edgeCompound(list core.Columns, from int) int {
	if from > 0 {
		for i, col := range list {
			if _, ok := col.(*core.CompoundColumn); ok {
				return i
			}
		}
		return -1
	}
	for i := len(list) - 1; i >= 0; i-- {
		if _, ok := list[i].(*core.CompoundColumn); ok {
			return i
		}
	}
	return -1
}

// siblingColumn finds the nearest compound column in direction s, searching
// the current siblings first and then the siblings of each ancestor. The hit
// is descended to the depth of the starting path.
func siblingColumn(cols core.Columns, path []int, s int) []int {
	for level := len(path) - 1; level >= 0; level-- {
		list := childrenAt(cols, path[:level])
		for i := path[level] + s; i >= 0 && i < len(list); i += s {
			if _, ok := list[i].(*core.CompoundColumn); ok {
				base := append(slices.Clone(path[:level]), i)
				return descendColumns(cols, base, len(path), s)
			}
		}
	}
	return nil
}

// descendColumns extends path towards depth through the last compound child
// when moving left and the first one when moving right.
func descendColumns(cols core.Columns, path []int, depth int, s int) []int {
	for len(path) < depth {
		compound, ok := columns.Find(cols, path).(*core.CompoundColumn)
		if !ok {
			break
		}
		i := edgeCompound(compound.Children, s)
		if i < 0 {
			break
		}
		path = append(path, i)
	}
	return path
}

func childrenAt(cols core.Columns, prefix []int) core.Columns {
	if len(prefix) == 0 {
		return cols
	}
	if compound, ok := columns.Find(cols, prefix).(*core.CompoundColumn); ok {
		return compound.Children
	}
	return nil
}
