package columns

import "github.com/leapstack-labs/leaptable/pkg/core"

// WidthOf returns the rendered width of a column. Hidden bundles are drawn as
// a fixed stub, or not at all when showHidden is false. A compound with
// children is as wide as its children together.
func WidthOf(column core.Column, showHidden bool) int {
	switch col := column.(type) {
	case *core.HiddenColumn:
		if showHidden {
			return core.HiddenColumnWidth
		}
		return 0
	case *core.CompoundColumn:
		if !col.HasChildren() {
			if col.Width > 0 {
				return col.Width
			}
			return core.DefaultColumnWidth
		}
		return TotalWidth(col.Children, showHidden)
	}
	return 0
}

// TotalWidth sums the widths of sibling columns.
func TotalWidth(columns core.Columns, showHidden bool) int {
	total := 0
	for _, c := range columns {
		total += WidthOf(c, showHidden)
	}
	return total
}

// MaxDepth returns the number of header rows the tree needs.
func MaxDepth(columns core.Columns) int {
	depth := 0
	for _, c := range columns {
		d := 1
		if compound, ok := c.(*core.CompoundColumn); ok && compound.HasChildren() {
			d = 1 + MaxDepth(compound.Children)
		}
		depth = max(depth, d)
	}
	return depth
}

// Rowspan returns how many header rows a leaf header cell under parentPath
// spans, so that shallow parts still line up with the tallest part.
func Rowspan(parts []core.Part, partIndex int, parentPath []int) int {
	if partIndex < 0 || partIndex >= len(parts) {
		return 0
	}
	tallest := 0
	for _, p := range parts {
		tallest = max(tallest, MaxDepth(p.Columns))
	}
	depth := MaxDepth(parts[partIndex].Columns)
	return tallest - depth + (depth - len(parentPath))
}
