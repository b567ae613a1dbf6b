// Package columns implements the column tree owned by each table part.
//
// Every operation is pure: it returns a new list and leaves its input
// untouched. Untouched subtrees are shared between the input and the result.
// Paths are lists of child indices, the first one selecting within the given
// list.
package columns

import (
	"fmt"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// Find returns the column addressed by path, or nil when the path is empty or
// does not resolve.
func Find(columns core.Columns, path []int) core.Column {
	if len(path) == 0 {
		return nil
	}
	idx := path[0]
	if idx < 0 || idx >= len(columns) {
		return nil
	}
	col := columns[idx]
	if len(path) == 1 {
		return col
	}
	compound, ok := col.(*core.CompoundColumn)
	if !ok {
		return nil
	}
	return Find(compound.Children, path[1:])
}

// LeafColumns flattens the tree into render order. Compound columns with
// children are replaced by their leaves; childless compounds and hidden
// bundles are emitted as-is.
func LeafColumns(columns core.Columns) core.Columns {
	leaves := make(core.Columns, 0, len(columns))
	for _, c := range columns {
		if compound, ok := c.(*core.CompoundColumn); ok && compound.HasChildren() {
			leaves = append(leaves, LeafColumns(compound.Children)...)
			continue
		}
		leaves = append(leaves, c)
	}
	return leaves
}

// FindLeafByFlatIndex returns the leaf column at index in render order.
func FindLeafByFlatIndex(columns core.Columns, index int) core.Column {
	leaves := LeafColumns(columns)
	if index < 0 || index >= len(leaves) {
		return nil
	}
	return leaves[index]
}

// LeafIndex returns the flat leaf index of the first leaf under the column at
// path, or -1 when the path does not resolve.
func LeafIndex(columns core.Columns, path []int) int {
	if len(path) == 0 {
		return -1
	}
	idx := path[0]
	if idx < 0 || idx >= len(columns) {
		return -1
	}
	offset := 0
	for _, c := range columns[:idx] {
		offset += leafCount(c)
	}
	if len(path) == 1 {
		return offset
	}
	compound, ok := columns[idx].(*core.CompoundColumn)
	if !ok {
		return -1
	}
	inner := LeafIndex(compound.Children, path[1:])
	if inner < 0 {
		return -1
	}
	return offset + inner
}

func leafCount(c core.Column) int {
	compound, ok := c.(*core.CompoundColumn)
	if !ok || !compound.HasChildren() {
		return 1
	}
	n := 0
	for _, child := range compound.Children {
		n += leafCount(child)
	}
	return n
}

// AttributeIDs returns every attribute id referenced by the tree, depth
// first, in order.
func AttributeIDs(columns core.Columns) []string {
	var ids []string
	for _, c := range columns {
		ids = append(ids, c.Attributes()...)
		if compound, ok := c.(*core.CompoundColumn); ok {
			ids = append(ids, AttributeIDs(compound.Children)...)
		}
	}
	return ids
}

// editFunc rewrites the list that holds the last path segment.
type editFunc func(list core.Columns, idx int) (core.Columns, error)

// edit descends along path and applies fn to the list addressed by the last
// segment. Every compound on the way is copied; a missing width on those
// copies is filled in with the default width.
func edit(columns core.Columns, path []int, fn editFunc) (core.Columns, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty column path: %w", core.ErrInvalidPath)
	}
	idx := path[0]
	if len(path) == 1 {
		return fn(columns, idx)
	}
	if idx < 0 || idx >= len(columns) {
		return nil, fmt.Errorf("column index %d out of range [0,%d): %w", idx, len(columns), core.ErrInvalidPath)
	}
	compound, ok := columns[idx].(*core.CompoundColumn)
	if !ok {
		return nil, fmt.Errorf("column %d is %s and has no children: %w", idx, columns[idx].Kind(), core.ErrTypeMismatch)
	}
	children, err := edit(compound.Children, path[1:], fn)
	if err != nil {
		return nil, err
	}
	cp := compound.Copy()
	if cp.Width == 0 {
		cp.Width = core.DefaultColumnWidth
	}
	cp.Children = children
	out := append(core.Columns(nil), columns...)
	out[idx] = cp
	return out, nil
}

// Add inserts column before the node at path. The last index may equal the
// list length to append.
func Add(columns core.Columns, path []int, column core.Column) (core.Columns, error) {
	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		if idx < 0 || idx > len(list) {
			return nil, fmt.Errorf("insert index %d out of range [0,%d]: %w", idx, len(list), core.ErrInvalidPath)
		}
		out := make(core.Columns, 0, len(list)+1)
		out = append(out, list[:idx]...)
		out = append(out, column)
		return append(out, list[idx:]...), nil
	})
}

// Replace removes deleteCount nodes starting at path and inserts newColumns
// in their place.
func Replace(columns core.Columns, path []int, deleteCount int, newColumns ...core.Column) (core.Columns, error) {
	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		if idx < 0 || idx > len(list) {
			return nil, fmt.Errorf("replace index %d out of range [0,%d]: %w", idx, len(list), core.ErrInvalidPath)
		}
		end := idx + max(deleteCount, 0)
		if end > len(list) {
			end = len(list)
		}
		out := make(core.Columns, 0, len(list)-(end-idx)+len(newColumns))
		out = append(out, list[:idx]...)
		out = append(out, newColumns...)
		return append(out, list[end:]...), nil
	})
}

// Move relocates the node at from to to. Both paths must share the same
// parent; the last index of to refers to the list after removal.
func Move(columns core.Columns, from, to []int) (core.Columns, error) {
	if len(from) == 0 || len(to) == 0 {
		return nil, fmt.Errorf("empty column path: %w", core.ErrInvalidPath)
	}
	if !sameParent(from, to) {
		return nil, fmt.Errorf("cannot move column %v to %v across parents: %w", from, to, core.ErrInvalidPath)
	}
	col := Find(columns, from)
	if col == nil {
		return nil, fmt.Errorf("column %v not found: %w", from, core.ErrInvalidPath)
	}
	removed, err := Replace(columns, from, 1)
	if err != nil {
		return nil, err
	}
	return Add(removed, to, col)
}

func sameParent(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Resize sets the width of the compound column at path.
func Resize(columns core.Columns, path []int, width int) (core.Columns, error) {
	if width <= 0 {
		return nil, fmt.Errorf("column width must be positive, got %d", width)
	}
	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		compound, err := compoundAt(list, idx)
		if err != nil {
			return nil, err
		}
		cp := compound.Copy()
		cp.Width = width
		return replaceAt(list, idx, cp), nil
	})
}

// Initialize binds the uninitialized compound column at path to attributeID.
func Initialize(columns core.Columns, path []int, attributeID string) (core.Columns, error) {
	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		compound, err := compoundAt(list, idx)
		if err != nil {
			return nil, err
		}
		if compound.Initialized() {
			return nil, fmt.Errorf("column %d is already bound to %s", idx, compound.AttributeID())
		}
		cp := compound.Copy()
		cp.AttributeIDs = []string{attributeID}
		cp.AttributeName = ""
		return replaceAt(list, idx, cp), nil
	})
}

func compoundAt(list core.Columns, idx int) (*core.CompoundColumn, error) {
	if idx < 0 || idx >= len(list) {
		return nil, fmt.Errorf("column index %d out of range [0,%d): %w", idx, len(list), core.ErrInvalidPath)
	}
	compound, ok := list[idx].(*core.CompoundColumn)
	if !ok {
		return nil, fmt.Errorf("column %d is %s, want compound: %w", idx, list[idx].Kind(), core.ErrTypeMismatch)
	}
	return compound, nil
}

func hiddenAt(list core.Columns, idx int) (*core.HiddenColumn, error) {
	if idx < 0 || idx >= len(list) {
		return nil, fmt.Errorf("column index %d out of range [0,%d): %w", idx, len(list), core.ErrInvalidPath)
	}
	hidden, ok := list[idx].(*core.HiddenColumn)
	if !ok {
		return nil, fmt.Errorf("column %d is %s, want hidden: %w", idx, list[idx].Kind(), core.ErrTypeMismatch)
	}
	return hidden, nil
}

func replaceAt(list core.Columns, idx int, col core.Column) core.Columns {
	out := append(core.Columns(nil), list...)
	out[idx] = col
	return out
}
