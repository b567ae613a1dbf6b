// Package rows implements the row forest of a table: primary rows, each with
// the rows linked to it in the following parts.
//
// A row with more than one linked row that is not expanded is collapsed: its
// linked rows share one visual slot, addressed by trailing zeros in a row path.
package rows

import (
	"fmt"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// PathRow is a row together with its real path in the forest.
type PathRow struct {
	Path []int
	Row  core.Row
}

// Find returns the row addressed by rowPath, or nil. The returned row points
// into rows and must not be modified.
func Find(rows []core.Row, rowPath []int) *core.Row {
	if len(rowPath) == 0 {
		return nil
	}
	idx := rowPath[0]
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	if len(rowPath) == 1 {
		return &rows[idx]
	}
	return Find(rows[idx].LinkedRows, rowPath[1:])
}

// IsExpanded reports whether every row along rowPath shows its linked rows
// individually. The empty path is the root and is always expanded; a path
// that does not resolve is not.
func IsExpanded(rows []core.Row, rowPath []int) bool {
	if len(rowPath) == 0 {
		return true
	}
	idx := rowPath[0]
	if idx < 0 || idx >= len(rows) {
		return false
	}
	row := rows[idx]
	if row.Collapsed() {
		return false
	}
	if len(rowPath) == 1 {
		return true
	}
	return IsExpanded(row.LinkedRows, rowPath[1:])
}

// IsCollapsed reports whether the addressed row, or any row above it on
// rowPath, is collapsed. The empty path and unresolved paths are not
// collapsed.
func IsCollapsed(rows []core.Row, rowPath []int) bool {
	if len(rowPath) == 0 {
		return false
	}
	idx := rowPath[0]
	if idx < 0 || idx >= len(rows) {
		return false
	}
	row := rows[idx]
	if row.Collapsed() {
		return true
	}
	if len(rowPath) == 1 {
		return false
	}
	return IsCollapsed(row.LinkedRows, rowPath[1:])
}

// VisibleRowsWithPath returns the rows represented by the slot at rowPath,
// each with its real path. Below a collapsed row the next index of rowPath is
// a placeholder: every linked row is taken instead, so the result may hold
// many rows whose paths differ from rowPath.
func VisibleRowsWithPath(rows []core.Row, rowPath []int) []PathRow {
	return collectSlot(rows, rowPath, nil)
}

func collectSlot(rows []core.Row, rest []int, prefix []int) []PathRow {
	if len(rest) == 0 {
		return nil
	}
	idx := rest[0]
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	row := rows[idx]
	path := append(append(make([]int, 0, len(prefix)+1), prefix...), idx)
	if len(rest) == 1 {
		return []PathRow{{Path: path, Row: row}}
	}
	if !row.Collapsed() {
		return collectSlot(row.LinkedRows, rest[1:], path)
	}
	var out []PathRow
	for j := range row.LinkedRows {
		next := append([]int{j}, rest[2:]...)
		out = append(out, collectSlot(row.LinkedRows, next, path)...)
	}
	return out
}

// VisibleLinkedRows returns the rows shown under the slot at rowPath in the
// next part. When no row on the path is collapsed these are the addressed
// row's own linked rows; otherwise the linked rows of every row pulled into
// the slot are flattened together.
func VisibleLinkedRows(rows []core.Row, rowPath []int) []core.Row {
	row := Find(rows, rowPath)
	if row == nil {
		return nil
	}
	if !IsCollapsed(rows, rowPath) {
		return row.LinkedRows
	}
	var out []core.Row
	for _, pr := range VisibleRowsWithPath(rows, rowPath) {
		out = append(out, pr.Row.LinkedRows...)
	}
	return out
}

// CountVisibleSlots returns how many body slots the row occupies in the last
// part: one when it has no linked rows or is collapsed, the sum over its
// linked rows otherwise.
func CountVisibleSlots(row core.Row) int {
	if len(row.LinkedRows) == 0 || row.Collapsed() {
		return 1
	}
	n := 0
	for _, linked := range row.LinkedRows {
		n += CountVisibleSlots(linked)
	}
	return n
}

// IsStriped reports whether the row at rowPath is drawn with the alternate
// background. Primary rows alternate by index; a linked row flips its
// parent's stripe unless it is the parent's last linked row.
func IsStriped(rows []core.Row, rowPath []int) bool {
	switch len(rowPath) {
	case 0:
		return false
	case 1:
		return rowPath[0]%2 == 1
	}
	if Find(rows, rowPath) == nil {
		return false
	}
	parentPath := rowPath[:len(rowPath)-1]
	parent := Find(rows, parentPath)
	striped := IsStriped(rows, parentPath)
	if rowPath[len(rowPath)-1] == len(parent.LinkedRows)-1 {
		return striped
	}
	return !striped
}

// editFunc rewrites the sibling list that holds the last path segment.
type editFunc func(list []core.Row, idx int) ([]core.Row, error)

func edit(rows []core.Row, rowPath []int, fn editFunc) ([]core.Row, error) {
	if len(rowPath) == 0 {
		return nil, fmt.Errorf("empty row path: %w", core.ErrInvalidPath)
	}
	idx := rowPath[0]
	if len(rowPath) == 1 {
		return fn(rows, idx)
	}
	if idx < 0 || idx >= len(rows) {
		return nil, fmt.Errorf("row index %d out of range [0,%d): %w", idx, len(rows), core.ErrInvalidPath)
	}
	linked, err := edit(rows[idx].LinkedRows, rowPath[1:], fn)
	if err != nil {
		return nil, err
	}
	out := append([]core.Row(nil), rows...)
	out[idx].LinkedRows = linked
	return out, nil
}

// Add inserts row before the row at rowPath. The last index may equal the
// sibling count to append.
func Add(rows []core.Row, rowPath []int, row core.Row) ([]core.Row, error) {
	return edit(rows, rowPath, func(list []core.Row, idx int) ([]core.Row, error) {
		if idx < 0 || idx > len(list) {
			return nil, fmt.Errorf("insert index %d out of range [0,%d]: %w", idx, len(list), core.ErrInvalidPath)
		}
		if row.LinkedRows == nil {
			row.LinkedRows = []core.Row{}
		}
		out := make([]core.Row, 0, len(list)+1)
		out = append(out, list[:idx]...)
		out = append(out, row)
		return append(out, list[idx:]...), nil
	})
}

// Remove deletes the row at rowPath together with its linked rows.
func Remove(rows []core.Row, rowPath []int) ([]core.Row, error) {
	return edit(rows, rowPath, func(list []core.Row, idx int) ([]core.Row, error) {
		if idx < 0 || idx >= len(list) {
			return nil, fmt.Errorf("row index %d out of range [0,%d): %w", idx, len(list), core.ErrInvalidPath)
		}
		out := make([]core.Row, 0, len(list)-1)
		out = append(out, list[:idx]...)
		return append(out, list[idx+1:]...), nil
	})
}

// SetExpanded sets the expanded flag of the row at rowPath.
func SetExpanded(rows []core.Row, rowPath []int, expanded bool) ([]core.Row, error) {
	return edit(rows, rowPath, func(list []core.Row, idx int) ([]core.Row, error) {
		if idx < 0 || idx >= len(list) {
			return nil, fmt.Errorf("row index %d out of range [0,%d): %w", idx, len(list), core.ErrInvalidPath)
		}
		out := append([]core.Row(nil), list...)
		out[idx].Expanded = expanded
		return out, nil
	})
}
