package rows

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leaptable/internal/dag"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

var (
	// ErrNoSibling is returned when a row has no previous sibling to indent under.
	ErrNoSibling = errors.New("no previous row at the same level")
	// ErrNotIndented is returned when outdenting a row that has no parent.
	ErrNotIndented = errors.New("row is already at the top level")
)

// ParentPatch is the document parent change implied by an indent or outdent.
// Callers persist it on the document so the row and record metadata agree.
type ParentPatch struct {
	DocumentID string
	ParentID   string
}

// PrimaryDocumentIDs returns the set of document ids of the given rows.
func PrimaryDocumentIDs(rows []core.Row) map[string]bool {
	ids := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.DocumentID != "" {
			ids[row.DocumentID] = true
		}
	}
	return ids
}

// EffectiveParentID returns the parent of the row's document. The document
// metadata wins over the row's own parentDocumentId.
func EffectiveParentID(row core.Row, docs map[string]core.Document) string {
	if doc, ok := docs[row.DocumentID]; ok && row.DocumentID != "" && doc.MetaData.ParentID != "" {
		return doc.MetaData.ParentID
	}
	return row.ParentDocumentID
}

func parentOf(id string, docs map[string]core.Document) string {
	return docs[id].MetaData.ParentID
}

// HierarchyLevel counts how many ancestors of the row are themselves primary
// rows. The walk stops at the first ancestor outside primaryIDs and never
// visits a document twice.
func HierarchyLevel(row core.Row, primaryIDs map[string]bool, docs map[string]core.Document) int {
	if row.DocumentID == "" && row.ParentDocumentID == "" {
		return 0
	}
	seen := make(map[string]bool)
	if row.DocumentID != "" {
		seen[row.DocumentID] = true
	}
	level := 0
	for parent := EffectiveParentID(row, docs); parent != "" && primaryIDs[parent] && !seen[parent]; parent = parentOf(parent, docs) {
		seen[parent] = true
		level++
	}
	return level
}

// ValidateHierarchicalOrder reports whether every row either starts a new
// tree or follows its parent's subtree. Parents outside the row set count as
// no parent.
func ValidateHierarchicalOrder(rows []core.Row, docs map[string]core.Document) bool {
	ids := PrimaryDocumentIDs(rows)
	var stack []string
	for _, row := range rows {
		parent := EffectiveParentID(row, docs)
		if parent == "" || !ids[parent] {
			stack = stack[:0]
		} else {
			i := lastIndex(stack, parent)
			if i < 0 {
				return false
			}
			stack = stack[:i+1]
		}
		stack = append(stack, row.DocumentID)
	}
	return true
}

func lastIndex(stack []string, id string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == id {
			return i
		}
	}
	return -1
}

// SortByHierarchy orders rows so every parent is directly followed by its
// descendants. Roots and siblings keep their relative order; rows caught in a
// parent cycle are appended at the end.
func SortByHierarchy(rows []core.Row, docs map[string]core.Document) []core.Row {
	g := dag.NewGraph()
	keys := make([]string, len(rows))
	byDocument := make(map[string]string, len(rows))
	for i, row := range rows {
		key := "#" + strconv.Itoa(i)
		if row.DocumentID != "" {
			if _, dup := byDocument[row.DocumentID]; !dup {
				byDocument[row.DocumentID] = key
			}
		}
		keys[i] = key
		g.AddNode(key, row)
	}
	for i, row := range rows {
		parentKey, ok := byDocument[EffectiveParentID(row, docs)]
		if !ok {
			continue
		}
		// Self-parents are rejected by the graph and treated as roots.
		_ = g.AddEdge(parentKey, keys[i])
	}

	out := make([]core.Row, 0, len(rows))
	for _, node := range g.PreOrder() {
		out = append(out, node.Data.(core.Row))
	}
	return out
}

// FilterByDepth limits the forest to depth levels and keeps only rows whose
// document is allowed. Rows without a document are always kept.
func FilterByDepth(rows []core.Row, depth int, allowed map[string]bool) []core.Row {
	out := []core.Row{}
	if depth <= 0 {
		return out
	}
	for _, row := range rows {
		if row.DocumentID != "" && !allowed[row.DocumentID] {
			continue
		}
		row.LinkedRows = FilterByDepth(row.LinkedRows, depth-1, allowed)
		out = append(out, row)
	}
	return out
}

// Indent makes the primary row at index a child of the nearest previous row
// on the same hierarchy level.
func Indent(rows []core.Row, index int, docs map[string]core.Document) ([]core.Row, ParentPatch, error) {
	if index < 0 || index >= len(rows) {
		return nil, ParentPatch{}, fmt.Errorf("row index %d out of range [0,%d): %w", index, len(rows), core.ErrInvalidPath)
	}
	ids := PrimaryDocumentIDs(rows)
	level := HierarchyLevel(rows[index], ids, docs)

	for j := index - 1; j >= 0; j-- {
		l := HierarchyLevel(rows[j], ids, docs)
		if l < level {
			break
		}
		if l > level {
			continue
		}
		if rows[j].DocumentID == "" {
			return nil, ParentPatch{}, fmt.Errorf("row %d has no document: %w", j, ErrNoSibling)
		}
		return reparent(rows, index, rows[j].DocumentID)
	}
	return nil, ParentPatch{}, ErrNoSibling
}

// Outdent moves the primary row at index one level up, to its grandparent.
func Outdent(rows []core.Row, index int, docs map[string]core.Document) ([]core.Row, ParentPatch, error) {
	if index < 0 || index >= len(rows) {
		return nil, ParentPatch{}, fmt.Errorf("row index %d out of range [0,%d): %w", index, len(rows), core.ErrInvalidPath)
	}
	parent := EffectiveParentID(rows[index], docs)
	if parent == "" {
		return nil, ParentPatch{}, ErrNotIndented
	}

	grandparent := parentOf(parent, docs)
	if grandparent == "" {
		for _, row := range rows {
			if row.DocumentID == parent {
				grandparent = EffectiveParentID(row, docs)
				break
			}
		}
	}
	return reparent(rows, index, grandparent)
}

func reparent(rows []core.Row, index int, parentID string) ([]core.Row, ParentPatch, error) {
	out := append([]core.Row(nil), rows...)
	out[index].ParentDocumentID = parentID
	return out, ParentPatch{DocumentID: out[index].DocumentID, ParentID: parentID}, nil
}
