package core

import (
	"encoding/json"
	"fmt"
)

// ColumnKind discriminates the column variants.
type ColumnKind string

// Column kind constants.
const (
	ColumnKindCompound ColumnKind = "compound"
	ColumnKindHidden   ColumnKind = "hidden"
)

// Column widths used when a column carries no explicit width.
const (
	// DefaultColumnWidth is the width of a compound column without its own width.
	DefaultColumnWidth = 100
	// HiddenColumnWidth is the width of the stub drawn for a hidden bundle.
	HiddenColumnWidth = 10
)

// Column is a node of a part's column tree. The set of implementations is
// closed: *CompoundColumn and *HiddenColumn.
type Column interface {
	// Kind reports the variant of the node.
	Kind() ColumnKind
	// Attributes returns the attribute ids carried by the node itself
	// (children excluded).
	Attributes() []string

	column()
}

// CompoundColumn is a single logical attribute column, possibly with nested
// sub-attribute columns. A compound without AttributeIDs is uninitialized:
// the user is still naming it and only AttributeName is known.
type CompoundColumn struct {
	AttributeIDs  []string `json:"attributeIds"`
	AttributeName string   `json:"attributeName,omitempty"`
	Width         int      `json:"width,omitempty"`
	Children      Columns  `json:"children,omitempty"`
}

// Kind implements Column.
func (c *CompoundColumn) Kind() ColumnKind { return ColumnKindCompound }

// Attributes implements Column.
func (c *CompoundColumn) Attributes() []string { return c.AttributeIDs }

func (c *CompoundColumn) column() {}

// AttributeID returns the single attribute id of the column, or "" when the
// column is uninitialized.
func (c *CompoundColumn) AttributeID() string {
	if len(c.AttributeIDs) == 0 {
		return ""
	}
	return c.AttributeIDs[0]
}

// Initialized reports whether the column is bound to an attribute.
func (c *CompoundColumn) Initialized() bool {
	return len(c.AttributeIDs) > 0
}

// HasChildren reports whether the column has nested columns.
func (c *CompoundColumn) HasChildren() bool {
	return len(c.Children) > 0
}

// Copy returns a shallow copy with its own id slice. Children are shared.
func (c *CompoundColumn) Copy() *CompoundColumn {
	cp := *c
	cp.AttributeIDs = append([]string(nil), c.AttributeIDs...)
	return &cp
}

// HiddenColumn is a collapsed bundle of hidden attributes.
type HiddenColumn struct {
	AttributeIDs []string `json:"attributeIds"`
}

// Kind implements Column.
func (c *HiddenColumn) Kind() ColumnKind { return ColumnKindHidden }

// Attributes implements Column.
func (c *HiddenColumn) Attributes() []string { return c.AttributeIDs }

func (c *HiddenColumn) column() {}

// NewCompound creates an initialized compound column for attributeID.
func NewCompound(attributeID string, children ...Column) *CompoundColumn {
	return &CompoundColumn{AttributeIDs: []string{attributeID}, Children: children}
}

// NewUninitialized creates a compound column that only carries a proposed name.
func NewUninitialized(name string) *CompoundColumn {
	return &CompoundColumn{AttributeIDs: []string{}, AttributeName: name}
}

// NewHidden creates a hidden bundle for the given attribute ids.
func NewHidden(attributeIDs ...string) *HiddenColumn {
	return &HiddenColumn{AttributeIDs: append([]string(nil), attributeIDs...)}
}

// Columns is an ordered list of sibling columns.
type Columns []Column

// columnJSON is the tagged wire shape of a column node.
type columnJSON struct {
	Type          ColumnKind `json:"type"`
	AttributeIDs  []string   `json:"attributeIds"`
	AttributeName string     `json:"attributeName,omitempty"`
	Width         int        `json:"width,omitempty"`
	Children      Columns    `json:"children,omitempty"`
}

// MarshalJSON encodes the list with a "type" tag on every node.
func (cs Columns) MarshalJSON() ([]byte, error) {
	out := make([]columnJSON, 0, len(cs))
	for _, c := range cs {
		switch col := c.(type) {
		case *CompoundColumn:
			ids := col.AttributeIDs
			if ids == nil {
				ids = []string{}
			}
			out = append(out, columnJSON{
				Type:          ColumnKindCompound,
				AttributeIDs:  ids,
				AttributeName: col.AttributeName,
				Width:         col.Width,
				Children:      col.Children,
			})
		case *HiddenColumn:
			out = append(out, columnJSON{Type: ColumnKindHidden, AttributeIDs: col.AttributeIDs})
		default:
			return nil, fmt.Errorf("unsupported column node %T", c)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged list. A missing type means compound.
func (cs *Columns) UnmarshalJSON(data []byte) error {
	var raw []columnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Columns, 0, len(raw))
	for i, r := range raw {
		switch r.Type {
		case ColumnKindCompound, "":
			ids := r.AttributeIDs
			if ids == nil {
				ids = []string{}
			}
			out = append(out, &CompoundColumn{
				AttributeIDs:  ids,
				AttributeName: r.AttributeName,
				Width:         r.Width,
				Children:      r.Children,
			})
		case ColumnKindHidden:
			out = append(out, &HiddenColumn{AttributeIDs: r.AttributeIDs})
		default:
			return fmt.Errorf("column %d: unknown column type %q", i, r.Type)
		}
	}
	*cs = out
	return nil
}
