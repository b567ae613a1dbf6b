package core

// Part is one segment of a table. Even parts are bound to a collection, odd
// parts to the link type joining the surrounding collections.
type Part struct {
	CollectionID string  `json:"collectionId,omitempty"`
	LinkTypeID   string  `json:"linkTypeId,omitempty"`
	Columns      Columns `json:"columns"`
}

// IsLink reports whether the part describes a relation rather than records.
func (p Part) IsLink() bool {
	return p.LinkTypeID != "" && p.CollectionID == ""
}

// Row is a node of the row forest. LinkedRows holds the rows linked to this
// one in the next collection part, recursively one level per remaining part.
type Row struct {
	CorrelationID    string `json:"correlationId,omitempty"`
	DocumentID       string `json:"documentId,omitempty"`
	LinkInstanceID   string `json:"linkInstanceId,omitempty"`
	ParentDocumentID string `json:"parentDocumentId,omitempty"`
	Expanded         bool   `json:"expanded,omitempty"`
	LinkedRows       []Row  `json:"linkedRows"`
}

// Collapsed reports whether the row hides more than one linked row behind a
// single slot.
func (r Row) Collapsed() bool {
	return len(r.LinkedRows) > 1 && !r.Expanded
}

// Persisted reports whether the row is backed by a stored record.
func (r Row) Persisted() bool {
	return r.DocumentID != ""
}

// TableConfig is the persisted layout of a table.
type TableConfig struct {
	Parts []Part `json:"parts"`
	Rows  []Row  `json:"rows"`
}

// Table is a configured table as seen by navigation.
type Table struct {
	ID     string      `json:"id"`
	Config TableConfig `json:"config"`
}

// PartRowDepth returns the row path length of body cells in the given part.
// A link part shares its depth with the collection part that follows it.
func PartRowDepth(partIndex int) int {
	return (partIndex+1)/2 + 1
}
