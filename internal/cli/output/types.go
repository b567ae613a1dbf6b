package output

import "time"

// InspectOutput is the JSON form of `leaptable inspect`.
type InspectOutput struct {
	Table            string           `json:"table"`
	Source           string           `json:"source,omitempty"`
	Parts            []PartInfo       `json:"parts"`
	Rows             int              `json:"rows"`
	Slots            int              `json:"slots"`
	HierarchyOrdered bool             `json:"hierarchyOrdered"`
	Hierarchy        []HierarchyEntry `json:"hierarchy"`
	SuggestedOrder   []string         `json:"suggestedOrder,omitempty"`
	Grid             []string         `json:"grid,omitempty"`
}

// PartInfo describes one table part.
type PartInfo struct {
	Index        int    `json:"index"`
	Kind         string `json:"kind"`
	Source       string `json:"source"`
	Leaves       int    `json:"leaves"`
	HiddenLeaves int    `json:"hiddenLeaves"`
	HeaderDepth  int    `json:"headerDepth"`
	Width        int    `json:"width"`
}

// HierarchyEntry is a primary row with its place in the document hierarchy.
type HierarchyEntry struct {
	Index      int    `json:"index"`
	DocumentID string `json:"documentId,omitempty"`
	ParentID   string `json:"parentId,omitempty"`
	Level      int    `json:"level"`
}

// NavigateOutput is the JSON form of `leaptable navigate`.
type NavigateOutput struct {
	Start string     `json:"start"`
	Steps []MoveStep `json:"steps"`
	Final string     `json:"final"`
}

// MoveStep is one cursor move.
type MoveStep struct {
	Direction string `json:"direction"`
	Cursor    string `json:"cursor"`
	Moved     bool   `json:"moved"`
}

// EditOutput is the JSON form of `leaptable edit` subcommands.
type EditOutput struct {
	Operation string `json:"operation"`
	Table     string `json:"table"`
	Written   bool   `json:"written"`
	Path      string `json:"path,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// ViewInfo is a saved view as listed by `leaptable views`.
type ViewInfo struct {
	ID         string    `json:"id"`
	Table      string    `json:"table"`
	Name       string    `json:"name"`
	SourcePath string    `json:"sourcePath,omitempty"`
	Parts      int       `json:"parts"`
	Rows       int       `json:"rows"`
	Cursor     string    `json:"cursor,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TrimOutput is the JSON form of `leaptable trim`.
type TrimOutput struct {
	Table          string `json:"table"`
	ColumnsRemoved int    `json:"columnsRemoved"`
	RowsRemoved    int    `json:"rowsRemoved"`
	Written        bool   `json:"written"`
}

// ReconcileOutput is the JSON form of `leaptable reconcile`.
type ReconcileOutput struct {
	Table   string            `json:"table"`
	Parts   []ReconcileChange `json:"parts"`
	Written bool              `json:"written"`
}

// ReconcileChange lists the attributes a part gained or lost.
type ReconcileChange struct {
	Index   int      `json:"index"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}
