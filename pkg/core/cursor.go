package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Cursor is the single focus point of a table: a header cell or a body cell.
// The set of implementations is closed: *HeaderCursor and *BodyCursor.
type Cursor interface {
	// Table returns the id of the table the cursor points into.
	Table() string
	// Part returns the index of the part the cursor points into.
	Part() int

	cursor()
}

// HeaderCursor addresses a header column by its path in the part's column
// tree. An empty ColumnPath addresses the part root.
type HeaderCursor struct {
	TableID    string `json:"tableId"`
	PartIndex  int    `json:"partIndex"`
	ColumnPath []int  `json:"columnPath"`
}

// Table implements Cursor.
func (c *HeaderCursor) Table() string { return c.TableID }

// Part implements Cursor.
func (c *HeaderCursor) Part() int { return c.PartIndex }

func (c *HeaderCursor) cursor() {}

func (c *HeaderCursor) String() string {
	return fmt.Sprintf("header(%s part=%d column=%v)", c.TableID, c.PartIndex, c.ColumnPath)
}

// BodyCursor addresses a body cell. RowPath indexes the row forest, one index
// per row level; ColumnIndex indexes the part's leaf columns.
type BodyCursor struct {
	TableID     string `json:"tableId"`
	PartIndex   int    `json:"partIndex"`
	RowPath     []int  `json:"rowPath"`
	ColumnIndex int    `json:"columnIndex"`
}

// Table implements Cursor.
func (c *BodyCursor) Table() string { return c.TableID }

// Part implements Cursor.
func (c *BodyCursor) Part() int { return c.PartIndex }

func (c *BodyCursor) cursor() {}

func (c *BodyCursor) String() string {
	return fmt.Sprintf("body(%s part=%d row=%v column=%d)", c.TableID, c.PartIndex, c.RowPath, c.ColumnIndex)
}

// Direction is a directional cursor move.
type Direction int

// Directions.
const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses a direction name. Vim keys are accepted as aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "k":
		return Up, nil
	case "down", "j":
		return Down, nil
	case "left", "h":
		return Left, nil
	case "right", "l":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Cursor kinds used in the encoded form.
const (
	cursorKindHeader = "header"
	cursorKindBody   = "body"
)

// MarshalCursor encodes a cursor with a "kind" tag. A nil cursor encodes as
// JSON null.
func MarshalCursor(c Cursor) ([]byte, error) {
	switch cur := c.(type) {
	case nil:
		return []byte("null"), nil
	case *HeaderCursor:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*HeaderCursor
		}{cursorKindHeader, cur})
	case *BodyCursor:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*BodyCursor
		}{cursorKindBody, cur})
	}
	return nil, fmt.Errorf("unsupported cursor %T", c)
}

// UnmarshalCursor decodes a cursor written by MarshalCursor.
func UnmarshalCursor(data []byte) (Cursor, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Kind {
	case cursorKindHeader:
		c := &HeaderCursor{}
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
		return c, nil
	case cursorKindBody:
		c := &BodyCursor{}
		if err := json.Unmarshal(data, c); err != nil {
			return nil, err
		}
		return c, nil
	case "":
		if strings.TrimSpace(string(data)) == "null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("unknown cursor kind %q", head.Kind)
}
