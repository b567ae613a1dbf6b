package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// parsePath parses a dotted index path such as "1.0.2". "" and "-" are the
// empty path.
func parsePath(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return []int{}, nil
	}
	fields := strings.Split(s, ".")
	path := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid path %q: segment %q is not a non-negative integer", s, f)
		}
		path[i] = n
	}
	return path, nil
}

func formatPath(path []int) string {
	if len(path) == 0 {
		return "-"
	}
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// parseCursor parses "header:<part>:<column path>" or
// "body:<part>:<row path>:<column index>".
func parseCursor(tableID, s string) (core.Cursor, error) {
	fields := strings.Split(strings.TrimSpace(s), ":")
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid cursor %q (want header:<part>:<path> or body:<part>:<rows>:<column>)", s)
	}
	part, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor %q: bad part index", s)
	}

	switch fields[0] {
	case "header", "h":
		path := []int{}
		if len(fields) > 2 {
			if path, err = parsePath(fields[2]); err != nil {
				return nil, err
			}
		}
		return &core.HeaderCursor{TableID: tableID, PartIndex: part, ColumnPath: path}, nil

	case "body", "b":
		if len(fields) != 4 {
			return nil, fmt.Errorf("invalid cursor %q (want body:<part>:<rows>:<column>)", s)
		}
		rowPath, err := parsePath(fields[2])
		if err != nil {
			return nil, err
		}
		col, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid cursor %q: bad column index", s)
		}
		return &core.BodyCursor{TableID: tableID, PartIndex: part, RowPath: rowPath, ColumnIndex: col}, nil
	}
	return nil, fmt.Errorf("invalid cursor %q: unknown kind %q", s, fields[0])
}

// formatCursor is the inverse of parseCursor.
func formatCursor(c core.Cursor) string {
	switch cur := c.(type) {
	case *core.HeaderCursor:
		return fmt.Sprintf("header:%d:%s", cur.PartIndex, formatPath(cur.ColumnPath))
	case *core.BodyCursor:
		return fmt.Sprintf("body:%d:%s:%d", cur.PartIndex, formatPath(cur.RowPath), cur.ColumnIndex)
	}
	return "none"
}

// parseMoves parses a comma or space separated list of directions.
func parseMoves(s string) ([]core.Direction, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	dirs := make([]core.Direction, 0, len(fields))
	for _, f := range fields {
		// Runs of vim keys such as "jjl" are accepted.
		if len(f) > 1 && strings.Trim(f, "hjkl") == "" {
			for _, r := range f {
				d, _ := core.ParseDirection(string(r))
				dirs = append(dirs, d)
			}
			continue
		}
		d, err := core.ParseDirection(f)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}
