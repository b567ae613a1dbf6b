// Package persist prepares a table config for storage.
//
// Placeholders the user added but never filled in, such as uninitialized
// columns and unsaved rows at the end of a list, are not persisted.
package persist

import (
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// TrimColumns drops the trailing run of columns without attribute ids, at
// every nesting level. Placeholders followed by a real column are kept.
func TrimColumns(columns core.Columns) core.Columns {
	end := len(columns)
	for end > 0 && len(columns[end-1].Attributes()) == 0 {
		end--
	}
	out := make(core.Columns, 0, end)
	for _, c := range columns[:end] {
		if compound, ok := c.(*core.CompoundColumn); ok && compound.HasChildren() {
			cp := compound.Copy()
			cp.Children = TrimColumns(compound.Children)
			c = cp
		}
		out = append(out, c)
	}
	return out
}

// TrimRows drops the trailing run of rows without a document, at every
// level of the forest.
func TrimRows(rows []core.Row) []core.Row {
	end := len(rows)
	for end > 0 && !rows[end-1].Persisted() {
		end--
	}
	out := make([]core.Row, 0, end)
	for _, row := range rows[:end] {
		row.LinkedRows = TrimRows(row.LinkedRows)
		out = append(out, row)
	}
	return out
}

// FilterConfig returns the part of config worth persisting. A nil config
// stays nil.
func FilterConfig(config *core.TableConfig) *core.TableConfig {
	if config == nil {
		return nil
	}
	parts := make([]core.Part, len(config.Parts))
	for i, part := range config.Parts {
		part.Columns = TrimColumns(part.Columns)
		parts[i] = part
	}
	return &core.TableConfig{Parts: parts, Rows: TrimRows(config.Rows)}
}
