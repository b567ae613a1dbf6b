package columns

import (
	"fmt"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// MergeAdjacentHidden folds every run of sibling hidden bundles into one,
// concatenating their attribute ids in order. Compound children are merged
// recursively.
func MergeAdjacentHidden(columns core.Columns) core.Columns {
	out := make(core.Columns, 0, len(columns))
	for _, c := range columns {
		switch col := c.(type) {
		case *core.HiddenColumn:
			if n := len(out); n > 0 {
				if last, ok := out[n-1].(*core.HiddenColumn); ok {
					ids := make([]string, 0, len(last.AttributeIDs)+len(col.AttributeIDs))
					ids = append(ids, last.AttributeIDs...)
					ids = append(ids, col.AttributeIDs...)
					out[n-1] = &core.HiddenColumn{AttributeIDs: ids}
					continue
				}
			}
			out = append(out, col)
		case *core.CompoundColumn:
			if col.HasChildren() {
				cp := col.Copy()
				cp.Children = MergeAdjacentHidden(col.Children)
				out = append(out, cp)
				continue
			}
			out = append(out, col)
		default:
			out = append(out, c)
		}
	}
	return out
}

// Hide turns the compound column at path into a hidden bundle and merges it
// with hidden neighbours.
func Hide(columns core.Columns, path []int) (core.Columns, error) {
	out, err := edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		compound, err := compoundAt(list, idx)
		if err != nil {
			return nil, err
		}
		if !compound.Initialized() {
			return nil, fmt.Errorf("column %d is not bound to an attribute: %w", idx, core.ErrTypeMismatch)
		}
		return replaceAt(list, idx, core.NewHidden(compound.AttributeIDs...)), nil
	})
	if err != nil {
		return nil, err
	}
	return MergeAdjacentHidden(out), nil
}

// ShowHidden brings attributeIDs out of the hidden bundle at path. The shown
// attributes become compound columns at the bundle's position, with their
// nested columns rebuilt from attributes; the remaining ids stay hidden right
// after them. An empty attributeIDs shows the whole bundle.
func ShowHidden(columns core.Columns, path []int, attributeIDs []string, attributes []core.Attribute) (core.Columns, error) {
	byID := make(map[string]core.Attribute, len(attributes))
	for _, a := range attributes {
		byID[a.ID] = a
	}
	show := make(map[string]bool, len(attributeIDs))
	for _, id := range attributeIDs {
		show[id] = true
	}

	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		hidden, err := hiddenAt(list, idx)
		if err != nil {
			return nil, err
		}
		var shown core.Columns
		var remaining []string
		for _, id := range hidden.AttributeIDs {
			if len(show) > 0 && !show[id] {
				remaining = append(remaining, id)
				continue
			}
			attr, ok := byID[id]
			if !ok {
				shown = append(shown, core.NewCompound(id))
				continue
			}
			shown = append(shown, newAttributeColumn(attributes, attr))
		}
		if len(remaining) > 0 {
			shown = append(shown, core.NewHidden(remaining...))
		}
		out := make(core.Columns, 0, len(list)-1+len(shown))
		out = append(out, list[:idx]...)
		out = append(out, shown...)
		return append(out, list[idx+1:]...), nil
	})
}

// ExtendHidden appends attributeIDs to the hidden bundle at path.
func ExtendHidden(columns core.Columns, path []int, attributeIDs ...string) (core.Columns, error) {
	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		hidden, err := hiddenAt(list, idx)
		if err != nil {
			return nil, err
		}
		ids := append(append([]string(nil), hidden.AttributeIDs...), attributeIDs...)
		return replaceAt(list, idx, core.NewHidden(ids...)), nil
	})
}

// MergeHidden merges the hidden bundle at path with the hidden bundle that
// directly follows it.
func MergeHidden(columns core.Columns, path []int) (core.Columns, error) {
	return edit(columns, path, func(list core.Columns, idx int) (core.Columns, error) {
		left, err := hiddenAt(list, idx)
		if err != nil {
			return nil, err
		}
		right, err := hiddenAt(list, idx+1)
		if err != nil {
			return nil, err
		}
		ids := append(append([]string(nil), left.AttributeIDs...), right.AttributeIDs...)
		out := make(core.Columns, 0, len(list)-1)
		out = append(out, list[:idx]...)
		out = append(out, core.NewHidden(ids...))
		return append(out, list[idx+2:]...), nil
	})
}
