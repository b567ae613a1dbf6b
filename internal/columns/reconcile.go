package columns

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// BuildFromAttributes derives the column list for the direct children of
// parent (top-level attributes when parent is nil) and reconciles it with the
// existing layout:
//   - existing compounds whose attribute still exists are kept with their
//     width, and their children are rebuilt the same way;
//   - uninitialized compounds are kept while no attribute carries their
//     proposed name, and bound in place once one does;
//   - hidden bundles keep only ids that still exist and vanish when empty;
//   - attributes not referenced by the layout are appended as new columns,
//     ordered by the numeric suffix of their id.
//
// The result never has two adjacent hidden bundles.
func BuildFromAttributes(attributes []core.Attribute, parent *core.Attribute, existing core.Columns) core.Columns {
	siblings := directChildren(attributes, parent)

	byID := make(map[string]core.Attribute, len(siblings))
	byName := make(map[string]core.Attribute, len(siblings))
	for _, a := range siblings {
		byID[a.ID] = a
		if _, dup := byName[a.Name]; !dup {
			byName[a.Name] = a
		}
	}

	used := make(map[string]bool, len(siblings))
	out := make(core.Columns, 0, len(siblings))
	for _, c := range existing {
		switch col := c.(type) {
		case *core.CompoundColumn:
			if !col.Initialized() {
				attr, ok := byName[col.AttributeName]
				if !ok || col.AttributeName == "" || used[attr.ID] {
					out = append(out, col)
					continue
				}
				used[attr.ID] = true
				out = append(out, rebuild(attributes, attr, col))
				continue
			}
			attr, ok := byID[col.AttributeID()]
			if !ok || used[attr.ID] {
				continue
			}
			used[attr.ID] = true
			out = append(out, rebuild(attributes, attr, col))
		case *core.HiddenColumn:
			var ids []string
			for _, id := range col.AttributeIDs {
				if _, ok := byID[id]; ok && !used[id] {
					used[id] = true
					ids = append(ids, id)
				}
			}
			if len(ids) > 0 {
				out = append(out, core.NewHidden(ids...))
			}
		}
	}

	for _, a := range siblings {
		if !used[a.ID] {
			out = append(out, newAttributeColumn(attributes, a))
		}
	}
	return MergeAdjacentHidden(out)
}

func rebuild(attributes []core.Attribute, attr core.Attribute, prev *core.CompoundColumn) *core.CompoundColumn {
	col := &core.CompoundColumn{
		AttributeIDs: []string{attr.ID},
		Width:        prev.Width,
	}
	if children := BuildFromAttributes(attributes, &attr, prev.Children); len(children) > 0 {
		col.Children = children
	}
	return col
}

func newAttributeColumn(attributes []core.Attribute, attr core.Attribute) *core.CompoundColumn {
	col := core.NewCompound(attr.ID)
	if children := BuildFromAttributes(attributes, &attr, nil); len(children) > 0 {
		col.Children = children
	}
	return col
}

// directChildren returns the attributes nested directly under parent, sorted
// by id number. With a nil parent it returns the attributes whose dotted
// prefix does not name another attribute.
func directChildren(attributes []core.Attribute, parent *core.Attribute) []core.Attribute {
	names := make(map[string]bool, len(attributes))
	for _, a := range attributes {
		names[a.Name] = true
	}

	var out []core.Attribute
	for _, a := range attributes {
		parentName := ParentName(a.Name)
		if parent == nil {
			if parentName == "" || !names[parentName] {
				out = append(out, a)
			}
			continue
		}
		if parentName == parent.Name && a.ID != parent.ID {
			out = append(out, a)
		}
	}
	SortAttributes(out)
	return out
}

// ParentName returns the dotted prefix of an attribute name ("a.b.c" -> "a.b").
func ParentName(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return ""
}

var idNumber = regexp.MustCompile(`(\d+)$`)

// SortAttributes orders attributes by the numeric suffix of their id
// ("a2" before "a10"). Ids without a number sort last, by id.
func SortAttributes(attributes []core.Attribute) {
	sort.SliceStable(attributes, func(i, j int) bool {
		ni, okI := attributeNumber(attributes[i].ID)
		nj, okJ := attributeNumber(attributes[j].ID)
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		}
		return attributes[i].ID < attributes[j].ID
	})
}

func attributeNumber(id string) (int, bool) {
	m := idNumber.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
