package rows

import (
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id string, linked ...core.Row) core.Row {
	if linked == nil {
		linked = []core.Row{}
	}
	return core.Row{DocumentID: id, LinkedRows: linked}
}

func expanded(id string, linked ...core.Row) core.Row {
	r := row(id, linked...)
	r.Expanded = true
	return r
}

func docIDs(rows []core.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.DocumentID
	}
	return out
}

// forest has a plain row, an expanded row and a collapsed row whose linked
// rows carry their own links.
func forest() []core.Row {
	return []core.Row{
		row("a"),
		expanded("b", row("ba"), row("bb")),
		row("c",
			row("ca", row("caa"), row("cab")),
			row("cb", row("cba")),
		),
	}
}

func TestFind(t *testing.T) {
	rows := forest()
	assert.Equal(t, "bb", Find(rows, []int{1, 1}).DocumentID)
	assert.Equal(t, "cab", Find(rows, []int{2, 0, 1}).DocumentID)
	assert.Nil(t, Find(rows, nil))
	assert.Nil(t, Find(rows, []int{3}))
	assert.Nil(t, Find(rows, []int{0, 0}))
	assert.Nil(t, Find(rows, []int{-1}))
}

func TestIsExpandedAndCollapsed(t *testing.T) {
	rows := forest()
	tests := []struct {
		name      string
		path      []int
		expanded  bool
		collapsed bool
	}{
		{"root", nil, true, false},
		{"no links", []int{0}, true, false},
		{"expanded row", []int{1}, true, false},
		{"below expanded row", []int{1, 0}, true, false},
		{"collapsed row", []int{2}, false, true},
		{"below collapsed row", []int{2, 0}, false, true},
		{"two levels below collapsed row", []int{2, 0, 0}, false, true},
		{"missing row", []int{7}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expanded, IsExpanded(rows, tt.path))
			assert.Equal(t, tt.collapsed, IsCollapsed(rows, tt.path))
		})
	}
}

func TestVisibleRowsWithPath(t *testing.T) {
	rows := forest()

	got := VisibleRowsWithPath(rows, []int{1, 1})
	require.Len(t, got, 1)
	assert.Equal(t, []int{1, 1}, got[0].Path)

	got = VisibleRowsWithPath(rows, []int{2, 0})
	require.Len(t, got, 2)
	assert.Equal(t, []int{2, 0}, got[0].Path)
	assert.Equal(t, []int{2, 1}, got[1].Path)

	got = VisibleRowsWithPath(rows, []int{2, 0, 0})
	paths := make([][]int, len(got))
	for i, pr := range got {
		paths[i] = pr.Path
	}
	assert.Equal(t, [][]int{{2, 0, 0}, {2, 0, 1}, {2, 1, 0}}, paths, "ca is collapsed too")

	assert.Empty(t, VisibleRowsWithPath(rows, []int{9}))
}

func TestVisibleLinkedRows(t *testing.T) {
	rows := forest()

	assert.Equal(t, []string{"ba", "bb"}, docIDs(VisibleLinkedRows(rows, []int{1})))
	assert.Equal(t, []string{"ca", "cb"}, docIDs(VisibleLinkedRows(rows, []int{2})))
	assert.Equal(t, []string{"caa", "cab", "cba"}, docIDs(VisibleLinkedRows(rows, []int{2, 0})),
		"slot under a collapsed row flattens the next level")
	assert.Empty(t, VisibleLinkedRows(rows, []int{0}))
	assert.Nil(t, VisibleLinkedRows(rows, []int{5}))
}

func TestCountVisibleSlots(t *testing.T) {
	rows := forest()
	assert.Equal(t, 1, CountVisibleSlots(rows[0]))
	assert.Equal(t, 2, CountVisibleSlots(rows[1]))
	assert.Equal(t, 1, CountVisibleSlots(rows[2]), "collapsed row is one slot")

	rows[2].Expanded = true
	assert.Equal(t, 2, CountVisibleSlots(rows[2]), "ca is collapsed, cb has a single link")
	assert.Equal(t, 1, CountVisibleSlots(row("x", row("y"))))
}

func TestIsStriped(t *testing.T) {
	rows := []core.Row{
		row("a"),
		expanded("b", row("ba"), row("bb")),
	}

	parent := IsStriped(rows, []int{1})
	assert.True(t, parent)
	assert.False(t, IsStriped(rows, []int{0}))
	assert.Equal(t, !parent, IsStriped(rows, []int{1, 0}), "not the last sibling flips")
	assert.Equal(t, parent, IsStriped(rows, []int{1, 1}), "last sibling keeps the parent stripe")
	assert.False(t, IsStriped(rows, nil))
	assert.False(t, IsStriped(rows, []int{0, 3}))
}

func TestAddRemoveSetExpanded(t *testing.T) {
	rows := forest()

	added, err := Add(rows, []int{1, 1}, core.Row{DocumentID: "new"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ba", "new", "bb"}, docIDs(added[1].LinkedRows))
	assert.NotNil(t, added[1].LinkedRows[1].LinkedRows)
	assert.Equal(t, []string{"ba", "bb"}, docIDs(rows[1].LinkedRows), "input is untouched")

	appended, err := Add(rows, []int{3}, row("d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, docIDs(appended))

	removed, err := Remove(rows, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"cb"}, docIDs(removed[2].LinkedRows))

	toggled, err := SetExpanded(rows, []int{2}, true)
	require.NoError(t, err)
	assert.True(t, toggled[2].Expanded)
	assert.False(t, rows[2].Expanded)

	_, err = Remove(rows, []int{0, 0})
	assert.ErrorIs(t, err, core.ErrInvalidPath)
	_, err = Add(rows, nil, row("x"))
	assert.ErrorIs(t, err, core.ErrInvalidPath)
	_, err = SetExpanded(rows, []int{9, 0}, true)
	assert.ErrorIs(t, err, core.ErrInvalidPath)
}
