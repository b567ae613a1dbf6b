package cursor

import (
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
)

func linked(id string, rows ...core.Row) core.Row {
	if rows == nil {
		rows = []core.Row{}
	}
	return core.Row{DocumentID: id, LinkedRows: rows}
}

// fixture has a first collection with nested and hidden columns, an empty
// link part and a second collection. Row r2 is collapsed.
func fixture() core.Table {
	r1 := linked("r1", linked("x1"), linked("x2"))
	r1.Expanded = true
	return core.Table{
		ID: "t1",
		Config: core.TableConfig{
			Parts: []core.Part{
				{CollectionID: "c1", Columns: core.Columns{
					core.NewCompound("a1"),
					core.NewCompound("a2", core.NewCompound("a3"), core.NewHidden("a4"), core.NewCompound("a5")),
					core.NewHidden("a6"),
					core.NewCompound("a7"),
				}},
				{LinkTypeID: "l1"},
				{CollectionID: "c2", Columns: core.Columns{core.NewCompound("d1"), core.NewCompound("d2")}},
			},
			Rows: []core.Row{
				linked("r0", linked("x0")),
				r1,
				linked("r2", linked("x3"), linked("x4")),
			},
		},
	}
}

func head(part int, path ...int) *core.HeaderCursor {
	return &core.HeaderCursor{TableID: "t1", PartIndex: part, ColumnPath: path}
}

func body(part, column int, rowPath ...int) *core.BodyCursor {
	return &core.BodyCursor{TableID: "t1", PartIndex: part, RowPath: rowPath, ColumnIndex: column}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name string
		from core.Cursor
		dir  core.Direction
		want core.Cursor
	}{
		// header vertical
		{"header up to parent", head(0, 1, 0), core.Up, head(0, 1)},
		{"header up at top level", head(0, 1), core.Up, head(0, 1)},
		{"header down into first compound child", head(0, 1), core.Down, head(0, 1, 0)},
		{"header down from part root", head(2), core.Down, head(2, 0)},
		{"header down into body", head(0, 3), core.Down, body(0, 5, 0)},
		{"header down into body of second collection", head(2, 1), core.Down, body(2, 1, 0, 0)},
		{"header down from nested leaf", head(0, 1, 2), core.Down, body(0, 3, 0)},

		// header horizontal
		{"header right skips hidden sibling", head(0, 1, 0), core.Right, head(0, 1, 2)},
		{"header right climbs to parent sibling", head(0, 1, 2), core.Right, head(0, 3)},
		{"header right skips empty part", head(0, 3), core.Right, head(2, 0)},
		{"header right at the end", head(2, 1), core.Right, head(2, 1)},
		{"header left skips empty part", head(2, 0), core.Left, head(0, 3)},
		{"header left skips hidden", head(0, 3), core.Left, head(0, 1)},
		{"header left within parent", head(0, 1, 2), core.Left, head(0, 1, 0)},
		{"header left keeps depth when possible", head(0, 1, 0), core.Left, head(0, 0)},
		{"header left at the start", head(0, 0), core.Left, head(0, 0)},
		{"header part root moves between parts", head(0), core.Right, head(1)},

		// body horizontal
		{"body right", body(0, 0, 1), core.Right, body(0, 1, 1)},
		{"body right skips hidden", body(0, 1, 1), core.Right, body(0, 3, 1)},
		{"body right into next collection", body(0, 5, 1), core.Right, body(2, 0, 1, 0)},
		{"body right at the end", body(2, 1, 1, 0), core.Right, body(2, 1, 1, 0)},
		{"body left into previous collection", body(2, 0, 1, 1), core.Left, body(0, 5, 1)},
		{"body left skips hidden", body(0, 5, 2), core.Left, body(0, 3, 2)},
		{"body left at the start", body(0, 0, 0), core.Left, body(0, 0, 0)},

		// body vertical
		{"body down to next primary row", body(2, 0, 0, 0), core.Down, body(2, 0, 1, 0)},
		{"body down to next linked row", body(2, 0, 1, 0), core.Down, body(2, 0, 1, 1)},
		{"body down into collapsed row", body(2, 0, 1, 1), core.Down, body(2, 0, 2, 0)},
		{"body down from collapsed slot at the end", body(2, 0, 2, 0), core.Down, body(2, 0, 2, 0)},
		{"body up lands on last linked row", body(2, 0, 2, 0), core.Up, body(2, 0, 1, 1)},
		{"body up to previous primary row", body(2, 0, 1, 0), core.Up, body(2, 0, 0, 0)},
		{"body up at the first row", body(2, 0, 0, 0), core.Up, body(2, 0, 0, 0)},
		{"body down in first collection", body(0, 3, 0), core.Down, body(0, 3, 1)},

		// cursor out of sync with the table
		{"other table", &core.BodyCursor{TableID: "t2", RowPath: []int{0}}, core.Down, &core.BodyCursor{TableID: "t2", RowPath: []int{0}}},
		{"missing part", head(7, 0), core.Right, head(7, 0)},
		{"missing column", head(0, 9), core.Down, head(0, 9)},
	}
	table := fixture()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(table, tt.from, tt.dir)
			assert.True(t, Equal(tt.want, got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestMove_HeaderDownFlatColumns(t *testing.T) {
	table := core.Table{ID: "t1", Config: core.TableConfig{
		Parts: []core.Part{{CollectionID: "c1", Columns: core.Columns{
			core.NewCompound("a1"), core.NewCompound("a2"), core.NewCompound("a3"),
		}}},
	}}

	got := Move(table, head(0, 2), core.Down)

	assert.Equal(t, body(0, 2, 0), got)
}

func TestMove_HorizontalInverse(t *testing.T) {
	table := fixture()
	for _, start := range []core.Cursor{head(0, 1, 0), head(0, 1), body(0, 1, 1), body(0, 3, 2)} {
		right := Move(table, start, core.Right)
		back := Move(table, right, core.Left)
		assert.True(t, Equal(start, back), "%v -> %v -> %v", start, right, back)
	}
}

func TestMove_DoesNotMutate(t *testing.T) {
	table := fixture()
	from := body(0, 5, 1)

	_ = Move(table, from, core.Right)

	assert.Equal(t, []int{1}, from.RowPath)
	assert.Equal(t, fixture(), table)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(head(0, 1, 2), head(0, 1, 2)))
	assert.False(t, Equal(head(0, 1, 2), head(0, 1)))
	assert.False(t, Equal(head(0, 1), head(2, 1)))
	assert.True(t, Equal(body(0, 1, 2, 0), body(0, 1, 2, 0)))
	assert.False(t, Equal(body(0, 1, 2), body(0, 2, 2)))
	assert.False(t, Equal(body(0, 0), head(0)))
	assert.True(t, Equal(nil, nil))
}

func TestIsHeaderAncestor(t *testing.T) {
	assert.True(t, IsHeaderAncestor(head(0, 1), head(0, 1, 2)))
	assert.True(t, IsHeaderAncestor(head(0, 1), head(0, 1)))
	assert.True(t, IsHeaderAncestor(head(0), head(0, 3)))
	assert.False(t, IsHeaderAncestor(head(0, 1, 2), head(0, 1)))
	assert.False(t, IsHeaderAncestor(head(0, 1), head(2, 1, 2)))
	assert.False(t, IsHeaderAncestor(head(0, 2), head(0, 1, 2)))
	assert.False(t, IsHeaderAncestor(nil, head(0)))
}
