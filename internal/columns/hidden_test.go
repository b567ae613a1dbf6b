package columns

import (
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAdjacentHidden(t *testing.T) {
	tests := []struct {
		name string
		in   core.Columns
		want core.Columns
	}{
		{
			name: "empty",
			in:   core.Columns{},
			want: core.Columns{},
		},
		{
			name: "run of three keeps order and duplicates",
			in: core.Columns{
				core.NewCompound("a1"),
				core.NewHidden("a2"),
				core.NewHidden("a3", "a4"),
				core.NewHidden("a2"),
				core.NewCompound("a5"),
			},
			want: core.Columns{
				core.NewCompound("a1"),
				core.NewHidden("a2", "a3", "a4", "a2"),
				core.NewCompound("a5"),
			},
		},
		{
			name: "separated bundles stay apart",
			in:   core.Columns{core.NewHidden("a1"), core.NewCompound("a2"), core.NewHidden("a3")},
			want: core.Columns{core.NewHidden("a1"), core.NewCompound("a2"), core.NewHidden("a3")},
		},
		{
			name: "nested children",
			in: core.Columns{
				core.NewCompound("a1", core.NewHidden("a2"), core.NewHidden("a3")),
			},
			want: core.Columns{
				core.NewCompound("a1", core.NewHidden("a2", "a3")),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeAdjacentHidden(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, MergeAdjacentHidden(got), "merge must be idempotent")
		})
	}
}

func TestMergeAdjacentHidden_DoesNotMutateInput(t *testing.T) {
	first := core.NewHidden("a1")
	in := core.Columns{first, core.NewHidden("a2")}
	_ = MergeAdjacentHidden(in)
	assert.Equal(t, []string{"a1"}, first.AttributeIDs)
	assert.Len(t, in, 2)
}

func TestHide(t *testing.T) {
	cols := core.Columns{
		core.NewHidden("a1"),
		core.NewCompound("a2"),
		core.NewHidden("a3"),
		core.NewCompound("a4"),
	}

	out, err := Hide(cols, []int{1})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, core.NewHidden("a1", "a2", "a3"), out[0])

	_, err = Hide(cols, []int{0})
	assert.ErrorIs(t, err, core.ErrTypeMismatch)

	_, err = Hide(core.Columns{core.NewUninitialized("New")}, []int{0})
	assert.ErrorIs(t, err, core.ErrTypeMismatch)

	_, err = Hide(cols, nil)
	assert.ErrorIs(t, err, core.ErrInvalidPath)
}

func TestShowHidden(t *testing.T) {
	attrs := []core.Attribute{
		{ID: "a1", Name: "Title"},
		{ID: "a2", Name: "Address"},
		{ID: "a3", Name: "Address.City"},
		{ID: "a4", Name: "Owner"},
	}
	cols := core.Columns{core.NewCompound("a1"), core.NewHidden("a2", "a4")}

	t.Run("one attribute", func(t *testing.T) {
		out, err := ShowHidden(cols, []int{1}, []string{"a2"}, attrs)
		require.NoError(t, err)
		require.Len(t, out, 3)
		shown := out[1].(*core.CompoundColumn)
		assert.Equal(t, "a2", shown.AttributeID())
		assert.Equal(t, []string{"a3"}, ids(shown.Children))
		assert.Equal(t, core.NewHidden("a4"), out[2])
	})

	t.Run("whole bundle", func(t *testing.T) {
		out, err := ShowHidden(cols, []int{1}, nil, attrs)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2", "a4"}, ids(out))
	})

	t.Run("compound is rejected", func(t *testing.T) {
		_, err := ShowHidden(cols, []int{0}, nil, attrs)
		assert.ErrorIs(t, err, core.ErrTypeMismatch)
	})
}

func TestExtendHidden(t *testing.T) {
	cols := core.Columns{core.NewHidden("a1"), core.NewCompound("a2")}

	out, err := ExtendHidden(cols, []int{0}, "a3", "a4")
	require.NoError(t, err)
	assert.Equal(t, core.NewHidden("a1", "a3", "a4"), out[0])
	assert.Equal(t, []string{"a1"}, cols[0].Attributes())

	_, err = ExtendHidden(cols, []int{1}, "a3")
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestMergeHidden(t *testing.T) {
	cols := core.Columns{core.NewHidden("a1"), core.NewHidden("a2"), core.NewCompound("a3")}

	out, err := MergeHidden(cols, []int{0})
	require.NoError(t, err)
	assert.Equal(t, core.Columns{core.NewHidden("a1", "a2"), core.NewCompound("a3")}, out)

	_, err = MergeHidden(cols, []int{1})
	assert.ErrorIs(t, err, core.ErrTypeMismatch, "right neighbour is compound")

	_, err = MergeHidden(cols, []int{2})
	assert.ErrorIs(t, err, core.ErrTypeMismatch, "left is compound")
}
