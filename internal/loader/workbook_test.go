package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	wb, err := Load(filepath.Join("testdata", "tasks.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "tasks", wb.Table)
	assert.Equal(t, filepath.Join("testdata", "tasks.yaml"), wb.Path)
	require.Len(t, wb.Config.Parts, 3)
	assert.True(t, wb.Config.Parts[1].IsLink())
	assert.Equal(t, [2]string{"c1", "c2"}, wb.LinkTypes[0].CollectionIDs)

	cols := wb.Config.Parts[0].Columns
	require.Len(t, cols, 3)
	title := cols[0].(*core.CompoundColumn)
	assert.Equal(t, []string{"a1"}, title.AttributeIDs)
	assert.Equal(t, 160, title.Width)
	address := cols[1].(*core.CompoundColumn)
	require.Len(t, address.Children, 1)
	assert.Equal(t, []string{"a4"}, address.Children[0].Attributes())
	assert.Equal(t, core.ColumnKindHidden, cols[2].Kind())

	rows := wb.Config.Rows
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Collapsed())
	assert.Equal(t, "li2", rows[0].LinkedRows[1].LinkInstanceID)
	assert.Equal(t, "t1", rows[1].ParentDocumentID)

	docs := wb.DocumentsByID()
	assert.Equal(t, "t1", docs["t2"].MetaData.ParentID)
	assert.Equal(t, "Ada", docs["p1"].Data["a1"])
}

func TestLoad_JSON(t *testing.T) {
	wb, err := Load(filepath.Join("testdata", "flat.json"))
	require.NoError(t, err)

	cols := wb.Config.Parts[0].Columns
	require.Len(t, cols, 2)
	assert.Equal(t, 120, cols[0].(*core.CompoundColumn).Width)
	draft := cols[1].(*core.CompoundColumn)
	assert.False(t, draft.Initialized())
	assert.Equal(t, "Draft", draft.AttributeName)
	assert.Equal(t, "tmp-1", wb.Config.Rows[1].CorrelationID)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing table", "config: {parts: []}"},
		{"unknown column type", "table: t\nconfig: {parts: [{collectionId: c1, columns: [{type: single}]}]}"},
		{"columns not a list", "table: t\nconfig: {parts: [{collectionId: c1, columns: {a: 1}}]}"},
		{"unknown field", "table: t\nsheets: []"},
		{"link part without link type", "table: t\nconfig: {parts: [{collectionId: c1}, {collectionId: c2}]}"},
		{"first part without collection", "table: t\nconfig: {parts: [{linkTypeId: l1}]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML)
			assert.ErrorIs(t, err, ErrInvalidWorkbook)
		})
	}

	_, err := Parse([]byte("{"), FormatJSON)
	assert.Error(t, err)
	_, err = Parse([]byte("table: t"), Format("toml"))
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	paths := []string{
		filepath.Join("testdata", "flat.json"),
		filepath.Join("testdata", "tasks.yaml"),
	}
	wbs, err := LoadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, wbs, 2)
	assert.Equal(t, "flat", wbs[0].Table)
	assert.Equal(t, "tasks", wbs[1].Table)

	_, err = LoadAll(context.Background(), append(paths, filepath.Join("testdata", "missing.yaml")))
	assert.Error(t, err)
}

func TestReconcile(t *testing.T) {
	wb, err := Load(filepath.Join("testdata", "tasks.yaml"))
	require.NoError(t, err)

	wb.Attributes["c1"] = append(wb.Attributes["c1"], core.Attribute{ID: "a5", Name: "Priority"})
	wb.Attributes["c2"] = wb.Attributes["c2"][:1]
	wb.Reconcile()

	first := wb.Config.Parts[0].Columns
	require.Len(t, first, 4)
	assert.Equal(t, []string{"a5"}, first[3].Attributes())
	assert.Equal(t, 160, first[0].(*core.CompoundColumn).Width, "layout kept")
	assert.Len(t, wb.Config.Parts[2].Columns, 1, "vanished attribute dropped")
}

func TestMarshal_RoundTrip(t *testing.T) {
	wb, err := Load(filepath.Join("testdata", "tasks.yaml"))
	require.NoError(t, err)
	wb.Path = ""

	for _, format := range []Format{FormatYAML, FormatJSON} {
		data, err := Marshal(wb, format)
		require.NoError(t, err)
		again, err := Parse(data, format)
		require.NoError(t, err, string(data))
		assert.Equal(t, wb.Config, again.Config, "format %s", format)
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("noext"))

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	wb, err := Load(filepath.Join("testdata", "tasks.yaml"))
	require.NoError(t, err)

	docs := wb.DocumentsByID()
	t3 := docs["t3"]
	t3.MetaData.ParentID = "t1"
	wb.UpdateDocuments(map[string]core.Document{"t3": t3, "unknown": {ID: "unknown"}})
	assert.Len(t, wb.Documents, 6)

	for _, name := range []string{"out.yaml", "out.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Save(wb, path))

		again, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, wb.Config, again.Config)
		assert.Equal(t, "t1", again.DocumentsByID()["t3"].MetaData.ParentID)
	}

	assert.Error(t, Save(wb, filepath.Join(t.TempDir(), "missing", "out.yaml")))
}
