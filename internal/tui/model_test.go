package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/session"
	"github.com/leapstack-labs/leaptable/internal/testutil"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkbook(src Source) *loader.Workbook {
	wb := &loader.Workbook{
		Table: src.Table.ID,
		Attributes: map[string][]core.Attribute{
			"people": {{ID: "name", Name: "Name"}, {ID: "secret", Name: "Secret"}},
			"roles":  {{ID: "role", Name: "Role"}},
			"teams":  {{ID: "title", Name: "Title"}},
		},
		Config: src.Table.Config,
	}
	for _, id := range []string{"d0", "d1", "d2", "x0", "x1", "x2"} {
		wb.Documents = append(wb.Documents, src.Documents[id])
	}
	for _, id := range []string{"l0", "l1", "l2"} {
		wb.LinkInstances = append(wb.LinkInstances, src.LinkInstances[id])
	}
	return wb
}

func newTestModel(t *testing.T, save func() (string, error)) (Model, *session.Session) {
	t.Helper()
	src := testSource()
	sess := session.New(session.Config{
		Table:     src.Table,
		Documents: src.Documents,
		Cursor:    &core.HeaderCursor{TableID: "t", PartIndex: 0, ColumnPath: []int{0}},
		Logger:    testutil.NewTestLogger(t),
	})
	m := New(Config{
		Session:  sess,
		Workbook: testWorkbook(src),
		Save:     save,
		Logger:   testutil.NewTestLogger(t),
	})
	t.Cleanup(func() { sess.Unsubscribe(m.changes) })
	return m, sess
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestModel_Navigate(t *testing.T) {
	m, sess := newTestModel(t, nil)

	m, _ = press(t, m, "j")
	assert.Equal(t, &core.BodyCursor{TableID: "t", PartIndex: 0, RowPath: []int{0}, ColumnIndex: 0}, sess.Cursor())

	m, _ = press(t, m, "j", "e")
	assert.True(t, sess.Snapshot().Table.Config.Rows[1].Expanded)
	assert.NoError(t, m.err)

	m, _ = press(t, m, "enter")
	assert.False(t, sess.Snapshot().Table.Config.Rows[1].Expanded)
}

func TestModel_HideColumn(t *testing.T) {
	m, sess := newTestModel(t, nil)

	m, _ = press(t, m, "j", "H")
	assert.ErrorIs(t, m.err, session.ErrNoCursor)
	assert.Contains(t, m.View(), "hide column")

	sess.SetCursor(&core.HeaderCursor{TableID: "t", PartIndex: 2, ColumnPath: []int{0}})
	m, _ = press(t, m, "H")
	require.NoError(t, m.err)
	cols := sess.Snapshot().Table.Config.Parts[2].Columns
	assert.Equal(t, core.ColumnKindHidden, cols[0].Kind())
	assert.NotContains(t, m.View(), "Title")
}

func TestModel_ShowHidden(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.NotContains(t, m.View(), "…")

	m, _ = press(t, m, ".")
	assert.True(t, m.opts.ShowHidden)
	assert.Contains(t, m.View(), "…")
}

func TestModel_Save(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = press(t, m, "s")
	assert.ErrorIs(t, m.err, errNoSave)

	calls := 0
	m, _ = newTestModel(t, func() (string, error) {
		calls++
		return "saved view default", nil
	})
	m, _ = press(t, m, "s")
	assert.Equal(t, 1, calls)
	assert.Contains(t, m.View(), "saved view default")

	m, _ = newTestModel(t, func() (string, error) { return "", errors.New("disk full") })
	m, _ = press(t, m, "s")
	assert.Contains(t, m.View(), "disk full")
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t, nil)
			_, cmd := press(t, m, k)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())

			_, open := <-m.changes
			assert.False(t, open, "subscription released")
		})
	}
}

func TestModel_SessionChangesWakeTheProgram(t *testing.T) {
	m, sess := newTestModel(t, nil)
	cmd := m.Init()
	require.NotNil(t, cmd)

	_, moved := sess.Move(core.Down)
	require.True(t, moved)
	assert.Equal(t, changedMsg{}, cmd())
}

func TestModel_ScrollsToCursor(t *testing.T) {
	m, sess := newTestModel(t, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 5})
	m = next.(Model)

	sess.SetCursor(&core.BodyCursor{TableID: "t", PartIndex: 0, RowPath: []int{2}})
	next, cmd := m.Update(changedMsg{})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, m.offset)

	view := m.View()
	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "Cy")
	assert.NotContains(t, view, "Ada")

	sess.SetCursor(&core.BodyCursor{TableID: "t", PartIndex: 0, RowPath: []int{0}})
	next, _ = m.Update(changedMsg{})
	assert.Equal(t, 0, next.(Model).offset)
}

func TestModel_Reload(t *testing.T) {
	m, sess := newTestModel(t, nil)
	sess.SetCursor(&core.BodyCursor{TableID: "t", PartIndex: 2, RowPath: []int{2, 0}})

	wb := testWorkbook(testSource())
	wb.Attributes["teams"] = []core.Attribute{{ID: "title", Name: "Team"}}
	wb.Config.Rows = wb.Config.Rows[:2]
	m.Reload(wb)

	assert.Equal(t, &core.BodyCursor{TableID: "t", PartIndex: 2, RowPath: []int{1, 0}}, sess.Cursor())
	view := m.View()
	assert.Contains(t, view, "Team")
	assert.NotContains(t, view, "Cy")
}
