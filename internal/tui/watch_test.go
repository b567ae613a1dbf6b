package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leaptable/internal/loader"
	"github.com/leapstack-labs/leaptable/internal/testutil"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.yaml")
	wb := &loader.Workbook{
		Table: "t",
		Config: core.TableConfig{
			Parts: []core.Part{{CollectionID: "people", Columns: core.Columns{}}},
			Rows:  []core.Row{},
		},
	}
	require.NoError(t, loader.Save(wb, path))

	w, err := NewWatcher(path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *loader.Workbook, 4)
	go w.Run(ctx, func(wb *loader.Workbook) { got <- wb })

	// Other files and broken content never reach the callback.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("table: [broken"), 0o600))
	select {
	case wb := <-got:
		t.Fatalf("unexpected reload: %+v", wb)
	case <-time.After(200 * time.Millisecond):
	}

	wb.Attributes = map[string][]core.Attribute{"people": {{ID: "name", Name: "Name"}}}
	require.NoError(t, loader.Save(wb, path))

	select {
	case reloaded := <-got:
		assert.Equal(t, "t", reloaded.Table)
		cols := reloaded.Config.Parts[0].Columns
		require.Len(t, cols, 1, "reconciled against the new attributes")
		assert.Equal(t, []string{"name"}, cols[0].Attributes())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_StopsWithContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table: t\n"), 0o600))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, func(*loader.Workbook) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "wb.yaml"), nil)
	assert.Error(t, err)
}
