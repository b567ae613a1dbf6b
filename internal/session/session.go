// Package session holds the live state of one table being navigated and
// edited: its config, its cursor and the documents behind its rows.
//
// Every mutation runs under a single lock as a read-modify-write step, so
// concurrent callers observe edits and moves in one total order.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/internal/cursor"
	"github.com/leapstack-labs/leaptable/internal/notifier"
	"github.com/leapstack-labs/leaptable/internal/persist"
	"github.com/leapstack-labs/leaptable/internal/rows"
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// ErrNoCursor is returned by cursor-relative edits when the session has no
// cursor of the required kind.
var ErrNoCursor = errors.New("no cursor")

// ErrNothingToToggle is returned when no row on the cursor's path groups more
// than one linked row.
var ErrNothingToToggle = errors.New("no collapsible row under cursor")

// EditFunc rewrites a table config. It must not modify its argument.
type EditFunc func(config core.TableConfig) (core.TableConfig, error)

// Config configures a Session.
type Config struct {
	// Table is the initial table.
	Table core.Table
	// Documents maps document ids to documents (optional).
	Documents map[string]core.Document
	// Cursor is the initial cursor (optional). It is clamped to the table.
	Cursor core.Cursor
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Session is a mutex-guarded table, cursor and document set.
type Session struct {
	mu     sync.Mutex
	table  core.Table
	cursor core.Cursor
	docs   map[string]core.Document

	logger   *slog.Logger
	notifier *notifier.Notifier
}

// Snapshot is a consistent view of a session. Its slices are shared with the
// session and must be treated as read-only.
type Snapshot struct {
	Table  core.Table
	Cursor core.Cursor
}

// New creates a session.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	docs := make(map[string]core.Document, len(cfg.Documents))
	for id, d := range cfg.Documents {
		docs[id] = d
	}
	s := &Session{
		table:    cfg.Table,
		docs:     docs,
		logger:   logger.With("table", cfg.Table.ID),
		notifier: notifier.New(),
	}
	s.cursor = Clamp(s.table, cfg.Cursor)
	return s
}

// Snapshot returns the current table and cursor.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Table: s.table, Cursor: s.cursor}
}

// Cursor returns the current cursor, possibly nil.
func (s *Session) Cursor() core.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Document returns the document with the given id.
func (s *Session) Document(id string) (core.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	return d, ok
}

// Documents returns a copy of the document set.
func (s *Session) Documents() map[string]core.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]core.Document, len(s.docs))
	for id, d := range s.docs {
		out[id] = d
	}
	return out
}

// Persisted returns the config as it should be stored.
func (s *Session) Persisted() *core.TableConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return persist.FilterConfig(&s.table.Config)
}

// Subscribe returns a channel pinged after every change. Release it with
// Unsubscribe.
func (s *Session) Subscribe() chan struct{} {
	return s.notifier.Subscribe()
}

// Unsubscribe releases a channel returned by Subscribe.
func (s *Session) Unsubscribe(ch chan struct{}) {
	s.notifier.Unsubscribe(ch)
}

// SetCursor places the cursor. The cursor is clamped to the table; a nil
// cursor clears it.
func (s *Session) SetCursor(c core.Cursor) core.Cursor {
	s.mu.Lock()
	s.cursor = Clamp(s.table, c)
	c = s.cursor
	s.mu.Unlock()

	s.notifier.Broadcast()
	return c
}

// Move moves the cursor one step and reports whether it changed. A dead end
// leaves the cursor in place.
func (s *Session) Move(dir core.Direction) (core.Cursor, bool) {
	s.mu.Lock()
	prev := s.cursor
	next := cursor.Move(s.table, prev, dir)
	moved := !cursor.Equal(prev, next)
	s.cursor = next
	s.mu.Unlock()

	if !moved {
		s.logger.Debug("cursor dead end", "direction", dir.String(), "cursor", describe(prev))
		return next, false
	}
	s.logger.Debug("cursor moved", "direction", dir.String(), "cursor", describe(next))
	s.notifier.Broadcast()
	return next, true
}

// Apply runs fn on the current config and installs the result. The cursor is
// clamped to the new config. On error nothing changes.
func (s *Session) Apply(fn EditFunc) error {
	s.mu.Lock()
	config, err := fn(s.table.Config)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.table.Config = config
	s.cursor = Clamp(s.table, s.cursor)
	s.mu.Unlock()

	s.notifier.Broadcast()
	return nil
}

// Replace swaps in a new table and document set, keeping the cursor where it
// still resolves.
func (s *Session) Replace(table core.Table, docs map[string]core.Document) {
	s.mu.Lock()
	s.table = table
	s.docs = make(map[string]core.Document, len(docs))
	for id, d := range docs {
		s.docs[id] = d
	}
	if s.cursor != nil && s.cursor.Table() != table.ID {
		s.cursor = nil
	}
	s.cursor = Clamp(s.table, s.cursor)
	s.mu.Unlock()

	s.logger.Debug("table replaced", "parts", len(table.Config.Parts), "rows", len(table.Config.Rows))
	s.notifier.Broadcast()
}

// HideColumn hides the header column under the cursor.
func (s *Session) HideColumn() error {
	c, ok := s.Cursor().(*core.HeaderCursor)
	if !ok || len(c.ColumnPath) == 0 {
		return fmt.Errorf("hide column: %w", ErrNoCursor)
	}
	return s.Apply(func(config core.TableConfig) (core.TableConfig, error) {
		return EditColumns(config, c.PartIndex, func(cols core.Columns) (core.Columns, error) {
			return columns.Hide(cols, c.ColumnPath)
		})
	})
}

// ToggleExpanded flips the expansion of the deepest row on the body cursor's
// path that links more than one row.
func (s *Session) ToggleExpanded() error {
	c, ok := s.Cursor().(*core.BodyCursor)
	if !ok {
		return fmt.Errorf("toggle row: %w", ErrNoCursor)
	}
	return s.Apply(func(config core.TableConfig) (core.TableConfig, error) {
		for n := len(c.RowPath); n > 0; n-- {
			row := rows.Find(config.Rows, c.RowPath[:n])
			if row == nil || len(row.LinkedRows) < 2 {
				continue
			}
			forest, err := rows.SetExpanded(config.Rows, c.RowPath[:n], !row.Expanded)
			if err != nil {
				return config, err
			}
			config.Rows = forest
			return config, nil
		}
		return config, ErrNothingToToggle
	})
}

// Indent nests the top-level row at index under its previous sibling and
// records the new parent on the row's document.
func (s *Session) Indent(index int) (rows.ParentPatch, error) {
	return s.reparent(index, rows.Indent)
}

// Outdent moves the top-level row at index one hierarchy level up.
func (s *Session) Outdent(index int) (rows.ParentPatch, error) {
	return s.reparent(index, rows.Outdent)
}

type reparentFunc func([]core.Row, int, map[string]core.Document) ([]core.Row, rows.ParentPatch, error)

func (s *Session) reparent(index int, fn reparentFunc) (rows.ParentPatch, error) {
	s.mu.Lock()
	forest, patch, err := fn(s.table.Config.Rows, index, s.docs)
	if err != nil {
		s.mu.Unlock()
		return rows.ParentPatch{}, err
	}
	s.table.Config.Rows = forest
	s.applyPatch(patch)
	s.mu.Unlock()

	s.logger.Debug("row reparented", "document", patch.DocumentID, "parent", patch.ParentID)
	s.notifier.Broadcast()
	return patch, nil
}

// applyPatch records a new parent on a document. Callers hold s.mu.
func (s *Session) applyPatch(p rows.ParentPatch) {
	if p.DocumentID == "" {
		return
	}
	doc, ok := s.docs[p.DocumentID]
	if !ok {
		return
	}
	doc.MetaData.ParentID = p.ParentID
	s.docs[p.DocumentID] = doc
}

// EditColumns applies fn to the columns of one part and returns the new
// config. Other parts are shared with the input.
func EditColumns(config core.TableConfig, partIndex int, fn func(core.Columns) (core.Columns, error)) (core.TableConfig, error) {
	if partIndex < 0 || partIndex >= len(config.Parts) {
		return config, fmt.Errorf("part %d out of range [0,%d): %w", partIndex, len(config.Parts), core.ErrInvalidPath)
	}
	cols, err := fn(config.Parts[partIndex].Columns)
	if err != nil {
		return config, err
	}
	parts := append([]core.Part(nil), config.Parts...)
	parts[partIndex].Columns = cols
	config.Parts = parts
	return config, nil
}

func describe(c core.Cursor) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return "none"
}
