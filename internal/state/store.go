// Package state persists saved table views in SQLite.
//
// A view is a named snapshot of a table config, optionally with the cursor
// it was saved at. Configs are always trimmed before they are written.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// ErrViewNotFound is returned when no view matches the requested id or name.
var ErrViewNotFound = errors.New("view not found")

// View is a saved table layout.
type View struct {
	ID         string
	TableID    string
	Name       string
	SourcePath string
	Config     core.TableConfig
	Cursor     core.Cursor
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ViewStore is the persistence contract for views.
type ViewStore interface {
	SaveView(ctx context.Context, v *View) error
	GetView(ctx context.Context, id string) (*View, error)
	GetViewByName(ctx context.Context, tableID, name string) (*View, error)
	ListViews(ctx context.Context, tableID string) ([]*View, error)
	DeleteView(ctx context.Context, id string) error
	Close() error
}

var _ ViewStore = (*SQLiteStore)(nil)
