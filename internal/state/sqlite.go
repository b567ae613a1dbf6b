package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leaptable/internal/persist"
	"github.com/leapstack-labs/leaptable/pkg/core"
	_ "modernc.org/sqlite" // register the sqlite driver
)

// SQLiteStore implements ViewStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore creates a new SQLite view store instance.
// If logger is nil, a discard logger is used.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger, now: time.Now}
}

// NewSQLiteStoreWithDB wraps an already opened database.
func NewSQLiteStoreWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	s := NewSQLiteStore(logger)
	s.db = db
	return s
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("opened view store", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// SaveView inserts or updates a view. A view without an id takes over the id
// of an existing view with the same table and name, or gets a fresh one. The
// stored config is trimmed of trailing placeholders.
func (s *SQLiteStore) SaveView(ctx context.Context, v *View) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if v.TableID == "" || v.Name == "" {
		return fmt.Errorf("view needs a table id and a name")
	}

	if v.ID == "" {
		existing, err := s.GetViewByName(ctx, v.TableID, v.Name)
		switch {
		case err == nil:
			v.ID = existing.ID
			v.CreatedAt = existing.CreatedAt
		case errors.Is(err, ErrViewNotFound):
			v.ID = generateID()
		default:
			return err
		}
	}

	config, err := json.Marshal(persist.FilterConfig(&v.Config))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	var cursor sql.NullString
	if v.Cursor != nil {
		data, err := core.MarshalCursor(v.Cursor)
		if err != nil {
			return fmt.Errorf("failed to encode cursor: %w", err)
		}
		cursor = sql.NullString{String: string(data), Valid: true}
	}

	now := s.now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO views (id, table_id, name, source_path, config, cursor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			table_id = excluded.table_id,
			name = excluded.name,
			source_path = excluded.source_path,
			config = excluded.config,
			cursor = excluded.cursor,
			updated_at = excluded.updated_at`,
		v.ID, v.TableID, v.Name, v.SourcePath, string(config), cursor,
		formatTime(v.CreatedAt), formatTime(v.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save view %s: %w", v.Name, err)
	}

	s.logger.Debug("saved view", "id", v.ID, "table", v.TableID, "name", v.Name)
	return nil
}

const selectView = `SELECT id, table_id, name, source_path, config, cursor, created_at, updated_at FROM views`

// GetView retrieves a view by id.
func (s *SQLiteStore) GetView(ctx context.Context, id string) (*View, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	row := s.db.QueryRowContext(ctx, selectView+` WHERE id = ?`, id)
	v, err := scanView(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get view %s: %w", id, err)
	}
	return v, nil
}

// GetViewByName retrieves a view by table and name.
func (s *SQLiteStore) GetViewByName(ctx context.Context, tableID, name string) (*View, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	row := s.db.QueryRowContext(ctx, selectView+` WHERE table_id = ? AND name = ?`, tableID, name)
	v, err := scanView(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get view %s/%s: %w", tableID, name, err)
	}
	return v, nil
}

// ListViews returns the views of a table ordered by name, or of every table
// when tableID is empty.
func (s *SQLiteStore) ListViews(ctx context.Context, tableID string) ([]*View, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := selectView + ` ORDER BY table_id, name`
	var args []any
	if tableID != "" {
		query = selectView + ` WHERE table_id = ? ORDER BY name`
		args = append(args, tableID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var views []*View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// DeleteView removes a view by id.
func (s *SQLiteStore) DeleteView(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete view %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrViewNotFound)
	}
	s.logger.Debug("deleted view", "id", id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(row scanner) (*View, error) {
	var (
		v                    View
		config               string
		cursor               sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&v.ID, &v.TableID, &v.Name, &v.SourcePath, &config, &cursor, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(config), &v.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cursor.Valid {
		if v.Cursor, err = core.UnmarshalCursor([]byte(cursor.String)); err != nil {
			return nil, fmt.Errorf("failed to decode cursor: %w", err)
		}
	}
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
