package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Item is one persisted query/response exchange. The store is the sole owner;
// the UI only ever receives copies.
type Item struct {
	ID             int64
	Query          string
	Response       string
	HasScreenshot  bool
	ScreenshotPath string
	Timestamp      time.Time
	ModelName      string
	Metadata       map[string]any
	// RawMetadata keeps the stored value when it cannot be parsed as JSON.
	RawMetadata string
}

// Store persists history rows in a local sqlite database.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Open creates the database file (and its directory) when missing and applies
// the schema.
func Open(dbPath string, log *zap.SugaredLogger) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Infow("history store opened", "path", dbPath)
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    query TEXT NOT NULL,
    response TEXT NOT NULL,
    has_screenshot INTEGER DEFAULT 0,
    screenshot_path TEXT,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
    model_name TEXT,
    metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Add inserts a new row and returns its id. Metadata is serialized as JSON.
func (s *Store) Add(ctx context.Context, item Item) (int64, error) {
	if strings.TrimSpace(item.Query) == "" {
		return 0, fmt.Errorf("query is required")
	}

	var metadata any
	if item.Metadata != nil {
		data, err := json.Marshal(item.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = string(data)
	}

	ts := item.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO history (query, response, has_screenshot, screenshot_path, timestamp, model_name, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, item.Query, item.Response, boolToInt(item.HasScreenshot), nullable(item.ScreenshotPath),
		ts.UTC().Format(timestampLayout), nullable(item.ModelName), metadata)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	s.log.Debugw("history item added", "id", id)
	return id, nil
}

// List returns up to limit items, newest first. A non-empty filter matches a
// substring of either the query or the response.
func (s *Store) List(ctx context.Context, limit, offset int, filter string) ([]Item, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
SELECT id, query, response, has_screenshot, screenshot_path, timestamp, model_name, metadata
FROM history`
	args := []any{}
	if filter != "" {
		query += " WHERE query LIKE ? OR response LIKE ?"
		pattern := "%" + filter + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := s.scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list history rows: %w", err)
	}
	return items, nil
}

// Get fetches one item by id, or nil when absent.
func (s *Store) Get(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, query, response, has_screenshot, screenshot_path, timestamp, model_name, metadata
FROM history
WHERE id = ?
`, id)

	item, err := s.scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpdateResponse overwrites the response text of one row. Both the completion
// and the cancellation path go through here, exactly once per row.
func (s *Store) UpdateResponse(ctx context.Context, id int64, response string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE history SET response = ? WHERE id = ?`, response, id)
	if err != nil {
		return fmt.Errorf("update response: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("update response: item %d not found", id)
	}
	return nil
}

// Delete removes one item and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete history item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete rows affected: %w", err)
	}
	if rows > 0 {
		s.log.Debugw("history item deleted", "id", id)
	}
	return rows > 0, nil
}

// Clear removes every item and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear rows affected: %w", err)
	}
	s.log.Infow("history cleared", "deleted", count)
	return count, nil
}

func (s *Store) scanItem(scan func(dest ...any) error) (Item, error) {
	var (
		item           Item
		hasScreenshot  int
		screenshotPath sql.NullString
		timestamp      string
		modelName      sql.NullString
		metadata       sql.NullString
	)
	if err := scan(&item.ID, &item.Query, &item.Response, &hasScreenshot,
		&screenshotPath, &timestamp, &modelName, &metadata); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("scan history item: %w", err)
	}

	item.HasScreenshot = hasScreenshot != 0
	item.ScreenshotPath = screenshotPath.String
	item.ModelName = modelName.String
	item.Timestamp = parseTimestamp(timestamp)

	if metadata.Valid && metadata.String != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(metadata.String), &parsed); err != nil {
			// Malformed metadata is not fatal; keep the raw value around.
			s.log.Warnw("malformed history metadata", "id", item.ID, "err", err)
			item.RawMetadata = metadata.String
		} else {
			item.Metadata = parsed
		}
	}
	return item, nil
}

// Fixed-width UTC layout so the textual timestamp column sorts chronologically.
const timestampLayout = "2006-01-02 15:04:05.000000000"

func parseTimestamp(value string) time.Time {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
