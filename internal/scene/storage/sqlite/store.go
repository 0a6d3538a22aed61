// Package sqlite provides the SQLite-backed scene snapshot archive.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/scenesync/internal/scene/storage"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scene_snapshots (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	scene_name    TEXT    NOT NULL,
	saved_at      INTEGER NOT NULL,
	document_json TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scene_snapshots_scene_name_saved_at
	ON scene_snapshots (scene_name, saved_at DESC);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed snapshot archive.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) a snapshot archive at the provided path
// and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup
// paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutSnapshot archives one snapshot.
func (s *Store) PutSnapshot(ctx context.Context, snapshot storage.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(snapshot.SceneName) == "" {
		return fmt.Errorf("scene name is required")
	}
	if strings.TrimSpace(snapshot.DocumentJSON) == "" {
		return fmt.Errorf("snapshot document is required")
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO scene_snapshots (scene_name, saved_at, document_json) VALUES (?, ?, ?)`,
		snapshot.SceneName, toMillis(snapshot.SavedAt), snapshot.DocumentJSON,
	)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot retrieves the most recent snapshot for a scene.
func (s *Store) GetLatestSnapshot(ctx context.Context, sceneName string) (storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return storage.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(sceneName) == "" {
		return storage.Snapshot{}, fmt.Errorf("scene name is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT scene_name, saved_at, document_json
		 FROM scene_snapshots
		 WHERE scene_name = ?
		 ORDER BY saved_at DESC, id DESC
		 LIMIT 1`,
		sceneName,
	)

	var snapshot storage.Snapshot
	var savedAt int64
	if err := row.Scan(&snapshot.SceneName, &savedAt, &snapshot.DocumentJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Snapshot{}, storage.ErrNotFound
		}
		return storage.Snapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	snapshot.SavedAt = fromMillis(savedAt)
	return snapshot, nil
}

// CountSnapshots returns the number of archived snapshots for a scene.
func (s *Store) CountSnapshots(ctx context.Context, sceneName string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var count int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scene_snapshots WHERE scene_name = ?`, sceneName,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}
