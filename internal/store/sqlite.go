package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ArchiveIndex keeps a local SQLite record of what each run archived and
// trashed, so past cleanups stay queryable after the JSON files scatter.
type ArchiveIndex struct {
	db *sql.DB
}

// RunSummary is one finished (or in-flight) cleanup run.
type RunSummary struct {
	ID           string
	StartedAt    string
	FinishedAt   string
	SavedCount   int
	TrashedCount int
}

// Open opens (or creates) the index database at the given path and runs
// migrations.
func Open(dbPath string) (*ArchiveIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &ArchiveIndex{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL DEFAULT '',
	finished_at   TEXT NOT NULL DEFAULT '',
	saved_count   INTEGER NOT NULL DEFAULT 0,
	trashed_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS archived (
	message_id  TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	sender      TEXT NOT NULL,
	subject     TEXT NOT NULL DEFAULT '',
	path        TEXT NOT NULL,
	archived_at TEXT NOT NULL DEFAULT ''
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *ArchiveIndex) Close() error {
	return s.db.Close()
}

// BeginRun registers a run before its execute phase starts.
func (s *ArchiveIndex) BeginRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET started_at = excluded.started_at
	`, runID, startedAt.UTC().Format(time.RFC3339))
	return err
}

// FinishRun stores the final counters for a run.
func (s *ArchiveIndex) FinishRun(ctx context.Context, runID string, saved, trashed int, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, saved_count = ?, trashed_count = ?
		WHERE id = ?
	`, finishedAt.UTC().Format(time.RFC3339), saved, trashed, runID)
	return err
}

// RecordArchived indexes one saved message.
func (s *ArchiveIndex) RecordArchived(ctx context.Context, runID, messageID, sender, subject, path string, archivedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archived (message_id, run_id, sender, subject, path, archived_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
			run_id      = excluded.run_id,
			sender      = excluded.sender,
			subject     = excluded.subject,
			path        = excluded.path,
			archived_at = excluded.archived_at
	`, messageID, runID, sender, subject, path, archivedAt.UTC().Format(time.RFC3339))
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (s *ArchiveIndex) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, saved_count, trashed_count
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.SavedCount, &r.TrashedCount); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountArchivedBySender returns how many messages from one sender the index
// has ever recorded.
func (s *ArchiveIndex) CountArchivedBySender(ctx context.Context, sender string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM archived WHERE sender = ?", sender).Scan(&count)
	return count, err
}
