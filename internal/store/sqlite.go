package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/notifeed/internal/model"
)

// defaultRecentLimit caps RecentFetches when no limit is given.
const defaultRecentLimit = 100

// SQLiteStore implements the Journal interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Journal = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLiteStore) SchemaVersion() (int, error) {
	var v int
	if err := s.db.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		currentVersion, err = s.SchemaVersion()
		if err != nil {
			return err
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// RecordFetch appends one entry to the fetch journal.
func (s *SQLiteStore) RecordFetch(ctx context.Context, entry model.FetchEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}
	entry.FetchedAt = entry.FetchedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO fetch_log (id, filter, page, record_count, duration_ms, error, fetched_at)
		VALUES (:id, :filter, :page, :record_count, :duration_ms, :error, :fetched_at)`,
		entry,
	)
	if err != nil {
		return fmt.Errorf("recording fetch: %w", err)
	}
	return nil
}

// RecentFetches returns journal entries, newest first.
func (s *SQLiteStore) RecentFetches(ctx context.Context, filter FetchFilter) ([]model.FetchEntry, error) {
	var (
		where []string
		args  []any
	)
	if filter.Filter != nil {
		where = append(where, "filter = ?")
		args = append(args, *filter.Filter)
	}
	if filter.FailedOnly {
		where = append(where, "error != ''")
	}

	query := "SELECT id, filter, page, record_count, duration_ms, error, fetched_at FROM fetch_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	query += " ORDER BY fetched_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	var entries []model.FetchEntry
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("querying fetch log: %w", err)
	}
	return entries, nil
}

// PruneFetches deletes all but the newest keep entries and returns how
// many rows were removed.
func (s *SQLiteStore) PruneFetches(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM fetch_log WHERE rowid NOT IN (
			SELECT rowid FROM fetch_log ORDER BY fetched_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning fetch log: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
