// Package history keeps the rename journal in a local SQLite database so
// past runs can be listed and audited.
package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"deebee/internal/media"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// Store is a SQLite-backed rename journal.
type Store struct {
	conn   *sql.DB
	path   string
	logger zerolog.Logger
}

// Open opens (creating if needed) the journal at path and applies pending
// migrations.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening history: %w", err)
	}

	s := &Store{conn: conn, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{s.logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.Up(s.conn, "migrations"); err != nil {
		return fmt.Errorf("migrating history: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Record appends one executed rename to the journal.
func (s *Store) Record(ctx context.Context, e media.JournalEntry) error {
	if e.RenamedAt.IsZero() {
		e.RenamedAt = time.Now()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO renames (run_id, original_path, target_path, metadata_id, title, format, adjusted, renamed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.OriginalPath, e.TargetPath, e.MetadataID, e.Title, e.Format,
		boolToInt(e.Adjusted), e.RenamedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording rename: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns
// everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]media.JournalEntry, error) {
	query := `SELECT run_id, original_path, target_path, metadata_id, title, format, adjusted, renamed_at
		FROM renames ORDER BY renamed_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// Run returns the entries of the run whose ID starts with runID, in the
// order they were recorded, so the short IDs shown by listings work too.
// An empty runID matches nothing.
func (s *Store) Run(ctx context.Context, runID string) ([]media.JournalEntry, error) {
	if runID == "" {
		return nil, nil
	}
	return s.query(ctx, `SELECT run_id, original_path, target_path, metadata_id, title, format, adjusted, renamed_at
		FROM renames WHERE substr(run_id, 1, ?) = ? ORDER BY id ASC`, len(runID), runID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]media.JournalEntry, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []media.JournalEntry
	for rows.Next() {
		var (
			e        media.JournalEntry
			adjusted int
			at       string
		)
		if err := rows.Scan(&e.RunID, &e.OriginalPath, &e.TargetPath, &e.MetadataID,
			&e.Title, &e.Format, &adjusted, &at); err != nil {
			return nil, fmt.Errorf("reading history row: %w", err)
		}
		e.Adjusted = adjusted != 0
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			e.RenamedAt = t.Local()
		} else {
			s.logger.Warn().Str("value", at).Msg("unparseable renamed_at")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// gooseLogger routes migration output to the diagnostic log.
type gooseLogger struct {
	l zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
