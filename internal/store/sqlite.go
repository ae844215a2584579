// internal/store/sqlite.go
//
// SQLite-backed run store.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Saving, listing and summarizing solver runs.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite is a Records implementation on a SQLite file.
type SQLite struct {
	db *sql.DB
}

/**
 * OpenSQLite opens (and creates if missing) the run database at path
 * and applies pending migrations.
 */
func OpenSQLite(path string) (*SQLite, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

/**
 * openDB opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/runs.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys.
 */
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

/**
 * migrate applies the embedded migrations/*.sql files.
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each file in lexical order inside its own transaction.
 * - Skips files already applied.
 */
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------------- runs ----------------------------------- */

const runColumns = `id, answer, oracle, policy, outcome, guesses, feedback, error, started_at, finished_at`

func (s *SQLite) Save(ctx context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO runs
            (id, answer, oracle, policy, outcome, guesses, feedback, num_guesses, error, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Answer, r.Oracle, r.Policy, r.Outcome.String(),
		strings.Join(r.Guesses, ","), strings.Join(r.Feedback, ","), len(r.Guesses),
		r.Error, formatTime(r.StartedAt), formatTime(r.FinishedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return r.ID, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	return r, err
}

/**
 * List fetches the most recent runs.
 *
 * - Ordered by finished_at DESC, then id ASC.
 * - Default limit is 20 if not specified.
 */
func (s *SQLite) List(ctx context.Context, limit int) ([]Record, error) {
	limit = listLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+runColumns+`
        FROM runs
        ORDER BY finished_at DESC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Summary(ctx context.Context) ([]Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT policy,
               COUNT(1),
               SUM(CASE WHEN outcome='won'  THEN 1 ELSE 0 END),
               SUM(CASE WHEN outcome='lost' THEN 1 ELSE 0 END),
               COALESCE(AVG(CASE WHEN outcome='won' THEN num_guesses END), 0)
        FROM runs
        GROUP BY policy
        ORDER BY policy ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Stats
	for rows.Next() {
		var st Stats
		if err := rows.Scan(&st.Policy, &st.Runs, &st.Wins, &st.Losses, &st.MeanGuesses); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Record, error) {
	var (
		r                 Record
		outcome           string
		guesses, feedback string
		started, finished string
	)
	if err := sc.Scan(&r.ID, &r.Answer, &r.Oracle, &r.Policy, &outcome,
		&guesses, &feedback, &r.Error, &started, &finished); err != nil {
		return Record{}, err
	}
	if err := r.Outcome.UnmarshalText([]byte(outcome)); err != nil {
		return Record{}, err
	}
	r.Guesses = splitList(guesses)
	r.Feedback = splitList(feedback)
	r.StartedAt = parseTime(started)
	r.FinishedAt = parseTime(finished)
	return r, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// timeLayout is fixed-width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*MemoryRecords)(nil)
	_ Store = (*Badger)(nil)
)
