// internal/store/sqlite.go
//
// SQLite-backed Store.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Run history, daily leaderboard and account queries.
//
// Notes:
//   - Timestamps are stored as fixed-width UTC strings so they sort lexically.
//   - Guesses are stored as a JSON array.

package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

const timeFormat = "2006-01-02T15:04:05.000000Z"

// SQLite is a Store on a SQLite database file.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (and creates if missing) the database at path and
// applies pending migrations.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// migrate applies the embedded migrations in lexical order.
//
//   - Uses a _migrations table to track applied files.
//   - Each file runs in its own transaction together with its record.
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

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(body)); err != nil {
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

const runColumns = `id, COALESCE(owner,''), kind, date, answer, opening, strategy, state, attempts, guesses, elapsed_ms, created_at`

// SaveRun inserts a new run.
func (s *SQLite) SaveRun(ctx context.Context, r *Run) error {
	r.prepare(s.now())
	guesses, err := json.Marshal(r.Guesses)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO runs (id, owner, kind, date, answer, opening, strategy, state, attempts, guesses, elapsed_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullable(r.Owner), r.Kind, r.Date, r.Answer, r.Opening, r.Strategy, r.State,
		r.Attempts, string(guesses), r.ElapsedMs, r.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun loads one run.
func (s *SQLite) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListRuns returns matching runs, newest first.
func (s *SQLite) ListRuns(ctx context.Context, f RunFilter) ([]Run, error) {
	var where []string
	var args []any
	if f.Owner != "" {
		where, args = append(where, "owner=?"), append(args, f.Owner)
	}
	if f.Kind != "" {
		where, args = append(where, "kind=?"), append(args, f.Kind)
	}
	if f.Date != "" {
		where, args = append(where, "date=?"), append(args, f.Date)
	}
	q := `SELECT ` + runColumns + ` FROM runs`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, f.limit())
	return s.queryRuns(ctx, q, args...)
}

// Stats aggregates the runs of owner.
func (s *SQLite) Stats(ctx context.Context, owner string) (Stats, error) {
	cond, args := "", []any{}
	if owner != "" {
		cond, args = " WHERE owner=?", append(args, owner)
	}
	st := Stats{Histogram: map[int]int{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs`+cond, args...).Scan(&st.Games); err != nil {
		return Stats{}, fmt.Errorf("count runs: %w", err)
	}

	solved := " WHERE state='solved'"
	if owner != "" {
		solved += " AND owner=?"
	}
	rows, err := s.db.QueryContext(ctx, `SELECT attempts, COUNT(1) FROM runs`+solved+` GROUP BY attempts`, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("histogram: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var attempts, n int
		if err := rows.Scan(&attempts, &n); err != nil {
			return Stats{}, err
		}
		st.Histogram[attempts] = n
		st.Wins += n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	st.Finish()
	return st, nil
}

// Leaderboard fetches the best solved daily runs for date.
//
//   - Ordered by attempts ASC, then elapsed time ASC, then created_at ASC.
//   - Default limit is 20 if not specified.
func (s *SQLite) Leaderboard(ctx context.Context, date string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(ctx, `
        SELECT `+runColumns+`
        FROM runs
        WHERE kind=? AND date=? AND state='solved'
        ORDER BY attempts ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, KindDaily, date, limit)
}

func (s *SQLite) queryRuns(ctx context.Context, q string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var r Run
	var guesses, created string
	if err := sc.Scan(&r.ID, &r.Owner, &r.Kind, &r.Date, &r.Answer, &r.Opening, &r.Strategy,
		&r.State, &r.Attempts, &guesses, &r.ElapsedMs, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(guesses), &r.Guesses); err != nil {
		return nil, fmt.Errorf("run %s guesses: %w", r.ID, err)
	}
	r.CreatedAt = parseTime(created)
	return &r, nil
}

/* ------------------------------- users ---------------------------------- */

// CreateUser inserts an account. A duplicate username (ignoring case)
// returns ErrUsernameTaken.
func (s *SQLite) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	u := &User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, CreatedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(timeFormat))
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// UserByName loads an account ignoring case.
func (s *SQLite) UserByName(ctx context.Context, username string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                      FROM users WHERE lower(username)=lower(?)`, username))
}

// UserByID loads an account by id.
func (s *SQLite) UserByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at
	                      FROM users WHERE id=?`, id))
}

func (s *SQLite) scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
