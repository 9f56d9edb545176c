// internal/store/store.go
//
// Persistence interfaces and records.
// Defines:
//   - Run: one finished bot game (solve, daily, bench, remote or assisted).
//   - User: an account that can own runs.
//   - RunStore / UserStore: implemented by Memory and SQLite.
//   - Stats: aggregate results over a set of runs.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordlebot/internal/solver"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username taken")
)

// Run kinds.
const (
	KindSolve  = "solve"
	KindDaily  = "daily"
	KindBench  = "bench"
	KindRemote = "remote"
	KindAssist = "assist"
)

// DefaultLimit caps list queries without an explicit limit.
const DefaultLimit = 50

// Run is one finished game.
type Run struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner,omitempty"` // user id; empty for guests and the CLI
	Kind      string    `json:"kind"`
	Date      string    `json:"date,omitempty"` // daily date key
	Answer    string    `json:"answer,omitempty"`
	Opening   string    `json:"opening"`
	Strategy  string    `json:"strategy"`
	State     string    `json:"state"`
	Attempts  int       `json:"attempts"`
	Guesses   []string  `json:"guesses"`
	ElapsedMs int64     `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Won reports whether the run ended solved.
func (r Run) Won() bool { return r.State == string(solver.Solved) }

// NewRun builds a run record from a solver outcome. The answer is the
// solved word, the revealed answer, or the given one.
func NewRun(kind string, strategy solver.Strategy, answer string, out *solver.Outcome, elapsed time.Duration) *Run {
	if out.Word != "" {
		answer = out.Word
	} else if out.Answer != "" {
		answer = out.Answer
	}
	return &Run{
		Kind:      kind,
		Answer:    answer,
		Opening:   out.Opening,
		Strategy:  string(strategy),
		State:     string(out.State),
		Attempts:  out.Attempts,
		Guesses:   append([]string(nil), out.Guesses...),
		ElapsedMs: elapsed.Milliseconds(),
	}
}

// prepare fills in the ID and creation time of a new run.
func (r *Run) prepare(now time.Time) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now.UTC()
	}
	if r.Guesses == nil {
		r.Guesses = []string{}
	}
}

// RunFilter narrows ListRuns. Zero fields match everything.
type RunFilter struct {
	Owner string
	Kind  string
	Date  string
	Limit int
}

func (f RunFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

func (f RunFilter) match(r *Run) bool {
	return (f.Owner == "" || r.Owner == f.Owner) &&
		(f.Kind == "" || r.Kind == f.Kind) &&
		(f.Date == "" || r.Date == f.Date)
}

// Stats aggregates a set of runs.
type Stats struct {
	Games       int         `json:"games"`
	Wins        int         `json:"wins"`
	WinRate     float64     `json:"winRate"`
	AvgAttempts float64     `json:"avgAttempts"` // over wins
	Histogram   map[int]int `json:"histogram"`   // attempts -> wins
}

// Add folds one run into the totals. Call Finish afterwards.
func (s *Stats) Add(r Run) {
	if s.Histogram == nil {
		s.Histogram = map[int]int{}
	}
	s.Games++
	if r.Won() {
		s.Wins++
		s.Histogram[r.Attempts]++
	}
}

// Finish computes the rates.
func (s *Stats) Finish() {
	if s.Histogram == nil {
		s.Histogram = map[int]int{}
	}
	s.WinRate, s.AvgAttempts = 0, 0
	if s.Games > 0 {
		s.WinRate = round2(float64(s.Wins) / float64(s.Games))
	}
	if s.Wins > 0 {
		total := 0
		for a, n := range s.Histogram {
			total += a * n
		}
		s.AvgAttempts = round2(float64(total) / float64(s.Wins))
	}
}

func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }

// RunStore persists run history.
type RunStore interface {
	// SaveRun stores a new run, assigning ID and CreatedAt when empty.
	SaveRun(ctx context.Context, r *Run) error
	// GetRun returns ErrNotFound for unknown ids.
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns matching runs, newest first.
	ListRuns(ctx context.Context, f RunFilter) ([]Run, error)
	// Stats aggregates the runs of owner ("" for everyone).
	Stats(ctx context.Context, owner string) (Stats, error)
	// Leaderboard returns solved daily runs for date ordered by attempts,
	// elapsed time, then creation.
	Leaderboard(ctx context.Context, date string, limit int) ([]Run, error)
}

// User is an account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserStore persists accounts. Usernames are unique case-insensitively.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	UserByName(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
}

// Store is everything the server persists.
type Store interface {
	RunStore
	UserStore
	Close() error
}
