// internal/store/memory.go
//
// In-memory implementations.
// Used when no database is configured, and in tests.
//
// Characteristics:
//   - Memory keeps runs and users; Games keeps hosted game sessions.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Lookups of missing ids return ErrNotFound.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordlebot/internal/game"
)

// Memory is a map-backed Store.
type Memory struct {
	mu    sync.RWMutex
	runs  []*Run // insertion order
	users map[string]*User
	now   func() time.Time
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]*User), now: time.Now}
}

// SaveRun appends a copy of r.
func (m *Memory) SaveRun(ctx context.Context, r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.prepare(m.now())
	cp := *r
	cp.Guesses = append([]string(nil), r.Guesses...)
	m.runs = append(m.runs, &cp)
	return nil
}

// GetRun looks up a run by ID.
func (m *Memory) GetRun(ctx context.Context, id string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// ListRuns returns matching runs, newest first.
func (m *Memory) ListRuns(ctx context.Context, f RunFilter) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Run{}
	for i := len(m.runs) - 1; i >= 0 && len(out) < f.limit(); i-- {
		if f.match(m.runs[i]) {
			out = append(out, *m.runs[i])
		}
	}
	return out, nil
}

// Stats aggregates the runs of owner.
func (m *Memory) Stats(ctx context.Context, owner string) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var s Stats
	for _, r := range m.runs {
		if owner == "" || r.Owner == owner {
			s.Add(*r)
		}
	}
	s.Finish()
	return s, nil
}

// Leaderboard returns the best solved daily runs for date.
func (m *Memory) Leaderboard(ctx context.Context, date string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	var rows []Run
	for _, r := range m.runs {
		if r.Kind == KindDaily && r.Date == date && r.Won() {
			rows = append(rows, *r)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Attempts != b.Attempts {
			return a.Attempts < b.Attempts
		}
		if a.ElapsedMs != b.ElapsedMs {
			return a.ElapsedMs < b.ElapsedMs
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []Run{}
	}
	return rows, nil
}

// CreateUser adds an account; usernames are unique ignoring case.
func (m *Memory) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return nil, ErrUsernameTaken
		}
	}
	u := &User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, CreatedAt: m.now().UTC()}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

// UserByName finds an account ignoring case.
func (m *Memory) UserByName(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// UserByID finds an account by id.
func (m *Memory) UserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Games holds hosted game sessions keyed by ID.
type Games struct {
	mu    sync.RWMutex           // guards games map
	games map[string]*game.Local // keyed by Local.ID()
}

// NewGames constructs an empty session store.
func NewGames() *Games {
	return &Games{games: make(map[string]*game.Local)}
}

// Save adds or replaces a session.
func (g *Games) Save(ctx context.Context, gm *game.Local) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.games[gm.ID()] = gm
	return nil
}

// Get looks up a session by ID.
func (g *Games) Get(ctx context.Context, id string) (*game.Local, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if gm, ok := g.games[id]; ok {
		return gm, nil
	}
	return nil, ErrNotFound
}

// Len reports the number of sessions.
func (g *Games) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.games)
}
