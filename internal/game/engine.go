// internal/game/engine.go
//
// Simulated game engine with a known answer.
// Responsibilities:
//   - Create games with the default dimensions (6 guesses of 5 letters).
//   - Validate guesses (length, alphabetic, optional allowed list).
//   - Score guesses using the classic two-pass algorithm.
//   - Report per-tile feedback to the solver and reveal the answer when asked.
//
// Notes:
//   - Local satisfies solver.Game and solver.Revealer.

package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/words"
)

const defaultRows = solver.DefaultMaxAttempts

// NewLocal constructs a game for answer. When allowed is non-empty,
// guesses outside it are rejected with ErrNotInWordList.
func NewLocal(answer string, allowed []words.Entry) (*Local, error) {
	ans, ok := words.Normalize(answer)
	if !ok {
		return nil, fmt.Errorf("answer %q: %w", answer, ErrInvalidGuess)
	}
	g := &Local{id: randomID(), answer: ans, rows: defaultRows}
	if len(allowed) > 0 {
		g.allowed = make(map[string]struct{}, len(allowed))
		for _, e := range allowed {
			g.allowed[e.Word] = struct{}{}
		}
	}
	return g, nil
}

// ID is a compact identifier for correlating logs and stored runs.
func (g *Local) ID() string { return g.id }

// Submit validates and scores a guess.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly five letters A–Z (case-insensitive).
//   - Guess must be in the allowed list when one was given.
func (g *Local) Submit(ctx context.Context, guess string) ([]solver.LetterFact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return nil, ErrFinished
	}
	w, ok := words.Normalize(guess)
	if !ok {
		return nil, fmt.Errorf("%q: %w", guess, ErrInvalidGuess)
	}
	if g.allowed != nil {
		if _, ok := g.allowed[w]; !ok {
			return nil, fmt.Errorf("%s: %w", w, ErrNotInWordList)
		}
	}

	marks := Score(g.answer, w)
	g.guesses = append(g.guesses, w)
	if allHit(marks) {
		g.finished, g.won = true, true
	} else if len(g.guesses) >= g.rows {
		g.finished = true
	}

	out := make([]solver.LetterFact, len(marks))
	for i, m := range marks {
		out[i] = solver.LetterFact{Kind: m.Kind(), Letter: w[i], Position: i + 1}
	}
	return out, nil
}

// Answer reveals the solution.
func (g *Local) Answer(context.Context) (string, error) { return g.answer, nil }

// Guesses returns the guesses made so far.
func (g *Local) Guesses() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.guesses...)
}

// State reports "playing", "won" or "lost".
func (g *Local) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		if g.won {
			return "won"
		}
		return "lost"
	}
	return "playing"
}

// Score implements the standard two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count remaining (non-hit) answer letters.
//
// Pass 2:
//   - For each non-hit guess letter: if there is remaining count for that letter,
//     mark Present and decrement the count; otherwise mark Miss.
//
// Both words must be upper-case and of equal length.
func Score(answer, guess string) []Mark {
	answer, guess = strings.ToUpper(answer), strings.ToUpper(guess)
	n := len(guess)
	res := make([]Mark, n)
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = MarkHit
		} else if j := idx(answer[i]); j >= 0 {
			counts[j]++
		}
	}
	for i := 0; i < n; i++ {
		if res[i] == MarkHit {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkMiss
		}
	}
	return res
}

// idx maps an upper-case ASCII letter to 0..25, or -1.
func idx(c byte) int {
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}

func allHit(m []Mark) bool {
	for _, x := range m {
		if x != MarkHit {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
