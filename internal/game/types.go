// internal/game/types.go
//
// Type definitions for the local game implementations.
// Defines:
//   - Mark: per-letter result of a scored guess (hit/present/miss).
//   - Local: a simulated game with a known answer.
//   - Terminal: a game whose feedback is typed in by a person.

package game

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/robalobadob/wordlebot/internal/solver"
)

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the answer but in a different position.
//   - "miss":    letter does not exist in the answer (or all copies are used up).
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

// Kind maps a mark to the solver's feedback kind.
func (m Mark) Kind() solver.FactKind { return solver.ParseFactKind(string(m)) }

// Guess errors wrap solver.ErrGuessRejected so the solver does not resend them.
var (
	ErrFinished      = fmt.Errorf("%w: game finished", solver.ErrGuessRejected)
	ErrInvalidGuess  = fmt.Errorf("%w: invalid guess", solver.ErrGuessRejected)
	ErrNotInWordList = fmt.Errorf("%w: not in word list", solver.ErrGuessRejected)
)

// Local holds the state of a single simulated game.
type Local struct {
	mu       sync.Mutex
	id       string
	answer   string              // upper case
	allowed  map[string]struct{} // nil accepts any well-formed word
	rows     int
	guesses  []string
	finished bool
	won      bool
}

// Terminal asks a person for the feedback of each guess.
type Terminal struct {
	in      *bufio.Scanner
	out     io.Writer
	attempt int
}
