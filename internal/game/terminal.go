// internal/game/terminal.go
//
// Interactive game: the bot proposes, a person plays the guess in the real
// game and types back the colours.
// Responsibilities:
//   - Print each guess and prompt for a five-character result row.
//   - Map g/y/. (and a few synonyms) to feedback kinds.
//   - Pass unrecognised characters through as Unknown so the solver can
//     stop reading the row there.

package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/wordlebot/internal/solver"
)

// NewTerminal reads results from in and writes prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out}
}

// Submit prints guess and reads the result row. Rows of the wrong
// length are asked for again; end of input is an error.
func (t *Terminal) Submit(ctx context.Context, guess string) ([]solver.LetterFact, error) {
	if len(guess) != solver.WordLength {
		return nil, fmt.Errorf("%q: %w", guess, ErrInvalidGuess)
	}
	t.attempt++
	fmt.Fprintf(t.out, "Guess %d: %s\n", t.attempt, strings.ToUpper(guess))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprint(t.out, "Result (g=correct, y=present, .=absent): ")
		if !t.in.Scan() {
			if err := t.in.Err(); err != nil {
				return nil, fmt.Errorf("read result: %w", err)
			}
			return nil, fmt.Errorf("read result: %w", io.ErrUnexpectedEOF)
		}
		row := strings.TrimSpace(t.in.Text())
		if len(row) != solver.WordLength {
			fmt.Fprintf(t.out, "need exactly %d characters\n", solver.WordLength)
			continue
		}
		out := make([]solver.LetterFact, solver.WordLength)
		for i := 0; i < solver.WordLength; i++ {
			out[i] = solver.LetterFact{Kind: markKind(row[i]), Letter: upperByte(guess[i]), Position: i + 1}
		}
		return out, nil
	}
}

func markKind(c byte) solver.FactKind {
	switch c {
	case 'g', 'G', 'c', 'C', '+':
		return solver.Correct
	case 'y', 'Y', 'p', 'P', '?':
		return solver.Present
	case '.', '-', 'x', 'X', 'b', 'B', '_':
		return solver.Absent
	default:
		return solver.Unknown
	}
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
