// internal/solver/types.go
//
// Core type definitions for the solver.
// Defines:
//   - FactKind / LetterFact: one tile of feedback (correct, present, absent).
//   - Placement: a (letter, position) pair.
//   - LetterSet: a small set of letters A–Z.
//   - Game, Revealer, WordSource: the collaborators the solver drives.
//   - State, Round, Outcome: what a finished game reports.

package solver

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/robalobadob/wordlebot/internal/words"
)

// WordLength is the number of tiles per guess.
const WordLength = words.Length

// FactKind classifies one feedback tile.
type FactKind int

const (
	Unknown FactKind = iota
	Correct
	Present
	Absent
)

// String returns the lower-case kind name.
func (k FactKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// ParseFactKind maps a tile state name to a FactKind. Both the
// correct/present/absent and hit/present/miss vocabularies are accepted;
// anything else is Unknown.
func ParseFactKind(s string) FactKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "hit":
		return Correct
	case "present":
		return Present
	case "absent", "miss":
		return Absent
	default:
		return Unknown
	}
}

// LetterFact is the feedback for one tile. Position is 1-based.
type LetterFact struct {
	Kind     FactKind
	Letter   byte
	Position int
}

// CorrectAt, PresentAt and AbsentAt build facts for letter at position.
func CorrectAt(letter byte, pos int) LetterFact { return LetterFact{Correct, upper(letter), pos} }
func PresentAt(letter byte, pos int) LetterFact { return LetterFact{Present, upper(letter), pos} }
func AbsentAt(letter byte, pos int) LetterFact  { return LetterFact{Absent, upper(letter), pos} }

// String renders a fact as e.g. "A:present@3".
func (f LetterFact) String() string {
	return string(f.Letter) + ":" + f.Kind.String() + "@" + strconv.Itoa(f.Position)
}

// MarshalJSON renders the letter and kind as strings.
func (f LetterFact) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Letter   string `json:"letter"`
		Position int    `json:"position"`
	}{f.Kind.String(), string(f.Letter), f.Position})
}

// Placement is a letter at a 1-based position.
type Placement struct {
	Letter   byte
	Position int
}

// String renders a placement as e.g. "E@5".
func (p Placement) String() string { return string(p.Letter) + "@" + strconv.Itoa(p.Position) }

func placementStrings(ps []Placement) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

// LetterSet is a set of letters A–Z.
type LetterSet uint32

// LettersOf returns the set of letters in s.
func LettersOf(s string) LetterSet {
	var set LetterSet
	for i := 0; i < len(s); i++ {
		set = set.Add(s[i])
	}
	return set
}

// Add returns the set with c added. Non-letters are ignored.
func (s LetterSet) Add(c byte) LetterSet {
	c = upper(c)
	if c < 'A' || c > 'Z' {
		return s
	}
	return s | 1<<(c-'A')
}

// Has reports whether c is in the set.
func (s LetterSet) Has(c byte) bool {
	c = upper(c)
	return c >= 'A' && c <= 'Z' && s&(1<<(c-'A')) != 0
}

// Len returns the number of letters in the set.
func (s LetterSet) Len() int {
	n := 0
	for x := s; x != 0; x &= x - 1 {
		n++
	}
	return n
}

// String lists the letters in alphabetical order.
func (s LetterSet) String() string {
	var b strings.Builder
	for c := byte('A'); c <= 'Z'; c++ {
		if s.Has(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Game is the collaborator that accepts guesses and reports feedback,
// one fact per tile, left to right.
type Game interface {
	Submit(ctx context.Context, guess string) ([]LetterFact, error)
}

// ErrGuessRejected marks a submission the game will never accept, such as
// a word outside its list or a guess after the game ended. Games wrap it;
// the solver does not retry it.
var ErrGuessRejected = errors.New("guess rejected")

// ErrAnswerUnavailable is returned by a Revealer that cannot disclose the answer.
var ErrAnswerUnavailable = errors.New("answer unavailable")

// Revealer is implemented by games that can disclose the answer after a loss.
type Revealer interface {
	Answer(ctx context.Context) (string, error)
}

// WordSource supplies the catalog. Reads must be idempotent.
type WordSource interface {
	Words(ctx context.Context) ([]words.Entry, error)
}

// State is the solver's game state.
type State string

const (
	InProgress State = "in_progress"
	Solved     State = "solved"
	Exhausted  State = "exhausted"
)

// Round records one attempt for diagnostics.
type Round struct {
	Attempt    int          `json:"attempt"`
	Guess      string       `json:"guess"`
	Feedback   []LetterFact `json:"feedback"`
	PoolBefore int          `json:"poolBefore"`
	PoolAfter  int          `json:"poolAfter"`
	DropOutPct float64      `json:"dropOutPct"`
	Scouted    bool         `json:"scouted"`
}

// Outcome is the result of a finished game.
type Outcome struct {
	State    State    `json:"state"`
	Word     string   `json:"word,omitempty"`   // winning word when Solved
	Attempts int      `json:"attempts"`         // guesses submitted
	Answer   string   `json:"answer,omitempty"` // revealed answer when Exhausted
	Opening  string   `json:"opening"`
	Rounds   []Round  `json:"rounds"`
	Guesses  []string `json:"guesses"`
}
