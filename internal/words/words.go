// internal/words/words.go
//
// Word catalog for the solver.
//
// Responsibilities:
//   - Define Entry, the (word, repeat propensity) record every other package works with.
//   - Parse the tabular catalog format (CSV, "word,repeat_propensity" per row).
//   - Supply a re-readable Source backed by a file or by the embedded default list.
//
// Catalog rules:
//   • Words are normalized to upper case and must be 5 letters A–Z; other rows are skipped.
//   • A missing or empty propensity column is computed with RepeatPropensity.
//   • Duplicate words keep their first row.
//
// Environment variables (read by internal/config, passed in here):
//   WORDS_FILE=/path/to/words.csv

package words

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/robalobadob/wordlebot/assets"
)

// Length is the number of letters in every catalog word.
const Length = 5

// ErrEmpty is returned when a catalog yields no usable words.
var ErrEmpty = errors.New("words: catalog is empty")

// Entry is one catalog row. Lower RepeatPropensity means fewer repeated letters.
type Entry struct {
	Word             string  `json:"word"`
	RepeatPropensity float64 `json:"repeatPropensity"`
}

// Less orders entries by (RepeatPropensity, Word) ascending.
func (e Entry) Less(o Entry) bool {
	if e.RepeatPropensity != o.RepeatPropensity {
		return e.RepeatPropensity < o.RepeatPropensity
	}
	return e.Word < o.Word
}

// RepeatPropensity scores internal letter repetition: the sum of n*(n-1)
// over each letter's count n, divided by 20. A word of distinct letters
// scores 0, one doubled letter scores 0.1, a tripled letter 0.3.
func RepeatPropensity(word string) float64 {
	var counts [26]int
	for i := 0; i < len(word); i++ {
		if c := word[i]; c >= 'A' && c <= 'Z' {
			counts[c-'A']++
		}
	}
	sum := 0
	for _, n := range counts {
		sum += n * (n - 1)
	}
	return float64(sum) / 20
}

// Normalize upper-cases and trims w, reporting whether it is a valid catalog word.
func Normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	return w, len(w) == Length && isAlpha(w)
}

// Parse reads a catalog from r. The first row is treated as a header
// when its propensity column is not numeric.
func Parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []Entry
	seen := make(map[string]struct{})
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError carries the line already.
			return nil, fmt.Errorf("words: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		line, _ := cr.FieldPos(0)
		w, ok := Normalize(rec[0])
		if !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		prop := RepeatPropensity(w)
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			p, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
			if err != nil {
				if first {
					continue // header
				}
				return nil, fmt.Errorf("words: line %d: bad repeat_propensity %q", line, rec[1])
			}
			prop = p
		}
		seen[w] = struct{}{}
		out = append(out, Entry{Word: w, RepeatPropensity: prop})
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// ReadFile loads a catalog from a CSV file on disk.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

var (
	defaultOnce    sync.Once
	defaultEntries []Entry
	defaultErr     error
)

// Default returns a copy of the embedded catalog. Parsed once.
func Default() ([]Entry, error) {
	defaultOnce.Do(func() {
		f, err := assets.WordsCSV()
		if err != nil {
			defaultErr = err
			return
		}
		defer f.Close()
		defaultEntries, defaultErr = Parse(f)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]Entry(nil), defaultEntries...), nil
}

// Source is a re-readable catalog. Every call to Words returns a fresh
// slice; reading has no side effects.
type Source struct {
	path string
}

// NewSource returns a Source reading path, or the embedded catalog when path is empty.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Words reads the catalog.
func (s *Source) Words(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return Default()
	}
	return ReadFile(s.path)
}

// Static is an in-memory Source, mostly for tests and fixed lists.
type Static []Entry

// Words returns a copy of the list.
func (s Static) Words(ctx context.Context) ([]Entry, error) {
	return append([]Entry(nil), s...), nil
}

// FromWords builds entries for plain words, computing propensities.
// Invalid words are skipped.
func FromWords(list ...string) Static {
	out := make(Static, 0, len(list))
	for _, w := range list {
		if n, ok := Normalize(w); ok {
			out = append(out, Entry{Word: n, RepeatPropensity: RepeatPropensity(n)})
		}
	}
	return out
}

// Random returns a cryptographically random word from entries.
// If entries is empty, falls back to "CRANE".
func Random(entries []Entry) string {
	if len(entries) == 0 {
		return "CRANE"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(entries))))
	return entries[nBig.Int64()].Word
}

// isAlpha reports whether s is all upper-case ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
