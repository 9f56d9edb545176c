package solver

import (
	"context"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordlebot/internal/words"
)

// RoundState is everything the selector needs to pick the next guess.
type RoundState struct {
	Attempt        int           // attempt just completed
	CatalogSize    int           // unfiltered catalog size
	Previous       string        // guess just submitted
	Pool           []words.Entry // candidates consistent with all feedback
	Scout          bool          // scouting policy decision
	CorrectLetters LetterSet     // letters known to be in the right spot
}

// Selector picks the next guess.
type Selector struct {
	source  WordSource
	opening Opening
	log     zerolog.Logger
	verbose bool
}

// NewSelector returns a selector that re-reads source when scouting.
func NewSelector(source WordSource, opening Opening, log zerolog.Logger, verbose bool) *Selector {
	return &Selector{source: source, opening: opening, log: log, verbose: verbose}
}

// Choose returns the next guess. A selection that is not WordLength
// letters long is replaced by BackupWord.
func (s *Selector) Choose(ctx context.Context, rs RoundState) (string, error) {
	var next string
	switch {
	case rs.Attempt == 1 && rs.CatalogSize > FirstRoundThreshold:
		next = s.opening.Second
	case rs.Scout:
		s.log.Info().
			Int("correct", rs.CorrectLetters.Len()).
			Int("candidates", len(rs.Pool)).
			Msg("too many possibilities left, trying a scout word")
		catalog, err := s.source.Words(ctx)
		if err != nil {
			return "", fmt.Errorf("reload catalog: %w", err)
		}
		next = s.scout(catalog, rs.Pool, rs.CorrectLetters)
	default:
		next = leastSimilar(rs.Pool, rs.Previous)
	}

	if len(next) != WordLength {
		s.log.Warn().Str("next", next).Str("backup", BackupWord).Msg("selected word is not 5 letters, using backup word")
		return BackupWord, nil
	}
	return next, nil
}

type scoutWord struct {
	entry words.Entry
	score uint
}

// scout ranks every catalog word by how many still-relevant letters it
// covers, then by repeat propensity; full ties keep catalog order. A
// top-scoring word that is also a candidate is preferred.
func (s *Selector) scout(catalog, pool []words.Entry, correct LetterSet) string {
	remaining := bitset.New(26)
	for _, e := range pool {
		for i := 0; i < len(e.Word); i++ {
			if c := e.Word[i]; c >= 'A' && c <= 'Z' && !correct.Has(c) {
				remaining.Set(uint(c - 'A'))
			}
		}
	}

	ranked := make([]scoutWord, 0, len(catalog))
	for _, e := range catalog {
		ranked = append(ranked, scoutWord{entry: e, score: remaining.IntersectionCardinality(letterBits(e.Word))})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].entry.RepeatPropensity < ranked[j].entry.RepeatPropensity
	})
	if len(ranked) == 0 {
		return ""
	}
	if s.verbose {
		top := ranked[:min(5, len(ranked))]
		ev := s.log.Info()
		for i, r := range top {
			ev = ev.Uint(fmt.Sprintf("%d:%s", i+1, r.entry.Word), r.score)
		}
		ev.Msg("top ranked scout words")
	}

	inPool := make(map[string]struct{}, len(pool))
	for _, e := range pool {
		inPool[e.Word] = struct{}{}
	}
	best := ranked[0].score
	for _, r := range ranked {
		if r.score != best {
			break
		}
		if _, ok := inPool[r.entry.Word]; ok {
			s.log.Info().Str("word", r.entry.Word).Msg("scout word is also a possible answer")
			return r.entry.Word
		}
	}
	return ranked[0].entry.Word
}

// leastSimilar returns the candidate least similar to previous, or ""
// when no candidate is strictly below 1. Ties keep the earlier candidate.
func leastSimilar(pool []words.Entry, previous string) string {
	best := 1.0
	next := ""
	for _, e := range pool {
		if sim := Similarity(e.Word, previous); sim < best {
			next, best = e.Word, sim
		}
	}
	return next
}

// Similarity is the SequenceMatcher ratio of a and b: twice the number of
// letters in matching blocks over the total length, in [0, 1].
func Similarity(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}
	return difflib.NewMatcher(splitLetters(a), splitLetters(b)).Ratio()
}

func splitLetters(s string) []string {
	out := make([]string, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[i : i+1]
	}
	return out
}

func letterBits(word string) *bitset.BitSet {
	b := bitset.New(26)
	for i := 0; i < len(word); i++ {
		if c := word[i]; c >= 'A' && c <= 'Z' {
			b.Set(uint(c - 'A'))
		}
	}
	return b
}
