// internal/solver/solver.go
//
// Round loop for a single game.
// Responsibilities:
//   - Submit guesses through a Game, retrying a failed submission once.
//   - Feed tile results into the game's KnowledgeState.
//   - Stop on a solve or after the last attempt (Solved / Exhausted).
//   - Otherwise re-filter the full catalog, decide on scouting, and pick the next guess.
//
// Notes:
//   - Every game owns its KnowledgeState; a Solver may play many games one after another
//     or concurrently.
//   - The candidate pool is rebuilt from the catalog each round rather than narrowed from
//     the previous pool.

package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/words"
)

const (
	// DefaultMaxAttempts is the number of guesses a game allows.
	DefaultMaxAttempts = 6
	// DefaultRetryDelay is the backoff before re-submitting a failed guess.
	DefaultRetryDelay = 2 * time.Second
)

// Options configures a Solver.
type Options struct {
	Strategy    Strategy
	StartWord   string // SOARE, CARES, TARES or "random"
	Verbose     bool
	MaxAttempts int
	RetryDelay  time.Duration
	Logger      *zerolog.Logger // defaults to the global logger
	PickOpening func(n int) int // random source for "random" start words
}

// Solver plays games against a catalog.
type Solver struct {
	source WordSource
	opts   Options
	log    zerolog.Logger
}

// New constructs a Solver reading its catalog from source.
func New(source WordSource, opts Options) *Solver {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyNone
	}
	l := log.Logger
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &Solver{source: source, opts: opts, log: l}
}

// Play runs one game to completion. An error means the game was
// abandoned (catalog unavailable, submission failed twice, context
// cancelled) and no outcome is reported.
func (s *Solver) Play(ctx context.Context, g Game) (*Outcome, error) {
	catalog, err := s.source.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	opening, ok := ResolveOpening(s.opts.StartWord, s.opts.PickOpening)
	if !ok {
		s.log.Warn().Str("startWord", s.opts.StartWord).Str("using", opening.Word).Msg("start word is not supported")
	}
	selector := NewSelector(s.source, opening, s.log, s.opts.Verbose)
	knowledge := NewKnowledgeState()
	maxAttempts := s.opts.MaxAttempts

	out := &Outcome{State: InProgress, Opening: opening.Word}
	pool := catalog
	guess := opening.Word

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s.log.Info().Int("attempt", attempt).Str("guess", guess).Msg("trying word")
		raw, err := s.submit(ctx, g, guess)
		if err != nil {
			return nil, fmt.Errorf("submit %s: %w", guess, err)
		}
		out.Guesses = append(out.Guesses, guess)

		facts, hits := s.scan(raw)
		knowledge.Update(facts)
		round := Round{Attempt: attempt, Guess: guess, Feedback: facts}
		if s.opts.Verbose {
			s.log.Info().
				Strs("correct", placementStrings(knowledge.Correct())).
				Strs("present", placementStrings(knowledge.Present())).
				Str("absent", knowledge.Absent().String()).
				Msg("knowledge")
		}

		if hits == WordLength {
			out.State, out.Word, out.Attempts = Solved, guess, attempt
			out.Rounds = append(out.Rounds, round)
			s.log.Info().Str("word", guess).Int("attempts", attempt).Msg("solved")
			if attempt == maxAttempts && len(pool) > 1 {
				s.log.Info().Int("candidates", len(pool)).Msg("close call")
			}
			return out, nil
		}

		if attempt == maxAttempts {
			out.State, out.Attempts = Exhausted, attempt
			out.Rounds = append(out.Rounds, round)
			s.log.Warn().Int("attempts", attempt).Msg("failed to solve")
			s.log.Info().Strs("untried", wordsExcept(pool, guess)).Msg("candidates left untried")
			if r, ok := g.(Revealer); ok {
				if ans, err := r.Answer(ctx); err == nil {
					out.Answer = ans
					s.log.Info().Str("answer", ans).Msg("correct word")
				} else {
					s.log.Warn().Err(err).Msg("correct word not available")
				}
			}
			return out, nil
		}

		pattern, must := Derive(knowledge)
		next := Filter(catalog, pattern, must)
		scout := ShouldScout(knowledge.CorrectCount(), len(next), attempt, maxAttempts, s.opts.Strategy)

		round.PoolBefore, round.PoolAfter = len(pool), len(next)
		round.DropOutPct = dropOutPct(len(pool), len(next))
		round.Scouted = scout
		out.Rounds = append(out.Rounds, round)
		s.logRound(attempt, pattern, must, pool, next)

		pool = next
		guess, err = selector.Choose(ctx, RoundState{
			Attempt:        attempt,
			CatalogSize:    len(catalog),
			Previous:       guess,
			Pool:           pool,
			Scout:          scout,
			CorrectLetters: knowledge.CorrectLetters(),
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// submit sends guess, retrying a transient failure once after the
// configured delay.
func (s *Solver) submit(ctx context.Context, g Game, guess string) ([]LetterFact, error) {
	calls := 0
	r := retry.New[[]LetterFact](retry.Config{
		MaxAttempts:   2,
		InitialDelay:  s.opts.RetryDelay,
		BackoffPolicy: retry.BackoffExponential,
		Multiplier:    2.0,
		NonRetryableErrors: []error{
			ErrGuessRejected,
			context.Canceled,
			context.DeadlineExceeded,
		},
	})
	return r.Do(ctx, func(ctx context.Context) ([]LetterFact, error) {
		calls++
		if calls > 1 {
			s.log.Warn().Str("guess", guess).Msg("retrying word")
		}
		return g.Submit(ctx, guess)
	})
}

// scan keeps facts up to the first unclassifiable tile and counts hits.
func (s *Solver) scan(raw []LetterFact) ([]LetterFact, int) {
	hits := 0
	for i, f := range raw {
		switch f.Kind {
		case Correct:
			hits++
		case Present, Absent:
		default:
			s.log.Error().Int("position", f.Position).Str("letter", string(f.Letter)).Msg("could not classify tile, skipping rest of row")
			return raw[:i], hits
		}
	}
	return raw, hits
}

func (s *Solver) logRound(attempt int, pattern Pattern, must LetterSet, before, after []words.Entry) {
	if s.opts.Verbose {
		s.log.Info().Str("pattern", pattern.String()).Str("mustContain", must.String()).Msg("constraints")
	}
	if len(before) == 0 {
		s.log.Warn().Int("attempt", attempt).Int("candidates", len(after)).Msg("no words filtered out")
	} else {
		s.log.Info().
			Int("attempt", attempt).
			Int("candidates", len(after)).
			Float64("filteredPct", dropOutPct(len(before), len(after))).
			Msg("candidates narrowed")
	}
	if s.opts.Verbose {
		s.log.Info().Strs("candidates", wordsOf(after[:min(10, len(after))])).Msg("next round candidates")
	}
}

func wordsOf(entries []words.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Word
	}
	return out
}

func wordsExcept(entries []words.Entry, skip string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Word != skip {
			out = append(out, e.Word)
		}
	}
	return out
}
