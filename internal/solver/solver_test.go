package solver_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/words"
)

var ightWords = []string{"BIGHT", "FIGHT", "LIGHT", "MIGHT", "NIGHT", "RIGHT", "SIGHT", "TIGHT", "WIGHT"}

func newSolver(src solver.WordSource, strategy solver.Strategy) *solver.Solver {
	nop := zerolog.Nop()
	return solver.New(src, solver.Options{
		Strategy:   strategy,
		StartWord:  "SOARE",
		RetryDelay: time.Millisecond,
		Logger:     &nop,
	})
}

func localGame(t *testing.T, answer string, allowed []words.Entry) *game.Local {
	t.Helper()
	g, err := game.NewLocal(answer, allowed)
	require.NoError(t, err)
	return g
}

// countingGame counts submissions and fails the first `failures` of them
// with err (a connection reset when nil).
type countingGame struct {
	*game.Local
	calls    int
	failures int
	err      error
}

func (c *countingGame) Submit(ctx context.Context, guess string) ([]solver.LetterFact, error) {
	c.calls++
	if c.calls <= c.failures {
		if c.err != nil {
			return nil, c.err
		}
		return nil, errors.New("connection reset")
	}
	return c.Local.Submit(ctx, guess)
}

func TestPlaySolvesCrane(t *testing.T) {
	src := words.NewSource("")
	catalog, err := src.Words(context.Background())
	require.NoError(t, err)

	g := &countingGame{Local: localGame(t, "CRANE", catalog)}
	out, err := newSolver(src, solver.StrategyV2).Play(context.Background(), g)
	require.NoError(t, err)

	assert.Equal(t, solver.Solved, out.State)
	assert.Equal(t, "CRANE", out.Word)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, 3, g.calls)
	assert.Equal(t, []string{"SOARE", "CIBOL", "CRANE"}, out.Guesses)
	require.Len(t, out.Rounds, 3)
	assert.Equal(t, len(catalog), out.Rounds[0].PoolBefore)
	assert.Less(t, out.Rounds[0].PoolAfter, out.Rounds[0].PoolBefore)
	assert.Equal(t, out.Rounds[0].PoolAfter, out.Rounds[1].PoolBefore)
}

func TestPlaySolvesGiddy(t *testing.T) {
	src := words.NewSource("")
	out, err := newSolver(src, solver.StrategyV2).Play(context.Background(), localGame(t, "GIDDY", nil))
	require.NoError(t, err)
	assert.Equal(t, solver.Solved, out.State)
	assert.Equal(t, []string{"SOARE", "CIBOL", "FIGHT", "GIDDY"}, out.Guesses)
}

func TestPlayExhaustsAndRevealsAnswer(t *testing.T) {
	src := words.FromWords(ightWords...)
	out, err := newSolver(src, solver.StrategyNone).Play(context.Background(), localGame(t, "TIGHT", nil))
	require.NoError(t, err)

	assert.Equal(t, solver.Exhausted, out.State)
	assert.Equal(t, 6, out.Attempts)
	assert.Empty(t, out.Word)
	assert.Equal(t, "TIGHT", out.Answer)
	assert.Equal(t, []string{"SOARE", "BIGHT", "FIGHT", "LIGHT", "MIGHT", "NIGHT"}, out.Guesses)
	for _, r := range out.Rounds {
		assert.False(t, r.Scouted)
	}
}

func TestPlayScoutsWhenCandidatesOutnumberGuesses(t *testing.T) {
	src := words.FromWords(append([]string{"FLOWN", "NYMPH"}, ightWords...)...)
	for _, s := range []solver.Strategy{solver.StrategyV2, solver.StrategyV1, solver.StrategyAlways} {
		t.Run(string(s), func(t *testing.T) {
			out, err := newSolver(src, s).Play(context.Background(), localGame(t, "TIGHT", nil))
			require.NoError(t, err)

			assert.Equal(t, solver.Solved, out.State)
			assert.Equal(t, []string{"SOARE", "BIGHT", "FLOWN", "MIGHT", "TIGHT"}, out.Guesses)
			assert.True(t, out.Rounds[1].Scouted)
		})
	}
}

func TestPlayRetriesFailedSubmissionOnce(t *testing.T) {
	src := words.NewSource("")
	g := &countingGame{Local: localGame(t, "CRANE", nil), failures: 1}
	out, err := newSolver(src, solver.StrategyV2).Play(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, solver.Solved, out.State)
	assert.Equal(t, []string{"SOARE", "CIBOL", "CRANE"}, out.Guesses)
	assert.Equal(t, 4, g.calls)
}

func TestPlayAbandonsAfterSecondFailure(t *testing.T) {
	src := words.NewSource("")
	g := &countingGame{Local: localGame(t, "CRANE", nil), failures: 2}
	out, err := newSolver(src, solver.StrategyV2).Play(context.Background(), g)
	assert.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 2, g.calls)
}

func TestPlayDoesNotResendRejectedGuess(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not in word list", game.ErrNotInWordList},
		{"finished", game.ErrFinished},
		{"wrapped rejection", fmt.Errorf("guess SOARE: %w", solver.ErrGuessRejected)},
		{"cancelled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &countingGame{Local: localGame(t, "CRANE", nil), failures: 2, err: tt.err}
			out, err := newSolver(words.NewSource(""), solver.StrategyV2).Play(context.Background(), g)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, out)
			assert.Equal(t, 1, g.calls)
		})
	}
}

// scriptedGame replays fixed feedback rows.
type scriptedGame struct {
	rows [][]solver.LetterFact
	n    int
}

func (s *scriptedGame) Submit(_ context.Context, guess string) ([]solver.LetterFact, error) {
	row := s.rows[s.n%len(s.rows)]
	s.n++
	return row, nil
}

func TestPlayStopsReadingRowAtUnknownTile(t *testing.T) {
	g := &scriptedGame{rows: [][]solver.LetterFact{{
		solver.CorrectAt('S', 1),
		{Kind: solver.Unknown, Letter: 'O', Position: 2},
		solver.CorrectAt('A', 3),
	}}}
	out, err := newSolver(words.NewSource(""), solver.StrategyNone).Play(context.Background(), g)
	require.NoError(t, err)
	require.NotEmpty(t, out.Rounds)
	assert.Len(t, out.Rounds[0].Feedback, 1)
	assert.Equal(t, solver.Exhausted, out.State)
	assert.Empty(t, out.Answer)
}

func TestPlaySolvesWholeCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("plays every catalog word")
	}
	src := words.NewSource("")
	catalog, err := src.Words(context.Background())
	require.NoError(t, err)

	strategies := []solver.Strategy{solver.StrategyAlways, solver.StrategyV1, solver.StrategyV2, solver.StrategyNone}
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s := newSolver(src, strategy)
			for _, e := range catalog {
				out, err := s.Play(context.Background(), localGame(t, e.Word, catalog))
				require.NoError(t, err, e.Word)
				assert.Equal(t, solver.Solved, out.State, e.Word)
				assert.LessOrEqual(t, out.Attempts, solver.DefaultMaxAttempts, e.Word)

				// The last round is never filtered; every earlier one is, and
				// the pool it leaves never grows.
				filtered := out.Rounds[:len(out.Rounds)-1]
				for i := 1; i < len(filtered); i++ {
					assert.Equal(t, filtered[i-1].PoolAfter, filtered[i].PoolBefore, "%s round %d", e.Word, i+1)
					assert.LessOrEqual(t, filtered[i].PoolAfter, filtered[i-1].PoolAfter, "%s round %d", e.Word, i+1)
				}
			}
		})
	}
}

func TestPlayUnknownStartWordFallsBack(t *testing.T) {
	nop := zerolog.Nop()
	s := solver.New(words.NewSource(""), solver.Options{StartWord: "ZZZZZ", Logger: &nop, RetryDelay: time.Millisecond})
	out, err := s.Play(context.Background(), localGame(t, "CRANE", nil))
	require.NoError(t, err)
	assert.Equal(t, "SOARE", out.Opening)
	assert.Equal(t, "SOARE", out.Guesses[0])
}

func TestPlayCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSolver(words.NewSource(""), solver.StrategyV2).Play(ctx, localGame(t, "CRANE", nil))
	assert.Error(t, err)
}
