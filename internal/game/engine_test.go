package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/words"
)

func TestScore(t *testing.T) {
	tests := []struct {
		answer, guess string
		want          []Mark
	}{
		{"CRANE", "CRANE", []Mark{MarkHit, MarkHit, MarkHit, MarkHit, MarkHit}},
		{"CRANE", "SOARE", []Mark{MarkMiss, MarkMiss, MarkHit, MarkPresent, MarkHit}},
		// only one G left once the hit is taken, so the second copy misses
		{"GIDDY", "BIGGY", []Mark{MarkMiss, MarkHit, MarkPresent, MarkMiss, MarkHit}},
		{"ABBEY", "BABES", []Mark{MarkPresent, MarkPresent, MarkHit, MarkHit, MarkMiss}},
		{"crane", "eerie", []Mark{MarkMiss, MarkMiss, MarkPresent, MarkMiss, MarkHit}},
	}
	for _, tt := range tests {
		t.Run(tt.answer+"/"+tt.guess, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.answer, tt.guess))
		})
	}
}

func TestMarkKind(t *testing.T) {
	assert.Equal(t, solver.Correct, MarkHit.Kind())
	assert.Equal(t, solver.Present, MarkPresent.Kind())
	assert.Equal(t, solver.Absent, MarkMiss.Kind())
	assert.Equal(t, solver.Unknown, Mark("tbd").Kind())
}

func TestNewLocalValidatesAnswer(t *testing.T) {
	_, err := NewLocal("CR4NE", nil)
	assert.ErrorIs(t, err, ErrInvalidGuess)

	g, err := NewLocal(" crane ", nil)
	require.NoError(t, err)
	ans, err := g.Answer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CRANE", ans)
	assert.Len(t, g.ID(), 16)
}

func TestLocalSubmit(t *testing.T) {
	ctx := context.Background()
	g, err := NewLocal("CRANE", nil)
	require.NoError(t, err)

	facts, err := g.Submit(ctx, "soare")
	require.NoError(t, err)
	assert.Equal(t, []solver.LetterFact{
		solver.AbsentAt('S', 1),
		solver.AbsentAt('O', 2),
		solver.CorrectAt('A', 3),
		solver.PresentAt('R', 4),
		solver.CorrectAt('E', 5),
	}, facts)
	assert.Equal(t, "playing", g.State())

	_, err = g.Submit(ctx, "CRAN")
	assert.ErrorIs(t, err, ErrInvalidGuess)
	assert.Equal(t, []string{"SOARE"}, g.Guesses())

	_, err = g.Submit(ctx, "CRANE")
	require.NoError(t, err)
	assert.Equal(t, "won", g.State())

	_, err = g.Submit(ctx, "CRANE")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestLocalAllowedList(t *testing.T) {
	g, err := NewLocal("CRANE", words.FromWords("CRANE", "SOARE"))
	require.NoError(t, err)

	_, err = g.Submit(context.Background(), "QQQQQ")
	assert.ErrorIs(t, err, ErrNotInWordList)
	assert.ErrorIs(t, err, solver.ErrGuessRejected)
	_, err = g.Submit(context.Background(), "SOARE")
	assert.NoError(t, err)
}

func TestLocalLosesAfterLastRow(t *testing.T) {
	ctx := context.Background()
	g, err := NewLocal("CRANE", nil)
	require.NoError(t, err)

	for i := 0; i < defaultRows; i++ {
		assert.Equal(t, "playing", g.State())
		_, err := g.Submit(ctx, "BLIMP")
		require.NoError(t, err)
	}
	assert.Equal(t, "lost", g.State())
	_, err = g.Submit(ctx, "CRANE")
	assert.ErrorIs(t, err, ErrFinished)
}

func TestLocalHonoursContext(t *testing.T) {
	g, err := NewLocal("CRANE", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Submit(ctx, "SOARE")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, g.Guesses())
}
