package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldScout(t *testing.T) {
	cases := []struct {
		name                   string
		correct, pool, attempt int
		strategy               Strategy
		want                   bool
	}{
		{"always short", 0, 5, 2, StrategyAlways, true},
		{"always enough guesses", 0, 4, 2, StrategyAlways, false},
		{"v1 three correct big pool", 3, 5, 1, StrategyV1, true},
		{"v1 three correct small pool", 3, 4, 1, StrategyV1, false},
		{"v1 four correct short", 4, 4, 3, StrategyV1, true},
		{"v1 four correct not short", 4, 2, 1, StrategyV1, false},
		{"v1 two correct", 2, 10, 2, StrategyV1, false},
		{"v2 two correct short", 2, 5, 2, StrategyV2, true},
		{"v2 one correct", 1, 50, 2, StrategyV2, false},
		{"v2 not short", 3, 4, 2, StrategyV2, false},
		{"none", 4, 50, 1, StrategyNone, false},
		{"unknown", 4, 50, 1, Strategy("v9"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldScout(tc.correct, tc.pool, tc.attempt, DefaultMaxAttempts, tc.strategy))
		})
	}
}

func TestShouldScoutNeverBeforeFinalGuess(t *testing.T) {
	for _, s := range []Strategy{StrategyAlways, StrategyV1, StrategyV2} {
		assert.False(t, ShouldScout(4, 100, 5, 6, s), s)
		assert.False(t, ShouldScout(4, 100, 6, 6, s), s)
		assert.True(t, ShouldScout(4, 100, 4, 6, s), s)
	}
}

func TestParseStrategy(t *testing.T) {
	s, ok := ParseStrategy(" V2 ")
	assert.True(t, ok)
	assert.Equal(t, StrategyV2, s)

	s, ok = ParseStrategy("greedy")
	assert.False(t, ok)
	assert.Equal(t, StrategyNone, s)
}
