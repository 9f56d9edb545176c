package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOpening(t *testing.T) {
	o, ok := ResolveOpening("soare", nil)
	assert.True(t, ok)
	assert.Equal(t, Opening{Word: "SOARE", Second: "CIBOL"}, o)

	o, ok = ResolveOpening("CARES", nil)
	assert.True(t, ok)
	assert.Equal(t, "POILU", o.Second)

	o, ok = ResolveOpening("TARES", nil)
	assert.True(t, ok)
	assert.Equal(t, "CONKY", o.Second)
}

func TestResolveOpeningUnknownFallsBack(t *testing.T) {
	o, ok := ResolveOpening("CRANE", nil)
	assert.False(t, ok)
	assert.Equal(t, Opening{Word: "SOARE", Second: "CIBOL"}, o)
}

func TestResolveOpeningRandom(t *testing.T) {
	seen := map[string]int{}
	for i := 0; i < len(randomChoices); i++ {
		i := i
		o, ok := ResolveOpening("Random", func(n int) int { return i % n })
		assert.True(t, ok)
		seen[o.Word]++
	}
	assert.Equal(t, map[string]int{"CARES": 1, "TARES": 1, "SOARE": 4}, seen)

	// The default source must always land on a known opening.
	for i := 0; i < 20; i++ {
		o, ok := ResolveOpening(RandomStartWord, nil)
		assert.True(t, ok)
		assert.Contains(t, []string{"SOARE", "CARES", "TARES"}, o.Word)
	}
}
