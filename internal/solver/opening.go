package solver

import (
	"math/rand/v2"
	"strings"
)

const (
	// DefaultStartWord is used when the configured start word is unknown.
	DefaultStartWord = "SOARE"
	// RandomStartWord selects among the known openings.
	RandomStartWord = "random"
	// BackupWord replaces any malformed selection.
	BackupWord = "AHEAD"
	// FirstRoundThreshold is the catalog size above which the paired
	// second word is used instead of a computed one.
	FirstRoundThreshold = 80
)

// pairedSecond maps each opening word to a second guess chosen offline
// for letter coverage.
var pairedSecond = map[string]string{
	"SOARE": "CIBOL",
	"CARES": "POILU",
	"TARES": "CONKY",
}

// randomChoices is weighted towards SOARE.
var randomChoices = []string{"CARES", "TARES", "SOARE", "SOARE", "SOARE", "SOARE"}

// Opening is the first guess and its paired second guess.
type Opening struct {
	Word   string `json:"word"`
	Second string `json:"second"`
}

// ResolveOpening maps a configured start word to an Opening. "random"
// picks a weighted opening with pick (math/rand/v2.IntN when nil).
// Unknown names resolve to SOARE and report false.
func ResolveOpening(name string, pick func(n int) int) (Opening, bool) {
	w := strings.ToUpper(strings.TrimSpace(name))
	if strings.EqualFold(w, RandomStartWord) {
		if pick == nil {
			pick = rand.IntN
		}
		w = randomChoices[pick(len(randomChoices))]
	}
	second, ok := pairedSecond[w]
	if !ok {
		return Opening{Word: DefaultStartWord, Second: pairedSecond[DefaultStartWord]}, false
	}
	return Opening{Word: w, Second: second}, true
}

// StartWords lists the accepted start word names.
func StartWords() []string {
	return []string{"SOARE", "CARES", "TARES", RandomStartWord}
}
