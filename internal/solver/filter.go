package solver

import (
	"sort"

	"github.com/robalobadob/wordlebot/internal/words"
)

// Filter returns the entries of catalog whose word matches pattern and
// contains every letter of must, sorted by (repeat propensity, word).
// The input is not modified.
func Filter(catalog []words.Entry, pattern Pattern, must LetterSet) []words.Entry {
	out := make([]words.Entry, 0, len(catalog))
	for _, e := range catalog {
		if !pattern.Match(e.Word) {
			continue
		}
		if LettersOf(e.Word)&must != must {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// dropOutPct is the share of the previous pool eliminated, in percent
// rounded to two decimals. An empty previous pool reports 0.
func dropOutPct(before, after int) float64 {
	if before == 0 {
		return 0
	}
	pct := (1 - float64(after)/float64(before)) * 100
	return float64(int64(pct*100+0.5)) / 100
}
