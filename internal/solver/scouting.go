package solver

import "strings"

// Strategy names a scouting policy.
type Strategy string

const (
	StrategyAlways Strategy = "always"
	StrategyV1     Strategy = "v1"
	StrategyV2     Strategy = "v2"
	StrategyNone   Strategy = "none"
)

// ParseStrategy maps a configured name to a Strategy. Unrecognized names
// return StrategyNone and false.
func ParseStrategy(name string) (Strategy, bool) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyAlways, StrategyV1, StrategyV2, StrategyNone:
		return s, true
	default:
		return StrategyNone, false
	}
}

// ShouldScout decides whether the guess after attempt should be a
// scouting probe rather than a candidate. attempt is the attempt just
// completed. There is no scouting when the next guess is the last one.
func ShouldScout(correctCount, poolSize, attempt, maxAttempts int, strategy Strategy) bool {
	if attempt >= maxAttempts-1 {
		return false
	}
	short := poolSize+attempt > maxAttempts
	switch strategy {
	case StrategyAlways:
		return short
	case StrategyV1:
		return (correctCount >= 3 && poolSize >= 5) || (correctCount == 4 && short)
	case StrategyV2:
		return correctCount >= 2 && short
	default:
		return false
	}
}
