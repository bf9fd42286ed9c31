package session

import (
	"hash/fnv"
	"math/rand/v2"
)

// Default bounds of the pseudo-score used when no vision score exists.
const (
	DefaultMinScore = 60
	DefaultMaxScore = 99
)

// PseudoScorer draws a uniform score in [Min, Max]. The draw is seeded by
// the attempt id, so scoring the same attempt twice gives the same value.
type PseudoScorer struct {
	Min int
	Max int
}

// DefaultScorer returns the scorer with the default range.
func DefaultScorer() PseudoScorer {
	return PseudoScorer{Min: DefaultMinScore, Max: DefaultMaxScore}
}

// Score returns the pseudo-score for an attempt, clamped to 0-100.
func (s PseudoScorer) Score(attemptID string) int {
	lo, hi := clampScore(s.Min), clampScore(s.Max)
	if hi < lo {
		lo, hi = hi, lo
	}
	h := fnv.New64a()
	h.Write([]byte(attemptID))
	rng := rand.New(rand.NewPCG(h.Sum64(), 0x9e3779b97f4a7c15))
	return lo + rng.IntN(hi-lo+1)
}

func clampScore(v int) int {
	return min(max(v, 0), 100)
}
