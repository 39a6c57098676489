package engine

import (
	"math/rand"
)

// NewRand builds the deterministic random source threaded through generation
// calls. Callers pick the seed; the same seed reproduces the same output.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [min, max).
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
