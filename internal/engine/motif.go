package engine

import (
	"math/rand"
	"sort"
)

// MotifNote addresses a scale degree by index rather than by pitch, so the
// same motif can be replayed against any scale.
type MotifNote struct {
	ScaleIndex int     `json:"scaleIndex"`
	Duration   float64 `json:"duration"`
}

// Motif is a short melodic cell, the building block of motif-mode melodies.
type Motif []MotifNote

const seedMotifLength = 4

// motifSeedDurations are the note lengths a seed motif draws from, in beats.
var motifSeedDurations = []float64{0.5, 1, 1.5}

// motifTransposeSteps is how far the transpose operator shifts, in scale
// steps.
const motifTransposeSteps = 2

// NewSeedMotif draws a fresh four-note motif from the random source. Indexes
// land anywhere in the scale, durations come from motifSeedDurations.
func NewSeedMotif(rng *rand.Rand, scaleLen int) Motif {
	if scaleLen < 1 {
		scaleLen = 1
	}
	m := make(Motif, seedMotifLength)
	for i := range m {
		m[i] = MotifNote{
			ScaleIndex: rng.Intn(scaleLen),
			Duration:   motifSeedDurations[rng.Intn(len(motifSeedDurations))],
		}
	}
	return m
}

type motifOp func(Motif, int) Motif

var motifOps = map[string]motifOp{
	"transpose":  transposeMotif,
	"invert":     invertMotif,
	"retrograde": retrogradeMotif,
	"augment":    augmentMotif,
	"diminish":   diminishMotif,
}

// TransformMotif applies a named operator and clamps the result back into
// the scale. Unknown names return an untransformed copy.
func TransformMotif(m Motif, op string, scaleLen int) Motif {
	if scaleLen < 1 {
		scaleLen = 1
	}
	fn, ok := motifOps[op]
	if !ok {
		return clampMotif(copyMotif(m), scaleLen)
	}
	return clampMotif(fn(m, scaleLen), scaleLen)
}

// MotifOperators lists the operator names in sorted order.
func MotifOperators() []string {
	names := make([]string, 0, len(motifOps))
	for name := range motifOps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// transposeMotif shifts every index up two scale steps, wrapping at the top
// of the scale.
func transposeMotif(m Motif, scaleLen int) Motif {
	out := copyMotif(m)
	for i := range out {
		out[i].ScaleIndex = (out[i].ScaleIndex + motifTransposeSteps) % scaleLen
	}
	return out
}

// invertMotif mirrors every index around the scale's midpoint.
func invertMotif(m Motif, scaleLen int) Motif {
	out := copyMotif(m)
	for i := range out {
		out[i].ScaleIndex = scaleLen - 1 - out[i].ScaleIndex
	}
	return out
}

// retrogradeMotif reverses note order. Applying it twice restores the
// original motif.
func retrogradeMotif(m Motif, _ int) Motif {
	out := make(Motif, len(m))
	for i, n := range m {
		out[len(m)-1-i] = n
	}
	return out
}

func augmentMotif(m Motif, _ int) Motif {
	out := copyMotif(m)
	for i := range out {
		out[i].Duration *= 2
	}
	return out
}

func diminishMotif(m Motif, _ int) Motif {
	out := copyMotif(m)
	for i := range out {
		out[i].Duration *= 0.5
	}
	return out
}

func clampMotif(m Motif, scaleLen int) Motif {
	for i := range m {
		m[i].ScaleIndex = clampInt(m[i].ScaleIndex, 0, scaleLen-1)
	}
	return m
}

func copyMotif(m Motif) Motif {
	out := make(Motif, len(m))
	copy(out, m)
	return out
}
