package engine

import (
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

// LeadVoices picks a voicing for each chord so that consecutive chords move
// as little as possible. The first chord always stays in root position; every
// later chord is voiced by the candidate with the smallest total semitone
// movement from the previous voicing. Ties keep the earliest candidate, so a
// root position that ties an inversion wins. The search is exhaustive over a
// small fixed candidate set and never consults a random source.
func LeadVoices(chords []theory.Chord) [][]theory.Pitch {
	voicings := make([][]theory.Pitch, len(chords))
	if len(chords) == 0 {
		return voicings
	}
	voicings[0] = copyPitches(chords[0].Pitches)
	for i := 1; i < len(chords); i++ {
		voicings[i] = closestVoicing(voicings[i-1], chords[i].Pitches)
	}
	return voicings
}

func closestVoicing(prev, pitches []theory.Pitch) []theory.Pitch {
	candidates := voicingCandidates(pitches)
	best := candidates[0]
	bestCost := movementCost(prev, best)
	for _, cand := range candidates[1:] {
		if cost := movementCost(prev, cand); cost < bestCost {
			best = cand
			bestCost = cost
		}
	}
	return best
}

// voicingCandidates enumerates, in fixed order: root position, each
// successive inversion (one per chord tone beyond the first), and a single
// spread voicing with everything above the bottom note lifted an octave.
func voicingCandidates(pitches []theory.Pitch) [][]theory.Pitch {
	root := copyPitches(pitches)
	candidates := make([][]theory.Pitch, 0, len(pitches)+1)
	candidates = append(candidates, root)
	cur := root
	for k := 1; k < len(pitches); k++ {
		cur = rotateLowestUp(cur)
		candidates = append(candidates, cur)
	}
	candidates = append(candidates, spreadVoicing(pitches))
	return candidates
}

// rotateLowestUp moves the bottom note to the top, one octave higher.
func rotateLowestUp(pitches []theory.Pitch) []theory.Pitch {
	if len(pitches) == 0 {
		return nil
	}
	out := make([]theory.Pitch, 0, len(pitches))
	out = append(out, pitches[1:]...)
	out = append(out, pitches[0].Transpose(12))
	return out
}

func spreadVoicing(pitches []theory.Pitch) []theory.Pitch {
	out := copyPitches(pitches)
	for i := 1; i < len(out); i++ {
		out[i] = out[i].Transpose(12)
	}
	return out
}

// movementCost sums absolute semitone motion voice by voice. Voicings of
// different sizes compare over the shorter length.
func movementCost(prev, cand []theory.Pitch) int {
	n := len(prev)
	if len(cand) < n {
		n = len(cand)
	}
	cost := 0
	for i := 0; i < n; i++ {
		d := int(cand[i]) - int(prev[i])
		if d < 0 {
			d = -d
		}
		cost += d
	}
	return cost
}

// Inversion rotates the chord k times, lifting each displaced note an
// octave. k wraps on the chord's tone count.
func Inversion(pitches []theory.Pitch, k int) []theory.Pitch {
	out := copyPitches(pitches)
	if len(out) == 0 {
		return out
	}
	k %= len(out)
	if k < 0 {
		k += len(out)
	}
	for j := 0; j < k; j++ {
		out = rotateLowestUp(out)
	}
	return out
}

func copyPitches(pitches []theory.Pitch) []theory.Pitch {
	out := make([]theory.Pitch, len(pitches))
	copy(out, pitches)
	return out
}
