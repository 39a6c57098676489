package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/fogleman/ease"

	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

// Tunable probabilities of the melody generator. They are part of the
// generator's observable contract, so tests reference them by name.
const (
	// ChordToneSnapProbability is the chance a generated note is pulled
	// onto a tone of the chord sounding underneath it.
	ChordToneSnapProbability = 0.7

	// MotifVariationProbability is the chance an even-numbered bar past
	// the first plays the varied motif instead of the seed.
	MotifVariationProbability = 0.3
)

// Melody notes start in this velocity band before any expressive shaping.
const (
	melodyVelocityMin = 0.7
	melodyVelocityMax = 1.0
)

// Complexity bounds. Complexity scales the contour jitter: a value of c
// widens the scale-position wobble to ±c/10 of a scale step band.
const (
	ComplexityMin = 1
	ComplexityMax = 10

	DefaultComplexity = 5
)

// Registry fallbacks for unknown names.
const (
	DefaultContour = "arch"
	DefaultRhythm  = "basic"
)

// rhythmPatterns maps a style name to note durations in beats. Each pattern
// loops until the requested bars are covered.
var rhythmPatterns = map[string][]float64{
	"basic":      {1, 1, 1, 1},
	"dotted":     {1.5, 0.5, 1.5, 0.5},
	"syncopated": {0.5, 1, 1, 0.5, 1},
	"swing":      {0.67, 0.33, 0.67, 0.33, 0.67, 0.33, 0.67, 0.33},
	"sparse":     {2, 1, 1},
}

// RhythmPattern returns a copy of the named pattern, falling back to the
// basic pattern for unknown names.
func RhythmPattern(name string) []float64 {
	pattern, ok := rhythmPatterns[name]
	if !ok {
		pattern = rhythmPatterns[DefaultRhythm]
	}
	out := make([]float64, len(pattern))
	copy(out, pattern)
	return out
}

// RhythmNames lists the rhythm pattern names in sorted order.
func RhythmNames() []string {
	names := make([]string, 0, len(rhythmPatterns))
	for name := range rhythmPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// contourFunc maps normalized melody progress in [0,1] to a normalized scale
// position in [0,1].
type contourFunc func(t float64) float64

// waveCycles is how many full oscillations the wave contour completes.
const waveCycles = 2

var contourNames = []string{"arch", "ascending", "descending", "random", "valley", "wave"}

// contourFor resolves a contour by name. The random contour closes over the
// generator's own source so melodies stay reproducible per seed. Unknown
// names fall back to the arch.
func contourFor(name string, rng *rand.Rand) contourFunc {
	switch name {
	case "ascending":
		return ease.InOutSine
	case "descending":
		return func(t float64) float64 { return 1 - ease.InOutSine(t) }
	case "arch":
		return func(t float64) float64 { return math.Sin(t * math.Pi) }
	case "valley":
		return func(t float64) float64 { return 1 - math.Sin(t*math.Pi) }
	case "wave":
		return func(t float64) float64 { return 0.5 + 0.5*math.Sin(waveCycles*2*math.Pi*t) }
	case "random":
		return func(float64) float64 { return rng.Float64() }
	default:
		return contourFor(DefaultContour, rng)
	}
}

// ContourNames lists the contour names in sorted order.
func ContourNames() []string {
	out := make([]string, len(contourNames))
	copy(out, contourNames)
	return out
}

// MelodyParams configures a single melody generation call.
type MelodyParams struct {
	Scale      theory.Scale
	Bars       int
	Rhythm     string
	Contour    string
	Complexity int

	// UseMotif switches from contour-driven generation to a seed motif
	// developed across bars. MotifVariation names the operator used for
	// the varied bars.
	UseMotif       bool
	MotifVariation string

	// Chords, when present, enable chord-tone snapping against whichever
	// chord sounds under each note.
	Chords []models.PlacedChord
}

// GenerateMelody renders a melody over the requested bars. The same params
// and an identically seeded source produce the same notes.
func GenerateMelody(p MelodyParams, rng *rand.Rand) []models.NoteEvent {
	if p.Bars < 1 {
		p.Bars = 1
	}
	if p.UseMotif {
		return generateMotifMelody(p, rng)
	}
	return generatePatternMelody(p, rng)
}

// generatePatternMelody walks the contour over enough rhythm-pattern cycles
// to cover the requested bars. Notes starting at or past the bar boundary
// are dropped; a note that starts inside and rings past it is kept whole.
func generatePatternMelody(p MelodyParams, rng *rand.Rand) []models.NoteEvent {
	pattern := RhythmPattern(p.Rhythm)
	patternBeats := 0.0
	for _, d := range pattern {
		patternBeats += d
	}
	totalBeats := float64(p.Bars) * models.BeatsPerBar
	steps := int(math.Ceil(totalBeats/patternBeats)) * len(pattern)

	contour := contourFor(p.Contour, rng)
	scaleLen := p.Scale.Len()
	jitterBand := float64(clampInt(p.Complexity, ComplexityMin, ComplexityMax)) / 10

	notes := make([]models.NoteEvent, 0, steps)
	start := 0.0
	for i := 0; i < steps; i++ {
		pos := contour(float64(i) / float64(steps))
		jitter := uniform(rng, -jitterBand, jitterBand)
		idx := clampInt(int(math.Floor(pos*float64(scaleLen)+jitter)), 0, scaleLen-1)
		idx = snapToChordTone(p, idx, start, rng)
		dur := pattern[i%len(pattern)]
		notes = append(notes, models.NoteEvent{
			Pitch:         p.Scale.Note(idx),
			StartBeats:    start,
			DurationBeats: dur,
			Velocity:      uniform(rng, melodyVelocityMin, melodyVelocityMax),
		})
		start += dur
	}

	kept := make([]models.NoteEvent, 0, len(notes))
	for _, n := range notes {
		if n.StartBeats < totalBeats {
			kept = append(kept, n)
		}
	}
	return kept
}

// generateMotifMelody seeds a motif and develops it bar by bar. Odd bars
// always play the variation without consulting the random source; even bars
// past the first vary with MotifVariationProbability.
func generateMotifMelody(p MelodyParams, rng *rand.Rand) []models.NoteEvent {
	scaleLen := p.Scale.Len()
	seed := NewSeedMotif(rng, scaleLen)
	varied := TransformMotif(seed, p.MotifVariation, scaleLen)

	var notes []models.NoteEvent
	start := 0.0
	for bar := 0; bar < p.Bars; bar++ {
		motif := seed
		if bar%2 == 1 || (bar > 0 && rng.Float64() < MotifVariationProbability) {
			motif = varied
		}
		for _, mn := range motif {
			idx := clampInt(mn.ScaleIndex, 0, scaleLen-1)
			idx = snapToChordTone(p, idx, start, rng)
			notes = append(notes, models.NoteEvent{
				Pitch:         p.Scale.Note(idx),
				StartBeats:    start,
				DurationBeats: mn.Duration,
				Velocity:      uniform(rng, melodyVelocityMin, melodyVelocityMax),
			})
			start += mn.Duration
		}
	}
	return notes
}

// snapToChordTone pulls the note onto the underlying chord with
// ChordToneSnapProbability. When it fires and the scale degree is not
// already a chord tone, the note moves to the nearest scale index whose
// pitch class matches a randomly chosen chord tone. Ties prefer the lower
// index. Without chords, or off the end of them, the index passes through.
func snapToChordTone(p MelodyParams, idx int, beat float64, rng *rand.Rand) int {
	if len(p.Chords) == 0 {
		return idx
	}
	chord, ok := chordAt(p.Chords, beat)
	if !ok {
		return idx
	}
	if rng.Float64() >= ChordToneSnapProbability {
		return idx
	}
	classes := chordClasses(chord)
	if len(classes) == 0 {
		return idx
	}
	current := p.Scale.Note(idx).Class()
	for _, c := range classes {
		if c == current {
			return idx
		}
	}
	target := classes[rng.Intn(len(classes))]
	best := -1
	bestDist := 0
	for i := 0; i < p.Scale.Len(); i++ {
		if p.Scale.Note(i).Class() != target {
			continue
		}
		dist := i - idx
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best == -1 {
		return idx
	}
	return best
}

func chordAt(chords []models.PlacedChord, beat float64) (models.PlacedChord, bool) {
	for _, ch := range chords {
		if beat >= ch.StartBeats && beat < ch.End() {
			return ch, true
		}
	}
	return models.PlacedChord{}, false
}

// chordClasses returns the distinct pitch classes of the chord's sounding
// voicing, falling back to its root-position tones.
func chordClasses(ch models.PlacedChord) []theory.PitchClass {
	src := ch.Voicing
	if len(src) == 0 {
		src = ch.Chord.Pitches
	}
	seen := make(map[theory.PitchClass]bool, len(src))
	out := make([]theory.PitchClass, 0, len(src))
	for _, p := range src {
		c := p.Class()
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
