package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

func cMajorScale() theory.Scale {
	return theory.ResolveScale(0, "major", 4, 2)
}

func TestGenerateMelody_BasicGrid(t *testing.T) {
	// Four bars of quarter notes land exactly on beats 0 through 15.
	melody := GenerateMelody(MelodyParams{
		Scale:      cMajorScale(),
		Bars:       4,
		Rhythm:     "basic",
		Contour:    "ascending",
		Complexity: 1,
	}, NewRand(1))

	require.Len(t, melody, 16)
	for i, n := range melody {
		assert.Equal(t, float64(i), n.StartBeats, "note %d", i)
		assert.Equal(t, 1.0, n.DurationBeats, "note %d", i)
		assert.GreaterOrEqual(t, n.Velocity, 0.7, "note %d", i)
		assert.Less(t, n.Velocity, 1.0, "note %d", i)
	}
}

func TestGenerateMelody_NoteCountsPerRhythm(t *testing.T) {
	tests := []struct {
		rhythm string
		count  int
	}{
		{rhythm: "basic", count: 16},
		{rhythm: "dotted", count: 16},
		{rhythm: "syncopated", count: 20},
		{rhythm: "sparse", count: 12},
	}

	for _, tt := range tests {
		t.Run(tt.rhythm, func(t *testing.T) {
			melody := GenerateMelody(MelodyParams{
				Scale:      cMajorScale(),
				Bars:       4,
				Rhythm:     tt.rhythm,
				Complexity: 5,
			}, NewRand(3))
			assert.Len(t, melody, tt.count)
		})
	}
}

func TestGenerateMelody_StaysInsideTheBars(t *testing.T) {
	for _, rhythm := range RhythmNames() {
		t.Run(rhythm, func(t *testing.T) {
			melody := GenerateMelody(MelodyParams{
				Scale:      cMajorScale(),
				Bars:       4,
				Rhythm:     rhythm,
				Complexity: 5,
			}, NewRand(11))
			require.NotEmpty(t, melody)
			for i, n := range melody {
				assert.Less(t, n.StartBeats, 16.0, "note %d", i)
			}
		})
	}
}

func TestGenerateMelody_PitchesStayInScale(t *testing.T) {
	scale := cMajorScale()
	inScale := make(map[theory.Pitch]bool)
	for _, p := range scale.Notes() {
		inScale[p] = true
	}

	melody := GenerateMelody(MelodyParams{
		Scale:      scale,
		Bars:       8,
		Rhythm:     "syncopated",
		Contour:    "wave",
		Complexity: 10,
	}, NewRand(17))

	for i, n := range melody {
		assert.True(t, inScale[n.Pitch], "note %d pitch %s outside scale", i, n.Pitch)
	}
}

func TestGenerateMelody_ContourEnvelope(t *testing.T) {
	// With complexity 1 the jitter band is too narrow to move the contour's
	// endpoints, whatever the seed draws.
	ascending := GenerateMelody(MelodyParams{
		Scale:      cMajorScale(),
		Bars:       4,
		Rhythm:     "basic",
		Contour:    "ascending",
		Complexity: 1,
	}, NewRand(23))
	assert.Equal(t, theory.Pitch(60), ascending[0].Pitch)   // C4
	assert.Equal(t, theory.Pitch(83), ascending[15].Pitch)  // B5

	descending := GenerateMelody(MelodyParams{
		Scale:      cMajorScale(),
		Bars:       4,
		Rhythm:     "basic",
		Contour:    "descending",
		Complexity: 1,
	}, NewRand(23))
	assert.Equal(t, theory.Pitch(83), descending[0].Pitch)
	assert.Equal(t, theory.Pitch(60), descending[15].Pitch)
}

func TestGenerateMelody_Reproducible(t *testing.T) {
	params := MelodyParams{
		Scale:      cMajorScale(),
		Bars:       8,
		Rhythm:     "swing",
		Contour:    "random",
		Complexity: 7,
	}

	first := GenerateMelody(params, NewRand(42))
	second := GenerateMelody(params, NewRand(42))

	assert.Equal(t, first, second)
}

func TestGenerateMelody_MotifMode(t *testing.T) {
	melody := GenerateMelody(MelodyParams{
		Scale:          cMajorScale(),
		Bars:           4,
		UseMotif:       true,
		MotifVariation: "retrograde",
	}, NewRand(9))

	// Four-note motif per bar.
	require.Len(t, melody, 16)
	for i := 1; i < len(melody); i++ {
		assert.Greater(t, melody[i].StartBeats, melody[i-1].StartBeats, "note %d", i)
	}

	// Bar one always plays the variation: with retrograde it mirrors bar
	// zero's pitches and durations.
	for i := 0; i < 4; i++ {
		assert.Equal(t, melody[i].Pitch, melody[7-i].Pitch, "note %d", i)
		assert.Equal(t, melody[i].DurationBeats, melody[7-i].DurationBeats, "note %d", i)
	}
}

func TestGenerateMelody_MotifReproducible(t *testing.T) {
	params := MelodyParams{
		Scale:          cMajorScale(),
		Bars:           8,
		UseMotif:       true,
		MotifVariation: "invert",
	}

	first := GenerateMelody(params, NewRand(55))
	second := GenerateMelody(params, NewRand(55))

	assert.Equal(t, first, second)
}

func TestSnapToChordTone_Passthrough(t *testing.T) {
	scale := cMajorScale()
	cTriad := models.PlacedChord{
		Chord:         theory.NewChord(0, theory.QualityMajor, 4, "I"),
		StartBeats:    0,
		DurationBeats: 4,
	}

	t.Run("no chords", func(t *testing.T) {
		p := MelodyParams{Scale: scale}
		assert.Equal(t, 1, snapToChordTone(p, 1, 0, NewRand(1)))
	})

	t.Run("beat past the chords", func(t *testing.T) {
		p := MelodyParams{Scale: scale, Chords: []models.PlacedChord{cTriad}}
		assert.Equal(t, 1, snapToChordTone(p, 1, 7.5, NewRand(1)))
	})

	t.Run("already a chord tone", func(t *testing.T) {
		p := MelodyParams{Scale: scale, Chords: []models.PlacedChord{cTriad}}
		// Index 2 is E4, the triad's third.
		assert.Equal(t, 2, snapToChordTone(p, 2, 1, NewRand(1)))
	})
}

func TestSnapToChordTone_MovesToNearestMatch(t *testing.T) {
	// A root-plus-octave chord exposes a single pitch class, so the snap
	// target is forced and only the distance choice remains.
	rootOnly := models.PlacedChord{
		Chord: theory.Chord{
			Root:    0,
			Quality: theory.QualityMajor,
			Pitches: []theory.Pitch{60, 72},
		},
		StartBeats:    0,
		DurationBeats: 64,
	}

	t.Run("nearest index wins", func(t *testing.T) {
		p := MelodyParams{Scale: cMajorScale(), Chords: []models.PlacedChord{rootOnly}}
		// D4 at index 1: C sits at indexes 0 and 7, so 0 is closer.
		assert.Equal(t, 0, snapToChordTone(p, 1, 0, NewRand(1)))
	})

	t.Run("tie prefers the lower index", func(t *testing.T) {
		chromatic := theory.ResolveScale(0, "chromatic", 4, 2)
		p := MelodyParams{Scale: chromatic, Chords: []models.PlacedChord{rootOnly}}
		// F#4 at index 6 sits six steps from C at index 0 and index 12.
		assert.Equal(t, 0, snapToChordTone(p, 6, 0, NewRand(1)))
	})
}

func TestGenerateMelody_SnapPullsTowardChordTones(t *testing.T) {
	scale := cMajorScale()
	chords := []models.PlacedChord{{
		Chord:         theory.NewChord(0, theory.QualityMajor, 4, "I"),
		StartBeats:    0,
		DurationBeats: 64,
	}}

	countTriadTones := func(notes []models.NoteEvent) int {
		n := 0
		for _, ev := range notes {
			switch ev.Pitch.Class() {
			case 0, 4, 7:
				n++
			}
		}
		return n
	}

	base := MelodyParams{Scale: scale, Bars: 16, Rhythm: "basic", Contour: "arch", Complexity: 10}
	free := GenerateMelody(base, NewRand(5))

	snapped := base
	snapped.Chords = chords
	locked := GenerateMelody(snapped, NewRand(5))

	require.Len(t, locked, len(free))
	assert.Greater(t, countTriadTones(locked), countTriadTones(free))
}
