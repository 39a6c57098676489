package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

func placedC(duration float64) models.PlacedChord {
	return models.PlacedChord{
		Chord:         theory.NewChord(0, theory.QualityMajor, 4, "I"),
		StartBeats:    0,
		DurationBeats: duration,
	}
}

func TestGenerateBassLine_Basic(t *testing.T) {
	// One root note holding the whole bar, down in the bass register.
	notes := GenerateBassLine([]models.PlacedChord{placedC(4)}, "basic", 2)

	require.Len(t, notes, 1)
	assert.Equal(t, "C2", notes[0].Pitch.String())
	assert.Equal(t, 0.0, notes[0].StartBeats)
	assert.Equal(t, 4.0, notes[0].DurationBeats)
	assert.Equal(t, 0.8, notes[0].Velocity)
}

func TestGenerateBassLine_UnknownPatternFallsBackToBasic(t *testing.T) {
	chords := []models.PlacedChord{placedC(4)}

	assert.Equal(t, GenerateBassLine(chords, "basic", 2), GenerateBassLine(chords, "wobble", 2))
}

func TestGenerateBassLine_Walking(t *testing.T) {
	notes := GenerateBassLine([]models.PlacedChord{placedC(4)}, "walking", 2)

	require.Len(t, notes, 4)
	// Root, third, fifth, leading tone. C2 is MIDI 36.
	wantPitches := []theory.Pitch{36, 40, 43, 47}
	for i, n := range notes {
		assert.Equal(t, wantPitches[i], n.Pitch, "beat %d", i)
		assert.Equal(t, float64(i), n.StartBeats, "beat %d", i)
		assert.Equal(t, 1.0, n.DurationBeats, "beat %d", i)
	}
}

func TestGenerateBassLine_WalkingFollowsChordQuality(t *testing.T) {
	minor := models.PlacedChord{
		Chord:         theory.NewChord(9, theory.QualityMinor, 4, "vi"),
		DurationBeats: 4,
	}

	notes := GenerateBassLine([]models.PlacedChord{minor}, "walking", 2)

	require.Len(t, notes, 4)
	// A2 is MIDI 45; the minor third sits three semitones up.
	assert.Equal(t, []theory.Pitch{45, 48, 52, 56},
		[]theory.Pitch{notes[0].Pitch, notes[1].Pitch, notes[2].Pitch, notes[3].Pitch})
}

func TestGenerateBassLine_Arpeggio(t *testing.T) {
	ch := placedC(4)
	ch.Voicing = []theory.Pitch{60, 64, 67}

	notes := GenerateBassLine([]models.PlacedChord{ch}, "arpeggio", 2)

	require.Len(t, notes, 8)
	wantPitches := []theory.Pitch{36, 40, 43, 36, 40, 43, 36, 40}
	for i, n := range notes {
		assert.Equal(t, wantPitches[i], n.Pitch, "eighth %d", i)
		assert.Equal(t, float64(i)*0.5, n.StartBeats, "eighth %d", i)
		assert.Equal(t, 0.5, n.DurationBeats, "eighth %d", i)
	}
}

func TestGenerateBassLine_ArpeggioTracksInvertedVoicing(t *testing.T) {
	ch := placedC(4)
	ch.Voicing = []theory.Pitch{64, 67, 72}

	notes := GenerateBassLine([]models.PlacedChord{ch}, "arpeggio", 2)

	require.Len(t, notes, 8)
	assert.Equal(t, theory.Pitch(40), notes[0].Pitch)
	assert.Equal(t, theory.Pitch(43), notes[1].Pitch)
	assert.Equal(t, theory.Pitch(48), notes[2].Pitch)
}

func TestGenerateBassLine_ArpeggioWithoutTonesFallsBack(t *testing.T) {
	bare := models.PlacedChord{
		Chord:         theory.Chord{Root: 7, Quality: theory.QualityMajor},
		DurationBeats: 4,
	}

	notes := GenerateBassLine([]models.PlacedChord{bare}, "arpeggio", 2)

	require.Len(t, notes, 1)
	assert.Equal(t, "G2", notes[0].Pitch.String())
	assert.Equal(t, 4.0, notes[0].DurationBeats)
}

func TestGenerateBassLine_Octaves(t *testing.T) {
	notes := GenerateBassLine([]models.PlacedChord{placedC(4)}, "octaves", 2)

	require.Len(t, notes, 4)
	assert.Equal(t, []theory.Pitch{36, 48, 36, 48},
		[]theory.Pitch{notes[0].Pitch, notes[1].Pitch, notes[2].Pitch, notes[3].Pitch})
}

func TestGenerateBassLine_Fifths(t *testing.T) {
	notes := GenerateBassLine([]models.PlacedChord{placedC(4)}, "fifths", 2)

	require.Len(t, notes, 4)
	assert.Equal(t, []theory.Pitch{36, 43, 36, 43},
		[]theory.Pitch{notes[0].Pitch, notes[1].Pitch, notes[2].Pitch, notes[3].Pitch})
}

func TestGenerateBassLine_Groove(t *testing.T) {
	notes := GenerateBassLine([]models.PlacedChord{placedC(4)}, "groove", 2)

	require.Len(t, notes, 4)
	wantStarts := []float64{0, 1.5, 2.5, 3}
	wantPitches := []theory.Pitch{36, 36, 48, 43}
	wantDurations := []float64{1.5, 1, 0.5, 1}
	for i, n := range notes {
		assert.Equal(t, wantStarts[i], n.StartBeats, "hit %d", i)
		assert.Equal(t, wantPitches[i], n.Pitch, "hit %d", i)
		assert.Equal(t, wantDurations[i], n.DurationBeats, "hit %d", i)
	}
}

func TestGenerateBassLine_OffsetsFollowChordPlacement(t *testing.T) {
	chords := []models.PlacedChord{
		{Chord: theory.NewChord(0, theory.QualityMajor, 4, "I"), StartBeats: 0, DurationBeats: 4},
		{Chord: theory.NewChord(7, theory.QualityMajor, 4, "V"), StartBeats: 4, DurationBeats: 4},
	}

	notes := GenerateBassLine(chords, "basic", 2)

	require.Len(t, notes, 2)
	assert.Equal(t, 0.0, notes[0].StartBeats)
	assert.Equal(t, 4.0, notes[1].StartBeats)
	assert.Equal(t, "G2", notes[1].Pitch.String())
}

func TestGenerateBassLine_TruncatesAtChordBoundary(t *testing.T) {
	// A two-and-a-half beat chord cuts the walking line's third step short.
	notes := GenerateBassLine([]models.PlacedChord{placedC(2.5)}, "walking", 2)

	require.Len(t, notes, 3)
	assert.Equal(t, 0.5, notes[2].DurationBeats)
}

func TestGenerateBassLine_Deterministic(t *testing.T) {
	chords := []models.PlacedChord{placedC(4)}

	assert.Equal(t,
		GenerateBassLine(chords, "groove", 2),
		GenerateBassLine(chords, "groove", 2))
}
