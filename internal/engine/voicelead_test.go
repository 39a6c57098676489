package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

func TestLeadVoices_FirstChordStaysInRootPosition(t *testing.T) {
	chords := []theory.Chord{
		theory.NewChord(0, theory.QualityMajor, 4, "I"),
		theory.NewChord(5, theory.QualityMajor, 4, "IV"),
	}

	voicings := LeadVoices(chords)

	require.Len(t, voicings, 2)
	assert.Equal(t, chords[0].Pitches, voicings[0])
}

func TestLeadVoices_PicksClosestVoicing(t *testing.T) {
	// G4 B4 D5 to C: second inversion G4 C5 E5 moves 0+1+2 semitones,
	// far less than root position's 7+7+7.
	chords := []theory.Chord{
		theory.NewChord(7, theory.QualityMajor, 4, "V"),
		theory.NewChord(0, theory.QualityMajor, 4, "I"),
	}

	voicings := LeadVoices(chords)

	require.Len(t, voicings, 2)
	assert.Equal(t, []theory.Pitch{67, 72, 76}, voicings[1])
}

func TestLeadVoices_ChoosesMinimalMovement(t *testing.T) {
	pairs := [][2]theory.Chord{
		{theory.NewChord(0, theory.QualityMajor, 4, "I"), theory.NewChord(5, theory.QualityMajor, 4, "IV")},
		{theory.NewChord(0, theory.QualityMajor, 4, "I"), theory.NewChord(7, theory.QualityDom7, 4, "V7")},
		{theory.NewChord(9, theory.QualityMinor, 4, "vi"), theory.NewChord(2, theory.QualityMin7, 4, "ii7")},
		{theory.NewChord(4, theory.QualityMinor, 4, "iii"), theory.NewChord(11, theory.QualityDim, 4, "vii°")},
	}

	for _, pair := range pairs {
		voicings := LeadVoices(pair[:])
		chosen := movementCost(voicings[0], voicings[1])
		for _, cand := range voicingCandidates(pair[1].Pitches) {
			assert.LessOrEqual(t, chosen, movementCost(voicings[0], cand),
				"%s to %s picked a costlier voicing than %v", pair[0].Degree, pair[1].Degree, cand)
		}
	}
}

func TestLeadVoices_TieKeepsEarlierCandidate(t *testing.T) {
	// Augmented triads are symmetric, so root position and first inversion
	// tie at 6 semitones from D augmented. Root position must win.
	chords := []theory.Chord{
		theory.NewChord(2, theory.QualityAug, 4, "II+"),
		theory.NewChord(0, theory.QualityAug, 4, "I+"),
	}

	voicings := LeadVoices(chords)

	assert.Equal(t, []theory.Pitch{60, 64, 68}, voicings[1])
}

func TestLeadVoices_Empty(t *testing.T) {
	assert.Empty(t, LeadVoices(nil))
}

func TestVoicingCandidates_FixedOrder(t *testing.T) {
	// C4 E4 G4: root, two inversions, then the spread voicing.
	cands := voicingCandidates([]theory.Pitch{60, 64, 67})

	require.Len(t, cands, 4)
	assert.Equal(t, []theory.Pitch{60, 64, 67}, cands[0])
	assert.Equal(t, []theory.Pitch{64, 67, 72}, cands[1])
	assert.Equal(t, []theory.Pitch{67, 72, 76}, cands[2])
	assert.Equal(t, []theory.Pitch{60, 76, 79}, cands[3])
}

func TestMovementCost_TruncatesToShorterVoicing(t *testing.T) {
	prev := []theory.Pitch{60, 64, 67, 70}
	cand := []theory.Pitch{62, 65}

	assert.Equal(t, 3, movementCost(prev, cand))
	assert.Equal(t, 3, movementCost(cand, prev))
}

func TestInversion(t *testing.T) {
	triad := []theory.Pitch{60, 64, 67}

	tests := []struct {
		name string
		k    int
		want []theory.Pitch
	}{
		{name: "root position", k: 0, want: []theory.Pitch{60, 64, 67}},
		{name: "first inversion", k: 1, want: []theory.Pitch{64, 67, 72}},
		{name: "second inversion", k: 2, want: []theory.Pitch{67, 72, 76}},
		{name: "wraps on tone count", k: 3, want: []theory.Pitch{60, 64, 67}},
		{name: "negative wraps", k: -1, want: []theory.Pitch{67, 72, 76}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Inversion(triad, tt.k))
		})
	}
}

func TestInversion_DoesNotMutateInput(t *testing.T) {
	triad := []theory.Pitch{60, 64, 67}
	Inversion(triad, 2)
	assert.Equal(t, []theory.Pitch{60, 64, 67}, triad)
}
