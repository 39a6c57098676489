package engine

import (
	"sort"

	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

const (
	DefaultBassPattern = "basic"
	DefaultBassOctave  = 2
)

// Base velocities per figure role. Bass lines carry no random velocity; any
// looseness comes from the humanize stage.
const (
	bassAccentVelocity = 0.9
	bassVelocity       = 0.8
	bassGhostVelocity  = 0.7
)

type bassPatternFunc func(ch models.PlacedChord, octave int) []models.NoteEvent

var bassPatterns = map[string]bassPatternFunc{
	"basic":    basicBass,
	"walking":  walkingBass,
	"arpeggio": arpeggioBass,
	"octaves":  octavesBass,
	"fifths":   fifthsBass,
	"groove":   grooveBass,
}

// BassPatternNames lists the bass pattern names in sorted order.
func BassPatternNames() []string {
	names := make([]string, 0, len(bassPatterns))
	for name := range bassPatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateBassLine renders one figure per placed chord and stitches them
// together on the chord grid. Unknown pattern names fall back to basic, as
// do individual chords a pattern cannot voice. The generator is fully
// deterministic.
func GenerateBassLine(chords []models.PlacedChord, pattern string, octave int) []models.NoteEvent {
	fn, ok := bassPatterns[pattern]
	if !ok {
		fn = bassPatterns[DefaultBassPattern]
	}
	var notes []models.NoteEvent
	for _, ch := range chords {
		for _, n := range fn(ch, octave) {
			n.StartBeats += ch.StartBeats
			notes = append(notes, n)
		}
	}
	return notes
}

// basicBass holds the root for the chord's whole span.
func basicBass(ch models.PlacedChord, octave int) []models.NoteEvent {
	return []models.NoteEvent{{
		Pitch:         theory.NewPitch(ch.Chord.Root, octave),
		StartBeats:    0,
		DurationBeats: ch.DurationBeats,
		Velocity:      bassVelocity,
	}}
}

// walkingBass steps root, third, fifth, then the leading tone below the next
// root, one note per beat.
func walkingBass(ch models.PlacedChord, octave int) []models.NoteEvent {
	tones := chordToneOffsets(ch)
	if len(tones) < 3 {
		return basicBass(ch, octave)
	}
	root := theory.NewPitch(ch.Chord.Root, octave)
	steps := []int{0, tones[1], tones[2], 11}
	velocities := []float64{bassAccentVelocity, bassGhostVelocity, bassVelocity, bassGhostVelocity}

	var notes []models.NoteEvent
	i := 0
	for pos := 0.0; pos < ch.DurationBeats; pos += 1 {
		dur := 1.0
		if pos+dur > ch.DurationBeats {
			dur = ch.DurationBeats - pos
		}
		notes = append(notes, models.NoteEvent{
			Pitch:         root.Transpose(steps[i%len(steps)]),
			StartBeats:    pos,
			DurationBeats: dur,
			Velocity:      velocities[i%len(velocities)],
		})
		i++
	}
	return notes
}

// arpeggioBass cycles the chord's voicing bottom-up in eighth notes, shifted
// down into the bass register.
func arpeggioBass(ch models.PlacedChord, octave int) []models.NoteEvent {
	tones := ch.Voicing
	if len(tones) == 0 {
		tones = ch.Chord.Pitches
	}
	if len(tones) == 0 {
		return basicBass(ch, octave)
	}
	shift := (octave - tones[0].Octave()) * 12

	var notes []models.NoteEvent
	i := 0
	for pos := 0.0; pos < ch.DurationBeats; pos += 0.5 {
		dur := 0.5
		if pos+dur > ch.DurationBeats {
			dur = ch.DurationBeats - pos
		}
		vel := bassVelocity
		if i%len(tones) == 0 {
			vel = bassAccentVelocity
		}
		notes = append(notes, models.NoteEvent{
			Pitch:         tones[i%len(tones)].Transpose(shift),
			StartBeats:    pos,
			DurationBeats: dur,
			Velocity:      vel,
		})
		i++
	}
	return notes
}

// octavesBass alternates the root and the root an octave up, one per beat.
func octavesBass(ch models.PlacedChord, octave int) []models.NoteEvent {
	return alternatingBass(ch, octave, 12)
}

// fifthsBass alternates the root and the fifth above it, one per beat.
func fifthsBass(ch models.PlacedChord, octave int) []models.NoteEvent {
	return alternatingBass(ch, octave, 7)
}

func alternatingBass(ch models.PlacedChord, octave, interval int) []models.NoteEvent {
	root := theory.NewPitch(ch.Chord.Root, octave)

	var notes []models.NoteEvent
	i := 0
	for pos := 0.0; pos < ch.DurationBeats; pos += 1 {
		dur := 1.0
		if pos+dur > ch.DurationBeats {
			dur = ch.DurationBeats - pos
		}
		pitch := root
		vel := bassAccentVelocity
		if i%2 == 1 {
			pitch = root.Transpose(interval)
			vel = bassVelocity
		}
		notes = append(notes, models.NoteEvent{
			Pitch:         pitch,
			StartBeats:    pos,
			DurationBeats: dur,
			Velocity:      vel,
		})
		i++
	}
	return notes
}

// grooveBass plays a syncopated root figure with a pickup into beat four,
// repeating every four beats.
func grooveBass(ch models.PlacedChord, octave int) []models.NoteEvent {
	root := theory.NewPitch(ch.Chord.Root, octave)
	hits := []struct {
		offset   float64
		interval int
		duration float64
		velocity float64
	}{
		{0, 0, 1.5, bassAccentVelocity},
		{1.5, 0, 1, bassGhostVelocity},
		{2.5, 12, 0.5, bassVelocity},
		{3, 7, 1, bassGhostVelocity},
	}

	var notes []models.NoteEvent
	for span := 0.0; span < ch.DurationBeats; span += models.BeatsPerBar {
		for _, h := range hits {
			pos := span + h.offset
			if pos >= ch.DurationBeats {
				break
			}
			dur := h.duration
			if pos+dur > ch.DurationBeats {
				dur = ch.DurationBeats - pos
			}
			notes = append(notes, models.NoteEvent{
				Pitch:         root.Transpose(h.interval),
				StartBeats:    pos,
				DurationBeats: dur,
				Velocity:      h.velocity,
			})
		}
	}
	return notes
}

// chordToneOffsets expresses the chord's tones as semitone offsets from its
// lowest tone.
func chordToneOffsets(ch models.PlacedChord) []int {
	src := ch.Chord.Pitches
	if len(src) == 0 {
		return nil
	}
	out := make([]int, len(src))
	for i, p := range src {
		out[i] = int(p - src[0])
	}
	return out
}
