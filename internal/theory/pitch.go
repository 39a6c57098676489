package theory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pitch is a note on the 12-tone equal-tempered scale, stored as a MIDI
// note number (C-1 = 0, C4 = 60 = middle C).
type Pitch int

// PitchClass is a note name without octave, 0-11 with C = 0.
type PitchClass int

// pitchClassNames is the canonical spelling used when rendering pitches.
// Flats are accepted on parse and normalized to sharps.
var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteOffsets maps note letters to semitone offsets from C.
var noteOffsets = map[string]int{
	"C": 0, "D": 2, "E": 4, "F": 5, "G": 7, "A": 9, "B": 11,
}

// NewPitch builds a Pitch from a pitch class and an octave (C4 = 60).
func NewPitch(class PitchClass, octave int) Pitch {
	return Pitch((octave+1)*12 + int(class))
}

// ParsePitch converts a note name like "E1", "C4", "F#3", "Bb2" to a Pitch.
// Format: <note><accidental?><octave> where:
//   - note: A-G (case insensitive)
//   - accidental: # (sharp) or b (flat), optional
//   - octave: -1 to 9 (C4 = 60 = middle C)
func ParsePitch(noteName string) (Pitch, error) {
	if len(noteName) < 2 {
		return 0, fmt.Errorf("note name too short: %s", noteName)
	}

	noteChar := strings.ToUpper(string(noteName[0]))
	semitone, ok := noteOffsets[noteChar]
	if !ok {
		return 0, fmt.Errorf("invalid note letter: %s", noteChar)
	}

	idx := 1
	if idx < len(noteName) {
		if noteName[idx] == '#' {
			semitone++
			idx++
		} else if noteName[idx] == 'b' {
			semitone--
			idx++
		}
	}

	if idx >= len(noteName) {
		return 0, fmt.Errorf("missing octave in note name: %s", noteName)
	}

	var octave int
	if _, err := fmt.Sscanf(noteName[idx:], "%d", &octave); err != nil {
		return 0, fmt.Errorf("invalid octave in note name %s: %w", noteName, err)
	}

	p := Pitch((octave+1)*12 + semitone)
	if p < 0 {
		p = 0
	}
	if p > 127 {
		p = 127
	}
	return p, nil
}

// ParsePitchClass converts a bare note name like "C", "F#" or "Bb" to a
// PitchClass.
func ParsePitchClass(name string) (PitchClass, error) {
	if name == "" {
		return 0, fmt.Errorf("empty note name")
	}

	noteChar := strings.ToUpper(string(name[0]))
	semitone, ok := noteOffsets[noteChar]
	if !ok {
		return 0, fmt.Errorf("invalid note letter: %s", noteChar)
	}

	switch {
	case len(name) == 1:
	case len(name) == 2 && name[1] == '#':
		semitone++
	case len(name) == 2 && name[1] == 'b':
		semitone--
	default:
		return 0, fmt.Errorf("invalid note name: %s", name)
	}

	return PitchClass(((semitone % 12) + 12) % 12), nil
}

// Class returns the pitch class, 0-11.
func (p Pitch) Class() PitchClass {
	return PitchClass(((int(p) % 12) + 12) % 12)
}

// Octave returns the octave in the C4 = 60 convention.
func (p Pitch) Octave() int {
	return int(p)/12 - 1
}

// MIDI returns the pitch as a MIDI note number clamped to 0-127.
func (p Pitch) MIDI() int {
	if p < 0 {
		return 0
	}
	if p > 127 {
		return 127
	}
	return int(p)
}

// Transpose returns the pitch shifted by the given number of semitones.
func (p Pitch) Transpose(semitones int) Pitch {
	return p + Pitch(semitones)
}

// String renders the canonical note name, e.g. "C#4".
func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.Class(), p.Octave())
}

func (p Pitch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Pitch) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePitch(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// String renders the canonical class name, e.g. "F#".
func (pc PitchClass) String() string {
	return pitchClassNames[((int(pc)%12)+12)%12]
}

// Add returns the pitch class shifted by the given number of semitones.
func (pc PitchClass) Add(semitones int) PitchClass {
	return PitchClass(((int(pc)+semitones)%12 + 12) % 12)
}

func (pc PitchClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(pc.String())
}

func (pc *PitchClass) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePitchClass(name)
	if err != nil {
		return err
	}
	*pc = parsed
	return nil
}
