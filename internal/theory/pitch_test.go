package theory

import (
	"testing"
)

func TestParsePitch(t *testing.T) {
	tests := []struct {
		name         string
		noteName     string
		expectedMIDI int
		expectError  bool
	}{
		// Standard notes (C4 = middle C = MIDI 60)
		// Formula: (octave + 1) * 12 + semitone
		{"C4 (middle C)", "C4", 60, false},
		{"C0", "C0", 12, false},
		{"C-1", "C-1", 0, false},
		{"C5", "C5", 72, false},
		{"E1", "E1", 28, false},
		{"A4 (440Hz)", "A4", 69, false},
		{"G3", "G3", 55, false},
		{"D2", "D2", 38, false},
		// Sharp notes
		{"C#4", "C#4", 61, false},
		{"F#3", "F#3", 54, false},
		{"G#2", "G#2", 44, false},
		// Flat notes (Bb = A# = 10 semitones)
		{"Bb2", "Bb2", 46, false},
		{"Eb4", "Eb4", 63, false},
		{"Ab3", "Ab3", 56, false},
		// Edge cases
		{"B0", "B0", 23, false},
		{"A0", "A0", 21, false},
		{"lowercase e1", "e1", 28, false},
		// Errors
		{"too short", "C", 0, true},
		{"bad letter", "H4", 0, true},
		{"missing octave", "C#", 0, true},
		{"garbage octave", "Cx", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePitch(tt.noteName)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("ParsePitch failed: %v", err)
			}

			if p.MIDI() != tt.expectedMIDI {
				t.Errorf("ParsePitch(%s) = %d, want %d", tt.noteName, p.MIDI(), tt.expectedMIDI)
			}
		})
	}
}

func TestPitchString(t *testing.T) {
	tests := []struct {
		name     string
		pitch    Pitch
		expected string
	}{
		{"middle C", 60, "C4"},
		{"sharp", 61, "C#4"},
		{"low C", 0, "C-1"},
		{"A 440", 69, "A4"},
		{"top B", 119, "B8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pitch.String(); got != tt.expected {
				t.Errorf("Pitch(%d).String() = %s, want %s", int(tt.pitch), got, tt.expected)
			}
		})
	}
}

// TestPitchRoundTrip checks the pitch <-> number mapping is stable across
// the full MIDI range: parsing the rendered name gives back the same pitch.
func TestPitchRoundTrip(t *testing.T) {
	for n := 0; n <= 127; n++ {
		p := Pitch(n)
		parsed, err := ParsePitch(p.String())
		if err != nil {
			t.Fatalf("ParsePitch(%s) failed: %v", p.String(), err)
		}
		if parsed != p {
			t.Errorf("round trip for %d: got %d via %s", n, int(parsed), p.String())
		}
	}
}

func TestParsePitchClass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected PitchClass
	}{
		{"plain C", "C", 0},
		{"sharp", "F#", 6},
		{"flat normalizes to sharp", "Bb", 10},
		{"Cb wraps down to B", "Cb", 11},
		{"B# wraps up to C", "B#", 0},
		{"lowercase", "g", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := ParsePitchClass(tt.input)
			if err != nil {
				t.Fatalf("ParsePitchClass(%s) failed: %v", tt.input, err)
			}
			if pc != tt.expected {
				t.Errorf("ParsePitchClass(%s) = %d (%s), want %d", tt.input, int(pc), pc, int(tt.expected))
			}
		})
	}

	if _, err := ParsePitchClass("X"); err == nil {
		t.Error("Expected error for invalid note letter")
	}
	if _, err := ParsePitchClass(""); err == nil {
		t.Error("Expected error for empty name")
	}
}
