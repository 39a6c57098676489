package models

import (
	"encoding/json"
	"testing"

	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

func TestSecondsPerBeat(t *testing.T) {
	tests := []struct {
		name     string
		tempo    int
		expected float64
	}{
		{"120 bpm", 120, 0.5},
		{"60 bpm", 60, 1.0},
		{"90 bpm", 90, 60.0 / 90.0},
		{"zero falls back to default", 0, 0.5},
		{"negative falls back to default", -10, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SecondsPerBeat(tt.tempo); got != tt.expected {
				t.Errorf("SecondsPerBeat(%d) = %v, want %v", tt.tempo, got, tt.expected)
			}
		})
	}
}

func TestCompositionDurationSeconds(t *testing.T) {
	comp := Composition{
		Tempo: 120,
		Bars:  2,
		Melody: []NoteEvent{
			{Pitch: 60, StartBeats: 0, DurationBeats: 4, Velocity: 0.8},
			// Extends half a beat past the final bar line and counts in full.
			{Pitch: 64, StartBeats: 7.5, DurationBeats: 1, Velocity: 0.8},
		},
	}

	// 8.5 beats at 0.5s per beat.
	if got := comp.DurationSeconds(); got != 4.25 {
		t.Errorf("DurationSeconds = %v, want 4.25", got)
	}

	if got := comp.TotalBeats(); got != 8 {
		t.Errorf("TotalBeats = %v, want 8", got)
	}
}

func TestNoteEventJSON(t *testing.T) {
	note := NoteEvent{Pitch: 36, StartBeats: 0, DurationBeats: 4, Velocity: 0.8}

	data, err := json.Marshal(note)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded NoteEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Pitch.String() != "C2" {
		t.Errorf("Expected pitch C2, got %s", decoded.Pitch)
	}
	if decoded != note {
		t.Errorf("Round trip changed the note: %+v -> %+v", note, decoded)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal to map failed: %v", err)
	}
	if m["pitch"] != "C2" {
		t.Errorf("Expected pitch to serialize as a note name, got %v", m["pitch"])
	}
}

func TestPlacedChordEnd(t *testing.T) {
	pc := PlacedChord{
		Chord:         theory.NewChord(0, theory.QualityMajor, 4, "I"),
		Voicing:       theory.NewChord(0, theory.QualityMajor, 4, "I").Pitches,
		StartBeats:    4,
		DurationBeats: 4,
	}
	if pc.End() != 8 {
		t.Errorf("End = %v, want 8", pc.End())
	}
}
