package models

import (
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

// NoteEvent is one generated note on the shared beat timeline. Generators
// create events; only the expressive pipeline adjusts start, duration and
// velocity (never pitch), and events are read-only once a composition is
// assembled.
type NoteEvent struct {
	Pitch         theory.Pitch `json:"pitch"`
	StartBeats    float64      `json:"startBeats"`
	DurationBeats float64      `json:"durationBeats"`
	Velocity      float64      `json:"velocity"`
}

// End returns the beat the note stops sounding.
func (n NoteEvent) End() float64 {
	return n.StartBeats + n.DurationBeats
}

// PlacedChord is a resolved chord with its chosen voicing at an absolute
// position on the timeline. The voicing rearranges the chord's pitches by
// octave without changing their pitch classes.
type PlacedChord struct {
	Chord         theory.Chord   `json:"chord"`
	Voicing       []theory.Pitch `json:"voicing"`
	StartBeats    float64        `json:"startBeats"`
	DurationBeats float64        `json:"durationBeats"`
}

// End returns the beat the chord stops sounding.
func (pc PlacedChord) End() float64 {
	return pc.StartBeats + pc.DurationBeats
}
