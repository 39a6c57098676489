package models

// BeatsPerBar is the beat count of one bar; all generation assumes 4/4.
const BeatsPerBar = 4.0

// DefaultTempo is used when a tempo is missing or non-positive.
const DefaultTempo = 120

// Composition is the aggregate generation result: melody, chord and bass
// parts sharing one tempo and one beat-zero origin. Downstream consumers
// (playback, rendering, export) read it without mutating it.
type Composition struct {
	ID        string        `json:"id"`
	Key       string        `json:"key"`
	Tempo     int           `json:"tempo"`
	Bars      int           `json:"bars"`
	Structure []string      `json:"structure,omitempty"`
	Seed      int64         `json:"seed"`
	Melody    []NoteEvent   `json:"melody"`
	Chords    []PlacedChord `json:"chords"`
	Bass      []NoteEvent   `json:"bass"`
}

// SecondsPerBeat converts a tempo in BPM to the length of one beat.
// Non-positive tempos read as DefaultTempo.
func SecondsPerBeat(tempo int) float64 {
	if tempo <= 0 {
		tempo = DefaultTempo
	}
	return 60.0 / float64(tempo)
}

// BeatsToSeconds maps a beat position to wall-clock seconds at a tempo, for
// playback schedulers that drive a sound backend.
func BeatsToSeconds(beats float64, tempo int) float64 {
	return beats * SecondsPerBeat(tempo)
}

// TotalBeats returns the nominal length of the composition in beats.
func (c *Composition) TotalBeats() float64 {
	return float64(c.Bars) * BeatsPerBar
}

// DurationSeconds returns the sounding length of the composition, including
// notes that extend past the final bar line.
func (c *Composition) DurationSeconds() float64 {
	end := c.TotalBeats()
	for _, n := range c.Melody {
		if n.End() > end {
			end = n.End()
		}
	}
	for _, n := range c.Bass {
		if n.End() > end {
			end = n.End()
		}
	}
	for _, ch := range c.Chords {
		if ch.End() > end {
			end = ch.End()
		}
	}
	return BeatsToSeconds(end, c.Tempo)
}
