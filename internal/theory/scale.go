package theory

import (
	"sort"
	"strings"
	"sync"
)

// DefaultMode is the fallback when a mode name is unknown or malformed.
const DefaultMode = "major"

// modeIntervals maps mode names to semitone offsets from the tonic, one
// octave's worth.
var modeIntervals = map[string][]int{
	"major":           {0, 2, 4, 5, 7, 9, 11},
	"ionian":          {0, 2, 4, 5, 7, 9, 11},
	"minor":           {0, 2, 3, 5, 7, 8, 10},
	"aeolian":         {0, 2, 3, 5, 7, 8, 10},
	"dorian":          {0, 2, 3, 5, 7, 9, 10},
	"phrygian":        {0, 1, 3, 5, 7, 8, 10},
	"lydian":          {0, 2, 4, 6, 7, 9, 11},
	"mixolydian":      {0, 2, 4, 5, 7, 9, 10},
	"locrian":         {0, 1, 3, 5, 6, 8, 10},
	"harmonicminor":   {0, 2, 3, 5, 7, 8, 11},
	"melodicminor":    {0, 2, 3, 5, 7, 9, 11},
	"majorpentatonic": {0, 2, 4, 7, 9},
	"minorpentatonic": {0, 3, 5, 7, 10},
	"blues":           {0, 3, 5, 6, 7, 10},
	"chromatic":       {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
}

// Scale is an immutable ordered run of pitches for a tonic and mode.
type Scale struct {
	Tonic PitchClass
	Mode  string
	notes []Pitch
}

// normalizeMode lowercases and strips separators so "Harmonic Minor",
// "harmonic_minor" and "harmonicminor" all resolve to the same row.
func normalizeMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	mode = strings.ReplaceAll(mode, " ", "")
	mode = strings.ReplaceAll(mode, "_", "")
	mode = strings.ReplaceAll(mode, "-", "")
	if _, ok := modeIntervals[mode]; !ok {
		return DefaultMode
	}
	return mode
}

// ModeIntervals returns the interval row for a mode name, falling back to
// major for unknown names.
func ModeIntervals(mode string) []int {
	row := modeIntervals[normalizeMode(mode)]
	out := make([]int, len(row))
	copy(out, row)
	return out
}

// ModeNames returns the supported mode names, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(modeIntervals))
	for name := range modeIntervals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type scaleKey struct {
	tonic      PitchClass
	mode       string
	baseOctave int
	octaves    int
}

// scaleCache memoizes resolved scales. Generation calls are read-mostly and
// may run concurrently, so lookups take the read lock and only a miss takes
// the write lock. Cached note slices are never mutated after construction.
var scaleCache = struct {
	sync.RWMutex
	scales map[scaleKey]Scale
}{scales: make(map[scaleKey]Scale)}

// ResolveScale builds (or returns a memoized) Scale for the tonic and mode,
// starting at baseOctave and spanning the given number of octaves. Unknown
// modes fall back to major; octaves below 1 are treated as 1.
func ResolveScale(tonic PitchClass, mode string, baseOctave, octaves int) Scale {
	if octaves < 1 {
		octaves = 1
	}
	mode = normalizeMode(mode)
	key := scaleKey{tonic: tonic, mode: mode, baseOctave: baseOctave, octaves: octaves}

	scaleCache.RLock()
	cached, ok := scaleCache.scales[key]
	scaleCache.RUnlock()
	if ok {
		return cached
	}

	intervals := modeIntervals[mode]
	notes := make([]Pitch, 0, len(intervals)*octaves)
	root := NewPitch(tonic, baseOctave)
	for o := 0; o < octaves; o++ {
		for _, interval := range intervals {
			notes = append(notes, root.Transpose(o*12+interval))
		}
	}
	s := Scale{Tonic: tonic, Mode: mode, notes: notes}

	scaleCache.Lock()
	scaleCache.scales[key] = s
	scaleCache.Unlock()
	return s
}

// Len returns the number of notes in the scale.
func (s Scale) Len() int {
	return len(s.notes)
}

// Note returns the pitch at a scale index. Out-of-range indexes clamp to the
// nearest end so callers holding a clamped index can never read past the run.
func (s Scale) Note(i int) Pitch {
	if len(s.notes) == 0 {
		return NewPitch(s.Tonic, 4)
	}
	if i < 0 {
		i = 0
	}
	if i >= len(s.notes) {
		i = len(s.notes) - 1
	}
	return s.notes[i]
}

// Notes returns a copy of the scale's pitches.
func (s Scale) Notes() []Pitch {
	out := make([]Pitch, len(s.notes))
	copy(out, s.notes)
	return out
}

// ParseKey splits a key string like "C major" or "F# minor" into tonic and
// mode. Malformed keys fall back to C major.
func ParseKey(key string) (PitchClass, string) {
	fields := strings.Fields(strings.TrimSpace(key))
	if len(fields) == 0 {
		return 0, DefaultMode
	}

	tonic, err := ParsePitchClass(fields[0])
	if err != nil {
		return 0, DefaultMode
	}

	mode := DefaultMode
	if len(fields) > 1 {
		mode = normalizeMode(strings.Join(fields[1:], ""))
	}
	return tonic, mode
}
