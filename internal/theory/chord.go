package theory

// Quality identifies a chord color. The set is closed: every quality maps to
// a fixed interval row and chord pitches are always rebuilt from that row,
// never edited in place.
type Quality string

const (
	QualityMajor   Quality = "maj"
	QualityMinor   Quality = "min"
	QualityDom7    Quality = "7"
	QualityMaj7    Quality = "maj7"
	QualityMin7    Quality = "min7"
	QualityDim     Quality = "dim"
	QualityAug     Quality = "aug"
	QualitySus4    Quality = "sus4"
	QualitySus2    Quality = "sus2"
	QualitySix     Quality = "6"
	QualityMin6    Quality = "min6"
	QualityDom9    Quality = "9"
	QualityMaj9    Quality = "maj9"
	QualityMin9    Quality = "min9"
	QualityDom13   Quality = "13"
	QualityDim7    Quality = "dim7"
	QualityM7b5    Quality = "m7b5"
	QualityAug7    Quality = "aug7"
	QualityAugMaj7 Quality = "augmaj7"
)

// qualityIntervals maps each quality to semitone offsets from the root,
// ascending.
var qualityIntervals = map[Quality][]int{
	QualityMajor:   {0, 4, 7},
	QualityMinor:   {0, 3, 7},
	QualityDom7:    {0, 4, 7, 10},
	QualityMaj7:    {0, 4, 7, 11},
	QualityMin7:    {0, 3, 7, 10},
	QualityDim:     {0, 3, 6},
	QualityAug:     {0, 4, 8},
	QualitySus4:    {0, 5, 7},
	QualitySus2:    {0, 2, 7},
	QualitySix:     {0, 4, 7, 9},
	QualityMin6:    {0, 3, 7, 9},
	QualityDom9:    {0, 4, 7, 10, 14},
	QualityMaj9:    {0, 4, 7, 11, 14},
	QualityMin9:    {0, 3, 7, 10, 14},
	QualityDom13:   {0, 4, 7, 10, 14, 21},
	QualityDim7:    {0, 3, 6, 9},
	QualityM7b5:    {0, 3, 6, 10},
	QualityAug7:    {0, 4, 8, 10},
	QualityAugMaj7: {0, 4, 8, 11},
}

// extendedQualities carry a seventh or higher already and are never promoted
// again by the extended-chords flag.
var extendedQualities = map[Quality]bool{
	QualityDom7:    true,
	QualityMaj7:    true,
	QualityMin7:    true,
	QualityDom9:    true,
	QualityMaj9:    true,
	QualityMin9:    true,
	QualityDom13:   true,
	QualityDim7:    true,
	QualityM7b5:    true,
	QualityAug7:    true,
	QualityAugMaj7: true,
}

// extendedPromotion maps plain triads to their seventh-chord forms: minor
// colors gain a minor seventh, the rest a major seventh. Sus and sixth
// chords are already colored and stay as they are.
var extendedPromotion = map[Quality]Quality{
	QualityMajor: QualityMaj7,
	QualityMinor: QualityMin7,
	QualityDim:   QualityM7b5,
	QualityAug:   QualityAugMaj7,
}

// QualityIntervals returns the interval row for a quality. Unknown qualities
// fall back to the major triad row.
func QualityIntervals(q Quality) []int {
	row, ok := qualityIntervals[q]
	if !ok {
		row = qualityIntervals[QualityMajor]
	}
	out := make([]int, len(row))
	copy(out, row)
	return out
}

// Chord is a resolved chord: a root pitch class, a quality, the degree label
// it was resolved from, and the concrete pitches built from the quality's
// interval row. Chords are value types; transforms return new chords with
// pitches recomputed from the table.
type Chord struct {
	Root    PitchClass `json:"root"`
	Quality Quality    `json:"quality"`
	Degree  string     `json:"degree"`
	Pitches []Pitch    `json:"pitches"`
}

// NewChord builds a chord with its root placed in the given octave.
func NewChord(root PitchClass, quality Quality, octave int, degree string) Chord {
	if _, ok := qualityIntervals[quality]; !ok {
		quality = QualityMajor
	}
	rootPitch := NewPitch(root, octave)
	row := qualityIntervals[quality]
	pitches := make([]Pitch, len(row))
	for i, interval := range row {
		pitches[i] = rootPitch.Transpose(interval)
	}
	return Chord{Root: root, Quality: quality, Degree: degree, Pitches: pitches}
}

// Extended returns the chord promoted to its seventh form. Qualities already
// carrying a seventh or higher, and sus/sixth colors, are returned unchanged.
func (c Chord) Extended() Chord {
	if extendedQualities[c.Quality] {
		return c
	}
	promoted, ok := extendedPromotion[c.Quality]
	if !ok {
		return c
	}
	octave := 4
	if len(c.Pitches) > 0 {
		octave = c.Pitches[0].Octave()
	}
	return NewChord(c.Root, promoted, octave, c.Degree)
}

// Octave reports the octave the chord root sits in.
func (c Chord) Octave() int {
	if len(c.Pitches) == 0 {
		return 4
	}
	return c.Pitches[0].Octave()
}

// ClassSet returns the chord's pitch classes as a membership set.
func (c Chord) ClassSet() map[PitchClass]bool {
	set := make(map[PitchClass]bool, len(c.Pitches))
	for _, p := range c.Pitches {
		set[p.Class()] = true
	}
	return set
}

// classifyTriad matches stacked-third intervals against the known triad
// rows; anything unrecognized reads as major.
func classifyTriad(third, fifth int) Quality {
	switch {
	case third == 4 && fifth == 7:
		return QualityMajor
	case third == 3 && fifth == 7:
		return QualityMinor
	case third == 3 && fifth == 6:
		return QualityDim
	case third == 4 && fifth == 8:
		return QualityAug
	default:
		return QualityMajor
	}
}
