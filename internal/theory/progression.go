package theory

import (
	"fmt"
	"strings"
)

// romanDegrees maps roman numerals (lowercased) to zero-based scale degrees.
var romanDegrees = map[string]int{
	"i": 0, "ii": 1, "iii": 2, "iv": 3, "v": 4, "vi": 5, "vii": 6,
}

// fallbackDegrees is the substitute cycle for unresolvable labels: tonic,
// subdominant, dominant. Template position i falls back to the triad on
// degree fallbackDegrees[i%3], so the cycle repeats to fill the template and
// truncates when the template is shorter.
var fallbackDegrees = [3]int{0, 3, 4}

// ResolveProgression resolves a progression template within a key. Each
// degree label becomes one Chord with its root in the given octave; labels
// that fail to parse are substituted from the fallback cycle. With extended
// set, plain triads are promoted to their seventh forms.
func ResolveProgression(tonic PitchClass, mode string, template []string, extended bool, octave int) []Chord {
	chords := make([]Chord, 0, len(template))
	for i, label := range template {
		chord, err := resolveDegree(tonic, mode, label, octave)
		if err != nil {
			chord = fallbackChord(tonic, mode, i, label, octave)
		}
		if extended {
			chord = chord.Extended()
		}
		chords = append(chords, chord)
	}
	return chords
}

// resolveDegree parses one degree label: optional accidental (b/#), roman
// numeral I-VII (upper = major base, lower = minor base), optional quality
// suffix.
func resolveDegree(tonic PitchClass, mode, label string, octave int) (Chord, error) {
	raw := strings.TrimSpace(label)
	if raw == "" {
		return Chord{}, fmt.Errorf("empty degree label")
	}

	accidental := 0
	rest := raw
	if strings.HasPrefix(rest, "b") {
		accidental = -1
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "#") {
		accidental = 1
		rest = rest[1:]
	}

	i := 0
	for i < len(rest) {
		c := rest[i]
		if c != 'I' && c != 'V' && c != 'i' && c != 'v' {
			break
		}
		i++
	}
	roman := rest[:i]
	suffix := rest[i:]
	if roman == "" {
		return Chord{}, fmt.Errorf("no roman numeral in degree label: %s", raw)
	}

	upper := roman == strings.ToUpper(roman)
	if !upper && roman != strings.ToLower(roman) {
		return Chord{}, fmt.Errorf("mixed-case roman numeral: %s", raw)
	}

	degree, ok := romanDegrees[strings.ToLower(roman)]
	if !ok {
		return Chord{}, fmt.Errorf("invalid roman numeral: %s", roman)
	}

	intervals := ModeIntervals(mode)
	if degree >= len(intervals) {
		return Chord{}, fmt.Errorf("degree %s beyond %d-note mode", roman, len(intervals))
	}

	quality, err := qualityForSuffix(suffix, upper)
	if err != nil {
		return Chord{}, err
	}

	root := tonic.Add(intervals[degree] + accidental)
	return NewChord(root, quality, octave, raw), nil
}

// qualityForSuffix maps a degree-label suffix to a chord quality. The roman
// numeral's case supplies the base color for bare and numeric suffixes.
func qualityForSuffix(suffix string, upper bool) (Quality, error) {
	switch suffix {
	case "":
		if upper {
			return QualityMajor, nil
		}
		return QualityMinor, nil
	case "7":
		if upper {
			return QualityDom7, nil
		}
		return QualityMin7, nil
	case "maj7", "M7":
		return QualityMaj7, nil
	case "m7":
		return QualityMin7, nil
	case "6":
		if upper {
			return QualitySix, nil
		}
		return QualityMin6, nil
	case "9":
		if upper {
			return QualityDom9, nil
		}
		return QualityMin9, nil
	case "maj9", "M9":
		return QualityMaj9, nil
	case "13":
		return QualityDom13, nil
	case "dim", "°", "o":
		return QualityDim, nil
	case "dim7", "°7", "o7":
		return QualityDim7, nil
	case "ø", "ø7", "m7b5":
		return QualityM7b5, nil
	case "+", "aug":
		return QualityAug, nil
	case "+7", "aug7":
		return QualityAug7, nil
	case "+maj7", "augmaj7":
		return QualityAugMaj7, nil
	case "sus2":
		return QualitySus2, nil
	case "sus4":
		return QualitySus4, nil
	default:
		return "", fmt.Errorf("unsupported quality suffix: %s", suffix)
	}
}

// fallbackChord builds the substitute triad for a failed label by stacking
// thirds directly from the scale on the fallback-cycle degree.
func fallbackChord(tonic PitchClass, mode string, position int, label string, octave int) Chord {
	intervals := ModeIntervals(mode)
	d := fallbackDegrees[position%len(fallbackDegrees)]
	if d >= len(intervals) {
		d = 0
	}

	third := degreeOffset(intervals, d+2) - degreeOffset(intervals, d)
	fifth := degreeOffset(intervals, d+4) - degreeOffset(intervals, d)
	quality := classifyTriad(third, fifth)

	root := tonic.Add(intervals[d])
	return NewChord(root, quality, octave, label)
}

// degreeOffset returns the semitone offset of a scale degree, lifting an
// octave each time the degree wraps past the interval row.
func degreeOffset(intervals []int, degree int) int {
	octaves := degree / len(intervals)
	idx := degree % len(intervals)
	return octaves*12 + intervals[idx]
}
