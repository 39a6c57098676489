package engine

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

// Default registers for the three parts.
const (
	DefaultKey = "C major"

	DefaultMelodyOctave = 4
	DefaultChordOctave  = 4

	// melodyOctaveSpan is how many octaves the melody scale covers.
	melodyOctaveSpan = 2
)

// CompositionParams configures a full composition. Zero values fall back to
// sensible defaults; see withDefaults.
type CompositionParams struct {
	Key         string
	Tempo       int
	Bars        int
	Progression []string
	Preset      string

	Rhythm         string
	Contour        string
	Complexity     int
	UseMotif       bool
	MotifVariation string

	Articulation string
	Dynamics     string

	// Humanize switches jitter on. The variation fields override the stock
	// amounts; leaving all three zero with Humanize set uses the defaults.
	Humanize          bool
	TimingVariation   float64
	VelocityVariation float64
	DurationVariation float64

	// VoiceLeading smooths the chord voicings; when unset, Inversions
	// cycles plain inversions instead. VoiceLeading wins when both are set.
	VoiceLeading bool
	Inversions   bool
	Extended     bool

	// Structure names the sections to render, e.g. verse or chorus. Each
	// section spans one full pass of the progression; Bars is ignored when
	// sections are present.
	Structure []string

	BassPattern  string
	BassOctave   int
	MelodyOctave int
	ChordOctave  int

	Seed int64
}

func (p CompositionParams) withDefaults() CompositionParams {
	if p.Key == "" {
		p.Key = DefaultKey
	}
	if p.Tempo <= 0 {
		p.Tempo = models.DefaultTempo
	}
	if p.Complexity == 0 {
		p.Complexity = DefaultComplexity
	}
	if p.Rhythm == "" {
		p.Rhythm = DefaultRhythm
	}
	if p.Contour == "" {
		p.Contour = DefaultContour
	}
	if p.BassPattern == "" {
		p.BassPattern = DefaultBassPattern
	}
	if p.BassOctave == 0 {
		p.BassOctave = DefaultBassOctave
	}
	if p.MelodyOctave == 0 {
		p.MelodyOctave = DefaultMelodyOctave
	}
	if p.ChordOctave == 0 {
		p.ChordOctave = DefaultChordOctave
	}
	return p
}

func (p CompositionParams) humanizeParams() HumanizeParams {
	if !p.Humanize {
		return HumanizeParams{}
	}
	hp := HumanizeParams{
		TimingVariation:   p.TimingVariation,
		VelocityVariation: p.VelocityVariation,
		DurationVariation: p.DurationVariation,
	}
	if hp == (HumanizeParams{}) {
		return DefaultHumanize()
	}
	return hp
}

// Compose assembles a complete composition: resolved chords on a bar grid,
// a melody shaped by the expressive pipeline, and a bass line humanized to
// match. The same params produce the same composition, ID included.
func Compose(p CompositionParams) models.Composition {
	p = p.withDefaults()
	rng := NewRand(p.Seed)
	tonic, mode := theory.ParseKey(p.Key)

	template := p.Progression
	if len(template) == 0 {
		template, _ = theory.PresetProgression(p.Preset)
	}

	if len(p.Structure) > 0 {
		return composeStructured(p, rng, tonic, mode, template)
	}

	bars := p.Bars
	if bars <= 0 {
		bars = len(template)
	}
	chords := theory.ResolveProgression(tonic, mode, template, p.Extended, p.ChordOctave)
	placed := PlaceProgression(chords, bars, p.VoiceLeading, p.Inversions)
	scale := theory.ResolveScale(tonic, mode, p.MelodyOctave, melodyOctaveSpan)

	melody := GenerateMelody(MelodyParams{
		Scale:          scale,
		Bars:           bars,
		Rhythm:         p.Rhythm,
		Contour:        p.Contour,
		Complexity:     p.Complexity,
		UseMotif:       p.UseMotif,
		MotifVariation: p.MotifVariation,
		Chords:         placed,
	}, rng)
	melody = ApplyExpression(melody, ExpressionParams{
		Articulation: p.Articulation,
		Dynamics:     p.Dynamics,
		Humanize:     p.humanizeParams(),
	}, rng)

	bass := GenerateBassLine(placed, p.BassPattern, p.BassOctave)
	bass = ApplyExpression(bass, ExpressionParams{Humanize: p.humanizeParams()}, rng)

	return models.Composition{
		ID:     compositionID(rng),
		Key:    p.Key,
		Tempo:  p.Tempo,
		Bars:   bars,
		Seed:   p.Seed,
		Melody: melody,
		Chords: placed,
		Bass:   bass,
	}
}

// PlaceProgression lays resolved chords on the bar grid, one bar per chord,
// cycling the progression until the requested bars are covered. With
// voiceLeading set the voicings flow from chord to chord; otherwise
// inversions cycles plain inversions; otherwise every chord stays in root
// position. Voice leading wins when both flags are set.
func PlaceProgression(chords []theory.Chord, bars int, voiceLeading, inversions bool) []models.PlacedChord {
	if len(chords) == 0 || bars < 1 {
		return nil
	}
	seq := make([]theory.Chord, bars)
	for i := range seq {
		seq[i] = chords[i%len(chords)]
	}
	voicings := voicingsFor(seq, voiceLeading, inversions)

	placed := make([]models.PlacedChord, bars)
	for i := range seq {
		placed[i] = models.PlacedChord{
			Chord:         seq[i],
			Voicing:       voicings[i],
			StartBeats:    float64(i) * models.BeatsPerBar,
			DurationBeats: models.BeatsPerBar,
		}
	}
	return placed
}

func voicingsFor(chords []theory.Chord, voiceLeading, inversions bool) [][]theory.Pitch {
	if voiceLeading {
		return LeadVoices(chords)
	}
	out := make([][]theory.Pitch, len(chords))
	for i, ch := range chords {
		if inversions {
			out[i] = Inversion(ch.Pitches, i)
		} else {
			out[i] = copyPitches(ch.Pitches)
		}
	}
	return out
}

// sectionProfile fixes the melodic character of a named section. Empty
// fields defer to the caller's own choices.
type sectionProfile struct {
	bucket       string
	contour      string
	rhythm       string
	articulation string
	dynamics     string
}

var sectionProfiles = map[string]sectionProfile{
	"intro":  {bucket: "intro", contour: "ascending", rhythm: "dotted", articulation: "legato", dynamics: "fade"},
	"verse":  {bucket: "verse", contour: "arch"},
	"chorus": {bucket: "chorus", contour: "wave", rhythm: "basic", articulation: "marcato", dynamics: "crescendo"},
	"outro":  {bucket: "outro", contour: "descending", rhythm: "dotted", articulation: "tenuto", dynamics: "diminuendo"},
}

const sectionOther = "other"

// sectionBucketOrder is the collection order of per-section melodies before
// the final stable sort by start time.
var sectionBucketOrder = []string{"intro", "verse", "chorus", "outro", sectionOther}

// SectionTags lists the recognized section names in sorted order.
func SectionTags() []string {
	tags := make([]string, 0, len(sectionProfiles))
	for tag := range sectionProfiles {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func sectionProfileFor(tag string, p CompositionParams) sectionProfile {
	prof, ok := sectionProfiles[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return sectionProfile{
			bucket:       sectionOther,
			contour:      p.Contour,
			rhythm:       p.Rhythm,
			articulation: p.Articulation,
			dynamics:     p.Dynamics,
		}
	}
	if prof.contour == "" {
		prof.contour = p.Contour
	}
	if prof.rhythm == "" {
		prof.rhythm = p.Rhythm
	}
	if prof.articulation == "" {
		prof.articulation = p.Articulation
	}
	if prof.dynamics == "" {
		prof.dynamics = p.Dynamics
	}
	return prof
}

// composeStructured renders one melody per section, each spanning a full
// pass of the progression at its absolute offset. Sections are collected
// bucket by bucket in sectionBucketOrder and then stable-sorted by start
// time, so simultaneous notes from different sections keep bucket order.
func composeStructured(p CompositionParams, rng *rand.Rand, tonic theory.PitchClass, mode string, template []string) models.Composition {
	sectionBars := len(template)
	totalBars := sectionBars * len(p.Structure)

	chords := theory.ResolveProgression(tonic, mode, template, p.Extended, p.ChordOctave)
	placed := PlaceProgression(chords, totalBars, p.VoiceLeading, p.Inversions)
	scale := theory.ResolveScale(tonic, mode, p.MelodyOctave, melodyOctaveSpan)

	buckets := make(map[string][]models.NoteEvent, len(sectionBucketOrder))
	for si, tag := range p.Structure {
		prof := sectionProfileFor(tag, p)
		offset := float64(si*sectionBars) * models.BeatsPerBar

		section := GenerateMelody(MelodyParams{
			Scale:          scale,
			Bars:           sectionBars,
			Rhythm:         prof.rhythm,
			Contour:        prof.contour,
			Complexity:     p.Complexity,
			UseMotif:       p.UseMotif,
			MotifVariation: p.MotifVariation,
			Chords:         chordWindow(placed, offset, sectionBars),
		}, rng)
		for i := range section {
			section[i].StartBeats += offset
		}
		section = ApplyExpression(section, ExpressionParams{
			Articulation: prof.articulation,
			Dynamics:     prof.dynamics,
			Humanize:     p.humanizeParams(),
		}, rng)
		buckets[prof.bucket] = append(buckets[prof.bucket], section...)
	}

	var melody []models.NoteEvent
	for _, bucket := range sectionBucketOrder {
		melody = append(melody, buckets[bucket]...)
	}
	sort.SliceStable(melody, func(i, j int) bool {
		return melody[i].StartBeats < melody[j].StartBeats
	})

	bass := GenerateBassLine(placed, p.BassPattern, p.BassOctave)
	bass = ApplyExpression(bass, ExpressionParams{Humanize: p.humanizeParams()}, rng)

	return models.Composition{
		ID:        compositionID(rng),
		Key:       p.Key,
		Tempo:     p.Tempo,
		Bars:      totalBars,
		Structure: p.Structure,
		Seed:      p.Seed,
		Melody:    melody,
		Chords:    placed,
		Bass:      bass,
	}
}

// chordWindow slices the placed chords covering bars starting at offset and
// rebases them to beat zero, so section melodies snap against the chords
// actually sounding under them.
func chordWindow(placed []models.PlacedChord, offset float64, bars int) []models.PlacedChord {
	end := offset + float64(bars)*models.BeatsPerBar
	var out []models.PlacedChord
	for _, ch := range placed {
		if ch.StartBeats >= offset && ch.StartBeats < end {
			ch.StartBeats -= offset
			out = append(out, ch)
		}
	}
	return out
}

// compositionID derives the composition's identifier from the generation
// stream, so reruns with the same seed get the same ID.
func compositionID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
