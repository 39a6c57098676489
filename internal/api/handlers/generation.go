package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Scott-Hewitt/midi-tool-api/internal/engine"
	"github.com/Scott-Hewitt/midi-tool-api/internal/logger"
	"github.com/Scott-Hewitt/midi-tool-api/internal/metrics"
	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
	"github.com/Scott-Hewitt/midi-tool-api/internal/theory"
)

// Boundary limits. Out-of-range requests are rejected here rather than
// silently clamped by the engine.
const (
	minTempo  = 20
	maxTempo  = 300
	maxBars   = 128
	maxOctave = 8

	defaultBars = 4
)

type GenerationHandler struct {
	cw     *metrics.Client
	sentry *metrics.SentryMetrics
}

func NewGenerationHandler(cw *metrics.Client) *GenerationHandler {
	return &GenerationHandler{
		cw:     cw,
		sentry: metrics.NewSentryMetrics(),
	}
}

// CompositionRequest carries every knob of the composer. Zero values mean
// "use the default"; a missing seed is drawn from the clock and echoed back
// in the composition so the result can be regenerated.
type CompositionRequest struct {
	Key         string   `json:"key"`
	Tempo       int      `json:"tempo"`
	Bars        int      `json:"bars"`
	Progression []string `json:"progression"`
	Preset      string   `json:"preset"`

	Rhythm         string `json:"rhythm"`
	Contour        string `json:"contour"`
	Complexity     int    `json:"complexity"`
	UseMotif       bool   `json:"useMotif"`
	MotifVariation string `json:"motifVariation"`

	Articulation string `json:"articulation"`
	Dynamics     string `json:"dynamics"`

	Humanize          bool    `json:"humanize"`
	TimingVariation   float64 `json:"timingVariation"`
	VelocityVariation float64 `json:"velocityVariation"`
	DurationVariation float64 `json:"durationVariation"`

	VoiceLeading bool `json:"voiceLeading"`
	Inversions   bool `json:"inversions"`
	Extended     bool `json:"extendedChords"`

	Structure []string `json:"structure"`

	BassPattern  string `json:"bassPattern"`
	BassOctave   int    `json:"bassOctave"`
	MelodyOctave int    `json:"melodyOctave"`
	ChordOctave  int    `json:"chordOctave"`

	Seed *int64 `json:"seed"`
}

func (r *CompositionRequest) validate() string {
	return firstError(
		validateRange("tempo", r.Tempo, minTempo, maxTempo),
		validateRange("bars", r.Bars, 1, maxBars),
		validateComplexity(r.Complexity),
		validateOctave("bassOctave", r.BassOctave),
		validateOctave("melodyOctave", r.MelodyOctave),
		validateOctave("chordOctave", r.ChordOctave),
		validateChoice("rhythm", r.Rhythm, engine.RhythmNames()),
		validateChoice("contour", r.Contour, engine.ContourNames()),
		validateChoice("articulation", r.Articulation, engine.ArticulationNames()),
		validateChoice("dynamics", r.Dynamics, engine.DynamicsNames()),
		validateChoice("bassPattern", r.BassPattern, engine.BassPatternNames()),
		validateChoice("motifVariation", r.MotifVariation, engine.MotifOperators()),
	)
}

// Compose renders a complete composition: placed chords, a melody over them
// and a bass line, all from one seed.
func (h *GenerationHandler) Compose(c *gin.Context) {
	var req CompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	startTime := time.Now()

	composition := engine.Compose(engine.CompositionParams{
		Key:         req.Key,
		Tempo:       req.Tempo,
		Bars:        req.Bars,
		Progression: req.Progression,
		Preset:      req.Preset,

		Rhythm:         req.Rhythm,
		Contour:        req.Contour,
		Complexity:     req.Complexity,
		UseMotif:       req.UseMotif,
		MotifVariation: req.MotifVariation,

		Articulation: req.Articulation,
		Dynamics:     req.Dynamics,

		Humanize:          req.Humanize,
		TimingVariation:   req.TimingVariation,
		VelocityVariation: req.VelocityVariation,
		DurationVariation: req.DurationVariation,

		VoiceLeading: req.VoiceLeading,
		Inversions:   req.Inversions,
		Extended:     req.Extended,

		Structure: req.Structure,

		BassPattern:  req.BassPattern,
		BassOctave:   req.BassOctave,
		MelodyOctave: req.MelodyOctave,
		ChordOctave:  req.ChordOctave,

		Seed: resolveSeed(req.Seed),
	})

	duration := time.Since(startTime)
	noteCount := len(composition.Melody) + len(composition.Bass)
	h.recordGeneration(c, "composition", duration, noteCount, len(composition.Chords), composition.Bars)

	c.JSON(http.StatusOK, gin.H{
		"request_id":  c.GetString("request_id"),
		"composition": composition,
	})
}

// MelodyRequest renders a single melodic line. A progression or preset may
// be supplied so the melody snaps toward chord tones; without one the line
// follows the scale alone.
type MelodyRequest struct {
	Key            string   `json:"key"`
	Bars           int      `json:"bars"`
	Octave         int      `json:"octave"`
	Rhythm         string   `json:"rhythm"`
	Contour        string   `json:"contour"`
	Complexity     int      `json:"complexity"`
	UseMotif       bool     `json:"useMotif"`
	MotifVariation string   `json:"motifVariation"`
	Progression    []string `json:"progression"`
	Preset         string   `json:"preset"`
	Extended       bool     `json:"extendedChords"`
	ChordOctave    int      `json:"chordOctave"`
	Articulation   string   `json:"articulation"`
	Dynamics       string   `json:"dynamics"`
	Humanize       bool     `json:"humanize"`
	Seed           *int64   `json:"seed"`
}

func (r *MelodyRequest) validate() string {
	return firstError(
		validateRange("bars", r.Bars, 1, maxBars),
		validateComplexity(r.Complexity),
		validateOctave("octave", r.Octave),
		validateOctave("chordOctave", r.ChordOctave),
		validateChoice("rhythm", r.Rhythm, engine.RhythmNames()),
		validateChoice("contour", r.Contour, engine.ContourNames()),
		validateChoice("articulation", r.Articulation, engine.ArticulationNames()),
		validateChoice("dynamics", r.Dynamics, engine.DynamicsNames()),
		validateChoice("motifVariation", r.MotifVariation, engine.MotifOperators()),
	)
}

func (h *GenerationHandler) Melody(c *gin.Context) {
	var req MelodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	seed := resolveSeed(req.Seed)
	startTime := time.Now()

	key := orDefault(req.Key, engine.DefaultKey)
	tonic, mode := theory.ParseKey(key)
	bars := req.Bars
	if bars < 1 {
		bars = defaultBars
	}
	octave := req.Octave
	if octave == 0 {
		octave = engine.DefaultMelodyOctave
	}
	complexity := req.Complexity
	if complexity == 0 {
		complexity = engine.DefaultComplexity
	}
	scale := theory.ResolveScale(tonic, mode, octave, 2)

	var placed []models.PlacedChord
	if len(req.Progression) > 0 || req.Preset != "" {
		template := resolveTemplate(req.Progression, req.Preset)
		chords := theory.ResolveProgression(tonic, mode, template, req.Extended, chordOctaveOr(req.ChordOctave))
		placed = engine.PlaceProgression(chords, bars, false, false)
	}

	rng := engine.NewRand(seed)
	melody := engine.GenerateMelody(engine.MelodyParams{
		Scale:          scale,
		Bars:           bars,
		Rhythm:         req.Rhythm,
		Contour:        req.Contour,
		Complexity:     complexity,
		UseMotif:       req.UseMotif,
		MotifVariation: req.MotifVariation,
		Chords:         placed,
	}, rng)
	melody = engine.ApplyExpression(melody, engine.ExpressionParams{
		Articulation: req.Articulation,
		Dynamics:     req.Dynamics,
		Humanize:     humanizeFor(req.Humanize),
	}, rng)

	duration := time.Since(startTime)
	h.recordGeneration(c, "melody", duration, len(melody), len(placed), bars)

	c.JSON(http.StatusOK, gin.H{
		"request_id": c.GetString("request_id"),
		"key":        key,
		"bars":       bars,
		"seed":       seed,
		"notes":      melody,
	})
}

// ProgressionRequest resolves a numeral template (or preset) into placed,
// optionally voice-led chords. Resolution is deterministic, so there is no
// seed.
type ProgressionRequest struct {
	Key          string   `json:"key"`
	Progression  []string `json:"progression"`
	Preset       string   `json:"preset"`
	Bars         int      `json:"bars"`
	Extended     bool     `json:"extendedChords"`
	VoiceLeading bool     `json:"voiceLeading"`
	Inversions   bool     `json:"inversions"`
	Octave       int      `json:"octave"`
}

func (r *ProgressionRequest) validate() string {
	return firstError(
		validateRange("bars", r.Bars, 1, maxBars),
		validateOctave("octave", r.Octave),
	)
}

func (h *GenerationHandler) Progression(c *gin.Context) {
	var req ProgressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	startTime := time.Now()

	key := orDefault(req.Key, engine.DefaultKey)
	tonic, mode := theory.ParseKey(key)
	template := resolveTemplate(req.Progression, req.Preset)
	bars := req.Bars
	if bars < 1 {
		bars = len(template)
	}
	chords := theory.ResolveProgression(tonic, mode, template, req.Extended, chordOctaveOr(req.Octave))
	placed := engine.PlaceProgression(chords, bars, req.VoiceLeading, req.Inversions)

	duration := time.Since(startTime)
	h.recordGeneration(c, "progression", duration, 0, len(placed), bars)

	c.JSON(http.StatusOK, gin.H{
		"request_id": c.GetString("request_id"),
		"key":        key,
		"bars":       bars,
		"chords":     placed,
	})
}

// BassLineRequest renders a bass part for a progression. Voice-leading flags
// matter only to the arpeggio pattern, which walks the chord voicings.
type BassLineRequest struct {
	Key          string   `json:"key"`
	Progression  []string `json:"progression"`
	Preset       string   `json:"preset"`
	Bars         int      `json:"bars"`
	Extended     bool     `json:"extendedChords"`
	VoiceLeading bool     `json:"voiceLeading"`
	Inversions   bool     `json:"inversions"`
	Pattern      string   `json:"pattern"`
	Octave       int      `json:"octave"`
	ChordOctave  int      `json:"chordOctave"`
	Humanize     bool     `json:"humanize"`
	Seed         *int64   `json:"seed"`
}

func (r *BassLineRequest) validate() string {
	return firstError(
		validateRange("bars", r.Bars, 1, maxBars),
		validateOctave("octave", r.Octave),
		validateOctave("chordOctave", r.ChordOctave),
		validateChoice("pattern", r.Pattern, engine.BassPatternNames()),
	)
}

func (h *GenerationHandler) BassLine(c *gin.Context) {
	var req BassLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	seed := resolveSeed(req.Seed)
	startTime := time.Now()

	key := orDefault(req.Key, engine.DefaultKey)
	tonic, mode := theory.ParseKey(key)
	template := resolveTemplate(req.Progression, req.Preset)
	bars := req.Bars
	if bars < 1 {
		bars = len(template)
	}
	chords := theory.ResolveProgression(tonic, mode, template, req.Extended, chordOctaveOr(req.ChordOctave))
	placed := engine.PlaceProgression(chords, bars, req.VoiceLeading, req.Inversions)

	octave := req.Octave
	if octave == 0 {
		octave = engine.DefaultBassOctave
	}
	bass := engine.GenerateBassLine(placed, req.Pattern, octave)
	bass = engine.ApplyExpression(bass, engine.ExpressionParams{
		Humanize: humanizeFor(req.Humanize),
	}, engine.NewRand(seed))

	duration := time.Since(startTime)
	h.recordGeneration(c, "bassline", duration, len(bass), len(placed), bars)

	c.JSON(http.StatusOK, gin.H{
		"request_id": c.GetString("request_id"),
		"key":        key,
		"bars":       bars,
		"seed":       seed,
		"notes":      bass,
	})
}

// recordGeneration fans one generation result out to the structured log,
// CloudWatch and Sentry.
func (h *GenerationHandler) recordGeneration(c *gin.Context, generator string, duration time.Duration, noteCount, chordCount, bars int) {
	fields := logger.WithContext(c)
	fields["notes"] = noteCount
	fields["chords"] = chordCount
	fields["bars"] = bars
	logger.LogGeneration(c.Request.Context(), generator, duration, fields)

	h.cw.RecordGeneration(generator, duration, noteCount, chordCount, bars)
	h.cw.RecordGenerationOutcome(generator, true)
	h.sentry.RecordGeneration(c.Request.Context(), generator, duration, noteCount, chordCount, bars)
	h.sentry.RecordGenerationOutcome(c.Request.Context(), generator, duration, true)
}

// resolveSeed fills a missing seed from the clock so every response carries
// the seed that reproduces it.
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

func resolveTemplate(progression []string, preset string) []string {
	if len(progression) > 0 {
		return progression
	}
	template, _ := theory.PresetProgression(preset)
	return template
}

func chordOctaveOr(octave int) int {
	if octave == 0 {
		return engine.DefaultChordOctave
	}
	return octave
}

func humanizeFor(on bool) engine.HumanizeParams {
	if !on {
		return engine.HumanizeParams{}
	}
	return engine.DefaultHumanize()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func firstError(msgs ...string) string {
	for _, msg := range msgs {
		if msg != "" {
			return msg
		}
	}
	return ""
}

// validateChoice rejects names outside the allowed set. Empty passes; the
// engine substitutes its default.
func validateChoice(field, value string, allowed []string) string {
	if value == "" {
		return ""
	}
	for _, name := range allowed {
		if value == name {
			return ""
		}
	}
	return fmt.Sprintf("Invalid %s. Allowed: %s", field, strings.Join(allowed, ", "))
}

func validateComplexity(complexity int) string {
	if complexity != 0 && (complexity < engine.ComplexityMin || complexity > engine.ComplexityMax) {
		return fmt.Sprintf("Invalid complexity. Must be between %d and %d", engine.ComplexityMin, engine.ComplexityMax)
	}
	return ""
}

// validateRange allows zero as "unset" and otherwise requires [min, max].
func validateRange(field string, value, min, max int) string {
	if value != 0 && (value < min || value > max) {
		return fmt.Sprintf("Invalid %s. Must be between %d and %d", field, min, max)
	}
	return ""
}

func validateOctave(field string, value int) string {
	if value < 0 || value > maxOctave {
		return fmt.Sprintf("Invalid %s. Must be between 0 and %d", field, maxOctave)
	}
	return ""
}
