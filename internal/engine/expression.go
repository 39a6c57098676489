package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Scott-Hewitt/midi-tool-api/internal/models"
)

// Default humanize amounts: timing in beats, velocity as an absolute offset,
// duration as a fraction of each note's length.
const (
	DefaultTimingVariation   = 0.05
	DefaultVelocityVariation = 0.1
	DefaultDurationVariation = 0.1
)

// Hard limits applied once, at the end of the pipeline.
const (
	velocityFloor      = 0.1
	velocityCeil       = 1.0
	durationFloorBeats = 0.1
)

// articulationShape scales a note's duration and velocity.
type articulationShape struct {
	duration float64
	velocity float64
}

var articulationShapes = map[string]articulationShape{
	"legato":   {duration: 1.0, velocity: 0.9},
	"staccato": {duration: 0.5, velocity: 1.1},
	"marcato":  {duration: 0.8, velocity: 1.2},
	"tenuto":   {duration: 1.0, velocity: 1.0},
}

// ArticulationNames lists the articulation styles in sorted order.
func ArticulationNames() []string {
	names := make([]string, 0, len(articulationShapes))
	for name := range articulationShapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dynamicsCurve returns the velocity multiplier for note i of n.
type dynamicsCurve func(i, n int) float64

var dynamicsCurves = map[string]dynamicsCurve{
	"crescendo": func(i, n int) float64 {
		return 0.7 + progress(i, n)*0.3
	},
	"diminuendo": func(i, n int) float64 {
		return 1.0 - progress(i, n)*0.3
	},
	"swell": func(i, n int) float64 {
		return 0.7 + math.Sin(progress(i, n)*math.Pi)*0.3
	},
	"fade": func(i, n int) float64 {
		p := progress(i, n)
		return 1.0 - p*p*0.5
	},
	"accent": func(i, _ int) float64 {
		if i%4 == 0 {
			return 1.0
		}
		return 0.8
	},
}

// DynamicsNames lists the dynamics curve names in sorted order.
func DynamicsNames() []string {
	names := make([]string, 0, len(dynamicsCurves))
	for name := range dynamicsCurves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func progress(i, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(i) / float64(n)
}

// HumanizeParams bounds the random jitter of the humanize stage. Zero values
// jitter nothing; the stage's floors and clamps still apply.
type HumanizeParams struct {
	// TimingVariation shifts each start by up to this many beats either way.
	TimingVariation float64
	// VelocityVariation offsets each velocity by up to this much either way.
	VelocityVariation float64
	// DurationVariation stretches or shrinks each duration by up to this
	// fraction of itself.
	DurationVariation float64
}

// DefaultHumanize returns the stock humanize amounts.
func DefaultHumanize() HumanizeParams {
	return HumanizeParams{
		TimingVariation:   DefaultTimingVariation,
		VelocityVariation: DefaultVelocityVariation,
		DurationVariation: DefaultDurationVariation,
	}
}

// ExpressionParams selects the shaping applied to a rendered part. Unknown
// articulation or dynamics names leave notes untouched.
type ExpressionParams struct {
	Articulation string
	Dynamics     string
	Humanize     HumanizeParams
}

// ApplyExpression runs the fixed pipeline: articulation, then dynamics, then
// humanization. Velocities may exceed 1.0 between stages; the humanize stage
// always runs and clamps them into [0.1, 1.0] at the end, jitter or not.
func ApplyExpression(notes []models.NoteEvent, p ExpressionParams, rng *rand.Rand) []models.NoteEvent {
	out := applyArticulation(notes, p.Articulation)
	out = applyDynamics(out, p.Dynamics)
	return applyHumanize(out, p.Humanize, rng)
}

func applyArticulation(notes []models.NoteEvent, style string) []models.NoteEvent {
	out := make([]models.NoteEvent, len(notes))
	copy(out, notes)
	shape, ok := articulationShapes[style]
	if !ok {
		return out
	}
	for i := range out {
		out[i].DurationBeats *= shape.duration
		out[i].Velocity *= shape.velocity
	}
	return out
}

func applyDynamics(notes []models.NoteEvent, curve string) []models.NoteEvent {
	out := make([]models.NoteEvent, len(notes))
	copy(out, notes)
	fn, ok := dynamicsCurves[curve]
	if !ok {
		return out
	}
	n := len(out)
	for i := range out {
		out[i].Velocity *= fn(i, n)
	}
	return out
}

func applyHumanize(notes []models.NoteEvent, hp HumanizeParams, rng *rand.Rand) []models.NoteEvent {
	out := make([]models.NoteEvent, len(notes))
	copy(out, notes)
	for i := range out {
		start := out[i].StartBeats + uniform(rng, -hp.TimingVariation, hp.TimingVariation)
		if start < 0 {
			start = 0
		}
		dur := out[i].DurationBeats * (1 + uniform(rng, -hp.DurationVariation, hp.DurationVariation))
		if dur < durationFloorBeats {
			dur = durationFloorBeats
		}
		out[i].StartBeats = start
		out[i].DurationBeats = dur
		out[i].Velocity = clampFloat(
			out[i].Velocity+uniform(rng, -hp.VelocityVariation, hp.VelocityVariation),
			velocityFloor, velocityCeil,
		)
	}
	return out
}
