package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// MinDecibels is the floor of the attenuation curve's decibel range.
const MinDecibels = -60.0

// AttenuationFunc maps a relative volume in [0,1] to a relative volume in
// [0,1]. LinearAttenuation is the identity curve.
type AttenuationFunc func(relativeVolume float64) float64

// LinearAttenuation is the identity attenuation curve.
func LinearAttenuation(relativeVolume float64) float64 {
	return relativeVolume
}

// DistanceRange is the (min, max) distance an emitter's attenuation
// curve is defined over.
type DistanceRange struct {
	Min, Max float64
}

// RelativeDistance clamps d into [0,1] against the range.
func (r DistanceRange) RelativeDistance(d float64) float64 {
	if r.Max <= r.Min {
		return 0
	}
	rel := (d - r.Min) / (r.Max - r.Min)
	if rel < 0 {
		return 0
	}
	if rel > 1 {
		return 1
	}
	return rel
}

// Tag is a free-text label an Emitter carries purely for lookup by a
// Directory — it has no effect on mixdown.
type Tag string

// Emitter is a positioned monophonic sound source.
type Emitter struct {
	Position             mgl64.Vec3
	AttenuationFunction  AttenuationFunc // nil disables distance attenuation
	Distances            DistanceRange
	EnableSpatialization bool
	Tag                  Tag

	output types.Frame
}

// NewEmitter builds an emitter at position with spatialization enabled
// and no attenuation curve; callers configure the rest via the exported
// fields.
func NewEmitter(position mgl64.Vec3) *Emitter {
	return &Emitter{Position: position, EnableSpatialization: true}
}

// SetOutput stores this tick's mono sample, broadcast into both channels
// by the listener during mixdown.
func (e *Emitter) SetOutput(mono float32) {
	e.output = types.Frame{Left: mono, Right: mono}
}

// Output returns the mono-broadcast stereo frame before attenuation or
// spatialization is applied.
func (e *Emitter) Output() types.Frame {
	return e.output
}

// AttenuationAmplitude computes the linear-amplitude multiplier a
// listener at listenerPos applies to this emitter, or 1 if no
// attenuation function is set.
func (e *Emitter) AttenuationAmplitude(listenerPos mgl64.Vec3) float32 {
	if e.AttenuationFunction == nil {
		return 1
	}
	distance := e.Position.Sub(listenerPos).Len()
	relDistance := e.Distances.RelativeDistance(distance)
	relVolume := e.AttenuationFunction(1 - relDistance)
	db := MinDecibels + (0-MinDecibels)*relVolume
	return float32(decibelsToAmplitude(db))
}

func decibelsToAmplitude(db float64) float64 {
	return math.Pow(10, db/20)
}
