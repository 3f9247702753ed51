package spatial

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestEmitter_NoAttenuationFunctionIsFullVolume(t *testing.T) {
	e := NewEmitter(mgl64.Vec3{10, 0, 0})
	amp := e.AttenuationAmplitude(mgl64.Vec3{})
	assert.Equal(t, float32(1), amp)
}

// At the near edge of the distance range the emitter is at full volume;
// at or beyond the far edge it sits at the MinDecibels floor.
func TestEmitter_AttenuationAtNearEdgeIsFullVolume(t *testing.T) {
	e := NewEmitter(mgl64.Vec3{1, 0, 0})
	e.AttenuationFunction = LinearAttenuation
	e.Distances = DistanceRange{Min: 1, Max: 10}

	amp := e.AttenuationAmplitude(mgl64.Vec3{})
	assert.InDelta(t, 1.0, amp, 1e-6)
}

func TestEmitter_AttenuationAtFarEdgeIsFloor(t *testing.T) {
	e := NewEmitter(mgl64.Vec3{10, 0, 0})
	e.AttenuationFunction = LinearAttenuation
	e.Distances = DistanceRange{Min: 1, Max: 10}

	amp := e.AttenuationAmplitude(mgl64.Vec3{})
	expected := decibelsToAmplitude(MinDecibels)
	assert.InDelta(t, expected, float64(amp), 1e-6)
}

func TestEmitter_AttenuationBeyondFarEdgeClampsToFloor(t *testing.T) {
	e := NewEmitter(mgl64.Vec3{1000, 0, 0})
	e.AttenuationFunction = LinearAttenuation
	e.Distances = DistanceRange{Min: 1, Max: 10}

	amp := e.AttenuationAmplitude(mgl64.Vec3{})
	expected := decibelsToAmplitude(MinDecibels)
	assert.InDelta(t, expected, float64(amp), 1e-6)
}

func TestEmitter_AttenuationMonotonicWithDistance(t *testing.T) {
	e := NewEmitter(mgl64.Vec3{})
	e.AttenuationFunction = LinearAttenuation
	e.Distances = DistanceRange{Min: 0, Max: 100}

	var prev float32 = 2 // larger than any valid amplitude
	for _, d := range []float64{0, 10, 25, 50, 75, 99} {
		e.Position = mgl64.Vec3{d, 0, 0}
		amp := e.AttenuationAmplitude(mgl64.Vec3{})
		assert.LessOrEqualf(t, amp, prev, "amplitude should not increase with distance %v", d)
		prev = amp
	}
}

func TestEmitter_SetOutputBroadcastsMono(t *testing.T) {
	e := NewEmitter(mgl64.Vec3{})
	e.SetOutput(0.5)
	out := e.Output()
	assert.Equal(t, float32(0.5), out.Left)
	assert.Equal(t, float32(0.5), out.Right)
}

func TestDistanceRange_DegenerateRangeIsZero(t *testing.T) {
	r := DistanceRange{Min: 5, Max: 5}
	assert.Equal(t, 0.0, r.RelativeDistance(10))
}
