package spatial

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// earDistance is the offset from the listener's head position to each
// ear along its left/right axis.
const earDistance = 0.1

// minEarAmplitude floors the per-ear panning gain so a sound directly
// behind one ear is attenuated, not silenced.
const minEarAmplitude = 0.5

// Listener mixes a set of emitters into a single stereo frame, applying
// distance attenuation and a two-ear panning model.
type Listener struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// NewListener builds a listener at position with identity orientation.
func NewListener(position mgl64.Vec3) *Listener {
	return &Listener{Position: position, Orientation: mgl64.QuatIdent()}
}

// Process sums every emitter's contribution into one stereo frame:
// mono broadcast, then attenuation, then spatialization, each applied in
// that order per emitter before accumulating.
func (l *Listener) Process(emitters []*Emitter) types.Frame {
	var out types.Frame
	for _, e := range emitters {
		contribution := e.Output()
		if e.AttenuationFunction != nil {
			amp := e.AttenuationAmplitude(l.Position)
			contribution = contribution.Mul(amp)
		}
		if e.EnableSpatialization {
			contribution = l.spatialize(e.Position, contribution)
		}
		out = out.Add(contribution)
	}
	return out
}

func (l *Listener) spatialize(emitterPos mgl64.Vec3, in types.Frame) types.Frame {
	leftEar, rightEar := l.earPositions()
	leftEarDir := l.Orientation.Rotate(mgl64.Vec3{-1, 0, 0})
	rightEarDir := l.Orientation.Rotate(mgl64.Vec3{1, 0, 0})

	leftRelative := normalizeOrZero(emitterPos.Sub(leftEar))
	rightRelative := normalizeOrZero(emitterPos.Sub(rightEar))

	leftVolume := (leftEarDir.Dot(leftRelative) + 1) / 2
	rightVolume := (rightEarDir.Dot(rightRelative) + 1) / 2

	left := float32(minEarAmplitude+(1-minEarAmplitude)*leftVolume) * in.Left
	right := float32(minEarAmplitude+(1-minEarAmplitude)*rightVolume) * in.Right
	return types.Frame{Left: left, Right: right}
}

func (l *Listener) earPositions() (left, right mgl64.Vec3) {
	left = l.Position.Add(l.Orientation.Rotate(mgl64.Vec3{-earDistance, 0, 0}))
	right = l.Position.Add(l.Orientation.Rotate(mgl64.Vec3{earDistance, 0, 0}))
	return left, right
}

// normalizeOrZero returns v normalized, or the zero vector if v is (near)
// zero-length — an emitter exactly at an ear position contributes no
// panning shift rather than dividing by zero.
func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length < 1e-9 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / length)
}
