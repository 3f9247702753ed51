package engine

import (
	"time"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// Backend is the host audio device contract: whatever owns the hardware
// callback pulls frames through Render, which must be safe to call from
// a realtime thread (no allocation, no blocking).
type Backend interface {
	// SampleRate is the rate frames are rendered at; Render callers are
	// responsible for resampling sources that disagree with it.
	SampleRate() uint32
	// Render fills out with the next len(out) mixed frames.
	Render(out []types.Frame)
	// Close releases any device resources.
	Close() error
}

// Mixer is the minimal multi-sound Render fan-in a Backend can be built
// against: it sums every active StreamingSound's output into the
// caller's buffer, clearing the buffer first.
type Mixer struct {
	sounds  []*StreamingSound
	scratch []types.Frame
}

// NewMixer builds an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// Add registers a sound to be summed on every Render call.
func (m *Mixer) Add(s *StreamingSound) {
	m.sounds = append(m.sounds, s)
}

// Remove drops a sound from the mix (e.g. once it has fully stopped).
func (m *Mixer) Remove(s *StreamingSound) {
	for i, existing := range m.sounds {
		if existing == s {
			m.sounds = append(m.sounds[:i], m.sounds[i+1:]...)
			return
		}
	}
}

// Render implements the shared fan-in logic Backend adapters call from
// their hardware callback. now is almost always time.Now; adapters pass
// it explicitly so tests can drive the mix with a fixed clock.
func (m *Mixer) Render(out []types.Frame, now time.Time) {
	for i := range out {
		out[i] = types.ZeroFrame
	}
	if cap(m.scratch) < len(out) {
		m.scratch = make([]types.Frame, len(out))
	}
	scratch := m.scratch[:len(out)]
	for _, s := range m.sounds {
		s.Fill(scratch, now)
		for i, f := range scratch {
			out[i] = out[i].Add(f)
		}
	}
}
