// Package portaudio adapts engine.Mixer to a real output device through
// gordonklaus/portaudio's realtime callback stream.
package portaudio

import (
	"fmt"
	"time"

	pa "github.com/gordonklaus/portaudio"

	"github.com/Alexander-D-Karpov/amp/internal/engine"
	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// Backend opens a stereo output stream and drives an engine.Mixer from
// portaudio's realtime callback. The callback's own scratch frame buffer
// is sized once at Open; the mixer sizes its internal buffer on the first
// callback.
type Backend struct {
	stream     *pa.Stream
	mixer      *engine.Mixer
	sampleRate uint32
	scratch    []types.Frame
}

// Open starts a portaudio stream at sampleRate with framesPerBuffer
// frames per callback, rendering mixer's output into the device. The
// caller must have already called portaudio.Initialize.
func Open(mixer *engine.Mixer, sampleRate uint32, framesPerBuffer int) (*Backend, error) {
	b := &Backend{
		mixer:      mixer,
		sampleRate: sampleRate,
		scratch:    make([]types.Frame, framesPerBuffer),
	}

	stream, err := pa.OpenDefaultStream(0, 2, float64(sampleRate), framesPerBuffer, b.callback)
	if err != nil {
		return nil, fmt.Errorf("portaudio: open default stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("portaudio: start stream: %w", err)
	}
	b.stream = stream
	return b, nil
}

// callback is the realtime audio thread. It does not block: it reuses
// b.scratch, sized once at Open, and Mixer.Render performs atomic loads
// and SPSC ring pops. Mixer.Render allocates its own scratch buffer only
// on the first call and whenever a callback asks for more frames than any
// earlier one.
func (b *Backend) callback(out [][]float32) {
	n := len(out[0])
	frames := b.scratch
	if len(frames) < n {
		frames = frames[:0]
		n = 0
	} else {
		frames = frames[:n]
	}
	b.mixer.Render(frames, time.Now())
	for i := 0; i < n; i++ {
		out[0][i] = frames[i].Left
		out[1][i] = frames[i].Right
	}
}

// SampleRate implements engine.Backend.
func (b *Backend) SampleRate() uint32 { return b.sampleRate }

// Render implements engine.Backend by delegating straight to the mixer;
// most hosts never call this directly since portaudio's own callback
// already does, but it lets Backend stand in anywhere an engine.Backend
// is expected (e.g. a test harness driving it explicitly).
func (b *Backend) Render(out []types.Frame) {
	b.mixer.Render(out, time.Now())
}

// Close stops and releases the portaudio stream.
func (b *Backend) Close() error {
	if b.stream == nil {
		return nil
	}
	if err := b.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop stream: %w", err)
	}
	return b.stream.Close()
}
