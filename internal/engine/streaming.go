package engine

import (
	"time"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// StreamingSound is the audio-thread side of a streaming sound. It owns
// the frame-ring consumer and a one-frame interpolation window, and it
// must never allocate or block: Fill is the only method the render
// callback calls, and every field it touches is sized at construction.
type StreamingSound struct {
	frameRing  *ring[types.TimestampedFrame]
	shared     *shared
	sampleRate uint32

	prev          types.TimestampedFrame
	haveExpected  bool
	expectedIndex int64

	paused bool
	gain   *Tween // output gain envelope; Resume, Stop and SetGain all ramp it

	underruns int64
}

func newStreamingSound(frameRing *ring[types.TimestampedFrame], shared *shared, sampleRate uint32) *StreamingSound {
	s := &StreamingSound{
		frameRing:  frameRing,
		shared:     shared,
		sampleRate: sampleRate,
		gain:       NewTween(1.0),
	}
	// Consume the pre-seeded zero frame as the initial "previous" sample.
	// It is never itself emitted as output.
	if f, ok := s.frameRing.Pop(); ok {
		s.prev = f
	}
	return s
}

// Fill produces len(out) stereo samples into out. now is the wall-clock
// time used to evaluate the output gain envelope.
func (s *StreamingSound) Fill(out []types.Frame, now time.Time) {
	for i := range out {
		out[i] = s.nextSample(now)
	}
}

func (s *StreamingSound) nextSample(now time.Time) types.Frame {
	if s.paused {
		return types.ZeroFrame
	}

	// Stop sets shared.state = Stopped as the teardown signal the decoder
	// thread watches for, but the ring may still hold buffered frames: keep
	// draining (and honoring the gain ramp) through popNext rather than
	// going silent here, so the fade-out actually plays before underrun
	// silence takes over.
	frame, ok := s.popNext()
	if !ok {
		s.underruns++
		if s.shared.ReachedEnd() {
			s.shared.SetState(types.StateStopped)
		}
		return types.ZeroFrame
	}

	s.prev = frame
	s.shared.SetPosition(float64(frame.Index) / float64(s.sampleRate))

	gain := float32(s.gain.Value(now))
	return frame.Frame.Mul(gain)
}

// popNext discards any frame older than the expected next cursor and
// returns the next frame to play, or ok=false on underrun.
func (s *StreamingSound) popNext() (types.TimestampedFrame, bool) {
	for {
		f, ok := s.frameRing.Pop()
		if !ok {
			return types.TimestampedFrame{}, false
		}
		if s.haveExpected && f.Index < s.expectedIndex {
			continue // stale pre-seek frame; discard and keep reading
		}
		s.haveExpected = true
		s.expectedIndex = f.Index + 1
		return f, true
	}
}

// Underruns returns the number of samples produced as silence because
// the ring was empty.
func (s *StreamingSound) Underruns() int64 {
	return s.underruns
}

// Position returns the last position published on the shared block.
func (s *StreamingSound) Position() time.Duration {
	return time.Duration(s.shared.Position() * float64(time.Second))
}

// State returns the current playback state.
func (s *StreamingSound) State() types.PlaybackState {
	return s.shared.State()
}

// Pause freezes output and stops draining the ring — the ring keeps
// filling from the decoder thread (which only watches shared.state ==
// Stopped, not Paused) so resuming picks up exactly where it left off.
func (s *StreamingSound) Pause() {
	s.paused = true
	s.shared.SetState(types.StatePaused)
}

// Resume un-pauses; ramping gain back in over fade if given.
func (s *StreamingSound) Resume(now time.Time, fade time.Duration) {
	s.paused = false
	s.shared.SetState(types.StatePlaying)
	s.gain.Start(now, 1.0, fade)
}

// Stop is the sole cancellation signal: it marks shared.state Stopped
// immediately so the decoder thread exits at the
// top of its next step, while the audio thread keeps draining whatever
// is already buffered in the ring — ramping gain down over fade — until
// it runs dry.
func (s *StreamingSound) Stop(now time.Time, fade time.Duration) {
	s.gain.Start(now, 0, fade)
	s.shared.SetState(types.StateStopped)
}

// SetGain applies a host-controlled output gain ramp (e.g. a fade-in/out
// requested by the control plane). It shares the envelope that Resume
// ramps back to 1 and Stop ramps to 0, so either of those replaces it.
func (s *StreamingSound) SetGain(now time.Time, target float64, fade time.Duration) {
	s.gain.Start(now, target, fade)
}
