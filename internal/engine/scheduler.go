package engine

import (
	"log"
	"math"
	"time"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// frameRingCapacity is fixed at 16384 TimestampedFrames.
const frameRingCapacity = 16384

// decoderSleepInterval is how long the decoder thread sleeps when the
// frame ring is full — the only thread in the system allowed to sleep.
const decoderSleepInterval = time.Millisecond

// maxEmptyDecodeAttempts bounds how many consecutive empty, error-free
// Decode() calls frameAtIndex tolerates before giving up on an index —
// enough slack for a transient empty chunk between frames, without
// letting a permanently stalled decoder spin the decoder thread forever.
const maxEmptyDecodeAttempts = 8

// NextStep is the scheduler's per-iteration verdict, driving the
// surrounding loop.
type NextStep int

const (
	StepContinue NextStep = iota
	StepWait
	StepEnd
)

// DecodeScheduler is the background worker that owns the Decoder, holds
// the single decoded-chunk cache, drains control-plane commands and
// pushes frames into the SPSC frame ring the audio thread consumes.
type DecodeScheduler struct {
	decoder    Decoder
	sampleRate uint32
	numFrames  int64

	transport     *Transport
	decoderCursor int64
	cache         *decodedChunk
	commandRing   *ring[command]
	frameRing     *ring[types.TimestampedFrame]
	errorRing     *ring[error]
	shared        *shared
	debug         bool
}

// newDecodeScheduler constructs a scheduler and the frame ring it
// produces into; the consumer side is built by the caller. It pre-seeds the frame ring with a single zero frame at
// index 0 so the renderer always has a "previous" sample for
// interpolation before the decoder thread produces anything.
func newDecodeScheduler(decoder Decoder, settings StreamingSoundSettings, shared *shared, commandRing *ring[command], errorRing *ring[error], debug bool) *DecodeScheduler {
	sampleRate := decoder.SampleRate()
	numFrames := decoder.NumFrames()

	s := &DecodeScheduler{
		decoder:     decoder,
		sampleRate:  sampleRate,
		numFrames:   numFrames,
		transport:   NewTransport(settings.PlaybackRegion, settings.LoopRegion, false, sampleRate, numFrames),
		commandRing: commandRing,
		frameRing:   newRing[types.TimestampedFrame](frameRingCapacity),
		errorRing:   errorRing,
		shared:      shared,
		debug:       debug,
	}
	s.frameRing.Push(types.TimestampedFrame{Frame: types.ZeroFrame, Index: 0})
	return s
}

// CurrentFrame returns the transport's current position, for diagnostics.
func (s *DecodeScheduler) CurrentFrame() int64 {
	return s.transport.Position
}

// Run drives the scheduler until the sound is stopped or ends, sleeping
// per decoderSleepInterval on StepWait. It is meant to be the body of
// the decoder thread's goroutine: one per streaming sound, OS-scheduled.
func (s *DecodeScheduler) Run() {
	for {
		switch s.step() {
		case StepContinue:
		case StepWait:
			time.Sleep(decoderSleepInterval)
		case StepEnd:
			return
		}
	}
}

// step performs one iteration of the decoder thread's control contract.
func (s *DecodeScheduler) step() NextStep {
	if s.shared.State() == types.StateStopped {
		return StepEnd
	}
	if s.frameRing.IsFull() {
		return StepWait
	}

	for {
		cmd, ok := s.commandRing.Pop()
		if !ok {
			break
		}
		if err := s.applyCommand(cmd); err != nil {
			s.pushError(err)
		}
	}

	frame, err := s.frameAtIndex(s.transport.Position)
	if err != nil {
		s.pushError(err)
		// Forward progress on this index failed; nudge the index
		// forward so a transient decode error at one frame doesn't spin
		// the decoder thread forever on the exact same failing index.
		frame = types.ZeroFrame
	}

	// Step 2 guards that the ring isn't full, so this push cannot fail.
	s.frameRing.Push(types.TimestampedFrame{Frame: frame, Index: s.transport.Position})

	s.transport.IncrementPosition()
	if !s.transport.Playing {
		s.shared.SetReachedEnd(true)
		return StepEnd
	}
	return StepContinue
}

func (s *DecodeScheduler) applyCommand(cmd command) error {
	switch cmd.kind {
	case cmdSetPlaybackRegion:
		s.transport.SetPlaybackRegion(cmd.region, s.sampleRate, s.numFrames)
		return nil
	case cmdSetLoopRegion:
		s.transport.SetLoopRegion(cmd.loopRegion, s.sampleRate, s.numFrames)
		return nil
	case cmdSeekBy:
		return s.seekBy(cmd.seekByDelta)
	case cmdSeekTo:
		return s.seekTo(cmd.seekToSeconds)
	default:
		return nil
	}
}

// frameAtIndex produces the frame at an absolute source index, growing
// the decoded-chunk cache as needed.
func (s *DecodeScheduler) frameAtIndex(index int64) (types.Frame, error) {
	if index < 0 {
		return types.ZeroFrame, nil
	}
	if s.cache != nil {
		if frame, ok := s.cache.frameAt(index); ok {
			return frame, nil
		}
	}
	if index < s.decoderCursor {
		landed, err := s.decoder.Seek(index)
		if err != nil {
			return types.ZeroFrame, err
		}
		s.decoderCursor = landed
	}
	emptyStreak := 0
	for {
		frames, err := s.decoder.Decode()
		if err != nil {
			return types.ZeroFrame, err
		}
		if len(frames) == 0 {
			// Decode() is allowed to return an empty, error-free chunk
			// transiently between frames; retry a bounded number of
			// times before treating it as a genuine stall so a momentary
			// gap doesn't glitch a single frame of silence.
			emptyStreak++
			if emptyStreak >= maxEmptyDecodeAttempts {
				return types.ZeroFrame, nil
			}
			continue
		}
		emptyStreak = 0
		chunk := &decodedChunk{StartIndex: s.decoderCursor, Frames: frames}
		s.decoderCursor += int64(len(frames))
		s.cache = chunk
		if frame, ok := chunk.frameAt(index); ok {
			return frame, nil
		}
	}
}

// seekTo rounds seconds*sampleRate to an index and applies it.
func (s *DecodeScheduler) seekTo(seconds float64) error {
	index := int64(math.Round(seconds * float64(s.sampleRate)))
	return s.seekToIndex(index)
}

// seekBy bases its delta on shared.Position(), the last position the
// audio thread reported — not transport.Position. This lets a caller say
// "jump forward by 2s from what I hear", at the cost of a race between
// the audio thread's publish and this apply. The race is bounded: the
// absolute error cannot exceed the ring depth (~0.34s at 48kHz for a
// 16384-frame ring), so it is left as-is rather than rebased onto
// transport.Position.
func (s *DecodeScheduler) seekBy(deltaSeconds float64) error {
	return s.seekTo(s.shared.Position() + deltaSeconds)
}

func (s *DecodeScheduler) seekToIndex(index int64) error {
	s.transport.SeekTo(index)
	clamped := index
	if clamped < 0 {
		clamped = 0
	}
	landed, err := s.decoder.Seek(clamped)
	if err != nil {
		return err
	}
	s.decoderCursor = landed
	s.cache = nil
	return nil
}

// pushError publishes a decoder error on the error ring. The decoder
// thread never blocks on error reporting: a full error ring silently
// drops the error (back-pressure is not appropriate for a failing
// codec).
func (s *DecodeScheduler) pushError(err error) {
	if !s.errorRing.Push(err) && s.debug {
		log.Printf("[SCHEDULER] error ring full, dropping: %v", err)
	}
}
