package engine

import (
	"errors"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// defaultCommandCapacity and defaultErrorCapacity are the control-plane
// ring sizes used whenever StreamingSoundSettings leaves a capacity at
// its zero value.
const (
	defaultCommandCapacity = 8
	defaultErrorCapacity   = 1
)

// StreamingSoundSettings configures a sound's initial transport and the
// capacity of its control-plane rings. LoopRegion is nil for a
// non-looping sound; CommandCapacity/ErrorCapacity <= 0 fall back to
// defaultCommandCapacity/defaultErrorCapacity.
type StreamingSoundSettings struct {
	PlaybackRegion  types.Region
	LoopRegion      *types.Region
	CommandCapacity int
	ErrorCapacity   int
}

// DefaultStreamingSoundSettings plays the whole decodable range once.
func DefaultStreamingSoundSettings() StreamingSoundSettings {
	return StreamingSoundSettings{
		PlaybackRegion:  types.Region{},
		CommandCapacity: defaultCommandCapacity,
		ErrorCapacity:   defaultErrorCapacity,
	}
}

// Handle is the control-plane side of a streaming sound: the object
// callers hold to issue commands and read state, paired 1:1 with the
// StreamingSound registered on a Mixer.
type Handle struct {
	sound       *StreamingSound
	commandRing *ring[command]
	errorRing   *ring[error]
	shared      *shared
}

// NewStreamingSound wires a Decoder, a DecodeScheduler and a
// StreamingSound together, spawns the decoder thread, and returns the
// renderer (to register on a Mixer/Backend) and a Handle (for control
// and diagnostics).
func NewStreamingSound(decoder Decoder, settings StreamingSoundSettings, debug bool) (*StreamingSound, *Handle) {
	sh := newShared()

	commandCapacity := settings.CommandCapacity
	if commandCapacity <= 0 {
		commandCapacity = defaultCommandCapacity
	}
	errorCapacity := settings.ErrorCapacity
	if errorCapacity <= 0 {
		errorCapacity = defaultErrorCapacity
	}
	commandRing := newRing[command](commandCapacity)
	errorRing := newRing[error](errorCapacity)

	scheduler := newDecodeScheduler(decoder, settings, sh, commandRing, errorRing, debug)
	sound := newStreamingSound(scheduler.frameRing, sh, decoder.SampleRate())

	go scheduler.Run()

	return sound, &Handle{sound: sound, commandRing: commandRing, errorRing: errorRing, shared: sh}
}

// SetPlaybackRegion queues a playback-region update for the decoder
// thread to apply. Returns ErrStopped if the sound has already been
// torn down, or ErrRingFull if the command ring has no room.
func (h *Handle) SetPlaybackRegion(region types.Region) error {
	return h.enqueue(SetPlaybackRegion(region))
}

// SetLoopRegion queues a loop-region update. Pass nil to clear looping.
func (h *Handle) SetLoopRegion(region *types.Region) error {
	return h.enqueue(SetLoopRegion(region))
}

// SeekTo queues an absolute seek, in seconds.
func (h *Handle) SeekTo(positionSeconds float64) error {
	return h.enqueue(SeekTo(positionSeconds))
}

// SeekBy queues a relative seek, in seconds, based on the last position
// the audio thread published.
func (h *Handle) SeekBy(deltaSeconds float64) error {
	return h.enqueue(SeekBy(deltaSeconds))
}

// enqueue rejects commands once the sound has been torn down (ErrStopped)
// and surfaces a full command ring (ErrRingFull) rather than silently
// dropping the command — back-pressure the control plane should actually
// see, unlike the decoder thread's own best-effort error reporting.
func (h *Handle) enqueue(cmd command) error {
	if h.shared.State() == types.StateStopped {
		return ErrStopped
	}
	return h.commandRing.PushErr(cmd)
}

// NextError drains one decode error from the error ring, if any. The
// ring being empty (ErrRingEmpty) is the common case and reported as
// ok=false rather than as the returned error, which is reserved for an
// actual decode failure.
func (h *Handle) NextError() (error, bool) {
	err, ringErr := h.errorRing.PopErr()
	if errors.Is(ringErr, ErrRingEmpty) {
		return nil, false
	}
	return err, true
}

// Position returns the last position the audio thread published.
func (h *Handle) Position() float64 {
	return h.shared.Position()
}

// State returns the current playback state.
func (h *Handle) State() types.PlaybackState {
	return h.shared.State()
}

// Sound returns the renderer side, for registering on a Mixer.
func (h *Handle) Sound() *StreamingSound {
	return h.sound
}
