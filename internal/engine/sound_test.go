package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// NewStreamingSound must size its rings from settings rather than a fixed
// constant, falling back to defaultCommandCapacity/defaultErrorCapacity
// when a caller leaves them unset.
func TestNewStreamingSound_UsesConfiguredRingCapacities(t *testing.T) {
	decoder := NewSliceDecoder(48000, constantFrames(10, types.Frame{}), 0)
	_, handle := NewStreamingSound(decoder, StreamingSoundSettings{
		PlaybackRegion:  types.Region{},
		CommandCapacity: 2,
		ErrorCapacity:   1,
	}, false)

	require.NoError(t, handle.SeekTo(0))
	require.NoError(t, handle.SeekTo(0))
	err := handle.SeekTo(0)
	assert.ErrorIs(t, err, ErrRingFull, "third command should overflow a capacity-2 ring")
}

func TestNewStreamingSound_DefaultsUnsetCapacities(t *testing.T) {
	decoder := NewSliceDecoder(48000, constantFrames(10, types.Frame{}), 0)
	_, handle := NewStreamingSound(decoder, StreamingSoundSettings{PlaybackRegion: types.Region{}}, false)

	for i := 0; i < defaultCommandCapacity; i++ {
		require.NoError(t, handle.SeekTo(0))
	}
	assert.ErrorIs(t, handle.SeekTo(0), ErrRingFull)
}

// Once a sound has been stopped, further commands are rejected with
// ErrStopped rather than silently queued for a decoder thread that has
// already exited.
func TestHandle_EnqueueAfterStopReturnsErrStopped(t *testing.T) {
	decoder := NewSliceDecoder(48000, constantFrames(10, types.Frame{}), 0)
	sound, handle := NewStreamingSound(decoder, DefaultStreamingSoundSettings(), false)

	sound.Stop(time.Now(), 0)

	assert.ErrorIs(t, handle.SeekTo(1.0), ErrStopped)
	assert.ErrorIs(t, handle.SetLoopRegion(nil), ErrStopped)
}

// NextError reports ok=false (not an error) when the ring is empty; the
// returned error is reserved for an actual decode failure.
func TestHandle_NextErrorEmptyRingReportsNotOk(t *testing.T) {
	decoder := NewSliceDecoder(48000, constantFrames(10, types.Frame{}), 0)
	_, handle := NewStreamingSound(decoder, DefaultStreamingSoundSettings(), false)

	err, ok := handle.NextError()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestRing_PushErrAndPopErrWrapSentinels(t *testing.T) {
	r := newRing[int](1)
	require.NoError(t, r.PushErr(1))
	assert.ErrorIs(t, r.PushErr(2), ErrRingFull)

	v, err := r.PopErr()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = r.PopErr()
	assert.True(t, errors.Is(err, ErrRingEmpty))
}
