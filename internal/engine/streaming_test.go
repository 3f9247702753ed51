package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

func TestStreamingSound_UnderrunProducesSilenceWithoutBlocking(t *testing.T) {
	frameRing := newRing[types.TimestampedFrame](4)
	frameRing.Push(types.TimestampedFrame{Frame: types.ZeroFrame, Index: 0}) // pre-seed
	sh := newShared()
	sound := newStreamingSound(frameRing, sh, 48000)

	out := make([]types.Frame, 8)
	sound.Fill(out, time.Now())

	for _, f := range out {
		assert.Equal(t, types.ZeroFrame, f)
	}
	assert.Equal(t, int64(8), sound.Underruns())
}

func TestStreamingSound_StopsOnRingEmptyAndReachedEnd(t *testing.T) {
	frameRing := newRing[types.TimestampedFrame](4)
	frameRing.Push(types.TimestampedFrame{Frame: types.ZeroFrame, Index: 0})
	frameRing.Push(types.TimestampedFrame{Frame: types.Frame{Left: 1, Right: 1}, Index: 1})
	sh := newShared()
	sh.SetReachedEnd(true)
	sound := newStreamingSound(frameRing, sh, 48000)

	out := make([]types.Frame, 1)
	sound.Fill(out, time.Now()) // consumes index 1
	assert.Equal(t, types.Frame{Left: 1, Right: 1}, out[0])
	assert.Equal(t, types.StatePlaying, sound.State())

	sound.Fill(out, time.Now()) // ring empty + reached end -> stop
	assert.Equal(t, types.ZeroFrame, out[0])
	assert.Equal(t, types.StateStopped, sound.State())
}

func TestStreamingSound_DiscardsStaleFramesAfterSeek(t *testing.T) {
	frameRing := newRing[types.TimestampedFrame](8)
	frameRing.Push(types.TimestampedFrame{Frame: types.ZeroFrame, Index: -1}) // consumed by the constructor
	frameRing.Push(types.TimestampedFrame{Frame: types.Frame{Left: 1, Right: 1}, Index: 0})
	sh := newShared()
	sound := newStreamingSound(frameRing, sh, 48000)

	out := make([]types.Frame, 1)
	sound.Fill(out, time.Now())
	assert.Equal(t, types.Frame{Left: 1, Right: 1}, out[0]) // establishes expectedIndex == 1

	// Push a stale pre-seek frame at index 0 and a fresh one at index 1000,
	// simulating a seek whose post-seek frames are already in the ring
	// alongside stale pre-seek ones.
	frameRing.Push(types.TimestampedFrame{Frame: types.Frame{Left: -1, Right: -1}, Index: 0})
	frameRing.Push(types.TimestampedFrame{Frame: types.Frame{Left: 2, Right: 2}, Index: 1000})

	sound.Fill(out, time.Now())
	assert.Equal(t, types.Frame{Left: 2, Right: 2}, out[0])
}

func TestStreamingSound_PauseFreezesOutput(t *testing.T) {
	frameRing := newRing[types.TimestampedFrame](4)
	frameRing.Push(types.TimestampedFrame{Frame: types.ZeroFrame, Index: 0})
	frameRing.Push(types.TimestampedFrame{Frame: types.Frame{Left: 1, Right: 1}, Index: 1})
	sh := newShared()
	sound := newStreamingSound(frameRing, sh, 48000)

	sound.Pause()
	out := make([]types.Frame, 1)
	sound.Fill(out, time.Now())
	assert.Equal(t, types.ZeroFrame, out[0])
	assert.Equal(t, types.StatePaused, sound.State())

	sound.Resume(time.Now(), 0)
	sound.Fill(out, time.Now())
	assert.Equal(t, types.Frame{Left: 1, Right: 1}, out[0])
}

func TestStreamingSound_StopRampsGainDown(t *testing.T) {
	frameRing := newRing[types.TimestampedFrame](4)
	frameRing.Push(types.TimestampedFrame{Frame: types.ZeroFrame, Index: 0})
	for i := int64(1); i <= 3; i++ {
		frameRing.Push(types.TimestampedFrame{Frame: types.Frame{Left: 1, Right: 1}, Index: i})
	}
	sh := newShared()
	sound := newStreamingSound(frameRing, sh, 48000)

	now := time.Now()
	sound.Stop(now, 10*time.Millisecond)

	out := make([]types.Frame, 1)
	sound.Fill(out, now)
	assert.Equal(t, float32(1), out[0].Left)

	sound.Fill(out, now.Add(20*time.Millisecond))
	require.Equal(t, types.StateStopped, sh.State())
	assert.Equal(t, float32(0), out[0].Left)
}
