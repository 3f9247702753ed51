package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

func TestNewTransport_PositionsAtRegionStart(t *testing.T) {
	tr := NewTransport(types.Region{}, nil, false, 48000, 1000)
	assert.Equal(t, int64(0), tr.Position)
	assert.True(t, tr.Playing)
}

func TestNewTransport_UnknownLengthDefaultsToMax(t *testing.T) {
	tr := NewTransport(types.Region{}, nil, false, 48000, -1)
	require.True(t, tr.Playing)
	assert.Equal(t, int64(math.MaxInt64), tr.playbackRegion.End)
	// Advancing 1000 frames should not stop playback when num_frames is
	// unknown.
	for i := 0; i < 1000; i++ {
		tr.IncrementPosition()
	}
	assert.True(t, tr.Playing)
}

func TestTransport_IncrementClearsPlayingAtRegionEnd(t *testing.T) {
	end := 10 * time.Second
	tr := NewTransport(types.Region{End: &end}, nil, false, 1, -1) // 1 frame == 1 second
	for i := 0; i < 10; i++ {
		assert.True(t, tr.Playing, "still playing at frame %d", i)
		tr.IncrementPosition()
	}
	assert.False(t, tr.Playing)
}

func TestTransport_LoopWrap(t *testing.T) {
	loopEnd := 100 * time.Second
	loop := &types.Region{End: &loopEnd}
	tr := NewTransport(types.Region{}, loop, false, 1, -1)

	for i := 0; i < 250; i++ {
		tr.IncrementPosition()
	}
	// 250 increments from 0 wrap at 100 twice: 0..100 (100 incs wraps to 0),
	// 100..200 (wraps to 0 again), remaining 50 lands at 50.
	assert.Equal(t, int64(50), tr.Position)
	assert.True(t, tr.Playing)
}

func TestTransport_LoopRequiresConcreteBounds(t *testing.T) {
	start := 0 * time.Second
	loop := &types.Region{Start: start} // no End, numFrames unknown
	tr := NewTransport(types.Region{}, loop, false, 1, -1)
	assert.Nil(t, tr.loopRegion)
}

func TestTransport_SeekToResumesPlaying(t *testing.T) {
	end := 10 * time.Second
	tr := NewTransport(types.Region{End: &end}, nil, false, 1, -1)
	for tr.Playing {
		tr.IncrementPosition()
	}
	require.False(t, tr.Playing)

	tr.SeekTo(5)
	assert.True(t, tr.Playing)
	assert.Equal(t, int64(5), tr.Position)
}

func TestTransport_SeekToOutsideRegionDoesNotForcePlaying(t *testing.T) {
	end := 10 * time.Second
	tr := NewTransport(types.Region{End: &end}, nil, false, 1, -1)
	tr.Playing = false
	tr.SeekTo(50)
	assert.False(t, tr.Playing)
}

func TestTransport_SetLoopRegionDoesNotMoveCursor(t *testing.T) {
	tr := NewTransport(types.Region{}, nil, false, 1, -1)
	tr.Position = 42
	loopEnd := 1000 * time.Second
	tr.SetLoopRegion(&types.Region{End: &loopEnd}, 1, -1)
	assert.Equal(t, int64(42), tr.Position)
}

// Seek idempotence: seeking to the same index twice leaves the transport
// in the same state both times.
func TestSeekIdempotence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		index := rapid.Int64Range(-1000, 1000).Draw(t, "index")
		end := 10000 * time.Second

		tr1 := NewTransport(types.Region{End: &end}, nil, false, 1, -1)
		tr1.SeekTo(index)
		tr1.SeekTo(index)

		tr2 := NewTransport(types.Region{End: &end}, nil, false, 1, -1)
		tr2.SeekTo(index)

		assert.Equal(t, tr2.Position, tr1.Position)
		assert.Equal(t, tr2.Playing, tr1.Playing)
	})
}

// Round-trip seek: seek_by(delta) then seek_by(-delta) returns to the
// starting index modulo rounding (Transport itself takes absolute
// indices; DecodeScheduler.seekBy performs the seconds rounding tested
// separately in scheduler_test.go).
func TestRoundTripSeek(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.Int64Range(0, 100000).Draw(t, "start")
		delta := rapid.Int64Range(-50000, 50000).Draw(t, "delta")
		end := 1000000 * time.Second

		tr := NewTransport(types.Region{End: &end}, nil, false, 1, -1)
		tr.SeekTo(start)
		tr.SeekTo(start + delta)
		tr.SeekTo(start + delta - delta)

		assert.Equal(t, start, tr.Position)
	})
}
