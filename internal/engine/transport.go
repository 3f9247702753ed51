package engine

import "github.com/Alexander-D-Karpov/amp/pkg/types"

// Transport is the position/playing state machine driving what frame the
// scheduler emits next. It holds no decoder reference and does no I/O;
// it is pure arithmetic over frame indices, which is what makes it
// straightforward to exercise with property tests.
type Transport struct {
	Position int64
	Playing  bool

	playbackRegion types.FrameRegion
	loopRegion     *types.FrameRegion
}

// NewTransport resolves playbackRegion/loopRegion to frame indices and
// positions the cursor at the playback region's start. reverse is
// accepted for contract parity but the core only implements forward
// playback; a reverse transport is left to a future extension.
func NewTransport(playbackRegion types.Region, loopRegion *types.Region, reverse bool, sampleRate uint32, numFrames int64) *Transport {
	t := &Transport{Playing: true}
	t.SetPlaybackRegion(playbackRegion, sampleRate, numFrames)
	t.SetLoopRegion(loopRegion, sampleRate, numFrames)
	t.Position = t.playbackRegion.Start
	_ = reverse
	return t
}

// SetPlaybackRegion updates the bounds the transport enforces. It does
// not move the cursor.
func (t *Transport) SetPlaybackRegion(region types.Region, sampleRate uint32, numFrames int64) {
	t.playbackRegion = region.Resolve(sampleRate, numFrames)
}

// SetLoopRegion updates the loop bounds. A loop is only honored once both
// bounds are concrete — numFrames < 0 with no explicit region.End leaves
// the loop's End unresolved, so such a region is rejected here.
func (t *Transport) SetLoopRegion(region *types.Region, sampleRate uint32, numFrames int64) {
	if region == nil {
		t.loopRegion = nil
		return
	}
	if numFrames < 0 && region.End == nil {
		t.loopRegion = nil
		return
	}
	resolved := region.Resolve(sampleRate, numFrames)
	t.loopRegion = &resolved
}

// IncrementPosition advances the cursor by one frame, wrapping on a loop
// boundary or clearing Playing when the playback region is exited.
func (t *Transport) IncrementPosition() {
	t.Position++
	if t.loopRegion != nil && t.Position >= t.loopRegion.End {
		t.Position -= t.loopRegion.End - t.loopRegion.Start
		return
	}
	if t.Position >= t.playbackRegion.End {
		t.Playing = false
	}
}

// SeekTo sets the cursor directly. If the new position is inside the
// playback region, playback resumes.
func (t *Transport) SeekTo(index int64) {
	t.Position = index
	if index >= t.playbackRegion.Start && index < t.playbackRegion.End {
		t.Playing = true
	}
}
