package engine

import "github.com/Alexander-D-Karpov/amp/pkg/types"

// Decoder is the capability a codec (MP3/OGG/FLAC/WAV, or a synthetic
// source) must supply. It carries no timing guarantees — the scheduler
// assumes Decode may take arbitrarily long — and it is only ever called
// from the decoder thread.
type Decoder interface {
	// SampleRate is fixed for the lifetime of the decoder.
	SampleRate() uint32
	// NumFrames is the total frame count, or -1 if unknown (live/streamed
	// source).
	NumFrames() int64
	// Decode returns the next chunk of frames. An empty, error-free
	// result is permitted only transiently between frames.
	Decode() ([]types.Frame, error)
	// Seek moves the decoder to frame index i and returns the index it
	// actually landed on, which may be <= i.
	Seek(i int64) (int64, error)
}

// decodedChunk is a contiguous run of frames the decoder returned,
// covering absolute source frames [StartIndex, StartIndex+len(Frames)).
// The scheduler caches at most one of these.
type decodedChunk struct {
	StartIndex int64
	Frames     []types.Frame
}

func (c *decodedChunk) frameAt(index int64) (types.Frame, bool) {
	if index < c.StartIndex {
		return types.Frame{}, false
	}
	offset := index - c.StartIndex
	if offset >= int64(len(c.Frames)) {
		return types.Frame{}, false
	}
	return c.Frames[offset], true
}
