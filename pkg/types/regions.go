package types

import (
	"math"
	"time"
)

// Region is a half-open [start, end) range in seconds. End is nil to mean
// "to the end of the source".
type Region struct {
	Start time.Duration
	End   *time.Duration
}

// FrameRegion is a Region resolved to absolute frame indices against a
// known sample rate and (optionally) a known total frame count.
type FrameRegion struct {
	Start int64
	// End is i64 max when the source length is unknown and the region
	// was not given an explicit end.
	End int64
}

// Resolve converts a Region to frame indices. numFrames < 0 means unknown.
func (r Region) Resolve(sampleRate uint32, numFrames int64) FrameRegion {
	start := secondsToFrame(r.Start, sampleRate)
	if start < 0 {
		start = 0
	}

	var end int64
	switch {
	case r.End != nil:
		end = secondsToFrame(*r.End, sampleRate)
	case numFrames >= 0:
		end = numFrames
	default:
		end = maxFrameIndex
	}
	if end < start {
		end = start
	}
	return FrameRegion{Start: start, End: end}
}

// maxFrameIndex stands in for "no known upper bound": the playback end
// defaults to this when num_frames is unknown.
const maxFrameIndex = int64(math.MaxInt64)

func secondsToFrame(d time.Duration, sampleRate uint32) int64 {
	return int64(d.Seconds() * float64(sampleRate))
}
