package engine

import "github.com/Alexander-D-Karpov/amp/pkg/types"

// commandKind tags the variant carried on the command ring so the
// decoder thread can pattern-match without indirect calls — a tagged
// struct, not a closure channel.
type commandKind int

const (
	cmdSetPlaybackRegion commandKind = iota
	cmdSetLoopRegion
	cmdSeekBy
	cmdSeekTo
)

// command is the tagged variant pushed onto the command ring by the
// control plane and drained by the decoder thread.
type command struct {
	kind          commandKind
	region        types.Region
	loopRegion    *types.Region
	seekByDelta   float64
	seekToSeconds float64
}

// SetPlaybackRegion builds a playback-region update command.
func SetPlaybackRegion(region types.Region) command {
	return command{kind: cmdSetPlaybackRegion, region: region}
}

// SetLoopRegion builds a loop-region update command. Pass nil to clear
// looping.
func SetLoopRegion(region *types.Region) command {
	return command{kind: cmdSetLoopRegion, loopRegion: region}
}

// SeekBy builds a seek command relative to the last position the audio
// thread published, giving "jump forward by N seconds from what I hear"
// semantics at the cost of a bounded race with the publish.
func SeekBy(deltaSeconds float64) command {
	return command{kind: cmdSeekBy, seekByDelta: deltaSeconds}
}

// SeekTo builds an absolute seek command.
func SeekTo(positionSeconds float64) command {
	return command{kind: cmdSeekTo, seekToSeconds: positionSeconds}
}
