package engine

import (
	"math"
	"sync/atomic"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// shared is the small atomic record connecting the decoder thread and the
// audio thread. Every field below is written by exactly one side; both
// sides may read. state is the Stopped sentinel (the sole cancellation
// signal); position and reachedEnd are plain atomic load/store, which on
// most architectures Go compiles down to the acquire/release semantics
// this needs without a heavier memory-ordering API than the standard
// library exposes.
type shared struct {
	state      atomic.Int32 // types.PlaybackState
	positionNS atomic.Int64 // seconds, bit-punned through math.Float64bits
	reachedEnd atomic.Bool
}

func newShared() *shared {
	s := &shared{}
	s.state.Store(int32(types.StatePlaying))
	return s
}

func (s *shared) State() types.PlaybackState {
	return types.PlaybackState(s.state.Load())
}

func (s *shared) SetState(state types.PlaybackState) {
	s.state.Store(int32(state))
}

// Position returns the last position (in seconds) the audio thread
// published.
func (s *shared) Position() float64 {
	return math.Float64frombits(uint64(s.positionNS.Load()))
}

func (s *shared) SetPosition(seconds float64) {
	s.positionNS.Store(int64(math.Float64bits(seconds)))
}

func (s *shared) ReachedEnd() bool {
	return s.reachedEnd.Load()
}

func (s *shared) SetReachedEnd(v bool) {
	s.reachedEnd.Store(v)
}
