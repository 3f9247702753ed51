package engine

import "errors"

// ErrStopped is returned by operations attempted after a streaming sound's
// shared state has already moved to Stopped.
var ErrStopped = errors.New("engine: streaming sound stopped")

// ErrRingFull is returned by ring.PushErr when a push would overflow a
// ring — surfaced to callers via Handle's command methods, since a full
// command ring is real back-pressure worth reporting. The scheduler's
// own run() loop never sees it: it checks IsFull itself and treats a
// full frame ring as StepWait, not an error.
var ErrRingFull = errors.New("engine: ring buffer full")

// ErrRingEmpty is returned by ring.PopErr when a pop finds nothing to
// return. Handle.NextError uses it internally to distinguish "no error
// queued" from an actual decode error; most callers want ok=false, not
// this sentinel.
var ErrRingEmpty = errors.New("engine: ring buffer empty")
