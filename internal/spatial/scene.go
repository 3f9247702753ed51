package spatial

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Alexander-D-Karpov/amp/pkg/types"
)

// Scene owns a set of emitters and the listener that mixes them, so
// callers don't have to assemble an emitter slice by hand on every
// render tick.
type Scene struct {
	arena    *Arena[*Emitter]
	listener *Listener
}

// NewScene builds an empty scene with a listener at the origin.
func NewScene() *Scene {
	return &Scene{
		arena:    NewArena[*Emitter](),
		listener: NewListener(mgl64.Vec3{}),
	}
}

// Listener returns the scene's listener for position/orientation updates.
func (sc *Scene) Listener() *Listener {
	return sc.listener
}

// AddEmitter registers e and returns a key for later lookup/removal.
func (sc *Scene) AddEmitter(e *Emitter) Key {
	return sc.arena.Insert(e)
}

// RemoveEmitter evicts the emitter at key.
func (sc *Scene) RemoveEmitter(key Key) bool {
	return sc.arena.Remove(key)
}

// Emitter returns the emitter at key, if still live.
func (sc *Scene) Emitter(key Key) (*Emitter, bool) {
	e, ok := sc.arena.Get(key)
	if !ok {
		return nil, false
	}
	return e, true
}

// Process snapshots the live emitters and mixes them through the
// listener in one call.
func (sc *Scene) Process() types.Frame {
	emitters := make([]*Emitter, 0, sc.arena.Len())
	sc.arena.Each(func(_ Key, e **Emitter) {
		emitters = append(emitters, *e)
	})
	return sc.listener.Process(emitters)
}

// Len reports how many emitters are currently registered.
func (sc *Scene) Len() int {
	return sc.arena.Len()
}
