// Package spatial implements positioned audio sources (Emitter) and the
// listener mixdown that combines them into a single stereo frame.
package spatial

// Key is an opaque handle into an Arena: an index plus a generation
// counter, so a stale Key from a removed slot is detected rather than
// silently aliasing whatever was reinserted at that index.
type Key struct {
	index      uint32
	generation uint32
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a generation-counted slot allocator. It is not safe for
// concurrent use; callers serialize access through the owning Scene.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
}

// NewArena builds an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores value in a free slot (reusing a removed one when
// available) and returns its key.
func (a *Arena[T]) Insert(value T) Key {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = value
		s.occupied = true
		return Key{index: idx, generation: s.generation}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: value, occupied: true})
	return Key{index: idx}
}

// Get returns the value at key if it is still live.
func (a *Arena[T]) Get(key Key) (T, bool) {
	var zero T
	if int(key.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return zero, false
	}
	return s.value, true
}

// GetMutable returns a pointer to the stored value for in-place updates
// (e.g. Emitter.SetPosition), or nil if key is stale.
func (a *Arena[T]) GetMutable(key Key) *T {
	if int(key.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return nil
	}
	return &s.value
}

// Remove frees key's slot, bumping its generation so any copy of the old
// key is rejected by future Get/GetMutable calls.
func (a *Arena[T]) Remove(key Key) bool {
	if int(key.index) >= len(a.slots) {
		return false
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return false
	}
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	a.free = append(a.free, key.index)
	return true
}

// Each calls fn for every live entry. Iteration order is arbitrary;
// mixdown over emitters is a sum, so order doesn't matter there.
func (a *Arena[T]) Each(fn func(Key, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			fn(Key{index: uint32(i), generation: s.generation}, &s.value)
		}
	}
}

// Len reports the number of live entries.
func (a *Arena[T]) Len() int {
	n := 0
	for _, s := range a.slots {
		if s.occupied {
			n++
		}
	}
	return n
}
