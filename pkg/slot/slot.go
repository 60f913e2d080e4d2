// Package slot moves ownership of native Go objects in and out of the opaque
// per-instance memory the host allocates for each object.
//
// A Slot addresses one pointer-sized word at a fixed offset in an instance's
// data block. The word holds a handle, never a Go pointer. Every callback
// goes through one of three paths:
//
//	Store    constructor: the slot takes exclusive ownership
//	Borrow   tick, getter, setter: take, use, release back
//	Consume  destructor: take and drop
//
// Take, Owned.ReleaseBack and Owned.Drop are the underlying steps for callers
// that need them separately. The host gives no liveness information about
// the word, so correct pairing is the caller's job; an empty word reads as a
// nil Owned rather than garbage.
package slot

import (
	"sync/atomic"
	"unsafe"

	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// Destroyer is implemented by native objects that need to release resources
// when their instance is destructed.
type Destroyer interface {
	Destroy()
}

// Slot is the location of a *T inside instance data. It is an immutable
// value; copy it into whatever needs it.
type Slot[T any] struct {
	offset uintptr
}

// New creates a slot at the byte offset the host returned for the member.
func New[T any](offset uint) Slot[T] {
	return Slot[T]{offset: uintptr(offset)}
}

// Offset returns the byte offset of the slot
func (s Slot[T]) Offset() uint {
	return uint(s.offset)
}

func (s Slot[T]) word(data unsafe.Pointer) *uintptr {
	return (*uintptr)(unsafe.Add(data, s.offset))
}

// Store transfers ownership of obj into the instance. A live object already in
// the slot is dropped first.
func (s Slot[T]) Store(data unsafe.Pointer, obj *T) {
	w := s.word(data)
	if old := *w; old != 0 {
		debug.Warn("slot at offset %d already holds handle %d, dropping it", s.offset, old)
		if prev, ok := unregister(old); ok {
			destroy(prev)
		}
	}
	*w = register(obj)
}

// Take reclaims ownership of the object in the slot and clears the word. It
// returns nil if the slot is empty or the handle is unknown. The caller must
// settle the result with ReleaseBack or Drop.
func (s Slot[T]) Take(data unsafe.Pointer) *Owned[T] {
	w := s.word(data)
	id := *w
	v, ok := lookup(id)
	if !ok {
		return nil
	}
	obj, ok := v.(*T)
	if !ok {
		debug.Error("slot at offset %d holds %T, not %T", s.offset, v, obj)
		return nil
	}
	*w = 0
	return &Owned[T]{obj: obj, id: id, word: w}
}

// Borrow takes the object, calls fn with it and releases it back, even if fn
// panics. It reports whether the slot held an object.
func (s Slot[T]) Borrow(data unsafe.Pointer, fn func(*T)) bool {
	owned := s.Take(data)
	if owned == nil {
		return false
	}
	defer owned.ReleaseBack()
	fn(owned.Get())
	return true
}

// Consume takes the object and drops it. It reports whether the slot held an
// object.
func (s Slot[T]) Consume(data unsafe.Pointer) bool {
	owned := s.Take(data)
	if owned == nil {
		return false
	}
	owned.Drop()
	return true
}

// Loaded reports whether the slot currently holds a live handle.
func (s Slot[T]) Loaded(data unsafe.Pointer) bool {
	_, ok := lookup(*s.word(data))
	return ok
}

// Owned is an object taken out of its slot. It must be settled exactly once;
// further calls are ignored.
type Owned[T any] struct {
	obj     *T
	id      uintptr
	word    *uintptr
	settled atomic.Bool
}

// Get returns the native object
func (o *Owned[T]) Get() *T {
	return o.obj
}

// ReleaseBack puts the object back in the slot it came from without
// destroying it.
func (o *Owned[T]) ReleaseBack() {
	if !o.settled.CompareAndSwap(false, true) {
		return
	}
	*o.word = o.id
}

// Drop ends the object's life: its handle is freed and Destroy runs if the
// object implements Destroyer. The slot stays empty.
func (o *Owned[T]) Drop() {
	if !o.settled.CompareAndSwap(false, true) {
		return
	}
	if v, ok := unregister(o.id); ok {
		destroy(v)
	}
}

func destroy(v any) {
	if d, ok := v.(Destroyer); ok {
		d.Destroy()
	}
}
