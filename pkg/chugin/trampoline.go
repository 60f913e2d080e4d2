package chugin

import (
	"unsafe"

	"github.com/justyntemme/chuckgo/pkg/args"
	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
	"github.com/justyntemme/chuckgo/pkg/slot"
)

// The generators below produce the four host callbacks of a class. Each one
// closes over the slot, whose offset is fixed once the host has returned it,
// and over the operation supplied by the class description.

// ctorTrampoline allocates the native object and hands it to the instance.
func ctorTrampoline[T any](s slot.Slot[T], newFn func(*args.Cursor) *T) chuck.CtorFunc {
	return func(data unsafe.Pointer, argp unsafe.Pointer, _ chuck.Context) {
		s.Store(data, newFn(args.NewCursor(argp)))
	}
}

// dtorTrampoline takes the native object back and drops it.
func dtorTrampoline[T any](s slot.Slot[T], onDestroy func(*T)) chuck.DtorFunc {
	return func(data unsafe.Pointer, _ chuck.Context) {
		owned := s.Take(data)
		if owned == nil {
			debug.Warn("destructor called on empty slot at offset %d", s.Offset())
			return
		}
		defer owned.Drop()
		if onDestroy != nil {
			onDestroy(owned.Get())
		}
	}
}

// tickTrampoline borrows the native object for one sample. An empty slot
// produces silence and reports failure.
func tickTrampoline[T any](s slot.Slot[T], fn TickFunc[T]) chuck.TickFunc {
	return func(data unsafe.Pointer, in chuck.Sample, out *chuck.Sample, _ chuck.Context) bool {
		owned := s.Take(data)
		if owned == nil {
			*out = 0
			return false
		}
		defer owned.ReleaseBack()
		*out = fn(owned.Get(), in)
		return true
	}
}

// methodTrampoline borrows the native object for one method call, decoding
// arguments with a cursor positioned at the host's argument buffer.
func methodTrampoline[T any](s slot.Slot[T], name string, fn MethodFunc[T]) chuck.MethodFunc {
	return func(data unsafe.Pointer, argp unsafe.Pointer, ret *chuck.Return, _ chuck.Context) {
		owned := s.Take(data)
		if owned == nil {
			debug.Warn("method %s called on empty slot at offset %d", name, s.Offset())
			ret.Reset()
			return
		}
		defer owned.ReleaseBack()
		fn(owned.Get(), args.NewCursor(argp), ret)
	}
}
