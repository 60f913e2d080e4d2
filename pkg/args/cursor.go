// Package args reads the positional arguments ChucK packs for constructors
// and methods.
//
// The host lays arguments out back to back in declaration order. Nothing in
// the buffer says how many there are or what they are: the argument list
// declared with add_arg at registration time is the only source of truth, and
// reads must follow it exactly.
package args

import (
	"unsafe"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// Primitive is the closed set of value types a cursor can read.
type Primitive interface {
	~int64 | ~uint64 | ~float64 | ~uintptr
}

// Read interprets the bytes at p as a T and returns the value together with
// the position just past it.
func Read[T Primitive](p unsafe.Pointer) (T, unsafe.Pointer) {
	v := *(*T)(p)
	return v, unsafe.Add(p, unsafe.Sizeof(v))
}

// Cursor walks an argument buffer.
type Cursor struct {
	base unsafe.Pointer
	pos  unsafe.Pointer
}

// NewCursor starts a cursor at p
func NewCursor(p unsafe.Pointer) *Cursor {
	return &Cursor{base: p, pos: p}
}

// Next reads the next argument as a T
func Next[T Primitive](c *Cursor) T {
	var v T
	v, c.pos = Read[T](c.pos)
	return v
}

// Int reads a ChucK int
func (c *Cursor) Int() chuck.Int { return Next[chuck.Int](c) }

// Uint reads a ChucK uint
func (c *Cursor) Uint() chuck.Uint { return Next[chuck.Uint](c) }

// Float reads a ChucK float
func (c *Cursor) Float() chuck.Float { return Next[chuck.Float](c) }

// Dur reads a ChucK dur
func (c *Cursor) Dur() chuck.Dur { return Next[chuck.Dur](c) }

// Time reads a ChucK time
func (c *Cursor) Time() chuck.Time { return Next[chuck.Time](c) }

// Object reads an object reference
func (c *Cursor) Object() chuck.Object { return Next[chuck.Object](c) }

// Pointer returns the current read position
func (c *Cursor) Pointer() unsafe.Pointer { return c.pos }

// Offset returns the number of bytes consumed so far
func (c *Cursor) Offset() uintptr {
	return uintptr(c.pos) - uintptr(c.base)
}
