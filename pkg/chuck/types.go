// Package chuck describes the host side of the ChucK chugin ABI in Go terms:
// primitive value types, the function shapes the host calls back into, the
// query descriptor a chugin registers its classes through, and the protocol
// version.
package chuck

import "unsafe"

// Basic ChucK types as they appear in chuck_def.h
type (
	Int    = int64
	Uint   = uint64
	Float  = float64
	Dur    = float64
	Time   = float64
	Bool   = uint64
	Sample = float32
	// Object is a reference to a host object (Chuck_Object*).
	Object = uintptr
)

// Boolean values returned across the ABI
const (
	False Bool = 0
	True  Bool = 1
)

// Type tokens understood by the host when declaring members, methods and
// arguments. Any registered class name is a valid token as well.
const (
	TypeInt     = "int"
	TypeFloat   = "float"
	TypeDur     = "dur"
	TypeTime    = "time"
	TypeVoid    = "void"
	TypeComplex = "complex"
	TypePolar   = "polar"
	TypeVec3    = "vec3"
	TypeVec4    = "vec4"
	TypeObject  = "Object"
	TypeString  = "string"
)

// Built-in parent classes
const (
	ParentObject = "Object"
	ParentUGen   = "UGen"
	ParentUAna   = "UAna"
)

// DataMember is the member name chugins use for the slot holding their native
// object. The leading '@' keeps it out of reach of ChucK code.
const DataMember = "@data"

// SizeOf returns the size in bytes the host reserves for a member of the given
// type token. Unknown tokens are object references.
func SizeOf(token string) uint {
	switch token {
	case TypeInt, TypeFloat, TypeDur, TypeTime:
		return 8
	case TypeComplex, TypePolar:
		return 16
	case TypeVec3:
		return 24
	case TypeVec4:
		return 32
	default:
		return uint(unsafe.Sizeof(Object(0)))
	}
}

// Context carries the opaque host pointers passed along with every callback.
// The core never dereferences them.
type Context struct {
	VM    unsafe.Pointer
	Shred unsafe.Pointer
	API   unsafe.Pointer
}

// Callback shapes. data is the base of the instance's opaque memory block
// (Chuck_Object::data), args points at the host-packed argument buffer.
type (
	CtorFunc   func(data unsafe.Pointer, args unsafe.Pointer, ctx Context)
	DtorFunc   func(data unsafe.Pointer, ctx Context)
	TickFunc   func(data unsafe.Pointer, in Sample, out *Sample, ctx Context) bool
	MethodFunc func(data unsafe.Pointer, args unsafe.Pointer, ret *Return, ctx Context)
)
