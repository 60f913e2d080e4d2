package chuck

import (
	"math"
	"unsafe"
)

// Return mirrors Chuck_DL_Return, the union a method writes its result into.
// The largest member is vec4, four doubles.
type Return struct {
	words [4]uint64
}

// ReturnSize is the size of the host's return union
const ReturnSize = unsafe.Sizeof(Return{})

// ReturnAt views host memory as a Return
func ReturnAt(p unsafe.Pointer) *Return {
	return (*Return)(p)
}

// SetInt stores v_int
func (r *Return) SetInt(v Int) { r.words[0] = uint64(v) }

// Int reads v_int
func (r *Return) Int() Int { return Int(r.words[0]) }

// SetUint stores v_uint
func (r *Return) SetUint(v Uint) { r.words[0] = v }

// Uint reads v_uint
func (r *Return) Uint() Uint { return r.words[0] }

// SetFloat stores v_float
func (r *Return) SetFloat(v Float) { r.words[0] = math.Float64bits(v) }

// Float reads v_float
func (r *Return) Float() Float { return math.Float64frombits(r.words[0]) }

// SetDur stores v_dur
func (r *Return) SetDur(v Dur) { r.SetFloat(v) }

// SetTime stores v_time
func (r *Return) SetTime(v Time) { r.SetFloat(v) }

// SetObject stores v_object
func (r *Return) SetObject(v Object) { r.words[0] = uint64(v) }

// Object reads v_object
func (r *Return) Object() Object { return Object(r.words[0]) }

// SetComplex stores v_complex (re, im)
func (r *Return) SetComplex(re, im Float) {
	r.words[0] = math.Float64bits(re)
	r.words[1] = math.Float64bits(im)
}

// Complex reads v_complex
func (r *Return) Complex() (re, im Float) {
	return math.Float64frombits(r.words[0]), math.Float64frombits(r.words[1])
}

// Reset zeroes the union
func (r *Return) Reset() { r.words = [4]uint64{} }
