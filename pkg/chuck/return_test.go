package chuck

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestReturn(t *testing.T) {
	assert.Equal(t, uintptr(32), ReturnSize)

	var r Return
	r.SetFloat(440.0)
	assert.Equal(t, 440.0, r.Float())

	r.SetInt(-3)
	assert.Equal(t, Int(-3), r.Int())

	r.SetComplex(1.5, -2.5)
	re, im := r.Complex()
	assert.Equal(t, 1.5, re)
	assert.Equal(t, -2.5, im)

	r.Reset()
	assert.Equal(t, Uint(0), r.Uint())
}

func TestReturnAtHostMemory(t *testing.T) {
	raw := make([]uint64, 4)
	ret := ReturnAt(unsafe.Pointer(&raw[0]))
	ret.SetFloat(0.25)

	// v_float lives in the first word of the union
	assert.Equal(t, 0.25, *(*float64)(unsafe.Pointer(&raw[0])))
}
