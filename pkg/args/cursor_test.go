package args

import (
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

func TestCursorRoundTrip(t *testing.T) {
	b := NewBuilder(5).
		PutFloat(440.0).
		PutInt(-7).
		PutFloat(0.5).
		PutUint(1 << 40).
		PutObject(0xdeadbeef)

	c := NewCursor(b.Pointer())
	assert.Equal(t, 440.0, c.Float())
	assert.Equal(t, chuck.Int(-7), c.Int())
	assert.Equal(t, 0.5, c.Float())
	assert.Equal(t, chuck.Uint(1<<40), c.Uint())
	assert.Equal(t, chuck.Object(0xdeadbeef), c.Object())

	assert.Equal(t, uintptr(b.Len()), c.Offset())
	assert.Equal(t, unsafe.Add(b.Pointer(), b.Len()), c.Pointer())
}

func TestRead(t *testing.T) {
	b := NewBuilder(2).PutFloat(1.25).PutInt(3)

	f, p := Read[chuck.Float](b.Pointer())
	assert.Equal(t, 1.25, f)
	n, p := Read[chuck.Int](p)
	assert.Equal(t, chuck.Int(3), n)
	assert.Equal(t, unsafe.Add(b.Pointer(), 16), p)
}

func TestBuilderPut(t *testing.T) {
	b := NewBuilder(3)
	require.NoError(t, b.Put(chuck.TypeFloat, 220))
	require.NoError(t, b.Put(chuck.TypeInt, 4))
	require.NoError(t, b.Put(chuck.TypeDur, float32(0.5)))

	err := b.Put(chuck.TypeInt, 1.5)
	require.Error(t, err)

	err = b.Put(chuck.TypeString, "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	c := NewCursor(b.Pointer())
	assert.Equal(t, 220.0, c.Float())
	assert.Equal(t, chuck.Int(4), c.Int())
	assert.Equal(t, 0.5, c.Dur())
	assert.Equal(t, uintptr(24), c.Offset())
}

func TestEmptyBuilder(t *testing.T) {
	b := NewBuilder(0)
	assert.Nil(t, b.Pointer())
	assert.Equal(t, 0, b.Len())
}

func BenchmarkCursorFloat(b *testing.B) {
	buf := NewBuilder(1).PutFloat(1.0)
	p := buf.Pointer()
	var sum float64
	for i := 0; i < b.N; i++ {
		sum += NewCursor(p).Float()
	}
	_ = sum
}
