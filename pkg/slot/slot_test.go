package slot

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentinel counts how often it is destroyed
type sentinel struct {
	value     float64
	destroyed *int
}

func (s *sentinel) Destroy() {
	*s.destroyed++
}

// block simulates a host instance data block
func block(words int) ([]uint64, unsafe.Pointer) {
	mem := make([]uint64, words)
	return mem, unsafe.Pointer(&mem[0])
}

func TestStoreTakeReleaseBack(t *testing.T) {
	mem, data := block(4)
	s := New[sentinel](16)
	destroyed := 0
	obj := &sentinel{value: 1, destroyed: &destroyed}

	s.Store(data, obj)
	stored := mem[2]
	require.NotZero(t, stored)

	owned := s.Take(data)
	require.NotNil(t, owned)
	assert.Same(t, obj, owned.Get())
	assert.Zero(t, mem[2], "slot is cleared while taken")

	owned.Get().value = 2
	owned.ReleaseBack()

	assert.Equal(t, stored, mem[2])
	assert.Equal(t, 0, destroyed)

	again := s.Take(data)
	require.NotNil(t, again)
	assert.Same(t, obj, again.Get())
	assert.Equal(t, 2.0, again.Get().value)
	again.Drop()
}

func TestStoreTakeDrop(t *testing.T) {
	mem, data := block(1)
	s := New[sentinel](0)
	destroyed := 0
	before := Live()

	s.Store(data, &sentinel{destroyed: &destroyed})
	assert.Equal(t, before+1, Live())

	owned := s.Take(data)
	require.NotNil(t, owned)
	owned.Drop()
	owned.Drop()
	owned.ReleaseBack()

	assert.Equal(t, 1, destroyed)
	assert.Zero(t, mem[0])
	assert.Equal(t, before, Live())
	assert.Nil(t, s.Take(data), "slot must not be read again")
}

func TestBorrow(t *testing.T) {
	mem, data := block(2)
	s := New[sentinel](8)
	destroyed := 0
	s.Store(data, &sentinel{destroyed: &destroyed})
	stored := mem[1]

	for i := 0; i < 3; i++ {
		ok := s.Borrow(data, func(obj *sentinel) {
			obj.value++
		})
		require.True(t, ok)
	}

	assert.Equal(t, stored, mem[1])
	assert.Equal(t, 0, destroyed)

	s.Borrow(data, func(obj *sentinel) {
		assert.Equal(t, 3.0, obj.value)
	})

	require.True(t, s.Consume(data))
	assert.Equal(t, 1, destroyed)
	assert.False(t, s.Borrow(data, func(*sentinel) { t.Fatal("borrowed from empty slot") }))
	assert.False(t, s.Consume(data))
}

func TestBorrowPanicRestoresSlot(t *testing.T) {
	mem, data := block(1)
	s := New[sentinel](0)
	destroyed := 0
	s.Store(data, &sentinel{destroyed: &destroyed})
	stored := mem[0]

	assert.Panics(t, func() {
		s.Borrow(data, func(*sentinel) { panic("boom") })
	})
	assert.Equal(t, stored, mem[0])
	assert.True(t, s.Loaded(data))

	s.Consume(data)
}

func TestStoreOverLiveObject(t *testing.T) {
	_, data := block(1)
	s := New[sentinel](0)
	first, second := 0, 0

	s.Store(data, &sentinel{destroyed: &first})
	s.Store(data, &sentinel{destroyed: &second})
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)

	s.Consume(data)
	assert.Equal(t, 1, second)
}

func TestTakeEmptySlot(t *testing.T) {
	_, data := block(1)
	s := New[sentinel](0)
	assert.Nil(t, s.Take(data))
	assert.False(t, s.Loaded(data))
}

func TestTakeWrongType(t *testing.T) {
	_, data := block(1)
	New[sentinel](0).Store(data, &sentinel{destroyed: new(int)})

	assert.Nil(t, New[int](0).Take(data))
	assert.True(t, New[sentinel](0).Consume(data))
}

func TestIndependentInstances(t *testing.T) {
	s := New[sentinel](0)
	counts := make([]int, 8)
	datas := make([]unsafe.Pointer, len(counts))
	for i := range counts {
		_, datas[i] = block(1)
		s.Store(datas[i], &sentinel{value: float64(i), destroyed: &counts[i]})
	}

	done := make(chan struct{})
	for i := range datas {
		go func(data unsafe.Pointer) {
			defer func() { done <- struct{}{} }()
			for n := 0; n < 100; n++ {
				s.Borrow(data, func(obj *sentinel) { obj.value++ })
			}
		}(datas[i])
	}
	for range datas {
		<-done
	}

	for i, data := range datas {
		s.Borrow(data, func(obj *sentinel) {
			assert.Equal(t, float64(i+100), obj.value)
		})
		s.Consume(data)
		assert.Equal(t, 1, counts[i])
	}
}

func BenchmarkBorrow(b *testing.B) {
	_, data := block(1)
	s := New[sentinel](0)
	s.Store(data, &sentinel{destroyed: new(int)})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Borrow(data, func(obj *sentinel) { obj.value++ })
	}
	b.StopTimer()
	s.Consume(data)
}
