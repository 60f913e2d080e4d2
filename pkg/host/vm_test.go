package host

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/chuckgo/pkg/args"
	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// plugin adapts a function to Plugin
type plugin struct {
	version chuck.Version
	query   func(q chuck.Query) bool
}

func (p plugin) Version() chuck.Version   { return p.version }
func (p plugin) Query(q chuck.Query) bool { return p.query(q) }

func quietVM(t *testing.T) *VM {
	t.Helper()
	return New(WithLogger(debug.New(&bytes.Buffer{}, "host", 0)))
}

func declare(q chuck.Query, name, parent string) bool {
	if q.BeginClass(name, parent) != nil {
		return false
	}
	ok, err := q.EndClass()
	return ok && err == nil
}

func TestLoadRegistersClasses(t *testing.T) {
	vm := quietVM(t)
	err := vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		_ = q.SetName("mod")
		return declare(q, "A", chuck.ParentUGen) && declare(q, "B", "A")
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, vm.ClassNames())
	b, err := vm.Class("B")
	require.NoError(t, err)
	assert.Equal(t, "A", b.Parent)
	assert.Equal(t, "mod", b.Module)
}

func TestLoadVersionMismatch(t *testing.T) {
	vm := quietVM(t)
	called := false
	err := vm.Load(plugin{version: chuck.MakeVersion(7, 0), query: func(chuck.Query) bool {
		called = true
		return true
	}})
	assert.ErrorIs(t, err, chuck.ErrVersionMismatch)
	assert.False(t, called)
}

func TestFailedLoadDiscardsClasses(t *testing.T) {
	vm := quietVM(t)
	err := vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		declare(q, "Kept", chuck.ParentObject)
		return false
	}})
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Empty(t, vm.Classes())

	_, err = vm.Class("Kept")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestEndClassRefusals(t *testing.T) {
	tests := []struct {
		name  string
		query func(q chuck.Query) (bool, error)
	}{
		{"unknown parent", func(q chuck.Query) (bool, error) {
			_ = q.BeginClass("X", "Nope")
			return q.EndClass()
		}},
		{"builtin name", func(q chuck.Query) (bool, error) {
			_ = q.BeginClass(chuck.ParentUGen, chuck.ParentObject)
			return q.EndClass()
		}},
		{"dangling arg", func(q chuck.Query) (bool, error) {
			_ = q.BeginClass("X", chuck.ParentObject)
			_ = q.AddArg(chuck.TypeFloat, "f")
			return q.EndClass()
		}},
		{"nested begin", func(q chuck.Query) (bool, error) {
			_ = q.BeginClass("X", chuck.ParentObject)
			_ = q.BeginClass("Y", chuck.ParentObject)
			return q.EndClass()
		}},
		{"two outputs", func(q chuck.Query) (bool, error) {
			_ = q.BeginClass("X", chuck.ParentUGen)
			_ = q.AddUgenFunc(func(unsafe.Pointer, chuck.Sample, *chuck.Sample, chuck.Context) bool { return true }, 1, 2)
			return q.EndClass()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := quietVM(t)
			var ok bool
			var err error
			_ = vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
				ok, err = tt.query(q)
				return ok
			}})
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, vm.Classes())
		})
	}
}

func TestOperationsOutsideClass(t *testing.T) {
	vm := quietVM(t)
	_ = vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		_, err := q.AddMvar(chuck.TypeInt, "x", false)
		assert.ErrorIs(t, err, chuck.ErrSessionState)
		_, err = q.EndClass()
		assert.ErrorIs(t, err, chuck.ErrSessionState)
		return true
	}})
}

func TestUnclosedClassFailsLoad(t *testing.T) {
	vm := quietVM(t)
	err := vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		_ = q.BeginClass("Open", chuck.ParentObject)
		return true
	}})
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestMemberOffsets(t *testing.T) {
	vm := quietVM(t)
	offsets := map[string]uint{}
	err := vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		add := func(typ, name string) {
			off, err := q.AddMvar(typ, name, false)
			require.NoError(t, err)
			offsets[name] = off
		}
		_ = q.BeginClass("P", chuck.ParentObject)
		add(chuck.TypeInt, "a")
		add(chuck.TypeVec3, "b")
		if ok, _ := q.EndClass(); !ok {
			return false
		}
		_ = q.BeginClass("C", "P")
		add(chuck.TypeComplex, "c")
		add(chuck.TypeFloat, "d")
		ok, _ := q.EndClass()
		return ok
	}})
	require.NoError(t, err)

	assert.Equal(t, map[string]uint{"a": 0, "b": 8, "c": 32, "d": 48}, offsets)
	c, _ := vm.Class("C")
	assert.Equal(t, uint(56), c.Size)
	m, ok := c.Member("a")
	require.True(t, ok)
	assert.Equal(t, uint(0), m.Offset)
}

// counter records its callbacks in instance data
func counterPlugin(log *[]string) Plugin {
	return plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		_ = q.BeginClass("Base", chuck.ParentUGen)
		_ = q.AddCtor(func(unsafe.Pointer, unsafe.Pointer, chuck.Context) { *log = append(*log, "ctor Base") })
		_ = q.AddDtor(func(unsafe.Pointer, chuck.Context) { *log = append(*log, "dtor Base") })
		if ok, _ := q.EndClass(); !ok {
			return false
		}

		_ = q.BeginClass("Gain", "Base")
		off, _ := q.AddMvar(chuck.TypeFloat, "g", false)
		_ = q.AddCtor(func(data, _ unsafe.Pointer, _ chuck.Context) {
			*log = append(*log, "ctor Gain")
			*(*float64)(unsafe.Add(data, off)) = 2
		})
		_ = q.AddDtor(func(unsafe.Pointer, chuck.Context) { *log = append(*log, "dtor Gain") })
		_ = q.AddUgenFunc(func(data unsafe.Pointer, in chuck.Sample, out *chuck.Sample, _ chuck.Context) bool {
			*out = in * chuck.Sample(*(*float64)(unsafe.Add(data, off)))
			return true
		}, 1, 1)
		_ = q.AddMfun(func(data, a unsafe.Pointer, ret *chuck.Return, _ chuck.Context) {
			g := args.NewCursor(a).Float()
			*(*float64)(unsafe.Add(data, off)) = g
			ret.SetFloat(g)
		}, chuck.TypeFloat, "gain")
		_ = q.AddArg(chuck.TypeFloat, "g")
		_ = q.AddMfun(func(data, _ unsafe.Pointer, ret *chuck.Return, _ chuck.Context) {
			ret.SetFloat(*(*float64)(unsafe.Add(data, off)))
		}, chuck.TypeFloat, "gain")
		ok, _ := q.EndClass()
		return ok
	}}
}

func TestInstanceLifecycle(t *testing.T) {
	vm := quietVM(t)
	var log []string
	require.NoError(t, vm.Load(counterPlugin(&log)))

	inst, err := vm.Instantiate("Gain")
	require.NoError(t, err)
	assert.Equal(t, []string{"ctor Base", "ctor Gain"}, log)

	out, ok, err := inst.Tick(0.5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, chuck.Sample(1), out)

	ret, err := inst.Call("gain", 4.0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, ret.Float())

	ret, err = inst.Call("gain")
	require.NoError(t, err)
	assert.Equal(t, 4.0, ret.Float())

	_, err = inst.Call("gain", 1.0, 2.0)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = inst.Call("gain", "loud")
	assert.Error(t, err)

	require.NoError(t, inst.Destroy())
	assert.Equal(t, []string{"ctor Base", "ctor Gain", "dtor Gain", "dtor Base"}, log)
	assert.True(t, inst.Destroyed())

	assert.ErrorIs(t, inst.Destroy(), ErrDestroyed)
	_, _, err = inst.Tick(0)
	assert.ErrorIs(t, err, ErrDestroyed)
	_, err = inst.Call("gain")
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestTickWithoutUGen(t *testing.T) {
	vm := quietVM(t)
	require.NoError(t, vm.Load(plugin{version: chuck.DLLVersion, query: func(q chuck.Query) bool {
		return declare(q, "Plain", chuck.ParentObject)
	}}))

	inst, err := vm.Instantiate("Plain")
	require.NoError(t, err)
	assert.False(t, inst.Class().IsUGen())
	_, _, err = inst.Tick(1)
	assert.ErrorIs(t, err, ErrNoTick)
	assert.Equal(t, uintptr(0), inst.Word(0))
}

func TestInstantiateUnknown(t *testing.T) {
	_, err := quietVM(t).Instantiate("Nope")
	assert.ErrorIs(t, err, ErrUnknownClass)
}
