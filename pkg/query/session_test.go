package query

import (
	"bytes"
	"fmt"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// recorder is a query descriptor that logs every call
type recorder struct {
	calls      []string
	nextOffset uint
	endOK      bool
	docs       []string
}

func newRecorder() *recorder {
	return &recorder{endOK: true}
}

func (r *recorder) SetName(name string) error {
	r.calls = append(r.calls, "setname "+name)
	return nil
}

func (r *recorder) BeginClass(name, parent string) error {
	r.calls = append(r.calls, fmt.Sprintf("begin %s %s", name, parent))
	return nil
}

func (r *recorder) AddCtor(chuck.CtorFunc) error {
	r.calls = append(r.calls, "ctor")
	return nil
}

func (r *recorder) AddDtor(chuck.DtorFunc) error {
	r.calls = append(r.calls, "dtor")
	return nil
}

func (r *recorder) AddMvar(typ, name string, isConst bool) (uint, error) {
	r.calls = append(r.calls, fmt.Sprintf("mvar %s %s %v", typ, name, isConst))
	offset := r.nextOffset
	r.nextOffset += chuck.SizeOf(typ)
	return offset, nil
}

func (r *recorder) AddMfun(_ chuck.MethodFunc, ret, name string) error {
	r.calls = append(r.calls, fmt.Sprintf("mfun %s %s", ret, name))
	return nil
}

func (r *recorder) AddArg(typ, name string) error {
	r.calls = append(r.calls, fmt.Sprintf("arg %s %s", typ, name))
	return nil
}

func (r *recorder) AddUgenFunc(_ chuck.TickFunc, numIn, numOut uint) error {
	r.calls = append(r.calls, fmt.Sprintf("ugen %d %d", numIn, numOut))
	return nil
}

func (r *recorder) EndClass() (bool, error) {
	r.calls = append(r.calls, "end")
	return r.endOK, nil
}

func (r *recorder) DocClass(text string) error {
	r.docs = append(r.docs, text)
	return nil
}

func nopCtor(unsafe.Pointer, unsafe.Pointer, chuck.Context) {}
func nopDtor(unsafe.Pointer, chuck.Context)                 {}
func nopTick(unsafe.Pointer, chuck.Sample, *chuck.Sample, chuck.Context) bool {
	return true
}
func nopMethod(unsafe.Pointer, unsafe.Pointer, *chuck.Return, chuck.Context) {}

func TestNewNilDescriptor(t *testing.T) {
	s, err := New(nil)
	assert.Nil(t, s)
	assert.True(t, errors.Is(err, chuck.ErrInvalidDescriptor))

	var unbound *Session
	assert.True(t, errors.Is(unbound.BeginClass("A", "Object"), chuck.ErrInvalidDescriptor))
}

func TestBeginEndLeavesIdle(t *testing.T) {
	r := newRecorder()
	s, err := New(r)
	require.NoError(t, err)
	assert.Equal(t, Idle, s.State())

	require.NoError(t, s.BeginClass("Empty", "Object"))
	assert.Equal(t, InClass, s.State())
	assert.Equal(t, "Empty", s.Class())

	require.NoError(t, s.EndClass())
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "", s.Class())
	assert.Equal(t, []string{"begin Empty Object", "end"}, r.calls)
}

func TestOperationsOutsideClass(t *testing.T) {
	r := newRecorder()
	s, err := New(r)
	require.NoError(t, err)

	_, err = s.AddMemberSlot(chuck.TypeInt, chuck.DataMember, false)
	assert.True(t, errors.Is(err, chuck.ErrSessionState))

	tests := []struct {
		name string
		op   func() error
	}{
		{"ctor", func() error { return s.AddConstructor(nopCtor) }},
		{"dtor", func() error { return s.AddDestructor(nopDtor) }},
		{"method", func() error { return s.AddMethod(nopMethod, chuck.TypeFloat, "freq") }},
		{"tick", func() error { return s.AddSignalProcessor(nopTick, 1, 1) }},
		{"doc", func() error { return s.DocClass("doc") }},
		{"end", s.EndClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.op(), chuck.ErrSessionState))
		})
	}
	assert.Empty(t, r.calls, "nothing reaches the host")
}

func TestNestedBeginRejected(t *testing.T) {
	s, err := New(newRecorder())
	require.NoError(t, err)
	require.NoError(t, s.BeginClass("A", "Object"))

	err = s.BeginClass("B", "Object")
	assert.True(t, errors.Is(err, chuck.ErrSessionState))
	assert.Equal(t, "A", s.Class())

	err = s.SetName("late")
	assert.True(t, errors.Is(err, chuck.ErrSessionState))
}

func TestNameEncoding(t *testing.T) {
	r := newRecorder()
	s, err := New(r)
	require.NoError(t, err)

	err = s.BeginClass("Bad\x00Name", "UGen")
	assert.True(t, errors.Is(err, chuck.ErrNameEncoding))
	err = s.BeginClass("Good", "U\x00Gen")
	assert.True(t, errors.Is(err, chuck.ErrNameEncoding))
	assert.Equal(t, Idle, s.State())

	require.NoError(t, s.BeginClass("Good", "UGen"))
	_, err = s.AddMemberSlot("int", "@da\x00ta", false)
	assert.True(t, errors.Is(err, chuck.ErrNameEncoding))

	err = s.AddMethod(nopMethod, "float", "freq", Param{Type: "float", Name: "f\x00"})
	assert.True(t, errors.Is(err, chuck.ErrNameEncoding))
	assert.NotContains(t, r.calls, "mfun float freq", "nothing is sent for a rejected method")
}

func TestFullClass(t *testing.T) {
	r := newRecorder()
	s, err := New(r)
	require.NoError(t, err)

	require.NoError(t, s.SetName("Filters"))
	require.NoError(t, s.BeginClass("Korg35", "UGen"))
	require.NoError(t, s.AddConstructor(nopCtor))
	require.NoError(t, s.AddDestructor(nopDtor))

	offset, err := s.AddMemberSlot(chuck.TypeInt, chuck.DataMember, false)
	require.NoError(t, err)
	assert.Equal(t, uint(0), offset)
	offset, err = s.AddMemberSlot(chuck.TypeFloat, "gain", true)
	require.NoError(t, err)
	assert.Equal(t, uint(8), offset)

	require.NoError(t, s.AddSignalProcessor(nopTick, 1, 1))
	require.NoError(t, s.AddMethod(nopMethod, "float", "set",
		Param{Type: "float", Name: "freq"},
		Param{Type: "float", Name: "K"},
	))
	require.NoError(t, s.DocClass("Korg35 filter"))
	require.NoError(t, s.EndClass())

	assert.Equal(t, []string{
		"setname Filters",
		"begin Korg35 UGen",
		"ctor",
		"dtor",
		"mvar int @data false",
		"mvar float gain true",
		"ugen 1 1",
		"mfun float set",
		"arg float freq",
		"arg float K",
		"end",
	}, r.calls)
	assert.Equal(t, []string{"Korg35 filter"}, r.docs)
}

func TestEndClassRejected(t *testing.T) {
	r := newRecorder()
	r.endOK = false
	s, err := New(r)
	require.NoError(t, err)

	require.NoError(t, s.BeginClass("Dup", "UGen"))
	err = s.EndClass()
	assert.True(t, errors.Is(err, chuck.ErrClassRegistrationFailed))
	assert.Contains(t, err.Error(), "Dup")
	assert.Equal(t, Idle, s.State())
}

func TestDuplicateConstructorWarns(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(newRecorder())
	require.NoError(t, err)
	s.SetLogger(debug.New(&buf, "", debug.FlagLevel))

	require.NoError(t, s.BeginClass("Twice", "Object"))
	require.NoError(t, s.AddConstructor(nopCtor))
	require.NoError(t, s.AddConstructor(nopCtor))
	require.NoError(t, s.AddDestructor(nopDtor))
	require.NoError(t, s.AddDestructor(nopDtor))

	assert.Contains(t, buf.String(), "constructor registered 2 times")
	assert.Contains(t, buf.String(), "destructor registered 2 times")
	assert.NotContains(t, buf.String(), "registered 1 times")
}

func TestHostErrorsPropagate(t *testing.T) {
	s, err := New(&failing{})
	require.NoError(t, err)

	err = s.BeginClass("A", "Object")
	assert.True(t, errors.Is(err, chuck.ErrInvalidDescriptor))
	assert.Equal(t, Idle, s.State())
}

// failing is a descriptor whose function table is empty
type failing struct{ recorder }

func (failing) BeginClass(string, string) error { return chuck.ErrInvalidDescriptor }

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("name", "SinOsc"))
	assert.NoError(t, CheckName("name", ""))
	assert.True(t, errors.Is(CheckName("name", "a\x00b"), chuck.ErrNameEncoding))
}
