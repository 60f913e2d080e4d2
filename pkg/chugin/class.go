package chugin

import (
	"github.com/justyntemme/chuckgo/pkg/args"
	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/query"
	"github.com/justyntemme/chuckgo/pkg/slot"
)

// TickFunc computes one output sample from one input sample
type TickFunc[T any] func(obj *T, in chuck.Sample) chuck.Sample

// MethodFunc implements a member function. Arguments must be read from a in
// the order they were declared.
type MethodFunc[T any] func(obj *T, a *args.Cursor, ret *chuck.Return)

// Registrant is a class that can register itself in a session
type Registrant interface {
	Info() ClassInfo
	Register(s *query.Session) error
}

type method[T any] struct {
	info MethodInfo
	fn   MethodFunc[T]
}

// Class describes a ChucK class backed by native objects of type T. The
// description says which operations the class supports; Register turns it
// into host callbacks.
type Class[T any] struct {
	info    ClassInfo
	newFn   func(*args.Cursor) *T
	destroy func(*T)
	tick    TickFunc[T]
	methods []method[T]
}

// NewClass starts a class description. newFn builds the native object for
// each new instance.
func NewClass[T any](name, parent string, newFn func() *T) *Class[T] {
	return &Class[T]{
		info:  ClassInfo{Name: name, Parent: parent},
		newFn: func(*args.Cursor) *T { return newFn() },
	}
}

// Doc sets the class documentation
func (c *Class[T]) Doc(text string) *Class[T] {
	c.info.Doc = text
	return c
}

// OnDestroy sets a function run on the native object before it is dropped.
// Objects implementing slot.Destroyer are destroyed either way.
func (c *Class[T]) OnDestroy(fn func(*T)) *Class[T] {
	c.destroy = fn
	return c
}

// Tick makes the class a unit generator with the given channel counts
func (c *Class[T]) Tick(numIn, numOut uint, fn TickFunc[T]) *Class[T] {
	c.tick = fn
	c.info.Tick = &TickInfo{Inputs: numIn, Outputs: numOut}
	return c
}

// Method adds a member function
func (c *Class[T]) Method(name, ret string, params []query.Param, fn MethodFunc[T]) *Class[T] {
	c.methods = append(c.methods, method[T]{
		info: MethodInfo{Name: name, Return: ret, Params: params},
		fn:   fn,
	})
	return c
}

// FloatGetter adds name() returning a float
func (c *Class[T]) FloatGetter(name string, get func(*T) float64) *Class[T] {
	return c.Method(name, chuck.TypeFloat, nil, func(obj *T, _ *args.Cursor, ret *chuck.Return) {
		ret.SetFloat(get(obj))
	})
}

// FloatSetter adds name(float) which applies the value and returns what get
// reports afterwards, the ChucK convention for setters.
func (c *Class[T]) FloatSetter(name, arg string, set func(*T, float64), get func(*T) float64) *Class[T] {
	params := []query.Param{{Type: chuck.TypeFloat, Name: arg}}
	return c.Method(name, chuck.TypeFloat, params, func(obj *T, a *args.Cursor, ret *chuck.Return) {
		set(obj, a.Float())
		ret.SetFloat(get(obj))
	})
}

// FloatProperty adds both the setter and the getter for name
func (c *Class[T]) FloatProperty(name, arg string, get func(*T) float64, set func(*T, float64)) *Class[T] {
	return c.FloatSetter(name, arg, set, get).FloatGetter(name, get)
}

// IntGetter adds name() returning an int
func (c *Class[T]) IntGetter(name string, get func(*T) int64) *Class[T] {
	return c.Method(name, chuck.TypeInt, nil, func(obj *T, _ *args.Cursor, ret *chuck.Return) {
		ret.SetInt(get(obj))
	})
}

// IntSetter adds name(int) returning the applied value
func (c *Class[T]) IntSetter(name, arg string, set func(*T, int64), get func(*T) int64) *Class[T] {
	params := []query.Param{{Type: chuck.TypeInt, Name: arg}}
	return c.Method(name, chuck.TypeInt, params, func(obj *T, a *args.Cursor, ret *chuck.Return) {
		set(obj, a.Int())
		ret.SetInt(get(obj))
	})
}

// IntProperty adds both the setter and the getter for name
func (c *Class[T]) IntProperty(name, arg string, get func(*T) int64, set func(*T, int64)) *Class[T] {
	return c.IntSetter(name, arg, set, get).IntGetter(name, get)
}

// Info returns the class description
func (c *Class[T]) Info() ClassInfo {
	info := c.info
	info.Methods = make([]MethodInfo, len(c.methods))
	for i, m := range c.methods {
		info.Methods[i] = m.info
	}
	return info
}

// Validate checks the description before anything is sent to the host
func (c *Class[T]) Validate() error {
	return validateClass(c.Info())
}

// Register declares the class in s: the data member first so its offset is
// known, then the callbacks that close over it.
func (c *Class[T]) Register(s *query.Session) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.BeginClass(c.info.Name, c.info.Parent); err != nil {
		return err
	}
	if err := s.DocClass(c.info.Doc); err != nil {
		return err
	}

	offset, err := s.AddMemberSlot(chuck.TypeInt, chuck.DataMember, false)
	if err != nil {
		return err
	}
	data := slot.New[T](offset)

	if err := s.AddConstructor(ctorTrampoline(data, c.newFn)); err != nil {
		return err
	}
	if err := s.AddDestructor(dtorTrampoline(data, c.destroy)); err != nil {
		return err
	}
	if c.tick != nil {
		tick := c.info.Tick
		if err := s.AddSignalProcessor(tickTrampoline(data, c.tick), tick.Inputs, tick.Outputs); err != nil {
			return err
		}
	}
	for _, m := range c.methods {
		fn := methodTrampoline(data, m.info.Name, m.fn)
		if err := s.AddMethod(fn, m.info.Return, m.info.Name, m.info.Params...); err != nil {
			return err
		}
	}
	return s.EndClass()
}
