package host

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/args"
	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// Instance is one object of a loaded class
type Instance struct {
	mu        sync.Mutex
	class     *Class
	data      []uint64
	destroyed bool
}

// Instantiate allocates instance data for class name and runs the constructor
// chain, parent first.
func (vm *VM) Instantiate(name string) (*Instance, error) {
	c, err := vm.Class(name)
	if err != nil {
		return nil, err
	}

	words := (c.Size + 7) / 8
	if words == 0 {
		words = 1
	}
	inst := &Instance{class: c, data: make([]uint64, words)}

	var chain []*Class
	for k := c; k != nil; k = k.parent {
		chain = append(chain, k)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, ctor := range chain[i].ctors {
			ctor(inst.base(), nil, chuck.Context{})
		}
	}
	return inst, nil
}

func (i *Instance) base() unsafe.Pointer {
	return unsafe.Pointer(&i.data[0])
}

// Class returns the instance's class
func (i *Instance) Class() *Class {
	return i.class
}

// Tick runs the class's tick function for one sample. ok is the value the
// tick function returned.
func (i *Instance) Tick(in chuck.Sample) (out chuck.Sample, ok bool, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return 0, false, ErrDestroyed
	}
	k := i.class.tickClass()
	if k == nil {
		return 0, false, errors.Wrapf(ErrNoTick, "%s", i.class.Name)
	}
	ok = k.tick(i.base(), in, &out, chuck.Context{})
	return out, ok, nil
}

// Call invokes a member function. Arguments are packed according to the
// declared parameter types of the overload with len(argv) parameters.
func (i *Instance) Call(name string, argv ...any) (chuck.Return, error) {
	var ret chuck.Return

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return ret, ErrDestroyed
	}
	m, ok := i.class.Method(name, len(argv))
	if !ok {
		return ret, errors.Wrapf(ErrUnknownMethod, "%s.%s with %d arguments", i.class.Name, name, len(argv))
	}

	b := args.NewBuilder(len(argv))
	for n, v := range argv {
		if err := b.Put(m.Params[n].Type, v); err != nil {
			return ret, errors.Wrapf(err, "%s.%s argument %s", i.class.Name, name, m.Params[n].Name)
		}
	}
	m.fn(i.base(), b.Pointer(), &ret, chuck.Context{})
	return ret, nil
}

// Destroy runs the destructor chain, child first. It may only be called
// once.
func (i *Instance) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return ErrDestroyed
	}
	i.destroyed = true
	for k := i.class; k != nil; k = k.parent {
		for _, dtor := range k.dtors {
			dtor(i.base(), chuck.Context{})
		}
	}
	return nil
}

// Destroyed reports whether Destroy has run
func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

// Word reads the pointer-sized word at offset in instance data
func (i *Instance) Word(offset uint) uintptr {
	i.mu.Lock()
	defer i.mu.Unlock()
	return *(*uintptr)(unsafe.Add(i.base(), offset))
}
