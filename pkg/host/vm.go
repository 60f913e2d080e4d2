// Package host is an in-process stand-in for the ChucK DL loader and VM. It
// implements the registration descriptor, keeps the classes a module declared
// and instantiates them, so chugins can be exercised without ChucK.
package host

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// Errors returned by the VM
var (
	ErrUnknownClass  = errors.New("unknown class")
	ErrUnknownMethod = errors.New("unknown method")
	ErrDestroyed     = errors.New("instance already destroyed")
	ErrLoadFailed    = errors.New("module query failed")
	ErrNoTick        = errors.New("class has no tick function")
)

// Plugin is what a chugin exposes to the loader
type Plugin interface {
	Version() chuck.Version
	Query(q chuck.Query) bool
}

// Member is a declared member variable
type Member struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Offset uint   `json:"offset"`
	Const  bool   `json:"const,omitempty"`
}

// Param is a declared method argument
type Param struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Method is a declared member function
type Method struct {
	Name   string  `json:"name"`
	Return string  `json:"return"`
	Params []Param `json:"params,omitempty"`

	fn chuck.MethodFunc
}

// Class is a class the VM knows about
type Class struct {
	Name    string    `json:"name"`
	Parent  string    `json:"parent,omitempty"`
	Doc     string    `json:"doc,omitempty"`
	Module  string    `json:"module,omitempty"`
	Members []Member  `json:"members,omitempty"`
	Methods []*Method `json:"methods,omitempty"`
	NumIn   uint      `json:"inputs,omitempty"`
	NumOut  uint      `json:"outputs,omitempty"`
	// Size is the byte size of instance data, parent members included
	Size uint `json:"size"`

	parent  *Class
	builtin bool
	ctors   []chuck.CtorFunc
	dtors   []chuck.DtorFunc
	tick    chuck.TickFunc
}

// IsUGen reports whether the class has a tick function of its own or
// inherited
func (c *Class) IsUGen() bool {
	return c.tickClass() != nil
}

func (c *Class) tickClass() *Class {
	for k := c; k != nil; k = k.parent {
		if k.tick != nil {
			return k
		}
	}
	return nil
}

// Method finds an overload by name and argument count, searching parents
func (c *Class) Method(name string, nargs int) (*Method, bool) {
	for k := c; k != nil; k = k.parent {
		for _, m := range k.Methods {
			if m.Name == name && len(m.Params) == nargs {
				return m, true
			}
		}
	}
	return nil, false
}

// Member finds a member variable by name, searching parents
func (c *Class) Member(name string) (Member, bool) {
	for k := c; k != nil; k = k.parent {
		for _, m := range k.Members {
			if m.Name == name {
				return m, true
			}
		}
	}
	return Member{}, false
}

// Option configures a VM
type Option func(*VM)

// WithVersion sets the protocol version the VM accepts
func WithVersion(v chuck.Version) Option {
	return func(vm *VM) {
		vm.version = v
	}
}

// WithLogger sets the VM's logger
func WithLogger(l *debug.Logger) Option {
	return func(vm *VM) {
		vm.logger = l
	}
}

// VM holds the class table
type VM struct {
	mu      sync.RWMutex
	version chuck.Version
	logger  *debug.Logger
	classes map[string]*Class
	order   []string
}

// New creates a VM knowing only the built-in classes
func New(opts ...Option) *VM {
	vm := &VM{
		version: chuck.DLLVersion,
		logger:  debug.Default(),
		classes: make(map[string]*Class),
	}
	for _, opt := range opts {
		opt(vm)
	}

	object := &Class{Name: chuck.ParentObject, builtin: true}
	ugen := &Class{Name: chuck.ParentUGen, Parent: chuck.ParentObject, parent: object, builtin: true}
	uana := &Class{Name: chuck.ParentUAna, Parent: chuck.ParentUGen, parent: ugen, builtin: true}
	for _, c := range []*Class{object, ugen, uana} {
		vm.classes[c.Name] = c
	}
	return vm
}

// Version returns the protocol version the VM accepts
func (vm *VM) Version() chuck.Version {
	return vm.version
}

// Load checks p's version and runs its query. Classes of a module whose query
// fails are discarded.
func (vm *VM) Load(p Plugin) error {
	if err := chuck.CheckVersion(vm.version, p.Version()); err != nil {
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	l := &loader{vm: vm}
	ok := p.Query(l)
	if ok && l.pending != nil {
		vm.logger.Warn("module %s left class %s open", l.module, l.pending.Name)
		ok = false
	}
	if !ok {
		for _, name := range l.added {
			delete(vm.classes, name)
		}
		vm.order = vm.order[:len(vm.order)-len(l.added)]
		return errors.Wrapf(ErrLoadFailed, "module %q", l.module)
	}

	vm.logger.Debug("loaded module %q with %d classes", l.module, len(l.added))
	return nil
}

// Classes returns the classes declared by loaded modules, in load order
func (vm *VM) Classes() []*Class {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]*Class, 0, len(vm.order))
	for _, name := range vm.order {
		out = append(out, vm.classes[name])
	}
	return out
}

// ClassNames returns the sorted names of loaded classes
func (vm *VM) ClassNames() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	names := append([]string(nil), vm.order...)
	sort.Strings(names)
	return names
}

// Class looks a class up by name, built-ins included
func (vm *VM) Class(name string) (*Class, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	c, ok := vm.classes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownClass, "%q", name)
	}
	return c, nil
}
