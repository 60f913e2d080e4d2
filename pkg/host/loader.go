package host

import (
	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// loader is the registration descriptor handed to one module's query. It
// performs the checks the real loader performs when a class is ended.
type loader struct {
	vm      *VM
	module  string
	pending *Class
	// problem is the first reason the open class will be refused
	problem string
	// lastMethod is the method add_arg appends to
	lastMethod *Method
	added      []string
}

func (l *loader) fail(reason string) {
	if l.problem == "" {
		l.problem = reason
	}
}

func (l *loader) open(op string) error {
	if l.pending == nil {
		return errors.Wrapf(chuck.ErrSessionState, "%s outside begin_class/end_class", op)
	}
	return nil
}

func (l *loader) SetName(name string) error {
	l.module = name
	return nil
}

func (l *loader) BeginClass(name, parent string) error {
	if l.pending != nil {
		l.fail("nested begin_class " + name)
		return errors.Wrapf(chuck.ErrSessionState, "begin_class %s inside %s", name, l.pending.Name)
	}

	l.problem = ""
	l.lastMethod = nil
	c := &Class{Name: name, Parent: parent, Module: l.module}
	if p, ok := l.vm.classes[parent]; ok {
		c.parent = p
		c.Size = p.Size
	} else {
		l.fail("unknown parent " + parent)
	}
	l.pending = c
	return nil
}

func (l *loader) DocClass(text string) error {
	if err := l.open("doc_class"); err != nil {
		return err
	}
	l.pending.Doc = text
	return nil
}

func (l *loader) AddCtor(fn chuck.CtorFunc) error {
	if err := l.open("add_ctor"); err != nil {
		return err
	}
	l.pending.ctors = append(l.pending.ctors, fn)
	return nil
}

func (l *loader) AddDtor(fn chuck.DtorFunc) error {
	if err := l.open("add_dtor"); err != nil {
		return err
	}
	l.pending.dtors = append(l.pending.dtors, fn)
	return nil
}

func (l *loader) AddMvar(typ, name string, isConst bool) (uint, error) {
	if err := l.open("add_mvar"); err != nil {
		return 0, err
	}
	c := l.pending
	offset := c.Size
	c.Members = append(c.Members, Member{Type: typ, Name: name, Offset: offset, Const: isConst})
	c.Size += chuck.SizeOf(typ)
	return offset, nil
}

func (l *loader) AddMfun(fn chuck.MethodFunc, ret, name string) error {
	if err := l.open("add_mfun"); err != nil {
		return err
	}
	m := &Method{Name: name, Return: ret, fn: fn}
	l.pending.Methods = append(l.pending.Methods, m)
	l.lastMethod = m
	return nil
}

func (l *loader) AddArg(typ, name string) error {
	if err := l.open("add_arg"); err != nil {
		return err
	}
	if l.lastMethod == nil {
		l.fail("add_arg " + name + " with no function")
		return nil
	}
	l.lastMethod.Params = append(l.lastMethod.Params, Param{Type: typ, Name: name})
	return nil
}

func (l *loader) AddUgenFunc(fn chuck.TickFunc, numIn, numOut uint) error {
	if err := l.open("add_ugen_func"); err != nil {
		return err
	}
	if numIn > 1 || numOut != 1 {
		l.fail("unsupported channel layout")
	}
	l.pending.tick = fn
	l.pending.NumIn = numIn
	l.pending.NumOut = numOut
	return nil
}

func (l *loader) EndClass() (bool, error) {
	if err := l.open("end_class"); err != nil {
		return false, err
	}
	c := l.pending
	l.pending = nil
	l.lastMethod = nil

	problem := l.problem
	l.problem = ""
	if problem == "" {
		if _, dup := l.vm.classes[c.Name]; dup {
			problem = "class already exists"
		}
	}
	if problem != "" {
		l.vm.logger.Error("end_class %s refused: %s", c.Name, problem)
		return false, nil
	}

	l.vm.classes[c.Name] = c
	l.vm.order = append(l.vm.order, c.Name)
	l.added = append(l.added, c.Name)
	return true, nil
}
