// Package query drives a ChucK query descriptor through the registration of
// one or more classes.
//
// A Session is either Idle or InClass. BeginClass opens a class, EndClass
// closes it, and everything in between (constructor, destructor, members,
// methods, tick) is only valid while a class is open. Names are checked for
// embedded NUL bytes before they reach the host.
package query

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// State is the registration state of a Session.
type State int

const (
	// Idle means no class is open.
	Idle State = iota
	// InClass means a class has been begun and not yet ended.
	InClass
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InClass:
		return "in-class"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Param is one declared method argument.
type Param struct {
	Type string `json:"type" yaml:"type" validate:"required,cstring"`
	Name string `json:"name" yaml:"name" validate:"required,cstring"`
}

// Session registers classes through a host query descriptor.
type Session struct {
	q      chuck.Query
	state  State
	class  string
	ctors  int
	dtors  int
	logger *debug.Logger
}

// New opens a session on q.
func New(q chuck.Query) (*Session, error) {
	if q == nil {
		return nil, chuck.ErrInvalidDescriptor
	}
	return &Session{
		q:      q,
		state:  Idle,
		logger: debug.Default(),
	}, nil
}

// SetLogger replaces the session's logger
func (s *Session) SetLogger(l *debug.Logger) {
	s.logger = l
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Class returns the name of the open class, or "" when idle
func (s *Session) Class() string {
	return s.class
}

func (s *Session) require(want State, op string) error {
	if s == nil || s.q == nil {
		return errors.Wrap(chuck.ErrInvalidDescriptor, op)
	}
	if s.state != want {
		return errors.Wrapf(chuck.ErrSessionState, "%s while %s", op, s.state)
	}
	return nil
}

// SetName forwards the module's name to the host. Only valid while idle.
func (s *Session) SetName(name string) error {
	if err := s.require(Idle, "set_name"); err != nil {
		return err
	}
	if err := CheckName("module name", name); err != nil {
		return err
	}
	return s.q.SetName(name)
}

// BeginClass opens a class named name deriving from parent. Whether parent
// exists is for the host to decide, at EndClass time.
func (s *Session) BeginClass(name, parent string) error {
	if err := s.require(Idle, "begin_class"); err != nil {
		return err
	}
	if err := CheckName("class name", name); err != nil {
		return err
	}
	if err := CheckName("parent name", parent); err != nil {
		return err
	}
	if err := s.q.BeginClass(name, parent); err != nil {
		return errors.Wrapf(err, "begin_class %s", name)
	}

	s.state = InClass
	s.class = name
	s.ctors, s.dtors = 0, 0
	s.logger.Debug("begin class %s : %s", name, parent)
	return nil
}

// AddConstructor registers the constructor of the open class.
func (s *Session) AddConstructor(fn chuck.CtorFunc) error {
	if err := s.require(InClass, "add_ctor"); err != nil {
		return err
	}
	s.ctors++
	// The host keeps whichever one it keeps; we only make it visible.
	s.logger.WarnIf(s.ctors > 1, "class %s: constructor registered %d times", s.class, s.ctors)
	return errors.Wrapf(s.q.AddCtor(fn), "add_ctor %s", s.class)
}

// AddDestructor registers the destructor of the open class.
func (s *Session) AddDestructor(fn chuck.DtorFunc) error {
	if err := s.require(InClass, "add_dtor"); err != nil {
		return err
	}
	s.dtors++
	s.logger.WarnIf(s.dtors > 1, "class %s: destructor registered %d times", s.class, s.dtors)
	return errors.Wrapf(s.q.AddDtor(fn), "add_dtor %s", s.class)
}

// AddMemberSlot declares a member variable and returns its byte offset in
// instance data. Only the value returned here is valid for addressing it.
func (s *Session) AddMemberSlot(typ, name string, isConst bool) (uint, error) {
	if err := s.require(InClass, "add_mvar"); err != nil {
		return 0, err
	}
	if err := CheckName("member type", typ); err != nil {
		return 0, err
	}
	if err := CheckName("member name", name); err != nil {
		return 0, err
	}
	offset, err := s.q.AddMvar(typ, name, isConst)
	if err != nil {
		return 0, errors.Wrapf(err, "add_mvar %s.%s", s.class, name)
	}
	s.logger.Debug("class %s: member %s %s at offset %d", s.class, typ, name, offset)
	return offset, nil
}

// AddMethod registers a member function and its arguments, in the order the
// function will read them.
func (s *Session) AddMethod(fn chuck.MethodFunc, ret, name string, params ...Param) error {
	if err := s.require(InClass, "add_mfun"); err != nil {
		return err
	}
	if err := CheckName("return type", ret); err != nil {
		return err
	}
	if err := CheckName("method name", name); err != nil {
		return err
	}
	for _, p := range params {
		if err := CheckName("argument type", p.Type); err != nil {
			return err
		}
		if err := CheckName("argument name", p.Name); err != nil {
			return err
		}
	}

	if err := s.q.AddMfun(fn, ret, name); err != nil {
		return errors.Wrapf(err, "add_mfun %s.%s", s.class, name)
	}
	for _, p := range params {
		if err := s.q.AddArg(p.Type, p.Name); err != nil {
			return errors.Wrapf(err, "add_arg %s.%s(%s)", s.class, name, p.Name)
		}
	}
	s.logger.Debug("class %s: method %s %s(%d args)", s.class, ret, name, len(params))
	return nil
}

// AddSignalProcessor registers the tick function of a unit generator class.
func (s *Session) AddSignalProcessor(fn chuck.TickFunc, numIn, numOut uint) error {
	if err := s.require(InClass, "add_ugen_func"); err != nil {
		return err
	}
	return errors.Wrapf(s.q.AddUgenFunc(fn, numIn, numOut), "add_ugen_func %s", s.class)
}

// DocClass attaches documentation to the open class if the host supports it.
func (s *Session) DocClass(text string) error {
	if err := s.require(InClass, "doc_class"); err != nil {
		return err
	}
	doc, ok := s.q.(chuck.ClassDocumenter)
	if !ok || text == "" {
		return nil
	}
	if err := CheckName("class doc", text); err != nil {
		return err
	}
	return doc.DocClass(text)
}

// EndClass finalises the open class. The session returns to Idle whether or
// not the host accepted it.
func (s *Session) EndClass() error {
	if err := s.require(InClass, "end_class"); err != nil {
		return err
	}
	class := s.class
	s.state = Idle
	s.class = ""

	ok, err := s.q.EndClass()
	if err != nil {
		return errors.Wrapf(err, "end_class %s", class)
	}
	if !ok {
		return errors.Wrapf(chuck.ErrClassRegistrationFailed, "class %s", class)
	}
	s.logger.Debug("end class %s", class)
	return nil
}
