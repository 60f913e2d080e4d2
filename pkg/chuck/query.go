package chuck

// Query is the host's registration descriptor (Chuck_DL_Query). Strings are
// handed over as given; callers are expected to have checked them for NUL
// bytes. Implementations return ErrInvalidDescriptor when the underlying
// function pointer is missing.
type Query interface {
	SetName(name string) error
	BeginClass(name, parent string) error
	AddCtor(fn CtorFunc) error
	AddDtor(fn DtorFunc) error
	AddMvar(typ, name string, isConst bool) (uint, error)
	AddMfun(fn MethodFunc, ret, name string) error
	AddArg(typ, name string) error
	AddUgenFunc(fn TickFunc, numIn, numOut uint) error
	// EndClass reports the host's verdict on the open class.
	EndClass() (bool, error)
}

// ClassDocumenter is implemented by hosts that accept class documentation.
type ClassDocumenter interface {
	DocClass(text string) error
}
