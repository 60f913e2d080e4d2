package bridge

// #cgo CFLAGS: -I../../include -I../../bridge
// #include <stdlib.h>
// #include "bridge.h"
//
// static inline int chugin_setname(Chuck_DL_Query *q, const char *name) {
//     if (!q || !q->setname) return 0;
//     q->setname(q, name);
//     return 1;
// }
//
// static inline int chugin_begin_class(Chuck_DL_Query *q, const char *name, const char *parent) {
//     if (!q || !q->begin_class) return 0;
//     q->begin_class(q, name, parent);
//     return 1;
// }
//
// static inline int chugin_add_ctor(Chuck_DL_Query *q, int idx) {
//     if (!q || !q->add_ctor) return 0;
//     q->add_ctor(q, chugin_ctor_at(idx));
//     return 1;
// }
//
// static inline int chugin_add_dtor(Chuck_DL_Query *q, int idx) {
//     if (!q || !q->add_dtor) return 0;
//     q->add_dtor(q, chugin_dtor_at(idx));
//     return 1;
// }
//
// static inline int chugin_add_mvar(Chuck_DL_Query *q, const char *type, const char *name, int is_const, t_CKUINT *offset) {
//     if (!q || !q->add_mvar) return 0;
//     *offset = q->add_mvar(q, type, name, is_const ? 1 : 0);
//     return 1;
// }
//
// static inline int chugin_add_mfun(Chuck_DL_Query *q, int idx, const char *type, const char *name) {
//     if (!q || !q->add_mfun) return 0;
//     q->add_mfun(q, chugin_mfun_at(idx), type, name);
//     return 1;
// }
//
// static inline int chugin_add_arg(Chuck_DL_Query *q, const char *type, const char *name) {
//     if (!q || !q->add_arg) return 0;
//     q->add_arg(q, type, name);
//     return 1;
// }
//
// static inline int chugin_add_ugen_func(Chuck_DL_Query *q, int idx, t_CKUINT num_in, t_CKUINT num_out) {
//     if (!q || !q->add_ugen_func) return 0;
//     q->add_ugen_func(q, chugin_tick_at(idx), 0, num_in, num_out);
//     return 1;
// }
//
// static inline int chugin_end_class(Chuck_DL_Query *q, t_CKBOOL *ok) {
//     if (!q || !q->end_class) return 0;
//     *ok = q->end_class(q);
//     return 1;
// }
//
// static inline int chugin_doc_class(Chuck_DL_Query *q, const char *doc) {
//     if (!q || !q->doc_class) return 0;
//     q->doc_class(q, doc);
//     return 1;
// }
import "C"
import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// Query drives the host's Chuck_DL_Query. Every call checks that the host
// filled in the function it needs.
type Query struct {
	q *C.Chuck_DL_Query
}

// NewQuery wraps the descriptor passed to ck_query
func NewQuery(p unsafe.Pointer) (*Query, error) {
	if p == nil {
		return nil, chuck.ErrInvalidDescriptor
	}
	return &Query{q: (*C.Chuck_DL_Query)(p)}, nil
}

func missing(fn string) error {
	return errors.Wrapf(chuck.ErrInvalidDescriptor, "host provides no %s", fn)
}

// SetName names the module
func (q *Query) SetName(name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.chugin_setname(q.q, cname) == 0 {
		return missing("setname")
	}
	return nil
}

// BeginClass opens a class
func (q *Query) BeginClass(name, parent string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cparent := C.CString(parent)
	defer C.free(unsafe.Pointer(cparent))
	if C.chugin_begin_class(q.q, cname, cparent) == 0 {
		return missing("begin_class")
	}
	return nil
}

// AddCtor parks fn in the constructor table and registers its trampoline
func (q *Query) AddCtor(fn chuck.CtorFunc) error {
	if q.q == nil || q.q.add_ctor == nil {
		return missing("add_ctor")
	}
	idx, err := ctors.add(fn)
	if err != nil {
		return err
	}
	C.chugin_add_ctor(q.q, C.int(idx))
	return nil
}

func (q *Query) AddDtor(fn chuck.DtorFunc) error {
	if q.q == nil || q.q.add_dtor == nil {
		return missing("add_dtor")
	}
	idx, err := dtors.add(fn)
	if err != nil {
		return err
	}
	C.chugin_add_dtor(q.q, C.int(idx))
	return nil
}

// AddMvar declares a member and returns the offset the host assigned
func (q *Query) AddMvar(typ, name string, isConst bool) (uint, error) {
	ctyp := C.CString(typ)
	defer C.free(unsafe.Pointer(ctyp))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var constFlag C.int
	if isConst {
		constFlag = 1
	}
	var offset C.t_CKUINT
	if C.chugin_add_mvar(q.q, ctyp, cname, constFlag, &offset) == 0 {
		return 0, missing("add_mvar")
	}
	return uint(offset), nil
}

func (q *Query) AddMfun(fn chuck.MethodFunc, ret, name string) error {
	if q.q == nil || q.q.add_mfun == nil {
		return missing("add_mfun")
	}
	idx, err := mfuns.add(fn)
	if err != nil {
		return err
	}
	cret := C.CString(ret)
	defer C.free(unsafe.Pointer(cret))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.chugin_add_mfun(q.q, C.int(idx), cret, cname)
	return nil
}

func (q *Query) AddArg(typ, name string) error {
	ctyp := C.CString(typ)
	defer C.free(unsafe.Pointer(ctyp))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	if C.chugin_add_arg(q.q, ctyp, cname) == 0 {
		return missing("add_arg")
	}
	return nil
}

func (q *Query) AddUgenFunc(fn chuck.TickFunc, numIn, numOut uint) error {
	if q.q == nil || q.q.add_ugen_func == nil {
		return missing("add_ugen_func")
	}
	idx, err := ticks.add(fn)
	if err != nil {
		return err
	}
	C.chugin_add_ugen_func(q.q, C.int(idx), C.t_CKUINT(numIn), C.t_CKUINT(numOut))
	return nil
}

// EndClass reports whether the host accepted the open class
func (q *Query) EndClass() (bool, error) {
	var ok C.t_CKBOOL
	if C.chugin_end_class(q.q, &ok) == 0 {
		return false, missing("end_class")
	}
	return ok != 0, nil
}

// DocClass is optional; hosts without doc_class silently skip it.
func (q *Query) DocClass(text string) error {
	cdoc := C.CString(text)
	defer C.free(unsafe.Pointer(cdoc))
	C.chugin_doc_class(q.q, cdoc)
	return nil
}
