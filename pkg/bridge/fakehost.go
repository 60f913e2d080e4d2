package bridge

// #cgo CFLAGS: -I../../include -I../../bridge
// #include <stdlib.h>
// #include <string.h>
// #include "bridge.h"
//
// #define CHUGIN_FAKE_MFUNS 16
//
// typedef struct {
//     Chuck_DL_Query query;
//     char module[64];
//     char class_name[64];
//     char parent[64];
//     char doc[128];
//     int open;
//     int classes;
//     int args;
//     t_CKUINT next_offset;
//     f_ctor ctor;
//     f_dtor dtor;
//     f_tick tick;
//     f_mfun mfuns[CHUGIN_FAKE_MFUNS];
//     int nmfuns;
// } chugin_fake_host;
//
// #define CHUGIN_FAKE(q) ((chugin_fake_host *)(q))
//
// static void fake_setname(Chuck_DL_Query *q, const char *name) {
//     strncpy(CHUGIN_FAKE(q)->module, name, 63);
// }
//
// static void fake_begin_class(Chuck_DL_Query *q, const char *name, const char *parent) {
//     strncpy(CHUGIN_FAKE(q)->class_name, name, 63);
//     strncpy(CHUGIN_FAKE(q)->parent, parent, 63);
//     CHUGIN_FAKE(q)->open = 1;
// }
//
// static void fake_add_ctor(Chuck_DL_Query *q, f_ctor fn) { CHUGIN_FAKE(q)->ctor = fn; }
// static void fake_add_dtor(Chuck_DL_Query *q, f_dtor fn) { CHUGIN_FAKE(q)->dtor = fn; }
//
// static void fake_add_mfun(Chuck_DL_Query *q, f_mfun fn, const char *type, const char *name) {
//     chugin_fake_host *h = CHUGIN_FAKE(q);
//     if (h->nmfuns < CHUGIN_FAKE_MFUNS) h->mfuns[h->nmfuns++] = fn;
// }
//
// static t_CKUINT fake_add_mvar(Chuck_DL_Query *q, const char *type, const char *name, t_CKBOOL is_const) {
//     t_CKUINT offset = CHUGIN_FAKE(q)->next_offset;
//     CHUGIN_FAKE(q)->next_offset += 8;
//     return offset;
// }
//
// static void fake_add_arg(Chuck_DL_Query *q, const char *type, const char *name) { CHUGIN_FAKE(q)->args++; }
//
// static void fake_add_ugen_func(Chuck_DL_Query *q, f_tick tick, f_pmsg pmsg, t_CKUINT num_in, t_CKUINT num_out) {
//     CHUGIN_FAKE(q)->tick = tick;
// }
//
// static t_CKBOOL fake_end_class(Chuck_DL_Query *q) {
//     chugin_fake_host *h = CHUGIN_FAKE(q);
//     if (!h->open) return 0;
//     h->open = 0;
//     h->classes++;
//     return 1;
// }
//
// static t_CKBOOL fake_doc_class(Chuck_DL_Query *q, const char *doc) {
//     strncpy(CHUGIN_FAKE(q)->doc, doc, 127);
//     return 1;
// }
//
// static chugin_fake_host *chugin_fake_host_new(void) {
//     chugin_fake_host *h = calloc(1, sizeof(chugin_fake_host));
//     h->query.setname = fake_setname;
//     h->query.begin_class = fake_begin_class;
//     h->query.add_ctor = fake_add_ctor;
//     h->query.add_dtor = fake_add_dtor;
//     h->query.add_mfun = fake_add_mfun;
//     h->query.add_mvar = fake_add_mvar;
//     h->query.add_arg = fake_add_arg;
//     h->query.add_ugen_func = fake_add_ugen_func;
//     h->query.end_class = fake_end_class;
//     h->query.doc_class = fake_doc_class;
//     return h;
// }
//
// static int chugin_fake_ctor_index(chugin_fake_host *h) {
//     for (int i = 0; h->ctor && i < CHUGIN_MAX_TRAMPOLINES; i++)
//         if (h->ctor == chugin_ctor_at(i)) return i;
//     return -1;
// }
//
// static int chugin_fake_tick_index(chugin_fake_host *h) {
//     for (int i = 0; h->tick && i < CHUGIN_MAX_TRAMPOLINES; i++)
//         if (h->tick == chugin_tick_at(i)) return i;
//     return -1;
// }
//
// static void *chugin_fake_object_new(size_t data_size) {
//     unsigned char *self = calloc(1, CHUGIN_OBJECT_DATA_OFFSET + sizeof(void *));
//     *(void **)(self + CHUGIN_OBJECT_DATA_OFFSET) = calloc(1, data_size);
//     return self;
// }
//
// static void *chugin_fake_object_data(void *self) {
//     return *(void **)((unsigned char *)self + CHUGIN_OBJECT_DATA_OFFSET);
// }
//
// static void chugin_fake_object_free(void *self) {
//     free(chugin_fake_object_data(self));
//     free(self);
// }
//
// static int chugin_fake_construct(chugin_fake_host *h, void *self) {
//     if (!h->ctor) return 0;
//     h->ctor((Chuck_Object *)self, 0, 0, 0, 0);
//     return 1;
// }
//
// static int chugin_fake_destruct(chugin_fake_host *h, void *self) {
//     if (!h->dtor) return 0;
//     h->dtor((Chuck_Object *)self, 0, 0, 0);
//     return 1;
// }
//
// static int chugin_fake_call(chugin_fake_host *h, int i, void *self, void *args, void *ret) {
//     if (i < 0 || i >= h->nmfuns) return 0;
//     h->mfuns[i]((Chuck_Object *)self, args, (Chuck_DL_Return *)ret, 0, 0, 0);
//     return 1;
// }
//
// static t_CKBOOL chugin_fake_tick(chugin_fake_host *h, void *self, SAMPLE in, SAMPLE *out) {
//     if (!h->tick) return 0;
//     return h->tick((Chuck_Object *)self, in, out, 0);
// }
import "C"
import (
	"unsafe"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// fakeHost is a Chuck_DL_Query living in C memory that records what a chugin
// registers, then drives the registered C callbacks the way the VM does:
// through a Chuck_Object whose data pointer sits at CHUGIN_OBJECT_DATA_OFFSET.
type fakeHost struct {
	h *C.chugin_fake_host
}

func newFakeHost() *fakeHost {
	return &fakeHost{h: C.chugin_fake_host_new()}
}

func (f *fakeHost) free() {
	C.free(unsafe.Pointer(f.h))
}

// query returns the descriptor ck_query receives
func (f *fakeHost) query() unsafe.Pointer {
	return unsafe.Pointer(f.h)
}

func (f *fakeHost) dropCtor() {
	f.h.query.add_ctor = nil
}

func (f *fakeHost) module() string    { return C.GoString(&f.h.module[0]) }
func (f *fakeHost) className() string { return C.GoString(&f.h.class_name[0]) }
func (f *fakeHost) parent() string    { return C.GoString(&f.h.parent[0]) }
func (f *fakeHost) doc() string       { return C.GoString(&f.h.doc[0]) }
func (f *fakeHost) classes() int      { return int(f.h.classes) }
func (f *fakeHost) args() int         { return int(f.h.args) }
func (f *fakeHost) methods() int      { return int(f.h.nmfuns) }

// ctorIndex is the trampoline index of the registered constructor, or -1
func (f *fakeHost) ctorIndex() int {
	return int(C.chugin_fake_ctor_index(f.h))
}

func (f *fakeHost) tickIndex() int {
	return int(C.chugin_fake_tick_index(f.h))
}

// newObject allocates a Chuck_Object with a zeroed data block of size bytes
func (f *fakeHost) newObject(size uintptr) unsafe.Pointer {
	return C.chugin_fake_object_new(C.size_t(size))
}

func (f *fakeHost) freeObject(self unsafe.Pointer) {
	C.chugin_fake_object_free(self)
}

func objectData(self unsafe.Pointer) unsafe.Pointer {
	return C.chugin_fake_object_data(self)
}

func (f *fakeHost) construct(self unsafe.Pointer) bool {
	return C.chugin_fake_construct(f.h, self) != 0
}

func (f *fakeHost) destruct(self unsafe.Pointer) bool {
	return C.chugin_fake_destruct(f.h, self) != 0
}

// call invokes the i-th registered member function
func (f *fakeHost) call(i int, self, argp unsafe.Pointer, ret *chuck.Return) bool {
	return C.chugin_fake_call(f.h, C.int(i), self, argp, unsafe.Pointer(ret)) != 0
}

func (f *fakeHost) tick(self unsafe.Pointer, in chuck.Sample) (chuck.Sample, bool) {
	var out C.SAMPLE
	ok := C.chugin_fake_tick(f.h, self, C.SAMPLE(in), &out)
	return chuck.Sample(out), ok != 0
}

// Go-typed entry points to the exported functions, for callers that cannot
// name C types.

func callVersion() chuck.Version {
	return chuck.Version(ck_version())
}

func callQuery(q unsafe.Pointer) bool {
	return ck_query((*C.Chuck_DL_Query)(q)) != 0
}

func dispatchCtor(idx int, data, argp unsafe.Pointer) {
	goChuginCtor(C.int(idx), data, argp, nil, nil, nil)
}

func dispatchDtor(idx int, data unsafe.Pointer) {
	goChuginDtor(C.int(idx), data, nil, nil, nil)
}

func dispatchMfun(idx int, data, argp unsafe.Pointer, ret *chuck.Return) {
	goChuginMfun(C.int(idx), data, argp, unsafe.Pointer(ret), nil, nil, nil)
}

func dispatchTick(idx int, data unsafe.Pointer, in chuck.Sample, out *chuck.Sample) bool {
	return goChuginTick(C.int(idx), data, C.float(in), (*C.float)(unsafe.Pointer(out)), nil) != 0
}
