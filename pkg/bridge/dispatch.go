package bridge

// #cgo CFLAGS: -I../../include -I../../bridge
// #include "bridge.h"
import "C"
import (
	"unsafe"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/chugin"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
)

// recoverPanic keeps a Go panic from unwinding into the host
func recoverPanic(operation string) {
	if r := recover(); r != nil {
		debug.Error("panic in %s: %v", operation, r)
	}
}

func hostContext(vm, shred, api unsafe.Pointer) chuck.Context {
	return chuck.Context{VM: vm, Shred: shred, API: api}
}

//export ck_version
func ck_version() C.t_CKUINT {
	return C.t_CKUINT(chugin.Default().Version())
}

//export ck_query
func ck_query(query *C.Chuck_DL_Query) (ok C.t_CKBOOL) {
	defer recoverPanic("ck_query")

	cfg, err := chugin.ConfigFromEnv(chugin.CurrentConfig())
	if err == nil {
		err = chugin.SetConfig(cfg)
	}
	if err != nil {
		debug.Warn("ignoring chugin environment: %v", err)
	}

	q, err := NewQuery(unsafe.Pointer(query))
	if err != nil {
		debug.Error("ck_query: %v", err)
		return 0
	}
	if !chugin.Default().Query(q) {
		return 0
	}
	debug.Debug("ck_query: trampolines in use %v, object data at offset %d", Usage(), ObjectDataOffset)
	return 1
}

//export goChuginCtor
func goChuginCtor(idx C.int, data, args, vm, shred, api unsafe.Pointer) {
	defer recoverPanic("ctor")

	fn, ok := ctors.get(int(idx))
	if !ok {
		return
	}
	fn(data, args, hostContext(vm, shred, api))
}

//export goChuginDtor
func goChuginDtor(idx C.int, data, vm, shred, api unsafe.Pointer) {
	defer recoverPanic("dtor")

	fn, ok := dtors.get(int(idx))
	if !ok {
		return
	}
	fn(data, hostContext(vm, shred, api))
}

//export goChuginMfun
func goChuginMfun(idx C.int, data, args, ret, vm, shred, api unsafe.Pointer) {
	defer recoverPanic("mfun")

	fn, ok := mfuns.get(int(idx))
	if !ok || ret == nil {
		return
	}
	fn(data, args, chuck.ReturnAt(ret), hostContext(vm, shred, api))
}

//export goChuginTick
func goChuginTick(idx C.int, data unsafe.Pointer, in C.float, out *C.float, api unsafe.Pointer) (result C.int) {
	defer recoverPanic("tick")

	fn, ok := ticks.get(int(idx))
	if !ok || out == nil {
		return 0
	}
	if fn(data, chuck.Sample(in), (*chuck.Sample)(unsafe.Pointer(out)), hostContext(nil, nil, api)) {
		return 1
	}
	return 0
}

func init() {
	if C.CHUGIN_MAX_TRAMPOLINES != MaxTrampolines {
		panic("bridge: CHUGIN_MAX_TRAMPOLINES does not match MaxTrampolines")
	}
}
