// Package bridge connects the chugin core to a real ChucK host through cgo.
//
// The host calls plain C function pointers, so every registered Go callback
// is parked in a table and handed to the host as the C trampoline with the
// same index. Importing this package also exports ck_version and ck_query,
// which serve chugin.Default():
//
//	import _ "github.com/justyntemme/chuckgo/pkg/bridge"
//
// Build the importing main package with -buildmode=c-shared and rename the
// result to Name.chug.
package bridge

// #cgo CFLAGS: -I../../include -I../../bridge
// #include "../../bridge/bridge.c"
import "C"

// ObjectDataOffset is where the trampolines find an instance's data pointer
// inside a Chuck_Object. Set it with -DCHUGIN_OBJECT_DATA_OFFSET.
const ObjectDataOffset = C.CHUGIN_OBJECT_DATA_OFFSET
