package bridge

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// MaxTrampolines is the number of C entry points per callback kind. It must
// match CHUGIN_MAX_TRAMPOLINES.
const MaxTrampolines = 128

// table maps trampoline indices to Go callbacks. Entries are never removed:
// the host keeps the function pointers for the life of the process.
type table[F any] struct {
	kind string
	mu   sync.RWMutex
	fns  []F
}

func newTable[F any](kind string) *table[F] {
	return &table[F]{kind: kind}
}

// add parks fn and returns the index of its trampoline
func (t *table[F]) add(fn F) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.fns) >= MaxTrampolines {
		return 0, errors.Wrapf(chuck.ErrTrampolinesExhausted, "%s: all %d in use", t.kind, MaxTrampolines)
	}
	t.fns = append(t.fns, fn)
	return len(t.fns) - 1, nil
}

// get returns the callback behind trampoline i
func (t *table[F]) get(i int) (F, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.fns) {
		var zero F
		return zero, false
	}
	return t.fns[i], true
}

// Len returns the number of trampolines in use
func (t *table[F]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.fns)
}

var (
	ctors = newTable[chuck.CtorFunc]("ctor")
	dtors = newTable[chuck.DtorFunc]("dtor")
	mfuns = newTable[chuck.MethodFunc]("mfun")
	ticks = newTable[chuck.TickFunc]("tick")
)

// Usage reports how many trampolines of each kind are taken
func Usage() map[string]int {
	return map[string]int{
		ctors.kind: ctors.Len(),
		dtors.kind: dtors.Len(),
		mfuns.kind: mfuns.Len(),
		ticks.kind: ticks.Len(),
	}
}
