package slot

import "sync"

// Go pointers must not be stored in host memory, so slots hold a handle into
// this table instead.
var (
	objects   = make(map[uintptr]any)
	objectsMu sync.RWMutex
	nextID    uintptr = 1
)

// register adds obj to the table and returns its handle
func register(obj any) uintptr {
	objectsMu.Lock()
	defer objectsMu.Unlock()
	id := nextID
	nextID++
	objects[id] = obj
	return id
}

// unregister removes a handle and returns what it referred to
func unregister(id uintptr) (any, bool) {
	objectsMu.Lock()
	defer objectsMu.Unlock()
	obj, exists := objects[id]
	if exists {
		delete(objects, id)
	}
	return obj, exists
}

// lookup resolves a handle
func lookup(id uintptr) (any, bool) {
	if id == 0 {
		return nil, false
	}

	objectsMu.RLock()
	defer objectsMu.RUnlock()
	obj, exists := objects[id]
	return obj, exists
}

// Live returns the number of native objects currently owned through slots.
func Live() int {
	objectsMu.RLock()
	defer objectsMu.RUnlock()
	return len(objects)
}
