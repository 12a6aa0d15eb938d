package testbed

import (
	"sync"

	vk "github.com/wippyai/vulkan-runtime"
)

type objectKind uint8

const (
	kindInstance objectKind = iota + 1
	kindPhysicalDevice
	kindCallback
)

// objectTable is the stub driver's handle registry. Handles are
// one-based table indices; slot zero is never issued so a NullHandle
// can never alias a live object.
type objectTable struct {
	entries  []tableEntry
	freeList []vk.Handle
	mu       sync.RWMutex
}

type tableEntry struct {
	value any
	kind  objectKind
	valid bool
}

func newObjectTable() *objectTable {
	return &objectTable{
		entries:  make([]tableEntry, 0, 16),
		freeList: make([]vk.Handle, 0, 4),
	}
}

// create stores a value and returns its handle.
func (t *objectTable) create(kind objectKind, value any) vk.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := tableEntry{value: value, kind: kind, valid: true}

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return vk.Handle(len(t.entries))
}

// get retrieves a live object of the given kind.
func (t *objectTable) get(h vk.Handle, kind objectKind) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(h) - 1
	if idx >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// drop invalidates a handle and returns its value. Dropping an already
// dropped or unknown handle is a no-op, mirroring driver tolerance for
// redundant destroys.
func (t *objectTable) drop(h vk.Handle, kind objectKind) (any, bool) {
	if h == 0 {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := int(h) - 1
	if idx >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.kind != kind {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	t.freeList = append(t.freeList, h)
	return value, true
}
