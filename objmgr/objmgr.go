// Package objmgr is a minimal stand-in for the Windows object manager: the
// cm package consumes it exactly as an external collaborator providing
// typed-handle allocation, a `\`-delimited namespace, and reference
// counting, never touching hive internals directly.
//
// Grounded on CmpCreateHandle's handle/reference-count discipline in
// ntfunc.c and on a pooled, cookie-indexed lookup table design, adapted
// from offset indexing to handle/object indexing.
package objmgr

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Handle is an opaque, process-unique reference returned by CreateObject
// and accepted by InsertObject, ReferenceObjectByHandle and
// DereferenceObject.
type Handle uint64

// Object is anything the namespace can hold. The cm package's *KeyObject
// satisfies this by carrying its own namespace path.
type Object interface {
	// ObjectName returns the full `\`-delimited path this object was
	// inserted under (empty until InsertObject runs). FindObject composes
	// a child candidate path by appending to this value, so it must be
	// the object's whole resolved path, not just its last component.
	ObjectName() string
}

type entry struct {
	mu       sync.Mutex
	obj      Object
	refCount int32
	name     string // full `\`-delimited path, set by InsertObject
}

// Manager is the process-wide object namespace plus handle table.
//
// Grounded on hive/index/pool.go's pooled-index idiom (reused here as a
// reference-counted object pool rather than a cell-offset index) and on
// CmpCreateHandle's handle-table/refcount pairing in ntfunc.c.
type Manager struct {
	mu      sync.RWMutex
	byPath  map[string]*entry
	handles map[Handle]*entry
	next    atomic.Uint64
}

// New returns an empty object namespace.
func New() *Manager {
	return &Manager{
		byPath:  make(map[string]*entry),
		handles: make(map[Handle]*entry),
	}
}

// CreateObject allocates a handle for obj without inserting it into the
// namespace (the caller inserts under a name separately via InsertObject,
// matching ObCreateObject/ObInsertObject's two-step contract).
func (m *Manager) CreateObject(obj Object) Handle {
	e := &entry{obj: obj, refCount: 1}
	h := Handle(m.next.Add(1))
	m.mu.Lock()
	m.handles[h] = e
	m.mu.Unlock()
	return h
}

// InsertObject publishes the object behind h under the given `\`-delimited
// path, making it discoverable via FindObject.
func (m *Manager) InsertObject(h Handle, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.handles[h]
	if !ok {
		return fmt.Errorf("objmgr: invalid handle %d", h)
	}
	e.name = path
	m.byPath[normalize(path)] = e
	return nil
}

// ReferenceObjectByHandle resolves h to its object, incrementing the
// refcount (ObReferenceObjectByHandle).
func (m *Manager) ReferenceObjectByHandle(h Handle) (Object, error) {
	m.mu.RLock()
	e, ok := m.handles[h]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("objmgr: invalid handle %d", h)
	}
	e.mu.Lock()
	e.refCount++
	e.mu.Unlock()
	return e.obj, nil
}

// DereferenceObject drops one reference. The caller (cm's finalizer path)
// is responsible for tearing down the object once the count reaches zero;
// this package only tracks the count (ObDereferenceObject).
func (m *Manager) DereferenceObject(h Handle) (remaining int32, err error) {
	m.mu.Lock()
	e, ok := m.handles[h]
	if !ok {
		m.mu.Unlock()
		return 0, fmt.Errorf("objmgr: invalid handle %d", h)
	}
	e.mu.Lock()
	e.refCount--
	remaining = e.refCount
	e.mu.Unlock()
	if remaining <= 0 {
		delete(m.handles, h)
		if e.name != "" {
			delete(m.byPath, normalize(e.name))
		}
	}
	m.mu.Unlock()
	return remaining, nil
}

// FindObject walks the namespace for the longest prefix of name that
// resolves to an inserted object, returning that object and whatever path
// suffix remains unresolved: a `FindObject(name) → (object,
// remaining_path)` contract.
//
// Prefixes are tried one component at a time from parent outward and the
// deepest one inserted wins; intermediate components need not themselves
// be inserted objects. CreateKey/OpenKey use this to get the nearest
// existing key object plus whatever key path remains to create/open
// under it.
func (m *Manager) FindObject(parent Object, remaining string) (found Object, rest string) {
	remaining = strings.TrimPrefix(remaining, `\`)
	if remaining == "" {
		return parent, ""
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	parentPath := ""
	if parent != nil {
		parentPath = parent.ObjectName()
	}

	segments := strings.Split(remaining, `\`)
	cur := parent
	curPath := parentPath
	rest = remaining
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		curPath = curPath + `\` + seg
		if e, ok := m.byPath[normalize(curPath)]; ok {
			cur = e.obj
			rest = strings.Join(segments[i+1:], `\`)
		}
	}
	return cur, rest
}

// Lookup returns the object inserted at the exact path, if any.
func (m *Manager) Lookup(path string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byPath[normalize(path)]
	if !ok {
		return nil, false
	}
	return e.obj, true
}

func normalize(path string) string {
	return strings.ToLower(strings.Trim(path, `\`))
}
