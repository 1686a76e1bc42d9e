package cm

import (
	"sync"
	"time"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/objmgr"
)

// KeyFlags mirrors the handle-target bits relevant to KeyObject.
type KeyFlags uint32

const (
	// FlagMarkedForDelete is the tombstone bit: the name is logically
	// removed but teardown waits for the last handle to drop (invariant 3).
	FlagMarkedForDelete KeyFlags = 1 << iota
)

// KeyObject is the in-memory handle target: it points at a hive plus one
// key cell, and carries the bookkeeping the object-manager and syscall
// dispatcher need across calls.
//
// Grounded on ntfunc.c's KEY_OBJECT field usage in NtCreateKey/NtDeleteKey.
type KeyObject struct {
	mu sync.Mutex

	Hive    *hive.Hive
	Cell    hive.CellIndex
	Name    string // cached last path component
	Path    string // full `\`-delimited objmgr namespace path
	Flags   KeyFlags

	// Handle is this object's object-manager handle, used by DeleteKey's
	// reference-accounting replication.
	Handle objmgr.Handle

	// ParentKey is an owning reference, held only when Hive differs from
	// the parent's hive (a mount point). Intra-hive parents are resolved
	// through KeyCell.Parent instead, to avoid an ownership cycle through
	// the cell store.
	ParentKey *KeyObject

	list *keyObjectList
	elem *keyObjectListNode
}

// ObjectName implements objmgr.Object, returning the full namespace path
// rather than the cached last-component Name: FindObject composes child
// candidates by appending onto this value, so two keys that merely share
// a last path component must not share this string.
func (k *KeyObject) ObjectName() string { return k.Path }

// MarkedForDelete reports the tombstone bit under k's own lock.
func (k *KeyObject) MarkedForDelete() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Flags&FlagMarkedForDelete != 0
}

// SetMarkedForDelete sets the tombstone bit (DeleteKey's only state change
// besides reference accounting).
func (k *KeyObject) SetMarkedForDelete() {
	k.mu.Lock()
	k.Flags |= FlagMarkedForDelete
	k.mu.Unlock()
}

// LastWriteTime returns the underlying key cell's last-write timestamp.
func (k *KeyObject) LastWriteTime() (time.Time, error) {
	kc, err := k.Hive.GetKey(k.Cell)
	if err != nil {
		return time.Time{}, err
	}
	return kc.LastWriteTime, nil
}

// keyObjectListNode is one intrusive-list link in the process-wide
// key object list. Grounded on the doubly-linked traversal idiom used for
// ordered hash-table entries elsewhere, adapted to object identity.
type keyObjectListNode struct {
	prev, next *keyObjectListNode
	obj        *KeyObject
}

// keyObjectList is the process-wide list of live key objects, mutated only
// under the registry lock.
type keyObjectList struct {
	head, tail *keyObjectListNode
	count      int
}

func (l *keyObjectList) insert(obj *KeyObject) {
	n := &keyObjectListNode{obj: obj}
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		n.prev = l.tail
		l.tail.next = n
		l.tail = n
	}
	l.count++
	obj.list = l
	obj.elem = n
}

func (l *keyObjectList) remove(obj *KeyObject) {
	n := obj.elem
	if n == nil {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	l.count--
	obj.list = nil
	obj.elem = nil
}

func (l *keyObjectList) all() []*KeyObject {
	out := make([]*KeyObject, 0, l.count)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.obj)
	}
	return out
}
