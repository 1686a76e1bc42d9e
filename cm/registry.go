// Package cm implements the key-object layer, syscall dispatcher, callback
// registry, and init/sync logic that mediate the public registry syscall
// surface over the hive package's cell operations.
package cm

import (
	"sync"
	"sync/atomic"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
	"github.com/cmkernel/cmreg/objmgr"
)

// RegistryContext is the process-wide singleton: the registry lock, the
// callback list and its own lock, the key object list, and the
// registry-initialized one-shot, bundled into a value constructed once by
// NewRegistryContext and passed by reference rather than kept as package
// globals.
type RegistryContext struct {
	// lock is the registry lock: RLock for reads, Lock for mutations.
	lock sync.RWMutex

	ob        *objmgr.Manager
	callbacks *CallbackRegistry
	keyObjs   *keyObjectList

	hives map[string]*hive.Hive // mounted root hives, keyed by mount path

	initialized atomic.Bool
}

// NewRegistryContext constructs an un-initialized registry context.
func NewRegistryContext() *RegistryContext {
	return &RegistryContext{
		ob:        objmgr.New(),
		callbacks: newCallbackRegistry(),
		keyObjs:   &keyObjectList{},
		hives:     make(map[string]*hive.Hive),
	}
}

// InitializeRegistry is the one-shot boot-time entry point. Calls after
// the first return ACCESS_DENIED.
func (rc *RegistryContext) InitializeRegistry(setupBootFlag bool) error {
	if !rc.initialized.CompareAndSwap(false, true) {
		return ntstatus.AccessDenied
	}
	// InitHives(setup_boot_flag) and the boot-log save are external
	// collaborators out of scope here; nothing further to do once the
	// one-shot guard has flipped.
	_ = setupBootFlag
	return nil
}

// MountHive publishes h's root key under path in the object namespace and
// registers it for SyncHives, so CreateKey/OpenKey can resolve paths
// beneath it. This is the bootstrap operation a real boot sequence would
// perform via InitHives, standing in for hive loading as an external
// collaborator.
func (rc *RegistryContext) MountHive(path string, h *hive.Hive) (*KeyObject, error) {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	root, err := h.GetKey(h.Root)
	if err != nil {
		return nil, err
	}
	ko := &KeyObject{Hive: h, Cell: h.Root, Name: root.Name, Path: path}
	handle := rc.ob.CreateObject(ko)
	ko.Handle = handle
	if err := rc.ob.InsertObject(handle, path); err != nil {
		return nil, err
	}
	rc.keyObjs.insert(ko)
	rc.hives[path] = h
	return ko, nil
}

// SyncHives flushes every mounted hive's dirty stable cells. Failures are
// swallowed; flush is best-effort.
func (rc *RegistryContext) SyncHives() {
	rc.lock.RLock()
	hives := make([]*hive.Hive, 0, len(rc.hives))
	for _, h := range rc.hives {
		hives = append(hives, h)
	}
	rc.lock.RUnlock()

	for _, h := range hives {
		_ = h.Flush()
	}
}

// RegisterCallback installs fn at every notify point and returns its
// cookie (CmRegisterCallback).
func (rc *RegistryContext) RegisterCallback(fn CallbackFunc, context any) Cookie {
	return rc.callbacks.Register(fn, context)
}

// UnregisterCallback removes a previously registered callback
// (CmUnRegisterCallback).
func (rc *RegistryContext) UnregisterCallback(cookie Cookie) error {
	return rc.callbacks.Unregister(cookie)
}
