package cm

import (
	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

// LoadKey implements NtLoadKey: read a hive from filePath and mount its
// root as a new key object named name under parent. Unlike CreateKey, the
// new KeyObject's Hive differs from parent's, making it a mount point.
func (rc *RegistryContext) LoadKey(parent *KeyObject, name string, filePath string) (*KeyObject, error) {
	if err := rc.callbacks.Invoke(RegNtPreLoadKey, &PreLoadKeyInfo{TargetPath: filePath}); err != nil {
		rc.callbacks.Invoke(RegNtPostLoadKey, &PostOperationInfo{Status: err})
		return nil, err
	}

	rc.lock.Lock()
	ko, status := rc.loadKeyLocked(parent, name, filePath)
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostLoadKey, &PostOperationInfo{Object: ko, Status: status})
	return ko, status
}

func (rc *RegistryContext) loadKeyLocked(parent *KeyObject, name string, filePath string) (*KeyObject, error) {
	h, err := hive.Load(filePath)
	if err != nil {
		return nil, err
	}

	path := name
	if parent != nil {
		path = parent.Path + `\` + name
	}
	ko := &KeyObject{Hive: h, Cell: h.Root, Name: name, Path: path, ParentKey: parent}
	handle := rc.ob.CreateObject(ko)
	ko.Handle = handle

	if err := rc.ob.InsertObject(handle, path); err != nil {
		return nil, err
	}
	rc.keyObjs.insert(ko)
	rc.hives[path] = h
	return ko, nil
}

// LoadKey2 is NtLoadKey2: LoadKey plus REG_NO_LAZY_FLUSH-style load
// flags. This module has no lazy-flush path to suppress (SyncHives is
// always explicit); when noLazyFlush is set, the freshly mounted hive is
// flushed once right after loading, and that flush's error is ignored.
func (rc *RegistryContext) LoadKey2(parent *KeyObject, name string, filePath string, noLazyFlush bool) (*KeyObject, error) {
	ko, err := rc.LoadKey(parent, name, filePath)
	if err != nil || !noLazyFlush {
		return ko, err
	}
	_ = ko.Hive.Flush()
	return ko, nil
}

// UnloadKey implements NtUnloadKey: drop the mount-point object's
// reference and forget the hive so SyncHives no longer reaches it. Actual
// teardown runs once the refcount drains, handled by objmgr itself.
func (rc *RegistryContext) UnloadKey(ko *KeyObject) error {
	rc.lock.Lock()
	defer rc.lock.Unlock()

	delete(rc.hives, ko.Path)

	if _, err := rc.ob.DereferenceObject(ko.Handle); err != nil {
		return ntstatus.InvalidHandle
	}
	return nil
}

// SaveKey implements NtSaveKey: deep-copy ko's subtree (excluding volatile
// cells, per hive.CopyKey) into a fresh no-file hive and persist it to
// destPath. SaveKey carries no notify class of its own, so this runs
// without callback instrumentation.
func (rc *RegistryContext) SaveKey(ko *KeyObject, destPath string) error {
	rc.lock.RLock()
	defer rc.lock.RUnlock()
	return rc.saveKeyLocked(ko, destPath)
}

func (rc *RegistryContext) saveKeyLocked(ko *KeyObject, destPath string) error {
	kc, err := ko.Hive.GetKey(ko.Cell)
	if err != nil {
		return err
	}
	if kc.Flags&hive.FlagVolatileCell != 0 {
		return ntstatus.AccessDenied
	}
	temp := hive.New(kc.Name, hive.FlagNoFile)
	if _, err := hive.CopyKey(temp, hive.NullCell, ko.Hive, ko.Cell); err != nil {
		return err
	}
	return temp.Save(destPath)
}
