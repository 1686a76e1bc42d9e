package cm

import (
	"strings"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
	"github.com/cmkernel/cmreg/objmgr"
)

// Disposition reports whether CreateKey opened an existing key or created
// a new one.
type Disposition int

const (
	DispositionOpenedExistingKey Disposition = iota
	DispositionCreatedNewKey
)

// CreateKey implements the five-phase skeleton over NtCreateKey (ntfunc.c):
// capture → pre-callback → (lock) namespace walk + AddSubKey (unlock) →
// post-callback → SyncHives. parent is the already-open KeyObject acting
// as RootDirectory, or nil to resolve name from the mounted namespace root.
func (rc *RegistryContext) CreateKey(parent *KeyObject, name string, options hive.CreateOptions, class []byte) (*KeyObject, Disposition, error) {
	if err := rc.callbacks.Invoke(RegNtPreCreateKey, &PreCreateKeyInfo{CompleteName: name}); err != nil {
		rc.callbacks.Invoke(RegNtPostCreateKey, &PostOperationInfo{Status: err})
		return nil, 0, err
	}

	rc.lock.Lock()
	result, disposition, err := rc.createKeyLocked(parent, name, options, class)
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostCreateKey, &PostOperationInfo{Object: result, Status: err})
	if err == nil {
		rc.SyncHives()
	}
	return result, disposition, err
}

func (rc *RegistryContext) createKeyLocked(parent *KeyObject, name string, options hive.CreateOptions, class []byte) (*KeyObject, Disposition, error) {
	var parentObj objmgr.Object
	if parent != nil {
		parentObj = parent
	}
	existing, remaining := rc.ob.FindObject(parentObj, name)

	if remaining == "" {
		ko, ok := existing.(*KeyObject)
		if !ok {
			return nil, 0, ntstatus.ObjectNameNotFound
		}
		if ko.MarkedForDelete() {
			return nil, 0, ntstatus.Unsuccessful
		}
		return ko, DispositionOpenedExistingKey, nil
	}

	// Edge policy: strip one leading and one trailing backslash; any
	// interior backslash rejects tree creation.
	trimmed := strings.TrimPrefix(remaining, `\`)
	trimmed = strings.TrimSuffix(trimmed, `\`)
	if strings.Contains(trimmed, `\`) || trimmed == "" {
		return nil, 0, ntstatus.ObjectNameNotFound
	}

	parentKO, ok := existing.(*KeyObject)
	if !ok {
		return nil, 0, ntstatus.ObjectNameNotFound
	}

	childCell, err := parentKO.Hive.AddSubKey(parentKO.Cell, trimmed, class, options)
	if err != nil {
		return nil, 0, err
	}

	path := parentKO.Path + `\` + trimmed
	ko := &KeyObject{
		Hive: parentKO.Hive,
		Cell: childCell,
		Name: trimmed,
		Path: path,
	}
	// ParentKey stays nil here: CreateKey always allocates within the
	// parent's own hive, so the parent is resolved through KeyCell.Parent
	// (intra-hive) rather than an owning reference. A distinct hive only
	// enters the tree via LoadKey, which sets ParentKey itself.

	handle := rc.ob.CreateObject(ko)
	ko.Handle = handle
	if err := rc.ob.InsertObject(handle, path); err != nil {
		parentKO.Hive.FreeCell(childCell)
		return nil, 0, err
	}
	rc.keyObjs.insert(ko)

	return ko, DispositionCreatedNewKey, nil
}

// OpenKey walks the namespace the same way CreateKey does but never
// creates: a non-empty remaining path is OBJECT_NAME_NOT_FOUND.
func (rc *RegistryContext) OpenKey(parent *KeyObject, name string) (*KeyObject, error) {
	if err := rc.callbacks.Invoke(RegNtPreOpenKey, &PreOpenKeyInfo{CompleteName: name}); err != nil {
		rc.callbacks.Invoke(RegNtPostOpenKey, &PostOperationInfo{Status: err})
		return nil, err
	}

	rc.lock.RLock()
	var parentObj objmgr.Object
	if parent != nil {
		parentObj = parent
	}
	existing, remaining := rc.ob.FindObject(parentObj, name)
	rc.lock.RUnlock()

	var result *KeyObject
	var err error
	if remaining != "" {
		err = ntstatus.ObjectNameNotFound
	} else if ko, ok := existing.(*KeyObject); !ok {
		err = ntstatus.ObjectNameNotFound
	} else if ko.MarkedForDelete() {
		err = ntstatus.Unsuccessful
	} else {
		result = ko
	}

	rc.callbacks.Invoke(RegNtPostOpenKey, &PostOperationInfo{Object: result, Status: err})
	return result, err
}
