package cm

import "github.com/cmkernel/cmreg/ntstatus"

// DeleteKey marks ko for deletion once it has no subkeys, replicating
// ntfunc.c::NtDeleteKey's reference accounting exactly rather than
// "fixing" it: the object is dereferenced twice unconditionally (the
// core's keep-alive reference, then the final reference this call itself
// held), plus once more when ko is a mount point (its hive differs from
// its parent's), to drop the extra mount-point reference.
//
// Actual cell teardown happens in the object-manager's finalizer once the
// refcount drains, not here.
func (rc *RegistryContext) DeleteKey(ko *KeyObject) error {
	if err := rc.callbacks.Invoke(RegNtPreDeleteKey, &PreDeleteKeyInfo{Object: ko}); err != nil {
		rc.callbacks.Invoke(RegNtPostDeleteKey, &PostOperationInfo{Object: ko, Status: err})
		return err
	}

	rc.lock.Lock()
	status := rc.deleteKeyLocked(ko)
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostDeleteKey, &PostOperationInfo{Object: ko, Status: status})
	_, _ = rc.ob.DereferenceObject(ko.Handle) // final dereference
	return status
}

func (rc *RegistryContext) deleteKeyLocked(ko *KeyObject) error {
	kc, err := ko.Hive.GetKey(ko.Cell)
	if err != nil {
		return err
	}
	if kc.TotalSubkeys() != 0 {
		return ntstatus.CannotDelete
	}

	ko.SetMarkedForDelete()
	_, _ = rc.ob.DereferenceObject(ko.Handle) // drop the core's keep-alive reference

	if ko.ParentKey != nil && ko.ParentKey.Hive != ko.Hive {
		_, _ = rc.ob.DereferenceObject(ko.Handle) // extra mount-point reference
	}
	return nil
}
