package cm

// FlushKey implements NtFlushKey. Its underlying hive.Flush error is
// deliberately not surfaced: FlushKey always returns SUCCESS regardless
// of the underlying flush outcome. SyncHives ignores flush errors as well;
// only calling hive.Flush directly reports a failed flush.
func (rc *RegistryContext) FlushKey(ko *KeyObject) error {
	if err := rc.callbacks.Invoke(RegNtPreFlushKey, &PreFlushKeyInfo{Object: ko}); err != nil {
		rc.callbacks.Invoke(RegNtPostFlushKey, &PostOperationInfo{Object: ko, Status: err})
		return err
	}

	rc.lock.Lock()
	_ = ko.Hive.Flush()
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostFlushKey, &PostOperationInfo{Object: ko, Status: nil})
	return nil
}
