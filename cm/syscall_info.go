package cm

import (
	"encoding/binary"
	"time"

	"github.com/cmkernel/cmreg/ntstatus"
)

// QueryKey implements NtQueryKey: marshal ko itself (not an enumerated
// child) through infoClass.
func (rc *RegistryContext) QueryKey(ko *KeyObject, infoClass KeyInformationClass, bufLen int) ([]byte, int, error) {
	if err := rc.callbacks.Invoke(RegNtPreQueryKey, &PreQueryKeyInfo{Object: ko}); err != nil {
		rc.callbacks.Invoke(RegNtPostQueryKey, &PostOperationInfo{Object: ko, Status: err})
		return nil, 0, err
	}

	rc.lock.RLock()
	out, resultLen, status := rc.queryKeyLocked(ko, infoClass, bufLen)
	rc.lock.RUnlock()

	rc.callbacks.Invoke(RegNtPostQueryKey, &PostOperationInfo{Object: ko, Status: status})
	return out, resultLen, status
}

func (rc *RegistryContext) queryKeyLocked(ko *KeyObject, infoClass KeyInformationClass, bufLen int) ([]byte, int, error) {
	kc, err := ko.Hive.GetKey(ko.Cell)
	if err != nil {
		return nil, 0, err
	}

	switch infoClass {
	case KeyBasicInformation:
		header, variable := encodeKeyBasic(kc.LastWriteTime, 0, kc.Name)
		return sizeAndFill(header, variable, bufLen)
	case KeyNodeInformation:
		classData, err := ko.Hive.ClassData(kc.ClassNameOffset, kc.ClassSize)
		if err != nil {
			return nil, 0, err
		}
		header, variable := encodeKeyNode(kc.LastWriteTime, 0, kc.Name, classData)
		return sizeAndFill(header, variable, bufLen)
	case KeyFullInformation:
		classData, err := ko.Hive.ClassData(kc.ClassNameOffset, kc.ClassSize)
		if err != nil {
			return nil, 0, err
		}
		counts, err := computeKeyFullCounts(ko.Hive, ko.Cell)
		if err != nil {
			return nil, 0, err
		}
		header, variable := encodeKeyFull(kc.LastWriteTime, 0, classData, counts)
		return sizeAndFill(header, variable, bufLen)
	default:
		return nil, 0, ntstatus.NotImplemented
	}
}

// SetInformationKey implements NtSetInformationKey, which this module
// supports only for KeyWriteTimeInformation. The buffer-size check is a
// hard failure, but once the size is right the underlying
// hive.SetKeyWriteTime error is swallowed and SUCCESS is always returned;
// the inner status is not surfaced.
func (rc *RegistryContext) SetInformationKey(ko *KeyObject, data []byte) error {
	if err := rc.callbacks.Invoke(RegNtPreSetInformationKey, &PreSetInformationKeyInfo{Object: ko}); err != nil {
		rc.callbacks.Invoke(RegNtPostSetInformationKey, &PostOperationInfo{Object: ko, Status: err})
		return err
	}

	if len(data) != keyWriteTimeInfoSize {
		err := ntstatus.InvalidParameter
		rc.callbacks.Invoke(RegNtPostSetInformationKey, &PostOperationInfo{Object: ko, Status: err})
		return err
	}

	ticks := int64(binary.LittleEndian.Uint64(data))
	t := time.Unix(0, ticks*100)

	rc.lock.Lock()
	_ = ko.Hive.SetKeyWriteTime(ko.Cell, t)
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostSetInformationKey, &PostOperationInfo{Object: ko, Status: nil})
	rc.SyncHives()
	return nil
}
