package cm

import (
	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

// EnumerateKey implements NtEnumerateKey: resolve the index-th subkey of
// ko (stable entries enumerated before volatile ones, the two counters
// concatenated for enumeration purposes) and marshal it through
// infoClass, using the shared buffer-sizing discipline.
func (rc *RegistryContext) EnumerateKey(ko *KeyObject, index uint32, infoClass KeyInformationClass, bufLen int) ([]byte, int, error) {
	if err := rc.callbacks.Invoke(RegNtPreEnumerateKey, &PreEnumerateKeyInfo{Object: ko, Index: index}); err != nil {
		rc.callbacks.Invoke(RegNtPostEnumerateKey, &PostOperationInfo{Object: ko, Status: err})
		return nil, 0, err
	}

	rc.lock.RLock()
	out, resultLen, status := rc.enumerateKeyLocked(ko, index, infoClass, bufLen)
	rc.lock.RUnlock()

	rc.callbacks.Invoke(RegNtPostEnumerateKey, &PostOperationInfo{Object: ko, Status: status})
	return out, resultLen, status
}

func (rc *RegistryContext) enumerateKeyLocked(ko *KeyObject, index uint32, infoClass KeyInformationClass, bufLen int) ([]byte, int, error) {
	kc, err := ko.Hive.GetKey(ko.Cell)
	if err != nil {
		return nil, 0, err
	}
	if index >= kc.TotalSubkeys() {
		return nil, 0, ntstatus.NoMoreEntries
	}

	class := hive.Stable
	baseIndex := int(index)
	if baseIndex >= int(kc.SubkeyCounts[hive.Stable]) {
		class = hive.Volatile
		baseIndex -= int(kc.SubkeyCounts[hive.Stable])
	}

	list := kc.SubkeyLists[class]
	childIdx, err := ko.Hive.GetKeyFromHashByIndex(list, baseIndex)
	if err != nil {
		return nil, 0, err
	}
	child, err := ko.Hive.GetKey(childIdx)
	if err != nil {
		return nil, 0, err
	}

	switch infoClass {
	case KeyBasicInformation:
		header, variable := encodeKeyBasic(child.LastWriteTime, 0, child.Name)
		return sizeAndFill(header, variable, bufLen)
	case KeyNodeInformation:
		classData, err := ko.Hive.ClassData(child.ClassNameOffset, child.ClassSize)
		if err != nil {
			return nil, 0, err
		}
		header, variable := encodeKeyNode(child.LastWriteTime, 0, child.Name, classData)
		return sizeAndFill(header, variable, bufLen)
	case KeyFullInformation:
		classData, err := ko.Hive.ClassData(child.ClassNameOffset, child.ClassSize)
		if err != nil {
			return nil, 0, err
		}
		// Aggregate fields describe the operand key ko, not the
		// enumerated child.
		counts, err := computeKeyFullCounts(ko.Hive, ko.Cell)
		if err != nil {
			return nil, 0, err
		}
		header, variable := encodeKeyFull(child.LastWriteTime, 0, classData, counts)
		return sizeAndFill(header, variable, bufLen)
	default:
		return nil, 0, ntstatus.InvalidParameter
	}
}

// EnumerateValueKey implements NtEnumerateValueKey, the value-list
// counterpart to EnumerateKey. Values have no stable/volatile split
// (only key cells carry a storage class), so index walks the value list
// directly.
func (rc *RegistryContext) EnumerateValueKey(ko *KeyObject, index uint32, infoClass KeyValueInformationClass, bufLen int) ([]byte, int, error) {
	if err := rc.callbacks.Invoke(RegNtPreEnumerateValueKey, &PreEnumerateValueKeyInfo{Object: ko, Index: index}); err != nil {
		rc.callbacks.Invoke(RegNtPostEnumerateValueKey, &PostOperationInfo{Object: ko, Status: err})
		return nil, 0, err
	}

	rc.lock.RLock()
	out, resultLen, status := rc.enumerateValueKeyLocked(ko, index, infoClass, bufLen)
	rc.lock.RUnlock()

	rc.callbacks.Invoke(RegNtPostEnumerateValueKey, &PostOperationInfo{Object: ko, Status: status})
	return out, resultLen, status
}

func (rc *RegistryContext) enumerateValueKeyLocked(ko *KeyObject, index uint32, infoClass KeyValueInformationClass, bufLen int) ([]byte, int, error) {
	vIdx, err := ko.Hive.GetValueFromListByIndex(ko.Cell, int(index))
	if err != nil {
		return nil, 0, ntstatus.NoMoreEntries
	}
	v, err := ko.Hive.GetValue(vIdx)
	if err != nil {
		return nil, 0, err
	}
	data, err := ko.Hive.ValueData(v)
	if err != nil {
		return nil, 0, err
	}

	switch infoClass {
	case KeyValueBasicInformation:
		header, variable := encodeKeyValueBasic(0, uint32(v.Type), v.Name)
		return sizeAndFill(header, variable, bufLen)
	case KeyValuePartialInformation:
		header, variable := encodeKeyValuePartial(0, uint32(v.Type), data)
		return sizeAndFill(header, variable, bufLen)
	case KeyValueFullInformation:
		header, variable := encodeKeyValueFull(0, uint32(v.Type), v.Name, data)
		return sizeAndFill(header, variable, bufLen)
	default:
		return nil, 0, ntstatus.InvalidParameter
	}
}
