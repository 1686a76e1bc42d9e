package cm

import (
	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

// QueryValueKey implements NtQueryValueKey: scan ko's value list for name
// and marshal the result through infoClass using the shared
// buffer-sizing discipline.
func (rc *RegistryContext) QueryValueKey(ko *KeyObject, name string, infoClass KeyValueInformationClass, bufLen int) ([]byte, int, error) {
	if err := rc.callbacks.Invoke(RegNtPreQueryValueKey, &PreQueryValueKeyInfo{Object: ko, ValueName: name}); err != nil {
		rc.callbacks.Invoke(RegNtPostQueryValueKey, &PostOperationInfo{Object: ko, Status: err})
		return nil, 0, err
	}

	rc.lock.RLock()
	out, resultLen, status := rc.queryValueKeyLocked(ko, name, infoClass, bufLen)
	rc.lock.RUnlock()

	rc.callbacks.Invoke(RegNtPostQueryValueKey, &PostOperationInfo{Object: ko, Status: status})
	return out, resultLen, status
}

func (rc *RegistryContext) queryValueKeyLocked(ko *KeyObject, name string, infoClass KeyValueInformationClass, bufLen int) ([]byte, int, error) {
	vIdx, found, err := ko.Hive.ScanKeyForValue(ko.Cell, name)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return nil, 0, ntstatus.ObjectNameNotFound
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

// SetValueKey implements NtSetValueKey: create-or-update the named value,
// delegating the inline/out-of-line transition and the REG_LINK
// "SymbolicLinkValue" special case to hive.SetValue (invariant 4/5).
func (rc *RegistryContext) SetValueKey(ko *KeyObject, name string, typ hive.RegType, data []byte) error {
	if err := rc.callbacks.Invoke(RegNtPreSetValueKey, &PreSetValueKeyInfo{Object: ko, ValueName: name}); err != nil {
		rc.callbacks.Invoke(RegNtPostSetValueKey, &PostOperationInfo{Object: ko, Status: err})
		return err
	}

	rc.lock.Lock()
	status := ko.Hive.SetValue(ko.Cell, name, typ, data)
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostSetValueKey, &PostOperationInfo{Object: ko, Status: status})
	if status == nil {
		rc.SyncHives()
	}
	return status
}

// DeleteValueKey implements NtDeleteValueKey.
func (rc *RegistryContext) DeleteValueKey(ko *KeyObject, name string) error {
	if err := rc.callbacks.Invoke(RegNtPreDeleteValueKey, &PreDeleteValueKeyInfo{Object: ko, ValueName: name}); err != nil {
		rc.callbacks.Invoke(RegNtPostDeleteValueKey, &PostOperationInfo{Object: ko, Status: err})
		return err
	}

	rc.lock.Lock()
	status := ko.Hive.DeleteValueFromKey(ko.Cell, name)
	rc.lock.Unlock()

	rc.callbacks.Invoke(RegNtPostDeleteValueKey, &PostOperationInfo{Object: ko, Status: status})
	if status == nil {
		rc.SyncHives()
	}
	return status
}

// multiValueEntryHeaderSize is Type(4)+DataLength(4)+DataOffset(4) per
// requested name; QueryMultipleValueKey does not echo the name back since
// the caller already supplied it.
const multiValueEntryHeaderSize = 12

// QueryMultipleValueKey implements NtQueryMultipleValueKey: resolve every
// name in names before sizing anything, so an unknown name always wins
// over a buffer-size failure, then pack a fixed per-entry header table
// followed by a pointer-aligned data region, reusing sizeAndFill for the
// overflow arithmetic.
func (rc *RegistryContext) QueryMultipleValueKey(ko *KeyObject, names []string, bufLen int) ([]byte, int, error) {
	if err := rc.callbacks.Invoke(RegNtPreQueryMultipleValueKey, &PreQueryMultipleValueKeyInfo{Object: ko}); err != nil {
		rc.callbacks.Invoke(RegNtPostQueryMultipleValueKey, &PostOperationInfo{Object: ko, Status: err})
		return nil, 0, err
	}

	rc.lock.RLock()
	out, resultLen, status := rc.queryMultipleValueKeyLocked(ko, names, bufLen)
	rc.lock.RUnlock()

	rc.callbacks.Invoke(RegNtPostQueryMultipleValueKey, &PostOperationInfo{Object: ko, Status: status})
	return out, resultLen, status
}

func (rc *RegistryContext) queryMultipleValueKeyLocked(ko *KeyObject, names []string, bufLen int) ([]byte, int, error) {
	type resolved struct {
		typ  hive.RegType
		data []byte
	}
	entries := make([]resolved, len(names))
	for i, name := range names {
		vIdx, found, err := ko.Hive.ScanKeyForValue(ko.Cell, name)
		if err != nil {
			return nil, 0, err
		}
		if !found {
			return nil, 0, ntstatus.ObjectNameNotFound
		}
		v, err := ko.Hive.GetValue(vIdx)
		if err != nil {
			return nil, 0, err
		}
		data, err := ko.Hive.ValueData(v)
		if err != nil {
			return nil, 0, err
		}
		entries[i] = resolved{typ: v.Type, data: data}
	}

	headerSize := len(entries) * multiValueEntryHeaderSize
	header := make([]byte, headerSize)

	dataStart := roundUp(headerSize, pointerAlign)
	variable := make([]byte, 0, dataStart-headerSize)
	for range make([]struct{}, dataStart-headerSize) {
		variable = append(variable, 0)
	}

	cursor := dataStart
	for i, e := range entries {
		off := i * multiValueEntryHeaderSize
		putU32(header, off, uint32(e.typ))
		putU32(header, off+4, uint32(len(e.data)))
		putU32(header, off+8, uint32(cursor))

		variable = append(variable, e.data...)
		cursor += len(e.data)
		padded := roundUp(cursor, pointerAlign)
		for ; cursor < padded; cursor++ {
			variable = append(variable, 0)
		}
	}

	out, resultLen, err := sizeAndFill(header, variable, bufLen)
	if err == ntstatus.BufferOverflow {
		// NtQueryMultipleValueKey reports an undersized buffer as
		// BUFFER_TOO_SMALL rather than the general BUFFER_OVERFLOW every
		// other information-class query uses.
		return nil, resultLen, ntstatus.BufferTooSmall
	}
	return out, resultLen, err
}
