package cm

import (
	"time"

	"github.com/cmkernel/cmreg/hive"
)

func timeTicks(t time.Time) int64 { return t.UnixNano() / 100 }

// encodeKeyBasic builds KEY_BASIC_INFORMATION's fixed header and variable
// Name payload.
func encodeKeyBasic(lastWrite time.Time, titleIndex uint32, name string) (header, variable []byte) {
	nameBytes := utf16Bytes(name)
	header = make([]byte, keyBasicHeaderSize)
	copy(header[0:8], filetimeBytes(timeTicks(lastWrite)))
	putU32(header, 8, titleIndex)
	putU32(header, 12, uint32(len(nameBytes)))
	return header, nameBytes
}

// encodeKeyNode builds KEY_NODE_INFORMATION's fixed header plus the
// Name-then-Class variable payload: the class payload starts at
// sizeof(info_header) + name_bytes.
func encodeKeyNode(lastWrite time.Time, titleIndex uint32, name string, class []byte) (header, variable []byte) {
	nameBytes := utf16Bytes(name)
	classOffset := uint32(keyNodeHeaderSize + len(nameBytes))

	header = make([]byte, keyNodeHeaderSize)
	copy(header[0:8], filetimeBytes(timeTicks(lastWrite)))
	putU32(header, 8, titleIndex)
	putU32(header, 12, classOffset)
	putU32(header, 16, uint32(len(class)))
	putU32(header, 20, uint32(len(nameBytes)))

	variable = make([]byte, len(nameBytes)+len(class))
	copy(variable, nameBytes)
	copy(variable[len(nameBytes):], class)
	return header, variable
}

// keyFullCounts bundles KeyFullInformation's aggregate fields, all of
// which describe the key under the handle rather than an enumerated
// child.
type keyFullCounts struct {
	SubKeys         uint32
	MaxNameLen      uint32
	MaxClassLen     uint32
	Values          uint32
	MaxValueNameLen uint32
	MaxValueDataLen uint32
}

// encodeKeyFull builds KEY_FULL_INFORMATION's fixed header plus the Class
// variable payload.
func encodeKeyFull(lastWrite time.Time, titleIndex uint32, class []byte, counts keyFullCounts) (header, variable []byte) {
	header = make([]byte, keyFullHeaderSize)
	copy(header[0:8], filetimeBytes(timeTicks(lastWrite)))
	putU32(header, 8, titleIndex)
	putU32(header, 12, keyFullHeaderSize) // ClassOffset: class follows the header directly
	putU32(header, 16, uint32(len(class)))
	putU32(header, 20, counts.SubKeys)
	putU32(header, 24, counts.MaxNameLen)
	putU32(header, 28, counts.MaxClassLen)
	putU32(header, 32, counts.Values)
	putU32(header, 36, counts.MaxValueNameLen)
	putU32(header, 40, counts.MaxValueDataLen)
	return header, class
}

// encodeKeyValueBasic builds KEY_VALUE_BASIC_INFORMATION.
func encodeKeyValueBasic(titleIndex uint32, typ uint32, name string) (header, variable []byte) {
	nameBytes := utf16Bytes(name)
	header = make([]byte, keyValueBasicHeaderSize)
	putU32(header, 0, titleIndex)
	putU32(header, 4, typ)
	putU32(header, 8, uint32(len(nameBytes)))
	return header, nameBytes
}

// encodeKeyValuePartial builds KEY_VALUE_PARTIAL_INFORMATION.
func encodeKeyValuePartial(titleIndex uint32, typ uint32, data []byte) (header, variable []byte) {
	header = make([]byte, keyValuePartialHeaderSize)
	putU32(header, 0, titleIndex)
	putU32(header, 4, typ)
	putU32(header, 8, uint32(len(data)))
	return header, data
}

// encodeKeyValueFull builds KEY_VALUE_FULL_INFORMATION. DataOffset is the
// only offset field in this package's information classes rounded up to
// pointer alignment.
func encodeKeyValueFull(titleIndex uint32, typ uint32, name string, data []byte) (header, variable []byte) {
	nameBytes := utf16Bytes(name)
	dataOffset := roundUp(keyValueFullHeaderSize+len(nameBytes), pointerAlign)
	padding := dataOffset - (keyValueFullHeaderSize + len(nameBytes))

	header = make([]byte, keyValueFullHeaderSize)
	putU32(header, 0, titleIndex)
	putU32(header, 4, typ)
	putU32(header, 8, uint32(dataOffset))
	putU32(header, 12, uint32(len(data)))
	putU32(header, 16, uint32(len(nameBytes)))

	variable = make([]byte, len(nameBytes)+padding+len(data))
	copy(variable, nameBytes)
	copy(variable[len(nameBytes)+padding:], data)
	return header, variable
}

// encodeKeyWriteTime builds KEY_WRITE_TIME_INFORMATION (no variable part).
func encodeKeyWriteTime(lastWrite time.Time) []byte {
	return filetimeBytes(timeTicks(lastWrite))
}

// computeKeyFullCounts walks keyIdx's immediate subkeys and values to fill
// KEY_FULL_INFORMATION's aggregate fields: MaxNameLen/MaxClassLen describe
// keyIdx's children, MaxValueNameLen/MaxValueDataLen its own values.
func computeKeyFullCounts(h *hive.Hive, keyIdx hive.CellIndex) (keyFullCounts, error) {
	kc, err := h.GetKey(keyIdx)
	if err != nil {
		return keyFullCounts{}, err
	}

	var counts keyFullCounts
	counts.SubKeys = kc.TotalSubkeys()
	counts.Values = kc.ValueCount

	for _, class := range [2]hive.StorageClass{hive.Stable, hive.Volatile} {
		children, err := h.ListSubkeys(keyIdx, class)
		if err != nil {
			return counts, err
		}
		for _, childIdx := range children {
			child, err := h.GetKey(childIdx)
			if err != nil {
				return counts, err
			}
			if n := uint32(len(utf16Bytes(child.Name))); n > counts.MaxNameLen {
				counts.MaxNameLen = n
			}
			if child.ClassSize > counts.MaxClassLen {
				counts.MaxClassLen = child.ClassSize
			}
		}
	}

	valueIdxs, err := h.ListValues(keyIdx)
	if err != nil {
		return counts, err
	}
	for _, vIdx := range valueIdxs {
		v, err := h.GetValue(vIdx)
		if err != nil {
			return counts, err
		}
		if n := uint32(len(utf16Bytes(v.Name))); n > counts.MaxValueNameLen {
			counts.MaxValueNameLen = n
		}
		if v.Size > counts.MaxValueDataLen {
			counts.MaxValueDataLen = v.Size
		}
	}

	return counts, nil
}
