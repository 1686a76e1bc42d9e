package cm

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cmkernel/cmreg/ntstatus"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// KeyInformationClass selects QueryKey's output layout.
type KeyInformationClass int

const (
	KeyBasicInformation KeyInformationClass = iota
	KeyNodeInformation
	KeyFullInformation
)

// KeyValueInformationClass selects QueryValueKey/EnumerateValueKey's
// output layout.
type KeyValueInformationClass int

const (
	KeyValueBasicInformation KeyValueInformationClass = iota
	KeyValuePartialInformation
	KeyValueFullInformation
)

// Fixed header sizes, in bytes, of each information-class struct up to its
// first variable-length member, this package's FIELD_OFFSET(..., Name[0])
// equivalent. Grounded on the public Windows KEY_*_INFORMATION layouts
// ntfunc.c marshals into.
const (
	keyBasicHeaderSize = 16 // LastWriteTime(8) + TitleIndex(4) + NameLength(4)
	keyNodeHeaderSize  = 24 // + ClassOffset(4) + ClassLength(4)
	keyFullHeaderSize  = 44 // LastWriteTime..MaxValueDataLen, no trailing name

	keyValueBasicHeaderSize   = 12 // TitleIndex(4) + Type(4) + NameLength(4)
	keyValuePartialHeaderSize = 12 // TitleIndex(4) + Type(4) + DataLength(4)
	keyValueFullHeaderSize    = 20 // + DataOffset(4) + NameLength(4)

	keyWriteTimeInfoSize = 8 // LastWriteTime only, no variable part
)

// Exported aliases of the header-size constants above, for callers outside
// this package (cmd/regctl) that need to split a returned buffer into its
// fixed and variable parts without duplicating the layout knowledge.
const (
	KeyBasicHeaderSize        = keyBasicHeaderSize
	KeyNodeHeaderSize         = keyNodeHeaderSize
	KeyFullHeaderSize         = keyFullHeaderSize
	KeyValueBasicHeaderSize   = keyValueBasicHeaderSize
	KeyValuePartialHeaderSize = keyValuePartialHeaderSize
	KeyValueFullHeaderSize    = keyValueFullHeaderSize
)

// pointerAlign is sizeof(pointer) on the reference 64-bit target, used by
// KeyValueFullInformation's DataOffset rounding. It is the only
// information class that rounds DataOffset up to pointer alignment.
const pointerAlign = 8

// roundUp rounds n up to the next multiple of align.
func roundUp(n, align int) int {
	if align <= 0 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// utf16Bytes encodes name as UTF-16LE code units (without a trailing NUL),
// matching the WCHAR Name[] convention these info structs carry.
func utf16Bytes(name string) []byte {
	raw, _, err := transform.Bytes(utf16le.NewEncoder(), []byte(name))
	if err != nil {
		return []byte(name)
	}
	return raw
}

// filetimeBytes packs a Go time as a Windows-style 64-bit tick count; the
// exact epoch offset is immaterial here since every comparison this
// package performs is Go-side monotonic ordering, not wall-clock epoch
// compatibility with a live Windows system.
func filetimeBytes(ticks int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(ticks))
	return b
}

func putU32(dst []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(dst[off:off+4], v)
}

// sizeAndFill implements the shared buffer-sizing discipline for every
// information-class query: BufferTooSmall iff
// bufLen is less than the fixed header size; otherwise the header is
// always written in full, and the variable payload is copied up to
// whatever room remains, with BufferOverflow returned (and *resultLen set
// to the full required size) when it doesn't all fit.
func sizeAndFill(header, variable []byte, bufLen int) (out []byte, resultLen int, err error) {
	required := len(header) + len(variable)
	if bufLen < len(header) {
		return nil, required, ntstatus.BufferTooSmall
	}
	if bufLen >= required {
		out = make([]byte, required)
		copy(out, header)
		copy(out[len(header):], variable)
		return out, required, nil
	}
	remain := bufLen - len(header)
	out = make([]byte, len(header)+remain)
	copy(out, header)
	copy(out[len(header):], variable[:remain])
	return out, required, ntstatus.BufferOverflow
}
