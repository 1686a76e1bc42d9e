package hive

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf16le is the codec used for names that don't fit the packed (one byte
// per character) representation. Grounded on NK.IsCompressedName()/Name(),
// which only ever hands back raw bytes; here we perform the actual
// transcode the CopyPackedName operation implies, using golang.org/x/text
// rather than hand-rolling UTF-16.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeName chooses the packed or UTF-16LE representation for name and
// returns its raw bytes plus whether packed encoding was used.
//
// A name packs iff every rune fits in a single ISO-8859-1 byte (matching
// Windows' own "compressed name" criterion), mirroring NK.IsCompressedName().
func EncodeName(name string) (raw []byte, packed bool) {
	packed = true
	for _, r := range name {
		if r > 0xFF {
			packed = false
			break
		}
	}
	if packed {
		raw = make([]byte, len(name))
		i := 0
		for _, r := range name {
			raw[i] = byte(r)
			i++
		}
		return raw, true
	}
	raw, _, err := transform.Bytes(utf16le.NewEncoder(), []byte(name))
	if err != nil {
		// name is valid UTF-8 by construction (it's a Go string); encoding
		// to UTF-16LE cannot fail in practice, but fall back to packed
		// truncation rather than losing data silently.
		raw = []byte(name)
		return raw, true
	}
	return raw, false
}

// DecodeName reverses EncodeName given the raw bytes and the packed flag
// stored alongside them on the key or value cell.
func DecodeName(raw []byte, packed bool) string {
	if packed {
		return CopyPackedName(raw)
	}
	out, _, err := transform.Bytes(utf16le.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// CopyPackedName expands a packed (one byte per character) name into a Go
// string, widening each byte to its ISO-8859-1 rune: the
// CopyPackedName(dst_utf16, src_bytes, n_chars) operation, expressed here
// as a byte-to-rune widen rather than a raw UTF-16 buffer fill since this
// package stores names as Go strings rather than UTF-16 code unit arrays.
func CopyPackedName(src []byte) string {
	runes := make([]rune, len(src))
	for i, b := range src {
		runes[i] = rune(b)
	}
	return string(runes)
}
