package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cmkernel/cmreg/cm"
	"github.com/cmkernel/cmreg/hive"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUTF16 decodes the WCHAR Name[]/Data[] payload QueryKey/
// EnumerateKey/EnumerateValueKey return for names.
func decodeUTF16(b []byte) string {
	out, _, err := transform.Bytes(utf16le.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// openHive loads hivePath (creating an empty hive there if it doesn't yet
// exist) and mounts it as "Root" in a fresh RegistryContext, returning the
// context and the mounted root key object every command resolves paths
// against.
func openHive(hivePath string) (*cm.RegistryContext, *cm.KeyObject, error) {
	printVerbose("Opening hive: %s\n", hivePath)

	var h *hive.Hive
	if _, statErr := os.Stat(hivePath); os.IsNotExist(statErr) {
		h = hive.New("ROOT", 0)
		if err := h.Save(hivePath); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", hivePath, err)
		}
	} else {
		loaded, err := hive.Load(hivePath)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", hivePath, err)
		}
		h = loaded
	}

	rc := cm.NewRegistryContext()
	root, err := rc.MountHive("Root", h)
	if err != nil {
		return nil, nil, fmt.Errorf("mount %s: %w", hivePath, err)
	}
	return rc, root, nil
}

// resolveKey walks path (backslash-delimited, relative to root) one
// segment at a time via OpenKey, creating missing segments along the way
// when create is true.
func resolveKey(rc *cm.RegistryContext, root *cm.KeyObject, path string, create bool) (*cm.KeyObject, error) {
	return resolveKeyWithOptions(rc, root, path, create, hive.CreateOptions{})
}

// resolveKeyWithOptions is resolveKey, but the final path segment (if it
// needs creating) is created with leafOpts instead of the default options
// every intermediate segment uses.
func resolveKeyWithOptions(rc *cm.RegistryContext, root *cm.KeyObject, path string, create bool, leafOpts hive.CreateOptions) (*cm.KeyObject, error) {
	segments := strings.Split(strings.Trim(path, `\`), `\`)
	cur := root
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		opts := hive.CreateOptions{}
		if i == len(segments)-1 {
			opts = leafOpts
		}
		next, err := rc.OpenKey(cur, seg)
		if err != nil {
			if !create {
				return nil, err
			}
			next, _, err = rc.CreateKey(cur, seg, opts, nil)
			if err != nil {
				return nil, err
			}
		}
		cur = next
	}
	return cur, nil
}

// parseValueString converts a CLI-supplied string into a RegType/bytes
// pair, grounded on a ParseValueString switch over the same type-name
// vocabulary (sz/expand_sz/multi_sz/dword/qword/binary).
func parseValueString(valueStr, typeName string) (hive.RegType, []byte, error) {
	switch strings.ToLower(typeName) {
	case "sz", "":
		return hive.RegSZ, []byte(valueStr), nil
	case "expand_sz":
		return hive.RegExpandSZ, []byte(valueStr), nil
	case "multi_sz":
		parts := strings.Split(valueStr, ",")
		var b []byte
		for _, p := range parts {
			b = append(b, []byte(p)...)
			b = append(b, 0)
		}
		return hive.RegMultiSZ, b, nil
	case "link":
		return hive.RegLink, []byte(valueStr), nil
	case "dword":
		n, err := strconv.ParseUint(valueStr, 0, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("parse dword %q: %w", valueStr, err)
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(n))
		return hive.RegDword, b, nil
	case "qword":
		n, err := strconv.ParseUint(valueStr, 0, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("parse qword %q: %w", valueStr, err)
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, n)
		return hive.RegQword, b, nil
	case "binary":
		b, err := hex.DecodeString(valueStr)
		if err != nil {
			return 0, nil, fmt.Errorf("parse binary %q: %w", valueStr, err)
		}
		return hive.RegBinary, b, nil
	default:
		return 0, nil, fmt.Errorf("unknown value type %q", typeName)
	}
}

func regTypeFromU32(v uint32) hive.RegType { return hive.RegType(v) }

// formatValue renders data according to typ for display, falling back to
// hex for anything not a fixed-width integer or printable string.
func formatValue(typ hive.RegType, data []byte) string {
	switch typ {
	case hive.RegDword, hive.RegDwordBE:
		if len(data) == 4 {
			return fmt.Sprintf("%d", binary.LittleEndian.Uint32(data))
		}
	case hive.RegQword:
		if len(data) == 8 {
			return fmt.Sprintf("%d", binary.LittleEndian.Uint64(data))
		}
	case hive.RegSZ, hive.RegExpandSZ, hive.RegLink:
		return strings.TrimRight(string(data), "\x00")
	case hive.RegMultiSZ:
		return strings.Join(strings.FieldsFunc(string(data), func(r rune) bool { return r == 0 }), ", ")
	}
	return hex.EncodeToString(data)
}
