package hive

import (
	"fmt"
	"hash/fnv"
)

// subkeyEntry is one (name_hash, subkey_cell_offset) pair, a hash-table
// cell entry. Grounded on the hive/lf.go/lh.go ordered entry layout; the
// four on-disk variants (LF/LH/LI/RI) all serve the same in-memory role
// here, since the wire signature byte that distinguishes them doesn't
// exist in a struct arena.
type subkeyEntry struct {
	Hash  uint32
	Child CellIndex
}

// subkeyListCell is the hash-table cell a KeyCell.SubkeyLists[class] names.
type subkeyListCell struct {
	Entries []subkeyEntry
}

func (*subkeyListCell) isCellPayload() {}

// valueListCell is the CHILD_LIST cell a KeyCell.ValueList names: an
// ordered array of value-cell offsets.
type valueListCell struct {
	Entries []CellIndex
}

func (*valueListCell) isCellPayload() {}

// nameHash computes the ordering hash stored alongside each subkey
// reference. Windows hashes the upper-cased name; the exact algorithm is
// not load-bearing for correctness here since no lookup consults it
// (values are found by ScanKeyForValue's case-insensitive name compare,
// subkeys by index via GetKeyFromHashByIndex), but the field is part of
// the cell's on-disk shape.
func nameHash(name string) uint32 {
	h := fnv.New32a()
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		_, _ = h.Write([]byte{c})
	}
	return h.Sum32()
}

// getSubkeyList resolves a KeyCell's subkey list for the given storage
// class, returning (nil, nil) if the key simply has no subkeys in that
// class yet (as opposed to a resolution error).
func (h *Hive) getSubkeyList(k *KeyCell, class StorageClass) (*subkeyListCell, error) {
	off := k.SubkeyLists[class]
	if off == NullCell {
		return nil, nil
	}
	c, err := h.Store.get(off)
	if err != nil {
		return nil, err
	}
	list, ok := c.payload.(*subkeyListCell)
	if !ok {
		return nil, errWrongPayload(off, "subkey list")
	}
	return list, nil
}

// getValueList resolves a KeyCell's value list, returning (nil, nil) when
// the key has no values.
func (h *Hive) getValueList(k *KeyCell) (*valueListCell, error) {
	if k.ValueList == NullCell {
		return nil, nil
	}
	c, err := h.Store.get(k.ValueList)
	if err != nil {
		return nil, err
	}
	list, ok := c.payload.(*valueListCell)
	if !ok {
		return nil, errWrongPayload(k.ValueList, "value list")
	}
	return list, nil
}

func errWrongPayload(idx CellIndex, want string) error {
	return &wrongCellKindError{idx: idx, want: want}
}

// ListSubkeys returns keyCell's subkey cell indices for the given storage
// class, in list order, for callers outside this package that need to
// enumerate or measure them (NtQueryKey's KeyFullInformation aggregate
// fields, NtEnumerateKey).
func (h *Hive) ListSubkeys(keyCell CellIndex, class StorageClass) ([]CellIndex, error) {
	k, err := h.GetKey(keyCell)
	if err != nil {
		return nil, err
	}
	list, err := h.getSubkeyList(k, class)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	out := make([]CellIndex, len(list.Entries))
	for i, e := range list.Entries {
		out[i] = e.Child
	}
	return out, nil
}

// ListValues returns keyCell's value cell indices in list order.
func (h *Hive) ListValues(keyCell CellIndex) ([]CellIndex, error) {
	k, err := h.GetKey(keyCell)
	if err != nil {
		return nil, err
	}
	list, err := h.getValueList(k)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	return append([]CellIndex(nil), list.Entries...), nil
}

// GetValueFromListByIndex returns the i-th value cell under keyCell, the
// value-list counterpart to GetKeyFromHashByIndex, backing
// NtEnumerateValueKey.
func (h *Hive) GetValueFromListByIndex(keyCell CellIndex, i int) (CellIndex, error) {
	entries, err := h.ListValues(keyCell)
	if err != nil {
		return NullCell, err
	}
	if i < 0 || i >= len(entries) {
		return NullCell, fmt.Errorf("hive: value index %d out of range (have %d)", i, len(entries))
	}
	return entries[i], nil
}

// ClassData resolves a KeyCell's class-name bytes given its
// ClassNameOffset/ClassSize fields, returning nil when there is no class.
func (h *Hive) ClassData(offset CellIndex, size uint32) ([]byte, error) {
	if offset == NullCell || size == 0 {
		return nil, nil
	}
	c, err := h.Store.get(offset)
	if err != nil {
		return nil, err
	}
	blob, ok := c.payload.(classCellPayload)
	if !ok {
		return nil, errWrongPayload(offset, "class")
	}
	if size > uint32(len(blob)) {
		size = uint32(len(blob))
	}
	return append([]byte(nil), blob[:size]...), nil
}
