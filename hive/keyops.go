package hive

import (
	"fmt"
	"strings"
)

// CreateOptions mirrors the Windows CreateOptions bits relevant to key
// creation: volatile ⇔ REG_OPTION_VOLATILE.
type CreateOptions struct {
	Volatile bool
}

// AddSubKey allocates a child key cell under parent, links it into the
// parent's subkey hash table for the implied storage class, and inherits
// the parent's security cell. On any step's failure it rolls back every
// cell this call allocated.
//
// Grounded on ntfunc.c's NtCreateKey call into CmiAddSubKey (body not in
// the filtered source; behavior derived from the call-site contract).
func (h *Hive) AddSubKey(parent CellIndex, name string, class []byte, opts CreateOptions) (CellIndex, error) {
	parentCell, err := h.GetKey(parent)
	if err != nil {
		return NullCell, fmt.Errorf("hive: AddSubKey: resolve parent: %w", err)
	}

	storageClass := Stable
	childFlags := KeyFlags(0)
	if opts.Volatile {
		storageClass = Volatile
		childFlags |= FlagVolatileCell
	}

	var allocated []CellIndex
	rollback := func() {
		for _, idx := range allocated {
			h.Store.free(idx)
		}
	}

	child := newKeyCell(parent, name)
	child.Flags = childFlags
	child.SecurityKeyOffset = parentCell.SecurityKeyOffset

	if len(class) > 0 {
		classIdx := h.Store.alloc(storageClass, classCellPayload(append([]byte(nil), class...)))
		if classIdx == NullCell {
			return NullCell, insufficientResources("class cell")
		}
		allocated = append(allocated, classIdx)
		child.ClassNameOffset = classIdx
		child.ClassSize = uint32(len(class))
	} else {
		child.ClassNameOffset = NullCell
	}

	childIdx := h.Store.alloc(storageClass, child)
	if childIdx == NullCell {
		rollback()
		return NullCell, insufficientResources("key cell")
	}
	allocated = append(allocated, childIdx)

	list, err := h.getSubkeyList(parentCell, storageClass)
	if err != nil {
		rollback()
		return NullCell, fmt.Errorf("hive: AddSubKey: resolve subkey list: %w", err)
	}
	if list == nil {
		list = &subkeyListCell{}
		listIdx := h.Store.alloc(storageClass, list)
		if listIdx == NullCell {
			rollback()
			return NullCell, insufficientResources("subkey list cell")
		}
		allocated = append(allocated, listIdx)
		parentCell.SubkeyLists[storageClass] = listIdx
	}
	list.Entries = append(list.Entries, subkeyEntry{Hash: nameHash(name), Child: childIdx})
	parentCell.SubkeyCounts[storageClass]++

	h.MarkDirty(parent)
	h.MarkDirty(childIdx)
	if off := parentCell.SubkeyLists[storageClass]; off != NullCell {
		h.MarkDirty(off)
	}
	h.touch()

	return childIdx, nil
}

// ScanKeyForValue performs a linear, case-insensitive search of keyCell's
// value list for name.
func (h *Hive) ScanKeyForValue(keyCell CellIndex, name string) (CellIndex, bool, error) {
	k, err := h.GetKey(keyCell)
	if err != nil {
		return NullCell, false, err
	}
	list, err := h.getValueList(k)
	if err != nil {
		return NullCell, false, err
	}
	if list == nil {
		return NullCell, false, nil
	}
	for _, off := range list.Entries {
		v, err := h.GetValue(off)
		if err != nil {
			return NullCell, false, err
		}
		if strings.EqualFold(v.Name, name) {
			return off, true, nil
		}
	}
	return NullCell, false, nil
}

// AddValueToKey appends a new, empty-data value cell named name to
// keyCell's value list.
func (h *Hive) AddValueToKey(keyCell CellIndex, name string) (CellIndex, error) {
	k, err := h.GetKey(keyCell)
	if err != nil {
		return NullCell, err
	}
	list, err := h.getValueList(k)
	if err != nil {
		return NullCell, err
	}
	if list == nil {
		list = &valueListCell{}
		listIdx := h.Store.alloc(Stable, list)
		if listIdx == NullCell {
			return NullCell, insufficientResources("value list cell")
		}
		k.ValueList = listIdx
	}

	v := newValueCell(name)
	vIdx := h.Store.alloc(Stable, v)
	if vIdx == NullCell {
		return NullCell, insufficientResources("value cell")
	}
	list.Entries = append(list.Entries, vIdx)
	k.ValueCount++
	h.MarkDirty(keyCell)
	h.MarkDirty(k.ValueList)
	h.touch()
	return vIdx, nil
}

// DeleteValueFromKey removes name from keyCell's value list, freeing the
// value cell and any out-of-line data cell it owned.
func (h *Hive) DeleteValueFromKey(keyCell CellIndex, name string) error {
	k, err := h.GetKey(keyCell)
	if err != nil {
		return err
	}
	list, err := h.getValueList(k)
	if err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("hive: value %q not found", name)
	}
	for i, off := range list.Entries {
		v, err := h.GetValue(off)
		if err != nil {
			return err
		}
		if !strings.EqualFold(v.Name, name) {
			continue
		}
		if !v.DataInOffset && v.DataCell != NullCell {
			h.Store.free(v.DataCell)
		}
		h.Store.free(off)
		list.Entries = append(list.Entries[:i], list.Entries[i+1:]...)
		k.ValueCount--
		h.MarkDirty(keyCell)
		h.MarkDirty(k.ValueList)
		h.touch()
		return nil
	}
	return fmt.Errorf("hive: value %q not found", name)
}

// GetKeyFromHashByIndex returns the i-th subkey cell in list order.
// The caller is responsible for translating a global enumeration index
// into (storage class, base index) first.
func (h *Hive) GetKeyFromHashByIndex(list CellIndex, i int) (CellIndex, error) {
	c, err := h.Store.get(list)
	if err != nil {
		return NullCell, err
	}
	l, ok := c.payload.(*subkeyListCell)
	if !ok {
		return NullCell, errWrongPayload(list, "subkey list")
	}
	if i < 0 || i >= len(l.Entries) {
		return NullCell, fmt.Errorf("hive: subkey index %d out of range (have %d)", i, len(l.Entries))
	}
	return l.Entries[i].Child, nil
}

// CopyKey deep-copies the subtree rooted at srcKey (in srcHive) under
// dstParent (in dstHive), used by SaveKey. Volatile cells are not copied,
// matching the save-time exclusion of the round-trip property.
func CopyKey(dstHive *Hive, dstParent CellIndex, srcHive *Hive, srcKey CellIndex) (CellIndex, error) {
	src, err := srcHive.GetKey(srcKey)
	if err != nil {
		return NullCell, fmt.Errorf("hive: CopyKey: resolve source: %w", err)
	}

	var classBytes []byte
	if src.ClassSize > 0 && src.ClassNameOffset != NullCell {
		c, err := srcHive.Store.get(src.ClassNameOffset)
		if err == nil {
			if cb, ok := c.payload.(classCellPayload); ok {
				classBytes = []byte(cb)
			}
		}
	}

	var dstKey CellIndex
	if dstParent == NullCell {
		// Copying the root of a fresh destination hive: reuse its
		// existing (empty) root cell instead of allocating a sibling.
		dstKey = dstHive.Root
		root, err := dstHive.GetKey(dstKey)
		if err != nil {
			return NullCell, err
		}
		root.Name = src.Name
		root.NamePacked = src.NamePacked
		root.SecurityKeyOffset = src.SecurityKeyOffset
		root.LastWriteTime = src.LastWriteTime
		if len(classBytes) > 0 {
			classIdx := dstHive.Store.alloc(Stable, classCellPayload(append([]byte(nil), classBytes...)))
			root.ClassNameOffset = classIdx
			root.ClassSize = uint32(len(classBytes))
		}
	} else {
		dstKey, err = dstHive.AddSubKey(dstParent, src.Name, classBytes, CreateOptions{})
		if err != nil {
			return NullCell, fmt.Errorf("hive: CopyKey: add child: %w", err)
		}
		dk, err := dstHive.GetKey(dstKey)
		if err != nil {
			return NullCell, err
		}
		dk.LastWriteTime = src.LastWriteTime
	}

	srcValues, err := srcHive.getValueList(src)
	if err != nil {
		return NullCell, fmt.Errorf("hive: CopyKey: resolve values: %w", err)
	}
	if srcValues != nil {
		for _, voff := range srcValues.Entries {
			sv, err := srcHive.GetValue(voff)
			if err != nil {
				return NullCell, err
			}
			data, err := srcHive.ValueData(sv)
			if err != nil {
				return NullCell, err
			}
			if err := dstHive.SetValue(dstKey, sv.Name, sv.Type, data); err != nil {
				return NullCell, fmt.Errorf("hive: CopyKey: copy value %q: %w", sv.Name, err)
			}
		}
	}

	stableList, err := srcHive.getSubkeyList(src, Stable)
	if err != nil {
		return NullCell, err
	}
	if stableList != nil {
		for _, e := range stableList.Entries {
			if _, err := CopyKey(dstHive, dstKey, srcHive, e.Child); err != nil {
				return NullCell, err
			}
		}
	}

	return dstKey, nil
}

// SetValue writes data/type to the value named name under keyCell,
// creating the value cell if it doesn't already exist, and transitioning
// between inline and out-of-line storage as the data size crosses
// maxInlineDataSize (invariant 5). Any previously-held out-of-line data
// cell is freed before the new representation is chosen.
//
// Grounded on ntfunc.c's NtSetValueKey body (the inline/external branch
// and the REG_LINK "SymbolicLinkValue" special case feeding FlagLinkCell).
func (h *Hive) SetValue(keyCell CellIndex, name string, typ RegType, data []byte) error {
	vIdx, found, err := h.ScanKeyForValue(keyCell, name)
	if err != nil {
		return err
	}
	if !found {
		vIdx, err = h.AddValueToKey(keyCell, name)
		if err != nil {
			return err
		}
	}
	c, err := h.Store.get(vIdx)
	if err != nil {
		return err
	}
	v, ok := c.payload.(*ValueCell)
	if !ok {
		return errWrongPayload(vIdx, "value")
	}

	if !v.DataInOffset && v.DataCell != NullCell {
		h.Store.free(v.DataCell)
		v.DataCell = NullCell
	}

	v.Type = typ
	v.Size = uint32(len(data))
	if len(data) <= maxInlineDataSize {
		v.DataInOffset = true
		var inline [maxInlineDataSize]byte
		copy(inline[:], data)
		v.Inline = inline
	} else {
		v.DataInOffset = false
		dIdx := h.Store.alloc(Stable, dataCellPayload(append([]byte(nil), data...)))
		if dIdx == NullCell {
			return insufficientResources("value data cell")
		}
		v.DataCell = dIdx
	}

	if strings.EqualFold(name, "SymbolicLinkValue") && typ == RegLink {
		k, err := h.GetKey(keyCell)
		if err == nil {
			k.Flags |= FlagLinkCell
		}
	}

	h.MarkDirty(vIdx)
	h.MarkDirty(keyCell)
	h.touch()
	return nil
}

func insufficientResources(what string) error {
	return &resourceError{what: what}
}

type resourceError struct{ what string }

func (e *resourceError) Error() string {
	return fmt.Sprintf("hive: allocation exhausted: %s", e.what)
}

