package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSubKeyStableAndVolatile(t *testing.T) {
	h := New("ROOT", FlagNoFile)

	stableChild, err := h.AddSubKey(h.Root, "Stable1", nil, CreateOptions{})
	require.NoError(t, err)
	sk, err := h.GetKey(stableChild)
	require.NoError(t, err)
	require.Equal(t, h.Root, sk.Parent)
	require.False(t, sk.Flags&FlagVolatileCell != 0)

	volChild, err := h.AddSubKey(h.Root, "Vol1", nil, CreateOptions{Volatile: true})
	require.NoError(t, err)
	vk, err := h.GetKey(volChild)
	require.NoError(t, err)
	require.True(t, vk.Flags&FlagVolatileCell != 0)

	root, err := h.GetKey(h.Root)
	require.NoError(t, err)
	require.EqualValues(t, 1, root.SubkeyCounts[Stable])
	require.EqualValues(t, 1, root.SubkeyCounts[Volatile])
}

func TestAddSubKeyInheritsSecurity(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	root, err := h.GetKey(h.Root)
	require.NoError(t, err)
	root.SecurityKeyOffset = CellIndex(777)

	child, err := h.AddSubKey(h.Root, "Child", nil, CreateOptions{})
	require.NoError(t, err)
	ck, err := h.GetKey(child)
	require.NoError(t, err)
	require.Equal(t, CellIndex(777), ck.SecurityKeyOffset)
}

func TestAddSubKeyWithClass(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	child, err := h.AddSubKey(h.Root, "Child", []byte("someclass"), CreateOptions{})
	require.NoError(t, err)
	ck, err := h.GetKey(child)
	require.NoError(t, err)
	require.EqualValues(t, len("someclass"), ck.ClassSize)
	require.NotEqual(t, NullCell, ck.ClassNameOffset)
}

func TestScanAndAddValue(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	_, found, err := h.ScanKeyForValue(h.Root, "Missing")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, h.SetValue(h.Root, "Name", RegSZ, []byte("hi")))
	idx, found, err := h.ScanKeyForValue(h.Root, "name") // case-insensitive
	require.NoError(t, err)
	require.True(t, found)

	v, err := h.GetValue(idx)
	require.NoError(t, err)
	require.Equal(t, RegSZ, v.Type)
}

func TestDeleteValueFromKey(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	require.NoError(t, h.SetValue(h.Root, "V", RegBinary, make([]byte, 32)))

	require.NoError(t, h.DeleteValueFromKey(h.Root, "V"))
	_, found, err := h.ScanKeyForValue(h.Root, "V")
	require.NoError(t, err)
	require.False(t, found)

	err = h.DeleteValueFromKey(h.Root, "V")
	require.Error(t, err)
}

func TestGetKeyFromHashByIndex(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	a, err := h.AddSubKey(h.Root, "A", nil, CreateOptions{})
	require.NoError(t, err)
	b, err := h.AddSubKey(h.Root, "B", nil, CreateOptions{})
	require.NoError(t, err)

	root, err := h.GetKey(h.Root)
	require.NoError(t, err)

	got0, err := h.GetKeyFromHashByIndex(root.SubkeyLists[Stable], 0)
	require.NoError(t, err)
	require.Equal(t, a, got0)

	got1, err := h.GetKeyFromHashByIndex(root.SubkeyLists[Stable], 1)
	require.NoError(t, err)
	require.Equal(t, b, got1)

	_, err = h.GetKeyFromHashByIndex(root.SubkeyLists[Stable], 2)
	require.Error(t, err)
}

func TestCopyKeyDeep(t *testing.T) {
	src := New("SrcRoot", FlagNoFile)
	child, err := src.AddSubKey(src.Root, "Child", nil, CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, src.SetValue(child, "V1", RegDword, []byte{1, 0, 0, 0}))
	_, err = src.AddSubKey(child, "Grandchild", nil, CreateOptions{})
	require.NoError(t, err)
	// volatile subkeys must not appear in the copy
	_, err = src.AddSubKey(child, "VolatileChild", nil, CreateOptions{Volatile: true})
	require.NoError(t, err)

	dst := New("DstRoot", FlagNoFile)
	dstChild, err := CopyKey(dst, dst.Root, src, child)
	require.NoError(t, err)

	dk, err := dst.GetKey(dstChild)
	require.NoError(t, err)
	require.Equal(t, "Child", dk.Name)

	_, found, err := dst.ScanKeyForValue(dstChild, "V1")
	require.NoError(t, err)
	require.True(t, found)

	dstRoot, err := dst.GetKey(dstChild)
	require.NoError(t, err)
	require.EqualValues(t, 1, dstRoot.SubkeyCounts[Stable])
	require.EqualValues(t, 0, dstRoot.SubkeyCounts[Volatile])
}

func TestSetValueLinkCellFlag(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	require.NoError(t, h.SetValue(h.Root, "SymbolicLinkValue", RegLink, []byte("\\Registry\\Machine\\Target")))
	k, err := h.GetKey(h.Root)
	require.NoError(t, err)
	require.True(t, k.IsLinkCell())
}
