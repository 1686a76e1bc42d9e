package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHiveHasRootKey(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	require.True(t, h.IsNoFileHive())

	root, err := h.GetKey(h.Root)
	require.NoError(t, err)
	require.Equal(t, "ROOT", root.Name)
	require.Equal(t, NullCell, root.Parent)
}

func TestGetKeyWrongKindError(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	vIdx, err := h.AddValueToKey(h.Root, "Foo")
	require.NoError(t, err)

	_, err = h.GetKey(vIdx)
	require.Error(t, err)

	_, err = h.GetValue(h.Root)
	require.Error(t, err)
}

func TestTouchUpdatesLastWriteTime(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	first := h.LastWriteTime()

	_, err := h.AddSubKey(h.Root, "Child", nil, CreateOptions{})
	require.NoError(t, err)
	require.True(t, h.LastWriteTime().After(first) || h.LastWriteTime().Equal(first))
}
