package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameHashCaseInsensitive(t *testing.T) {
	require.Equal(t, nameHash("software"), nameHash("SOFTWARE"))
	require.Equal(t, nameHash("Software"), nameHash("sOfTwArE"))
}

func TestGetSubkeyListEmpty(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	root, err := h.GetKey(h.Root)
	require.NoError(t, err)

	list, err := h.getSubkeyList(root, Stable)
	require.NoError(t, err)
	require.Nil(t, list)
}

func TestGetValueListEmpty(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	root, err := h.GetKey(h.Root)
	require.NoError(t, err)

	list, err := h.getValueList(root)
	require.NoError(t, err)
	require.Nil(t, list)
}

func TestGetSubkeyListPopulated(t *testing.T) {
	h := New("ROOT", FlagNoFile)
	_, err := h.AddSubKey(h.Root, "A", nil, CreateOptions{})
	require.NoError(t, err)
	_, err = h.AddSubKey(h.Root, "B", nil, CreateOptions{Volatile: true})
	require.NoError(t, err)

	root, err := h.GetKey(h.Root)
	require.NoError(t, err)

	stable, err := h.getSubkeyList(root, Stable)
	require.NoError(t, err)
	require.Len(t, stable.Entries, 1)

	volatile, err := h.getSubkeyList(root, Volatile)
	require.NoError(t, err)
	require.Len(t, volatile.Entries, 1)
}
