package cm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

func TestDeleteKeyWithSubkeysIsCannotDelete(t *testing.T) {
	rc, root := newTestRegistry(t)
	parent, _, err := rc.CreateKey(root, "Parent", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	_, _, err = rc.CreateKey(parent, "Child", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	err = rc.DeleteKey(parent)
	require.ErrorIs(t, err, ntstatus.CannotDelete)
}

func TestDeleteKeyRemovesFromNamespace(t *testing.T) {
	rc, root := newTestRegistry(t)
	leaf, _, err := rc.CreateKey(root, "Leaf", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	require.NoError(t, rc.DeleteKey(leaf))
	require.True(t, leaf.MarkedForDelete())

	_, err = rc.OpenKey(root, "Leaf")
	require.ErrorIs(t, err, ntstatus.ObjectNameNotFound)
}
