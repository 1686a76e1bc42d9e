package cm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

func TestInitializeRegistryIsOneShot(t *testing.T) {
	rc := NewRegistryContext()
	require.NoError(t, rc.InitializeRegistry(true))
	require.ErrorIs(t, rc.InitializeRegistry(true), ntstatus.AccessDenied)
}

func TestSyncHivesSwallowsFlushErrors(t *testing.T) {
	rc, _ := newTestRegistry(t)
	require.NotPanics(t, rc.SyncHives)
}

func TestRegisterCallbackFiresOnCreateKey(t *testing.T) {
	rc, root := newTestRegistry(t)
	var seen NotifyClass
	cookie := rc.RegisterCallback(func(ctx any, class NotifyClass, arg any) error {
		seen = class
		return nil
	}, nil)
	defer rc.UnregisterCallback(cookie)

	_, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, RegNtPostCreateKey, seen, "post-callback runs last and overwrites the observed class")
}
