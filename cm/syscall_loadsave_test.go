package cm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

func TestSaveKeyThenLoadKeyRoundTrips(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "App", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	_, _, err = rc.CreateKey(ko, "Settings", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.NoError(t, rc.SetValueKey(ko, "version", hive.RegDword, []byte{1, 0, 0, 0}))

	// Volatile children must not survive the save/load round trip.
	_, _, err = rc.CreateKey(ko, "Scratch", hive.CreateOptions{Volatile: true}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "app.hive")
	require.NoError(t, rc.SaveKey(ko, path))

	loaded, err := rc.LoadKey(root, "AppMount", path)
	require.NoError(t, err)

	settings, err := rc.OpenKey(loaded, "Settings")
	require.NoError(t, err)
	require.Equal(t, "Settings", settings.Name)

	_, err = rc.OpenKey(loaded, "Scratch")
	require.Error(t, err, "volatile children are excluded from SaveKey's copy")
}

func TestSaveKeyRejectsVolatileKey(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Scratch", hive.CreateOptions{Volatile: true}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scratch.hive")
	err = rc.SaveKey(ko, path)
	require.ErrorIs(t, err, ntstatus.AccessDenied)
}

func TestUnloadKeyForgetsMountedHive(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "App", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "app.hive")
	require.NoError(t, rc.SaveKey(ko, path))

	loaded, err := rc.LoadKey(root, "AppMount", path)
	require.NoError(t, err)

	require.NoError(t, rc.UnloadKey(loaded))
	require.NotContains(t, rc.hives, `Root\AppMount`)
}
