package cm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
)

// newTestRegistry builds a RegistryContext with a single no-file hive
// mounted at "Root", returning the context and the mounted root's
// KeyObject for tests to build on.
func newTestRegistry(t *testing.T) (*RegistryContext, *KeyObject) {
	t.Helper()
	rc := NewRegistryContext()
	h := hive.New("Root", hive.FlagNoFile)
	root, err := rc.MountHive("Root", h)
	require.NoError(t, err)
	return rc, root
}
