package cm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
)

// TestFlushKeyAlwaysSucceeds checks that even a no-file hive (whose Flush
// is a deliberate no-op, not an error) goes through FlushKey's
// unconditional SUCCESS path.
func TestFlushKeyAlwaysSucceeds(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	require.NoError(t, rc.FlushKey(ko))
}
