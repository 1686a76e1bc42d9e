package cm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
)

func TestKeyObjectMarkedForDeleteRoundTrip(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	require.False(t, ko.MarkedForDelete())
	ko.SetMarkedForDelete()
	require.True(t, ko.MarkedForDelete())
}

func TestKeyObjectListTracksInsertAndRemove(t *testing.T) {
	l := &keyObjectList{}
	a := &KeyObject{Name: "a"}
	b := &KeyObject{Name: "b"}
	l.insert(a)
	l.insert(b)
	require.Equal(t, []*KeyObject{a, b}, l.all())

	l.remove(a)
	require.Equal(t, []*KeyObject{b}, l.all())
}

func TestKeyObjectLastWriteTime(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	lw, err := ko.LastWriteTime()
	require.NoError(t, err)
	require.False(t, lw.IsZero())
}
