package cm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmkernel/cmreg/hive"
	"github.com/cmkernel/cmreg/ntstatus"
)

func TestCreateKeyNewThenExisting(t *testing.T) {
	rc, root := newTestRegistry(t)

	ko, disp, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, DispositionCreatedNewKey, disp)
	require.Equal(t, "Software", ko.Name)

	again, disp2, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, DispositionOpenedExistingKey, disp2)
	require.Same(t, ko, again)
}

func TestCreateKeyTrimsSurroundingBackslash(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, disp, err := rc.CreateKey(root, `\Software\`, hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.Equal(t, DispositionCreatedNewKey, disp)
	require.Equal(t, "Software", ko.Name)
}

func TestCreateKeyInteriorBackslashOnUnresolvedTailRejected(t *testing.T) {
	rc, root := newTestRegistry(t)
	_, _, err := rc.CreateKey(root, `Missing\Deeper`, hive.CreateOptions{}, nil)
	require.ErrorIs(t, err, ntstatus.ObjectNameNotFound)
}

func TestOpenKeyMissingIsObjectNameNotFound(t *testing.T) {
	rc, root := newTestRegistry(t)
	_, err := rc.OpenKey(root, "DoesNotExist")
	require.ErrorIs(t, err, ntstatus.ObjectNameNotFound)
}

func TestOpenKeyResolvesCreatedKey(t *testing.T) {
	rc, root := newTestRegistry(t)
	created, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	opened, err := rc.OpenKey(root, "Software")
	require.NoError(t, err)
	require.Same(t, created, opened)
}

func TestCreateKeySameLastComponentDifferentParentsDoNotAlias(t *testing.T) {
	rc, root := newTestRegistry(t)

	a, _, err := rc.CreateKey(root, "A", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	b, _, err := rc.CreateKey(root, "B", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	// Both A and B get a same-named "Foo" child, then each Foo gets a
	// same-named "Leaf" grandchild. A full-path-unaware namespace key
	// (built from only the immediate parent's last path component) would
	// collide here, since both "Foo" keys share the exact same namespace
	// key once the grandchild is inserted under them.
	fooA, _, err := rc.CreateKey(a, "Foo", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	fooB, _, err := rc.CreateKey(b, "Foo", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.NotSame(t, fooA, fooB)

	leafA, _, err := rc.CreateKey(fooA, "Leaf", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	leafB, _, err := rc.CreateKey(fooB, "Leaf", hive.CreateOptions{}, nil)
	require.NoError(t, err)
	require.NotSame(t, leafA, leafB)

	require.NoError(t, rc.SetValueKey(leafA, "Owner", hive.RegSZ, []byte("A")))
	require.NoError(t, rc.SetValueKey(leafB, "Owner", hive.RegSZ, []byte("B")))

	resolvedA, err := rc.OpenKey(fooA, "Leaf")
	require.NoError(t, err)
	require.Same(t, leafA, resolvedA)

	resolvedB, err := rc.OpenKey(fooB, "Leaf")
	require.NoError(t, err)
	require.Same(t, leafB, resolvedB)

	out, _, err := rc.QueryValueKey(resolvedA, "Owner", KeyValuePartialInformation, 4096)
	require.NoError(t, err)
	require.Equal(t, "A", string(out[KeyValuePartialHeaderSize:]))

	out, _, err = rc.QueryValueKey(resolvedB, "Owner", KeyValuePartialInformation, 4096)
	require.NoError(t, err)
	require.Equal(t, "B", string(out[KeyValuePartialHeaderSize:]))
}

func TestOpenKeyTombstonedStillDiscoverableIsUnsuccessful(t *testing.T) {
	rc, root := newTestRegistry(t)
	ko, _, err := rc.CreateKey(root, "Software", hive.CreateOptions{}, nil)
	require.NoError(t, err)

	// Hold two extra references so the namespace entry survives both of
	// DeleteKey's own dereferences, leaving it discoverable-but-tombstoned.
	_, err = rc.ob.ReferenceObjectByHandle(ko.Handle)
	require.NoError(t, err)
	_, err = rc.ob.ReferenceObjectByHandle(ko.Handle)
	require.NoError(t, err)

	require.NoError(t, rc.DeleteKey(ko))

	_, err = rc.OpenKey(root, "Software")
	require.ErrorIs(t, err, ntstatus.Unsuccessful)
}
