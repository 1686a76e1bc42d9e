package objmgr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testObj struct{ name string }

func (o *testObj) ObjectName() string { return o.name }

func TestCreateInsertFind(t *testing.T) {
	m := New()
	obj := &testObj{name: "Machine"}
	h := m.CreateObject(obj)
	require.NoError(t, m.InsertObject(h, `Registry\Machine`))

	found, rest := m.FindObject(nil, `Registry\Machine`)
	require.Equal(t, obj, found)
	require.Empty(t, rest)
}

func TestFindObjectRemainingPath(t *testing.T) {
	m := New()
	root := &testObj{name: "Machine"}
	h := m.CreateObject(root)
	require.NoError(t, m.InsertObject(h, `Machine`))

	found, rest := m.FindObject(nil, `Machine\Software\Vendor`)
	require.Equal(t, root, found)
	require.Equal(t, `Software\Vendor`, rest)
}

func TestReferenceAndDereference(t *testing.T) {
	m := New()
	obj := &testObj{name: "X"}
	h := m.CreateObject(obj)

	got, err := m.ReferenceObjectByHandle(h)
	require.NoError(t, err)
	require.Equal(t, obj, got)

	remaining, err := m.DereferenceObject(h)
	require.NoError(t, err)
	require.EqualValues(t, 1, remaining) // CreateObject's initial ref + the one we took

	remaining, err = m.DereferenceObject(h)
	require.NoError(t, err)
	require.LessOrEqual(t, remaining, int32(0))

	_, err = m.ReferenceObjectByHandle(h)
	require.Error(t, err, "handle is torn down once refcount drains")
}

func TestFindObjectDoesNotAliasSharedLastComponent(t *testing.T) {
	m := New()

	a := &testObj{name: `Root\A`}
	ha := m.CreateObject(a)
	require.NoError(t, m.InsertObject(ha, a.name))

	b := &testObj{name: `Root\B`}
	hb := m.CreateObject(b)
	require.NoError(t, m.InsertObject(hb, b.name))

	fooA := &testObj{name: `Root\A\Foo`}
	hfa := m.CreateObject(fooA)
	require.NoError(t, m.InsertObject(hfa, fooA.name))

	fooB := &testObj{name: `Root\B\Foo`}
	hfb := m.CreateObject(fooB)
	require.NoError(t, m.InsertObject(hfb, fooB.name))

	leafA := &testObj{name: `Root\A\Foo\Leaf`}
	hla := m.CreateObject(leafA)
	require.NoError(t, m.InsertObject(hla, leafA.name))

	leafB := &testObj{name: `Root\B\Foo\Leaf`}
	hlb := m.CreateObject(leafB)
	require.NoError(t, m.InsertObject(hlb, leafB.name))

	foundA, restA := m.FindObject(fooA, `Leaf`)
	require.Equal(t, leafA, foundA)
	require.Empty(t, restA)

	foundB, restB := m.FindObject(fooB, `Leaf`)
	require.Equal(t, leafB, foundB)
	require.Empty(t, restB)

	require.NotSame(t, foundA, foundB)
}

func TestDereferenceUnknownHandle(t *testing.T) {
	m := New()
	_, err := m.DereferenceObject(Handle(999))
	require.Error(t, err)
}
