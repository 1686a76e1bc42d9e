package hive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellStoreAllocFreeReuse(t *testing.T) {
	s := NewCellStore()
	a := s.alloc(Stable, classCellPayload("a"))
	b := s.alloc(Stable, classCellPayload("b"))
	require.NotEqual(t, NullCell, a)
	require.NotEqual(t, NullCell, b)

	s.free(a)
	c := s.alloc(Stable, classCellPayload("c"))
	require.Equal(t, a, c, "freed index should be reused before growing the arena")
}

func TestCellStoreGetUnknown(t *testing.T) {
	s := NewCellStore()
	_, err := s.get(CellIndex(42))
	require.Error(t, err)

	_, err = s.get(NullCell)
	require.Error(t, err)
}

func TestCellStoreMarkDirtyVolatileNoop(t *testing.T) {
	s := NewCellStore()
	v := s.alloc(Volatile, classCellPayload("x"))
	s.markDirty(v)
	require.Empty(t, s.dirtyCells(), "volatile cells never become dirty")

	st := s.alloc(Stable, classCellPayload("y"))
	s.markDirty(st)
	require.Equal(t, []CellIndex{st}, s.dirtyCells())

	s.clearDirty(st)
	require.Empty(t, s.dirtyCells())
}

func TestCellStoreDoubleFreeIsNoop(t *testing.T) {
	s := NewCellStore()
	a := s.alloc(Stable, classCellPayload("a"))
	s.free(a)
	require.NotPanics(t, func() { s.free(a) })
}
