// Package hive implements the cell store and hive binding plus the pure
// key-cell operations that mediate subkeys, values, and names. The
// on-disk REGF byte format is explicitly out of scope: cells are held as
// an arena of typed Go structs addressed by CellIndex rather than as
// byte-packed records, so this package never parses or emits raw hive
// bytes.
package hive

import "fmt"

// CellIndex is a 32-bit handle into a hive's cell arena. All intra-hive
// references use CellIndex, never language-level pointers, mirroring the
// on-disk "cell offset" data model.
type CellIndex uint32

// NullCell is the sentinel meaning "no cell" (NULL_CELL).
const NullCell CellIndex = 0xFFFFFFFF

// StorageClass distinguishes cells that survive unload (Stable) from those
// that do not (Volatile).
type StorageClass int

const (
	Stable StorageClass = iota
	Volatile
)

func (c StorageClass) String() string {
	if c == Volatile {
		return "volatile"
	}
	return "stable"
}

// cellPayload is the set of concrete cell contents a CellIndex may name.
// Exactly one of the hive's per-kind views into this cell is valid.
type cellPayload interface {
	isCellPayload()
}

// cell is one arena slot: a storage class, a dirty bit, and a payload.
type cell struct {
	class   StorageClass
	dirty   bool
	payload cellPayload
}

// CellStore is the paged, offset-addressed allocator for a hive's key
// cells, value cells, subkey hash tables, and out-of-line data blobs.
//
// Grounded on hive/alloc/fastalloc.go's segregated free-list allocator,
// adapted from a byte arena to a struct arena per the package doc comment.
type CellStore struct {
	cells    map[CellIndex]*cell
	freeList []CellIndex
	next     CellIndex
}

// NewCellStore returns an empty cell store.
func NewCellStore() *CellStore {
	return &CellStore{cells: make(map[CellIndex]*cell)}
}

// alloc reserves a new cell of the given storage class holding payload and
// returns its index, or NullCell if the arena is exhausted (the only
// failure mode allocation recognizes, mapped to INSUFFICIENT_RESOURCES by
// callers).
func (s *CellStore) alloc(class StorageClass, payload cellPayload) CellIndex {
	var idx CellIndex
	if n := len(s.freeList); n > 0 {
		idx = s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
	} else {
		if s.next == NullCell {
			return NullCell
		}
		idx = s.next
		s.next++
	}
	s.cells[idx] = &cell{class: class, payload: payload}
	return idx
}

// free releases a cell back to the store. Freeing an already-free or
// unknown index is a no-op: callers that roll back partial allocations may
// legitimately double-free along an error path that frees a subset twice.
func (s *CellStore) free(idx CellIndex) {
	if idx == NullCell {
		return
	}
	if _, ok := s.cells[idx]; !ok {
		return
	}
	delete(s.cells, idx)
	s.freeList = append(s.freeList, idx)
}

// get returns the payload at idx, or an error if idx is not live.
func (s *CellStore) get(idx CellIndex) (*cell, error) {
	if idx == NullCell {
		return nil, fmt.Errorf("hive: nil cell reference")
	}
	c, ok := s.cells[idx]
	if !ok {
		return nil, fmt.Errorf("hive: cell %d does not exist", idx)
	}
	return c, nil
}

// markDirty flags the cell at idx for the next flush. Per invariant 2, a
// volatile cell is never persisted, so marking one dirty is a deliberate
// no-op rather than an error: callers don't need to special-case storage
// class at every call site.
func (s *CellStore) markDirty(idx CellIndex) {
	c, err := s.get(idx)
	if err != nil {
		return
	}
	if c.class == Stable {
		c.dirty = true
	}
}

// dirtyCells returns the indices of all stable cells currently marked
// dirty, for use by Flush.
func (s *CellStore) dirtyCells() []CellIndex {
	var out []CellIndex
	for idx, c := range s.cells {
		if c.class == Stable && c.dirty {
			out = append(out, idx)
		}
	}
	return out
}

// clearDirty resets the dirty bit on idx after a successful flush.
func (s *CellStore) clearDirty(idx CellIndex) {
	if c, err := s.get(idx); err == nil {
		c.dirty = false
	}
}
