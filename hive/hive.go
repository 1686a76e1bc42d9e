package hive

import (
	"fmt"
	"time"
)

// Flags describe a hive's lifecycle bits: no_file, volatile.
type Flags uint32

const (
	// FlagNoFile marks a hive with no backing file (memory-only: created
	// by CreateTempHive or a freshly built hive never saved).
	FlagNoFile Flags = 1 << iota
	// FlagVolatile marks a hive that is itself never persisted (e.g. a
	// boot-time scratch hive), independent of any individual cell's
	// storage class.
	FlagVolatile
)

// Hive is a cell store plus its root cell, file binding, and lifecycle
// flags. The hive does not own the registry lock; that lock is
// process-wide and lives on cm.RegistryContext.
type Hive struct {
	Store *CellStore
	Root  CellIndex
	Flags Flags
	Path  string // backing file path; empty for a no-file hive

	lastWrite time.Time
}

// New creates an empty hive with a fresh root key cell named name.
func New(name string, flags Flags) *Hive {
	h := &Hive{
		Store: NewCellStore(),
		Flags: flags,
	}
	root := newKeyCell(NullCell, name)
	h.Root = h.Store.alloc(Stable, root)
	h.touch()
	return h
}

// IsNoFileHive reports whether h has no backing file.
func (h *Hive) IsNoFileHive() bool {
	return h.Flags&FlagNoFile != 0 || h.Path == ""
}

// GetKey resolves idx as a key cell.
func (h *Hive) GetKey(idx CellIndex) (*KeyCell, error) {
	c, err := h.Store.get(idx)
	if err != nil {
		return nil, err
	}
	k, ok := c.payload.(*KeyCell)
	if !ok {
		return nil, errNotAKeyCell(idx)
	}
	return k, nil
}

// GetValue resolves idx as a value cell.
func (h *Hive) GetValue(idx CellIndex) (*ValueCell, error) {
	c, err := h.Store.get(idx)
	if err != nil {
		return nil, err
	}
	v, ok := c.payload.(*ValueCell)
	if !ok {
		return nil, errNotAValueCell(idx)
	}
	return v, nil
}

// SetKeyWriteTime overwrites idx's LastWriteTime field (NtSetInformationKey
// with KeyWriteTimeInformation).
func (h *Hive) SetKeyWriteTime(idx CellIndex, t time.Time) error {
	k, err := h.GetKey(idx)
	if err != nil {
		return err
	}
	k.LastWriteTime = t
	h.MarkDirty(idx)
	h.touch()
	return nil
}

// MarkDirty marks idx dirty (no-op for volatile cells, per invariant 2).
func (h *Hive) MarkDirty(idx CellIndex) { h.Store.markDirty(idx) }

// FreeCell releases a cell back to the arena.
func (h *Hive) FreeCell(idx CellIndex) { h.Store.free(idx) }

// LastWriteTime returns the hive-level last-write timestamp, updated by
// touch() on every mutating operation that reaches the root's storage.
func (h *Hive) LastWriteTime() time.Time { return h.lastWrite }

func (h *Hive) touch() { h.lastWrite = time.Now() }

func errNotAKeyCell(idx CellIndex) error {
	return &wrongCellKindError{idx: idx, want: "key"}
}

func errNotAValueCell(idx CellIndex) error {
	return &wrongCellKindError{idx: idx, want: "value"}
}

type wrongCellKindError struct {
	idx  CellIndex
	want string
}

func (e *wrongCellKindError) Error() string {
	return fmt.Sprintf("hive: cell %d is not a %s cell", e.idx, e.want)
}
