//go:build !linux && !darwin && !freebsd

package hive

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

func init() {
	gob.Register(&KeyCell{})
	gob.Register(&ValueCell{})
	gob.Register(&subkeyListCell{})
	gob.Register(&valueListCell{})
	gob.Register(dataCellPayload(nil))
	gob.Register(classCellPayload(nil))
}

type snapshotCell struct {
	Class   StorageClass
	Payload cellPayload
}

type snapshot struct {
	Cells    map[CellIndex]*snapshotCell
	FreeList []CellIndex
	Next     CellIndex
	Root     CellIndex
	Flags    Flags
}

func (h *Hive) encode() ([]byte, error) {
	snap := snapshot{
		Cells:    make(map[CellIndex]*snapshotCell, len(h.Store.cells)),
		FreeList: h.Store.freeList,
		Next:     h.Store.next,
		Root:     h.Root,
		Flags:    h.Flags,
	}
	for idx, c := range h.Store.cells {
		if c.class == Volatile {
			continue
		}
		payload := c.payload
		if k, ok := payload.(*KeyCell); ok {
			kc := *k // the volatile subkey list lives in cells dropped above
			kc.SubkeyCounts[Volatile] = 0
			kc.SubkeyLists[Volatile] = NullCell
			payload = &kc
		}
		snap.Cells[idx] = &snapshotCell{Class: c.class, Payload: payload}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, fmt.Errorf("hive: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeHive(path string, data []byte) (*Hive, error) {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("hive: decode: %w", err)
	}
	store := &CellStore{
		cells:    make(map[CellIndex]*cell, len(snap.Cells)),
		freeList: snap.FreeList,
		next:     snap.Next,
	}
	for idx, sc := range snap.Cells {
		store.cells[idx] = &cell{class: sc.Class, payload: sc.Payload}
	}
	return &Hive{
		Store: store,
		Root:  snap.Root,
		Flags: snap.Flags,
		Path:  path,
	}, nil
}

// Load reads a hive snapshot from path.
func Load(path string) (*Hive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hive: load %s: %w", path, err)
	}
	return decodeHive(path, data)
}

// Save writes h's stable cells to path. Non-Unix fallback: no mmap/msync,
// plain buffered write plus File.Sync.
func (h *Hive) Save(path string) error {
	data, err := h.encode()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("hive: save %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("hive: save %s: write: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("hive: save %s: sync: %w", path, err)
	}
	h.Path = path
	return nil
}

// Flush re-encodes and persists h's dirty stable cells to its existing
// backing file.
func (h *Hive) Flush() error {
	if h.IsNoFileHive() {
		return nil
	}
	data, err := h.encode()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(h.Path, os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("hive: flush %s: %w", h.Path, err)
	}
	defer f.Close()
	if err := f.Truncate(int64(len(data))); err != nil {
		return fmt.Errorf("hive: flush %s: truncate: %w", h.Path, err)
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return fmt.Errorf("hive: flush %s: write: %w", h.Path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("hive: flush %s: sync: %w", h.Path, err)
	}
	for _, idx := range h.Store.dirtyCells() {
		h.Store.clearDirty(idx)
	}
	return nil
}
