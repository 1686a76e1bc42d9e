package hive

import "time"

// KeyFlags are the per-key-cell bits.
type KeyFlags uint32

const (
	// FlagVolatileCell marks a key cell allocated in volatile storage.
	FlagVolatileCell KeyFlags = 1 << iota
	// FlagLinkCell marks a key cell carrying a REG_LINK value named
	// "SymbolicLinkValue" (invariant 4).
	FlagLinkCell
)

// KeyCell is the in-arena representation of one "nk" node.
//
// Grounded on the hive/nk.go field set (ParentOffsetRel,
// SubkeyCount/VolatileSubkeyCount, SubkeyListOffsetRel, ValueCount,
// ClassNameOffsetRel, SecurityOffsetRel, Name/IsCompressedName), carried
// over as Go struct fields instead of byte-offset accessors since the
// wire format is out of scope here.
type KeyCell struct {
	Parent CellIndex

	// SubkeyCounts and SubkeyLists are indexed by StorageClass (Stable=0,
	// Volatile=1), matching the on-disk subkey_counts[Stable|Volatile].
	SubkeyCounts [2]uint32
	SubkeyLists  [2]CellIndex

	ValueCount uint32
	ValueList  CellIndex

	ClassNameOffset CellIndex
	ClassSize       uint32

	LastWriteTime time.Time

	Name       string
	NamePacked bool

	SecurityKeyOffset CellIndex
	Flags             KeyFlags
}

func (*KeyCell) isCellPayload() {}

func newKeyCell(parent CellIndex, name string) *KeyCell {
	raw, packed := EncodeName(name)
	return &KeyCell{
		Parent:        parent,
		SubkeyLists:   [2]CellIndex{NullCell, NullCell},
		ValueList:     NullCell,
		ClassNameOffset: NullCell,
		LastWriteTime: time.Now(),
		Name:          DecodeName(raw, packed),
		NamePacked:    packed,
		SecurityKeyOffset: NullCell,
	}
}

// TotalSubkeys returns the combined stable+volatile subkey count.
func (k *KeyCell) TotalSubkeys() uint32 {
	return k.SubkeyCounts[Stable] + k.SubkeyCounts[Volatile]
}

// IsLinkCell reports whether FlagLinkCell is set (invariant 4).
func (k *KeyCell) IsLinkCell() bool { return k.Flags&FlagLinkCell != 0 }
