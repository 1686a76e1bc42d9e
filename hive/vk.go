package hive

import "fmt"

// RegType enumerates Windows registry value types, matching the numeric
// values Windows itself defines. Grounded on pkg/types.RegType / api.go's
// constant block.
type RegType uint32

const (
	RegNone      RegType = 0
	RegSZ        RegType = 1
	RegExpandSZ  RegType = 2
	RegBinary    RegType = 3
	RegDword     RegType = 4
	RegDwordBE   RegType = 5
	RegLink      RegType = 6
	RegMultiSZ   RegType = 7
	RegQword     RegType = 11
)

func (t RegType) String() string {
	switch t {
	case RegNone:
		return "REG_NONE"
	case RegSZ:
		return "REG_SZ"
	case RegExpandSZ:
		return "REG_EXPAND_SZ"
	case RegBinary:
		return "REG_BINARY"
	case RegDword:
		return "REG_DWORD"
	case RegDwordBE:
		return "REG_DWORD_BE"
	case RegLink:
		return "REG_LINK"
	case RegMultiSZ:
		return "REG_MULTI_SZ"
	case RegQword:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("REG_UNKNOWN(%d)", uint32(t))
	}
}

// maxInlineDataSize is sizeof(CellIndex): data this size or smaller is
// stored inline in the value cell's data-offset field (invariant 5).
const maxInlineDataSize = 4

// ValueCell is the in-arena representation of one "vk" value.
//
// Grounded on hive/vk.go (IsSmallData/DataLen/Data), which is the direct
// model for invariant 5 (DATA_IN_OFFSET ⇔ length ≤ sizeof(CellIndex)).
type ValueCell struct {
	Name       string
	NamePacked bool

	Type RegType

	// DataInOffset is the DATA_IN_OFFSET bit: when set, Inline holds the
	// value's bytes directly and DataCell is unused.
	DataInOffset bool
	Size         uint32
	Inline       [maxInlineDataSize]byte
	DataCell     CellIndex
}

func (*ValueCell) isCellPayload() {}

func newValueCell(name string) *ValueCell {
	raw, packed := EncodeName(name)
	return &ValueCell{
		Name:       DecodeName(raw, packed),
		NamePacked: packed,
		DataCell:   NullCell,
	}
}

// dataCellPayload is the out-of-line byte blob a ValueCell.DataCell points
// at when DataInOffset is false.
type dataCellPayload []byte

func (dataCellPayload) isCellPayload() {}

// classCellPayload holds a key cell's class-name bytes.
type classCellPayload []byte

func (classCellPayload) isCellPayload() {}

// ValueData resolves the value's bytes, handling the inline/external split.
func (h *Hive) ValueData(v *ValueCell) ([]byte, error) {
	if v.DataInOffset {
		return append([]byte(nil), v.Inline[:v.Size]...), nil
	}
	if v.Size == 0 {
		return nil, nil
	}
	c, err := h.Store.get(v.DataCell)
	if err != nil {
		return nil, fmt.Errorf("hive: value data cell: %w", err)
	}
	blob, ok := c.payload.(dataCellPayload)
	if !ok {
		return nil, fmt.Errorf("hive: cell %d is not a data cell", v.DataCell)
	}
	return append([]byte(nil), blob[:v.Size]...), nil
}
