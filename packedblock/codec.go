// Package packedblock implements the codec for a chunk section's packed
// block-identifier arrays: a 4096-byte low-byte array plus an optional
// 2048-byte high-nybble array, together encoding 4096 12-bit cell values
// in the conventional (high<<8)|low layout.
package packedblock

import (
	"fmt"

	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
)

// CellCount is the number of cells in one section (16x16x16).
const CellCount = 4096

// BlocksSize is the required size of the Blocks byte array.
const BlocksSize = CellCount

// AddSize is the required size of the Add byte array, when present.
const AddSize = CellCount / 2

// ErrMissingMapping reports that a cell's identifier has no entry in the
// block map; per spec this aborts the migration.
type ErrMissingMapping struct {
	Cell int
}

func (e *ErrMissingMapping) Error() string {
	return fmt.Sprintf("no block map entry for identifier %d", e.Cell)
}

// Decode unpacks a section's Blocks (+ optional Add) byte arrays into
// 4096 16-bit cell values. Blocks must be exactly BlocksSize bytes and,
// if present, Add must be exactly AddSize bytes.
func Decode(section *tagtree.Tag) ([CellCount]uint16, error) {
	var cells [CellCount]uint16

	blocksTag, err := tagtree.RequireChild(section, "Blocks")
	if err != nil {
		return cells, err
	}
	if blocksTag.Kind != tagtree.KindByteArray || len(blocksTag.Bytes) != BlocksSize {
		return cells, &tagtree.StructuralError{Msg: fmt.Sprintf("Blocks must be a %d-byte array, got kind %s len %d", BlocksSize, blocksTag.Kind, len(blocksTag.Bytes))}
	}

	addTag, hasAdd := tagtree.FindChild(section, "Add")
	if hasAdd {
		if addTag.Kind != tagtree.KindByteArray || len(addTag.Bytes) != AddSize {
			return cells, &tagtree.StructuralError{Msg: fmt.Sprintf("Add must be a %d-byte array, got kind %s len %d", AddSize, addTag.Kind, len(addTag.Bytes))}
		}
	}

	for i := 0; i < CellCount; i++ {
		low := uint16(blocksTag.Bytes[i])
		var high uint16
		if hasAdd {
			high = uint16(nybbleAt(addTag.Bytes, i))
		}
		cells[i] = (high << 8) | low
	}
	return cells, nil
}

// nybbleAt reads cell i's high nybble from the packed Add array: even
// cells occupy the low nybble of byte i/2, odd cells the high nybble.
func nybbleAt(add []byte, i int) byte {
	b := add[i/2]
	if i&1 == 0 {
		return b & 0x0F
	}
	return (b >> 4) & 0x0F
}

func setNybble(add []byte, i int, v byte) {
	byteIdx := i / 2
	if i&1 == 0 {
		add[byteIdx] = (add[byteIdx] &^ 0x0F) | (v & 0x0F)
	} else {
		add[byteIdx] = (add[byteIdx] &^ 0xF0) | ((v & 0x0F) << 4)
	}
}

// Remap looks up blockMap[cell] for every cell and returns the remapped
// array. An absent mapping is fatal: an unhandled identifier cannot be
// migrated safely.
func Remap(cells [CellCount]uint16, blockMap map[int]maptable.RemapEntry) ([CellCount]uint16, error) {
	var out [CellCount]uint16
	for i, cell := range cells {
		entry, ok := blockMap[int(cell)]
		if !ok {
			return out, &ErrMissingMapping{Cell: int(cell)}
		}
		if entry.Split {
			return out, fmt.Errorf("block map entry for identifier %d is damage-split; blocks do not carry a damage value", cell)
		}
		out[i] = uint16(entry.Plain)
	}
	return out, nil
}

// Encode packs cell values back into a Blocks byte array and, if any
// cell exceeds 255, a freshly synthesized Add byte array. Writes the
// result into section, removing any stale Add child when no longer
// needed.
func Encode(section *tagtree.Tag, cells [CellCount]uint16) error {
	blocks := make([]byte, BlocksSize)
	needsAdd := false
	for _, c := range cells {
		if c > 0xFF {
			needsAdd = true
			break
		}
	}

	var add []byte
	if needsAdd {
		add = make([]byte, AddSize)
	}

	for i, c := range cells {
		blocks[i] = byte(c & 0xFF)
		if needsAdd {
			setNybble(add, i, byte((c>>8)&0x0F))
		}
	}

	section.Put("Blocks", tagtree.NewByteArray(blocks))
	if needsAdd {
		section.Put("Add", tagtree.NewByteArray(add))
	} else {
		section.Remove("Add")
	}
	return nil
}

// RemapSection decodes, remaps, and re-encodes a section in place.
func RemapSection(section *tagtree.Tag, blockMap map[int]maptable.RemapEntry) error {
	cells, err := Decode(section)
	if err != nil {
		return err
	}
	remapped, err := Remap(cells, blockMap)
	if err != nil {
		return err
	}
	return Encode(section, remapped)
}
