package packedblock

import (
	"testing"

	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionWithUniformCell(t *testing.T, cell uint16) *tagtree.Tag {
	t.Helper()
	blocks := make([]byte, BlocksSize)
	low := byte(cell & 0xFF)
	for i := range blocks {
		blocks[i] = low
	}
	sec := tagtree.NewCompound()
	sec.Put("Blocks", tagtree.NewByteArray(blocks))

	if cell > 0xFF {
		add := make([]byte, AddSize)
		high := byte((cell >> 8) & 0x0F)
		packed := high | (high << 4)
		for i := range add {
			add[i] = packed
		}
		sec.Put("Add", tagtree.NewByteArray(add))
	}
	return sec
}

func TestDecode_NoAdd(t *testing.T) {
	sec := sectionWithUniformCell(t, 17)
	cells, err := Decode(sec)
	require.NoError(t, err)
	for _, c := range cells {
		assert.Equal(t, uint16(17), c)
	}
}

func TestDecode_WithAdd(t *testing.T) {
	sec := sectionWithUniformCell(t, 300)
	cells, err := Decode(sec)
	require.NoError(t, err)
	for _, c := range cells {
		assert.Equal(t, uint16(300), c)
	}
}

func TestEncode_RemovesAddWhenUnneeded(t *testing.T) {
	sec := sectionWithUniformCell(t, 300)
	var cells [CellCount]uint16
	for i := range cells {
		cells[i] = 17
	}
	require.NoError(t, Encode(sec, cells))

	_, hasAdd := tagtree.FindChild(sec, "Add")
	assert.False(t, hasAdd)

	blocksTag, _ := tagtree.FindChild(sec, "Blocks")
	for _, b := range blocksTag.Bytes {
		assert.Equal(t, byte(17), b)
	}
}

func TestEncode_SynthesizesAddWhenNeeded(t *testing.T) {
	sec := sectionWithUniformCell(t, 17)
	var cells [CellCount]uint16
	for i := range cells {
		cells[i] = 300
	}
	require.NoError(t, Encode(sec, cells))

	addTag, ok := tagtree.FindChild(sec, "Add")
	require.True(t, ok)
	assert.Len(t, addTag.Bytes, AddSize)

	blocksTag, _ := tagtree.FindChild(sec, "Blocks")
	for _, b := range blocksTag.Bytes {
		assert.Equal(t, byte(300&0xFF), b)
	}
}

func TestRoundTrip_NoRemapPreservesBytes(t *testing.T) {
	sec := sectionWithUniformCell(t, 4095)
	originalBlocks, _ := tagtree.FindChild(sec, "Blocks")
	originalAdd, _ := tagtree.FindChild(sec, "Add")

	cells, err := Decode(sec)
	require.NoError(t, err)
	require.NoError(t, Encode(sec, cells))

	newBlocks, _ := tagtree.FindChild(sec, "Blocks")
	newAdd, _ := tagtree.FindChild(sec, "Add")
	assert.Equal(t, originalBlocks.Bytes, newBlocks.Bytes)
	assert.Equal(t, originalAdd.Bytes, newAdd.Bytes)
}

func TestBoundaryCells(t *testing.T) {
	for _, cell := range []uint16{0, 255, 256, 4095} {
		sec := sectionWithUniformCell(t, cell)
		cells, err := Decode(sec)
		require.NoError(t, err)
		assert.Equal(t, cell, cells[0])
		assert.Equal(t, cell, cells[CellCount-1])
	}
}

func TestRemap_MissingMappingIsFatal(t *testing.T) {
	var cells [CellCount]uint16
	cells[0] = 17
	_, err := Remap(cells, map[int]maptable.RemapEntry{})
	require.Error(t, err)
	var missing *ErrMissingMapping
	assert.ErrorAs(t, err, &missing)
}

func TestRemapSection_SpecExampleCell17To300(t *testing.T) {
	sec := sectionWithUniformCell(t, 17)
	blockMap := map[int]maptable.RemapEntry{17: {Plain: 300}}
	require.NoError(t, RemapSection(sec, blockMap))

	blocksTag, _ := tagtree.FindChild(sec, "Blocks")
	require.Len(t, blocksTag.Bytes, BlocksSize)
	for _, b := range blocksTag.Bytes {
		assert.Equal(t, byte(0x2C), b)
	}

	addTag, ok := tagtree.FindChild(sec, "Add")
	require.True(t, ok)
	require.Len(t, addTag.Bytes, AddSize)
	for _, b := range addTag.Bytes {
		assert.Equal(t, byte(0x11), b)
	}
}

func TestRemapSection_MixedCellsAddPresenceToggles(t *testing.T) {
	var cells [CellCount]uint16
	mix := [3]uint16{250, 300, 500}
	for i := range cells {
		cells[i] = mix[i%3]
	}

	sec := tagtree.NewCompound()
	require.NoError(t, Encode(sec, cells))
	_, hasAdd := tagtree.FindChild(sec, "Add")
	assert.True(t, hasAdd, "a section containing cells above 255 must carry Add")

	// Identity remap: Add must still be present.
	identity := map[int]maptable.RemapEntry{250: {Plain: 250}, 300: {Plain: 300}, 500: {Plain: 500}}
	decoded, err := Decode(sec)
	require.NoError(t, err)
	remapped, err := Remap(decoded, identity)
	require.NoError(t, err)
	require.NoError(t, Encode(sec, remapped))
	_, hasAdd = tagtree.FindChild(sec, "Add")
	assert.True(t, hasAdd)

	// A subsequent migration that maps every cell back under 256 removes Add.
	collapse := map[int]maptable.RemapEntry{250: {Plain: 250}, 300: {Plain: 44}, 500: {Plain: 200}}
	remapped, err = Remap(remapped, collapse)
	require.NoError(t, err)
	require.NoError(t, Encode(sec, remapped))
	_, hasAdd = tagtree.FindChild(sec, "Add")
	assert.False(t, hasAdd)
}
