package regionmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkmigrate/chunkmigrate/packedblock"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
)

func colorAt(img image.Image, x, y int) color.RGBA {
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: byte(r >> 8), G: byte(g >> 8), B: byte(b >> 8), A: byte(a >> 8)}
}

func uniformSection(t *testing.T, y int8, cell uint16) *tagtree.Tag {
	t.Helper()
	blocks := make([]byte, packedblock.BlocksSize)
	low := byte(cell & 0xFF)
	for i := range blocks {
		blocks[i] = low
	}
	sec := tagtree.NewCompound()
	sec.Put("Y", tagtree.NewByte(y))
	sec.Put("Blocks", tagtree.NewByteArray(blocks))
	if cell > 0xFF {
		add := make([]byte, packedblock.AddSize)
		high := byte((cell >> 8) & 0x0F)
		packed := high | (high << 4)
		for i := range add {
			add[i] = packed
		}
		sec.Put("Add", tagtree.NewByteArray(add))
	}
	return sec
}

func chunkRoot(t *testing.T, sections ...*tagtree.Tag) *tagtree.Tag {
	t.Helper()
	sectionList := tagtree.NewList(tagtree.KindCompound)
	for _, s := range sections {
		require.NoError(t, sectionList.Append(s))
	}
	level := tagtree.NewCompound()
	level.Put("Sections", sectionList)
	inner := tagtree.NewCompound()
	inner.Put("Level", level)
	root := tagtree.NewCompound()
	root.Put("", inner)
	return root
}

func TestDecodeSectionsSortsByY(t *testing.T) {
	root := chunkRoot(t, uniformSection(t, 2, 5), uniformSection(t, 0, 7))
	sections, err := decodeSections(root)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, int8(0), sections[0].Y)
	assert.Equal(t, int8(2), sections[1].Y)
}

func TestTopDownFindsTopmostNonAirCell(t *testing.T) {
	// Lower section all stone (id 1), upper section empty (air, id 0):
	// the topmost non-air cell for every column should come from the
	// lower section.
	root := chunkRoot(t, uniformSection(t, 0, 1), uniformSection(t, 1, 0))
	sections, err := decodeSections(root)
	require.NoError(t, err)

	img := TopDown(sections, 2)
	bounds := img.Bounds()
	assert.Equal(t, sideCells*2, bounds.Dx())
	assert.Equal(t, sideCells*2, bounds.Dy())

	id, found := topmostCell(sections, 0, 0)
	assert.True(t, found)
	assert.Equal(t, uint16(1), id)
}

func TestTopDownAllAirColumnStaysBackground(t *testing.T) {
	root := chunkRoot(t, uniformSection(t, 0, 0))
	sections, err := decodeSections(root)
	require.NoError(t, err)

	_, found := topmostCell(sections, 3, 3)
	assert.False(t, found)
}

func TestLayerRendersOnlyMatchingSection(t *testing.T) {
	root := chunkRoot(t, uniformSection(t, 0, 9))
	sections, err := decodeSections(root)
	require.NoError(t, err)

	img := Layer(sections, 0, 0, 1)
	gotColor := colorAt(img, 0, 0)
	assert.Equal(t, colorForID(9), gotColor)

	missing := Layer(sections, 5, 0, 1)
	assert.Equal(t, uint8(20), colorAt(missing, 0, 0).R, "section with no matching Y should stay background")
}

func TestColorForIDIsDeterministic(t *testing.T) {
	c1 := colorForID(42)
	c2 := colorForID(42)
	assert.Equal(t, c1, c2)

	c3 := colorForID(43)
	assert.NotEqual(t, c1, c3)
}

func TestAnimatorAccumulatesFrames(t *testing.T) {
	root := chunkRoot(t, uniformSection(t, 0, 1))
	sections, err := decodeSections(root)
	require.NoError(t, err)

	anim := NewAnimator(100)
	anim.AddFrame(TopDown(sections, 2))
	anim.AddFrame(TopDown(sections, 2))
	assert.Equal(t, 2, anim.FrameCount())
}
