package tagtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNamed_FirstMatchWins(t *testing.T) {
	c := NewCompound()
	c.Put("id", NewString("first"))
	c.Slots = append(c.Slots, NamedSlot{Name: "id", Value: NewString("duplicate")})

	slot, ok := FindNamed(c, "id")
	require.True(t, ok)
	assert.Equal(t, "first", slot.Value.Str)
}

func TestFindChild_Absent(t *testing.T) {
	c := NewCompound()
	_, ok := FindChild(c, "missing")
	assert.False(t, ok)
}

func TestPut_ReplacesInPlace(t *testing.T) {
	c := NewCompound()
	c.Put("a", NewInt(1))
	c.Put("b", NewInt(2))
	c.Put("a", NewInt(99))

	require.Len(t, c.Slots, 2)
	assert.Equal(t, "a", c.Slots[0].Name)
	assert.Equal(t, int32(99), c.Slots[0].Value.Int)
}

func TestNumberOf_LegalKinds(t *testing.T) {
	v, err := NumberOf(NewShort(42), KindShort, KindInt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestNumberOf_IllegalKindIsStructuralError(t *testing.T) {
	_, err := NumberOf(NewString("nope"), KindShort)
	require.Error(t, err)
	var structErr *StructuralError
	assert.ErrorAs(t, err, &structErr)
}

func TestChunkLocators(t *testing.T) {
	tileEntity := NewCompound()
	tileEntity.Put("id", NewString("pipe"))

	entityList := NewList(KindCompound)
	require.NoError(t, entityList.Append(tileEntity))

	sectionList := NewList(KindCompound)
	require.NoError(t, sectionList.Append(NewCompound()))

	level := NewCompound()
	level.Put("Sections", sectionList)
	level.Put("TileEntities", entityList)

	inner := NewCompound()
	inner.Put("Level", level)

	root := NewCompound()
	root.Put("", inner)

	sections, err := Sections(root)
	require.NoError(t, err)
	assert.Len(t, sections, 1)

	tiles, err := TileEntities(root)
	require.NoError(t, err)
	require.Len(t, tiles, 1)

	pipes := FilterByKind(tiles, "pipe")
	assert.Len(t, pipes, 1)

	others := FilterByKind(tiles, "tank")
	assert.Empty(t, others)
}

func TestAppend_EnforcesHomogeneity(t *testing.T) {
	l := NewList(KindInt)
	require.NoError(t, l.Append(NewInt(1)))
	err := l.Append(NewString("oops"))
	assert.Error(t, err)
}
