package tagtree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLRoundTrip(t *testing.T) {
	c := NewCompound()
	c.Put("id", NewString("pipe"))
	c.Put("Damage", NewShort(7))
	c.Put("data", NewByteArray([]byte{0x00, 0xAB, 0xFF}))

	list := NewList(KindCompound)
	require.NoError(t, list.Append(NewCompound()))
	c.Put("Items", list)

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, c))

	got, err := ReadXML(&buf)
	require.NoError(t, err)

	assert.Equal(t, KindCompound, got.Kind)
	idVal, ok := FindChild(got, "id")
	require.True(t, ok)
	assert.Equal(t, "pipe", idVal.Str)

	dmg, ok := FindChild(got, "Damage")
	require.True(t, ok)
	assert.Equal(t, int16(7), dmg.Short)

	data, ok := FindChild(got, "data")
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0xAB, 0xFF}, data.Bytes)

	items, ok := FindChild(got, "Items")
	require.True(t, ok)
	assert.Equal(t, KindList, items.Kind)
	assert.Equal(t, KindCompound, items.ElemKind)
	assert.Len(t, items.Items, 1)
}

func TestReadXML_StripsWhitespaceInHex(t *testing.T) {
	xmlDoc := `<byteArray>AB 01\nFF</byteArray>`
	xmlDoc = strings.ReplaceAll(xmlDoc, `\n`, "\n")

	got, err := ReadXML(strings.NewReader(xmlDoc))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0x01, 0xFF}, got.Bytes)
}

func TestReadXML_EmptyListNoSubtype(t *testing.T) {
	got, err := ReadXML(strings.NewReader(`<list>0</list>`))
	require.NoError(t, err)
	assert.Equal(t, KindList, got.Kind)
	assert.Empty(t, got.Items)
}

func TestWriteXML_ByteArrayUppercase(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, NewByteArray([]byte{0xab, 0xcd})))
	assert.Contains(t, buf.String(), "ABCD")
}
