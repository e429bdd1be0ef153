package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHierarchical_Basic(t *testing.T) {
	src := `
block {
    stone = 1
    pipes {
        itemPipe = 150
    }
}
item {
    wrench = 500
}
general {
    ignored = 999
}
`
	c, err := ParseHierarchical(strings.NewReader(src))
	require.NoError(t, err)

	v, ok := c.GetBlock("stone")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = c.GetBlock("pipes.itemPipe")
	require.True(t, ok)
	assert.Equal(t, 150, v)

	v, ok = c.GetItem("wrench")
	require.True(t, ok)
	assert.Equal(t, 500, v)

	_, ok = c.GetBlock("ignored")
	assert.False(t, ok)

	blocks, enumerable := c.AutoBlocks()
	require.True(t, enumerable)
	assert.ElementsMatch(t, []string{"stone", "pipes.itemPipe"}, blocks)

	items, enumerable := c.AutoItems()
	require.True(t, enumerable)
	assert.Equal(t, []string{"wrench"}, items)
}

func TestParseHierarchical_FreeformBlockIgnored(t *testing.T) {
	src := `
block {
    stone = 1
    description <
        anything goes here
        even key = value looking lines
    >
    dirt = 3
}
`
	c, err := ParseHierarchical(strings.NewReader(src))
	require.NoError(t, err)
	_, ok := c.GetBlock("dirt")
	assert.True(t, ok)
	_, ok = c.GetBlock("value")
	assert.False(t, ok)
}

func TestParseHierarchical_MultipleBlockSectionsFatal(t *testing.T) {
	src := `
block {
    stone = 1
}
block {
    dirt = 2
}
`
	_, err := ParseHierarchical(strings.NewReader(src))
	require.Error(t, err)
	var cfgErr *ErrConfig
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseHierarchicalPrefixed_StripsIPrefix(t *testing.T) {
	src := `
block {
    I:stone=1
    S:name=ignored
    I:dirt=3
}
`
	c, err := ParseHierarchicalPrefixed(strings.NewReader(src))
	require.NoError(t, err)

	v, ok := c.GetBlock("stone")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.GetBlock("name")
	assert.False(t, ok)

	v, ok = c.GetBlock("dirt")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestParseHierarchical_TooManyEqualsIsFatal(t *testing.T) {
	src := `
block {
    stone = 1 = 2
}
`
	_, err := ParseHierarchical(strings.NewReader(src))
	require.Error(t, err)
	var cfgErr *ErrConfig
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseHierarchical_NoEqualsIsFatal(t *testing.T) {
	src := `
block {
    stonewithoutvalue
}
`
	_, err := ParseHierarchical(strings.NewReader(src))
	require.Error(t, err)
	var cfgErr *ErrConfig
	assert.ErrorAs(t, err, &cfgErr)
}
