package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlat_Basic(t *testing.T) {
	src := "# a comment\n\nstone = 1\nDIRT=3\n"
	c, err := ParseFlat(strings.NewReader(src))
	require.NoError(t, err)

	v, ok := c.GetBlock("stone")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = c.GetItem("DIRT")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestParseFlat_MissingEqualsIsFatal(t *testing.T) {
	_, err := ParseFlat(strings.NewReader("badline\n"))
	require.Error(t, err)
	var cfgErr *ErrConfig
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseFlat_NonIntegerSkipped(t *testing.T) {
	c, err := ParseFlat(strings.NewReader("stone = notanumber\n"))
	require.NoError(t, err)
	_, ok := c.GetBlock("stone")
	assert.False(t, ok)
}

func TestParseFlat_MultipleEqualsIsFatal(t *testing.T) {
	_, err := ParseFlat(strings.NewReader("stone = 1 = 2\n"))
	require.Error(t, err)
	var cfgErr *ErrConfig
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseFlat_NotEnumerable(t *testing.T) {
	c, err := ParseFlat(strings.NewReader("stone = 1\n"))
	require.NoError(t, err)
	_, ok := c.AutoBlocks()
	assert.False(t, ok)
	_, ok = c.AutoItems()
	assert.False(t, ok)
}
