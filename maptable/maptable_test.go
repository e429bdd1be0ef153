package maptable

import (
	"strings"
	"testing"

	"github.com/chunkmigrate/chunkmigrate/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHierarchical(t *testing.T, src string) *config.HierarchicalConfig {
	t.Helper()
	c, err := config.ParseHierarchical(strings.NewReader(src))
	require.NoError(t, err)
	return c
}

func TestBuild_IdentityAndRename(t *testing.T) {
	oldBlocks := mustHierarchical(t, "block {\nstone = 1\ndirt = 2\n}\n")
	oldItems := mustHierarchical(t, "item {\nwrench = 10\n}\n")
	newBlocks := mustHierarchical(t, "block {\nstone = 1\ncobble = 50\n}\n")
	newItems := mustHierarchical(t, "item {\nwrench = 99\n}\n")

	mod := ModRule{
		Name:     "testmod",
		OldBlock: oldBlocks,
		OldItem:  oldItems,
		NewBlock: newBlocks,
		NewItem:  newItems,
		Rename: map[string]string{
			"dirt": "cobble",
		},
	}

	info, err := Build(oldBlocks, oldItems, []ModRule{mod})
	require.NoError(t, err)

	entry, ok := info.Blocks[2]
	require.True(t, ok)
	assert.Equal(t, 50, entry.Plain)

	wrenchEntry, ok := info.Items[10+itemShift]
	require.True(t, ok)
	assert.Equal(t, 99+itemShift, wrenchEntry.Plain)

	// Blocks are copied into the item table (blocks-as-items).
	_, ok = info.Items[2]
	assert.True(t, ok)
}

func TestBuild_UnresolvedTargetYieldsNoEntry(t *testing.T) {
	oldBlocks := mustHierarchical(t, "block {\nghost = 5\n}\n")
	newBlocks := mustHierarchical(t, "block {\n}\n")
	empty := mustHierarchical(t, "block {\n}\nitem {\n}\n")

	mod := ModRule{
		Name:     "testmod",
		OldBlock: oldBlocks,
		OldItem:  empty,
		NewBlock: newBlocks,
		NewItem:  empty,
		Rename:   map[string]string{"ghost": "doesnotexist"},
	}

	info, err := Build(empty, empty, []ModRule{mod})
	require.NoError(t, err)
	_, ok := info.Blocks[5]
	assert.False(t, ok)
}

func TestBuild_DamageSplitWinsOverPrefix(t *testing.T) {
	oldItems := mustHierarchical(t, "item {\nliquid.water = 8\n}\n")
	newItems := mustHierarchical(t, "item {\nfluidWater = 20\nfluidGeneric = 1\n}\n")
	empty := mustHierarchical(t, "block {\n}\nitem {\n}\n")

	mod := ModRule{
		Name:     "testmod",
		OldBlock: empty,
		OldItem:  oldItems,
		NewBlock: empty,
		NewItem:  newItems,
		Rename: map[string]string{
			"liquid": "fluidGeneric",
		},
		Damage: map[DamageKey]DamageRule{
			{Name: "liquid.water", Damage: 0}: {Target: "20", TargetDamage: 0},
		},
	}

	info, err := Build(empty, empty, []ModRule{mod})
	require.NoError(t, err)

	id, _ := oldItems.GetItem("liquid.water")
	entry, ok := info.Items[id+itemShift]
	require.True(t, ok)
	require.True(t, entry.Split)
	target, ok := entry.ByDamage[0]
	require.True(t, ok)
	assert.Equal(t, 20, target.ID)
}

func TestBuild_DamageSplitResolvesSymbolicTargetViaItemThenBlockFallback(t *testing.T) {
	oldItems := mustHierarchical(t, "item {\nliquid.lava = 9\n}\n")
	newItems := mustHierarchical(t, "item {\nfluidLava = 30\n}\n")
	newBlocks := mustHierarchical(t, "block {\nfluidLavaBlock = 77\n}\n")
	empty := mustHierarchical(t, "block {\n}\nitem {\n}\n")

	mod := ModRule{
		Name:     "testmod",
		OldBlock: empty,
		OldItem:  oldItems,
		NewBlock: newBlocks,
		NewItem:  newItems,
		Damage: map[DamageKey]DamageRule{
			{Name: "liquid.lava", Damage: 0}: {Target: "fluidLava", TargetDamage: 0},
		},
	}

	info, err := Build(empty, empty, []ModRule{mod})
	require.NoError(t, err)

	id, _ := oldItems.GetItem("liquid.lava")
	entry, ok := info.Items[id+itemShift]
	require.True(t, ok)
	require.True(t, entry.Split)
	target, ok := entry.ByDamage[0]
	require.True(t, ok)
	assert.Equal(t, 30+itemShift, target.ID)
}

func TestBuild_ManualIntegerOverride(t *testing.T) {
	oldBlocks := mustHierarchical(t, "block {\n}\n")
	newBlocks := mustHierarchical(t, "block {\n}\n")
	empty := mustHierarchical(t, "block {\n}\nitem {\n}\n")

	mod := ModRule{
		Name:     "testmod",
		OldBlock: oldBlocks,
		OldItem:  empty,
		NewBlock: newBlocks,
		NewItem:  empty,
		Manual:   map[string]int{"150": 300},
	}

	info, err := Build(empty, empty, []ModRule{mod})
	require.NoError(t, err)
	entry, ok := info.Blocks[150]
	require.True(t, ok)
	assert.Equal(t, 300, entry.Plain)
}

func TestBuild_LongestPrefixWins(t *testing.T) {
	oldBlocks := mustHierarchical(t, "block {\npipes.iron.input = 10\n}\n")
	newBlocks := mustHierarchical(t, "block {\ngenericPipe = 1\nironInputPipe = 2\n}\n")
	empty := mustHierarchical(t, "block {\n}\nitem {\n}\n")

	mod := ModRule{
		Name:     "testmod",
		OldBlock: oldBlocks,
		OldItem:  empty,
		NewBlock: newBlocks,
		NewItem:  empty,
		Rename: map[string]string{
			"pipes":            "genericPipe",
			"pipes.iron.input": "ironInputPipe",
		},
	}

	info, err := Build(empty, empty, []ModRule{mod})
	require.NoError(t, err)
	entry, ok := info.Blocks[10]
	require.True(t, ok)
	assert.Equal(t, 2, entry.Plain)
}
