package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const assemblyTableKind = "assemblyTable"

// AssemblyTableTransformer relocates an assembly table's legacy
// top-level "Recipe" list into a nested "recipe" compound's "Items"
// child (key relocation), detecting the already-migrated shape by the
// presence of that nested compound rather than a version tag (the
// by-structure detection pattern), and remaps identifiers for every
// held item regardless of which pass placed them.
type AssemblyTableTransformer struct {
	transform.Base
}

// NewAssemblyTableTransformer returns the assembly-table family's
// catalog entry.
func NewAssemblyTableTransformer() *AssemblyTableTransformer {
	return &AssemblyTableTransformer{}
}

func (a *AssemblyTableTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, assemblyTableKind) {
		if err := a.remapTable(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (a *AssemblyTableTransformer) remapTable(ctx *transform.Context, te *tagtree.Tag) error {
	recipe, ok := tagtree.FindChild(te, "recipe")
	if !ok {
		relocateInto(te, "Recipe", "recipe", "Items")
		recipe, ok = tagtree.FindChild(te, "recipe")
		if !ok {
			return nil
		}
	}

	list, ok := tagtree.FindChild(recipe, "Items")
	if !ok || list.Kind != tagtree.KindList {
		return nil
	}
	for _, item := range list.Items {
		if _, hasID := tagtree.FindChild(item, "id"); hasID {
			if err := ctx.RemapItem(item); err != nil {
				return err
			}
		}
	}
	return nil
}
