package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const cokeOvenKind = "cokeOven"

// defaultCokeOvenBurnTime is the documented constant a coke oven's
// newer schema defaults a missing BurnTime field to.
const defaultCokeOvenBurnTime = 1600

// CokeOvenTransformer defaults a missing BurnTime to
// defaultCokeOvenBurnTime (schema expansion) and remaps identifiers in
// the Fuel and Output slots.
type CokeOvenTransformer struct {
	transform.Base
}

// NewCokeOvenTransformer returns the coke-oven family's catalog entry.
func NewCokeOvenTransformer() *CokeOvenTransformer {
	return &CokeOvenTransformer{}
}

func (c *CokeOvenTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, cokeOvenKind) {
		if err := c.remapOven(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (c *CokeOvenTransformer) remapOven(ctx *transform.Context, te *tagtree.Tag) error {
	if _, ok := tagtree.FindChild(te, "BurnTime"); !ok {
		te.Put("BurnTime", tagtree.NewInt(defaultCokeOvenBurnTime))
	}

	for _, name := range []string{"Fuel", "Output"} {
		item, ok := tagtree.FindChild(te, name)
		if !ok {
			continue
		}
		if _, hasID := tagtree.FindChild(item, "id"); hasID {
			if err := ctx.RemapItem(item); err != nil {
				return err
			}
		}
	}
	return nil
}
