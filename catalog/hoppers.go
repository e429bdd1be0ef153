package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const hopperKind = "hopper"

// hopperInventorySize is the vanilla-compatible fixed inventory width a
// modded hopper's newer schema standardizes on.
const hopperInventorySize = 5

// HopperTransformer applies the same sparse-to-dense inventory reshape
// as FillerTransformer, at hopper's narrower fixed width, and recurses
// into every present stack via the item-remap primitive.
type HopperTransformer struct {
	transform.Base
}

// NewHopperTransformer returns the hopper family's catalog entry.
func NewHopperTransformer() *HopperTransformer {
	return &HopperTransformer{}
}

func (h *HopperTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, hopperKind) {
		if err := h.remapHopper(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (h *HopperTransformer) remapHopper(ctx *transform.Context, te *tagtree.Tag) error {
	list, ok := tagtree.FindChild(te, "Items")
	if !ok || list.Kind != tagtree.KindList {
		return nil
	}
	dense := reshapeSparseToDense(list, hopperInventorySize)
	te.Put("Items", dense)

	for _, item := range dense.Items {
		if _, hasID := tagtree.FindChild(item, "id"); hasID {
			if err := ctx.RemapItem(item); err != nil {
				return err
			}
		}
	}
	return nil
}
