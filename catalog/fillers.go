package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const fillerKind = "filler"

// fillerInventorySize is the newer schema's fixed inventory width for a
// filler.
const fillerInventorySize = 36

// FillerTransformer reshapes a filler's sparse, Slot-tagged Items list
// into the canonical 36-slot dense list, then remaps every present
// item's identifier via the item-remap primitive.
type FillerTransformer struct {
	transform.Base
}

// NewFillerTransformer returns the filler family's catalog entry.
func NewFillerTransformer() *FillerTransformer {
	return &FillerTransformer{}
}

func (f *FillerTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, fillerKind) {
		if err := f.remapFiller(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (f *FillerTransformer) remapFiller(ctx *transform.Context, te *tagtree.Tag) error {
	list, ok := tagtree.FindChild(te, "Items")
	if !ok || list.Kind != tagtree.KindList {
		return nil
	}
	dense := reshapeSparseToDense(list, fillerInventorySize)
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
