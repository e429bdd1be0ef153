package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const tankKind = "tank"

// defaultTankCapacity is the documented constant a tank's newer schema
// defaults a missing capacity field to.
const defaultTankCapacity = 250

// TankTransformer remaps a tank's stored liquid identifier — whichever
// of the two shapes currently holds it, top-level liquidId or nested
// tank.Id, exactly as buildcraft's TankRemapper.remap_te checks both
// independently — migrates the legacy flat liquidId/liquidAmount pair
// into the newer nested tank.Id/tank.Amount compound (key relocation),
// and defaults a missing Capacity to defaultTankCapacity (schema
// expansion). Re-running against the same MapInfo after a real
// migration is not expected to succeed a second time, since tank.Id by
// then holds a new-space identifier the old-space MapInfo no longer
// recognizes; that mirrors the original tool exactly.
type TankTransformer struct {
	transform.Base
}

// NewTankTransformer returns the tank family's catalog entry.
func NewTankTransformer() *TankTransformer {
	return &TankTransformer{}
}

func (tt *TankTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, tankKind) {
		if err := tt.remapTank(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (tt *TankTransformer) remapTank(ctx *transform.Context, te *tagtree.Tag) error {
	if err := remapRawIdentifierField(ctx, te, "liquidId"); err != nil {
		return err
	}

	if _, hasNested := tagtree.FindChild(te, "tank"); !hasNested {
		relocateInto(te, "liquidId", "tank", "Id")
		relocateInto(te, "liquidAmount", "tank", "Amount")
		te.Remove("liquidMeta")
	} else if tank, ok := tagtree.FindChild(te, "tank"); ok {
		if err := remapRawIdentifierField(ctx, tank, "Id"); err != nil {
			return err
		}
	}

	if _, hasCap := tagtree.FindChild(te, "Capacity"); !hasCap {
		te.Put("Capacity", tagtree.NewInt(defaultTankCapacity))
	}
	return nil
}
