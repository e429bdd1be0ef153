package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const energyConduitKind = "energyConduit"

// EnergyConduitTransformer renames a conduit's legacy "Energy" field to
// "RF_Stored" (key rename) and narrows its routing-network "Color"
// field from Int to Byte (type narrowing), matching the same two
// patterns EngineTransformer applies, on a distinct tile-entity kind.
type EnergyConduitTransformer struct {
	transform.Base
}

// NewEnergyConduitTransformer returns the energy-conduit family's
// catalog entry.
func NewEnergyConduitTransformer() *EnergyConduitTransformer {
	return &EnergyConduitTransformer{}
}

func (e *EnergyConduitTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, energyConduitKind) {
		renameKey(te, "Energy", "RF_Stored")
		narrowIntToByte(te, "Color")
	}
	return nil
}
