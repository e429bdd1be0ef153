package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const engineKind = "engine"

// EngineTransformer renames an engine's legacy "Power" field to
// "RF_Stored" (key rename) and narrows its "Facing" field from an Int
// to a Byte once migrated (type narrowing), since the newer schema
// never needs more than 6 directions.
type EngineTransformer struct {
	transform.Base
}

// NewEngineTransformer returns the engine family's catalog entry.
func NewEngineTransformer() *EngineTransformer {
	return &EngineTransformer{}
}

func (e *EngineTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, engineKind) {
		renameKey(te, "Power", "RF_Stored")
		narrowIntToByte(te, "Facing")
	}
	return nil
}
