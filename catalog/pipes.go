package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

// pipeKind is the tile-entity id shared by every pipe segment regardless
// of routing material.
const pipeKind = "pipe"

// PipeTransformer remaps a pipe segment's "pipeId" — the placement item
// id that actually carries its routing material, distinct from the
// shared tile-entity kind — migrates the old single-direction "Dir"
// field into the newer schema's split "PrevDir"/"NextDir" pair (schema
// expansion: one scalar becomes two copies of itself), and descends into
// a carried item stack via the by-structure "tag.Items" shape rather
// than a kind tag, since loose pipe contents never carried one.
//
// Open question carried from the distillation: corner routing when a
// pipe elbow splits "Dir" is not reconstructible from the single old
// field alone, so PrevDir and NextDir both receive the old value. This
// is accepted data loss, not a bug.
type PipeTransformer struct {
	transform.Base
}

// NewPipeTransformer returns the pipe family's catalog entry.
func NewPipeTransformer() *PipeTransformer {
	return &PipeTransformer{}
}

func (p *PipeTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, pipeKind) {
		if err := p.remapPipe(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (p *PipeTransformer) remapPipe(ctx *transform.Context, te *tagtree.Tag) error {
	// Pipes are internally identified by the item id used to place them;
	// that id, not the tile-entity kind, carries the routing material.
	if err := remapRawIdentifierField(ctx, te, "pipeId"); err != nil {
		return err
	}

	if _, hasNew := tagtree.FindChild(te, "NextDir"); !hasNew {
		if dir, ok := tagtree.FindChild(te, "Dir"); ok {
			te.Put("PrevDir", dir)
			te.Put("NextDir", dir)
			te.Remove("Dir")
		}
	}

	list, ok := hasTagItemsShape(te)
	if !ok {
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
