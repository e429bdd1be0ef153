package transform

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
)

// ByKindTileEntity is the by-kind tile-entity convenience
// specialization: its RemapChunk locates every tile entity whose id
// equals Kind and forwards each to RemapFn.
type ByKindTileEntity struct {
	Base
	Kind    string
	RemapFn func(ctx *Context, te *tagtree.Tag) error
}

// NewByKindTileEntity constructs a transformer dispatching tile entities
// named kind to fn.
func NewByKindTileEntity(kind string, fn func(ctx *Context, te *tagtree.Tag) error) *ByKindTileEntity {
	return &ByKindTileEntity{Kind: kind, RemapFn: fn}
}

func (b *ByKindTileEntity) RemapChunk(ctx *Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, b.Kind) {
		if err := b.RemapFn(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

// ByKindEntity is the analogous specialization against the Entities
// list.
type ByKindEntity struct {
	Base
	Kind    string
	RemapFn func(ctx *Context, e *tagtree.Tag) error
}

// NewByKindEntity constructs a transformer dispatching entities named
// kind to fn.
func NewByKindEntity(kind string, fn func(ctx *Context, e *tagtree.Tag) error) *ByKindEntity {
	return &ByKindEntity{Kind: kind, RemapFn: fn}
}

func (b *ByKindEntity) RemapChunk(ctx *Context, chunk *tagtree.Tag) error {
	entities, err := tagtree.Entities(chunk)
	if err != nil {
		return err
	}
	for _, e := range tagtree.FilterByKind(entities, b.Kind) {
		if err := b.RemapFn(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
