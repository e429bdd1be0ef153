// Package transform provides the traversal pipeline that dispatches
// chunks, loose items, players, and liquids to every registered
// Transformer. A Context carries the immutable MapInfo and the frozen
// transformer list so no package-level mutable state is needed to let
// one transformer's item-remap primitive recurse into another's nested
// containers.
package transform

import (
	"fmt"

	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
)

// Transformer exposes four independent, individually optional hooks.
// Concrete transformers are literal-constructed values (the catalog is
// data, not new mechanism) satisfying this one interface rather than a
// class hierarchy with overridable methods.
type Transformer interface {
	// RemapChunk is free to mutate any part of the chunk tag tree.
	RemapChunk(ctx *Context, chunk *tagtree.Tag) error
	// RemapItem is called for every item compound after its identifier
	// has been translated, enabling nested-container recursion.
	RemapItem(ctx *Context, item *tagtree.Tag) error
	// RemapPlayer is called once per player root compound.
	RemapPlayer(ctx *Context, player *tagtree.Tag) error
	// RemapLiquid is a reserved hook, currently always identity in the
	// catalog.
	RemapLiquid(ctx *Context, liquid *tagtree.Tag) error
}

// Base is embedded by concrete transformers to make all four hooks
// no-ops by default; a transformer overrides only the ones it needs.
type Base struct{}

func (Base) RemapChunk(*Context, *tagtree.Tag) error  { return nil }
func (Base) RemapItem(*Context, *tagtree.Tag) error   { return nil }
func (Base) RemapPlayer(*Context, *tagtree.Tag) error { return nil }
func (Base) RemapLiquid(*Context, *tagtree.Tag) error { return nil }

// Context is the explicit collaborator object threaded through every
// traversal call, replacing a process-wide transformer registry: the
// immutable map info plus the frozen transformer list, populated once at
// startup.
type Context struct {
	MapInfo      *maptable.MapInfo
	Transformers []Transformer
}

// NewContext freezes a transformer list against a built MapInfo.
func NewContext(info *maptable.MapInfo, transformers []Transformer) *Context {
	frozen := make([]Transformer, len(transformers))
	copy(frozen, transformers)
	return &Context{MapInfo: info, Transformers: frozen}
}

// RunChunk invokes RemapChunk on every registered transformer in order.
func (ctx *Context) RunChunk(chunk *tagtree.Tag) error {
	for _, t := range ctx.Transformers {
		if err := t.RemapChunk(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

// RunPlayer invokes RemapPlayer on every registered transformer in order.
func (ctx *Context) RunPlayer(player *tagtree.Tag) error {
	for _, t := range ctx.Transformers {
		if err := t.RemapPlayer(ctx, player); err != nil {
			return err
		}
	}
	return nil
}

// RemapItem is the item-remap primitive: it reads id
// (+ optional Damage), looks the combined-space identifier up in
// MapInfo.Items, overwrites id (and Damage for a damage-split entry),
// then invokes every registered transformer's RemapItem hook so nested
// containers can recurse.
func (ctx *Context) RemapItem(item *tagtree.Tag) error {
	idTag, err := tagtree.RequireChild(item, "id")
	if err != nil {
		return err
	}
	id, err := tagtree.NumberOf(idTag, tagtree.KindShort)
	if err != nil {
		return err
	}

	entry, ok := ctx.MapInfo.Items[int(id)]
	if !ok {
		return &maptable.ErrNoMapping{Table: "item", ID: int(id)}
	}

	if entry.Split {
		dmgTag, err := tagtree.RequireChild(item, "Damage")
		if err != nil {
			return fmt.Errorf("damage-split item map entry for id %d requires a Damage child: %w", id, err)
		}
		dmg, err := tagtree.NumberOf(dmgTag, tagtree.KindShort)
		if err != nil {
			return err
		}
		target, ok := entry.ByDamage[int16(dmg)]
		if !ok {
			return fmt.Errorf("no damage-split entry for id %d damage %d", id, dmg)
		}
		item.Put("id", tagtree.NewShort(int16(target.ID)))
		item.Put("Damage", tagtree.NewShort(target.Damage))
	} else {
		item.Put("id", tagtree.NewShort(int16(entry.Plain)))
	}

	for _, t := range ctx.Transformers {
		if err := t.RemapItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// RemapRawIdentifier resolves a bare item identifier against
// MapInfo.Items, for tile-entity fields that store a content/placement
// item id directly rather than through the standard id/Damage
// item-compound shape — a pipe's placement material, a tank's stored
// liquid. A damage-split map entry has no single target without a
// Damage value to select it by, so it is treated as unresolvable here.
func (ctx *Context) RemapRawIdentifier(id int) (int, bool) {
	entry, ok := ctx.MapInfo.Items[id]
	if !ok || entry.Split {
		return 0, false
	}
	return entry.Plain, true
}

// RemapLiquid invokes RemapLiquid on every registered transformer.
func (ctx *Context) RemapLiquid(liquid *tagtree.Tag) error {
	for _, t := range ctx.Transformers {
		if err := t.RemapLiquid(ctx, liquid); err != nil {
			return err
		}
	}
	return nil
}
