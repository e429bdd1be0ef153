// Package catalog holds the concrete per-mod transformer catalog: one
// file per represented tile-entity family. Every transformer here is a
// small rule set built on top of the transform package's framework, not
// new traversal mechanism. All of them are safe to re-apply: each
// checks for its newer on-disk shape before reshaping anything,
// performing only identifier remapping when that shape is already
// present.
package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

// All returns the full, ordered catalog of transformers this module
// ships, suitable for passing straight to transform.NewContext.
func All() []transform.Transformer {
	return []transform.Transformer{
		NewPipeTransformer(),
		NewTankTransformer(),
		NewEngineTransformer(),
		NewFillerTransformer(),
		NewRefineryTransformer(),
		NewAssemblyTableTransformer(),
		NewHopperTransformer(),
		NewEnergyConduitTransformer(),
		NewCokeOvenTransformer(),
		NewTankCartTransformer(),
	}
}

// renameKey moves a child from oldName to newName in place, preserving
// its value, when oldName is present and newName is not already set.
// This is the "key rename" pattern.
func renameKey(t *tagtree.Tag, oldName, newName string) {
	if _, already := tagtree.FindChild(t, newName); already {
		return
	}
	val, ok := tagtree.FindChild(t, oldName)
	if !ok {
		return
	}
	t.Remove(oldName)
	t.Put(newName, val)
}

// relocateInto removes oldName from parent and re-inserts it as a child
// of a (possibly freshly created) nested compound named containerName.
// This is the "key relocation" pattern.
func relocateInto(parent *tagtree.Tag, oldName, containerName, newName string) {
	val, ok := tagtree.FindChild(parent, oldName)
	if !ok {
		return
	}
	container, ok := tagtree.FindChild(parent, containerName)
	if !ok {
		container = tagtree.NewCompound()
		parent.Put(containerName, container)
	}
	parent.Remove(oldName)
	container.Put(newName, val)
}

// intOrDefault reads an Int child, returning def if absent.
func intOrDefault(t *tagtree.Tag, name string, def int32) int32 {
	child, ok := tagtree.FindChild(t, name)
	if !ok {
		return def
	}
	v, err := tagtree.NumberOf(child, tagtree.KindInt, tagtree.KindShort, tagtree.KindByte, tagtree.KindLong)
	if err != nil {
		return def
	}
	return int32(v)
}

// narrowIntToByte rewrites an Int-kind child to the equivalent Byte-kind
// tag in place, when the value fits. This is the "type narrowing"
// pattern: range permitting, a schema generation shrinks a slot's
// recorded variant.
func narrowIntToByte(t *tagtree.Tag, name string) {
	child, ok := tagtree.FindChild(t, name)
	if !ok || child.Kind != tagtree.KindInt {
		return
	}
	if child.Int < -128 || child.Int > 127 {
		return
	}
	t.Put(name, tagtree.NewByte(int8(child.Int)))
}

// reshapeSparseToDense converts a sparse variable-length inventory list
// (each element carries its own "Slot" byte) into a dense fixed-length
// list of exactly size elements, where index position equals slot.
// Absent slots become zero-child compounds. This is the "inventory
// reshape" pattern. Already-dense lists (length already size) are
// returned unchanged so repeated application is a no-op.
func reshapeSparseToDense(list *tagtree.Tag, size int) *tagtree.Tag {
	if len(list.Items) == size {
		return list
	}
	dense := make([]*tagtree.Tag, size)
	for i := range dense {
		dense[i] = tagtree.NewCompound()
	}
	for _, item := range list.Items {
		slotTag, ok := tagtree.FindChild(item, "Slot")
		if !ok {
			continue
		}
		slot, err := tagtree.NumberOf(slotTag, tagtree.KindByte, tagtree.KindShort, tagtree.KindInt)
		if err != nil || slot < 0 || int(slot) >= size {
			continue
		}
		dense[slot] = item
	}
	out := tagtree.NewList(tagtree.KindCompound)
	out.Items = dense
	return out
}

// remapRawIdentifierField rewrites a bare item-id field (int or short,
// zero meaning "none") in place through ctx.MapInfo, for tile-entity
// fields that store a content/material id directly rather than through
// the standard id/Damage item-compound shape. A missing field is left
// untouched.
func remapRawIdentifierField(ctx *transform.Context, t *tagtree.Tag, name string) error {
	child, ok := tagtree.FindChild(t, name)
	if !ok {
		return nil
	}
	id, err := tagtree.NumberOf(child, tagtree.KindInt, tagtree.KindShort)
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}

	newID, ok := ctx.RemapRawIdentifier(int(id))
	if !ok {
		return &maptable.ErrNoMapping{Table: "item", ID: int(id)}
	}
	if child.Kind == tagtree.KindShort {
		child.Short = int16(newID)
	} else {
		child.Int = int32(newID)
	}
	return nil
}

// hasTagItemsShape is the "by-structure detection" pattern: in the
// absence of a reliable kind tag, an item variant is recognized by the
// presence of a distinctive sub-tree shape — here, a tag compound
// carrying an Items list.
func hasTagItemsShape(item *tagtree.Tag) (*tagtree.Tag, bool) {
	inner, ok := tagtree.FindChild(item, "tag")
	if !ok || inner.Kind != tagtree.KindCompound {
		return nil, false
	}
	items, ok := tagtree.FindChild(inner, "Items")
	if !ok || items.Kind != tagtree.KindList {
		return nil, false
	}
	return items, true
}
