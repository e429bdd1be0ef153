package transform

import "github.com/chunkmigrate/chunkmigrate/tagtree"

// DefaultInventoryList is the conventional list name carrying item
// compounds inside a tile entity or entity, used when a caller does not
// override it.
const DefaultInventoryList = "Items"

// RemapInventory iterates the listName child of holder (a compound) and
// rewrites each element through the item-remap primitive. Used by both
// the tile-entity and entity simple-inventory specializations.
func RemapInventory(ctx *Context, holder *tagtree.Tag, listName string) error {
	if listName == "" {
		listName = DefaultInventoryList
	}
	list, ok := tagtree.FindChild(holder, listName)
	if !ok {
		return nil
	}
	if list.Kind != tagtree.KindList {
		return &tagtree.StructuralError{Msg: listName + " is not a list"}
	}
	for _, item := range list.Items {
		if _, hasID := tagtree.FindChild(item, "id"); !hasID {
			continue
		}
		if err := ctx.RemapItem(item); err != nil {
			return err
		}
	}
	return nil
}

// NewSimpleInventoryTileEntity builds a by-kind tile-entity transformer
// whose RemapFn rewrites listName (DefaultInventoryList if empty).
func NewSimpleInventoryTileEntity(kind, listName string) *ByKindTileEntity {
	return NewByKindTileEntity(kind, func(ctx *Context, te *tagtree.Tag) error {
		return RemapInventory(ctx, te, listName)
	})
}

// NewSimpleInventoryEntity builds a by-kind entity transformer whose
// RemapFn rewrites listName (DefaultInventoryList if empty).
func NewSimpleInventoryEntity(kind, listName string) *ByKindEntity {
	return NewByKindEntity(kind, func(ctx *Context, e *tagtree.Tag) error {
		return RemapInventory(ctx, e, listName)
	})
}
