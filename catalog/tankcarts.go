package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const tankCartKind = "tankCart"

// TankCartTransformer converts a tank-cart entity's legacy numeric
// (liquidId, liquidMeta) pair into the symbolic "LiquidName" field the
// newer schema records (liquid name conversion). An unrecognized pair
// is left as-is rather than failing the whole migration: a missing
// lookup entry for a mod-specific symbol is a benign skip, not a fatal
// error.
type TankCartTransformer struct {
	transform.Base
}

// NewTankCartTransformer returns the tank-cart family's catalog entry.
func NewTankCartTransformer() *TankCartTransformer {
	return &TankCartTransformer{}
}

func (t *TankCartTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	entities, err := tagtree.Entities(chunk)
	if err != nil {
		return err
	}
	for _, e := range tagtree.FilterByKind(entities, tankCartKind) {
		t.remapCart(e)
	}
	return nil
}

func (t *TankCartTransformer) remapCart(e *tagtree.Tag) {
	if _, already := tagtree.FindChild(e, "LiquidName"); already {
		return
	}
	idTag, ok := tagtree.FindChild(e, "liquidId")
	if !ok {
		return
	}
	id, err := tagtree.NumberOf(idTag, tagtree.KindInt, tagtree.KindShort, tagtree.KindByte)
	if err != nil {
		return
	}
	metadata := int16(intOrDefault(e, "liquidMeta", 0))

	name, ok := LiquidName(int(id), metadata)
	if !ok {
		return
	}
	e.Put("LiquidName", tagtree.NewString(name))
	e.Remove("liquidId")
	e.Remove("liquidMeta")
}
