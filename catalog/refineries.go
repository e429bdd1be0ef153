package catalog

import (
	"github.com/chunkmigrate/chunkmigrate/tagtree"
	"github.com/chunkmigrate/chunkmigrate/transform"
)

const refineryKind = "refinery"

// RefineryTransformer coalesces two coexisting schema generations for a
// refinery's in-progress operation: the older "Progress"/"Total" pair
// and the newer single "ProgressTicks" field. Whichever is present is
// read (the newer preferred when both are), and the canonical newer
// form alone is written back (variant coalescence).
type RefineryTransformer struct {
	transform.Base
}

// NewRefineryTransformer returns the refinery family's catalog entry.
func NewRefineryTransformer() *RefineryTransformer {
	return &RefineryTransformer{}
}

func (r *RefineryTransformer) RemapChunk(ctx *transform.Context, chunk *tagtree.Tag) error {
	tiles, err := tagtree.TileEntities(chunk)
	if err != nil {
		return err
	}
	for _, te := range tagtree.FilterByKind(tiles, refineryKind) {
		if err := r.remapRefinery(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (r *RefineryTransformer) remapRefinery(ctx *transform.Context, te *tagtree.Tag) error {
	if _, hasNew := tagtree.FindChild(te, "ProgressTicks"); !hasNew {
		progress := intOrDefault(te, "Progress", 0)
		total := intOrDefault(te, "Total", 1)
		var ticks int32
		if total > 0 {
			ticks = progress * 100 / total
		}
		te.Put("ProgressTicks", tagtree.NewInt(ticks))
		te.Remove("Progress")
		te.Remove("Total")
	}

	for _, listName := range []string{"Input", "Output"} {
		list, ok := tagtree.FindChild(te, listName)
		if !ok || list.Kind != tagtree.KindList {
			continue
		}
		for _, item := range list.Items {
			if _, hasID := tagtree.FindChild(item, "id"); hasID {
				if err := ctx.RemapItem(item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
