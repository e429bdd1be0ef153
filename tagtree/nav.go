package tagtree

import "fmt"

// FindNamed scans a compound's children in insertion order and returns
// the first slot matching name. Duplicate names are tolerated; only the
// first is ever visible through this path.
func FindNamed(parent *Tag, name string) (NamedSlot, bool) {
	if parent == nil || parent.Kind != KindCompound {
		return NamedSlot{}, false
	}
	for _, slot := range parent.Slots {
		if slot.Name == name {
			return slot, true
		}
	}
	return NamedSlot{}, false
}

// FindChild is FindNamed plus one level of unwrap: it returns the named
// child's value directly.
func FindChild(parent *Tag, name string) (*Tag, bool) {
	slot, ok := FindNamed(parent, name)
	if !ok {
		return nil, false
	}
	return slot.Value, true
}

// RequireChild is FindChild but fatal on absence, for paths the caller
// knows must exist in a well-formed tree.
func RequireChild(parent *Tag, name string) (*Tag, error) {
	child, ok := FindChild(parent, name)
	if !ok {
		return nil, &StructuralError{Msg: fmt.Sprintf("required child %q is absent", name)}
	}
	return child, nil
}

// NumberOf asserts that t's Kind is one of legal and returns its value
// widened to int64. A mismatch is a StructuralError: mis-typed data is a
// bug, not a recoverable error.
func NumberOf(t *Tag, legal ...Kind) (int64, error) {
	if t == nil {
		return 0, &StructuralError{Msg: "NumberOf called on nil tag"}
	}
	ok := false
	for _, k := range legal {
		if t.Kind == k {
			ok = true
			break
		}
	}
	if !ok {
		return 0, &StructuralError{Msg: fmt.Sprintf("expected numeric kind in %v, got %s", legal, t.Kind)}
	}
	switch t.Kind {
	case KindByte:
		return int64(t.Byte), nil
	case KindShort:
		return int64(t.Short), nil
	case KindInt:
		return int64(t.Int), nil
	case KindLong:
		return t.Long, nil
	default:
		return 0, &StructuralError{Msg: fmt.Sprintf("kind %s is not numeric", t.Kind)}
	}
}

// chunkLevel descends root -> unnamed root compound -> Level.
func chunkLevel(root *Tag) (*Tag, error) {
	inner, ok := FindChild(root, "")
	if !ok {
		// Some producers name the wrapper compound something other than
		// the empty string; fall back to the first compound child.
		if root.Kind == KindCompound && len(root.Slots) == 1 && root.Slots[0].Value.Kind == KindCompound {
			inner = root.Slots[0].Value
		} else {
			return nil, &StructuralError{Msg: "chunk root has no unnamed wrapper compound"}
		}
	}
	level, err := RequireChild(inner, "Level")
	if err != nil {
		return nil, err
	}
	if level.Kind != KindCompound {
		return nil, &StructuralError{Msg: "Level is not a compound"}
	}
	return level, nil
}

// Sections returns the Level/Sections list of a chunk's root tag.
func Sections(root *Tag) ([]*Tag, error) {
	level, err := chunkLevel(root)
	if err != nil {
		return nil, err
	}
	sections, err := RequireChild(level, "Sections")
	if err != nil {
		return nil, err
	}
	if sections.Kind != KindList {
		return nil, &StructuralError{Msg: "Sections is not a list"}
	}
	return sections.Items, nil
}

// TileEntities returns the Level/TileEntities list of a chunk's root tag,
// unfiltered; FilterByKind selects elements by their string id child.
func TileEntities(root *Tag) ([]*Tag, error) {
	return entityList(root, "TileEntities")
}

// Entities returns the Level/Entities list of a chunk's root tag.
func Entities(root *Tag) ([]*Tag, error) {
	return entityList(root, "Entities")
}

func entityList(root *Tag, name string) ([]*Tag, error) {
	level, err := chunkLevel(root)
	if err != nil {
		return nil, err
	}
	list, ok := FindChild(level, name)
	if !ok {
		// Absent list is valid: an empty chunk may have no entities.
		return nil, nil
	}
	if list.Kind != KindList {
		return nil, &StructuralError{Msg: fmt.Sprintf("%s is not a list", name)}
	}
	return list.Items, nil
}

// KindOf returns the string id child of an entity/tile-entity compound.
func KindOf(entity *Tag) (string, bool) {
	idTag, ok := FindChild(entity, "id")
	if !ok || idTag.Kind != KindString {
		return "", false
	}
	return idTag.Str, true
}

// FilterByKind returns the subset of entities whose id child equals kind.
func FilterByKind(entities []*Tag, kind string) []*Tag {
	var out []*Tag
	for _, e := range entities {
		if id, ok := KindOf(e); ok && id == kind {
			out = append(out, e)
		}
	}
	return out
}
