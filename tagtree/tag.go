// Package tagtree provides the in-memory representation of the tagged
// binary format used by chunk, player, and level save data: typed
// scalars, byte arrays, strings, ordered homogeneous lists, and
// insertion-ordered compounds of named children.
package tagtree

import "fmt"

// Kind identifies the variant carried by a Tag, mirroring the kind byte
// used by the on-disk format and the intermediate XML's tag attribute.
type Kind byte

const (
	KindByte Kind = iota + 1
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
)

// String returns the conventional short name for a Kind, as it appears
// in the intermediate XML tag attribute.
func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindByteArray:
		return "byteArray"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindCompound:
		return "compound"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Tag is a sum type over every variant the format supports. Only the
// fields relevant to Kind are meaningful; the rest are zero.
type Tag struct {
	Kind Kind

	Byte    int8
	Short   int16
	Int     int32
	Long    int64
	Float32 float32
	Float64 float64
	Bytes   []byte
	Str     string

	// ElemKind and Items are meaningful for KindList only. Convention:
	// ElemKind == KindCompound (10) denotes a list of compounds.
	ElemKind Kind
	Items    []*Tag

	// Slots is meaningful for KindCompound only, preserved in insertion
	// order. Names are not required to be unique; FindNamed resolves to
	// the first match.
	Slots []NamedSlot
}

// NamedSlot pairs a child name with its value inside a compound.
type NamedSlot struct {
	Name  string
	Value *Tag
}

// NewCompound returns an empty compound tag.
func NewCompound() *Tag {
	return &Tag{Kind: KindCompound}
}

// NewList returns an empty list tag of the given element kind.
func NewList(elemKind Kind) *Tag {
	return &Tag{Kind: KindList, ElemKind: elemKind}
}

// NewString returns a string tag.
func NewString(s string) *Tag {
	return &Tag{Kind: KindString, Str: s}
}

// NewByte returns a byte tag.
func NewByte(v int8) *Tag { return &Tag{Kind: KindByte, Byte: v} }

// NewShort returns a short tag.
func NewShort(v int16) *Tag { return &Tag{Kind: KindShort, Short: v} }

// NewInt returns an int tag.
func NewInt(v int32) *Tag { return &Tag{Kind: KindInt, Int: v} }

// NewLong returns a long tag.
func NewLong(v int64) *Tag { return &Tag{Kind: KindLong, Long: v} }

// NewByteArray returns a byte-array tag. The slice is not copied.
func NewByteArray(b []byte) *Tag { return &Tag{Kind: KindByteArray, Bytes: b} }

// Put inserts or replaces a named child in place. If name already exists
// its value is overwritten and its position preserved; otherwise the
// slot is appended, matching the compound's insertion-ordered contract.
func (t *Tag) Put(name string, value *Tag) {
	for i := range t.Slots {
		if t.Slots[i].Name == name {
			t.Slots[i].Value = value
			return
		}
	}
	t.Slots = append(t.Slots, NamedSlot{Name: name, Value: value})
}

// Remove deletes the first child named name, if present. Reports
// whether a child was removed.
func (t *Tag) Remove(name string) bool {
	for i := range t.Slots {
		if t.Slots[i].Name == name {
			t.Slots = append(t.Slots[:i], t.Slots[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds an element to a list tag, asserting it matches ElemKind.
func (t *Tag) Append(elem *Tag) error {
	if t.Kind != KindList {
		return &StructuralError{Msg: fmt.Sprintf("Append called on non-list tag kind %s", t.Kind)}
	}
	if len(t.Items) == 0 && elem.Kind != t.ElemKind {
		// An empty list with no declared element yet adopts the first
		// element's kind; a populated list enforces homogeneity.
		t.ElemKind = elem.Kind
	} else if elem.Kind != t.ElemKind {
		return &StructuralError{Msg: fmt.Sprintf("list element kind %s does not match declared kind %s", elem.Kind, t.ElemKind)}
	}
	t.Items = append(t.Items, elem)
	return nil
}
