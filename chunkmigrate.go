// Package chunkmigrate re-exports the most commonly used types from
// this module's sub-packages (tagtree, config, maptable) as a thin
// backward-compatible facade, mirroring the teacher's houston.go facade
// over its own blocks/data/parser/password sub-packages. New code
// should generally import the sub-packages directly; this file exists
// for callers that want the one-import convenience.
package chunkmigrate

import (
	"github.com/chunkmigrate/chunkmigrate/config"
	"github.com/chunkmigrate/chunkmigrate/maptable"
	"github.com/chunkmigrate/chunkmigrate/tagtree"
)

// Tag tree type aliases.
type (
	Tag       = tagtree.Tag
	Kind      = tagtree.Kind
	NamedSlot = tagtree.NamedSlot
)

// Tag kind constants.
const (
	KindByte      = tagtree.KindByte
	KindShort     = tagtree.KindShort
	KindInt       = tagtree.KindInt
	KindLong      = tagtree.KindLong
	KindFloat     = tagtree.KindFloat
	KindDouble    = tagtree.KindDouble
	KindByteArray = tagtree.KindByteArray
	KindString    = tagtree.KindString
	KindList      = tagtree.KindList
	KindCompound  = tagtree.KindCompound
)

// Config type alias and dialect constructors.
type Config = config.Config

var (
	ParseFlat                 = config.ParseFlat
	ParseHierarchical         = config.ParseHierarchical
	ParseHierarchicalPrefixed = config.ParseHierarchicalPrefixed
)

// Map-table type aliases.
type (
	MapInfo      = maptable.MapInfo
	RemapEntry   = maptable.RemapEntry
	DamageTarget = maptable.DamageTarget
	DamageRule   = maptable.DamageRule
	ModRule      = maptable.ModRule
	DamageKey    = maptable.DamageKey
)

// Build constructs a MapInfo from vanilla configs and a mod rule set.
var Build = maptable.Build

// Re-exported navigation helpers.
var (
	FindNamed    = tagtree.FindNamed
	FindChild    = tagtree.FindChild
	RequireChild = tagtree.RequireChild
	NumberOf     = tagtree.NumberOf
	Sections     = tagtree.Sections
	TileEntities = tagtree.TileEntities
	Entities     = tagtree.Entities
	KindOf       = tagtree.KindOf
)
