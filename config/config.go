// Package config parses the two configuration-file dialects used to
// describe a game-plus-mods setup (flat key=value, and hierarchical
// braced sections), exposing both through one Config contract so the
// map-table builder never needs to know which dialect produced a value.
package config

import "fmt"

// Config is the uniform contract every parser strategy implements.
type Config interface {
	// GetBlock returns the integer identifier bound to name in the
	// block section, if any.
	GetBlock(name string) (int, bool)
	// GetItem returns the integer identifier bound to name in the item
	// section, if any.
	GetItem(name string) (int, bool)
	// AutoBlocks returns every key found in the block section, or
	// (nil, false) if this dialect cannot enumerate (the flat dialect).
	AutoBlocks() ([]string, bool)
	// AutoItems is AutoBlocks for the item section.
	AutoItems() ([]string, bool)
}

// ErrConfig reports a fatal configuration-file syntax error: a
// flat-format line with no '=' or more than one, a hierarchical key line
// without exactly one '=', or more than one block/item section at depth
// zero in the hierarchical format.
type ErrConfig struct {
	Msg string
}

func (e *ErrConfig) Error() string { return e.Msg }

func errConfigf(format string, args ...any) error {
	return &ErrConfig{Msg: fmt.Sprintf(format, args...)}
}
