package catalog

// liquidKey pairs a legacy numeric liquid id with its damage/metadata
// value, mirroring the (id, metadata) pairs item stacks carry.
type liquidKey struct {
	ID       int
	Metadata int16
}

// LiquidNames is the declarative (id, metadata) -> symbolic name table
// driving liquid name conversion, in the same
// flat-table-of-constants style as data/items.go's category tables.
// teliquid (id 10) is the metadata-split special case: 0 resolves to
// redstone, 64 to ender; other metadata values of id 10 are not in the
// table.
var LiquidNames = map[liquidKey]string{
	{ID: 8, Metadata: 0}:  "water",
	{ID: 9, Metadata: 0}:  "lava",
	{ID: 10, Metadata: 0}: "redstone",
	{ID: 10, Metadata: 64}: "ender",
	{ID: 11, Metadata: 0}: "oil",
	{ID: 12, Metadata: 0}: "fuel",
	{ID: 13, Metadata: 0}: "steam",
}

// LiquidName resolves a legacy (id, metadata) pair to its symbolic name.
// Reports false when the pair is not in the table; callers treat that
// as a benign skip, not a fatal error,
// since an unrecognized liquid may simply not have existed in the old
// configuration.
func LiquidName(id int, metadata int16) (string, bool) {
	name, ok := LiquidNames[liquidKey{ID: id, Metadata: metadata}]
	return name, ok
}
