// Package maptable builds the immutable block and item identifier
// lookup tables from an old configuration, a new configuration, and a
// per-mod rule dictionary. The builder runs once at startup; the
// resulting MapInfo is read many times and never mutated.
package maptable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chunkmigrate/chunkmigrate/config"
	"github.com/chunkmigrate/chunkmigrate/log"
)

// itemShift is added to a resolved item identifier so that items occupy
// the upper half of the combined numeric space; blocks (0-255) appear
// unshifted in both tables, since placed blocks and dropped blocks share
// numeric space in the item table.
const itemShift = 256

// DamageTarget is the resolved (identifier, damage) pair a damage-split
// remap entry produces for one source damage value.
type DamageTarget struct {
	ID     int
	Damage int16
}

// DamageRule is one mod's unresolved per-damage directive: the target
// may be given as a symbolic name (resolved against the new config the
// same way any other rename target is) or the decimal string form of an
// explicit integer identifier.
type DamageRule struct {
	Target       string
	TargetDamage int16
}

// RemapEntry is either a plain unconditional remap or a sparse
// damage-value-specific table.
type RemapEntry struct {
	Plain    int
	Split    bool
	ByDamage map[int16]DamageTarget
}

// MapInfo is the immutable pair of identifier lookup tables built once
// at startup.
type MapInfo struct {
	Blocks map[int]RemapEntry
	Items  map[int]RemapEntry
}

// DamageKey identifies a per-damage rule: a source symbolic name plus
// its source damage value.
type DamageKey struct {
	Name   string
	Damage int16
}

// ModRule is one mod's rule dictionary: the source/destination config
// descriptors plus the rename and damage-split rule sets.
type ModRule struct {
	Name     string
	OldBlock config.Config
	OldItem  config.Config
	NewBlock config.Config
	NewItem  config.Config

	// Rename maps a source symbolic name (or, for integer-keyed rules,
	// its decimal string form) to a target symbolic name. The target may
	// carry an unmatched remainder of the source key re-appended via
	// prefix substitution; see resolvePrefix.
	Rename map[string]string

	// Manual maps a source symbolic name directly to an explicit target
	// integer, bypassing the new config lookup.
	Manual map[string]int

	// Damage maps (source name, source damage) to a target directive,
	// symbolic or integer, resolved the same way a plain rename target
	// would be.
	Damage map[DamageKey]DamageRule
}

// ErrNoMapping reports that an identifier has no entry in the built
// MapInfo; per spec this is fatal during migration (not during build —
// an unresolved source symbol during build simply yields no entry).
type ErrNoMapping struct {
	Table string
	ID    int
}

func (e *ErrNoMapping) Error() string {
	return fmt.Sprintf("%s map has no entry for identifier %d", e.Table, e.ID)
}

// Build combines the vanilla block/item configs and every mod's rule
// dictionary into the final MapInfo.
func Build(vanillaBlocks, vanillaItems config.Config, mods []ModRule) (*MapInfo, error) {
	info, _, err := BuildWithStats(vanillaBlocks, vanillaItems, mods)
	return info, err
}

// ModStats reports, for one mod's build pass, how many source symbols
// were considered for mapping versus how many actually resolved to a
// target identifier, and which ones did not (the "no entry is added"
// benign case of spec §4.3 step 1, §7's "Benign" severity). migreport
// renders this per mod after a driver run.
type ModStats struct {
	Name string `json:"name"`

	BlocksConsidered int      `json:"blocksConsidered"`
	BlocksMapped     int      `json:"blocksMapped"`
	UnresolvedBlocks []string `json:"unresolvedBlocks,omitempty"`

	ItemsConsidered int      `json:"itemsConsidered"`
	ItemsMapped     int      `json:"itemsMapped"`
	UnresolvedItems []string `json:"unresolvedItems,omitempty"`
}

// BuildStats is the full per-mod breakdown produced by BuildWithStats.
type BuildStats struct {
	PerMod []ModStats `json:"perMod"`
}

// BuildWithStats builds the MapInfo exactly as Build does, additionally
// returning the per-mod bookkeeping migreport needs. Build calls it and
// discards the stats, so the bookkeeping runs for every build.
func BuildWithStats(vanillaBlocks, vanillaItems config.Config, mods []ModRule) (*MapInfo, *BuildStats, error) {
	info := &MapInfo{
		Blocks: make(map[int]RemapEntry),
		Items:  make(map[int]RemapEntry),
	}
	stats := &BuildStats{PerMod: make([]ModStats, 0, len(mods))}

	for _, mod := range mods {
		ms := ModStats{Name: mod.Name}
		if err := buildOneMod(info, mod, &ms); err != nil {
			return nil, nil, fmt.Errorf("mod %q: %w", mod.Name, err)
		}
		stats.PerMod = append(stats.PerMod, ms)
	}

	unionVanillaIdentities(info.Blocks, vanillaBlocks, false)
	unionVanillaIdentities(info.Items, vanillaItems, true)

	// Every block entry is also a valid item entry: placed blocks and
	// dropped blocks share numeric space.
	for id, entry := range info.Blocks {
		if _, exists := info.Items[id]; !exists {
			info.Items[id] = entry
		}
	}

	return info, stats, nil
}

func unionVanillaIdentities(table map[int]RemapEntry, cfg config.Config, isItem bool) {
	var keys []string
	var enumerable bool
	if isItem {
		keys, enumerable = cfg.AutoItems()
	} else {
		keys, enumerable = cfg.AutoBlocks()
	}
	if !enumerable {
		return
	}
	for _, name := range keys {
		var id int
		var ok bool
		if isItem {
			id, ok = cfg.GetItem(name)
			id += itemShift
		} else {
			id, ok = cfg.GetBlock(name)
		}
		if !ok {
			continue
		}
		if _, exists := table[id]; !exists {
			table[id] = RemapEntry{Plain: id}
		}
	}
}

func buildOneMod(info *MapInfo, mod ModRule, ms *ModStats) error {
	if err := buildOneSpace(info.Blocks, mod, false, ms); err != nil {
		return err
	}
	return buildOneSpace(info.Items, mod, true, ms)
}

// buildOneSpace builds either the block space or the item space for one
// mod's rule dictionary.
func buildOneSpace(table map[int]RemapEntry, mod ModRule, isItem bool, ms *ModStats) error {
	oldCfg := mod.OldBlock
	if isItem {
		oldCfg = mod.OldItem
	}

	keysToMap := keysToMap(mod, oldCfg, isItem)

	for _, key := range keysToMap {
		mapped, err := mapOneKey(table, mod, oldCfg, key, isItem)
		if err != nil {
			return err
		}
		recordKeyStats(ms, key, isItem, mapped)
	}
	return nil
}

func recordKeyStats(ms *ModStats, key string, isItem, mapped bool) {
	if ms == nil {
		return
	}
	if isItem {
		ms.ItemsConsidered++
		if mapped {
			ms.ItemsMapped++
		} else {
			ms.UnresolvedItems = append(ms.UnresolvedItems, key)
		}
		return
	}
	ms.BlocksConsidered++
	if mapped {
		ms.BlocksMapped++
	} else {
		ms.UnresolvedBlocks = append(ms.UnresolvedBlocks, key)
	}
}

// keysToMap computes the set of source symbols considered for mapping:
// the old config's automatic enumeration when available, the explicit
// rename/damage/manual rule keys otherwise, plus every integer-keyed
// rename, damage or manual rule unconditionally.
func keysToMap(mod ModRule, oldCfg config.Config, isItem bool) []string {
	seen := make(map[string]bool)
	var keys []string

	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	if auto, enumerable := autoFor(oldCfg, isItem); enumerable {
		for _, k := range auto {
			add(k)
		}
	} else {
		for k := range mod.Rename {
			add(k)
		}
		for dk := range mod.Damage {
			add(dk.Name)
		}
		for k := range mod.Manual {
			add(k)
		}
	}

	addInt := func(k string) {
		if _, isInt := parseIntKey(k); isInt {
			add(k)
		}
	}
	for k := range mod.Rename {
		addInt(k)
	}
	for dk := range mod.Damage {
		addInt(dk.Name)
	}
	for k := range mod.Manual {
		addInt(k)
	}

	sort.Strings(keys)
	return keys
}

func autoFor(cfg config.Config, isItem bool) ([]string, bool) {
	if isItem {
		return cfg.AutoItems()
	}
	return cfg.AutoBlocks()
}

func mapOneKey(table map[int]RemapEntry, mod ModRule, oldCfg config.Config, key string, isItem bool) (bool, error) {
	sourceID, ok := resolveSource(oldCfg, key, isItem)
	if !ok {
		// The symbol has no resolvable identifier in the old config;
		// nothing to map.
		return false, nil
	}

	if entry, ok := damageSplitEntry(mod, key); ok {
		table[sourceID] = entry
		return true, nil
	}

	targetName, ok := resolveRename(mod, key)
	if !ok {
		return false, nil
	}

	if manualID, ok := mod.Manual[key]; ok && targetName == "" {
		table[sourceID] = RemapEntry{Plain: manualID}
		return true, nil
	}

	targetID, ok := resolveTarget(mod, targetName, isItem)
	if !ok {
		log.Debug("no resolvable target symbol, world assumed not to contain it",
			log.F("mod", mod.Name), log.F("source", key), log.F("target_symbol", targetName))
		return false, nil
	}
	table[sourceID] = RemapEntry{Plain: targetID}
	return true, nil
}

// resolveSource resolves a source symbol (or integer key) to its
// combined-space integer identifier. For blocks this is the block
// lookup directly; for items it is the item lookup shifted by
// itemShift, per the block/item numeric-space convention.
func resolveSource(cfg config.Config, key string, isItem bool) (int, bool) {
	if id, ok := parseIntKey(key); ok {
		if isItem {
			return id + itemShift, true
		}
		return id, true
	}
	if isItem {
		id, ok := cfg.GetItem(key)
		if !ok {
			return 0, false
		}
		return id + itemShift, true
	}
	return cfg.GetBlock(key)
}

// resolveTarget resolves a target symbol against the new config. An
// item-space target prefers the item lookup and falls back to the
// block lookup for ambiguous item targets (a target named "ironOre"
// might exist only in the new config's block section); a block-space
// target resolves via the block lookup exclusively, since a block
// identifier has no shifted item counterpart to fall back to.
func resolveTarget(mod ModRule, name string, isItem bool) (int, bool) {
	if id, ok := parseIntKey(name); ok {
		return id, true
	}
	if !isItem {
		return mod.NewBlock.GetBlock(name)
	}
	if id, ok := mod.NewItem.GetItem(name); ok {
		return id + itemShift, true
	}
	if id, ok := mod.NewBlock.GetBlock(name); ok {
		return id, true
	}
	return 0, false
}

func parseIntKey(key string) (int, bool) {
	n := 0
	neg := false
	i := 0
	if len(key) == 0 {
		return 0, false
	}
	if key[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(key) {
		return 0, false
	}
	for ; i < len(key); i++ {
		c := key[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// damageSplitEntry builds a damage-split RemapEntry for key if the mod's
// rule dictionary carries any per-damage entries for it. Per-damage
// rules always win over prefix rules for the same source name. Damage
// targets are always resolved item-first with a block fallback,
// regardless of which space key belongs to, since damage values are an
// item-only concept upstream.
func damageSplitEntry(mod ModRule, key string) (RemapEntry, bool) {
	byDamage := make(map[int16]DamageTarget)
	for dk, rule := range mod.Damage {
		if dk.Name != key {
			continue
		}
		targetID, ok := resolveTarget(mod, rule.Target, true)
		if !ok {
			log.Debug("no resolvable damage-split target symbol, world assumed not to contain it",
				log.F("mod", mod.Name), log.F("source", key), log.F("damage", dk.Damage), log.F("target_symbol", rule.Target))
			continue
		}
		byDamage[dk.Damage] = DamageTarget{ID: targetID, Damage: rule.TargetDamage}
	}
	if len(byDamage) == 0 {
		return RemapEntry{}, false
	}
	return RemapEntry{Split: true, ByDamage: byDamage}, true
}

// resolveRename finds the target symbolic name for key: a manual
// integer rule with no companion rename entry resolves directly (the
// empty targetName sentinel), otherwise the best applicable directive is
// chosen by longest dot-delimited prefix match; integer keys match only
// themselves. A key with no applicable directive at all falls back to
// its own name as the target (identity-by-name), matching the source
// behavior of resolving an unconfigured key against the new config
// under its existing name rather than dropping it.
func resolveRename(mod ModRule, key string) (string, bool) {
	if name, ok := mod.Rename[key]; ok {
		return name, true
	}
	if _, ok := mod.Manual[key]; ok {
		return "", true
	}
	if _, isInt := parseIntKey(key); isInt {
		return "", false
	}

	bestPrefix := ""
	bestTarget := ""
	found := false
	for directive, target := range mod.Rename {
		if _, isInt := parseIntKey(directive); isInt {
			continue
		}
		if key == directive || strings.HasPrefix(key, directive+".") {
			if len(directive) > len(bestPrefix) {
				bestPrefix = directive
				bestTarget = target
				found = true
			}
		}
	}
	if !found {
		return key, true
	}
	remainder := strings.TrimPrefix(key, bestPrefix)
	return bestTarget + remainder, true
}
