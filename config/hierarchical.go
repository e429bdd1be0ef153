package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/chunkmigrate/chunkmigrate/log"
)

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionBlock
	sectionItem
)

type sectionFrame struct {
	name string
	kind sectionKind
}

// HierarchicalConfig is the braced-section dialect: `name { ... }`,
// nestable, with optional `<...>` free-form blocks whose contents are
// ignored. Depth-zero sections named block/blocks or item/items feed the
// automatic enumerations; every other section is scanned for key=value
// pairs but contributes nothing to the Config contract.
type HierarchicalConfig struct {
	blockValues map[string]int
	itemValues  map[string]int
	blockKeys   []string
	itemKeys    []string
}

// ParseHierarchical reads the plain hierarchical dialect from r.
func ParseHierarchical(r io.Reader) (*HierarchicalConfig, error) {
	return parseHierarchical(r, false)
}

// ParseHierarchicalPrefixed reads the variant where only keys beginning
// with "I:" are recognized (with that prefix stripped); all other keys
// are ignored entirely.
func ParseHierarchicalPrefixed(r io.Reader) (*HierarchicalConfig, error) {
	return parseHierarchical(r, true)
}

func parseHierarchical(r io.Reader, prefixed bool) (*HierarchicalConfig, error) {
	c := &HierarchicalConfig{
		blockValues: make(map[string]int),
		itemValues:  make(map[string]int),
	}

	var stack []sectionFrame
	haveBlockSection := false
	haveItemSection := false
	inFreeform := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if inFreeform {
			if strings.HasSuffix(line, ">") {
				inFreeform = false
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "<") {
			inFreeform = true
			continue
		}
		if line == "}" {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		if strings.HasSuffix(line, "{") {
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			kind := sectionNone
			if len(stack) == 0 {
				switch strings.ToLower(name) {
				case "block", "blocks":
					if haveBlockSection {
						return nil, errConfigf("line %d: more than one block section at depth zero", lineNo)
					}
					haveBlockSection = true
					kind = sectionBlock
				case "item", "items":
					if haveItemSection {
						return nil, errConfigf("line %d: more than one item section at depth zero", lineNo)
					}
					haveItemSection = true
					kind = sectionItem
				}
			} else {
				kind = stack[0].kind
			}
			stack = append(stack, sectionFrame{name: name, kind: kind})
			continue
		}

		eqParts := strings.Split(line, "=")
		if len(eqParts) != 2 {
			return nil, errConfigf("line %d: expected exactly one '=' in %q", lineNo, line)
		}
		rootKind := sectionNone
		if len(stack) > 0 {
			rootKind = stack[0].kind
		}
		if rootKind == sectionNone {
			continue
		}

		rawKey := strings.TrimSpace(eqParts[0])
		rawVal := strings.TrimSpace(eqParts[1])

		if prefixed {
			if !strings.HasPrefix(rawKey, "I:") {
				continue
			}
			rawKey = strings.TrimPrefix(rawKey, "I:")
		}

		v, err := strconv.Atoi(rawVal)
		if err != nil {
			log.Debug("skipping non-integer hierarchical config value",
				log.F("line", lineNo), log.F("key", rawKey), log.F("value", rawVal))
			continue
		}

		fullName := dottedName(stack, rawKey)
		switch rootKind {
		case sectionBlock:
			if _, exists := c.blockValues[fullName]; !exists {
				c.blockKeys = append(c.blockKeys, fullName)
			}
			c.blockValues[fullName] = v
		case sectionItem:
			if _, exists := c.itemValues[fullName]; !exists {
				c.itemKeys = append(c.itemKeys, fullName)
			}
			c.itemValues[fullName] = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// dottedName builds the symbolic key relative to the section's root
// (block/item), joining any nested section names with the leaf key.
func dottedName(stack []sectionFrame, key string) string {
	if len(stack) <= 1 {
		return key
	}
	parts := make([]string, 0, len(stack))
	for _, f := range stack[1:] {
		parts = append(parts, f.name)
	}
	parts = append(parts, key)
	return strings.Join(parts, ".")
}

func (c *HierarchicalConfig) GetBlock(name string) (int, bool) {
	v, ok := c.blockValues[name]
	return v, ok
}

func (c *HierarchicalConfig) GetItem(name string) (int, bool) {
	v, ok := c.itemValues[name]
	return v, ok
}

func (c *HierarchicalConfig) AutoBlocks() ([]string, bool) { return c.blockKeys, true }
func (c *HierarchicalConfig) AutoItems() ([]string, bool)  { return c.itemKeys, true }
