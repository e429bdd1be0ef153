package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/chunkmigrate/chunkmigrate/log"
)

// FlatConfig is the "ini" dialect: lines of `key = integer`, blank and
// '#'-prefixed lines ignored. It cannot distinguish a block section from
// an item section, so AutoBlocks/AutoItems always report not-enumerable
// and every key feeds both GetBlock and GetItem.
type FlatConfig struct {
	values map[string]int
}

// ParseFlat reads the flat dialect from r.
func ParseFlat(r io.Reader) (*FlatConfig, error) {
	values := make(map[string]int)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "=")
		switch len(parts) {
		case 1:
			return nil, errConfigf("line %d: missing '=' in %q", lineNo, line)
		case 2:
			key := strings.TrimSpace(parts[0])
			valStr := strings.TrimSpace(parts[1])
			v, err := strconv.Atoi(valStr)
			if err != nil {
				log.Debug("skipping non-integer flat config value",
					log.F("line", lineNo), log.F("key", key), log.F("value", valStr))
				continue
			}
			values[key] = v
		default:
			return nil, errConfigf("line %d: more than one '=' in %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &FlatConfig{values: values}, nil
}

func (c *FlatConfig) GetBlock(name string) (int, bool) {
	v, ok := c.values[name]
	return v, ok
}

func (c *FlatConfig) GetItem(name string) (int, bool) {
	v, ok := c.values[name]
	return v, ok
}

func (c *FlatConfig) AutoBlocks() ([]string, bool) { return nil, false }
func (c *FlatConfig) AutoItems() ([]string, bool)  { return nil, false }
