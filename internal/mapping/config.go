package mapping

import (
	"fmt"
	"strings"
)

// ConfigEntry is one "key: value" pair of a declaration block. Exactly one of
// Value and Block is meaningful; Block is non-nil for nested blocks.
type ConfigEntry struct {
	Key   string
	Value Literal
	Block Config
	Pos   Position
}

// IsBlock reports whether the entry holds a nested block.
func (e ConfigEntry) IsBlock() bool {
	return e.Block != nil
}

// Config is an ordered list of configuration entries. Keys are matched
// case-insensitively; a repeated key resolves to its last occurrence.
type Config []ConfigEntry

// Lookup returns the last entry for key.
func (c Config) Lookup(key string) (ConfigEntry, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if strings.EqualFold(c[i].Key, key) {
			return c[i], true
		}
	}

	return ConfigEntry{}, false
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// String returns the textual value for key.
func (c Config) String(key string) (string, bool) {
	e, ok := c.Lookup(key)
	if !ok || e.IsBlock() || e.Value.Kind == LiteralNull {
		return "", false
	}

	return e.Value.Text(), true
}

// StringOr returns the textual value for key or def.
func (c Config) StringOr(key, def string) string {
	if v, ok := c.String(key); ok {
		return v
	}

	return def
}

// Bool returns the boolean value for key. Strings "true"/"false" and the
// numbers 1/0 are accepted.
func (c Config) Bool(key string) (value, present bool, err error) {
	e, ok := c.Lookup(key)
	if !ok {
		return false, false, nil
	}

	switch v := e.Value.Value.(type) {
	case bool:
		return v, true, nil
	case int64:
		if v == 0 || v == 1 {
			return v == 1, true, nil
		}
	case string:
		switch strings.ToLower(v) {
		case "true", "yes":
			return true, true, nil
		case "false", "no":
			return false, true, nil
		}
	}

	return false, true, fmt.Errorf("%s: expected a boolean, got %s", key, e.Value)
}

// Keys returns the keys in declaration order, without duplicates.
func (c Config) Keys() []string {
	seen := make(map[string]struct{}, len(c))
	keys := make([]string, 0, len(c))

	for _, e := range c {
		k := strings.ToLower(e.Key)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		keys = append(keys, e.Key)
	}

	return keys
}
