// Package doctree holds the generic, order-preserving tree an API description is
// parsed into. Values are *Map, []any, string, int, float64, bool or nil.
package doctree

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Map is a mapping node that remembers the order its keys were declared in.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{values: map[string]any{}}
}

// Set stores a value, appending the key when it is new.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in declaration order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Map returns the child mapping under key, or nil when absent or not a mapping.
func (m *Map) Map(key string) *Map {
	v, _ := m.Get(key)
	child, _ := v.(*Map)
	return child
}

// String returns the string under key, or "" when absent or not a string.
func (m *Map) String(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

// Bool returns the boolean under key, false when absent or not a boolean.
func (m *Map) Bool(key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(bool)
	return b
}

// Slice returns the sequence under key, or nil when absent or not a sequence.
func (m *Map) Slice(key string) []any {
	v, _ := m.Get(key)
	s, _ := v.([]any)
	return s
}

// JSONLookup lets go-openapi/jsonpointer walk the tree.
func (m *Map) JSONLookup(token string) (any, error) {
	v, ok := m.Get(token)
	if !ok {
		return nil, fmt.Errorf("object has no key %q", token)
	}
	return v, nil
}

// MarshalJSON encodes the mapping with its keys in declaration order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		raw, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", k, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
