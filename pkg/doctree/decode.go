package doctree

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds YAML alias nesting.
const maxAliasDepth = 64

// Alias expansion may grow a document to at most aliasExpansionRatio times its
// node count, with a floor of minExpansionBudget nodes.
const (
	aliasExpansionRatio = 10
	minExpansionBudget  = 10000
)

var errAliasExpansion = errors.New("document expands too much through aliases")

type decoder struct {
	// budget is the number of nodes left to convert
	budget int
}

// Decode parses a JSON or YAML document whose root is a mapping.
func Decode(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, errors.New("empty document")
	}
	d := &decoder{budget: max(aliasExpansionRatio*countNodes(&doc), minExpansionBudget)}
	v, err := d.convert(&doc, 0)
	if err != nil {
		return nil, err
	}
	root, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("document root must be a mapping, got %T", v)
	}
	return root, nil
}

// countNodes counts the nodes written in the source, without following aliases.
func countNodes(n *yaml.Node) int {
	total := 1
	for _, c := range n.Content {
		total += countNodes(c)
	}
	return total
}

func (d *decoder) convert(n *yaml.Node, depth int) (any, error) {
	d.budget--
	if d.budget < 0 {
		return nil, fmt.Errorf("line %d: %w", n.Line, errAliasExpansion)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.convert(n.Content[0], depth)
	case yaml.AliasNode:
		if depth >= maxAliasDepth {
			return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return d.convert(n.Alias, depth+1)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind == yaml.ScalarNode && key.Value == "<<" && key.Tag == "!!merge" {
				if err := d.mergeInto(m, val, depth); err != nil {
					return nil, err
				}
				continue
			}
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			child, err := d.convert(val, depth)
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			child, err := d.convert(item, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	case yaml.ScalarNode:
		if n.Tag == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

func (d *decoder) mergeInto(m *Map, val *yaml.Node, depth int) error {
	src, err := d.convert(val, depth+1)
	if err != nil {
		return err
	}
	merge := func(v any) error {
		sm, ok := v.(*Map)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", val.Line)
		}
		for _, k := range sm.Keys() {
			if !m.Has(k) {
				child, _ := sm.Get(k)
				m.Set(k, child)
			}
		}
		return nil
	}
	if list, ok := src.([]any); ok {
		for _, item := range list {
			if err := merge(item); err != nil {
				return err
			}
		}
		return nil
	}
	return merge(src)
}
