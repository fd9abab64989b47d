package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML document into a Value, preserving mapping key
// order and resolving anchors and aliases. An empty document decodes as
// Null.
func DecodeYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if root.Kind == 0 {
		return Null{}, nil
	}
	return yamlValue(&root)
}

func yamlValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for i, c := range n.Content {
			elem, err := yamlValue(c)
			if err != nil {
				return nil, fmt.Errorf("sequence index %d: %w", i, err)
			}
			list = append(list, elem)
		}
		return list, nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind == yaml.AliasNode {
				keyNode = keyNode.Alias
			}
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", keyNode.Line)
			}
			val, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", keyNode.Value, err)
			}
			m.Set(keyNode.Value, val)
		}
		return m, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid bool %q", n.Line, n.Value)
		}
		return Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid int %q", n.Line, n.Value)
		}
		return Int(i), nil
	case "!!float":
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf":
			return Float(math.Inf(1)), nil
		case "-.inf":
			return Float(math.Inf(-1)), nil
		case ".nan":
			return Float(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid float %q", n.Line, n.Value)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}
