package store

import (
	"fmt"

	"github.com/appscaffold/appscaffold/internal/domain"
	"gopkg.in/yaml.v3"
)

// YAMLCodec stores groups as nested mappings, preserving key order
type YAMLCodec struct{}

// Encode implements domain.Codec
func (YAMLCodec) Encode(entries []domain.Entry) ([]byte, error) {
	node, err := encodeYAMLGroup(nest(entries))
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func encodeYAMLGroup(g *group) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, field := range g.fields() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.name}

		var value *yaml.Node
		if field.isGroup() {
			var err error
			if value, err = encodeYAMLGroup(field); err != nil {
				return nil, err
			}
		} else {
			value = &yaml.Node{}
			if err := value.Encode(field.value); err != nil {
				return nil, fmt.Errorf("key %q: %w", field.name, err)
			}
		}
		mapping.Content = append(mapping.Content, key, value)
	}
	return mapping, nil
}

// Decode implements domain.Codec
func (YAMLCodec) Decode(data []byte) ([]domain.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level YAML value must be a mapping")
	}
	return decodeYAMLMapping(nil, "", root)
}

func decodeYAMLMapping(entries []domain.Entry, prefix string, mapping *yaml.Node) ([]domain.Entry, error) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		name := mapping.Content[i].Value
		value := mapping.Content[i+1]

		if value.Kind == yaml.MappingNode {
			var err error
			if entries, err = decodeYAMLMapping(entries, joinKey(prefix, name), value); err != nil {
				return nil, err
			}
			continue
		}

		var decoded interface{}
		if err := value.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("key %q: %w", joinKey(prefix, name), err)
		}
		entries = flatten(entries, prefix, name, decoded)
	}
	return entries, nil
}
