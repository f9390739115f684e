package store

import (
	"sort"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// TOMLCodec stores groups as tables. TOML tables are unordered, so keys are
// decoded in lexical order.
type TOMLCodec struct{}

// Encode implements domain.Codec
func (TOMLCodec) Encode(entries []domain.Entry) ([]byte, error) {
	return toml.Marshal(tomlTable(nest(entries)))
}

func tomlTable(g *group) map[string]interface{} {
	table := make(map[string]interface{}, len(g.children)+1)
	for _, field := range g.fields() {
		if field.isGroup() {
			table[field.name] = tomlTable(field)
			continue
		}
		if field.value == nil {
			table[field.name] = ""
			continue
		}
		table[field.name] = field.value
	}
	return table
}

// Decode implements domain.Codec
func (TOMLCodec) Decode(data []byte) ([]domain.Entry, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return decodeTOMLTable(nil, "", doc), nil
}

func decodeTOMLTable(entries []domain.Entry, prefix string, table map[string]interface{}) []domain.Entry {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if nested, ok := table[name].(map[string]interface{}); ok {
			entries = decodeTOMLTable(entries, joinKey(prefix, name), nested)
			continue
		}
		entries = flatten(entries, prefix, name, table[name])
	}
	return entries
}
