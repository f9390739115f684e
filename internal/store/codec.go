package store

import (
	"fmt"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/spf13/cast"
)

// DefaultCodecs returns the codecs registered on every new store
func DefaultCodecs() map[domain.Format]domain.Codec {
	return map[domain.Format]domain.Codec{
		domain.FormatINI:  INICodec{},
		domain.FormatJSON: JSONCodec{},
		domain.FormatYAML: YAMLCodec{},
		domain.FormatTOML: TOMLCodec{},
	}
}

// selfKey names the value of a key that is also a group in nested formats
const selfKey = ""

// group is an ordered nesting of flat entries used by the nested-format codecs
type group struct {
	children []*group
	index    map[string]*group
	name     string
	value    interface{}
	leaf     bool
}

func newGroup(name string) *group {
	return &group{name: name, index: make(map[string]*group)}
}

func (g *group) child(name string) *group {
	if c, ok := g.index[name]; ok {
		return c
	}
	c := newGroup(name)
	g.index[name] = c
	g.children = append(g.children, c)
	return c
}

func (g *group) isGroup() bool {
	return len(g.children) > 0
}

// nest arranges flat entries into a tree of groups, keeping first-seen order.
// A key that is both a value and a group keeps its value under selfKey.
func nest(entries []domain.Entry) *group {
	root := newGroup("")
	for _, entry := range entries {
		node := root
		for _, part := range strings.Split(entry.Key, domain.Separator) {
			node = node.child(part)
		}
		node.value = entry.Value
		node.leaf = true
	}
	return root
}

// fields returns the members a nested encoder should emit for g
func (g *group) fields() []*group {
	if !g.leaf || g.name == "" {
		return g.children
	}
	self := &group{name: selfKey, value: g.value, leaf: true}
	return append([]*group{self}, g.children...)
}

// flatten appends a decoded leaf to entries, mapping selfKey back to the group key
func flatten(entries []domain.Entry, prefix, name string, value interface{}) []domain.Entry {
	return append(entries, domain.Entry{Key: joinKey(prefix, name), Value: value})
}

// scalarString renders a stored value for text formats
func scalarString(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	if list, err := cast.ToStringSliceE(value); err == nil {
		return strings.Join(list, ", ")
	}
	return fmt.Sprintf("%v", value)
}
