package store

import (
	"fmt"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSONCodec stores groups as nested objects, preserving key order
type JSONCodec struct{}

// Encode implements domain.Codec
func (JSONCodec) Encode(entries []domain.Entry) ([]byte, error) {
	raw, err := encodeJSONGroup(nest(entries))
	if err != nil {
		return nil, err
	}
	return pretty.Pretty([]byte(raw)), nil
}

func encodeJSONGroup(g *group) (string, error) {
	doc := "{}"
	for _, field := range g.fields() {
		var err error
		path := jsonPathSegment(field.name)
		if field.name == selfKey {
			doc, err = jsonSelfValue(field.value)
		} else if field.isGroup() {
			var raw string
			if raw, err = encodeJSONGroup(field); err == nil {
				doc, err = sjson.SetRaw(doc, path, raw)
			}
		} else {
			doc, err = sjson.Set(doc, path, field.value)
		}
		if err != nil {
			return "", fmt.Errorf("key %q: %w", field.name, err)
		}
	}
	return doc, nil
}

// jsonSelfValue starts an object whose first member is the empty key.
// sjson cannot address an empty key, so the member is written directly.
func jsonSelfValue(value interface{}) (string, error) {
	wrapped, err := sjson.Set("{}", "v", value)
	if err != nil {
		return "", err
	}
	return `{"":` + gjson.Get(wrapped, "v").Raw + `}`, nil
}

// jsonPathSegment escapes a single key so sjson treats it literally
func jsonPathSegment(name string) string {
	var b strings.Builder
	numeric := name != ""
	for _, r := range name {
		if r < '0' || r > '9' {
			numeric = false
		}
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@', '!', '=', '<', '>', '%', ':', '"', ',', '[', ']', '{', '}', '(', ')', '~':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	if numeric {
		return ":" + b.String()
	}
	return b.String()
}

// Decode implements domain.Codec
func (JSONCodec) Decode(data []byte) ([]domain.Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("top-level JSON value must be an object")
	}
	return decodeJSONObject(nil, "", doc), nil
}

func decodeJSONObject(entries []domain.Entry, prefix string, obj gjson.Result) []domain.Entry {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if value.IsObject() {
			entries = decodeJSONObject(entries, joinKey(prefix, name), value)
		} else {
			entries = flatten(entries, prefix, name, value.Value())
		}
		return true
	})
	return entries
}
