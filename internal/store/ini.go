package store

import (
	"bytes"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"gopkg.in/ini.v1"
)

// iniGeneral holds keys that have no group. A real top-level group that is
// itself called General is escaped to iniEscapedGeneral.
const (
	iniGeneral        = "General"
	iniEscapedGeneral = "%General"
)

// INICodec reads and writes grouped INI files. The first key segment selects
// the section; any further segments stay in the key name.
type INICodec struct{}

// Encode implements domain.Codec
func (INICodec) Encode(entries []domain.Entry) ([]byte, error) {
	cfg := ini.Empty()

	for _, entry := range entries {
		section, key := iniSplit(entry.Key)
		if _, err := cfg.Section(section).NewKey(key, scalarString(entry.Value)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode implements domain.Codec
func (INICodec) Decode(data []byte) ([]domain.Entry, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	for _, section := range cfg.Sections() {
		prefix := iniGroup(section.Name())
		for _, key := range section.Keys() {
			entries = flatten(entries, prefix, key.Name(), key.Value())
		}
	}
	return entries, nil
}

// iniSplit maps a flat key to its section and in-section key name
func iniSplit(key string) (string, string) {
	i := strings.Index(key, domain.Separator)
	if i < 0 {
		return iniGeneral, key
	}
	section := key[:i]
	if section == iniGeneral {
		section = iniEscapedGeneral
	}
	return section, key[i+1:]
}

// iniGroup maps a section name back to the group prefix of its keys
func iniGroup(section string) string {
	switch section {
	case ini.DefaultSection, iniGeneral:
		return ""
	case iniEscapedGeneral:
		return iniGeneral
	}
	return section
}
