// Package domain contains core domain types and value objects
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Separator delimits groups inside a flat key
const Separator = "/"

// DefaultGroup is the top-level group used when a caller does not name one
const DefaultGroup = "General"

// Entry is a single flat key/value pair, the key carrying its full group path
type Entry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// Format identifies an on-disk settings file format
type Format int

const (
	FormatINI Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
)

var formatNames = map[Format]string{
	FormatINI:  "ini",
	FormatJSON: "json",
	FormatYAML: "yaml",
	FormatTOML: "toml",
}

// String returns the lower-case name of the format
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat resolves a format name such as "ini" or "yaml"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ini", "conf", "cfg":
		return FormatINI, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return FormatINI, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks a format from the file extension, falling back to INI
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatINI
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return FormatINI
	}
	return format
}

// Config represents the application configuration
type Config struct {
	Settings SettingsConfig `json:"settings" mapstructure:"settings"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
	UI       UIConfig       `json:"ui" mapstructure:"ui"`
}

// SettingsConfig describes where and how the settings store is persisted
type SettingsConfig struct {
	File     string `json:"file" mapstructure:"file"`
	Format   string `json:"format" mapstructure:"format"`
	Sync     bool   `json:"sync" mapstructure:"sync"`
	Watch    bool   `json:"watch" mapstructure:"watch"`
	AutoSave bool   `json:"autosave" mapstructure:"autosave"`
}

// ResolveFormat returns the configured format, or the one implied by the file name
func (c SettingsConfig) ResolveFormat() (Format, error) {
	if strings.TrimSpace(c.Format) == "" {
		return FormatFromPath(c.File), nil
	}
	return ParseFormat(c.Format)
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
	Color bool   `json:"color" mapstructure:"color"`
}

// UIConfig contains UI preferences
type UIConfig struct {
	Language string `json:"language" mapstructure:"language"`
	Theme    string `json:"theme" mapstructure:"theme"`
	ShowHelp bool   `json:"show_help" mapstructure:"show_help"`
}
