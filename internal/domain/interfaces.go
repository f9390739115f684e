// Package domain contains the core contracts shared by the settings store, the settings tree model and their hosts
package domain

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Store is the flat persistence backend consumed by the settings tree model.
// Keys are hierarchical by convention only: groups are delimited by '/'.
type Store interface {
	Get(key string, defaultValue interface{}) interface{}
	GetIn(group, key string, defaultValue interface{}) interface{}
	Set(key string, value interface{})
	SetIn(group, key string, value interface{})
	ChildGroups() []string
	ChildGroupsOf(group string) []string
	ChildKeys(group string) []string
	AllKeys() []string
	Contains(key string) bool
	ContainsIn(group, key string) bool
	Clear()
	LoadFromFile(path string, format Format) error
	SaveToFile(path string, format Format) error
}

// Codec converts between the flat entry list of a store and an on-disk format
type Codec interface {
	Encode(entries []Entry) ([]byte, error)
	Decode(data []byte) ([]Entry, error)
}

// ConfigurationManager handles application configuration
// Follows Interface Segregation Principle - focused on configuration operations
type ConfigurationManager interface {
	Load() error
	Save() error
	Get(key string) interface{}
	Set(key string, value interface{}) error
	Validate() error
	GetSettingsConfig() SettingsConfig
	GetUIConfig() UIConfig
}

// Logger defines logging operations
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
}

// TUIComponent defines reusable UI components
// Follows Open/Closed Principle - extensible without modification
type TUIComponent interface {
	tea.Model
	SetSize(width, height int)
	SetTheme(theme Theme)
	Focus()
	Blur()
}

// Theme defines UI theming interface
type Theme interface {
	GetColor(element string) string
	GetStyle(element string) map[string]interface{}
	SetColor(element, color string)
}
