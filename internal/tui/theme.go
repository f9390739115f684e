// Package tui contains the terminal settings editor built on Bubble Tea
package tui

import (
	"sort"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTheme implements the domain.Theme interface
type DefaultTheme struct {
	colors map[string]string
	styles map[string]map[string]interface{}
}

// NewDefaultTheme creates a new default theme
func NewDefaultTheme() *DefaultTheme {
	colors := map[string]string{
		"primary":    "62",  // Blue
		"secondary":  "205", // Pink
		"success":    "46",  // Green
		"warning":    "226", // Yellow
		"error":      "196", // Red
		"info":       "39",  // Light Blue
		"group":      "86",  // Cyan
		"key":        "39",  // Light Blue
		"value":      "214", // Orange
		"foreground": "252", // Light Gray
		"muted":      "243", // Medium Gray
		"border":     "240", // Border Gray
		"highlight":  "230", // White
	}

	t := &DefaultTheme{colors: colors}
	t.rebuildStyles()
	return t
}

func (t *DefaultTheme) rebuildStyles() {
	c := t.colors
	t.styles = map[string]map[string]interface{}{
		"header": {
			"background": c["primary"],
			"foreground": c["highlight"],
			"bold":       true,
			"padding":    "0 1",
		},
		"row_selected": {
			"background": c["primary"],
			"foreground": c["highlight"],
			"bold":       true,
		},
		"group": {
			"foreground": c["group"],
			"bold":       true,
		},
		"key": {
			"foreground": c["key"],
		},
		"value": {
			"foreground": c["value"],
		},
		"editor": {
			"border":            "rounded",
			"border_foreground": c["primary"],
			"padding":           "0 1",
		},
		"error": {
			"foreground": c["error"],
			"italic":     true,
		},
		"success": {
			"foreground": c["success"],
		},
		"info": {
			"foreground": c["info"],
		},
		"muted": {
			"foreground": c["muted"],
			"italic":     true,
		},
	}
}

// GetColor implements domain.Theme
func (t *DefaultTheme) GetColor(element string) string {
	if color, exists := t.colors[element]; exists {
		return color
	}
	return t.colors["foreground"]
}

// GetStyle implements domain.Theme
func (t *DefaultTheme) GetStyle(element string) map[string]interface{} {
	if style, exists := t.styles[element]; exists {
		return style
	}
	return make(map[string]interface{})
}

// SetColor implements domain.Theme
func (t *DefaultTheme) SetColor(element, color string) {
	t.colors[element] = color
	t.rebuildStyles()
}

// StyleFor converts a theme element into a lipgloss.Style
func StyleFor(theme domain.Theme, element string) lipgloss.Style {
	style := lipgloss.NewStyle()
	if theme == nil {
		return style
	}
	styleMap := theme.GetStyle(element)

	if bg, ok := styleMap["background"].(string); ok {
		style = style.Background(lipgloss.Color(bg))
	}
	if fg, ok := styleMap["foreground"].(string); ok {
		style = style.Foreground(lipgloss.Color(fg))
	}
	if bold, ok := styleMap["bold"].(bool); ok && bold {
		style = style.Bold(true)
	}
	if italic, ok := styleMap["italic"].(bool); ok && italic {
		style = style.Italic(true)
	}
	if _, ok := styleMap["padding"].(string); ok {
		style = style.Padding(0, 1)
	}
	if border, ok := styleMap["border"].(string); ok {
		switch border {
		case "rounded":
			style = style.Border(lipgloss.RoundedBorder())
		case "normal":
			style = style.Border(lipgloss.NormalBorder())
		}
	}
	if borderFg, ok := styleMap["border_foreground"].(string); ok {
		style = style.BorderForeground(lipgloss.Color(borderFg))
	}
	return style
}

// NewDarkTheme creates a dark theme variant
func NewDarkTheme() *DefaultTheme {
	t := NewDefaultTheme()
	t.colors["foreground"] = "15"
	t.colors["muted"] = "8"
	t.colors["border"] = "8"
	t.rebuildStyles()
	return t
}

// NewLightTheme creates a light theme variant
func NewLightTheme() *DefaultTheme {
	t := NewDefaultTheme()
	t.colors["foreground"] = "0"
	t.colors["muted"] = "8"
	t.colors["border"] = "7"
	t.colors["primary"] = "4"
	t.colors["group"] = "6"
	t.colors["value"] = "130"
	t.rebuildStyles()
	return t
}

// ThemeManager manages theme switching and application
type ThemeManager struct {
	themes      map[string]domain.Theme
	currentName string
	current     domain.Theme
}

// NewThemeManager creates a theme manager with the default, dark and light themes
func NewThemeManager() *ThemeManager {
	themes := map[string]domain.Theme{
		"default": NewDefaultTheme(),
		"dark":    NewDarkTheme(),
		"light":   NewLightTheme(),
	}

	return &ThemeManager{
		themes:      themes,
		currentName: "default",
		current:     themes["default"],
	}
}

// GetTheme returns the current theme
func (tm *ThemeManager) GetTheme() domain.Theme {
	return tm.current
}

// SetTheme sets the current theme by name
func (tm *ThemeManager) SetTheme(name string) bool {
	if theme, exists := tm.themes[name]; exists {
		tm.currentName = name
		tm.current = theme
		return true
	}
	return false
}

// GetCurrentThemeName returns the name of the current theme
func (tm *ThemeManager) GetCurrentThemeName() string {
	return tm.currentName
}

// GetAvailableThemes returns the registered theme names in sorted order
func (tm *ThemeManager) GetAvailableThemes() []string {
	names := make([]string, 0, len(tm.themes))
	for name := range tm.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTheme registers a new theme
func (tm *ThemeManager) RegisterTheme(name string, theme domain.Theme) {
	tm.themes[name] = theme
}

// ApplyThemeToComponent applies the current theme to a TUI component
func (tm *ThemeManager) ApplyThemeToComponent(component domain.TUIComponent) {
	component.SetTheme(tm.current)
}
