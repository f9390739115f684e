// Package config provides configuration management functionality
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Manager implements the ConfigurationManager interface
type Manager struct {
	config     *domain.Config
	viper      *viper.Viper
	configFile string
	validator  *Validator
	listeners  []ConfigChangeListener
}

var _ domain.ConfigurationManager = (*Manager)(nil)

// ConfigChangeListener defines a callback for configuration changes
type ConfigChangeListener func(key string, oldValue, newValue interface{})

// NewManager creates a new configuration manager
func NewManager() *Manager {
	v := viper.New()

	// Set configuration file properties
	v.SetConfigName("appscaffold")
	v.SetConfigType("yaml")

	// Add configuration paths
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/appscaffold")

	// Set environment variable prefix and enable automatic env binding
	v.SetEnvPrefix("APPSCAFFOLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindEnvironmentVariables(v)
	setDefaults(v)

	return &Manager{
		config:    &domain.Config{},
		viper:     v,
		validator: NewValidator(),
		listeners: make([]ConfigChangeListener, 0),
	}
}

// bindEnvironmentVariables binds all configuration keys to environment variables
func bindEnvironmentVariables(v *viper.Viper) {
	// Settings store
	v.BindEnv("settings.file", "APPSCAFFOLD_SETTINGS_FILE")
	v.BindEnv("settings.format", "APPSCAFFOLD_SETTINGS_FORMAT")
	v.BindEnv("settings.sync", "APPSCAFFOLD_SETTINGS_SYNC")
	v.BindEnv("settings.watch", "APPSCAFFOLD_SETTINGS_WATCH")
	v.BindEnv("settings.autosave", "APPSCAFFOLD_SETTINGS_AUTOSAVE")

	// Logging configuration
	v.BindEnv("logging.level", "APPSCAFFOLD_LOGGING_LEVEL")
	v.BindEnv("logging.file", "APPSCAFFOLD_LOGGING_FILE")
	v.BindEnv("logging.color", "APPSCAFFOLD_LOGGING_COLOR")

	// UI configuration
	v.BindEnv("ui.language", "APPSCAFFOLD_UI_LANGUAGE")
	v.BindEnv("ui.theme", "APPSCAFFOLD_UI_THEME")
	v.BindEnv("ui.show_help", "APPSCAFFOLD_UI_SHOW_HELP")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	setSettingsDefaults(v.SetDefault)
	setLoggingDefaults(v.SetDefault)
	setUIDefaults(v.SetDefault)
}

func setSettingsDefaults(set func(string, interface{})) {
	set("settings.file", "settings.ini")
	set("settings.format", "")
	set("settings.sync", true)
	set("settings.watch", false)
	set("settings.autosave", true)
}

func setLoggingDefaults(set func(string, interface{})) {
	set("logging.level", "info")
	set("logging.file", "appscaffold.log")
	set("logging.color", true)
}

func setUIDefaults(set func(string, interface{})) {
	set("ui.language", "en")
	set("ui.theme", "default")
	set("ui.show_help", true)
}

// Load loads configuration from file and environment variables
func (m *Manager) Load() error {
	// Try to read configuration file
	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable, we'll use defaults and environment variables
	} else {
		m.configFile = m.viper.ConfigFileUsed()
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// LoadFromFile loads configuration from a specific file path
func (m *Manager) LoadFromFile(filePath string) error {
	m.viper.SetConfigFile(filePath)

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	m.configFile = filePath

	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return m.Validate()
}

// GetConfigFile returns the path of the currently loaded config file
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Save saves the current configuration to file
func (m *Manager) Save() error {
	configFile := m.configFile
	if configFile == "" {
		configFile = filepath.Join(os.Getenv("HOME"), ".config", "appscaffold", "appscaffold.yaml")
	}
	return m.SaveAs(configFile)
}

// SaveAs saves the current configuration to a specific file path
func (m *Manager) SaveAs(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(filePath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.configFile = filePath
	return nil
}

// Get retrieves a configuration value by key
func (m *Manager) Get(key string) interface{} {
	return m.viper.Get(key)
}

// Set sets a configuration value by key
func (m *Manager) Set(key string, value interface{}) error {
	oldValue := m.viper.Get(key)

	m.viper.Set(key, value)

	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}

	if err := m.Validate(); err != nil {
		// Rollback on validation failure
		m.viper.Set(key, oldValue)
		m.viper.Unmarshal(m.config)
		return fmt.Errorf("validation failed for key %s: %w", key, err)
	}

	m.notifyListeners(key, oldValue, value)
	return nil
}

// SetMultiple sets multiple configuration values atomically
func (m *Manager) SetMultiple(values map[string]interface{}) error {
	originalValues := make(map[string]interface{})
	for key := range values {
		originalValues[key] = m.viper.Get(key)
	}

	for key, value := range values {
		m.viper.Set(key, value)
	}

	rollback := func() {
		for key, value := range originalValues {
			m.viper.Set(key, value)
		}
		m.viper.Unmarshal(m.config)
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		rollback()
		return fmt.Errorf("failed to update config: %w", err)
	}

	if err := m.Validate(); err != nil {
		rollback()
		return fmt.Errorf("validation failed: %w", err)
	}

	for key, newValue := range values {
		m.notifyListeners(key, originalValues[key], newValue)
	}
	return nil
}

// AddChangeListener adds a configuration change listener
func (m *Manager) AddChangeListener(listener ConfigChangeListener) {
	m.listeners = append(m.listeners, listener)
}

// RemoveChangeListener removes a configuration change listener
func (m *Manager) RemoveChangeListener(listener ConfigChangeListener) {
	for i, l := range m.listeners {
		if reflect.ValueOf(l).Pointer() == reflect.ValueOf(listener).Pointer() {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			break
		}
	}
}

func (m *Manager) notifyListeners(key string, oldValue, newValue interface{}) {
	for _, listener := range m.listeners {
		listener(key, oldValue, newValue)
	}
}

// Validate validates the current configuration
func (m *Manager) Validate() error {
	return m.validator.Validate(m.config)
}

// GetSettingsConfig returns the settings store configuration
func (m *Manager) GetSettingsConfig() domain.SettingsConfig {
	return m.config.Settings
}

// GetLoggingConfig returns the logging configuration
func (m *Manager) GetLoggingConfig() domain.LoggingConfig {
	return m.config.Logging
}

// GetUIConfig returns the UI configuration
func (m *Manager) GetUIConfig() domain.UIConfig {
	return m.config.UI
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// Reset resets configuration to default values
func (m *Manager) Reset() error {
	v := viper.New()
	setDefaults(v)
	bindEnvironmentVariables(v)

	m.viper = v

	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}
	return nil
}

// ResetSection resets a specific configuration section to defaults
func (m *Manager) ResetSection(section string) error {
	switch section {
	case "settings":
		setSettingsDefaults(m.viper.Set)
	case "logging":
		setLoggingDefaults(m.viper.Set)
	case "ui":
		setUIDefaults(m.viper.Set)
	default:
		return fmt.Errorf("unknown configuration section: %s", section)
	}

	if err := m.viper.Unmarshal(m.config); err != nil {
		return fmt.Errorf("failed to reset section %s: %w", section, err)
	}

	return m.Validate()
}

// Validator implements configuration validation
type Validator struct {
	rules map[string][]ValidationRule
}

// ValidationRule represents a single validation rule
type ValidationRule struct {
	Name     string
	Validate func(interface{}) error
	Message  string
}

var validThemes = []string{"default", "dark", "light"}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := &Validator{
		rules: make(map[string][]ValidationRule),
	}
	v.setupValidationRules()
	return v
}

func (v *Validator) setupValidationRules() {
	v.rules["settings.file"] = []ValidationRule{
		{
			Name: "not_empty",
			Validate: func(value interface{}) error {
				if file, ok := value.(string); ok && strings.TrimSpace(file) == "" {
					return fmt.Errorf("file cannot be empty")
				}
				return nil
			},
			Message: "Settings file must be set",
		},
	}

	v.rules["settings.format"] = []ValidationRule{
		{
			Name: "known_format",
			Validate: func(value interface{}) error {
				if format, ok := value.(string); ok && format != "" {
					_, err := domain.ParseFormat(format)
					return err
				}
				return nil
			},
			Message: "Settings format must be one of: ini, json, yaml, toml",
		},
	}

	v.rules["logging.level"] = []ValidationRule{
		{
			Name: "known_level",
			Validate: func(value interface{}) error {
				if level, ok := value.(string); ok {
					_, err := logging.ParseLevel(level)
					return err
				}
				return nil
			},
			Message: "Logging level must be one of: debug, info, warn, error, fatal",
		},
	}

	v.rules["ui.language"] = []ValidationRule{
		{
			Name: "language_tag",
			Validate: func(value interface{}) error {
				if lang, ok := value.(string); ok {
					_, err := language.Parse(lang)
					return err
				}
				return nil
			},
			Message: "Language must be a BCP 47 tag",
		},
	}

	v.rules["ui.theme"] = []ValidationRule{
		{
			Name: "valid_theme",
			Validate: func(value interface{}) error {
				if theme, ok := value.(string); ok && !contains(validThemes, theme) {
					return fmt.Errorf("theme must be one of: %v", validThemes)
				}
				return nil
			},
			Message: "Theme must be one of: default, dark, light",
		},
	}
}

// ValidateField validates a specific configuration field
func (v *Validator) ValidateField(key string, value interface{}) error {
	if rules, exists := v.rules[key]; exists {
		for _, rule := range rules {
			if err := rule.Validate(value); err != nil {
				return fmt.Errorf("%s: %s", rule.Message, err.Error())
			}
		}
	}
	return nil
}

// Validate validates the configuration
func (v *Validator) Validate(config *domain.Config) error {
	if err := v.validateSettingsConfig(&config.Settings); err != nil {
		return fmt.Errorf("settings config validation failed: %w", err)
	}

	if err := v.validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := v.validateUIConfig(&config.UI); err != nil {
		return fmt.Errorf("UI config validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateSettingsConfig(config *domain.SettingsConfig) error {
	if err := v.ValidateField("settings.file", config.File); err != nil {
		return err
	}
	if _, err := config.ResolveFormat(); err != nil {
		return err
	}
	return nil
}

func (v *Validator) validateLoggingConfig(config *domain.LoggingConfig) error {
	return v.ValidateField("logging.level", config.Level)
}

func (v *Validator) validateUIConfig(config *domain.UIConfig) error {
	if err := v.ValidateField("ui.language", config.Language); err != nil {
		return err
	}
	return v.ValidateField("ui.theme", config.Theme)
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
