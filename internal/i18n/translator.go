// Package i18n provides the runtime translator used by the settings UI
package i18n

import (
	"fmt"
	"sync"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is loaded whenever a requested language is unavailable
var DefaultLanguage = language.English

// LanguageChangedFunc is called after a language has been loaded
type LanguageChangedFunc func(lang string)

// Translator selects the active message catalog at runtime
type Translator struct {
	mu        sync.RWMutex
	catalog   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	current   language.Tag
	printer   *message.Printer
	listeners []LanguageChangedFunc
	logger    domain.Logger
}

// Option configures a Translator
type Option func(*Translator)

// WithLogger sets the translator logger
func WithLogger(logger domain.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMessages adds or overrides translations for lang
func WithMessages(lang language.Tag, messages map[string]string) Option {
	return func(t *Translator) {
		t.add(lang, messages)
	}
}

// New creates a translator with the built-in English and German catalogs
// and the default language active
func New(opts ...Option) *Translator {
	t := &Translator{
		catalog: catalog.NewBuilder(catalog.Fallback(DefaultLanguage)),
		logger:  logging.Nop(),
	}
	t.add(DefaultLanguage, english)
	t.add(language.German, german)

	for _, opt := range opts {
		opt(t)
	}

	t.matcher = language.NewMatcher(t.supported)
	t.current = DefaultLanguage
	t.printer = message.NewPrinter(DefaultLanguage, message.Catalog(t.catalog))
	return t
}

func (t *Translator) add(lang language.Tag, messages map[string]string) {
	for key, msg := range messages {
		if err := t.catalog.SetString(lang, key, msg); err != nil {
			t.logger.Warn("Failed to register translation", "language", lang.String(), "key", key, "error", err)
		}
	}
	for _, tag := range t.supported {
		if tag == lang {
			return
		}
	}
	t.supported = append(t.supported, lang)
}

// Load activates the catalog for lang. When lang is malformed or has no
// catalog the default language is loaded instead and false is returned.
func (t *Translator) Load(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		t.logger.Warn("Invalid language, loading default translation", "language", lang, "error", err)
		t.activate(DefaultLanguage)
		return false
	}

	_, index, confidence := t.matcher.Match(tag)
	if confidence < language.High {
		t.logger.Warn("No translation for language, loading default translation", "language", lang)
		t.activate(DefaultLanguage)
		return false
	}

	t.activate(t.supported[index])
	return true
}

// LoadDefault activates the default language
func (t *Translator) LoadDefault() bool {
	t.activate(DefaultLanguage)
	return true
}

func (t *Translator) activate(tag language.Tag) {
	t.mu.Lock()
	changed := t.current != tag
	t.current = tag
	t.printer = message.NewPrinter(tag, message.Catalog(t.catalog))
	listeners := append([]LanguageChangedFunc(nil), t.listeners...)
	t.mu.Unlock()

	t.logger.Debug("Loaded translation", "language", tag.String())
	if !changed {
		return
	}
	for _, listener := range listeners {
		listener(tag.String())
	}
}

// CurrentLanguage returns the BCP 47 tag of the active language
func (t *Translator) CurrentLanguage() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current.String()
}

// Languages returns the tags of every available catalog
func (t *Translator) Languages() []string {
	languages := make([]string, 0, len(t.supported))
	for _, tag := range t.supported {
		languages = append(languages, tag.String())
	}
	return languages
}

// OnLanguageChanged registers fn to run whenever the active language changes
func (t *Translator) OnLanguageChanged(fn LanguageChangedFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// T translates key
func (t *Translator) T(key string) string {
	return t.Sprintf(key)
}

// Sprintf translates key and formats it with args
func (t *Translator) Sprintf(key string, args ...interface{}) string {
	t.mu.RLock()
	printer := t.printer
	t.mu.RUnlock()

	if printer == nil {
		return fmt.Sprintf(key, args...)
	}
	return printer.Sprintf(key, args...)
}
