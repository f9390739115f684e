// Package app wires the settings store, tree model and file watcher into the
// session that a host program drives.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/i18n"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/appscaffold/appscaffold/internal/settings"
	"github.com/appscaffold/appscaffold/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// LanguageKey is the key under the default group that selects the UI language
const LanguageKey = "language"

// saveQuietPeriod is how long watcher events are ignored after our own save
const saveQuietPeriod = time.Second

// Session owns the settings of one file for the lifetime of a host
type Session struct {
	mu      sync.Mutex
	config  domain.SettingsConfig
	format  domain.Format
	store   *store.Store
	model   *settings.Model
	watcher *store.Watcher
	retrier *Retrier
	logger  domain.Logger
	fs      afero.Fs
	closed  bool
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger, which is shared with store and model
func WithLogger(logger domain.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFs sets the filesystem the store reads and writes
func WithFs(fs afero.Fs) Option {
	return func(s *Session) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithReloadRetry sets how often Reload retries a file that fails to decode,
// which happens when an editor is still writing it
func WithReloadRetry(attempts int, baseDelay time.Duration) Option {
	return func(s *Session) {
		s.retrier = NewRetrier(attempts, baseDelay)
	}
}

// NewSession creates the store and model for cfg and loads the settings
// file. A file that cannot be read is logged and leaves the session empty.
func NewSession(cfg domain.SettingsConfig, opts ...Option) (*Session, error) {
	format, err := cfg.ResolveFormat()
	if err != nil {
		return nil, fmt.Errorf("invalid settings format: %w", err)
	}

	s := &Session{
		config: cfg,
		format: format,
		logger:  logging.Nop(),
		fs:      afero.NewOsFs(),
		retrier: NewRetrier(0, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.store = store.New(store.WithFs(s.fs), store.WithLogger(s.logger))
	s.model = settings.NewModel(s.store, settings.WithSync(cfg.Sync), settings.WithLogger(s.logger))

	if err := s.Load(); err != nil {
		s.logger.Warn("Starting with empty settings", "path", cfg.File, "error", err)
	}
	return s, nil
}

// Model returns the settings tree model
func (s *Session) Model() *settings.Model {
	return s.model
}

// Store returns the backing store
func (s *Session) Store() *store.Store {
	return s.store
}

// Path returns the settings file path
func (s *Session) Path() string {
	return s.config.File
}

// Format returns the resolved file format
func (s *Session) Format() domain.Format {
	return s.format
}

// Load replaces the model contents with the settings file
func (s *Session) Load() error {
	return s.model.LoadFromFileAs(s.config.File, s.format)
}

// Reload loads the settings file again. Decode failures are retried, since
// reloads usually follow a change reported by the watcher.
func (s *Session) Reload() error {
	return s.retrier.Do(context.Background(), s.Load, func(err error) bool {
		if errors.Is(err, domain.ErrDecode) {
			s.logger.Debug("Settings file not readable yet, retrying", "path", s.config.File, "error", err)
			return true
		}
		return false
	})
}

// Save writes the model to the settings file. Watcher events caused by the
// write are suppressed.
func (s *Session) Save() error {
	s.mu.Lock()
	watcher := s.watcher
	s.mu.Unlock()

	if watcher != nil {
		watcher.Ignore(saveQuietPeriod)
	}
	return s.model.SaveToFileAs(s.config.File, s.format)
}

// Language returns the language stored in the default group, or fallback
func (s *Session) Language(fallback string) string {
	return s.store.String(domain.DefaultGroup, LanguageKey, fallback)
}

// BindTranslator loads the stored language into t, or fallback when none is
// stored, and keeps t in step with later edits of that setting.
func (s *Session) BindTranslator(t *i18n.Translator, fallback string) {
	t.Load(s.Language(fallback))

	s.model.AddObserver(settings.ObserverFuncs{
		OnDataChanged: func(topLeft, _ settings.Handle, _ []settings.Role) {
			node := topLeft.Node()
			if node.Key() != LanguageKey || node.FullGroup() != domain.DefaultGroup {
				return
			}
			t.Load(cast.ToString(node.Value()))
		},
		OnModelReset: func() {
			t.Load(s.Language(fallback))
		},
	})
}

// Watch starts reporting external modifications of the settings file to
// onChange. onChange runs on the watcher goroutine.
func (s *Session) Watch(onChange func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return nil
	}
	watcher, err := store.NewWatcher(s.config.File, onChange, store.WithWatcherLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to watch settings file: %w", err)
	}
	s.watcher = watcher
	return nil
}

// Close stops the watcher and, with autosave enabled, writes the settings
// file one last time. Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			s.logger.Warn("Failed to stop settings watcher", "error", err)
		}
	}

	if !s.config.AutoSave {
		return nil
	}
	return s.model.SaveToFileAs(s.config.File, s.format)
}
