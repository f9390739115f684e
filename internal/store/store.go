// Package store implements the flat, hierarchical-by-convention settings store.
//
// Keys are plain strings whose groups are delimited by '/'. There is no
// structural nesting object: a group exists as long as at least one key lives
// below it. Scoped access follows push/pop discipline through BeginGroup and
// EndGroup, and every scoped helper restores the scope it found.
package store

import (
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Store is an in-memory flat key/value store with file import and export
type Store struct {
	fs     afero.Fs
	logger domain.Logger
	codecs map[domain.Format]domain.Codec

	keys   []string
	values map[string]interface{}
	scope  []string
}

var _ domain.Store = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithFs sets the filesystem used for load and save
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger domain.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCodec registers or replaces the codec for a format
func WithCodec(format domain.Format, codec domain.Codec) Option {
	return func(s *Store) {
		s.codecs[format] = codec
	}
}

// New creates an empty store backed by the OS filesystem
func New(opts ...Option) *Store {
	s := &Store{
		fs:     afero.NewOsFs(),
		logger: logging.Nop(),
		codecs: DefaultCodecs(),
		values: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sibling returns an empty store sharing filesystem, logger and codecs
func (s *Store) sibling() *Store {
	return &Store{
		fs:     s.fs,
		logger: s.logger,
		codecs: s.codecs,
		values: make(map[string]interface{}),
	}
}

// BeginGroup pushes group onto the scope stack
func (s *Store) BeginGroup(group string) {
	s.scope = append(s.scope, normalizeKey(group))
}

// EndGroup pops the innermost scope; it is a no-op at top level
func (s *Store) EndGroup() {
	if len(s.scope) > 0 {
		s.scope = s.scope[:len(s.scope)-1]
	}
}

// Group returns the current scope as a slash-joined path
func (s *Store) Group() string {
	return joinKey(s.scope...)
}

// Get returns the value stored under key in the current scope, or defaultValue
func (s *Store) Get(key string, defaultValue interface{}) interface{} {
	if value, ok := s.values[s.absolute(key)]; ok {
		return value
	}
	return defaultValue
}

// GetIn reads key inside group and restores the previous scope
func (s *Store) GetIn(group, key string, defaultValue interface{}) interface{} {
	s.BeginGroup(group)
	defer s.EndGroup()
	return s.Get(key, defaultValue)
}

// Set writes value under key in the current scope, creating it if absent
func (s *Store) Set(key string, value interface{}) {
	full := s.absolute(key)
	if full == "" {
		return
	}
	if _, exists := s.values[full]; !exists {
		s.keys = append(s.keys, full)
	}
	s.values[full] = value
}

// SetIn writes key inside group and restores the previous scope
func (s *Store) SetIn(group, key string, value interface{}) {
	s.BeginGroup(group)
	defer s.EndGroup()
	s.Set(key, value)
}

// Remove deletes key and every key below it in the current scope
func (s *Store) Remove(key string) {
	full := s.absolute(key)
	kept := s.keys[:0]
	for _, k := range s.keys {
		if full == "" || k == full || strings.HasPrefix(k, full+domain.Separator) {
			delete(s.values, k)
			continue
		}
		kept = append(kept, k)
	}
	s.keys = kept
}

// ChildGroups lists the groups directly below the current scope
func (s *Store) ChildGroups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, k := range s.keys {
		rel, ok := s.relative(k)
		if !ok {
			continue
		}
		if i := strings.Index(rel, domain.Separator); i > 0 {
			name := rel[:i]
			if !seen[name] {
				seen[name] = true
				groups = append(groups, name)
			}
		}
	}
	return groups
}

// ChildGroupsOf lists the groups directly below group
func (s *Store) ChildGroupsOf(group string) []string {
	s.BeginGroup(group)
	defer s.EndGroup()
	return s.ChildGroups()
}

// ChildKeys lists the keys stored directly in group
func (s *Store) ChildKeys(group string) []string {
	s.BeginGroup(group)
	defer s.EndGroup()

	var keys []string
	for _, k := range s.keys {
		rel, ok := s.relative(k)
		if ok && !strings.Contains(rel, domain.Separator) {
			keys = append(keys, rel)
		}
	}
	return keys
}

// AllKeys lists every key below the current scope, relative to it
func (s *Store) AllKeys() []string {
	var keys []string
	for _, k := range s.keys {
		if rel, ok := s.relative(k); ok {
			keys = append(keys, rel)
		}
	}
	return keys
}

// Contains reports whether key exists in the current scope
func (s *Store) Contains(key string) bool {
	_, ok := s.values[s.absolute(key)]
	return ok
}

// ContainsIn reports whether key exists inside group
func (s *Store) ContainsIn(group, key string) bool {
	s.BeginGroup(group)
	defer s.EndGroup()
	return s.Contains(key)
}

// Clear removes every key below the current scope
func (s *Store) Clear() {
	s.logger.Info("Clearing current session settings", "group", s.Group())
	s.Remove("")
}

// Len returns the number of stored keys
func (s *Store) Len() int {
	return len(s.keys)
}

// Entries returns every key/value pair in insertion order
func (s *Store) Entries() []domain.Entry {
	entries := make([]domain.Entry, 0, len(s.keys))
	for _, k := range s.keys {
		entries = append(entries, domain.Entry{Key: k, Value: s.values[k]})
	}
	return entries
}

// String returns the value of key in group as a string
func (s *Store) String(group, key, defaultValue string) string {
	value := s.GetIn(group, key, nil)
	if value == nil {
		return defaultValue
	}
	str, err := cast.ToStringE(value)
	if err != nil {
		return defaultValue
	}
	return str
}

// Bool returns the value of key in group as a bool
func (s *Store) Bool(group, key string, defaultValue bool) bool {
	value := s.GetIn(group, key, nil)
	if value == nil {
		return defaultValue
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// Int returns the value of key in group as an int
func (s *Store) Int(group, key string, defaultValue int) int {
	value := s.GetIn(group, key, nil)
	if value == nil {
		return defaultValue
	}
	i, err := cast.ToIntE(value)
	if err != nil {
		return defaultValue
	}
	return i
}

func (s *Store) absolute(key string) string {
	return joinKey(s.Group(), normalizeKey(key))
}

// relative strips the current scope from an absolute key
func (s *Store) relative(key string) (string, bool) {
	prefix := s.Group()
	if prefix == "" {
		return key, true
	}
	if strings.HasPrefix(key, prefix+domain.Separator) {
		return key[len(prefix)+1:], true
	}
	return "", false
}

// normalizeKey drops empty segments so "/a//b/" and "a/b" address the same key
func normalizeKey(key string) string {
	if !strings.Contains(key, domain.Separator) {
		return key
	}
	parts := strings.Split(key, domain.Separator)
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, domain.Separator)
}

// joinKey joins non-empty parts with the group separator
func joinKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, domain.Separator)
}
