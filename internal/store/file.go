package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/spf13/afero"
)

// LoadFromFile replaces the store contents with the settings read from path.
// A missing file loads as empty. When the file exists but cannot be read or
// parsed the store is left untouched and the error is returned.
func (s *Store) LoadFromFile(path string, format domain.Format) error {
	s.logger.Info("Loading settings from file", "path", path, "format", format)

	source, err := s.openFile(path, format)
	if err != nil {
		s.logger.Warn("Failed to load settings file", "path", path, "error", err)
		return err
	}

	saved := s.scope
	s.scope = nil
	defer func() { s.scope = saved }()

	s.Clear()
	copySettings(source, s)

	s.logger.Debug("Loaded settings from file", "path", path, "keys", s.AllKeys())
	return nil
}

// SaveToFile writes the store into path. Keys already present in the file and
// unknown to the store are kept.
func (s *Store) SaveToFile(path string, format domain.Format) error {
	s.logger.Info("Saving settings to file", "path", path, "format", format)

	target, err := s.openFile(path, format)
	if err != nil {
		s.logger.Warn("Failed to open settings file for saving", "path", path, "error", err)
		return err
	}

	saved := s.scope
	s.scope = nil
	defer func() { s.scope = saved }()

	copySettings(s, target)

	data, err := s.codecs[format].Encode(target.Entries())
	if err != nil {
		err = fmt.Errorf("%w %s: %v", domain.ErrEncode, path, err)
		s.logger.Warn("Failed to encode settings", "path", path, "error", err)
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			s.logger.Warn("Failed to create settings directory", "path", dir, "error", err)
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		s.logger.Warn("Failed to write settings file", "path", path, "error", err)
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	s.logger.Debug("Saved settings to file", "path", path, "keys", target.AllKeys())
	return nil
}

// openFile reads path into a fresh store; a missing or empty file yields an empty store
func (s *Store) openFile(path string, format domain.Format) (*Store, error) {
	codec, ok := s.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownFormat, format)
	}

	file := s.sibling()

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return file, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return file, nil
	}

	entries, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", domain.ErrDecode, path, err)
	}

	for _, entry := range entries {
		file.Set(entry.Key, entry.Value)
	}
	return file, nil
}

// copySettings copies every key of source into destination. Groups are
// visited breadth first from a work queue, each exactly once.
func copySettings(source, destination *Store) {
	pending := []string{""}

	for len(pending) > 0 {
		group := pending[0]
		pending = pending[1:]

		for _, key := range source.ChildKeys(group) {
			destination.Set(joinKey(group, key), source.GetIn(group, key, nil))
		}

		for _, child := range source.ChildGroupsOf(group) {
			pending = append(pending, joinKey(group, child))
		}
	}
}
