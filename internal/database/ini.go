package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/ini.v1"
)

const iniSection = "storage"

// INI implements Store on a single INI file. Values are written Go-quoted so that JSON,
// newlines and comment characters survive a round trip; the file is rewritten on every change.
type INI struct {
	path string
	file *ini.File
	mu   sync.RWMutex
}

var iniLoadOptions = ini.LoadOptions{
	Loose:                   true,
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
}

// NewINI loads path, starting empty if the file does not exist yet.
func NewINI(path string) (*INI, error) {
	if path == "" {
		return nil, errors.New("ini path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	f, err := ini.LoadSources(iniLoadOptions, path)
	if errors.Is(err, os.ErrNotExist) {
		f = ini.Empty(iniLoadOptions)
		err = nil
	}

	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return &INI{path: path, file: f}, nil
}

func (s *INI) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(filepath.Dir(s.path))

	return err
}

func (s *INI) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec := s.file.Section(iniSection)
	if !sec.HasKey(key) {
		return "", false, nil
	}

	raw := sec.Key(key).String()

	value, err := strconv.Unquote(raw)
	if err != nil {
		// hand-edited, unquoted value
		return raw, true, nil
	}

	return value, true, nil
}

func (s *INI) Set(key, value string) error {
	if key == "" {
		return errors.New("key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.file.Section(iniSection).Key(key).SetValue(strconv.Quote(value))

	return s.save()
}

func (s *INI) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.file.Section(iniSection)
	if !sec.HasKey(key) {
		return nil
	}

	sec.DeleteKey(key)

	return s.save()
}

func (s *INI) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.file.Section(iniSection).KeyStrings()
	sort.Strings(keys)

	return keys, nil
}

func (s *INI) Close() error {
	return nil
}

// save writes to a sibling temp file and renames it over the original.
func (s *INI) save() error {
	tmp := s.path + ".tmp"

	if err := s.file.SaveTo(tmp); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}
