// Package settings persists last-used plugin choices in a JSON file per
// plugin kind.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/justapithecus/pointbin/pointbin"
)

// Store is a viper-backed pointbin.Settings. Every Set rewrites the file.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads <dir>/<kind>.json, creating dir if it does not exist. A missing
// file yields an empty store.
func Open(dir, kind string) (*Store, error) {
	if kind == "" {
		return nil, errors.New("settings: kind is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	path := filepath.Join(dir, kind+".json")
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("settings: read %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("settings: %w", err)
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) String(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(key)
}

func (s *Store) Int(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetInt(key)
}

func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.path, err)
	}
	return nil
}

// Ensure Store implements pointbin.Settings
var _ pointbin.Settings = (*Store)(nil)
