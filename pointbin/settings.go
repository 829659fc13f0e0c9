package pointbin

import (
	"strconv"
	"sync"
)

// MemorySettings implements Settings in memory. It is safe for concurrent use.
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemorySettings creates an empty in-memory Settings.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]any)}
}

func (s *MemorySettings) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch v := s.values[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func (s *MemorySettings) Int(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch v := s.values[key].(type) {
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (s *MemorySettings) Set(key string, value any) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// loadDefaults reads the last-used load choices, falling back to a single
// float dimension.
func loadDefaults(s Settings) LoadParameters {
	defaults := LoadParameters{
		ElementType:   Float32,
		NumDimensions: 1,
	}
	if s == nil {
		return defaults
	}

	if t, err := ParseElementType(s.String(SettingDataType)); err == nil {
		defaults.ElementType = t
	}
	if n := s.Int(SettingNumDimensions); n > 0 {
		defaults.NumDimensions = n
	}
	if name := s.String(SettingStoreAs); name != "" {
		if t, err := ParseElementType(name); err == nil {
			defaults.StoreAs = &t
		}
	}
	return defaults
}

// saveDefaults records the accepted load choices.
func saveDefaults(s Settings, params LoadParameters) error {
	if s == nil {
		return nil
	}
	if err := s.Set(SettingDataType, params.ElementType.String()); err != nil {
		return err
	}
	if err := s.Set(SettingNumDimensions, params.NumDimensions); err != nil {
		return err
	}
	storeAs := ""
	if params.StoreAs != nil {
		storeAs = params.StoreAs.String()
	}
	return s.Set(SettingStoreAs, storeAs)
}
