package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/docchat-labs/docchat-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps the client configuration in a TOML file. Values are
// addressed by dot-notation keys ("service.base_url"); on disk they live
// in the matching TOML tables.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]any
}

// NewConfigStore opens config.toml in the given config directory,
// creating the directory if needed. If configDir is empty, defaults to
// ~/.docchat. A missing file means an empty configuration.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docchat")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		values:   make(map[string]any),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value for a key and whether it is set.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok
}

// GetString returns the value for a key, or "" when unset or not a string.
func (s *ConfigStore) GetString(key string) string {
	value, _ := s.Get(key)
	str, _ := value.(string)
	return str
}

// GetInt returns the value for a key, or 0 when unset or not an integer.
// TOML integers decode as int64.
func (s *ConfigStore) GetInt(key string) int {
	value, _ := s.Get(key)
	switch v := value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// GetBool returns the value for a key, or false when unset or not a boolean.
func (s *ConfigStore) GetBool(key string) bool {
	value, _ := s.Get(key)
	b, _ := value.(bool)
	return b
}

// Set stores a value and writes the file immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.save()
}

// Path returns the backing file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// load reads the TOML file and flattens its tables into dot keys.
func (s *ConfigStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	s.values = make(map[string]any)
	flatten("", tables, s.values)
	return nil
}

// save rebuilds the table structure from the dot keys and writes the
// file with restricted permissions (caller holds the lock).
func (s *ConfigStore) save() error {
	tables := make(map[string]any)
	for key, value := range s.values {
		parts := strings.Split(key, ".")
		node := tables
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	data, err := toml.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// flatten walks nested tables, producing dot-notation keys.
func flatten(prefix string, tables map[string]any, out map[string]any) {
	for key, value := range tables {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			flatten(full, nested, out)
			continue
		}
		out[full] = value
	}
}
