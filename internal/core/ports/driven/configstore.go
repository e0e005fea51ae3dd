package driven

// ConfigStore reads and writes the client configuration. Keys use dot
// notation mirroring the TOML table layout, e.g. "service.base_url" or
// "storage.data_dir".
type ConfigStore interface {
	// Get returns the raw value for a key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for a key, or "" when the key is
	// unset or not a string.
	GetString(key string) string

	// GetInt returns the value for a key, or 0 when the key is unset
	// or not an integer.
	GetInt(key string) int

	// GetBool returns the value for a key, or false when the key is
	// unset or not a boolean.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Path returns the backing file path.
	Path() string
}
