package driven

// ConfigStore persists user preferences as key-value pairs.
type ConfigStore interface {
	// Get retrieves a value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 when absent.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false when absent.
	GetBool(key string) bool

	// Set stores a value by key and persists immediately.
	Set(key string, value any) error

	// Load reads the store from its backing medium.
	Load() error

	// Save writes the store to its backing medium.
	Save() error
}
