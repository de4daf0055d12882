package driven

import "time"

// ConfigStore provides read access to application configuration.
// Nested tables are addressed with dot-separated keys ("items.limit").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetInt(key string) int

	// GetFloat retrieves a numeric configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	// The strings "true" and "false" are accepted as well.
	GetBool(key string) bool

	// GetDuration retrieves a duration written as a Go duration string or seconds.
	GetDuration(key string) time.Duration

	// Set overrides a configuration value for this process.
	// The configuration file is never rewritten.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
