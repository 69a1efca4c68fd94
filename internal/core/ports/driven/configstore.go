package driven

// ConfigStore holds the dot-notation settings keys, e.g.
// "embedding.provider" or "analysis.threshold".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" when the key is unset or not a string.
	GetString(key string) string

	// GetInt returns 0 when the key is unset or not an integer.
	GetInt(key string) int

	// GetFloat accepts integers as well. Returns 0 when unset.
	GetFloat(key string) float64

	// GetBool returns false when the key is unset or not a boolean.
	GetBool(key string) bool

	// GetStringSlice returns nil when the key is unset or not a list.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path returns the backing file, or ":memory:" for in-memory stores.
	Path() string
}
