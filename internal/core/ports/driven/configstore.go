package driven

// ConfigStore is the key/value store behind application settings.
// Keys are dotted paths such as "vision.api_key"; typed getters return the
// zero value when a key is absent or holds another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetStringSlice reads list values such as vision.languages.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is the backing file, or ":memory:" for in-memory stores.
	Path() string
}
