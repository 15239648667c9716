package config

// Map is a source of configuration values.
type Map interface {

	// Lookup looks up a single value with a complete key.
	Lookup(key string) (string, bool)
}

// A StdMap is a [Map] over a map[string]string. Tests and defaults use it; commands read
// from [EnvMap].
type StdMap map[string]string

// Lookup returns the value stored under key.
func (m StdMap) Lookup(key string) (string, bool) {
	found, ok := m[key]
	return found, ok
}
