package config

import (
	"os"
	"strings"
)

// An EnvMap is a [Map] that reads from environment variables. Keys are mapped to environment
// variable names by replacing hyphens ('-') with underscores ('_'), replacing periods ('.') with
// two underscores ("__"), and transforming the key to UPPER-CASE. A non-empty Prefix is joined
// to the name with two underscores.
type EnvMap struct {
	Prefix string
}

// Lookup reads the environment variable that key maps to.
func (m EnvMap) Lookup(key string) (string, bool) {
	return os.LookupEnv(m.name(key))
}

func (m EnvMap) name(key string) string {
	if m.Prefix != "" {
		key = m.Prefix + "." + key
	}
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, ".", "__")
	return strings.ToUpper(key)
}
