package env

import (
	"os"
	"strconv"
)

// Get returns the named environment variable, or fallback when it is unset
// or empty. Config structs go through envconfig; this is for the few values
// read before config is loaded (LOG_FORMAT, PORT).
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

// GetBool parses the named variable as a boolean, returning fallback on
// unset, empty, or unparsable values.
func GetBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
