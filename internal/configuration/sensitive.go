package configuration

import "strings"

// HiddenContent replaces sensitive values wherever configuration is displayed.
const HiddenContent = "******"

var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"apikey",
	"api-key",
	"auth-params",
	"service-key",
	"basic-auth",
	"jaas.config",
	"fs.azure.account.key",
}

// Entry is a single key/value pair prepared for display.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// IsSensitive reports whether the value of key must not be displayed.
func IsSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range sensitiveKeys {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// DisplayEntries returns all entries of v sorted by key with sensitive values hidden.
func DisplayEntries(v View) []Entry {
	values := v.ToMap()
	entries := make([]Entry, 0, len(values))
	for _, key := range v.Keys() {
		value, ok := values[key]
		if !ok {
			continue
		}
		if IsSensitive(key) {
			value = HiddenContent
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries
}
