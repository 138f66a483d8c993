package configuration

import (
	"os"
	"strings"
)

// ParseTempDirectories splits the tmp directories option on commas and the OS path list
// separator. Entries are trimmed and empty entries dropped; the result is never nil.
func ParseTempDirectories(v View) []string {
	raw, _ := v.GetString(TmpDirs)
	return SplitPaths(raw)
}

// SplitPaths splits a directory list on commas and the OS path list separator.
func SplitPaths(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == os.PathListSeparator
	})

	paths := make([]string, 0, len(fields))
	for _, field := range fields {
		if p := strings.TrimSpace(field); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
