package util

import (
	"strings"
	"unicode"
)

// CleanFileName reduces a client-supplied file name to its last path segment
// and drops control characters. Either separator style is honored.
func CleanFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
