package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and whitespace and rejects traversal
// patterns. The result is safe to embed in a URL path segment.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Join(strings.Fields(s), "-")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
