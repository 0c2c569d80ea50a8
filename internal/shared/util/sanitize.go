package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// SanitizeFileName strips directories and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = filepath.Base(s)
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' {
			return -1
		}
		return r
	}, s)
	if s == "" || s == "." || s == "/" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
