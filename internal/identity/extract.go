package identity

import (
	"regexp"
	"strings"
)

var (
	// "GitHub: octocat", "GitHub Profile - https://github.com/octocat"
	githubLabel = regexp.MustCompile(`(?im)^[\s\-*•>|]*github(?:\s+(?:profile|username|handle|url|id))?\s*[:\-–]\s*(\S+)`)
	// "Profile: @octocat"; the value must look like a GitHub reference.
	profileLabel = regexp.MustCompile(`(?im)^[\s\-*•>|]*profile\s*[:\-–]\s*(\S+)`)
	githubURL    = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/([A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*)`)
)

// ExtractIdentifier finds a likely GitHub handle in free text. A labeled field
// wins over a bare URL. The result is only a hint and still needs validation.
func ExtractIdentifier(text string) (string, bool) {
	for _, m := range githubLabel.FindAllStringSubmatch(text, -1) {
		if handle, ok := labeledValue(m[1]); ok {
			return handle, true
		}
	}
	for _, m := range profileLabel.FindAllStringSubmatch(text, -1) {
		value := cleanValue(m[1])
		if !strings.HasPrefix(value, "@") && !strings.Contains(strings.ToLower(value), "github.com") {
			continue
		}
		if handle, ok := labeledValue(value); ok {
			return handle, true
		}
	}
	for _, m := range githubURL.FindAllStringSubmatch(text, -1) {
		if handle, err := Normalize("github.com/" + m[1]); err == nil {
			return handle, true
		}
	}
	return "", false
}

func labeledValue(raw string) (string, bool) {
	handle, err := Normalize(cleanValue(raw))
	if err != nil {
		return "", false
	}
	return handle, true
}

func cleanValue(raw string) string {
	return strings.Trim(raw, ".,;:()[]<>\"'")
}
