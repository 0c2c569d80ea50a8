package report

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	labeledName  = regexp.MustCompile(`(?im)^[\s*_]*(?:full\s+name|name|candidate)[\s*_]*[:\-][\s*_]*([A-Za-z][A-Za-z'.-]+(?:[ \t]+[A-Za-z][A-Za-z'.-]+){1,3})[\s*_]*$`)
	nonNameChars = regexp.MustCompile(`[^\p{L}\s-]`)
	headerWords  = []string{"resume", "résumé", "curriculum", "vitae", "cv", "profile", "contact", "email", "phone", "summary", "experience", "engineer", "developer"}
	stopNames    = map[string]bool{"candidate": true, "resume": true, "cv": true, "name": true, "unknown": true}
)

// GuessCandidateName finds a likely candidate name in résumé text: a labeled
// "Name:" line first, else a name-shaped line among the first ten lines.
func GuessCandidateName(text string) string {
	if m := labeledName.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		if !stopNames[strings.ToLower(name)] {
			return titleIfUpper(name)
		}
	}

	checked := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "#*_ \t"))
		if line == "" {
			continue
		}
		checked++
		if checked > 10 {
			break
		}
		if looksLikeName(line) {
			return titleIfUpper(line)
		}
	}
	return ""
}

func looksLikeName(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 || len(line) > 50 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if len(runes) < 2 || len(runes) > 20 || !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes {
			if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '.' {
				return false
			}
		}
	}
	return true
}

func titleIfUpper(name string) string {
	if strings.ToUpper(name) != name {
		return name
	}
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// FileName returns candidate_evaluation_<First>_<Last>.pdf, falling back to
// the first name alone or "Candidate".
func FileName(candidateName string) string {
	clean := nonNameChars.ReplaceAllString(candidateName, "")
	parts := strings.Fields(clean)
	switch {
	case len(parts) >= 2:
		return "candidate_evaluation_" + parts[0] + "_" + parts[len(parts)-1] + ".pdf"
	case len(parts) == 1 && !stopNames[strings.ToLower(parts[0])]:
		return "candidate_evaluation_" + parts[0] + ".pdf"
	default:
		return "candidate_evaluation_Candidate.pdf"
	}
}
