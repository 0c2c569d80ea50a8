package llm

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	labeledScore   = regexp.MustCompile(`(?i)\bscore\**\s*[:=]\s*\**\s*(-?\d+(?:\.\d+)?)`)
	outOfTen       = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*/\s*10\b`)
	candidateLine  = regexp.MustCompile(`(?im)^[\s*_]*candidate(?:\s+name)?[\s*_]*:[\s*_]*(.+?)[\s*_]*$`)
	fencedBlock    = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	fenceLine      = regexp.MustCompile("(?m)^\\s*```[\\w-]*\\s*$\\n?")
	rubricStart    = regexp.MustCompile(`(?im)^(#{1,3}\s*.*(?:rubric|level\s+1).*)$`)
	nonNumericJSON = math.NaN()
)

// ParseScore finds the score in provider output. It tries a "SCORE: X" label,
// then a JSON "score" field, then a bare "X/10". Nil means no score was present;
// NaN means a score field was present but not numeric.
func ParseScore(text string) *float64 {
	if m := labeledScore.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	if v, ok := jsonScore(text); ok {
		return &v
	}
	if m := outOfTen.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}

func jsonScore(text string) (float64, bool) {
	raw := strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	if !strings.HasPrefix(raw, "{") {
		return 0, false
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return 0, false
	}
	field, ok := payload["score"]
	if !ok {
		return 0, false
	}
	var num float64
	if err := json.Unmarshal(field, &num); err == nil {
		return num, true
	}
	var s string
	if err := json.Unmarshal(field, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return nonNumericJSON, true
}

// jsonNarrative returns the "analysis" field when the provider answered in JSON.
func jsonNarrative(text string) (string, bool) {
	raw := strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	if !strings.HasPrefix(raw, "{") {
		return "", false
	}
	var payload struct {
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || strings.TrimSpace(payload.Analysis) == "" {
		return "", false
	}
	return payload.Analysis, true
}

// ParseCandidateName reads a "CANDIDATE: name" line.
func ParseCandidateName(text string) string {
	m := candidateLine.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(strings.Trim(m[1], `"'<>`))
	if strings.EqualFold(name, "candidate") || strings.EqualFold(name, "unknown") {
		return ""
	}
	return name
}

// stripCandidateLine removes the name line so it does not repeat in the narrative.
func stripCandidateLine(text string) string {
	return strings.TrimSpace(candidateLine.ReplaceAllString(text, ""))
}

// CleanMarkdown drops conversational preamble before the first rubric heading
// and removes code fence markers.
func CleanMarkdown(text string) string {
	text = strings.TrimSpace(text)
	if loc := rubricStart.FindStringIndex(text); loc != nil {
		text = text[loc[0]:]
	}
	text = fenceLine.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
