package decision

import (
	"fmt"
	"strings"
	"text/template"

	"hiring-backend/internal/thresholds"
)

var levelNames = map[thresholds.Level]string{
	thresholds.LevelResume:  "Level 1 - Resume Screening",
	thresholds.LevelProfile: "Level 2 - GitHub Profile Analysis",
	thresholds.LevelCoding:  "Level 3 - Coding Assessment",
}

// LevelName returns the display name for a level.
func LevelName(level thresholds.Level) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return fmt.Sprintf("Level %d", level)
}

var narrativeTmpl = template.Must(template.New("verdict").Funcs(template.FuncMap{
	"score": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"name":  LevelName,
	"result": func(passed bool) string {
		if passed {
			return "PASSED"
		}
		return "FAILED"
	},
}).Parse(`## FINAL VERDICT: {{.Decision}}

**Confidence:** {{.Confidence}}

**Composite Score:** {{printf "%.2f" .CompositeScore}}/10 (gate {{score .CompositeThreshold}})

### Level Breakdown
{{range .Levels}}- **{{name .Level}}:** {{score .Score}}/10 against {{score .Threshold}} - {{result .Passed}}
{{end}}{{range .Skipped}}- **{{name .}}:** not evaluated
{{end}}
### Rationale
{{range .Reasons}}- {{.}}
{{end}}`))

type narrativeView struct {
	Outcome
	Skipped []thresholds.Level
	Reasons []string
}

// Narrative renders the markdown summary of an outcome.
func Narrative(o Outcome) string {
	view := narrativeView{Outcome: o, Reasons: reasons(o)}
	if o.Level2Score == nil {
		view.Skipped = append(view.Skipped, thresholds.LevelProfile)
	}

	var b strings.Builder
	if err := narrativeTmpl.Execute(&b, view); err != nil {
		return fmt.Sprintf("## FINAL VERDICT: %s\n\nComposite score %.2f/10.", o.Decision, o.CompositeScore)
	}
	return strings.TrimSpace(b.String())
}

func reasons(o Outcome) []string {
	var out []string
	var failed []string
	for _, l := range o.Levels {
		if !l.Passed {
			failed = append(failed, LevelName(l.Level))
		}
	}
	if len(failed) > 0 {
		out = append(out, fmt.Sprintf("%s did not meet the passing threshold; every evaluated level must pass.", strings.Join(failed, " and ")))
	}
	if !o.MeetsGate {
		out = append(out, belowGate(o.CompositeScore, o.CompositeThreshold))
	} else if len(failed) > 0 {
		out = append(out, fmt.Sprintf("The composite score %.2f meets the %.1f gate, which does not offset a failed level.", o.CompositeScore, o.CompositeThreshold))
	}
	if o.Decision == Hire {
		out = append(out, fmt.Sprintf("All evaluated levels passed and the composite score %.2f meets the %.1f gate.", o.CompositeScore, o.CompositeThreshold))
	}
	switch o.Confidence {
	case ConfidenceLow:
		out = append(out, "Confidence is low because the composite score is within 0.5 of the gate.")
	case ConfidenceHigh:
		out = append(out, "Confidence is high because every level cleared its threshold by at least one point.")
	default:
		out = append(out, "Confidence is medium because at least one level is close to or below its threshold.")
	}
	return out
}

// belowGate keeps a mean that rounds up to the gate from reading as equal to it.
func belowGate(composite, gate float64) string {
	if composite >= gate {
		return fmt.Sprintf("The composite score rounds to %.2f but is just under the %.1f gate.", composite, gate)
	}
	return fmt.Sprintf("The composite score %.2f is below the %.1f gate.", composite, gate)
}
