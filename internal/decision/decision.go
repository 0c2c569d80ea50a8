// Package decision combines per-level evaluation results into a hiring verdict.
package decision

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"hiring-backend/internal/thresholds"
)

type Decision string

const (
	Hire   Decision = "HIRE"
	NoHire Decision = "NO_HIRE"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

const (
	// lowConfidenceBand is the distance from the composite gate treated as borderline.
	lowConfidenceBand = 0.5
	// highConfidenceMargin is how far every level must clear its threshold for HIGH.
	highConfidenceMargin = 1.0
	epsilon              = 1e-9
)

// ErrInsufficientData is returned when no level result is present.
var ErrInsufficientData = errors.New("no evaluated levels to decide on")

// LevelResult is one frozen per-level artifact as seen by the engine.
type LevelResult struct {
	Level     thresholds.Level
	Score     float64
	Threshold float64
	Passed    bool
}

// Outcome is the computed verdict. Level scores are nil for absent levels.
// CompositeScore is rounded for display; MeetsGate is decided on the exact mean.
type Outcome struct {
	Decision           Decision
	Confidence         Confidence
	CompositeScore     float64
	CompositeThreshold float64
	MeetsGate          bool
	Level1Score        *float64
	Level2Score        *float64
	Level3Score        *float64
	Levels             []LevelResult
	Narrative          string
}

// Decide computes the verdict over the present levels. Pass/fail per level comes
// from the artifacts; the composite gate comes from cfg at call time.
func Decide(levels []LevelResult, cfg thresholds.Config) (Outcome, error) {
	if len(levels) == 0 {
		return Outcome{}, ErrInsufficientData
	}
	seen := make(map[thresholds.Level]bool, len(levels))
	for _, l := range levels {
		if seen[l.Level] {
			return Outcome{}, fmt.Errorf("duplicate result for level %d", l.Level)
		}
		seen[l.Level] = true
	}

	sorted := append([]LevelResult(nil), levels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	mean := Mean(sorted)
	gate := cfg.Composite

	out := Outcome{
		CompositeScore:     Round2(mean),
		CompositeThreshold: gate,
		MeetsGate:          mean >= gate-epsilon,
		Levels:             sorted,
	}

	allPassed := true
	for _, l := range sorted {
		score := l.Score
		switch l.Level {
		case thresholds.LevelResume:
			out.Level1Score = &score
		case thresholds.LevelProfile:
			out.Level2Score = &score
		case thresholds.LevelCoding:
			out.Level3Score = &score
		}
		if !l.Passed {
			allPassed = false
		}
	}

	out.Decision = NoHire
	if allPassed && out.MeetsGate {
		out.Decision = Hire
	}
	out.Confidence = confidence(sorted, mean, gate)
	out.Narrative = Narrative(out)
	return out, nil
}

// Mean is the unrounded mean of the given scores.
func Mean(levels []LevelResult) float64 {
	if len(levels) == 0 {
		return 0
	}
	var sum float64
	for _, l := range levels {
		sum += l.Score
	}
	return sum / float64(len(levels))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// A borderline composite is LOW even when every level clears its margin.
func confidence(levels []LevelResult, mean, gate float64) Confidence {
	if math.Abs(mean-gate) <= lowConfidenceBand+epsilon {
		return ConfidenceLow
	}
	for _, l := range levels {
		if l.Score-l.Threshold < highConfidenceMargin-epsilon {
			return ConfidenceMedium
		}
	}
	return ConfidenceHigh
}
