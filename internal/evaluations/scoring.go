package evaluations

import (
	"math"
	"time"

	"hiring-backend/internal/thresholds"
)

// normalizeScore clamps a provider score into [0,10]. Missing and
// non-numeric values cannot be recovered and are reported.
func normalizeScore(raw *float64) (float64, error) {
	if raw == nil {
		return 0, newError(KindMalformedAnalysis, "analysis did not include a score", nil)
	}
	v := *raw
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newError(KindMalformedAnalysis, "analysis score is not a number", nil)
	}
	return math.Min(thresholds.MaxScore, math.Max(thresholds.MinScore, v)), nil
}

func newArtifact(score, threshold float64, narrative string, detected *string, now time.Time) Artifact {
	return Artifact{
		Score:              score,
		MaxScore:           MaxScore,
		Passed:             score >= threshold,
		Narrative:          narrative,
		ThresholdUsed:      threshold,
		DetectedIdentifier: detected,
		CreatedAt:          now,
	}
}
