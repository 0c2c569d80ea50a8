package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-backend/internal/thresholds"
)

func level(l thresholds.Level, score, threshold float64) LevelResult {
	return LevelResult{Level: l, Score: score, Threshold: threshold, Passed: score >= threshold}
}

func TestDecideNoLevels(t *testing.T) {
	_, err := Decide(nil, thresholds.Default())
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestDecideDuplicateLevel(t *testing.T) {
	_, err := Decide([]LevelResult{
		level(thresholds.LevelResume, 8, 7),
		level(thresholds.LevelResume, 9, 7),
	}, thresholds.Default())
	require.Error(t, err)
}

func TestCompositeIsMeanOfPresentLevels(t *testing.T) {
	out, err := Decide([]LevelResult{level(thresholds.LevelResume, 8, 7)}, thresholds.Default())
	require.NoError(t, err)
	assert.Equal(t, 8.0, out.CompositeScore)
	assert.Nil(t, out.Level2Score)
	assert.Nil(t, out.Level3Score)

	out, err = Decide([]LevelResult{
		level(thresholds.LevelResume, 8, 7),
		level(thresholds.LevelProfile, 4, 6),
	}, thresholds.Default())
	require.NoError(t, err)
	assert.Equal(t, 6.0, out.CompositeScore)
	require.NotNil(t, out.Level2Score)
	assert.Equal(t, 4.0, *out.Level2Score)
}

func TestResumeOnlyHire(t *testing.T) {
	out, err := Decide([]LevelResult{level(thresholds.LevelResume, 9, 7)}, thresholds.Default())
	require.NoError(t, err)
	assert.Equal(t, Hire, out.Decision)
	assert.Equal(t, 9.0, out.CompositeScore)
	assert.Equal(t, ConfidenceHigh, out.Confidence)
	require.NotNil(t, out.Level1Score)
	assert.Equal(t, 9.0, *out.Level1Score)
	assert.Contains(t, out.Narrative, "FINAL VERDICT: HIRE")
	assert.Contains(t, out.Narrative, "not evaluated")
}

func TestFailedLevelBlocksHireDespiteComposite(t *testing.T) {
	cfg := thresholds.Default()
	cfg.Composite = 6.0
	out, err := Decide([]LevelResult{
		level(thresholds.LevelResume, 5, 7),
		level(thresholds.LevelProfile, 8, 6),
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 6.5, out.CompositeScore)
	assert.Equal(t, NoHire, out.Decision)
	assert.Contains(t, out.Narrative, "every evaluated level must pass")
}

func TestCompositeBelowGate(t *testing.T) {
	out, err := Decide([]LevelResult{
		level(thresholds.LevelResume, 7.5, 7),
		level(thresholds.LevelProfile, 6.5, 6),
	}, thresholds.Default())
	require.NoError(t, err)
	assert.Equal(t, 7.0, out.CompositeScore)
	assert.Equal(t, NoHire, out.Decision)
	assert.Equal(t, ConfidenceMedium, out.Confidence)
}

func TestCompositeEqualToGateHires(t *testing.T) {
	out, err := Decide([]LevelResult{level(thresholds.LevelResume, 8, 7)}, thresholds.Default())
	require.NoError(t, err)
	assert.Equal(t, Hire, out.Decision)
	assert.Equal(t, ConfidenceLow, out.Confidence)
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		levels []LevelResult
		gate   float64
		want   Confidence
	}{
		{
			name:   "clear margins far from gate",
			levels: []LevelResult{level(thresholds.LevelResume, 9.5, 7), level(thresholds.LevelProfile, 9, 6)},
			gate:   8,
			want:   ConfidenceHigh,
		},
		{
			name:   "borderline composite beats margins",
			levels: []LevelResult{level(thresholds.LevelResume, 8.5, 7)},
			gate:   8,
			want:   ConfidenceLow,
		},
		{
			name:   "just below gate band edge",
			levels: []LevelResult{level(thresholds.LevelResume, 7.5, 7)},
			gate:   8,
			want:   ConfidenceLow,
		},
		{
			name:   "thin level margin",
			levels: []LevelResult{level(thresholds.LevelResume, 9.5, 7), level(thresholds.LevelProfile, 6.5, 6)},
			gate:   6,
			want:   ConfidenceMedium,
		},
		{
			name:   "failing level far from gate",
			levels: []LevelResult{level(thresholds.LevelResume, 2, 7)},
			gate:   8,
			want:   ConfidenceMedium,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := thresholds.Default()
			cfg.Composite = tt.gate
			out, err := Decide(tt.levels, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Confidence)
		})
	}
}

func TestLevelThreeTolerated(t *testing.T) {
	out, err := Decide([]LevelResult{
		level(thresholds.LevelCoding, 9, 8),
		level(thresholds.LevelResume, 9, 7),
	}, thresholds.Default())
	require.NoError(t, err)
	require.NotNil(t, out.Level3Score)
	assert.Equal(t, thresholds.LevelResume, out.Levels[0].Level)
	assert.Equal(t, Hire, out.Decision)
}

func TestCompositeRounding(t *testing.T) {
	out, err := Decide([]LevelResult{
		level(thresholds.LevelResume, 7.333, 7),
		level(thresholds.LevelProfile, 8.001, 6),
	}, thresholds.Default())
	require.NoError(t, err)
	assert.Equal(t, 7.67, out.CompositeScore)
}

func TestMeanJustUnderGateDoesNotHire(t *testing.T) {
	out, err := Decide([]LevelResult{
		level(thresholds.LevelResume, 7.996, 7),
		level(thresholds.LevelProfile, 8.0, 6),
	}, thresholds.Default())
	require.NoError(t, err)

	assert.Equal(t, 8.0, out.CompositeScore, "display value is rounded")
	assert.False(t, out.MeetsGate)
	assert.Equal(t, NoHire, out.Decision)
	assert.Equal(t, ConfidenceLow, out.Confidence)
	assert.Contains(t, out.Narrative, "just under the 8.0 gate")
	assert.NotContains(t, out.Narrative, "meets the")
}

func TestMeanExactlyAtGateHires(t *testing.T) {
	out, err := Decide([]LevelResult{
		level(thresholds.LevelResume, 8.0, 7),
		level(thresholds.LevelProfile, 8.0, 6),
	}, thresholds.Default())
	require.NoError(t, err)
	assert.True(t, out.MeetsGate)
	assert.Equal(t, Hire, out.Decision)
}

func TestMean(t *testing.T) {
	got := Mean([]LevelResult{
		level(thresholds.LevelResume, 7.996, 7),
		level(thresholds.LevelProfile, 8.0, 6),
	})
	assert.InDelta(t, 7.998, got, 1e-9)
	assert.Equal(t, 0.0, Mean(nil))
}
