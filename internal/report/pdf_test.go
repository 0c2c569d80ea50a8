package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		CandidateName: "José Núñez",
		SessionID:     "7d1e",
		GeneratedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Resume: &Section{
			Score:     9,
			Threshold: 7,
			Passed:    true,
			Narrative: "## LEVEL 1 EVALUATION\n\n**SCORE: 9/10**\n\n- Strong Go ✓\n- Postgres → production\n\n| a | b |\n|---|---|\n| 1 | 2 |",
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing pdf header")
	assert.Greater(t, len(data), 500)
}

func TestRenderWithProfileAndVerdict(t *testing.T) {
	doc := sampleDocument()
	doc.Profile = &Section{Score: 8, Threshold: 6, Passed: true, Subject: "https://github.com/octocat", Narrative: "## GITHUB ANALYSIS\n\nActive."}
	doc.Verdict = &VerdictSection{Decision: "HIRE", Confidence: "LOW", Composite: 8.5, Gate: 8, Narrative: "## FINAL VERDICT: HIRE"}
	data, err := Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderRequiresResume(t *testing.T) {
	_, err := Render(Document{CandidateName: "x"})
	assert.ErrorIs(t, err, ErrNoResume)
}

func TestToLatin1(t *testing.T) {
	assert.Equal(t, "ok [x] -> >= café", toLatin1("ok ✓ → ≥ café"))
	assert.Equal(t, "smile ", toLatin1("smile 😀"))
}
