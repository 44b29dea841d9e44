package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResumeAnalysis(t *testing.T) {
	reply := `OVERALL_SCORE: 72
KEYWORD_SCORE: 65
FORMAT_SCORE: 80
IMPACT_SCORE: 70
STRENGTHS:
- Clear chronological structure
- Quantified achievements
IMPROVEMENTS:
- Add a skills section
KEYWORDS_FOUND: Python, SQL
MISSING_KEYWORDS: Kubernetes, Terraform
SUMMARY: Solid resume with room to grow.`

	analysis := ParseResumeAnalysis(reply)

	assert.InDelta(t, 72.0, analysis.OverallScore, 0.001)
	assert.InDelta(t, 65.0, analysis.KeywordScore, 0.001)
	assert.InDelta(t, 80.0, analysis.FormatScore, 0.001)
	assert.InDelta(t, 70.0, analysis.ImpactScore, 0.001)
	assert.Equal(t, []string{"Clear chronological structure", "Quantified achievements"}, analysis.Strengths)
	assert.Equal(t, []string{"Add a skills section"}, analysis.Improvements)
	assert.Equal(t, []string{"Python", "SQL"}, analysis.KeywordsFound)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, analysis.MissingKeywords)
	assert.Equal(t, "Solid resume with room to grow.", analysis.Summary)
}

func TestParseResumeAnalysis_MissingScoresAreNeutral(t *testing.T) {
	analysis := ParseResumeAnalysis("The resume looks fine overall.")

	assert.InDelta(t, 50.0, analysis.OverallScore, 0.001)
	assert.InDelta(t, 50.0, analysis.FormatScore, 0.001)
	assert.Empty(t, analysis.Strengths)
}

func TestAnalyzer_ModelFailureDegradesToNeutral(t *testing.T) {
	stub := &stubClient{err: errors.New("model down")}
	analyzer := NewAnalyzer(stub, nil)

	analysis := analyzer.Analyze(context.Background(), testResume())

	require.NotNil(t, analysis)
	assert.InDelta(t, 50.0, analysis.OverallScore, 0.001)
	assert.InDelta(t, 50.0, analysis.KeywordScore, 0.001)
	assert.Contains(t, analysis.Summary, "unavailable")
}

func TestAnalyzer_ParsesModelReply(t *testing.T) {
	stub := &stubClient{replies: []string{
		"OVERALL_SCORE: 90\nKEYWORD_SCORE: 85\nFORMAT_SCORE: 95\nIMPACT_SCORE: 88\nSUMMARY: Strong resume.",
	}}
	analyzer := NewAnalyzer(stub, nil)

	analysis := analyzer.Analyze(context.Background(), testResume())

	assert.InDelta(t, 90.0, analysis.OverallScore, 0.001)
	assert.Equal(t, "Strong resume.", analysis.Summary)
	assert.Equal(t, 1, stub.calls)
}
