package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// ResumeAnalysis is a standalone quality review of one resume
type ResumeAnalysis struct {
	OverallScore    float64  `json:"overall_score"`
	KeywordScore    float64  `json:"keyword_score"`
	FormatScore     float64  `json:"format_score"`
	ImpactScore     float64  `json:"impact_score"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	KeywordsFound   []string `json:"keywords_found"`
	MissingKeywords []string `json:"missing_keywords"`
	Summary         string   `json:"summary"`
}

// Analyzer scores resumes outside of any conversation flow
type Analyzer struct {
	client llm.Client
	logger *zap.Logger
}

// NewAnalyzer creates a resume analyzer
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze reviews a resume and returns scored feedback. A failed model call
// degrades to neutral scores rather than erroring; analysis is advisory.
func (a *Analyzer) Analyze(ctx context.Context, resume *types.Resume) *ResumeAnalysis {
	prompt := prompts.Format(prompts.MustGet("agents.json", "analyze_resume"), map[string]string{
		"Resume": resume.FullText(),
	})

	reply, err := a.client.Complete(ctx, llm.Request{
		System: prompts.MustGet("agents.json", "analyze_system"),
		Prompt: prompt,
	}, llm.TierStandard)
	if err != nil {
		a.logger.Warn("resume analysis degraded to neutral", zap.Error(err))
		return neutralAnalysis()
	}

	return ParseResumeAnalysis(reply)
}

// ParseResumeAnalysis recovers the labeled review fields from a model reply.
func ParseResumeAnalysis(reply string) *ResumeAnalysis {
	fields := extract.LabeledFields(reply, []extract.FieldSpec{
		{Name: "OVERALL_SCORE"},
		{Name: "KEYWORD_SCORE"},
		{Name: "FORMAT_SCORE"},
		{Name: "IMPACT_SCORE"},
		{Name: "STRENGTHS"},
		{Name: "IMPROVEMENTS"},
		{Name: "KEYWORDS_FOUND", List: true},
		{Name: "MISSING_KEYWORDS", List: true},
		{Name: "SUMMARY"},
	})

	return &ResumeAnalysis{
		OverallScore:    scoring.ParseSemanticScore(fields.Text("OVERALL_SCORE")),
		KeywordScore:    scoring.ParseSemanticScore(fields.Text("KEYWORD_SCORE")),
		FormatScore:     scoring.ParseSemanticScore(fields.Text("FORMAT_SCORE")),
		ImpactScore:     scoring.ParseSemanticScore(fields.Text("IMPACT_SCORE")),
		Strengths:       extract.BulletList(reply, "STRENGTHS:"),
		Improvements:    extract.BulletList(reply, "IMPROVEMENTS:"),
		KeywordsFound:   fields.Items("KEYWORDS_FOUND"),
		MissingKeywords: fields.Items("MISSING_KEYWORDS"),
		Summary:         fields.Text("SUMMARY"),
	}
}

// neutralAnalysis is returned when the review call fails.
func neutralAnalysis() *ResumeAnalysis {
	return &ResumeAnalysis{
		OverallScore: scoring.NeutralSemanticScore,
		KeywordScore: scoring.NeutralSemanticScore,
		FormatScore:  scoring.NeutralSemanticScore,
		ImpactScore:  scoring.NeutralSemanticScore,
		Summary:      "Analysis unavailable - the review service could not be reached.",
	}
}
