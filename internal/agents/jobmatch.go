package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// jdIndicators mark the start of an embedded job description. Checked in
// order against the lowercased message.
var jdIndicators = []string{
	"job description:",
	"jd:",
	"position:",
	"role:",
	"responsibilities:",
	"requirements:",
	"qualifications:",
}

// jdKeywords qualify a long message as a pasted job description.
var jdKeywords = []string{
	"responsibilities",
	"requirements",
	"qualifications",
	"experience",
	"we are looking",
	"you will",
	"must have",
	"years of experience",
}

// minJobDescriptionLen is the length threshold for treating a whole message
// as a pasted job description.
const minJobDescriptionLen = 200

// JobAnalysis holds the structured requirements extracted from a job description
type JobAnalysis struct {
	RequiredSkills      []string `json:"required_skills"`
	PreferredSkills     []string `json:"preferred_skills"`
	SoftSkills          []string `json:"soft_skills"`
	ExperienceYears     string   `json:"experience_years"`
	Education           string   `json:"education"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	Keywords            []string `json:"keywords"`
	CompanyValues       []string `json:"company_values"`
}

// MatchBucket is one scored skill category
type MatchBucket struct {
	Score   float64  `json:"score"`
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

// MatchResult is the full hybrid match outcome
type MatchResult struct {
	OverallScore    float64     `json:"overall_score"`
	KeywordScore    float64     `json:"keyword_score"`
	SemanticScore   float64     `json:"semantic_score"`
	Required        MatchBucket `json:"required_skills"`
	Preferred       MatchBucket `json:"preferred_skills"`
	Soft            MatchBucket `json:"soft_skills"`
	Keywords        MatchBucket `json:"keywords"`
	SkillGaps       []string    `json:"skill_gaps"`
	Recommendations []string    `json:"recommendations"`
}

// JobMatchAgent analyzes job descriptions and optimizes resumes toward them
type JobMatchAgent struct {
	client llm.Client
	logger *zap.Logger
}

// NewJobMatchAgent creates the job-matching agent
func NewJobMatchAgent(client llm.Client, logger *zap.Logger) *JobMatchAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobMatchAgent{client: client, logger: logger}
}

// Type identifies the agent
func (a *JobMatchAgent) Type() types.AgentType {
	return types.AgentJobMatching
}

// Process analyzes the job description, scores the match, and rewrites the resume
func (a *JobMatchAgent) Process(ctx context.Context, message string, resume *types.Resume, conv *types.Conversation) (*types.AgentResult, error) {
	jobDescription := contextValue(conv, types.ContextJobDescription)
	if jobDescription == "" {
		jobDescription = ExtractJobDescription(message)
	}

	if jobDescription == "" {
		return &types.AgentResult{
			Success:   false,
			Message:   "I need a job description to analyze. Please provide the job description you'd like me to match your resume against.",
			AgentType: a.Type(),
			Reasoning: "No job description found in request or context",
		}, nil
	}

	analysis, err := a.analyzeJob(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	match := a.calculateMatch(ctx, resume, analysis)

	prompt := prompts.Format(prompts.MustGet("agents.json", "job_optimize"), map[string]string{
		"UserMessage":      message,
		"JobDescription":   clip(jobDescription, 2000),
		"Required":         strings.Join(analysis.RequiredSkills, ", "),
		"Preferred":        strings.Join(analysis.PreferredSkills, ", "),
		"Soft":             strings.Join(analysis.SoftSkills, ", "),
		"Responsibilities": strings.Join(firstN(analysis.KeyResponsibilities, 5), "; "),
		"Keywords":         strings.Join(analysis.Keywords, ", "),
		"OverallScore":     fmt.Sprintf("%.1f", match.OverallScore),
		"RequiredScore":    fmt.Sprintf("%.1f", match.Required.Score),
		"MissingRequired":  strings.Join(match.Required.Missing, ", "),
		"MissingKeywords":  strings.Join(firstN(match.Keywords.Missing, 10), ", "),
		"Resume":           resume.FullText(),
	})

	reply, err := a.client.Complete(ctx, llm.Request{
		System:      prompts.MustGet("agents.json", "job_system"),
		Prompt:      prompt,
		Temperature: 0.5,
	}, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("job optimization call: %w", err)
	}

	updatedSections := extractUpdatedSections(reply, resume)
	changes := types.DiffSections(resume.Sections, updatedSections)

	return &types.AgentResult{
		Success:         true,
		Message:         formatMatchMessage(match),
		AgentType:       a.Type(),
		UpdatedSections: updatedSections,
		Changes:         changes,
		Reasoning:       extractReasoningOr(reply, "Resume optimized to better match the job requirements."),
		Metadata: map[string]any{
			"job_analysis": analysis,
			"match_result": match,
		},
	}, nil
}

// ExtractJobDescription pulls the job description out of a message: indicator
// phrases first, then the whole message when it is long and keyword-rich.
func ExtractJobDescription(message string) string {
	lower := strings.ToLower(message)

	for _, indicator := range jdIndicators {
		if idx := strings.Index(lower, indicator); idx >= 0 {
			return strings.TrimSpace(message[idx:])
		}
	}

	if len(message) > minJobDescriptionLen {
		for _, keyword := range jdKeywords {
			if strings.Contains(lower, keyword) {
				return message
			}
		}
	}

	return ""
}

// analyzeJob extracts the eight labeled requirement fields via the model.
func (a *JobMatchAgent) analyzeJob(ctx context.Context, jobDescription string) (*JobAnalysis, error) {
	prompt := prompts.Format(prompts.MustGet("agents.json", "job_analysis"), map[string]string{
		"JobDescription": jobDescription,
	})

	reply, err := a.client.Complete(ctx, llm.Request{
		System: prompts.MustGet("agents.json", "job_analysis_system"),
		Prompt: prompt,
	}, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("job analysis call: %w", err)
	}

	return ParseJobAnalysis(reply), nil
}

// ParseJobAnalysis recovers the labeled analysis fields from a model reply.
// Missing fields stay empty; parsing never fails.
func ParseJobAnalysis(reply string) *JobAnalysis {
	fields := extract.LabeledFields(reply, []extract.FieldSpec{
		{Name: "REQUIRED_SKILLS", List: true},
		{Name: "PREFERRED_SKILLS", List: true},
		{Name: "SOFT_SKILLS", List: true},
		{Name: "EXPERIENCE_YEARS"},
		{Name: "EDUCATION"},
		{Name: "KEY_RESPONSIBILITIES"},
		{Name: "KEYWORDS", List: true},
		{Name: "COMPANY_VALUES", List: true},
	})

	return &JobAnalysis{
		RequiredSkills:      fields.Items("REQUIRED_SKILLS"),
		PreferredSkills:     fields.Items("PREFERRED_SKILLS"),
		SoftSkills:          fields.Items("SOFT_SKILLS"),
		ExperienceYears:     fields.Text("EXPERIENCE_YEARS"),
		Education:           fields.Text("EDUCATION"),
		KeyResponsibilities: extract.BulletList(reply, "KEY_RESPONSIBILITIES:"),
		Keywords:            fields.Items("KEYWORDS"),
		CompanyValues:       fields.Items("COMPANY_VALUES"),
	}
}

// calculateMatch runs keyword matching over the four skill buckets, blends in
// the model's semantic rating, and derives recommendations from the gaps.
func (a *JobMatchAgent) calculateMatch(ctx context.Context, resume *types.Resume, analysis *JobAnalysis) *MatchResult {
	resumeText := resume.FullText()

	required := bucketFor(analysis.RequiredSkills, resumeText)
	preferred := bucketFor(analysis.PreferredSkills, resumeText)
	soft := bucketFor(analysis.SoftSkills, resumeText)
	keywords := bucketFor(analysis.Keywords, resumeText)

	keywordScore := scoring.Weighted(required.Score, preferred.Score, soft.Score, keywords.Score)
	semanticScore := a.semanticScore(ctx, resumeText, analysis)
	overall := scoring.Hybrid(keywordScore, semanticScore)

	return &MatchResult{
		OverallScore:    scoring.Round1(overall),
		KeywordScore:    scoring.Round1(keywordScore),
		SemanticScore:   scoring.Round1(semanticScore),
		Required:        roundBucket(required),
		Preferred:       roundBucket(preferred),
		Soft:            roundBucket(soft),
		Keywords:        roundBucket(keywords),
		SkillGaps:       append(append([]string{}, required.Missing...), firstN(preferred.Missing, 3)...),
		Recommendations: buildRecommendations(required.Missing, preferred.Missing, soft.Missing),
	}
}

// semanticScore asks the model for a 0-100 fit rating. Any failure degrades
// to the neutral score; match scoring must always produce a number.
func (a *JobMatchAgent) semanticScore(ctx context.Context, resumeText string, analysis *JobAnalysis) float64 {
	prompt := prompts.Format(prompts.MustGet("agents.json", "semantic_match"), map[string]string{
		"Resume":    clip(resumeText, 3000),
		"Required":  strings.Join(analysis.RequiredSkills, ", "),
		"Preferred": strings.Join(analysis.PreferredSkills, ", "),
		"Soft":      strings.Join(analysis.SoftSkills, ", "),
	})

	reply, err := a.client.Complete(ctx, llm.Request{
		System: prompts.MustGet("agents.json", "semantic_system"),
		Prompt: prompt,
	}, llm.TierLite)
	if err != nil {
		a.logger.Warn("semantic score degraded to neutral", zap.Error(err))
		return scoring.NeutralSemanticScore
	}

	return scoring.ParseSemanticScore(reply)
}

// bucketFor scores one skill category against the resume text.
func bucketFor(candidates []string, resumeText string) MatchBucket {
	found, missing := scoring.MatchSkills(candidates, resumeText)
	return MatchBucket{
		Score:   scoring.Percent(len(found), len(candidates)),
		Found:   found,
		Missing: missing,
	}
}

func roundBucket(b MatchBucket) MatchBucket {
	b.Score = scoring.Round1(b.Score)
	return b
}

// buildRecommendations keys suggestions to the missing-skill buckets. An
// empty-gap analysis gets an affirmative message instead of an empty list.
func buildRecommendations(requiredMissing, preferredMissing, softMissing []string) []string {
	var recommendations []string

	if len(requiredMissing) > 0 {
		recommendations = append(recommendations,
			"Critical: Add or highlight experience with: "+strings.Join(firstN(requiredMissing, 5), ", "))
	}
	if len(preferredMissing) > 0 {
		recommendations = append(recommendations,
			"Recommended: Consider adding: "+strings.Join(firstN(preferredMissing, 3), ", "))
	}
	if len(softMissing) > 0 {
		recommendations = append(recommendations,
			"Soft skills to demonstrate: "+strings.Join(firstN(softMissing, 3), ", "))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Your resume is well-aligned with this job!")
	}
	return recommendations
}

// formatMatchMessage renders the user-facing match summary.
func formatMatchMessage(match *MatchResult) string {
	var rating string
	switch {
	case match.OverallScore >= 80:
		rating = "Excellent match!"
	case match.OverallScore >= 60:
		rating = "Good match with room for improvement"
	case match.OverallScore >= 40:
		rating = "Moderate match - optimization recommended"
	default:
		rating = "Low match - consider highlighting transferable skills"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Match Analysis Complete\n\n")
	fmt.Fprintf(&sb, "Overall Match Score: %.1f%% - %s\n\n", match.OverallScore, rating)
	fmt.Fprintf(&sb, "Scoring Method:\n")
	fmt.Fprintf(&sb, "- Keyword Match: %.1f%%\n", match.KeywordScore)
	fmt.Fprintf(&sb, "- Semantic Match: %.1f%%\n\n", match.SemanticScore)
	fmt.Fprintf(&sb, "Score Breakdown:\n")
	fmt.Fprintf(&sb, "- Required Skills: %.1f%%\n", match.Required.Score)
	fmt.Fprintf(&sb, "- Preferred Skills: %.1f%%\n", match.Preferred.Score)
	fmt.Fprintf(&sb, "- Soft Skills: %.1f%%\n", match.Soft.Score)
	fmt.Fprintf(&sb, "- Keywords: %.1f%%\n", match.Keywords.Score)

	foundSkills := firstN(append(append([]string{}, match.Required.Found...), match.Preferred.Found...), 8)
	if len(foundSkills) > 0 {
		sb.WriteString("\nSkills Found in Your Resume:\n")
		for _, skill := range foundSkills {
			sb.WriteString("- " + skill + "\n")
		}
	}

	if len(match.SkillGaps) > 0 {
		sb.WriteString("\nSkill Gaps to Address:\n")
		for _, gap := range firstN(match.SkillGaps, 5) {
			sb.WriteString("- " + gap + "\n")
		}
	}

	sb.WriteString("\nRecommendations:\n")
	for _, rec := range match.Recommendations {
		sb.WriteString("- " + rec + "\n")
	}

	sb.WriteString("\nI've optimized your resume to better match this position. See the changes below.")
	return sb.String()
}

// firstN returns at most n leading items.
func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
