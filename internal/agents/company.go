package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// companyNamePatterns locate a company name in a free-text request.
// Evaluated in order; first hit wins.
var companyNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:(?i:for|at|to))\s+([A-Z][A-Za-z0-9\s&]+?)(?:\s*$|\s*\.|\s*,|\s+resume|\s+job|\s+position)`),
	regexp.MustCompile(`(?i)\b(Google|Amazon|Microsoft|Meta|Apple|Netflix|Spotify|Uber|Airbnb|Tesla|IBM|Oracle|Salesforce)\b`),
	regexp.MustCompile(`([A-Z][A-Za-z0-9]+(?:\s+[A-Z][A-Za-z0-9]+)*)\s+(?:(?i:company|corporation|inc|corp|ltd))`),
}

// companyStopwords are capitalized words that are never company names.
var companyStopwords = map[string]bool{
	"optimize": true,
	"resume":   true,
	"the":      true,
	"for":      true,
	"and":      true,
	"with":     true,
	"make":     true,
	"update":   true,
}

// CompanyAgent tailors a resume to one target company using researched
// culture and hiring information.
type CompanyAgent struct {
	client   llm.Client
	research *research.Service
	logger   *zap.Logger
}

// NewCompanyAgent creates the company-tailoring agent
func NewCompanyAgent(client llm.Client, researchSvc *research.Service, logger *zap.Logger) *CompanyAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyAgent{client: client, research: researchSvc, logger: logger}
}

// Type identifies the agent
func (a *CompanyAgent) Type() types.AgentType {
	return types.AgentCompanyResearch
}

// Process researches the target company and rewrites the resume toward it
func (a *CompanyAgent) Process(ctx context.Context, message string, resume *types.Resume, conv *types.Conversation) (*types.AgentResult, error) {
	company := contextValue(conv, types.ContextTargetCompany)
	if company == "" {
		company = ExtractCompanyName(message)
	}

	if company == "" {
		return &types.AgentResult{
			Success:   false,
			Message:   "I couldn't identify a target company. Please specify which company you'd like me to optimize your resume for.",
			AgentType: a.Type(),
			Reasoning: "No company name found in request or context",
		}, nil
	}

	info := a.research.Research(ctx, company)

	prompt := prompts.Format(prompts.MustGet("agents.json", "company_optimize"), map[string]string{
		"UserMessage": message,
		"Company":     company,
		"Culture":     textOrDefault(info.Culture, "Not available"),
		"KeySkills":   joinOrDefault(info.KeySkills, "Not available"),
		"Industry":    textOrDefault(info.Industry, "Not available"),
		"HiringNotes": textOrDefault(info.HiringNotes, "Not available"),
		"Resume":      resume.FullText(),
	})

	reply, err := a.client.Complete(ctx, llm.Request{
		System:      prompts.MustGet("agents.json", "company_system"),
		Prompt:      prompt,
		Temperature: 0.7,
	}, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("company optimization call: %w", err)
	}

	updatedSections := extractUpdatedSections(reply, resume)
	changes := types.DiffSections(resume.Sections, updatedSections)

	reasoning := extractReasoningOr(reply, "Resume optimized for target company.")

	return &types.AgentResult{
		Success:         true,
		Message:         fmt.Sprintf("I've optimized your resume for %s. Here's what I changed and why:", company),
		AgentType:       a.Type(),
		UpdatedSections: updatedSections,
		Changes:         changes,
		Reasoning:       reasoning,
		Metadata: map[string]any{
			"target_company": company,
			"company_info":   &info,
		},
	}, nil
}

// ExtractCompanyName pulls a company name out of a message. Pattern matches
// are tried first, then the first capitalized non-stopword token.
func ExtractCompanyName(message string) string {
	for _, pattern := range companyNamePatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	for _, word := range strings.Fields(message) {
		trimmed := strings.Trim(word, ".,!?:;\"'")
		if len(trimmed) <= 2 {
			continue
		}
		first := rune(trimmed[0])
		if first < 'A' || first > 'Z' {
			continue
		}
		if companyStopwords[strings.ToLower(trimmed)] {
			continue
		}
		return trimmed
	}

	return ""
}
