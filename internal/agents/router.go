package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// classifyHistoryLimit bounds how many prior turns feed the fallback
// classification prompt.
const classifyHistoryLimit = 3

// intentPatterns is the ordered regex table for intent classification.
// Evaluated against the lowercased message in this fixed order; the first
// matching pattern anywhere in the table wins.
var intentPatterns = []struct {
	agentType types.AgentType
	patterns  []*regexp.Regexp
}{
	{
		agentType: types.AgentCompanyResearch,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`optimize.*(?:for|at)\s+\w+`),
			regexp.MustCompile(`(?:target|apply|applying).*company`),
			regexp.MustCompile(`(?:google|amazon|microsoft|meta|apple|netflix|spotify|uber|airbnb)`),
			regexp.MustCompile(`company\s+(?:culture|values|research)`),
			regexp.MustCompile(`tailor.*(?:for|to)\s+\w+`),
		},
	},
	{
		agentType: types.AgentJobMatching,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`job\s+description`),
			regexp.MustCompile(`match.*(?:job|position|role)`),
			regexp.MustCompile(`(?:jd|job desc)`),
			regexp.MustCompile(`skill\s+gap`),
			regexp.MustCompile(`match\s+score`),
			regexp.MustCompile(`requirements`),
			regexp.MustCompile(`fit.*(?:job|position|role)`),
			regexp.MustCompile(`ats`),
		},
	},
	{
		agentType: types.AgentTranslation,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`translat`),
			regexp.MustCompile(`(?:spanish|french|german|portuguese|italian|japanese|chinese|korean|arabic|hindi|russian|dutch)`),
			regexp.MustCompile(`(?:spain|mexico|france|germany|brazil|japan|china|india)`),
			regexp.MustCompile(`locali[sz]`),
			regexp.MustCompile(`(?:foreign|international)\s+market`),
			regexp.MustCompile(`(?:different|another)\s+language`),
		},
	},
}

// Router classifies user messages and dispatches them to the specialized
// agents. It is the last line of defense: Route never returns an error to
// its caller.
type Router struct {
	client   llm.Client
	research *research.Service
	logger   *zap.Logger

	mu     sync.Mutex
	agents map[types.AgentType]Agent
}

// NewRouter creates a router. Agent instances are constructed lazily on
// first use and reused afterwards.
func NewRouter(client llm.Client, researchSvc *research.Service, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		client:   client,
		research: researchSvc,
		logger:   logger,
		agents:   make(map[types.AgentType]Agent),
	}
}

// Route classifies the message, merges extracted parameters into the
// conversation context, and dispatches to the selected agent. A missing
// resume fails immediately; a panicking or erroring agent is converted into
// a failure result tagged with the attempted agent type.
func (r *Router) Route(ctx context.Context, message string, resume *types.Resume, conv *types.Conversation) *types.AgentResult {
	if resume == nil {
		return &types.AgentResult{
			Success:   false,
			Message:   "Please upload a resume first before I can help you optimize it. You can upload a PDF or DOCX file.",
			AgentType: types.AgentRouter,
			Reasoning: "No resume uploaded",
		}
	}

	agentType := r.Classify(ctx, message, conv)
	r.logger.Debug("classified intent",
		zap.String("agent_type", string(agentType)),
		zap.Int("message_len", len(message)))

	if conv != nil {
		conv.MergeContext(ExtractContext(message, agentType))
	}

	if agentType == types.AgentRouter {
		return r.handleGeneralQuery(ctx, message)
	}

	agent := r.agentFor(agentType)
	result, err := agent.Process(ctx, message, resume, conv)
	if err != nil {
		r.logger.Error("agent failed", zap.String("agent_type", string(agentType)), zap.Error(err))
		return &types.AgentResult{
			Success:   false,
			Message:   fmt.Sprintf("I encountered an error while processing your request: %v. Please try again or rephrase your request.", err),
			AgentType: agentType,
			Reasoning: fmt.Sprintf("Agent error: %v", err),
		}
	}
	return result
}

// Classify determines the agent for a message: the ordered pattern table
// first, then already-known context parameters, then a model fallback. The
// pattern and context stages never invoke the model.
func (r *Router) Classify(ctx context.Context, message string, conv *types.Conversation) types.AgentType {
	lower := strings.ToLower(message)

	for _, group := range intentPatterns {
		for _, pattern := range group.patterns {
			if pattern.MatchString(lower) {
				return group.agentType
			}
		}
	}

	if contextValue(conv, types.ContextTargetCompany) != "" {
		return types.AgentCompanyResearch
	}
	if contextValue(conv, types.ContextJobDescription) != "" {
		return types.AgentJobMatching
	}
	if contextValue(conv, types.ContextTargetLanguage) != "" {
		return types.AgentTranslation
	}

	return r.classifyWithModel(ctx, message, conv)
}

// classifyWithModel asks the model for a closed-set intent label. Anything
// outside the known set, including GENERAL and call failures, routes to the
// general-query handler rather than guessing a workflow.
func (r *Router) classifyWithModel(ctx context.Context, message string, conv *types.Conversation) types.AgentType {
	prompt := prompts.Format(prompts.MustGet("agents.json", "classify_intent"), map[string]string{
		"History": historyTurns(conv, classifyHistoryLimit, 100),
		"Message": message,
	})

	reply, err := r.client.Complete(ctx, llm.Request{Prompt: prompt}, llm.TierLite)
	if err != nil {
		r.logger.Warn("intent classification degraded to general", zap.Error(err))
		return types.AgentRouter
	}

	switch strings.ToUpper(strings.TrimSpace(reply)) {
	case "COMPANY_RESEARCH":
		return types.AgentCompanyResearch
	case "JOB_MATCHING":
		return types.AgentJobMatching
	case "TRANSLATION":
		return types.AgentTranslation
	default:
		return types.AgentRouter
	}
}

// ExtractContext pulls auxiliary parameters for the classified agent out of
// the message. Returned values merge into, never replace, existing context.
func ExtractContext(message string, agentType types.AgentType) map[string]string {
	updates := make(map[string]string)

	switch agentType {
	case types.AgentCompanyResearch:
		if company := ExtractCompanyName(message); company != "" {
			updates[types.ContextTargetCompany] = company
		}
	case types.AgentJobMatching:
		if jd := ExtractJobDescription(message); jd != "" {
			updates[types.ContextJobDescription] = jd
		}
	case types.AgentTranslation:
		if lang := ExtractLanguage(message); lang != "" {
			updates[types.ContextTargetLanguage] = lang
		}
		if region := ExtractRegion(message); region != "" {
			updates[types.ContextTargetRegion] = region
		}
	}

	return updates
}

// agentFor returns the cached agent instance for a type, constructing it on
// first use.
func (r *Router) agentFor(agentType types.AgentType) Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent, ok := r.agents[agentType]; ok {
		return agent
	}

	var agent Agent
	switch agentType {
	case types.AgentCompanyResearch:
		agent = NewCompanyAgent(r.client, r.research, r.logger)
	case types.AgentJobMatching:
		agent = NewJobMatchAgent(r.client, r.logger)
	case types.AgentTranslation:
		agent = NewTranslateAgent(r.client, r.logger)
	}
	r.agents[agentType] = agent
	return agent
}

// handleGeneralQuery answers messages that fit no specialized agent with
// capability guidance.
func (r *Router) handleGeneralQuery(ctx context.Context, message string) *types.AgentResult {
	prompt := prompts.Format(prompts.MustGet("agents.json", "general_query"), map[string]string{
		"Message": message,
	})

	reply, err := r.client.Complete(ctx, llm.Request{Prompt: prompt, Temperature: 0.7}, llm.TierLite)
	if err != nil {
		r.logger.Warn("general query call failed", zap.Error(err))
		return &types.AgentResult{
			Success:   false,
			Message:   "I couldn't process that request. Try asking me to optimize your resume for a company, match it against a job description, or translate it.",
			AgentType: types.AgentRouter,
			Reasoning: fmt.Sprintf("General query error: %v", err),
		}
	}

	return &types.AgentResult{
		Success:   true,
		Message:   reply,
		AgentType: types.AgentRouter,
		Reasoning: "General query - provided guidance on available features",
	}
}

// AvailableAgents describes the specialized agents for the capability listing.
func AvailableAgents() []Descriptor {
	return []Descriptor{
		{
			Type:        types.AgentCompanyResearch,
			Name:        "Company Research & Optimization",
			Description: "Research companies and optimize your resume to match their culture and values",
			Example:     "Optimize my resume for Google",
		},
		{
			Type:        types.AgentJobMatching,
			Name:        "Job Description Matching",
			Description: "Analyze job descriptions, calculate match scores, and identify skill gaps",
			Example:     "Match my resume to this job description: [paste JD]",
		},
		{
			Type:        types.AgentTranslation,
			Name:        "Translation & Localization",
			Description: "Translate and localize your resume for different markets",
			Example:     "Translate my resume to Spanish for Mexico",
		},
	}
}
