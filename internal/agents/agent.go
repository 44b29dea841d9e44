// Package agents implements the specialized resume-optimization agents and
// the router that dispatches user messages to them.
package agents

import (
	"context"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Agent is one specialized optimization workflow. Process returns a non-nil
// result for recoverable conditions (missing parameters, unsupported values);
// an error return means something unexpected broke and the router converts it
// into a failure result at its boundary.
type Agent interface {
	// Type identifies the agent for routing and result tagging
	Type() types.AgentType
	// Process handles one user message against the current resume
	Process(ctx context.Context, message string, resume *types.Resume, conv *types.Conversation) (*types.AgentResult, error)
}

// Descriptor describes one agent for the capability listing
type Descriptor struct {
	Type        types.AgentType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Example     string          `json:"example"`
}

// historyTurns converts recent conversation messages to prompt history lines,
// truncating each to keep the classification prompt small.
func historyTurns(conv *types.Conversation, limit, maxChars int) string {
	if conv == nil {
		return ""
	}
	var lines []string
	for _, msg := range conv.History(limit) {
		lines = append(lines, string(msg.Role)+": "+clip(msg.Content, maxChars))
	}
	return strings.Join(lines, "\n")
}

// contextValue reads a key from the conversation context, tolerating a nil
// conversation or map.
func contextValue(conv *types.Conversation, key string) string {
	if conv == nil || conv.Context == nil {
		return ""
	}
	return conv.Context[key]
}

// joinOrDefault renders a list for prompt embedding.
func joinOrDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// textOrDefault substitutes a fallback for empty prompt values.
func textOrDefault(text, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// clip truncates text for prompt embedding. Truncation happens on rune
// boundaries so multibyte content never turns into invalid UTF-8.
func clip(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) > maxChars {
		return string(runes[:maxChars])
	}
	return text
}

// extractUpdatedSections recovers the rewritten sections from a model reply.
// A reply without headings leaves the resume's sections untouched.
func extractUpdatedSections(reply string, resume *types.Resume) []types.ResumeSection {
	return extract.Sections(reply, resume.Sections)
}

// extractReasoningOr pulls the model's explanation, substituting a default
// when the reply carries none.
func extractReasoningOr(reply, fallback string) string {
	if reasoning := extract.Reasoning(reply); reasoning != "" {
		return reasoning
	}
	return fallback
}
