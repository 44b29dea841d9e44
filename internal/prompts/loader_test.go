package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ExistingPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("agents.json", "classify_intent")
	require.NoError(t, err)
	assert.Contains(t, prompt, "COMPANY_RESEARCH")
	assert.Contains(t, prompt, "{{.Message}}")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("agents.json", "does_not_exist")
	assert.Error(t, err)
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("nope.json", "classify_intent")
	assert.Error(t, err)
}

func TestFormat_ReplacesPlaceholders(t *testing.T) {
	result := Format("Optimize for {{.Company}} in {{.Industry}}", map[string]string{
		"Company":  "Globex",
		"Industry": "logistics",
	})
	assert.Equal(t, "Optimize for Globex in logistics", result)
}

func TestFormat_UnknownPlaceholderLeftIntact(t *testing.T) {
	result := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", result)
}

func TestAgentPrompts_AllTemplatesPresent(t *testing.T) {
	keys := []string{
		"company_system", "company_optimize",
		"research_system", "research_summary",
		"job_system", "job_analysis_system", "job_analysis", "job_optimize",
		"semantic_system", "semantic_match",
		"translation_system", "translate",
		"classify_intent", "general_query",
		"analyze_system", "analyze_resume",
	}
	for _, key := range keys {
		prompt := MustGet("agents.json", key)
		assert.False(t, strings.TrimSpace(prompt) == "", "prompt %s is empty", key)
	}
}
