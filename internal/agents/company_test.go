package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/vector"
)

func newTestCompanyAgent(client *stubClient) *CompanyAgent {
	svc := research.NewService(vector.NewMemoryIndex(), &failingSearcher{}, client, nil)
	return NewCompanyAgent(client, svc, nil)
}

func TestExtractCompanyName(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"Optimize my resume for Google", "Google"},
		{"I want to apply at Initech.", "Initech"},
		{"Make my resume better for Acme Labs", "Acme Labs"},
		{"tailor this for netflix", "netflix"},
		{"I'm targeting Wayne Enterprises inc", "Wayne Enterprises"},
		{"update my Stripe resume", "Stripe"},
		{"optimize my resume please", ""},
		{"make it shorter", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractCompanyName(tc.message), "message: %q", tc.message)
	}
}

func TestCompanyAgent_MissingCompanyFails(t *testing.T) {
	stub := &stubClient{}
	agent := newTestCompanyAgent(stub)

	result, err := agent.Process(context.Background(), "optimize my resume please", testResume(), nil)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, types.AgentCompanyResearch, result.AgentType)
	assert.Contains(t, result.Message, "couldn't identify a target company")
	assert.Zero(t, stub.calls)
}

func TestCompanyAgent_ContextCompanyWins(t *testing.T) {
	stub := &stubClient{replies: []string{
		"## Summary\nEngineer aligned with Globex values.\n\n## Skills\nPython, SQL\n\nKey Changes: Highlighted scale experience.",
	}}
	agent := newTestCompanyAgent(stub)

	conv := testConversation(map[string]string{types.ContextTargetCompany: "Globex"})
	result, err := agent.Process(context.Background(), "optimize my resume for Initech", testResume(), conv)

	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "Globex", result.Metadata["target_company"])
	assert.Contains(t, result.Message, "Globex")
}

func TestCompanyAgent_ProcessProducesChanges(t *testing.T) {
	stub := &stubClient{replies: []string{
		"## Summary\nEngineer aligned with Globex values.\n\n## Skills\nPython, SQL\n\nKey Changes: Reworked the summary toward Globex.",
	}}
	agent := newTestCompanyAgent(stub)

	resume := testResume()
	result, err := agent.Process(context.Background(), "Optimize my resume for Globex", resume, nil)

	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, types.AgentCompanyResearch, result.AgentType)

	require.Len(t, result.UpdatedSections, 2)
	assert.Equal(t, "Engineer aligned with Globex values.", result.UpdatedSections[0].Content)

	// The trailing explanation rides inside the last section body, so both
	// sections register as modified.
	require.Len(t, result.Changes, 2)
	assert.Equal(t, types.ChangeModified, result.Changes[0].Type)
	assert.Equal(t, "Summary", result.Changes[0].Section)

	assert.Contains(t, result.Reasoning, "Reworked the summary")

	// Research degraded to the placeholder, which still rides along in metadata.
	info, ok := result.Metadata["company_info"].(*research.CompanyInfo)
	require.True(t, ok)
	assert.Equal(t, research.PlaceholderCulture, info.Culture)

	// Original sections are untouched.
	assert.Equal(t, "Engineer.", resume.Sections[0].Content)
}
