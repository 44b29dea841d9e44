package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullText_PrefersSectionsOverRawText(t *testing.T) {
	resume := &Resume{
		RawText: "raw fallback",
		Sections: []ResumeSection{
			{Type: SectionSkills, Title: "Skills", Content: "Python, SQL", Order: 1},
			{Type: SectionSummary, Title: "Summary", Content: "Engineer.", Order: 0},
		},
	}

	text := resume.FullText()
	assert.Equal(t, "## Summary\nEngineer.\n\n## Skills\nPython, SQL", text)
}

func TestFullText_FallsBackToRawText(t *testing.T) {
	resume := &Resume{RawText: "plain resume text"}
	assert.Equal(t, "plain resume text", resume.FullText())
}

func TestCloneMetadata_DoesNotMutateReceiver(t *testing.T) {
	resume := &Resume{Metadata: map[string]string{"source": "upload"}}

	merged := resume.CloneMetadata(map[string]string{"optimized_for": "Globex"})

	assert.Equal(t, "upload", merged["source"])
	assert.Equal(t, "Globex", merged["optimized_for"])
	assert.NotContains(t, resume.Metadata, "optimized_for")
}

func TestConversationHistory_LimitsToMostRecent(t *testing.T) {
	conv := &Conversation{}
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		conv.AddMessage(Message{Role: RoleUser, Content: content})
	}

	recent := conv.History(3)
	assert.Len(t, recent, 3)
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "five", recent[2].Content)
}

func TestMergeContext_KeepsExistingKeys(t *testing.T) {
	conv := &Conversation{Context: map[string]string{ContextTargetCompany: "Globex"}}

	conv.MergeContext(map[string]string{
		ContextTargetCompany:  "",
		ContextTargetLanguage: "spanish",
	})

	assert.Equal(t, "Globex", conv.Context[ContextTargetCompany])
	assert.Equal(t, "spanish", conv.Context[ContextTargetLanguage])
}
