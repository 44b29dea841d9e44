package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffSections_IdenticalListsYieldNoChanges(t *testing.T) {
	sections := []ResumeSection{
		{Type: SectionSummary, Title: "Summary", Content: "Engineer with 5 years.", Order: 0},
		{Type: SectionSkills, Title: "Skills", Content: "Python, SQL", Order: 1},
	}

	changes := DiffSections(sections, sections)
	assert.Empty(t, changes)
}

func TestDiffSections_SingleBodyChangeYieldsOneModified(t *testing.T) {
	original := []ResumeSection{
		{Type: SectionSummary, Title: "Summary", Content: "Engineer with 5 years.", Order: 0},
		{Type: SectionSkills, Title: "Skills", Content: "Python, SQL", Order: 1},
	}
	updated := []ResumeSection{
		{Type: SectionSummary, Title: "Summary", Content: "Engineer with 5 years.", Order: 0},
		{Type: SectionSkills, Title: "Skills", Content: "Python, SQL, Go", Order: 1},
	}

	changes := DiffSections(original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeModified, changes[0].Type)
	assert.Equal(t, "Skills", changes[0].Section)
	assert.Equal(t, "Python, SQL", changes[0].OriginalContent)
	assert.Equal(t, "Python, SQL, Go", changes[0].NewContent)
}

func TestDiffSections_RenamedSectionSameCategoryIsModification(t *testing.T) {
	original := []ResumeSection{
		{Type: SectionSummary, Title: "Objective", Content: "Seeking a backend role.", Order: 0},
	}
	updated := []ResumeSection{
		{Type: SectionSummary, Title: "Professional Summary", Content: "Backend engineer.", Order: 0},
	}

	changes := DiffSections(original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeModified, changes[0].Type)
	assert.Equal(t, "Professional Summary", changes[0].Section)
}

func TestDiffSections_AddedAndRemoved(t *testing.T) {
	original := []ResumeSection{
		{Type: SectionSummary, Title: "Summary", Content: "Engineer.", Order: 0},
		{Type: SectionProjects, Title: "Projects", Content: "Side project.", Order: 1},
	}
	updated := []ResumeSection{
		{Type: SectionSummary, Title: "Summary", Content: "Engineer.", Order: 0},
		{Type: SectionCertifications, Title: "Certifications", Content: "AWS SAA", Order: 1},
	}

	changes := DiffSections(original, updated)
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeAdded, changes[0].Type)
	assert.Equal(t, "Certifications", changes[0].Section)
	assert.Equal(t, ChangeRemoved, changes[1].Type)
	assert.Equal(t, "Projects", changes[1].Section)
}

func TestDiffSections_SnippetsTruncatedAt200(t *testing.T) {
	long := strings.Repeat("a", 350)
	original := []ResumeSection{
		{Type: SectionExperience, Title: "Experience", Content: long, Order: 0},
	}
	updated := []ResumeSection{
		{Type: SectionExperience, Title: "Experience", Content: long + "b", Order: 0},
	}

	changes := DiffSections(original, updated)
	require.Len(t, changes, 1)
	assert.Len(t, changes[0].OriginalContent, 203)
	assert.True(t, strings.HasSuffix(changes[0].OriginalContent, "..."))
	assert.Len(t, changes[0].NewContent, 203)
}

func TestDiffSections_DuplicateCategoryCollapsesToLast(t *testing.T) {
	original := []ResumeSection{
		{Type: SectionSkills, Title: "Skills", Content: "Python", Order: 0},
		{Type: SectionSkills, Title: "Technical Skills", Content: "Go", Order: 1},
	}
	updated := []ResumeSection{
		{Type: SectionSkills, Title: "Skills", Content: "Go", Order: 0},
	}

	// Last duplicate wins on the original side, so content is unchanged.
	changes := DiffSections(original, updated)
	assert.Empty(t, changes)
}
