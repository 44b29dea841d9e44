package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func versionWith(number int, content string) *types.ResumeVersion {
	return &types.ResumeVersion{ResumeID: "r1", VersionNumber: number, Content: content}
}

func TestCompareVersions_Identical(t *testing.T) {
	diff := CompareVersions(versionWith(1, "a\nb"), versionWith(2, "a\nb"))

	assert.Equal(t, "r1", diff.ResumeID)
	assert.Equal(t, 1, diff.FromVersion)
	assert.Equal(t, 2, diff.ToVersion)
	assert.Empty(t, diff.Hunks)
	assert.False(t, diff.Truncated)
}

func TestCompareVersions_ChangedLine(t *testing.T) {
	diff := CompareVersions(
		versionWith(1, "## Summary\nEngineer.\n\n## Skills\nPython"),
		versionWith(2, "## Summary\nSenior engineer.\n\n## Skills\nPython"),
	)

	require.Len(t, diff.Hunks, 1)
	hunk := diff.Hunks[0]
	assert.Equal(t, 2, hunk.FromLine)
	assert.Equal(t, 2, hunk.ToLine)
	assert.Equal(t, []string{"Engineer."}, hunk.Removed)
	assert.Equal(t, []string{"Senior engineer."}, hunk.Added)
}

func TestCompareVersions_AddedAndRemovedLines(t *testing.T) {
	diff := CompareVersions(
		versionWith(1, "a\nb\nc"),
		versionWith(2, "a\nc\nd"),
	)

	require.Len(t, diff.Hunks, 2)
	assert.Equal(t, []string{"b"}, diff.Hunks[0].Removed)
	assert.Empty(t, diff.Hunks[0].Added)
	assert.Equal(t, []string{"d"}, diff.Hunks[1].Added)
	assert.Empty(t, diff.Hunks[1].Removed)
}

func TestCompareVersions_TruncatesAtTwentyHunks(t *testing.T) {
	// Alternating stable/changed lines produce one hunk per change.
	var from, to []string
	for i := 0; i < 30; i++ {
		from = append(from, "same", "old")
		to = append(to, "same", "new")
	}
	diff := CompareVersions(
		versionWith(1, strings.Join(from, "\n")),
		versionWith(2, strings.Join(to, "\n")),
	)

	assert.Len(t, diff.Hunks, maxDiffHunks)
	assert.True(t, diff.Truncated)
}

func TestCompareVersions_EmptyToContent(t *testing.T) {
	diff := CompareVersions(versionWith(1, "a\nb"), versionWith(2, ""))

	require.Len(t, diff.Hunks, 1)
	assert.Equal(t, []string{"a", "b"}, diff.Hunks[0].Removed)
	assert.Empty(t, diff.Hunks[0].Added)
}
