package store

import (
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// maxDiffHunks caps the number of change groups reported by a comparison.
const maxDiffHunks = 20

// DiffHunk is one contiguous group of changed lines. Line numbers are
// 1-based positions in the respective version contents.
type DiffHunk struct {
	FromLine int      `json:"from_line"`
	ToLine   int      `json:"to_line"`
	Removed  []string `json:"removed,omitempty"`
	Added    []string `json:"added,omitempty"`
}

// VersionDiff is the comparison of two versions of one resume.
type VersionDiff struct {
	ResumeID    string     `json:"resume_id"`
	FromVersion int        `json:"from_version"`
	ToVersion   int        `json:"to_version"`
	Hunks       []DiffHunk `json:"hunks"`
	Truncated   bool       `json:"truncated,omitempty"`
}

// CompareVersions produces a line-oriented diff between two version snapshots.
// Contiguous removed/added lines are grouped into hunks, capped at twenty.
func CompareVersions(from, to *types.ResumeVersion) *VersionDiff {
	hunks, truncated := diffLines(splitLines(from.Content), splitLines(to.Content))
	return &VersionDiff{
		ResumeID:    from.ResumeID,
		FromVersion: from.VersionNumber,
		ToVersion:   to.VersionNumber,
		Hunks:       hunks,
		Truncated:   truncated,
	}
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// diffLines runs a longest-common-subsequence diff and groups the edits.
func diffLines(a, b []string) ([]DiffHunk, bool) {
	// lcs[i][j] = length of the LCS of a[i:] and b[j:]
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var (
		hunks   []DiffHunk
		current *DiffHunk
		i, j    int
	)

	flush := func() {
		if current != nil {
			hunks = append(hunks, *current)
			current = nil
		}
	}
	ensure := func() *DiffHunk {
		if current == nil {
			current = &DiffHunk{FromLine: i + 1, ToLine: j + 1}
		}
		return current
	}

	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			flush()
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			h := ensure()
			h.Removed = append(h.Removed, a[i])
			i++
		default:
			h := ensure()
			h.Added = append(h.Added, b[j])
			j++
		}
		if len(hunks) == maxDiffHunks {
			return hunks, true
		}
	}
	for i < len(a) {
		h := ensure()
		h.Removed = append(h.Removed, a[i])
		i++
	}
	for j < len(b) {
		h := ensure()
		h.Added = append(h.Added, b[j])
		j++
	}
	flush()

	if len(hunks) > maxDiffHunks {
		return hunks[:maxDiffHunks], true
	}
	return hunks, false
}
