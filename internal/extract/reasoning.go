package extract

import (
	"regexp"
	"strings"
)

// maxReasoningLen caps extracted explanation text.
const maxReasoningLen = 500

// reasoningPatterns locate the model's explanation of its changes.
var reasoningPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:key changes|changes made|improvements|optimization summary|reasoning|explanation|what i changed):\s*(.+)$`),
	regexp.MustCompile(`(?is)(?:expected improvement|this should|these changes)(.+)$`),
}

// culturalNotesPattern locates the translation agent's adaptation notes.
var culturalNotesPattern = regexp.MustCompile(`(?is)cultural_notes?:\s*(.+)$`)

// Reasoning pulls the explanation portion out of a completion. When no
// explicit marker is present the last paragraph is used. Returns "" when the
// completion carries no usable text; callers supply their own default.
func Reasoning(completion string) string {
	for _, pattern := range reasoningPatterns {
		if m := pattern.FindStringSubmatch(completion); m != nil {
			return truncate(strings.TrimSpace(m[1]))
		}
	}
	return truncate(lastParagraph(completion))
}

// CulturalNotes pulls the "CULTURAL_NOTES:" block from a translation reply,
// falling back to the last paragraph when it is short enough to be a note.
func CulturalNotes(completion string) string {
	if m := culturalNotesPattern.FindStringSubmatch(completion); m != nil {
		return truncate(strings.TrimSpace(m[1]))
	}
	last := lastParagraph(completion)
	if len(last) < maxReasoningLen {
		return last
	}
	return ""
}

// lastParagraph returns the final non-empty paragraph of a completion.
func lastParagraph(completion string) string {
	paragraphs := strings.Split(strings.TrimSpace(completion), "\n\n")
	for i := len(paragraphs) - 1; i >= 0; i-- {
		p := strings.TrimSpace(paragraphs[i])
		if p != "" {
			return p
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) > maxReasoningLen {
		return s[:maxReasoningLen]
	}
	return s
}
