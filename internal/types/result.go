package types

// ChangeType tags one section transition in a diff
type ChangeType string

// Change types
const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// snippetLimit caps before/after snippets in change records.
const snippetLimit = 200

// Change describes one section's addition, modification, or removal
// between two resume states.
type Change struct {
	Section         string     `json:"section"`
	Type            ChangeType `json:"type"`
	OriginalContent string     `json:"original_content,omitempty"`
	NewContent      string     `json:"new_content,omitempty"`
}

// AgentResult is the structured outcome of one agent invocation
type AgentResult struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	AgentType       AgentType       `json:"agent_type"`
	UpdatedSections []ResumeSection `json:"updated_sections,omitempty"`
	Changes         []Change        `json:"changes,omitempty"`
	Reasoning       string          `json:"reasoning,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}

// DiffSections computes change records between two section lists.
// Sections are paired by category tag, not title, so a renamed section of the
// same category counts as a modification. Duplicate categories collapse to the
// last occurrence.
func DiffSections(original, updated []ResumeSection) []Change {
	originalByType := make(map[SectionType]ResumeSection, len(original))
	for _, s := range original {
		originalByType[s.Type] = s
	}
	updatedByType := make(map[SectionType]ResumeSection, len(updated))
	for _, s := range updated {
		updatedByType[s.Type] = s
	}

	var changes []Change

	// Walk updated sections in list order so output is deterministic.
	seen := make(map[SectionType]bool, len(updated))
	for _, upd := range updated {
		latest := updatedByType[upd.Type]
		if seen[upd.Type] {
			continue
		}
		seen[upd.Type] = true

		orig, existed := originalByType[upd.Type]
		if !existed {
			changes = append(changes, Change{
				Section:    latest.Title,
				Type:       ChangeAdded,
				NewContent: truncateSnippet(latest.Content),
			})
			continue
		}
		if orig.Content != latest.Content {
			changes = append(changes, Change{
				Section:         latest.Title,
				Type:            ChangeModified,
				OriginalContent: truncateSnippet(orig.Content),
				NewContent:      truncateSnippet(latest.Content),
			})
		}
	}

	for _, orig := range original {
		if _, kept := updatedByType[orig.Type]; kept {
			continue
		}
		latest := originalByType[orig.Type]
		if latest.Title != orig.Title || latest.Content != orig.Content {
			// Only report the surviving duplicate once.
			continue
		}
		changes = append(changes, Change{
			Section:         orig.Title,
			Type:            ChangeRemoved,
			OriginalContent: truncateSnippet(orig.Content),
		})
	}

	return changes
}

// truncateSnippet caps snippet length for change records.
func truncateSnippet(s string) string {
	if len(s) > snippetLimit {
		return s[:snippetLimit] + "..."
	}
	return s
}
