// Package extract recovers structured data from free-text model completions.
// Every extractor degrades to an empty or fallback value when a pattern is
// absent; extraction never fails outright.
package extract

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// maxBulletItems caps bullet list extraction; callers may truncate further.
const maxBulletItems = 10

// headingPattern matches markdown-style section headings ("## Title").
var headingPattern = regexp.MustCompile(`(?m)^[ \t]*##[ \t]*(.+?)[ \t]*$`)

// categoryTable maps heading keywords to section categories. Order matters:
// the first substring hit wins, so more specific keys come before generic ones.
var categoryTable = []struct {
	keyword string
	t       types.SectionType
}{
	{"contact", types.SectionContact},
	{"summary", types.SectionSummary},
	{"objective", types.SectionSummary},
	{"profile", types.SectionSummary},
	{"experience", types.SectionExperience},
	{"work", types.SectionExperience},
	{"education", types.SectionEducation},
	{"skills", types.SectionSkills},
	{"projects", types.SectionProjects},
	{"certifications", types.SectionCertifications},
	{"languages", types.SectionLanguages},
}

// Sections scans a completion for "## Title" headings and returns one section
// per heading, with the body running until the next heading or end of text.
// A completion with no headings returns the fallback unchanged so a model that
// ignored formatting instructions cannot wipe out the document.
func Sections(completion string, fallback []types.ResumeSection) []types.ResumeSection {
	matches := headingPattern.FindAllStringSubmatchIndex(completion, -1)
	if len(matches) == 0 {
		if len(fallback) > 0 {
			return fallback
		}
		return nil
	}

	sections := make([]types.ResumeSection, 0, len(matches))
	for i, m := range matches {
		title := strings.TrimSpace(completion[m[2]:m[3]])

		bodyStart := m[1]
		bodyEnd := len(completion)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := strings.TrimSpace(completion[bodyStart:bodyEnd])

		sections = append(sections, types.ResumeSection{
			Type:    CategoryForTitle(title),
			Title:   title,
			Content: body,
			Order:   i,
		})
	}
	return sections
}

// CategoryForTitle maps a section title to its category tag via the ordered
// keyword table. Unmatched titles fall into the "other" category.
func CategoryForTitle(title string) types.SectionType {
	lower := strings.ToLower(title)
	for _, entry := range categoryTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.t
		}
	}
	return types.SectionOther
}

// FieldSpec names one labeled field to capture. List-valued fields are split
// on commas.
type FieldSpec struct {
	Name string
	List bool
}

// Field holds one captured labeled value.
type Field struct {
	Text  string
	Items []string
}

// Fields maps field names to captured values. Missing fields are present with
// zero values so callers never need an existence check.
type Fields map[string]Field

// Text returns the captured text for a field, or "" when absent.
func (f Fields) Text(name string) string {
	return f[name].Text
}

// Items returns the captured list for a field, or nil when absent.
func (f Fields) Items(name string) []string {
	return f[name].Items
}

// LabeledFields captures "FIELDNAME: value" blocks from a completion. Each
// value runs from its label to the next known label or end of text. Labels are
// matched case-insensitively at any position; the specs list defines the set
// of known labels used as value boundaries.
func LabeledFields(completion string, specs []FieldSpec) Fields {
	lower := strings.ToLower(completion)

	type labelPos struct {
		spec       FieldSpec
		start, end int
	}

	positions := make([]labelPos, 0, len(specs))
	for _, spec := range specs {
		idx := strings.Index(lower, strings.ToLower(spec.Name)+":")
		if idx < 0 {
			continue
		}
		positions = append(positions, labelPos{
			spec:  spec,
			start: idx,
			end:   idx + len(spec.Name) + 1,
		})
	}

	fields := make(Fields, len(specs))
	for _, spec := range specs {
		fields[spec.Name] = Field{}
	}

	for _, pos := range positions {
		valueEnd := len(completion)
		for _, other := range positions {
			if other.start > pos.start && other.start < valueEnd {
				valueEnd = other.start
			}
		}

		value := strings.TrimSpace(completion[pos.end:valueEnd])
		field := Field{Text: value}
		if pos.spec.List {
			field.Items = SplitList(value)
		}
		fields[pos.spec.Name] = field
	}

	return fields
}

// bulletLine matches "- item" or "• item" lines.
var bulletLine = regexp.MustCompile(`^[-•]\s*(.*)$`)

// labelLine marks the start of another ALL_CAPS labeled block.
var labelLine = regexp.MustCompile(`^[A-Z][A-Z_]+:`)

// BulletList locates a label and collects subsequent bullet lines until
// another labeled block begins or the text ends. Empty bullets are dropped
// and the result is capped at ten items.
func BulletList(completion, label string) []string {
	lower := strings.ToLower(completion)
	idx := strings.Index(lower, strings.ToLower(label))
	if idx < 0 {
		return nil
	}

	rest := completion[idx+len(label):]
	var items []string
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if labelLine.MatchString(line) {
			break
		}
		m := bulletLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.TrimSpace(m[1])
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == maxBulletItems {
			break
		}
	}
	return items
}

// SplitList splits a comma-separated value into trimmed non-empty items.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
