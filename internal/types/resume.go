// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SectionType is the closed category tag for a resume section
type SectionType string

// Section category tags
const (
	SectionContact        SectionType = "contact"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionLanguages      SectionType = "languages"
	SectionOther          SectionType = "other"
)

// ResumeSection is one titled, categorized block of resume content
type ResumeSection struct {
	Type    SectionType `json:"section_type"`
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Order   int         `json:"order"`
}

// Resume represents an uploaded resume document
type Resume struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Filename  string            `json:"filename,omitempty"`
	RawText   string            `json:"raw_text"`
	Sections  []ResumeSection   `json:"sections"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// FullText renders the resume for prompts and indexing.
// Structured sections take precedence over the raw fallback text.
func (r *Resume) FullText() string {
	if len(r.Sections) == 0 {
		return r.RawText
	}

	sections := make([]ResumeSection, len(r.Sections))
	copy(sections, r.Sections)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, fmt.Sprintf("## %s\n%s", s.Title, s.Content))
	}
	return strings.Join(parts, "\n\n")
}

// CloneMetadata returns a copy of the metadata map with extra entries merged in.
// The receiver's map is never mutated.
func (r *Resume) CloneMetadata(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(r.Metadata)+len(extra))
	for k, v := range r.Metadata {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
