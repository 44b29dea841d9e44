package types

import "time"

// ResumeVersion is an immutable snapshot of a resume at one point in time.
// Version numbers start at 1 and grow monotonically per resume.
type ResumeVersion struct {
	ID                 string          `json:"id"`
	ResumeID           string          `json:"resume_id"`
	VersionNumber      int             `json:"version_number"`
	Content            string          `json:"content"`
	Sections           []ResumeSection `json:"sections"`
	ChangesDescription string          `json:"changes_description"`
	AgentUsed          string          `json:"agent_used"`
	ParentVersionID    string          `json:"parent_version_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}
