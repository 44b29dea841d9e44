// Package store persists resumes, their version history, and conversations.
// Two implementations are provided: an in-memory store for tests and the CLI,
// and a PostgreSQL store for the server.
package store

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Store is the persistence surface the server and CLI run against.
// Lookups for absent records return (nil, nil), not an error.
type Store interface {
	CreateResume(ctx context.Context, resume *types.Resume) error
	GetResume(ctx context.Context, id string) (*types.Resume, error)
	UpdateResume(ctx context.Context, resume *types.Resume) error

	// CreateVersion assigns the next version number for the resume and
	// fills in the version id and timestamp when they are empty.
	CreateVersion(ctx context.Context, version *types.ResumeVersion) error
	GetVersion(ctx context.Context, resumeID string, number int) (*types.ResumeVersion, error)
	ListVersions(ctx context.Context, resumeID string) ([]types.ResumeVersion, error)

	GetConversation(ctx context.Context, id string) (*types.Conversation, error)
	SaveConversation(ctx context.Context, conv *types.Conversation) error

	Close()
}

// Agent names recorded on bookkeeping versions.
const (
	VersionAgentUpload = "upload"
	VersionAgentRevert = "revert"
)

// InitialVersion builds the version snapshot recorded at upload time.
func InitialVersion(resume *types.Resume) *types.ResumeVersion {
	return &types.ResumeVersion{
		ResumeID:           resume.ID,
		Content:            resume.FullText(),
		Sections:           resume.Sections,
		ChangesDescription: "Initial upload",
		AgentUsed:          VersionAgentUpload,
	}
}

// Revert creates a new version copying the content of an earlier one and
// rolls the resume's sections back to it. The new version gets the next
// number; history is never rewritten.
func Revert(ctx context.Context, st Store, resumeID string, targetNumber int) (*types.ResumeVersion, error) {
	resume, err := st.GetResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, fmt.Errorf("resume not found: %s", resumeID)
	}

	target, err := st.GetVersion(ctx, resumeID, targetNumber)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("version %d not found for resume %s", targetNumber, resumeID)
	}

	reverted := &types.ResumeVersion{
		ResumeID:           resumeID,
		Content:            target.Content,
		Sections:           target.Sections,
		ChangesDescription: fmt.Sprintf("Reverted to version %d", targetNumber),
		AgentUsed:          VersionAgentRevert,
		ParentVersionID:    target.ID,
	}
	if err := st.CreateVersion(ctx, reverted); err != nil {
		return nil, err
	}

	resume.Sections = target.Sections
	if err := st.UpdateResume(ctx, resume); err != nil {
		return nil, err
	}
	return reverted, nil
}
