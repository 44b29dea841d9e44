package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// MemoryStore is an in-process Store for tests and the CLI chat session.
// All returned records are copies; callers cannot mutate stored state.
type MemoryStore struct {
	mu            sync.RWMutex
	resumes       map[string]types.Resume
	versions      map[string][]types.ResumeVersion
	conversations map[string]types.Conversation
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resumes:       make(map[string]types.Resume),
		versions:      make(map[string][]types.ResumeVersion),
		conversations: make(map[string]types.Conversation),
	}
}

// CreateResume stores a new resume, assigning an id and timestamps as needed.
func (s *MemoryStore) CreateResume(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = now
	}
	resume.UpdatedAt = now

	s.resumes[resume.ID] = copyResume(resume)
	return nil
}

// GetResume returns the resume or (nil, nil) when absent.
func (s *MemoryStore) GetResume(_ context.Context, id string) (*types.Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.resumes[id]
	if !ok {
		return nil, nil
	}
	out := copyResume(&stored)
	return &out, nil
}

// UpdateResume replaces a stored resume and bumps its update timestamp.
func (s *MemoryStore) UpdateResume(_ context.Context, resume *types.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resumes[resume.ID]; !ok {
		return nil
	}
	resume.UpdatedAt = time.Now().UTC()
	s.resumes[resume.ID] = copyResume(resume)
	return nil
}

// CreateVersion appends a version with the next number for its resume.
func (s *MemoryStore) CreateVersion(_ context.Context, version *types.ResumeVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	existing := s.versions[version.ResumeID]
	max := 0
	for _, v := range existing {
		if v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	version.VersionNumber = max + 1

	s.versions[version.ResumeID] = append(existing, copyVersion(version))
	return nil
}

// GetVersion returns one version by number, or (nil, nil) when absent.
func (s *MemoryStore) GetVersion(_ context.Context, resumeID string, number int) (*types.ResumeVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.versions[resumeID] {
		if v.VersionNumber == number {
			out := copyVersion(&v)
			return &out, nil
		}
	}
	return nil, nil
}

// ListVersions returns all versions for a resume, oldest first.
func (s *MemoryStore) ListVersions(_ context.Context, resumeID string) ([]types.ResumeVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.versions[resumeID]
	out := make([]types.ResumeVersion, 0, len(stored))
	for _, v := range stored {
		out = append(out, copyVersion(&v))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber < out[j].VersionNumber
	})
	return out, nil
}

// GetConversation returns the conversation or (nil, nil) when absent.
func (s *MemoryStore) GetConversation(_ context.Context, id string) (*types.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	out := copyConversation(&stored)
	return &out, nil
}

// SaveConversation creates or replaces a conversation, assigning an id and
// timestamps as needed.
func (s *MemoryStore) SaveConversation(_ context.Context, conv *types.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	s.conversations[conv.ID] = copyConversation(conv)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() {}

func copyResume(r *types.Resume) types.Resume {
	out := *r
	out.Sections = append([]types.ResumeSection(nil), r.Sections...)
	if r.Metadata != nil {
		out.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func copyVersion(v *types.ResumeVersion) types.ResumeVersion {
	out := *v
	out.Sections = append([]types.ResumeSection(nil), v.Sections...)
	return out
}

func copyConversation(c *types.Conversation) types.Conversation {
	out := *c
	out.Messages = append([]types.Message(nil), c.Messages...)
	if c.Context != nil {
		out.Context = make(map[string]string, len(c.Context))
		for k, v := range c.Context {
			out.Context[k] = v
		}
	}
	return out
}
