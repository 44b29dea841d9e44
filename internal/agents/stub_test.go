package agents

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// stubClient replays scripted completions in order. The last reply is sticky
// so single-reply scripts serve any number of calls.
type stubClient struct {
	replies  []string
	err      error
	calls    int
	requests []llm.Request
}

func (s *stubClient) Complete(_ context.Context, req llm.Request, _ llm.ModelTier) (string, error) {
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", fmt.Errorf("no scripted reply for call %d", s.calls)
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub" }
func (s *stubClient) Close() error                  { return nil }

// testResume builds the document used across agent tests.
func testResume() *types.Resume {
	return &types.Resume{
		ID:     "resume-1",
		UserID: "default_user",
		Sections: []types.ResumeSection{
			{Type: types.SectionSummary, Title: "Summary", Content: "Engineer.", Order: 0},
			{Type: types.SectionSkills, Title: "Skills", Content: "Python, SQL", Order: 1},
		},
	}
}

func testConversation(context map[string]string) *types.Conversation {
	return &types.Conversation{ID: "conv-1", UserID: "default_user", Context: context}
}
