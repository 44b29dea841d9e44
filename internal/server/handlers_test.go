package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/agents"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/research"
	"github.com/jonathan/resume-optimizer/internal/store"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/vector"
	"github.com/jonathan/resume-optimizer/internal/websearch"
)

type stubClient struct {
	replies []string
	err     error
	calls   int
}

func (s *stubClient) Complete(context.Context, llm.Request, llm.ModelTier) (string, error) {
	s.calls++
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

type noSearcher struct{}

func (noSearcher) Search(context.Context, string, int) ([]websearch.Result, error) {
	return nil, errors.New("search unavailable")
}

func newTestServer(client *stubClient) (*Server, *store.MemoryStore) {
	st := store.NewMemoryStore()
	index := vector.NewMemoryIndex()
	researchSvc := research.NewService(index, noSearcher{}, client, nil)
	router := agents.NewRouter(client, researchSvc, nil)
	analyzer := agents.NewAnalyzer(client, nil)
	return New(Config{Port: 0}, st, router, analyzer, index, nil), st
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func uploadSample(t *testing.T, s *Server) types.Resume {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/resume", map[string]any{
		"filename": "resume.md",
		"raw_text": "## Summary\nEngineer.\n\n## Skills\nPython, SQL",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resume types.Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resume))
	return resume
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(&stubClient{})

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestHandleUploadResume_ParsesSectionsFromRawText(t *testing.T) {
	s, st := newTestServer(&stubClient{})

	resume := uploadSample(t, s)
	require.NotEmpty(t, resume.ID)
	require.Len(t, resume.Sections, 2)
	assert.Equal(t, types.SectionSummary, resume.Sections[0].Type)
	assert.Equal(t, "default_user", resume.UserID)

	versions, err := st.ListVersions(context.Background(), resume.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, store.VersionAgentUpload, versions[0].AgentUsed)
}

func TestHandleUploadResume_RejectsMissingRawText(t *testing.T) {
	s, _ := newTestServer(&stubClient{})

	rec := doJSON(t, s, http.MethodPost, "/resume", map[string]any{"filename": "x.md"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "raw_text")
}

func TestHandleUploadResume_IndexesDocument(t *testing.T) {
	client := &stubClient{}
	st := store.NewMemoryStore()
	index := vector.NewMemoryIndex()
	researchSvc := research.NewService(index, noSearcher{}, client, nil)
	s := New(Config{}, st, agents.NewRouter(client, researchSvc, nil), agents.NewAnalyzer(client, nil), index, nil)

	resume := uploadSample(t, s)

	hits, err := index.Search(context.Background(), "python engineer", map[string]string{"kind": "resume"}, 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, resume.ID, hits[0].ID)
}

func TestHandleGetResume_NotFound(t *testing.T) {
	s, _ := newTestServer(&stubClient{})

	rec := doJSON(t, s, http.MethodGet, "/resume/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetResumeContent(t *testing.T) {
	s, _ := newTestServer(&stubClient{})
	resume := uploadSample(t, s)

	rec := doJSON(t, s, http.MethodGet, "/resume/"+resume.ID+"/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "## Summary")
}

func TestHandleAnalyzeResume(t *testing.T) {
	client := &stubClient{replies: []string{
		"OVERALL_SCORE: 75\nKEYWORD_SCORE: 70\nFORMAT_SCORE: 80\nIMPACT_SCORE: 72\nSUMMARY: Solid.",
	}}
	s, _ := newTestServer(client)
	resume := uploadSample(t, s)

	rec := doJSON(t, s, http.MethodPost, "/resume/"+resume.ID+"/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis agents.ResumeAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.InDelta(t, 75.0, analysis.OverallScore, 0.001)
}

func TestHandleChat_SuccessfulMutationCreatesVersion(t *testing.T) {
	client := &stubClient{replies: []string{
		"## Summary\nGlobex-focused engineer.\n\n## Skills\nPython, SQL\n\nKey Changes: Aligned summary with Globex.",
	}}
	s, st := newTestServer(client)
	resume := uploadSample(t, s)

	rec := doJSON(t, s, http.MethodPost, "/chat", chatRequest{
		Message:  "Optimize my resume for Globex",
		ResumeID: resume.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, types.AgentCompanyResearch, resp.AgentType)
	assert.NotEmpty(t, resp.ConversationID)

	ctx := context.Background()
	updated, err := st.GetResume(ctx, resume.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex-focused engineer.", updated.Sections[0].Content)

	versions, err := st.ListVersions(ctx, resume.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, string(types.AgentCompanyResearch), versions[1].AgentUsed)

	conv, err := st.GetConversation(ctx, resp.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Len(t, conv.Messages, 2)
	assert.Equal(t, "Globex", conv.Context[types.ContextTargetCompany])
}

func TestHandleChat_FailureResultDoesNotCreateVersion(t *testing.T) {
	client := &stubClient{err: errors.New("model down")}
	s, st := newTestServer(client)
	resume := uploadSample(t, s)

	rec := doJSON(t, s, http.MethodPost, "/chat", chatRequest{
		Message:  "Optimize my resume for Globex",
		ResumeID: resume.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)

	versions, err := st.ListVersions(context.Background(), resume.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1, "failed routing must not version the resume")
}

func TestHandleChat_UnknownResume(t *testing.T) {
	s, _ := newTestServer(&stubClient{})

	rec := doJSON(t, s, http.MethodPost, "/chat", chatRequest{Message: "hi", ResumeID: "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleChat_MissingMessage(t *testing.T) {
	s, _ := newTestServer(&stubClient{})

	rec := doJSON(t, s, http.MethodPost, "/chat", map[string]string{"resume_id": "r1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_ContinuesConversation(t *testing.T) {
	client := &stubClient{replies: []string{
		"## Summary\nGlobex-focused engineer.\n\n## Skills\nPython, SQL",
		"## Summary\nGlobex-focused senior engineer.\n\n## Skills\nPython, SQL",
	}}
	s, st := newTestServer(client)
	resume := uploadSample(t, s)

	first := doJSON(t, s, http.MethodPost, "/chat", chatRequest{
		Message:  "Optimize my resume for Globex",
		ResumeID: resume.ID,
	})
	require.Equal(t, http.StatusOK, first.Code)
	var firstResp chatResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))

	// No company in the second message; the sticky context supplies it.
	second := doJSON(t, s, http.MethodPost, "/chat", chatRequest{
		Message:        "make the summary stronger please",
		ResumeID:       resume.ID,
		ConversationID: firstResp.ConversationID,
	})
	require.Equal(t, http.StatusOK, second.Code)
	var secondResp chatResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	assert.Equal(t, firstResp.ConversationID, secondResp.ConversationID)
	assert.Equal(t, types.AgentCompanyResearch, secondResp.AgentType)

	conv, err := st.GetConversation(context.Background(), firstResp.ConversationID)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 4)
}

func TestVersionEndpoints(t *testing.T) {
	client := &stubClient{replies: []string{
		"## Summary\nGlobex-focused engineer.\n\n## Skills\nPython, SQL",
	}}
	s, _ := newTestServer(client)
	resume := uploadSample(t, s)

	chat := doJSON(t, s, http.MethodPost, "/chat", chatRequest{
		Message:  "Optimize my resume for Globex",
		ResumeID: resume.ID,
	})
	require.Equal(t, http.StatusOK, chat.Code)

	list := doJSON(t, s, http.MethodGet, "/resume/"+resume.ID+"/versions", nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"version_number":1`)
	assert.Contains(t, list.Body.String(), `"version_number":2`)

	get := doJSON(t, s, http.MethodGet, "/resume/"+resume.ID+"/versions/2", nil)
	require.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), "Globex-focused")

	compare := doJSON(t, s, http.MethodGet, "/resume/"+resume.ID+"/compare/1/2", nil)
	require.Equal(t, http.StatusOK, compare.Code)
	var diff store.VersionDiff
	require.NoError(t, json.Unmarshal(compare.Body.Bytes(), &diff))
	assert.Equal(t, 1, diff.FromVersion)
	assert.Equal(t, 2, diff.ToVersion)
	assert.NotEmpty(t, diff.Hunks)

	revert := doJSON(t, s, http.MethodPost, "/resume/"+resume.ID+"/revert/1", nil)
	require.Equal(t, http.StatusOK, revert.Code)
	var reverted types.ResumeVersion
	require.NoError(t, json.Unmarshal(revert.Body.Bytes(), &reverted))
	assert.Equal(t, 3, reverted.VersionNumber)
	assert.Equal(t, "Reverted to version 1", reverted.ChangesDescription)

	badVersion := doJSON(t, s, http.MethodGet, "/resume/"+resume.ID+"/versions/nine", nil)
	assert.Equal(t, http.StatusBadRequest, badVersion.Code)

	missing := doJSON(t, s, http.MethodGet, "/resume/"+resume.ID+"/versions/99", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHandleListAgents(t *testing.T) {
	s, _ := newTestServer(&stubClient{})

	rec := doJSON(t, s, http.MethodGet, "/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "company_research")
	assert.Contains(t, rec.Body.String(), "job_matching")
	assert.Contains(t, rec.Body.String(), "translation")
}
