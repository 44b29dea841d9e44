package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/agents"
	"github.com/jonathan/resume-optimizer/internal/extract"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/store"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// maxUploadBytes bounds resume upload payloads.
const maxUploadBytes = 1 << 20

// defaultUserID stands in when the upload names no user.
const defaultUserID = "default_user"

type uploadRequest struct {
	UserID   string                `json:"user_id"`
	Filename string                `json:"filename"`
	RawText  string                `json:"raw_text"`
	Sections []types.ResumeSection `json:"sections"`
	Metadata map[string]string     `json:"metadata"`
}

type chatRequest struct {
	Message        string `json:"message" validate:"required,min=1"`
	ResumeID       string `json:"resume_id" validate:"required"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	Message        string          `json:"message"`
	AgentType      types.AgentType `json:"agent_type"`
	Reasoning      string          `json:"reasoning,omitempty"`
	Changes        []types.Change  `json:"changes,omitempty"`
	ConversationID string          `json:"conversation_id"`
	Success        bool            `json:"success"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
}

// handleUploadResume validates, stores, versions, and indexes a new resume.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		s.failWith(w, &ErrBadRequest{Message: "failed to read request body"})
		return
	}

	if err := schemas.ValidateResumeUpload(body); err != nil {
		s.failWith(w, err)
		return
	}

	var req uploadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.failWith(w, &ErrBadRequest{Message: "invalid JSON body"})
		return
	}

	if req.UserID == "" {
		req.UserID = defaultUserID
	}
	sections := req.Sections
	if len(sections) == 0 {
		sections = extract.Sections(req.RawText, nil)
	}
	if len(sections) == 0 {
		sections = []types.ResumeSection{
			{Type: types.SectionOther, Title: "Resume", Content: req.RawText, Order: 0},
		}
	}

	resume := &types.Resume{
		UserID:   req.UserID,
		Filename: req.Filename,
		RawText:  req.RawText,
		Sections: sections,
		Metadata: req.Metadata,
	}

	ctx := r.Context()
	if err := s.store.CreateResume(ctx, resume); err != nil {
		s.failWith(w, err)
		return
	}
	if err := s.store.CreateVersion(ctx, store.InitialVersion(resume)); err != nil {
		s.failWith(w, err)
		return
	}
	s.indexResume(r, resume)

	s.jsonResponse(w, http.StatusCreated, resume)
}

// indexResume upserts the full text and each non-empty section. Indexing is
// best-effort; failures are logged, never surfaced.
func (s *Server) indexResume(r *http.Request, resume *types.Resume) {
	if s.index == nil {
		return
	}
	ctx := r.Context()

	meta := resume.CloneMetadata(map[string]string{
		"kind":      "resume",
		"resume_id": resume.ID,
		"user_id":   resume.UserID,
	})
	if err := s.index.Upsert(ctx, resume.ID, resume.FullText(), meta); err != nil {
		s.logger.Warn("resume indexing failed", zap.String("resume_id", resume.ID), zap.Error(err))
		return
	}

	for _, section := range resume.Sections {
		if section.Content == "" {
			continue
		}
		sectionMeta := resume.CloneMetadata(map[string]string{
			"kind":         "resume_section",
			"resume_id":    resume.ID,
			"user_id":      resume.UserID,
			"section_type": string(section.Type),
		})
		id := fmt.Sprintf("%s/%d", resume.ID, section.Order)
		if err := s.index.Upsert(ctx, id, section.Content, sectionMeta); err != nil {
			s.logger.Warn("section indexing failed", zap.String("id", id), zap.Error(err))
		}
	}
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

func (s *Server) handleGetResumeContent(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":      resume.ID,
		"content": resume.FullText(),
	})
}

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	analysis := s.analyzer.Analyze(r.Context(), resume)
	s.jsonResponse(w, http.StatusOK, analysis)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	versions, err := s.store.ListVersions(r.Context(), resume.ID)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume_id": resume.ID,
		"versions":  versions,
	})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	number, err := pathInt(r, "n")
	if err != nil {
		s.failWith(w, err)
		return
	}

	version, err := s.store.GetVersion(r.Context(), resume.ID, number)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if version == nil {
		s.failWith(w, &ErrNotFound{Kind: "version", ID: strconv.Itoa(number)})
		return
	}
	s.jsonResponse(w, http.StatusOK, version)
}

func (s *Server) handleCompareVersions(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	from, err := pathInt(r, "a")
	if err != nil {
		s.failWith(w, err)
		return
	}
	to, err := pathInt(r, "b")
	if err != nil {
		s.failWith(w, err)
		return
	}

	ctx := r.Context()
	fromVersion, err := s.store.GetVersion(ctx, resume.ID, from)
	if err != nil {
		s.failWith(w, err)
		return
	}
	toVersion, err := s.store.GetVersion(ctx, resume.ID, to)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if fromVersion == nil || toVersion == nil {
		s.failWith(w, &ErrNotFound{Kind: "version", ID: fmt.Sprintf("%d..%d", from, to)})
		return
	}

	s.jsonResponse(w, http.StatusOK, store.CompareVersions(fromVersion, toVersion))
}

func (s *Server) handleRevertVersion(w http.ResponseWriter, r *http.Request) {
	resume, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	number, err := pathInt(r, "n")
	if err != nil {
		s.failWith(w, err)
		return
	}

	target, err := s.store.GetVersion(r.Context(), resume.ID, number)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if target == nil {
		s.failWith(w, &ErrNotFound{Kind: "version", ID: strconv.Itoa(number)})
		return
	}

	reverted, err := store.Revert(r.Context(), s.store, resume.ID, number)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reverted)
}

// handleChat routes one message through the agents and persists the outcome.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failWith(w, &ErrBadRequest{Message: "invalid JSON body"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.failWith(w, validationError(err))
		return
	}

	ctx := r.Context()
	resume, err := s.store.GetResume(ctx, req.ResumeID)
	if err != nil {
		s.failWith(w, err)
		return
	}
	if resume == nil {
		s.failWith(w, &ErrNotFound{Kind: "resume", ID: req.ResumeID})
		return
	}

	conv, err := s.loadOrCreateConversation(r, req, resume)
	if err != nil {
		s.failWith(w, err)
		return
	}

	conv.AddMessage(types.Message{
		ID:      uuid.NewString(),
		Role:    types.RoleUser,
		Content: req.Message,
	})

	result := s.router.Route(ctx, req.Message, resume, conv)

	conv.AddMessage(types.Message{
		ID:        uuid.NewString(),
		Role:      types.RoleAssistant,
		Content:   result.Message,
		AgentType: result.AgentType,
	})

	if result.Success && len(result.UpdatedSections) > 0 {
		resume.Sections = result.UpdatedSections
		if err := s.store.UpdateResume(ctx, resume); err != nil {
			s.failWith(w, err)
			return
		}
		version := &types.ResumeVersion{
			ResumeID:           resume.ID,
			Content:            resume.FullText(),
			Sections:           resume.Sections,
			ChangesDescription: result.Reasoning,
			AgentUsed:          string(result.AgentType),
		}
		if err := s.store.CreateVersion(ctx, version); err != nil {
			s.failWith(w, err)
			return
		}
	}

	if err := s.store.SaveConversation(ctx, conv); err != nil {
		s.failWith(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, chatResponse{
		Message:        result.Message,
		AgentType:      result.AgentType,
		Reasoning:      result.Reasoning,
		Changes:        result.Changes,
		ConversationID: conv.ID,
		Success:        result.Success,
		Metadata:       result.Metadata,
	})
}

func (s *Server) loadOrCreateConversation(r *http.Request, req chatRequest, resume *types.Resume) (*types.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.store.GetConversation(r.Context(), req.ConversationID)
		if err != nil {
			return nil, err
		}
		if conv != nil {
			return conv, nil
		}
	}
	return &types.Conversation{
		UserID:   resume.UserID,
		ResumeID: resume.ID,
		Context:  map[string]string{},
	}, nil
}

func (s *Server) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"agents": agents.AvailableAgents(),
	})
}

// loadResume resolves the {id} path parameter, writing the error response on
// failure.
func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) (*types.Resume, bool) {
	id := r.PathValue("id")
	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.failWith(w, err)
		return nil, false
	}
	if resume == nil {
		s.failWith(w, &ErrNotFound{Kind: "resume", ID: id})
		return nil, false
	}
	return resume, true
}

func pathInt(r *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, &ErrBadRequest{Message: fmt.Sprintf("invalid %s: must be an integer", name)}
	}
	return value, nil
}

// validationError converts validator output into the API's typed error.
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q validation", fe.Tag())}
	}
	return &ErrBadRequest{Message: err.Error()}
}
