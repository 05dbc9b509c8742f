package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/types"
)

// AI endpoints never fail because of the model: the service falls back to
// deterministic content, so only request validation produces errors here.

// ImproveTextRequest is the body of POST /ai/improve-text
type ImproveTextRequest struct {
	Text           string `json:"text"`
	Context        string `json:"context"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// GenerateSummaryRequest is the body of POST /ai/generate-summary.
// Pointers distinguish a missing section from an empty one.
type GenerateSummaryRequest struct {
	PersonalInfo   *types.PersonalInfo     `json:"personalInfo"`
	Experience     *[]types.ExperienceItem `json:"experience"`
	Skills         *[]types.SkillCategory  `json:"skills"`
	JobDescription string                  `json:"jobDescription,omitempty"`
}

// AnalyzeATSRequest is the body of POST /ai/analyze-ats
type AnalyzeATSRequest struct {
	ResumeData     *types.Resume `json:"resumeData"`
	JobDescription string        `json:"jobDescription,omitempty"`
}

// AnalyzeTextRequest is the body of POST /ai/analyze-text
type AnalyzeTextRequest struct {
	Text           string `json:"text"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// SuggestionsRequest is the body of POST /ai/suggestions
type SuggestionsRequest struct {
	ResumeData *types.Resume `json:"resumeData"`
	Section    string        `json:"section"`
}

// ChatRequest is the body of POST /ai/chat
type ChatRequest struct {
	Message             string              `json:"message"`
	ResumeData          *types.Resume       `json:"resumeData,omitempty"`
	ConversationHistory []types.ChatMessage `json:"conversationHistory,omitempty"`
}

// SectionAdviceRequest is the body of POST /ai/chat/section-advice
type SectionAdviceRequest struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

// CareerAdviceRequest is the body of POST /ai/chat/career-advice
type CareerAdviceRequest struct {
	JobTitle   string                 `json:"jobTitle"`
	Experience []types.ExperienceItem `json:"experience,omitempty"`
}

func (s *Server) handleImproveText(w http.ResponseWriter, r *http.Request) {
	var req ImproveTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("Text and context are required", req.Text, req.Context); err != nil {
		s.writeError(w, r, err)
		return
	}

	improved := s.ai.ImproveText(r.Context(), req.Text, req.Context, req.JobDescription)
	s.jsonResponse(w, http.StatusOK, map[string]string{"improvedText": improved})
}

func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req GenerateSummaryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.PersonalInfo == nil || req.Experience == nil || req.Skills == nil {
		s.writeError(w, r, &ErrValidation{Message: "Personal info, experience, and skills are required"})
		return
	}

	summary := s.ai.GenerateSummary(r.Context(), *req.PersonalInfo, *req.Experience, *req.Skills, req.JobDescription)
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleAnalyzeATS(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeATSRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ResumeData == nil {
		s.writeError(w, r, &ErrValidation{Message: "Resume data is required"})
		return
	}

	s.jsonResponse(w, http.StatusOK, s.ai.AnalyzeResume(r.Context(), req.ResumeData, req.JobDescription))
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("Text is required", req.Text); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ats.Analyze(req.Text, req.JobDescription))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ResumeData == nil || required("", req.Section) != nil {
		s.writeError(w, r, &ErrValidation{Message: "Resume data and section are required"})
		return
	}

	s.jsonResponse(w, http.StatusOK, s.ai.Suggestions(r.Context(), req.ResumeData, req.Section))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("Message is required", req.Message); err != nil {
		s.writeError(w, r, err)
		return
	}
	for i, turn := range req.ConversationHistory {
		if turn.Role != types.RoleUser && turn.Role != types.RoleAssistant {
			s.writeError(w, r, &ErrValidation{
				Field:   fmt.Sprintf("conversationHistory.%d.role", i),
				Message: "must be user or assistant",
			})
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, s.ai.Chat(r.Context(), req.Message, req.ResumeData, req.ConversationHistory))
}

func (s *Server) handleSectionAdvice(w http.ResponseWriter, r *http.Request) {
	var req SectionAdviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("Section and content are required", req.Section, req.Content); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.ai.SectionAdvice(r.Context(), req.Section, req.Content))
}

func (s *Server) handleCareerAdvice(w http.ResponseWriter, r *http.Request) {
	var req CareerAdviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("Job title is required", req.JobTitle); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.ai.CareerAdvice(r.Context(), req.JobTitle, req.Experience))
}
