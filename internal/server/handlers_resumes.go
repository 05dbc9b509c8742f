package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// decodeResume validates a raw body against the resume schema, then decodes it
func decodeResume(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := schemas.ValidateResumeJSON(body); err != nil {
		return err
	}
	return unmarshalBody(body, v)
}

// decodePatch decodes and validates a partial resume update
func decodePatch(w http.ResponseWriter, r *http.Request) (*types.ResumePatch, error) {
	var patch types.ResumePatch
	if err := decodeResume(w, r, &patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, &ErrValidation{Message: "No fields to update"}
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return &patch, nil
}

// loadResume fetches the resume named by the {id} path parameter
func (s *Server) loadResume(r *http.Request) (*types.Resume, error) {
	id, err := pathUUID(r, "id", "resume")
	if err != nil {
		return nil, err
	}
	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, &ErrNotFound{Resource: "resume"}
	}
	return resume, nil
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var resume types.Resume
	if err := decodeResume(w, r, &resume); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Server-assigned fields are ignored on input
	resume.ID = uuid.Nil
	resume.Normalize()
	if err := resume.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateResume(r.Context(), &resume)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.loadResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

func (s *Server) handleListUserResumes(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId", "user")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resumes, err := s.store.ListResumesByUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resumes == nil {
		resumes = []types.Resume{}
	}

	s.jsonResponse(w, http.StatusOK, resumes)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "resume")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := decodePatch(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// An explicit update supersedes any pending draft
	s.drafts.Cancel(id)

	updated, err := s.store.UpdateResume(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	resume, err := s.loadResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := decodePatch(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.drafts.Submit(resume.ID, patch); err != nil {
		if errors.Is(err, autosave.ErrStopped) {
			s.writeError(w, r, &ErrUnavailable{Message: "Server is shutting down"})
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "resume")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.drafts.Cancel(id)
	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume deleted successfully"})
}
