package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/types"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, config.ErrPasswordTooLong) {
			s.writeError(w, r, &ErrValidation{Field: "password", Message: "must be at most 72 bytes"})
			return
		}
		s.writeError(w, r, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id", "user")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}
