package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrValidation(t *testing.T) {
	assert.Equal(t, "email: invalid format", (&ErrValidation{Field: "email", Message: "invalid format"}).Error())
	assert.Equal(t, "Message is required", (&ErrValidation{Message: "Message is required"}).Error())
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "resume not found", (&ErrNotFound{Resource: "resume"}).Error())
}

func TestErrConflict_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := &ErrConflict{Message: "Username already exists", Cause: cause}
	assert.Equal(t, "Username already exists", err.Error())
	assert.ErrorIs(t, err, cause)
}

func fieldErrors(t *testing.T) validator.ValidationErrors {
	t.Helper()
	err := (&types.CreateUserRequest{Username: "ada", Email: "nope", Password: "short"}).Validate()
	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	return fieldErrs
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Message: "bad"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "title", Message: "Invalid type"}}}, http.StatusBadRequest},
		{"field errors", fieldErrors(t), http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "resume"}, http.StatusNotFound},
		{"db not found", &db.NotFoundError{Entity: "user", ID: "1"}, http.StatusNotFound},
		{"wrapped db not found", fmt.Errorf("create: %w", &db.NotFoundError{Entity: "user"}), http.StatusNotFound},
		{"conflict", &ErrConflict{Message: "taken"}, http.StatusConflict},
		{"db conflict", &db.ConflictError{Constraint: "users_email_key"}, http.StatusConflict},
		{"unavailable", &ErrUnavailable{Message: "down"}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation keeps message", &ErrValidation{Field: "password", Message: "must be at most 72 bytes"}, "password: must be at most 72 bytes"},
		{"schema summary", &schemas.ValidationError{Errors: []schemas.FieldError{
			{Field: "title", Message: "Invalid type"},
			{Field: "skills", Message: "Invalid type"},
		}}, "Invalid request body: title: Invalid type; skills: Invalid type"},
		{"field errors", fieldErrors(t), "Invalid request body: email: must be a valid email address; password: must be at least 8 characters"},
		{"db not found", &db.NotFoundError{Entity: "user"}, "User not found"},
		{"not found", &ErrNotFound{Resource: "resume"}, "Resume not found"},
		{"username conflict", &db.ConflictError{Constraint: "users_username_key"}, "Username already exists"},
		{"email conflict", &db.ConflictError{Constraint: "users_email_key"}, "Email already registered"},
		{"other conflict", &db.ConflictError{Constraint: "resumes_pkey"}, "Resource already exists"},
		{"unavailable", &ErrUnavailable{Message: "Export storage is not configured"}, "Export storage is not configured"},
		{"internal is hidden", errors.New("pq: connection reset"), "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
