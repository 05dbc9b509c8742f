package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// ErrConflict indicates a uniqueness violation
type ErrConflict struct {
	Message string
	Cause   error
}

func (e *ErrConflict) Error() string {
	return e.Message
}

func (e *ErrConflict) Unwrap() error {
	return e.Cause
}

// ErrUnavailable indicates an optional backend is not configured or stopped
type ErrUnavailable struct {
	Message string
}

func (e *ErrUnavailable) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		fieldErrs     validator.ValidationErrors
		notFoundErr   *ErrNotFound
		dbNotFound    *db.NotFoundError
		conflictErr   *ErrConflict
		dbConflict    *db.ConflictError
		unavailable   *ErrUnavailable
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.As(err, &dbNotFound):
		return http.StatusNotFound
	case errors.As(err, &conflictErr), errors.As(err, &dbConflict):
		return http.StatusConflict
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the client-facing message for err. Server errors are
// not described to the client.
func ErrorMessage(err error) string {
	var (
		validationErr *ErrValidation
		schemaErr     *schemas.ValidationError
		fieldErrs     validator.ValidationErrors
		dbNotFound    *db.NotFoundError
		dbConflict    *db.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &schemaErr):
		return "Invalid request body: " + schemaErr.Summary()
	case errors.As(err, &fieldErrs):
		return "Invalid request body: " + describeFieldErrors(fieldErrs)
	case errors.As(err, &dbNotFound):
		return capitalize(dbNotFound.Entity) + " not found"
	case errors.As(err, &dbConflict):
		return conflictMessage(dbConflict.Constraint)
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return capitalize(err.Error())
}

func conflictMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "username"):
		return "Username already exists"
	case strings.Contains(constraint, "email"):
		return "Email already registered"
	default:
		return "Resource already exists"
	}
}

func describeFieldErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, describeFieldError(fe))
	}
	return strings.Join(parts, "; ")
}

// describeFieldError phrases a validator failure using the JSON field path
func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return field + ": is required"
	case "email":
		return field + ": must be a valid email address"
	case "url":
		return field + ": must be a valid URL"
	case "min":
		return fmt.Sprintf("%s: must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
