package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies; resumes with photos as data URLs stay well below it
const maxBodyBytes = 2 << 20

// readBody reads a bounded request body
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrValidation{Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		}
		return nil, &ErrValidation{Message: "Invalid request body"}
	}
	return body, nil
}

// decodeJSON reads and decodes a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return unmarshalBody(body, v)
}

func unmarshalBody(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ErrValidation{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}
		}
		return &ErrValidation{Message: "Invalid request body"}
	}
	return nil
}

// pathUUID parses a UUID path parameter
func pathUUID(r *http.Request, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Message: "Invalid " + label + " ID"}
	}
	return id, nil
}

// required returns a validation error with message when any value is blank
func required(message string, values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return &ErrValidation{Message: message}
		}
	}
	return nil
}
