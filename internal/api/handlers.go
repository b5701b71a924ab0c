package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hackgods/medai-console/internal/validate"
)

const (
	msgServerError  = "Server error"
	msgInvalidJSON  = "Invalid JSON body"
	msgInvalidToken = "Token is not valid"

	msgPasswordTooLong = "Please enter a password of at most 72 characters"
)

var errInvalidJSON = errors.New("invalid JSON body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, verr *validate.Error) {
	writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: verr.Fields})
}

// writeServerError logs err against the request and answers with the
// generic 500 body.
func writeServerError(w http.ResponseWriter, r *http.Request, err error, message string) {
	zerolog.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeError(w, http.StatusInternalServerError, message)
}

// decodeJSON reads the body into dst. An empty body decodes as {}.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

// bind decodes and validates a request body, writing the 400 response itself
// when either step fails.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return false
		}
		writeServerError(w, r, err, msgServerError)
		return false
	}

	return true
}
